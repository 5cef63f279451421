package logootsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqcrdt/logootsplit"
)

func TestMinMaxTupleAreExtremal(t *testing.T) {
	ordinary := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 42, ReplicaNumber: 1, Clock: 1, Offset: 0})
	min := logootsplit.NewIdentifier(logootsplit.MinTuple)
	max := logootsplit.NewIdentifier(logootsplit.MaxTuple)

	assert.True(t, min.Less(ordinary))
	assert.True(t, ordinary.Less(max))
}

func TestTupleTotalOrder(t *testing.T) {
	a := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 1, ReplicaNumber: 1, Clock: 1, Offset: 0})
	b := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 2, ReplicaNumber: 0, Clock: 0, Offset: 0})

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}
