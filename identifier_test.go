package logootsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqcrdt/logootsplit"
)

func TestNewIdentifierRejectsEmpty(t *testing.T) {
	assert.Panics(t, func() { logootsplit.NewIdentifier() })
}

func TestIdentifierOrderingIsTotalAndTransitive(t *testing.T) {
	a := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 1, ReplicaNumber: 0, Clock: 0, Offset: 0})
	b := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 1, ReplicaNumber: 0, Clock: 0, Offset: 1})
	c := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 2, ReplicaNumber: 0, Clock: 0, Offset: 0})

	for _, pair := range [][2]logootsplit.Identifier{{a, b}, {b, c}, {a, c}} {
		x, y := pair[0], pair[1]
		count := 0
		if x.Less(y) {
			count++
		}
		if x.Equal(y) {
			count++
		}
		if x.Greater(y) {
			count++
		}
		require.Equal(t, 1, count, "exactly one of <,=,> must hold for %v and %v", x, y)
	}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.True(t, a.Less(c), "< must be transitive")
}

func TestShorterIdentifierIsSmallerWhenPrefix(t *testing.T) {
	base := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 5, ReplicaNumber: 1, Clock: 0, Offset: 3})
	descendant := base.Clone()
	descendant = append(descendant, logootsplit.Tuple{Random: 9, ReplicaNumber: 2, Clock: 0, Offset: 0})

	assert.True(t, base.Less(descendant))
}

func TestConcatProducesStrictDescendant(t *testing.T) {
	head := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 1, ReplicaNumber: 0, Clock: 0, Offset: 0})
	tail := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 7, ReplicaNumber: 3, Clock: 9, Offset: 2})

	got := head.Concat(tail)
	require.Len(t, got, 2)
	assert.True(t, head.Less(got))
}
