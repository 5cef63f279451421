package logootsplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBetweenPositionBracketsBothBounds(t *testing.T) {
	lo := NewIdentifier(Tuple{Random: 0, ReplicaNumber: 1, Clock: 0, Offset: 0})
	hi := NewIdentifier(Tuple{Random: 1000, ReplicaNumber: 2, Clock: 0, Offset: 0})

	got := createBetweenPosition(lo, hi, 9, 1, NewSeededInt32Source(1))

	assert.True(t, lo.less(got))
	assert.True(t, got.less(hi))
}

func TestCreateBetweenPositionAtOpenEnds(t *testing.T) {
	hi := NewIdentifier(Tuple{Random: 5, ReplicaNumber: 0, Clock: 0, Offset: 0})
	got := createBetweenPosition(nil, hi, 1, 0, DefaultInt32Source)
	assert.True(t, got.less(hi))

	lo := NewIdentifier(Tuple{Random: -5, ReplicaNumber: 0, Clock: 0, Offset: 0})
	got2 := createBetweenPosition(lo, nil, 1, 0, DefaultInt32Source)
	assert.True(t, lo.less(got2))
}

func TestCreateBetweenPositionRejectsMisorderedBounds(t *testing.T) {
	id := NewIdentifier(Tuple{Random: 1})
	assert.Panics(t, func() { createBetweenPosition(id, id, 0, 0, DefaultInt32Source) })
}

func TestCreateBetweenPositionIsDense(t *testing.T) {
	lo := NewIdentifier(Tuple{Random: 0, ReplicaNumber: 0, Clock: 0, Offset: 0})
	hi := NewIdentifier(Tuple{Random: 1, ReplicaNumber: 0, Clock: 0, Offset: 0})

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		mid := createBetweenPosition(lo, hi, int32(i), 0, NewSeededInt32Source(uint64(i)))
		require.True(t, lo.less(mid) && mid.less(hi))
		seen[mid.String()] = true
		hi = mid
	}
	assert.Greater(t, len(seen), 1, "repeated narrowing must keep finding distinct identifiers")
}

func TestCreateBetweenPositionOnAdjacentOffsetsProducesSplitShape(t *testing.T) {
	base := NewIdentifier(Tuple{Random: 100, ReplicaNumber: 1, Clock: 0, Offset: 0})
	lower := base.fromBase(4)
	upper := base.fromBase(5)

	mid := createBetweenPosition(lower, upper, 2, 0, DefaultInt32Source)

	require.Len(t, mid, len(base)+1)
	head, _ := mid.truncate(len(base))
	assert.True(t, head.equal(lower))
}
