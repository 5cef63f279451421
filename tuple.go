package logootsplit

import "cmp"

// Int32Top and Int32Bottom bound every field of a Tuple. They match the
// signed 32-bit range regardless of the host's int size.
const (
	Int32Top    = int32(1<<31 - 1)
	Int32Bottom = int32(-1 << 31)
)

// Tuple is one level of a position identifier: (random, replicaNumber,
// clock, offset). Order is lexicographic on the four fields in that
// order. Two tuples share a "base" when random, replicaNumber and clock
// agree, differing at most in offset.
type Tuple struct {
	Random        int32
	ReplicaNumber int32
	Clock         int32
	Offset        int32
}

// MinTuple and MaxTuple are the sentinel tuples used as virtual bounds
// when generating identifiers at the start or end of a sequence, and as
// padding in createBetweenPosition past the end of a shorter bound.
var (
	MinTuple = Tuple{Random: Int32Bottom}
	MaxTuple = Tuple{Random: Int32Top}
)

// compare orders two tuples lexicographically on (random, replicaNumber,
// clock, offset).
func (t Tuple) compare(o Tuple) int {
	if c := cmp.Compare(t.Random, o.Random); c != 0 {
		return c
	}
	if c := cmp.Compare(t.ReplicaNumber, o.ReplicaNumber); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Clock, o.Clock); c != 0 {
		return c
	}
	return cmp.Compare(t.Offset, o.Offset)
}

// sameBase reports whether t and o agree on random, replicaNumber and
// clock, i.e. they could be two offsets of the same identifier interval.
func (t Tuple) sameBase(o Tuple) bool {
	return t.Random == o.Random && t.ReplicaNumber == o.ReplicaNumber && t.Clock == o.Clock
}

// withOffset returns a copy of t with Offset replaced.
func (t Tuple) withOffset(offset int32) Tuple {
	t.Offset = offset
	return t
}
