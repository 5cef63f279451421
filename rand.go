package logootsplit

import "math/rand/v2"

// midpointInt32Source is a deterministic Int32Source used internally by
// RenamingMap.reverseRename (renaming.go), which must be a pure function
// of its inputs (spec.md §4.9: "all algorithms are deterministic given
// their inputs") and so cannot draw from any random source.
type midpointInt32Source struct{}

func (midpointInt32Source) Int32n(lo, hi int32) int32 {
	return int32(int64(lo) + (int64(hi)-int64(lo))/2)
}

// SeededInt32Source is a reproducible Int32Source for tests: same seed,
// same sequence of generated identifiers, so scenario tests can assert
// exact tree shapes instead of only structural properties.
type SeededInt32Source struct {
	rng *rand.Rand
}

// NewSeededInt32Source builds a source seeded deterministically from
// seed, independent of the process's global random state.
func NewSeededInt32Source(seed uint64) *SeededInt32Source {
	return &SeededInt32Source{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *SeededInt32Source) Int32n(lo, hi int32) int32 {
	span := int64(hi) - int64(lo) - 1
	return lo + 1 + int32(s.rng.Int64N(span))
}
