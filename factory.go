package logootsplit

import "math/rand/v2"

// Int32Source draws a uniformly distributed int32 strictly between lo
// and hi (an open interval, lo < hi). Factored out of createBetweenPosition
// per spec.md §9's "parameterize the factory with a pluggable uniform
// integer source" design note, so tests can make identifier generation
// deterministic (the default source is below; see rand.go for a seeded
// test source),
// matching the way the teacher seeds its treap priorities at node
// construction time (gaissmai/cidrtree's makeNode).
type Int32Source interface {
	// Int32n returns a value in the open interval (lo, hi). The caller
	// guarantees hi-lo >= 2, i.e. at least one integer exists strictly
	// between them.
	Int32n(lo, hi int32) int32
}

// defaultInt32Source draws from math/rand/v2's global source.
type defaultInt32Source struct{}

// DefaultInt32Source is the Int32Source used when none is supplied
// explicitly.
var DefaultInt32Source Int32Source = defaultInt32Source{}

func (defaultInt32Source) Int32n(lo, hi int32) int32 {
	span := int64(hi) - int64(lo) - 1
	return lo + 1 + int32(rand.Int64N(span))
}

// virtual bound markers for createBetweenPosition: nil means "use the
// sentinel MIN_TUPLE/MAX_TUPLE padding instead of a real identifier".

// createBetweenPosition generates a fresh identifier strictly between
// id1 and id2 (either may be nil, meaning the virtual -infinity/+infinity
// bound), tagged with replicaNumber/clock on its one fresh tuple.
//
// It walks id1 and id2 tuple by tuple (padding the shorter with
// MinTuple/MaxTuple past its end), inheriting tuples from id1 while the
// gap between the two randoms at the current depth is too small to fit
// a fresh integer, then injecting a new tuple once the gap admits one.
// The inherited prefix guarantees the result is > id1 (same prefix,
// exhausted id1 pads with MinTuple which is <= anything); the fresh
// tuple, strictly between the two randoms at that depth, guarantees
// the result is < id2.
func createBetweenPosition(id1, id2 Identifier, replicaNumber, clock int32, src Int32Source) Identifier {
	if src == nil {
		src = DefaultInt32Source
	}
	if id1 != nil && id2 != nil && !id1.less(id2) {
		panicf("factory: createBetweenPosition requires id1 < id2, got %v >= %v", id1, id2)
	}

	var out Identifier
	depth := 0
	for {
		t1 := tupleAt(id1, depth, MinTuple)
		t2 := tupleAt(id2, depth, MaxTuple)

		if int64(t2.Random)-int64(t1.Random) >= 2 {
			random := src.Int32n(t1.Random, t2.Random)
			out = append(out, Tuple{Random: random, ReplicaNumber: replicaNumber, Clock: clock, Offset: 0})
			return out
		}

		out = append(out, t1)
		depth++
	}
}

// tupleAt returns the tuple at depth in id, or sentinel if id is shorter
// than depth+1 (including id == nil, the virtual bound case).
func tupleAt(id Identifier, depth int, sentinel Tuple) Tuple {
	if depth < len(id) {
		return id[depth]
	}
	return sentinel
}
