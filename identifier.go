package logootsplit

import (
	"slices"
	"strconv"
)

// Identifier is a nonempty sequence of tuples, totally ordered
// lexicographically: shorter is smaller when it is a prefix of the
// longer one. Identifiers are immutable once constructed; every method
// that "modifies" one returns a new value.
type Identifier []Tuple

// NewIdentifier builds an Identifier from its tuples, requiring at least
// one. An empty Identifier is a contract violation: it cannot appear on
// the wire or be compared meaningfully.
func NewIdentifier(tuples ...Tuple) Identifier {
	if len(tuples) == 0 {
		panicf("identifier: NewIdentifier requires at least one tuple")
	}
	return Identifier(slices.Clone(tuples))
}

// compareTo orders identifiers lexicographically by tuple, with the
// shorter identifier ordering first when it is a prefix of the longer.
func (id Identifier) compareTo(o Identifier) int {
	n := min(len(id), len(o))
	for i := 0; i < n; i++ {
		if c := id[i].compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(id) < len(o):
		return -1
	case len(id) > len(o):
		return 1
	default:
		return 0
	}
}

func (id Identifier) less(o Identifier) bool    { return id.compareTo(o) < 0 }
func (id Identifier) equal(o Identifier) bool   { return id.compareTo(o) == 0 }
func (id Identifier) greater(o Identifier) bool { return id.compareTo(o) > 0 }

// Compare, Less, Equal and Greater are compareTo and its boolean forms,
// exported for callers outside the package that need to order or
// deduplicate identifiers (e.g. to render conflict resolution order).
func (id Identifier) Compare(o Identifier) int  { return id.compareTo(o) }
func (id Identifier) Less(o Identifier) bool    { return id.less(o) }
func (id Identifier) Equal(o Identifier) bool   { return id.equal(o) }
func (id Identifier) Greater(o Identifier) bool { return id.greater(o) }

// lastOffset returns the offset field of the identifier's last tuple.
func (id Identifier) lastOffset() int32 {
	return id[len(id)-1].Offset
}

// lastTuple returns the identifier's last tuple.
func (id Identifier) lastTuple() Tuple {
	return id[len(id)-1]
}

// fromBase returns an identifier with the same base as id (all tuples
// but the last, and the last tuple's non-offset fields) but with the
// last tuple's offset replaced by newOffset.
func (id Identifier) fromBase(newOffset int32) Identifier {
	out := slices.Clone(id)
	out[len(out)-1] = out[len(out)-1].withOffset(newOffset)
	return out
}

// FromBase is fromBase exported for callers outside the package that
// need to build sibling identifiers sharing id's base (e.g. test
// fixtures covering a whole renamed run).
func (id Identifier) FromBase(newOffset int32) Identifier { return id.fromBase(newOffset) }

// truncate splits id into the first k tuples (head) and the rest
// (tail). It panics if k is out of [0, len(id)].
func (id Identifier) truncate(k int) (head, tail Identifier) {
	if k < 0 || k > len(id) {
		panicf("identifier: truncate(%d) out of range for length %d", k, len(id))
	}
	return slices.Clone(id[:k]), slices.Clone(id[k:])
}

// getTail returns the tuples of id starting at index k.
func (id Identifier) getTail(k int) Identifier {
	if k < 0 || k > len(id) {
		panicf("identifier: getTail(%d) out of range for length %d", k, len(id))
	}
	return slices.Clone(id[k:])
}

// equalsBase reports whether id and o have the same length and share a
// base: every tuple but the last is identical (base and offset), and the
// last tuples share a base (random/replicaNumber/clock equal, offset may
// differ).
func (id Identifier) equalsBase(o Identifier) bool {
	if len(id) != len(o) {
		return false
	}
	for i := 0; i < len(id)-1; i++ {
		if id[i] != o[i] {
			return false
		}
	}
	return id[len(id)-1].sameBase(o[len(o)-1])
}

// isPrefix reports whether id is a (non-strict) prefix of o.
func (id Identifier) isPrefix(o Identifier) bool {
	if len(id) > len(o) {
		return false
	}
	for i := range id {
		if id[i] != o[i] {
			return false
		}
	}
	return true
}

// concat appends o's tuples after id's, producing a descendant
// identifier (used by RenamingMap.rename when an id was inserted
// concurrently with a rename).
func (id Identifier) concat(o Identifier) Identifier {
	out := make(Identifier, 0, len(id)+len(o))
	out = append(out, id...)
	out = append(out, o...)
	return out
}

// Concat is concat exported for callers outside the package.
func (id Identifier) Concat(o Identifier) Identifier { return id.concat(o) }

// Clone returns an independent copy of id.
func (id Identifier) Clone() Identifier {
	return slices.Clone(id)
}

func (id Identifier) String() string {
	s := make([]byte, 0, len(id)*16)
	s = append(s, '[')
	for i, t := range id {
		if i > 0 {
			s = append(s, ',')
		}
		s = appendTuple(s, t)
	}
	s = append(s, ']')
	return string(s)
}

func appendTuple(s []byte, t Tuple) []byte {
	return append(s, []byte(
		"("+itoa(t.Random)+","+itoa(t.ReplicaNumber)+","+itoa(t.Clock)+","+itoa(t.Offset)+")",
	)...)
}

func itoa(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}
