package logootsplit

// IdentifierInterval is a contiguous run of identifiers sharing a common
// base: {base with its last offset set to o : begin <= o <= end}. Base
// holds a whole identifier of the run; only its last tuple's offset is
// ignored (replaced by o). It is the
// unit the rope tree stores: a run of consecutive identifiers that can
// be addressed as a whole without materializing every member.
type IdentifierInterval struct {
	Base  Identifier
	Begin int32
	End   int32
}

// NewIdentifierInterval builds an interval from an identifier (stored
// whole as the base; its last tuple's offset is ignored) and an
// inclusive [begin, end] offset range.
func NewIdentifierInterval(id Identifier, begin, end int32) IdentifierInterval {
	if begin > end {
		panicf("identifierInterval: begin %d > end %d", begin, end)
	}
	return IdentifierInterval{Base: id.Clone(), Begin: begin, End: end}
}

// Length returns the number of identifiers the interval covers.
func (iv IdentifierInterval) Length() int32 {
	return iv.End - iv.Begin + 1
}

// IdentifierAt returns the full identifier at the given offset within
// the interval (begin <= offset <= end is the caller's responsibility
// to uphold for a meaningful result, though this is not checked here
// since intervals are sometimes probed just past an edge during tree
// bookkeeping).
func (iv IdentifierInterval) IdentifierAt(offset int32) Identifier {
	return iv.Base.fromBase(offset)
}

// First returns the identifier at Begin.
func (iv IdentifierInterval) First() Identifier { return iv.IdentifierAt(iv.Begin) }

// Last returns the identifier at End.
func (iv IdentifierInterval) Last() Identifier { return iv.IdentifierAt(iv.End) }

// sameBase reports whether iv and o share the same base identifier,
// i.e. are offsets into the same run.
func (iv IdentifierInterval) sameBase(o IdentifierInterval) bool {
	return iv.First().equalsBase(o.First())
}

// abuts reports whether o's range starts exactly where iv's ends (same
// base), i.e. appending o to iv would produce a single contiguous run.
func (iv IdentifierInterval) abuts(o IdentifierInterval) bool {
	return iv.sameBase(o) && o.Begin == iv.End+1
}

// overlaps reports whether iv and o (same base) share at least one
// offset.
func (iv IdentifierInterval) overlaps(o IdentifierInterval) bool {
	return iv.sameBase(o) && iv.Begin <= o.End && o.Begin <= iv.End
}

// union returns the smallest contiguous interval containing both iv and
// pos2's range. Per spec.md §4.3 this requires iv and pos2 to share a
// base and to overlap or abut; otherwise the union is undefined and the
// precondition violation is a contract bug in the caller.
func (iv IdentifierInterval) union(pos2 IdentifierInterval) IdentifierInterval {
	if !iv.overlaps(pos2) && !iv.abuts(pos2) && !pos2.abuts(iv) {
		panicf("identifierInterval: union requires overlapping or abutting intervals, got %v and %v", iv, pos2)
	}
	begin := iv.Begin
	if pos2.Begin < begin {
		begin = pos2.Begin
	}
	end := iv.End
	if pos2.End > end {
		end = pos2.End
	}
	return IdentifierInterval{Base: iv.Base, Begin: begin, End: end}
}

// split divides iv into up to two intervals by removing the inclusive
// offset range [from, to] (which must lie within iv). It returns the
// remaining left and right pieces, either of which may be the zero
// value (hasLeft/hasRight false) if nothing remains on that side.
func (iv IdentifierInterval) split(from, to int32) (left, right IdentifierInterval, hasLeft, hasRight bool) {
	if from < iv.Begin || to > iv.End || from > to {
		panicf("identifierInterval: split(%d,%d) out of range for %v", from, to, iv)
	}
	if from > iv.Begin {
		left = IdentifierInterval{Base: iv.Base, Begin: iv.Begin, End: from - 1}
		hasLeft = true
	}
	if to < iv.End {
		right = IdentifierInterval{Base: iv.Base, Begin: to + 1, End: iv.End}
		hasRight = true
	}
	return
}

func (iv IdentifierInterval) String() string {
	return iv.First().String() + ".." + itoa(iv.End)
}
