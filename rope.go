package logootsplit

import (
	"fmt"
	"io"
)

// Rope is the balanced block tree (spec.md §4.4's RopesNodes): it maps
// integer positions in the materialized sequence to identifiers and
// back, storing runs of consecutive identifiers as single AVL nodes
// where possible. The zero value is an empty rope, ready to use.
type Rope struct {
	root *node
}

// Len returns the number of live elements in the rope.
func (rt *Rope) Len() int64 {
	return size(rt.root)
}

// IdentifierAt returns the identifier at position pos (0-based).
// Panics if pos is out of range.
func (rt *Rope) IdentifierAt(pos int64) Identifier {
	n, offset := search(rt.root, pos)
	return n.block.Interval.Base.fromBase(n.offsetBegin + offset)
}

// InsertLocal reserves space for `length` new elements at position pos
// (0 <= pos <= Len()), generating a single fresh identifier interval
// strictly between the identifiers currently at pos-1 and pos (virtual
// bounds at the ends of the sequence), tagged with replicaNumber/clock
// and drawn from src (nil uses DefaultInt32Source). It both creates the
// backing node and returns the interval the caller should publish as an
// InsertOp.
func (rt *Rope) InsertLocal(pos int64, length int32, replicaNumber, clock int32, src Int32Source) IdentifierInterval {
	if length <= 0 {
		panicf("rope: InsertLocal requires length > 0, got %d", length)
	}
	n := rt.Len()
	if pos < 0 || pos > n {
		panicf("rope: InsertLocal position %d out of range [0,%d]", pos, n)
	}

	var before, after Identifier
	if pos > 0 {
		before = rt.IdentifierAt(pos - 1)
	}
	if pos < n {
		after = rt.IdentifierAt(pos)
	}

	newID := createBetweenPosition(before, after, replicaNumber, clock, src)
	iv := IdentifierInterval{Base: newID, Begin: 0, End: length - 1}

	rt.root = insertNode(rt.root, newLeafNode(iv))
	return iv
}

// InsertRemote applies a remotely generated insert: it locates the
// interval's position by identifier comparison and either extends an
// adjacent block sharing the same base and an abutting offset
// (opportunistic, spec.md §4.4's "addBlock" merge — not required for
// correctness, only for compactness) or creates a new node.
func (rt *Rope) InsertRemote(iv IdentifierInterval) {
	if rt.tryGrowAdjacent(iv) {
		return
	}
	rt.root = insertNode(rt.root, newLeafNode(iv))
}

// tryGrowAdjacent looks for an existing node sharing iv's base whose
// live range directly abuts iv on either side, and if found, extends it
// in place instead of allocating a new node. Returns whether a merge
// happened.
func (rt *Rope) tryGrowAdjacent(iv IdentifierInterval) bool {
	if path := predecessorPath(rt.root, iv.First()); path != nil {
		pred := path[len(path)-1]
		predIv := IdentifierInterval{Base: pred.block.Interval.Base, Begin: pred.offsetBegin, End: pred.offsetEnd}
		if predIv.abuts(iv) {
			merged := predIv.union(iv)
			pred.offsetEnd = merged.End
			pred.block.Interval.End = merged.End
			pred.block.NbElement += iv.Length()
			recalcPath(path)
			return true
		}
	}
	if path := successorPath(rt.root, iv.Last()); path != nil {
		succ := path[len(path)-1]
		succIv := IdentifierInterval{Base: succ.block.Interval.Base, Begin: succ.offsetBegin, End: succ.offsetEnd}
		if iv.abuts(succIv) {
			merged := iv.union(succIv)
			succ.offsetBegin = merged.Begin
			succ.block.Interval.Begin = merged.Begin
			succ.block.NbElement += iv.Length()
			recalcPath(path)
			return true
		}
	}
	return false
}

// DelLocal removes the live elements at positions [begin, end]
// (inclusive, 0-based) and returns the identifier intervals that were
// removed — possibly several, if the range crosses nodes backed by
// different original inserts.
func (rt *Rope) DelLocal(begin, end int64) []IdentifierInterval {
	if begin < 0 || end < begin || end >= rt.Len() {
		panicf("rope: DelLocal(%d,%d) out of range for length %d", begin, end, rt.Len())
	}
	var removed []IdentifierInterval
	remaining := end - begin + 1
	for remaining > 0 {
		newRoot, iv, chunkLen := deletePositionChunk(rt.root, begin, remaining)
		rt.root = newRoot
		removed = append(removed, iv)
		remaining -= chunkLen
	}
	return removed
}

// DelRemote removes the elements covered by iv if still present.
// Re-deleting an already-absent sub-range is a no-op: the returned
// slice only reports the portions that were actually live, which may
// be empty.
func (rt *Rope) DelRemote(iv IdentifierInterval) []IdentifierInterval {
	var removed []IdentifierInterval
	from := iv.Begin
	for from <= iv.End {
		newRoot, chunkLen := deleteIdentifierChunk(rt.root, iv.Base, from, iv.End)
		rt.root = newRoot
		if chunkLen == 0 {
			from++
			continue
		}
		removed = append(removed, IdentifierInterval{Base: iv.Base, Begin: from, End: from + chunkLen - 1})
		from += chunkLen
	}
	return removed
}

// deletePositionChunk removes up to `want` live positions starting at
// 0-based position pos within the subtree rooted at n. It never crosses
// a node boundary in one call: chunkLen (the count actually removed) is
// capped at the span of whichever single node holds position pos, so
// the caller loops to cover a range spanning several nodes.
func deletePositionChunk(n *node, pos, want int64) (newRoot *node, removed IdentifierInterval, chunkLen int64) {
	if n == nil {
		panicf("rope: delete position out of range")
	}
	ls := size(n.left)
	switch {
	case pos < ls:
		newLeft, iv, cnt := deletePositionChunk(n.left, pos, want)
		n.left = newLeft
		return fixup(n), iv, cnt
	case pos < ls+span(n):
		offsetInNode := int32(pos - ls)
		spanLen := int32(span(n))
		cnt := want
		if int64(spanLen-offsetInNode) < cnt {
			cnt = int64(spanLen - offsetInNode)
		}
		from := n.offsetBegin + offsetInNode
		to := from + int32(cnt) - 1
		iv := IdentifierInterval{Base: n.block.Interval.Base, Begin: from, End: to}
		n.block.NbElement -= int32(cnt)

		switch {
		case from == n.offsetBegin && to == n.offsetEnd:
			return joinSubtrees(n.left, n.right), iv, cnt
		case from == n.offsetBegin:
			n.offsetBegin = to + 1
			return fixup(n), iv, cnt
		case to == n.offsetEnd:
			n.offsetEnd = from - 1
			return fixup(n), iv, cnt
		default:
			right := n.splitNodeAt(to)
			n.offsetEnd = from - 1
			n.recalc()
			n.right = insertNode(n.right, right)
			return fixup(n), iv, cnt
		}
	default:
		newRight, iv, cnt := deletePositionChunk(n.right, pos-ls-span(n), want)
		n.right = newRight
		return fixup(n), iv, cnt
	}
}

// deleteIdentifierChunk removes the live run [from,to] ∩ (whatever
// single node currently holds offset `from` of base) — analogous to
// deletePositionChunk but located by identifier rather than position,
// and idempotent: if no node currently holds `from`, it returns
// chunkLen 0 without modifying the tree (§4.9: re-deleting an absent
// range is a no-op).
func deleteIdentifierChunk(n *node, base Identifier, from, to int32) (newRoot *node, chunkLen int32) {
	if n == nil {
		return nil, 0
	}
	id := base.fromBase(from)
	switch {
	case id.less(n.firstIdentifier()):
		newLeft, cnt := deleteIdentifierChunk(n.left, base, from, to)
		n.left = newLeft
		return fixup(n), cnt
	case n.lastIdentifier().less(id):
		newRight, cnt := deleteIdentifierChunk(n.right, base, from, to)
		n.right = newRight
		return fixup(n), cnt
	default:
		actualTo := to
		if n.offsetEnd < actualTo {
			actualTo = n.offsetEnd
		}
		cnt := actualTo - from + 1
		n.block.NbElement -= cnt

		switch {
		case from == n.offsetBegin && actualTo == n.offsetEnd:
			return joinSubtrees(n.left, n.right), cnt
		case from == n.offsetBegin:
			n.offsetBegin = actualTo + 1
			return fixup(n), cnt
		case actualTo == n.offsetEnd:
			n.offsetEnd = from - 1
			return fixup(n), cnt
		default:
			right := n.splitNodeAt(actualTo)
			n.offsetEnd = from - 1
			n.recalc()
			n.right = insertNode(n.right, right)
			return fixup(n), cnt
		}
	}
}

// Walk performs an in-order traversal over the rope's live intervals.
func (rt *Rope) Walk(cb func(iv IdentifierInterval) bool) {
	rt.root.walk(cb)
}

// FprintTree writes a horizontal diagram of the rope's AVL structure to
// w, in the style of the teacher's fprintBST debug dumper
// (gaissmai/cidrtree's debug.go) — identifier intervals and live counts
// instead of CIDRs and next hops. Debugging/testing use only.
func (rt *Rope) FprintTree(w io.Writer) error {
	if rt.root == nil {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	if _, err := fmt.Fprint(w, "R "); err != nil {
		return err
	}
	return rt.root.fprint(w, "")
}

func (n *node) fprint(w io.Writer, pad string) error {
	if _, err := fmt.Fprintf(w, "%v..%d [h:%d size:%d]\n", n.firstIdentifier(), n.offsetEnd, n.height, n.size); err != nil {
		return err
	}
	var glyph, spacer string
	if n.left != nil {
		if n.right != nil {
			glyph, spacer = "├─l ", "│   "
		} else {
			glyph, spacer = "└─l ", "    "
		}
		if _, err := fmt.Fprint(w, pad+glyph); err != nil {
			return err
		}
		if err := n.left.fprint(w, pad+spacer); err != nil {
			return err
		}
	}
	if n.right != nil {
		glyph, spacer = "└─r ", "    "
		if _, err := fmt.Fprint(w, pad+glyph); err != nil {
			return err
		}
		if err := n.right.fprint(w, pad+spacer); err != nil {
			return err
		}
	}
	return nil
}
