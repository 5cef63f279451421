package logootsplit

// node is one AVL node of the rope tree. It represents the live
// sub-interval [offsetBegin..offsetEnd] of block: a contiguous run of
// identifiers sharing block's base. size is the count of live elements
// in this node plus both subtrees (sizeNodeAndChildren in spec.md §3),
// maintained bottom-up after every mutation so position lookups run in
// O(log n). height is the usual AVL height, used to keep the tree
// balanced within one via single/double rotations.
type node struct {
	block       *Block
	offsetBegin int32
	offsetEnd   int32
	left, right *node
	height      int
	size        int64
}

func span(n *node) int64 {
	return int64(n.offsetEnd-n.offsetBegin) + 1
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size(n *node) int64 {
	if n == nil {
		return 0
	}
	return n.size
}

// recalc recomputes height and size from the node's own span and its
// children, one level deep — the same discipline the teacher's treap
// uses after every mutation (gaissmai/cidrtree's node.recalc), just
// augmenting a live-element count instead of a maxUpper pointer.
func (n *node) recalc() {
	if n == nil {
		return
	}
	h := height(n.left)
	if rh := height(n.right); rh > h {
		h = rh
	}
	n.height = h + 1
	n.size = span(n) + size(n.left) + size(n.right)
}

func (n *node) balanceFactor() int {
	return height(n.left) - height(n.right)
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	n.recalc()
	l.recalc()
	return l
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	n.recalc()
	r.recalc()
	return r
}

// fixup recomputes n's augmented fields and restores the AVL invariant
// with at most one single or double rotation, returning the (possibly
// new) subtree root. Every tree-mutating function in this file calls
// fixup on its way back up the recursion, mirroring the teacher's
// "recalc then return" pattern at every level of split/join/insert.
func fixup(n *node) *node {
	if n == nil {
		return nil
	}
	n.recalc()
	switch bf := n.balanceFactor(); {
	case bf > 1:
		if n.left.balanceFactor() < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if n.right.balanceFactor() > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	default:
		return n
	}
}

// firstIdentifier and lastIdentifier are the identifiers at this node's
// two live boundary offsets; together they describe the contiguous
// range of identifiers this single node occupies in the total order.
func (n *node) firstIdentifier() Identifier {
	return n.block.Interval.Base.fromBase(n.offsetBegin)
}

func (n *node) lastIdentifier() Identifier {
	return n.block.Interval.Base.fromBase(n.offsetEnd)
}

// newLeafNode builds a standalone single-node block from a freshly
// generated interval (used by insertLocal and by insertRemote's
// fallback path when no adjacent block can absorb the insert).
func newLeafNode(iv IdentifierInterval) *node {
	b := NewBlock(iv, iv.Length())
	n := &node{block: b.ptr(), offsetBegin: iv.Begin, offsetEnd: iv.End}
	n.recalc()
	return n
}

// ptr lets NewBlock's value be shared by pointer once stored in a node
// without exposing Block's address-taking in block.go itself.
func (b Block) ptr() *Block {
	bb := b
	return &bb
}

// newSiblingNode builds a node for [begin..end] sharing an existing
// block pointer — used when a node is split in two (delete interior
// range, or a new identifier lands strictly inside an existing node's
// offset span).
func newSiblingNode(block *Block, begin, end int32) *node {
	n := &node{block: block, offsetBegin: begin, offsetEnd: end}
	n.recalc()
	return n
}

// splitOffsetFor reports the offset o such that key — a freshly
// generated identifier that conceptually sits between two adjacent
// offsets of n's base — belongs strictly between offset o and o+1 of
// n's run. This is the only way an identifier can compare as falling
// inside [n.firstIdentifier(), n.lastIdentifier()] without being one of
// n's own live offsets: per spec.md §4.2, createBetweenPosition applied
// to two adjacent offsets of the same base inherits the lower offset's
// tuples in full and appends exactly one fresh tuple, so key's first
// len(base) tuples equal base.fromBase(o) for o = key's tuple at that
// index. If key doesn't have this shape, ok is false (a genuine contract
// violation: an identifier can't land inside a node's range any other
// way).
func (n *node) splitOffsetFor(key Identifier) (offset int32, ok bool) {
	base := n.block.Interval.Base
	L := len(base)
	if len(key) <= L {
		return 0, false
	}
	o := key[L-1].Offset
	if o < n.offsetBegin || o >= n.offsetEnd {
		return 0, false
	}
	head, _ := key.truncate(L)
	if !head.equal(base.fromBase(o)) {
		return 0, false
	}
	return o, true
}

// splitNodeAt shrinks n in place to [offsetBegin..o] and returns a new
// sibling node for [o+1..oldOffsetEnd], sharing n's block and live
// count unchanged (this only changes how the run is represented in the
// tree, not what is live).
func (n *node) splitNodeAt(o int32) *node {
	right := newSiblingNode(n.block, o+1, n.offsetEnd)
	n.offsetEnd = o
	n.recalc()
	return right
}

// insertNode places m (a freshly built single-run node, not yet
// attached to the tree) into the subtree rooted at n, maintaining BST
// order by identifier and the AVL invariant. If m's key falls strictly
// inside an existing node's live span (the "insert between two offsets
// of the same block" case, spec.md §4.2/§4.4), that node is split to
// make room.
func insertNode(n, m *node) *node {
	if n == nil {
		return m
	}
	mKey := m.firstIdentifier()
	firstN, lastN := n.firstIdentifier(), n.lastIdentifier()

	switch {
	case mKey.less(firstN):
		n.left = insertNode(n.left, m)
	case lastN.less(mKey):
		n.right = insertNode(n.right, m)
	default:
		o, ok := n.splitOffsetFor(mKey)
		if !ok {
			panicf("rope: identifier %v collides with existing node range %v..%v", mKey, firstN, lastN)
		}
		right := n.splitNodeAt(o)
		n.right = insertNode(n.right, right)
		n.right = insertNode(n.right, m)
	}
	return fixup(n)
}

// joinSubtrees concatenates two subtrees known to be disjoint with all
// of l ordering before all of r, rebuilding the AVL invariant on the
// way back up. This is the height-keyed analogue of the teacher's
// priority-keyed treap join (gaissmai/cidrtree's node.join): whichever
// side is taller remains the root, and the other is folded into its
// near child.
func joinSubtrees(l, r *node) *node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if height(l) >= height(r) {
		l.right = joinSubtrees(l.right, r)
		return fixup(l)
	}
	r.left = joinSubtrees(l, r.left)
	return fixup(r)
}

// search locates the node holding the live element at 0-based position
// pos within the subtree rooted at n, and its offset within that node's
// span. O(log n) via the cached size field.
func search(n *node, pos int64) (target *node, offsetInNode int32) {
	for {
		if n == nil {
			panicf("rope: search position %d out of range", pos)
		}
		ls := size(n.left)
		switch {
		case pos < ls:
			n = n.left
		case pos < ls+span(n):
			return n, int32(pos - ls)
		default:
			pos -= ls + span(n)
			n = n.right
		}
	}
}

// findNodeContaining returns the node whose live range contains id, or
// nil if no node currently does (already deleted, or never present —
// both are valid, idempotent outcomes for a delete lookup).
func findNodeContaining(n *node, id Identifier) *node {
	for n != nil {
		switch {
		case id.less(n.firstIdentifier()):
			n = n.left
		case n.lastIdentifier().less(id):
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// predecessorPath returns the root-to-node path of the greatest node
// whose range ends before key, or nil if none exists. Used only by the
// opportunistic block-growing merge in rope.go; the path lets the
// caller fix up cached sizes along the route back to root without
// parent pointers.
func predecessorPath(root *node, key Identifier) []*node {
	var path []*node
	best := -1
	n := root
	for n != nil {
		path = append(path, n)
		if n.lastIdentifier().less(key) {
			best = len(path) - 1
			n = n.right
		} else {
			n = n.left
		}
	}
	if best == -1 {
		return nil
	}
	return path[:best+1]
}

// successorPath is predecessorPath's mirror: the root-to-node path of
// the least node whose range starts after key.
func successorPath(root *node, key Identifier) []*node {
	var path []*node
	best := -1
	n := root
	for n != nil {
		path = append(path, n)
		if key.less(n.firstIdentifier()) {
			best = len(path) - 1
			n = n.left
		} else {
			n = n.right
		}
	}
	if best == -1 {
		return nil
	}
	return path[:best+1]
}

// recalcPath recomputes cached sizes (and, harmlessly, heights) from
// the deepest node in path back to the root. No rotation is needed
// because growing a node's span in place changes no subtree shape.
func recalcPath(path []*node) {
	for i := len(path) - 1; i >= 0; i-- {
		path[i].recalc()
	}
}

// walk performs an in-order traversal, calling cb with each live
// node's identifier interval (its whole range is live — deletes always
// trim or split a node rather than leaving a dead gap inside one).
// Stops early if cb returns false.
func (n *node) walk(cb func(iv IdentifierInterval) bool) bool {
	if n == nil {
		return true
	}
	if !n.left.walk(cb) {
		return false
	}
	iv := IdentifierInterval{Base: n.block.Interval.Base, Begin: n.offsetBegin, End: n.offsetEnd}
	if !cb(iv) {
		return false
	}
	return n.right.walk(cb)
}
