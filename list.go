package logootsplit

// InsertOp is the operation produced by a local insert and applied by
// remote replicas: a run of freshly generated identifiers carrying
// content, tagged with nothing but what the rope needs to place it —
// the epoch tag lives one layer up, in RenamableInsertOp (renamable.go).
type InsertOp struct {
	ID      IdentifierInterval
	Content string
}

// DelOp is the operation produced by a local delete and applied by
// remote replicas. A single positional delete may fragment into several
// identifier intervals if it spans elements inserted under different
// identifiers (spec.md §4.5).
type DelOp struct {
	Intervals []IdentifierInterval
}

// TextOp is the materialized-sequence-level effect of applying an
// operation: a 0-based code-unit Insert or Delete, exactly as the
// containing application's text buffer expects (spec.md §6). Kind
// distinguishes the two; only the relevant fields are populated.
type TextOp struct {
	Kind    TextOpKind
	Index   int64
	Content string // Insert only
	Length  int64  // Delete only
}

type TextOpKind uint8

const (
	TextInsert TextOpKind = iota
	TextDelete
)

// List is the replicable list façade (spec.md §4.5's LogootSList): it
// wraps a Rope and knows nothing about renaming or epochs, only
// positions, identifiers and content.
type List struct {
	rope          Rope
	replicaNumber int32
	clock         int32
	src           Int32Source
}

// NewList creates an empty replicable list for the given replica
// number. clock starts at 0 and is incremented on every local insert
// so repeated inserts never reuse a tuple (deletes generate no
// identifiers and leave it unchanged). src is the random
// source used by the identifier factory; nil selects
// DefaultInt32Source.
func NewList(replicaNumber int32, src Int32Source) *List {
	return &List{replicaNumber: replicaNumber, src: src}
}

// Len returns the number of live elements.
func (l *List) Len() int64 { return l.rope.Len() }

// nextClock returns the clock to tag the next locally issued operation
// with, advancing it for the following call.
func (l *List) nextClock() int32 {
	c := l.clock
	l.clock++
	return c
}

// Insert inserts content at pos (0-based) and returns the operation to
// broadcast to other replicas.
func (l *List) Insert(pos int64, content string) InsertOp {
	if len(content) == 0 {
		panicf("list: Insert requires non-empty content")
	}
	iv := l.rope.InsertLocal(pos, int32(len([]rune(content))), l.replicaNumber, l.nextClock(), l.src)
	return InsertOp{ID: iv, Content: content}
}

// Del deletes the live elements at positions [begin, end] and returns
// the operation to broadcast.
func (l *List) Del(begin, end int64) DelOp {
	return DelOp{Intervals: l.rope.DelLocal(begin, end)}
}

// ApplyInsert applies a remotely received insert, returning the text
// operations the caller's buffer should perform. Content is split into
// runes to line up 1:1 with the identifier offsets InsertRemote placed
// in the rope.
func (l *List) ApplyInsert(op InsertOp) []TextOp {
	content := []rune(op.Content)
	if int32(len(content)) != op.ID.Length() {
		panicf("list: ApplyInsert content length %d does not match identifier interval length %d", len(content), op.ID.Length())
	}
	pos := l.positionOf(op.ID.First())
	l.rope.InsertRemote(op.ID)
	return []TextOp{{Kind: TextInsert, Index: pos, Content: op.Content}}
}

// ApplyDelete applies a remotely received delete, returning one TextOp
// per contiguous run actually removed (idempotent: ranges already
// absent contribute nothing).
func (l *List) ApplyDelete(op DelOp) []TextOp {
	var ops []TextOp
	for _, iv := range op.Intervals {
		for _, removed := range l.rope.DelRemote(iv) {
			pos := l.positionOf(removed.First())
			ops = append(ops, TextOp{Kind: TextDelete, Index: pos, Length: int64(removed.Length())})
		}
	}
	return ops
}

// positionOf returns the position id would occupy (or does occupy) in
// the rope, found by walking from the root comparing ranges — the same
// descent used throughout node.go. ApplyInsert calls it *before*
// inserting; ApplyDelete calls it *after* removing a run, which still
// yields the run's former index because only live elements sorting
// before id are counted.
func (l *List) positionOf(id Identifier) int64 {
	return positionOfIdentifier(l.rope.root, id)
}

// positionOfIdentifier walks n counting live elements strictly before
// id. If id identifies the exact next insertion point (not currently
// present), the count is still correct: it is simply the number of live
// elements that sort before id.
func positionOfIdentifier(n *node, id Identifier) int64 {
	var pos int64
	for n != nil {
		switch {
		case id.less(n.firstIdentifier()):
			n = n.left
		case n.lastIdentifier().less(id):
			pos += size(n.left) + span(n)
			n = n.right
		default:
			// id falls within this node's live range: either it is one
			// of the node's own offsets, or (len(id) > base length) it
			// is a descendant identifier landing strictly between
			// offset o and o+1 — see node.splitOffsetFor. Either way,
			// the offset that bounds it from below is id's tuple at the
			// base's last index.
			L := len(n.block.Interval.Base)
			o := id[L-1].Offset
			pos += size(n.left) + int64(o-n.offsetBegin)
			if len(id) > L {
				pos++ // descendant sorts strictly after offset o itself
			}
			return pos
		}
	}
	return pos
}
