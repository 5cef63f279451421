package logootsplit

// EpochID identifies an epoch: the (replicaNumber, clock) of the
// replica that issued the rename creating it.
type EpochID struct {
	ReplicaNumber int32
	Clock         int32
}

// rootEpochID is the identifier of the genesis epoch (no replica ever
// issues a rename with this id; it exists purely as the tree root).
var rootEpochID = EpochID{}

// Epoch is one node of the epoch tree (spec.md §4.7): a labeled
// identifier-space generation. The root epoch has no parent and
// represents the identifier scheme new replicas start in; every other
// epoch was created by exactly one rename and carries the RenamingMap
// describing how to translate identifiers across that rename.
type Epoch struct {
	ID       EpochID
	parent   *Epoch
	renaming *RenamingMap // nil only for the root
	depth    int
	children []*Epoch
}

// EpochTree owns the forest of epochs reachable from a single genesis
// root. Replicas that have observed the same renames share equivalent
// (by ID) epochs in their respective trees; the tree is built lazily as
// RenameOps are observed.
type EpochTree struct {
	root *Epoch
	byID map[EpochID]*Epoch
}

// NewEpochTree creates a tree with just the genesis root epoch.
func NewEpochTree() *EpochTree {
	root := &Epoch{ID: rootEpochID}
	return &EpochTree{root: root, byID: map[EpochID]*Epoch{rootEpochID: root}}
}

// Root returns the genesis epoch.
func (t *EpochTree) Root() *Epoch { return t.root }

// Get returns the epoch with the given id, if known.
func (t *EpochTree) Get(id EpochID) (*Epoch, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Observe installs a child epoch under parent if not already known,
// returning the (possibly pre-existing) epoch. It panics if parent is
// unknown — the renamable list is responsible for observing renames in
// causal order relative to their own parent (spec.md §5: "rename
// operations must be delivered after all operations tagged with their
// parent epoch").
func (t *EpochTree) Observe(id, parentID EpochID, renaming *RenamingMap) *Epoch {
	if existing, ok := t.byID[id]; ok {
		return existing
	}
	parent, ok := t.byID[parentID]
	if !ok {
		panicf("epoch: cannot observe epoch %+v before its parent %+v", id, parentID)
	}
	e := &Epoch{ID: id, parent: parent, renaming: renaming, depth: parent.depth + 1}
	parent.children = append(parent.children, e)
	t.byID[id] = e
	return e
}

// lca finds the lowest common ancestor of a and b by equal-depth
// ascent: walk the deeper node up to the shallower node's depth, then
// walk both up together until they're the same node (spec.md §4.7).
func lca(a, b *Epoch) *Epoch {
	for a.depth > b.depth {
		a = a.parent
	}
	for b.depth > a.depth {
		b = b.parent
	}
	for a != b {
		a = a.parent
		b = b.parent
	}
	return a
}

// pathUpTo returns the epochs from e (inclusive) up to ancestor
// (exclusive), in ascending order from e up to ancestor's child — i.e.
// the sequence of renames to reverse-apply walking up from e to
// ancestor.
func pathUpTo(e, ancestor *Epoch) []*Epoch {
	var path []*Epoch
	for e != ancestor {
		path = append(path, e)
		e = e.parent
	}
	return path
}

// Translate rewrites id, generated in epoch `from`, into the equivalent
// identifier in epoch `to`. It walks up from `from` to the LCA of `from`
// and `to` applying reverseRename at each step, then down from the LCA
// to `to` applying rename at each step (spec.md §4.7).
func (t *EpochTree) Translate(id Identifier, from, to *Epoch) Identifier {
	if from == to {
		return id
	}
	anchor := lca(from, to)

	for _, e := range pathUpTo(from, anchor) {
		id = e.renaming.reverseRename(id)
	}

	down := pathUpTo(to, anchor)
	for i := len(down) - 1; i >= 0; i-- {
		id = down[i].renaming.rename(id)
	}
	return id
}

// TranslateInterval is Translate's interval-at-a-time counterpart, used
// to translate whole InsertOp/DelOp payloads without materializing
// every member identifier.
func (t *EpochTree) TranslateInterval(iv IdentifierInterval, from, to *Epoch) IdentifierInterval {
	if from == to {
		return iv
	}
	anchor := lca(from, to)

	for _, e := range pathUpTo(from, anchor) {
		iv = e.renaming.reverseRenameInterval(iv)
	}

	down := pathUpTo(to, anchor)
	for i := len(down) - 1; i >= 0; i-- {
		iv = down[i].renaming.renameInterval(iv)
	}
	return iv
}
