package logootsplit

import "slices"

// RenamingMap captures one rename transition (spec.md §4.6): it assigns
// every identifier live in the sequence at rename time a new, dense
// offset sharing a single fresh base (newRandom, replicaNumber, clock),
// and knows how to translate identifiers across the transition in
// either direction.
//
// oldIdsByOffset is the flattened, ascending expansion of the
// renamedIdIntervals the issuing replica snapshotted: oldIdsByOffset[o]
// is the pre-rename identifier that now lives at dense offset o.
type RenamingMap struct {
	replicaNumber  int32
	clock          int32
	newRandom      int32
	intervals      []IdentifierInterval
	oldIdsByOffset []Identifier
}

// NewRenamingMap builds the map for a rename issued by (replicaNumber,
// clock) over renamedIdIntervals — a contiguous, ascending list of
// identifier intervals that must cover the entire local sequence at
// rename time. An empty list is a contract violation (spec.md §4.9).
func NewRenamingMap(renamedIdIntervals []IdentifierInterval, replicaNumber, clock int32) *RenamingMap {
	if len(renamedIdIntervals) == 0 {
		panicf("renaming: NewRenamingMap requires at least one interval")
	}
	var ids []Identifier
	for _, iv := range renamedIdIntervals {
		for o := iv.Begin; o <= iv.End; o++ {
			ids = append(ids, iv.Base.fromBase(o))
		}
	}
	newRandom := renamedIdIntervals[0].Base[0].Random
	return &RenamingMap{
		replicaNumber:  replicaNumber,
		clock:          clock,
		newRandom:      newRandom,
		intervals:      slices.Clone(renamedIdIntervals),
		oldIdsByOffset: ids,
	}
}

func (m *RenamingMap) maxOffset() int32 { return int32(len(m.oldIdsByOffset)) - 1 }
func (m *RenamingMap) firstID() Identifier { return m.oldIdsByOffset[0] }
func (m *RenamingMap) lastID() Identifier  { return m.oldIdsByOffset[len(m.oldIdsByOffset)-1] }

// newBaseTuple returns the single tuple a dense offset o maps to in the
// new epoch's identifier space.
func (m *RenamingMap) newBaseTuple(o int32) Tuple {
	return Tuple{Random: m.newRandom, ReplicaNumber: m.replicaNumber, Clock: m.clock, Offset: o}
}

func (m *RenamingMap) isNewBaseTuple(t Tuple) (offset int32, ok bool) {
	if t.Random != m.newRandom || t.ReplicaNumber != m.replicaNumber || t.Clock != m.clock {
		return 0, false
	}
	return t.Offset, true
}

// indexOf reports the dense offset of id if id is exactly one of the
// renamed identifiers.
func (m *RenamingMap) indexOf(id Identifier) (int32, bool) {
	i, found := slices.BinarySearchFunc(m.oldIdsByOffset, id, func(a, b Identifier) int { return a.compareTo(b) })
	if !found {
		return 0, false
	}
	return int32(i), true
}

// predecessorIndex returns the largest offset o such that
// oldIdsByOffset[o] < id. Requires firstID() < id < lastID() and id not
// itself a renamed identifier — both guaranteed by rename's caller.
func (m *RenamingMap) predecessorIndex(id Identifier) int32 {
	i, _ := slices.BinarySearchFunc(m.oldIdsByOffset, id, func(a, b Identifier) int { return a.compareTo(b) })
	return int32(i) - 1
}

// rename translates an identifier generated in the parent epoch (or
// concurrently with the rename) into this epoch's terms (spec.md §4.6).
func (m *RenamingMap) rename(id Identifier) Identifier {
	if id.less(m.firstID()) || m.lastID().less(id) {
		return id
	}
	if o, ok := m.indexOf(id); ok {
		return NewIdentifier(m.newBaseTuple(o))
	}
	predOffset := m.predecessorIndex(id)
	predNew := NewIdentifier(m.newBaseTuple(predOffset))
	return predNew.concat(id)
}

// reverseRename is the partial inverse of rename, used to translate
// identifiers produced in this epoch back into the parent epoch's terms
// (spec.md §4.6). Round-trip holds exactly for every id in
// [firstID(),lastID()] translated by rename: see DESIGN.md for the
// derivation of why the "natural fit, else clamp" construction below is
// both simpler than and equivalent to the source's five-zone case
// split.
func (m *RenamingMap) reverseRename(id Identifier) Identifier {
	head := id[0]
	offset, ok := m.isNewBaseTuple(head)
	if !ok || offset < 0 || offset > m.maxOffset() {
		// Not built on this epoch's dense base: either clearly outside
		// the renamed range (zone 2) or an identifier this rename never
		// touched. Either way it translates unchanged.
		return id
	}
	predecessorID := m.oldIdsByOffset[offset]
	if len(id) == 1 {
		return predecessorID.Clone()
	}
	tail := Identifier(id[1:])

	hasSuccessor := offset < m.maxOffset()
	var successorID Identifier
	if hasSuccessor {
		successorID = m.oldIdsByOffset[offset+1]
	}

	switch {
	case tail.less(predecessorID):
		return predecessorID.concat(NewIdentifier(MinTuple)).concat(tail)
	case hasSuccessor && successorID.less(tail):
		between := createBetweenPosition(predecessorID, successorID, m.replicaNumber, m.clock, midpointInt32Source{})
		return between.concat(tail)
	default:
		return tail
	}
}

// renameInterval and reverseRenameInterval translate a whole identifier
// interval at once instead of one offset at a time. Both rename and
// reverseRename preserve a translated run's contiguity: every offset of
// a single pre-translation base maps through the same branch (exact
// dense match or concat/clamp), producing identifiers that differ only
// in their final tuple's offset — so translating First() alone and
// carrying its last offset forward is exact, not an approximation.
func (m *RenamingMap) renameInterval(iv IdentifierInterval) IdentifierInterval {
	newFirst := m.rename(iv.First())
	begin := newFirst.lastOffset()
	return IdentifierInterval{Base: newFirst, Begin: begin, End: begin + iv.Length() - 1}
}

func (m *RenamingMap) reverseRenameInterval(iv IdentifierInterval) IdentifierInterval {
	newFirst := m.reverseRename(iv.First())
	begin := newFirst.lastOffset()
	return IdentifierInterval{Base: newFirst, Begin: begin, End: begin + iv.Length() - 1}
}
