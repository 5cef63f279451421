package logootsplit

import "io"

// RenamableInsertOp is a standard insert tagged with the epoch it was
// generated in (spec.md §4.8).
type RenamableInsertOp struct {
	Inner InsertOp
	Epoch EpochID
}

// RenamableDeleteOp is a standard delete tagged with the epoch it was
// generated in.
type RenamableDeleteOp struct {
	Inner DelOp
	Epoch EpochID
}

// RenameOp installs a new epoch as a child of parentEpoch, carrying the
// RenamingMap built from a snapshot of the whole sequence at rename
// time.
type RenameOp struct {
	ReplicaNumber      int32
	Clock              int32
	Epoch              EpochID
	ParentEpoch        EpochID
	RenamedIdIntervals []IdentifierInterval
}

// RenamableList wraps a List with the epoch machinery (spec.md §4.8):
// it knows nothing about text buffers, only how to tag outgoing
// operations with the epoch they were produced in and how to translate
// incoming ones into its own current epoch before handing them to the
// inner list.
type RenamableList struct {
	list          *List
	epochs        *EpochTree
	currentEpoch  *Epoch
	replicaNumber int32
	renameClock   int32
}

// NewRenamableList creates an empty renamable list for the given
// replica, starting in the genesis epoch.
func NewRenamableList(replicaNumber int32, src Int32Source) *RenamableList {
	epochs := NewEpochTree()
	return &RenamableList{
		list:          NewList(replicaNumber, src),
		epochs:        epochs,
		currentEpoch:  epochs.Root(),
		replicaNumber: replicaNumber,
	}
}

// Len returns the number of live elements.
func (rl *RenamableList) Len() int64 { return rl.list.Len() }

// FprintTree writes a diagram of the underlying rope's AVL structure to
// w, for CLI/debug reporting — see Rope.FprintTree.
func (rl *RenamableList) FprintTree(w io.Writer) error { return rl.list.rope.FprintTree(w) }

// Insert performs a local insert in the current epoch.
func (rl *RenamableList) Insert(pos int64, content string) RenamableInsertOp {
	return RenamableInsertOp{Inner: rl.list.Insert(pos, content), Epoch: rl.currentEpoch.ID}
}

// Del performs a local delete in the current epoch.
func (rl *RenamableList) Del(begin, end int64) RenamableDeleteOp {
	return RenamableDeleteOp{Inner: rl.list.Del(begin, end), Epoch: rl.currentEpoch.ID}
}

// epochByID resolves an epoch tag, panicking if unknown: callers must
// ensure the epoch-establishing RenameOp has already been observed
// before delivering operations tagged with it (spec.md §5's causal
// requirement on rename delivery; enforcing it is the transport's job,
// not this core's — see DESIGN.md).
func (rl *RenamableList) epochByID(id EpochID) *Epoch {
	e, ok := rl.epochs.Get(id)
	if !ok {
		panicf("renamable: operation tagged with unknown epoch %+v", id)
	}
	return e
}

// ApplyInsert applies a remotely received insert, translating its
// identifier interval into the current epoch first if needed.
func (rl *RenamableList) ApplyInsert(op RenamableInsertOp) []TextOp {
	srcEpoch := rl.epochByID(op.Epoch)
	id := op.Inner.ID
	if srcEpoch != rl.currentEpoch {
		id = rl.epochs.TranslateInterval(id, srcEpoch, rl.currentEpoch)
	}
	return rl.list.ApplyInsert(InsertOp{ID: id, Content: op.Inner.Content})
}

// ApplyDelete applies a remotely received delete, translating each
// identifier interval into the current epoch first if needed.
func (rl *RenamableList) ApplyDelete(op RenamableDeleteOp) []TextOp {
	srcEpoch := rl.epochByID(op.Epoch)
	intervals := op.Inner.Intervals
	if srcEpoch != rl.currentEpoch {
		translated := make([]IdentifierInterval, len(intervals))
		for i, iv := range intervals {
			translated[i] = rl.epochs.TranslateInterval(iv, srcEpoch, rl.currentEpoch)
		}
		intervals = translated
	}
	return rl.list.ApplyDelete(DelOp{Intervals: intervals})
}

// ApplyRename observes a rename issued by another replica, recording
// its RenamingMap in the epoch tree without switching this replica's
// own currentEpoch — concurrent renames by different replicas must not
// make each other's observers flip epochs nondeterministically (see
// DESIGN.md). A later local Rename, or a future cross-epoch
// translation, may still make use of the observed epoch.
func (rl *RenamableList) ApplyRename(op RenameOp) {
	rl.epochByID(op.ParentEpoch) // panics if the parent epoch hasn't been observed yet
	renaming := NewRenamingMap(op.RenamedIdIntervals, op.ReplicaNumber, op.Clock)
	rl.epochs.Observe(op.Epoch, op.ParentEpoch, renaming)
}

// Rename snapshots the entire local sequence, builds a RenamingMap from
// it, installs a new epoch as a child of the current one, rewrites the
// local rope tree so every element carries its new dense identifier,
// and returns the RenameOp to broadcast.
func (rl *RenamableList) Rename() RenameOp {
	var intervals []IdentifierInterval
	rl.list.rope.Walk(func(iv IdentifierInterval) bool {
		intervals = append(intervals, iv)
		return true
	})

	clock := rl.renameClock
	rl.renameClock++
	renaming := NewRenamingMap(intervals, rl.replicaNumber, clock)
	newEpochID := EpochID{ReplicaNumber: rl.replicaNumber, Clock: clock}
	parentEpochID := rl.currentEpoch.ID

	rl.rewriteRopeForEpoch(renaming)
	rl.currentEpoch = rl.epochs.Observe(newEpochID, parentEpochID, renaming)

	return RenameOp{
		ReplicaNumber:      rl.replicaNumber,
		Clock:              clock,
		Epoch:              newEpochID,
		ParentEpoch:        parentEpochID,
		RenamedIdIntervals: intervals,
	}
}

// rewriteRopeForEpoch replaces the inner list's rope with a fresh one
// built from every live interval translated forward through renaming,
// reusing InsertRemote's adjacent-block merge rather than hand-rolling
// new tree surgery for what is, structurally, just a bulk insert.
func (rl *RenamableList) rewriteRopeForEpoch(renaming *RenamingMap) {
	var fresh Rope
	rl.list.rope.Walk(func(iv IdentifierInterval) bool {
		fresh.InsertRemote(renaming.renameInterval(iv))
		return true
	})
	rl.list.rope = fresh
}
