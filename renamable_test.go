package logootsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqcrdt/logootsplit"
)

func TestRenamableListLocalRenameIsTransparentToOwnReads(t *testing.T) {
	rl := logootsplit.NewRenamableList(1, logootsplit.NewSeededInt32Source(1))
	rl.Insert(0, "Hello")
	rl.Insert(5, "World")
	require.EqualValues(t, 10, rl.Len())

	renameOp := rl.Rename()
	assert.EqualValues(t, 10, rl.Len(), "renaming must not change the visible content")
	assert.NotEqual(t, renameOp.ParentEpoch, renameOp.Epoch)
}

func TestRenamableListCrossEpochInsertTranslatesCorrectly(t *testing.T) {
	writer := logootsplit.NewRenamableList(1, logootsplit.NewSeededInt32Source(2))
	reader := logootsplit.NewRenamableList(2, nil)

	insOp := writer.Insert(0, "Hello")
	applyToReader(t, reader, insOp)

	renameOp := writer.Rename()
	reader.ApplyRename(renameOp)

	// Writer inserts again after renaming; the op is tagged with the new
	// epoch. Reader must translate it back to the old epoch transparently.
	insOp2 := writer.Insert(5, "World")
	applyToReader(t, reader, insOp2)

	assert.EqualValues(t, 10, reader.Len())
	assert.EqualValues(t, 10, writer.Len())
}

func TestRenamableListLateDeleteAfterRenameStillApplies(t *testing.T) {
	replicaA := logootsplit.NewRenamableList(1, logootsplit.NewSeededInt32Source(4))
	replicaC := logootsplit.NewRenamableList(3, nil)

	insOp := replicaA.Insert(0, "Hello World")
	applyToReader(t, replicaC, insOp)
	require.EqualValues(t, 11, replicaC.Len())

	// A renames; its own currentEpoch advances. C never learns about the
	// rename and keeps generating ops tagged with the genesis epoch.
	replicaA.Rename()
	require.EqualValues(t, 11, replicaA.Len())

	delOp := replicaC.Del(5, 5) // the space, still addressed in the old epoch

	// A must resolve and apply C's genesis-epoch delete correctly even
	// though A's own currentEpoch has already moved on.
	textOps := replicaA.ApplyDelete(delOp)
	require.Len(t, textOps, 1)
	assert.EqualValues(t, 10, replicaA.Len())
}

func TestRenamableListApplyRenameDoesNotSwitchOwnEpoch(t *testing.T) {
	replicaA := logootsplit.NewRenamableList(1, logootsplit.NewSeededInt32Source(5))
	replicaB := logootsplit.NewRenamableList(2, logootsplit.NewSeededInt32Source(6))

	insOp := replicaA.Insert(0, "Hi")
	applyToReader(t, replicaB, insOp)

	renameOp := replicaB.Rename()
	// A observes B's rename but must keep operating in its own (genesis)
	// epoch: a subsequent local insert from A should still be tagged
	// with the genesis epoch, not B's new one.
	replicaA.ApplyRename(renameOp)

	afterOp := replicaA.Insert(2, "!")
	assert.Equal(t, renameOp.ParentEpoch, afterOp.Epoch)
}

func TestRenamableListApplyInsertPanicsOnUnknownEpoch(t *testing.T) {
	replicaA := logootsplit.NewRenamableList(1, nil)
	bogus := logootsplit.RenamableInsertOp{
		Inner: logootsplit.InsertOp{
			ID:      logootsplit.NewIdentifierInterval(logootsplit.NewIdentifier(logootsplit.Tuple{Random: 1}), 0, 0),
			Content: "x",
		},
		Epoch: logootsplit.EpochID{ReplicaNumber: 99, Clock: 99},
	}
	assert.Panics(t, func() { replicaA.ApplyInsert(bogus) })
}

// applyToReader threads a RenamableInsertOp straight from writer to
// reader, as a transport would.
func applyToReader(t *testing.T, reader *logootsplit.RenamableList, op logootsplit.RenamableInsertOp) {
	t.Helper()
	reader.ApplyInsert(op)
}
