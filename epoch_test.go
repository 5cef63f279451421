package logootsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqcrdt/logootsplit"
)

func mkRenaming(randomBase int32) *logootsplit.RenamingMap {
	base := logootsplit.NewIdentifier(logootsplit.Tuple{Random: randomBase, ReplicaNumber: 1, Clock: 0, Offset: 0})
	iv := logootsplit.NewIdentifierInterval(base, 0, 2)
	return logootsplit.NewRenamingMap([]logootsplit.IdentifierInterval{iv}, 9, 1)
}

func TestEpochTreeObservesChildrenUnderKnownParent(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	root := tree.Root()

	id1 := logootsplit.EpochID{ReplicaNumber: 1, Clock: 1}
	e1 := tree.Observe(id1, root.ID, mkRenaming(10))
	require.NotNil(t, e1)

	got, ok := tree.Get(id1)
	require.True(t, ok)
	assert.Equal(t, e1, got)
}

func TestEpochTreeObserveIsIdempotent(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	root := tree.Root()
	id1 := logootsplit.EpochID{ReplicaNumber: 1, Clock: 1}

	first := tree.Observe(id1, root.ID, mkRenaming(10))
	second := tree.Observe(id1, root.ID, mkRenaming(999)) // different map, ignored: already known
	assert.Same(t, first, second)
}

func TestEpochTreeObservePanicsOnUnknownParent(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	orphanParent := logootsplit.EpochID{ReplicaNumber: 77, Clock: 77}
	assert.Panics(t, func() {
		tree.Observe(logootsplit.EpochID{ReplicaNumber: 1, Clock: 1}, orphanParent, mkRenaming(10))
	})
}

func TestTranslateIsIdentityWithinSameEpoch(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	root := tree.Root()
	id := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 42, ReplicaNumber: 1, Clock: 0, Offset: 0})

	got := tree.Translate(id, root, root)
	assert.True(t, got.Equal(id))
}

func TestTranslateRoundTripsAcrossOneRename(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	root := tree.Root()

	base := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 5, ReplicaNumber: 1, Clock: 0, Offset: 0})
	renamed := logootsplit.NewIdentifierInterval(base, 0, 4)
	renaming := logootsplit.NewRenamingMap([]logootsplit.IdentifierInterval{renamed}, 2, 1)

	childID := logootsplit.EpochID{ReplicaNumber: 2, Clock: 1}
	child := tree.Observe(childID, root.ID, renaming)

	original := base.FromBase(2)
	toChild := tree.Translate(original, root, child)
	back := tree.Translate(toChild, child, root)

	assert.True(t, back.Equal(original), "round trip through a single rename must be exact")
}

func TestTranslateAcrossSiblingsGoesThroughLCA(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	root := tree.Root()

	baseA := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 1, ReplicaNumber: 1, Clock: 0, Offset: 0})
	ivA := logootsplit.NewIdentifierInterval(baseA, 0, 2)
	epochA := tree.Observe(
		logootsplit.EpochID{ReplicaNumber: 1, Clock: 1},
		root.ID,
		logootsplit.NewRenamingMap([]logootsplit.IdentifierInterval{ivA}, 1, 1),
	)

	baseB := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 2, ReplicaNumber: 2, Clock: 0, Offset: 0})
	ivB := logootsplit.NewIdentifierInterval(baseB, 0, 2)
	epochB := tree.Observe(
		logootsplit.EpochID{ReplicaNumber: 2, Clock: 1},
		root.ID,
		logootsplit.NewRenamingMap([]logootsplit.IdentifierInterval{ivB}, 2, 1),
	)

	original := baseA.FromBase(1)
	inA := tree.Translate(original, root, epochA)

	// Translating from epochA to epochB must pass back through root (the
	// LCA of two siblings) rather than treating epochB as a descendant.
	inB := tree.Translate(inA, epochA, epochB)
	backToRoot := tree.Translate(inB, epochB, root)

	assert.True(t, backToRoot.Equal(original))
}

func TestTranslateIntervalMatchesPerIdentifierTranslate(t *testing.T) {
	tree := logootsplit.NewEpochTree()
	root := tree.Root()

	base := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 8, ReplicaNumber: 1, Clock: 0, Offset: 0})
	renamed := logootsplit.NewIdentifierInterval(base, 0, 4)
	renaming := logootsplit.NewRenamingMap([]logootsplit.IdentifierInterval{renamed}, 3, 1)
	child := tree.Observe(logootsplit.EpochID{ReplicaNumber: 3, Clock: 1}, root.ID, renaming)

	run := logootsplit.NewIdentifierInterval(base, 1, 3)
	gotInterval := tree.TranslateInterval(run, root, child)

	for o := run.Begin; o <= run.End; o++ {
		want := tree.Translate(run.IdentifierAt(o), root, child)
		got := gotInterval.IdentifierAt(o - run.Begin + gotInterval.Begin)
		assert.True(t, want.Equal(got), "offset %d diverged between Translate and TranslateInterval", o)
	}
}
