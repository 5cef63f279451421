package logootsplit

import "testing"

func TestIntervalAbutsOverlapsUnion(t *testing.T) {
	base := NewIdentifier(Tuple{Random: 10, ReplicaNumber: 1, Clock: 0, Offset: 0})
	left := NewIdentifierInterval(base, 0, 3)
	adjacent := NewIdentifierInterval(base, 4, 7)
	overlapping := NewIdentifierInterval(base, 2, 5)
	disjoint := NewIdentifierInterval(base, 9, 10)

	if !left.abuts(adjacent) {
		t.Fatalf("expected %v to abut %v", left, adjacent)
	}
	if left.abuts(overlapping) {
		t.Fatalf("overlapping ranges should not report as abutting")
	}
	if left.abuts(disjoint) {
		t.Fatalf("disjoint ranges should not report as abutting")
	}

	if !left.overlaps(overlapping) {
		t.Fatalf("expected %v to overlap %v", left, overlapping)
	}
	if left.overlaps(disjoint) {
		t.Fatalf("disjoint ranges should not report as overlapping")
	}

	merged := left.union(adjacent)
	if merged.Begin != 0 || merged.End != 7 {
		t.Fatalf("union of abutting ranges = [%d,%d], want [0,7]", merged.Begin, merged.End)
	}

	merged = left.union(overlapping)
	if merged.Begin != 0 || merged.End != 5 {
		t.Fatalf("union of overlapping ranges = [%d,%d], want [0,5]", merged.Begin, merged.End)
	}
}

func TestIntervalUnionPanicsOnDisjointRanges(t *testing.T) {
	base := NewIdentifier(Tuple{Random: 10, ReplicaNumber: 1, Clock: 0, Offset: 0})
	left := NewIdentifierInterval(base, 0, 3)
	disjoint := NewIdentifierInterval(base, 9, 10)

	defer func() {
		if recover() == nil {
			t.Fatal("expected union of disjoint ranges to panic")
		}
	}()
	left.union(disjoint)
}

func TestIntervalSameBaseRequiredForAbutsAndOverlaps(t *testing.T) {
	baseA := NewIdentifier(Tuple{Random: 10, ReplicaNumber: 1, Clock: 0, Offset: 0})
	baseB := NewIdentifier(Tuple{Random: 20, ReplicaNumber: 1, Clock: 0, Offset: 0})
	a := NewIdentifierInterval(baseA, 0, 3)
	b := NewIdentifierInterval(baseB, 4, 7)

	if a.abuts(b) {
		t.Fatal("intervals with different bases must not abut regardless of contiguous offsets")
	}
	if a.overlaps(b) {
		t.Fatal("intervals with different bases must not overlap regardless of offset range")
	}
}
