package ecs

import "testing"

func TestEntitySetAddRemovePreservesOrder(t *testing.T) {
	set := newEntitySet()

	for _, id := range []EntityID{3, 1, 7, 5} {
		if !set.Add(id) {
			t.Fatalf("add %d should report new", id)
		}
	}
	if set.Add(7) {
		t.Fatalf("duplicate add should report false")
	}
	if set.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", set.Len())
	}
	if !set.Contains(5) || set.Contains(2) {
		t.Fatalf("containment check failed")
	}

	if !set.Remove(1) {
		t.Fatalf("remove of member should succeed")
	}
	if set.Remove(1) {
		t.Fatalf("remove of non-member should report false")
	}

	got := set.Snapshot()
	want := []EntityID{3, 7, 5}
	if len(got) != len(want) {
		t.Fatalf("snapshot %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot %v, want insertion order %v", got, want)
		}
	}

	// Removal in the middle must keep later lookups consistent.
	if !set.Remove(7) || !set.Contains(5) || set.Len() != 2 {
		t.Fatalf("index out of sync after middle removal")
	}
}

func TestEntitySetSnapshotIsIndependent(t *testing.T) {
	set := newEntitySet()
	set.Add(1)
	set.Add(2)

	snap := set.Snapshot()
	set.Remove(1)
	if len(snap) != 2 || snap[0] != 1 {
		t.Fatalf("snapshot should be unaffected by later mutation: %v", snap)
	}

	if empty := newEntitySet().Snapshot(); empty != nil {
		t.Fatalf("empty set snapshot should be nil, got %v", empty)
	}
}
