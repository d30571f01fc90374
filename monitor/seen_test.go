package monitor

import (
	"fmt"
	"testing"
)

func TestSeenSet_AddContains(t *testing.T) {
	seen := NewSeenSet(10)

	if seen.Contains("c1") {
		t.Error("Contains(c1) = true before Add")
	}
	seen.Add("c1")
	if !seen.Contains("c1") {
		t.Error("Contains(c1) = false after Add")
	}
	if seen.Len() != 1 {
		t.Errorf("Len() = %d, want 1", seen.Len())
	}
}

func TestSeenSet_AddIsIdempotent(t *testing.T) {
	seen := NewSeenSet(10)

	seen.Add("c1")
	seen.Add("c1")
	seen.Add("c1")
	if seen.Len() != 1 {
		t.Errorf("Len() = %d, want 1", seen.Len())
	}
}

func TestSeenSet_EvictsOldestAtCapacity(t *testing.T) {
	seen := NewSeenSet(3)

	for i := 1; i <= 4; i++ {
		seen.Add(fmt.Sprintf("c%d", i))
	}

	if seen.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", seen.Len())
	}
	if seen.Contains("c1") {
		t.Error("oldest entry c1 should have been evicted")
	}
	for _, id := range []string{"c2", "c3", "c4"} {
		if !seen.Contains(id) {
			t.Errorf("Contains(%s) = false, want true", id)
		}
	}
}

func TestSeenSet_DefaultCapacity(t *testing.T) {
	seen := NewSeenSet(0)
	if seen.capacity != DefaultSeenCapacity {
		t.Errorf("capacity = %d, want %d", seen.capacity, DefaultSeenCapacity)
	}
}
