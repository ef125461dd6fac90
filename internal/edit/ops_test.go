package edit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendThenDeleteLastRestoresSequence(t *testing.T) {
	orig := []any{"a", "b", "c"}

	grown := Append(orig, "d")
	if len(grown) != 4 {
		t.Fatalf("append length = %d, want 4", len(grown))
	}

	restored := Delete(grown, len(grown)-1)
	if diff := cmp.Diff(orig, restored); diff != "" {
		t.Fatalf("append+delete-last is not identity (-want +got):\n%s", diff)
	}
}

func TestSwapAdjacentIsItsOwnInverse(t *testing.T) {
	orig := []any{1, 2, 3, 4}

	once := SwapAdjacent(orig, 1, 2)
	if diff := cmp.Diff([]any{1, 3, 2, 4}, once); diff != "" {
		t.Fatalf("single swap mismatch (-want +got):\n%s", diff)
	}

	twice := SwapAdjacent(once, 1, 2)
	if diff := cmp.Diff(orig, twice); diff != "" {
		t.Fatalf("double swap is not identity (-want +got):\n%s", diff)
	}
}

func TestSwapAdjacentBoundariesAreInert(t *testing.T) {
	orig := []any{1, 2, 3}

	if diff := cmp.Diff(orig, SwapAdjacent(orig, 0, -1)); diff != "" {
		t.Fatalf("swap up at index 0 must be a no-op:\n%s", diff)
	}
	if diff := cmp.Diff(orig, SwapAdjacent(orig, 2, 3)); diff != "" {
		t.Fatalf("swap down at last index must be a no-op:\n%s", diff)
	}
	if diff := cmp.Diff(orig, SwapAdjacent(orig, 0, 2)); diff != "" {
		t.Fatalf("non-adjacent swap must be a no-op:\n%s", diff)
	}
}

func TestDeleteShiftsSubsequentItems(t *testing.T) {
	orig := []any{"a", "b", "c", "d"}

	got := Delete(orig, 1)
	if diff := cmp.Diff([]any{"a", "c", "d"}, got); diff != "" {
		t.Fatalf("delete mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(orig, []any{"a", "b", "c", "d"}); diff != "" {
		t.Fatal("delete mutated its input")
	}
	if diff := cmp.Diff(orig, Delete(orig, 99)); diff != "" {
		t.Fatalf("out-of-range delete must be a no-op:\n%s", diff)
	}
}

func TestSetItemLeavesOtherIndicesUntouched(t *testing.T) {
	orig := []any{10, 20, 30}

	got := SetItem(orig, 1, 25)
	if diff := cmp.Diff([]any{10, 25, 30}, got); diff != "" {
		t.Fatalf("set item mismatch (-want +got):\n%s", diff)
	}
	if orig[1] != 20 {
		t.Fatal("SetItem mutated its input")
	}
}
