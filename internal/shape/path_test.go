package shape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathString(t *testing.T) {
	p := Path{}.FieldStep("players").IndexStep(2).FieldStep("role")
	if got := p.String(); got != ".players[2].role" {
		t.Fatalf("path string = %q", got)
	}
	if got := (Path{}).String(); got != "." {
		t.Fatalf("root path string = %q", got)
	}
}

func TestGetWalksRecordsAndArrays(t *testing.T) {
	v := map[string]any{
		"players": []any{
			map[string]any{"id": "u1"},
			map[string]any{"id": "u2"},
		},
	}

	p := Path{}.FieldStep("players").IndexStep(1).FieldStep("id")
	if got := Get(v, p); got != "u2" {
		t.Fatalf("got %v, want u2", got)
	}
	if got := Get(v, Path{}.FieldStep("missing")); got != nil {
		t.Fatalf("missing field should be nil, got %v", got)
	}
	if got := Get(v, Path{}.FieldStep("players").IndexStep(9)); got != nil {
		t.Fatalf("out-of-range index should be nil, got %v", got)
	}
}

func TestSetCopiesOnWrite(t *testing.T) {
	orig := map[string]any{
		"questId": 2,
		"votes":   []any{0, 1},
	}

	updated := Set(orig, Path{}.FieldStep("votes").IndexStep(0), 1)

	want := map[string]any{"questId": 2, "votes": []any{1, 1}}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("updated value mismatch (-want +got):\n%s", diff)
	}
	// The input snapshot must be untouched.
	if orig["votes"].([]any)[0] != 0 {
		t.Fatal("Set mutated the original value")
	}
}

func TestSetAtRootReplacesWholesale(t *testing.T) {
	if got := Set(map[string]any{"a": 1}, Path{}, 7); got != 7 {
		t.Fatalf("root set = %v, want 7", got)
	}
}
