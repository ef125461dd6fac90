package edit

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/Greenheart/hathora/internal/shape"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, e Editor, msgs ...tea.Msg) Editor {
	t.Helper()
	for _, msg := range msgs {
		e, _ = e.Update(msg)
	}
	return e
}

func TestStringEditCommitsSynchronously(t *testing.T) {
	sh := shape.Record{Fields: []shape.Field{
		{Name: "name", Shape: shape.Primitive{Prim: shape.String}},
	}}

	var seen []any
	e := New(sh, map[string]any{"name": ""}, func(v any) { seen = append(seen, v) })

	e = press(t, e, runes("hi"))

	got := e.Value().(map[string]any)
	if got["name"] != "hi" {
		t.Fatalf("staged name = %v, want hi", got["name"])
	}
	if len(seen) == 0 {
		t.Fatal("onChange was not called on user input")
	}
	last := seen[len(seen)-1].(map[string]any)
	if last["name"] != "hi" {
		t.Fatalf("onChange snapshot = %v", last)
	}
}

func TestMalformedIntStagesZeroWithoutRejection(t *testing.T) {
	sh := shape.Record{Fields: []shape.Field{
		{Name: "questId", Shape: shape.Primitive{Prim: shape.Int}},
	}}
	e := New(sh, map[string]any{"questId": 5}, nil)

	// Appending letters makes the text unparseable; the edit is not
	// rejected, the staged value falls to zero while the text stands.
	e = press(t, e, runes("abc"))

	got := e.Value().(map[string]any)
	if got["questId"] != 0 {
		t.Fatalf("malformed int staged %v, want 0", got["questId"])
	}
	if !strings.Contains(e.View(), "5abc") {
		t.Fatalf("typed text should remain visible:\n%s", e.View())
	}
}

func TestBoolToggle(t *testing.T) {
	sh := shape.Record{Fields: []shape.Field{
		{Name: "ready", Shape: shape.Primitive{Prim: shape.Bool}},
	}}
	e := New(sh, map[string]any{"ready": false}, nil)

	e = press(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	if got := e.Value().(map[string]any)["ready"]; got != true {
		t.Fatalf("ready = %v after toggle, want true", got)
	}
}

func TestEnumEditOffersClosedChoiceList(t *testing.T) {
	table := shape.NewSymbolTable("Vote", []shape.Symbol{
		{Label: "Reject", Value: 0},
		{Label: "Approve", Value: 1},
		{Label: "0", Value: "Reject"}, // alias, must be excluded
	})
	sh := shape.Record{Fields: []shape.Field{
		{Name: "vote", Shape: shape.Enum{Table: table}},
	}}

	var last any
	e := New(sh, map[string]any{"vote": 0}, func(v any) { last = v })

	e = press(t, e, tea.KeyMsg{Type: tea.KeyRight})
	if got := last.(map[string]any)["vote"]; got != 1 {
		t.Fatalf("vote = %v after cycle, want 1", got)
	}

	// The list is closed: cycling past the end wraps to the first numeric
	// entry rather than reaching the alias.
	e = press(t, e, tea.KeyMsg{Type: tea.KeyRight})
	if got := e.Value().(map[string]any)["vote"]; got != 0 {
		t.Fatalf("vote = %v after wrap, want 0", got)
	}
}

func TestOptionalToggleRestoresCallerDefault(t *testing.T) {
	sh := shape.Record{Fields: []shape.Field{
		{Name: "timeout", Shape: shape.Optional{
			Inner:   shape.Primitive{Prim: shape.Int},
			Default: func() any { return 30 },
		}},
	}}
	e := New(sh, map[string]any{"timeout": 7}, nil)

	// Present -> absent discards the current value.
	e = press(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	if got := e.Value().(map[string]any)["timeout"]; got != nil {
		t.Fatalf("timeout = %v after discard, want nil", got)
	}
	if !strings.Contains(e.View(), "none") {
		t.Fatalf("absent optional should read none:\n%s", e.View())
	}

	// Absent -> present supplies the caller default, not the old value.
	e = press(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	if got := e.Value().(map[string]any)["timeout"]; got != 30 {
		t.Fatalf("timeout = %v after restore, want caller default 30", got)
	}
}

func TestArrayEditingKeys(t *testing.T) {
	sh := shape.Record{Fields: []shape.Field{
		{Name: "ids", Shape: shape.Array{
			Inner:   shape.Primitive{Prim: shape.Int},
			Default: func() any { return 0 },
		}},
	}}
	e := New(sh, map[string]any{"ids": []any{1, 2}}, nil)

	// Focus starts on the array head; append.
	e = press(t, e, runes("a"))
	if diff := cmp.Diff([]any{1, 2, 0}, e.Value().(map[string]any)["ids"]); diff != "" {
		t.Fatalf("append mismatch (-want +got):\n%s", diff)
	}

	// Move to the first item handle and push it down.
	e = press(t, e, tea.KeyMsg{Type: tea.KeyDown}, runes("J"))
	if diff := cmp.Diff([]any{2, 1, 0}, e.Value().(map[string]any)["ids"]); diff != "" {
		t.Fatalf("swap mismatch (-want +got):\n%s", diff)
	}

	// Pushing the first item up is inert.
	e = press(t, e, runes("K"))
	if diff := cmp.Diff([]any{2, 1, 0}, e.Value().(map[string]any)["ids"]); diff != "" {
		t.Fatalf("boundary swap should be a no-op (-want +got):\n%s", diff)
	}

	// Delete the first item.
	e = press(t, e, runes("d"))
	if diff := cmp.Diff([]any{1, 0}, e.Value().(map[string]any)["ids"]); diff != "" {
		t.Fatalf("delete mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueResetsEditor(t *testing.T) {
	sh := shape.Record{Fields: []shape.Field{
		{Name: "name", Shape: shape.Primitive{Prim: shape.String}},
	}}
	e := New(sh, map[string]any{"name": "before"}, nil)

	e.SetValue(map[string]any{"name": "after"})
	if !strings.Contains(e.View(), "after") {
		t.Fatalf("reset value not reflected:\n%s", e.View())
	}
}
