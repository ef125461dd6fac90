package shape

import "testing"

func TestSymbolTableFiltersAliases(t *testing.T) {
	table := NewSymbolTable("Vote", []Symbol{
		{Label: "Reject", Value: 0},
		{Label: "Approve", Value: 1},
		{Label: "0", Value: "Reject"},
		{Label: "1", Value: "Approve"},
	})

	if table.Len() != 2 {
		t.Fatalf("expected 2 numeric entries, got %d", table.Len())
	}
	if got := table.Labels(); got[0] != "Reject" || got[1] != "Approve" {
		t.Fatalf("unexpected labels: %v", got)
	}
}

func TestSymbolTableLabelInRange(t *testing.T) {
	table := NewSymbolTable("Role", []Symbol{
		{Label: "Loyal", Value: 0},
		{Label: "Minion", Value: 1},
		{Label: "Merlin", Value: 2},
	})

	for k := 0; k < table.Len(); k++ {
		label, ok := table.Label(k)
		if !ok {
			t.Fatalf("label(%d) unexpectedly missing", k)
		}
		if want := table.Labels()[k]; label != want {
			t.Fatalf("label(%d) = %q, want %q", k, label, want)
		}
	}
}

func TestSymbolTableLabelOutOfRange(t *testing.T) {
	table := NewSymbolTable("Vote", []Symbol{
		{Label: "Reject", Value: 0},
		{Label: "Approve", Value: 1},
	})

	for _, k := range []int{-1, 2, 99} {
		if _, ok := table.Label(k); ok {
			t.Fatalf("label(%d) should be missing", k)
		}
	}
}

func TestCompositeSeesThroughOptional(t *testing.T) {
	rec := Record{Name: "Player", Fields: []Field{{Name: "id", Shape: Primitive{Prim: String}}}}

	if !Composite(rec) {
		t.Fatal("record should be composite")
	}
	if !Composite(Optional{Inner: rec}) {
		t.Fatal("optional record should be composite")
	}
	if Composite(Optional{Inner: Primitive{Prim: Int}}) {
		t.Fatal("optional int should not be composite")
	}
	if Composite(Primitive{Prim: String}) {
		t.Fatal("string should not be composite")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindPrimitive: "primitive",
		KindEnum:      "enum",
		KindOptional:  "optional",
		KindArray:     "array",
		KindRecord:    "record",
		KindReference: "reference",
		KindPlugin:    "plugin",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
