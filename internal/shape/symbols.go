package shape

// Symbol is one candidate symbol-table entry. Value is loosely typed because
// enum tables sourced from generated code carry reverse aliases (a string
// value keyed by the number it aliases); the constructor drops those.
type Symbol struct {
	Label string
	Value any
}

// SymbolTable is an ordered mapping from label to numeric backing value,
// built once per enum at schema-definition time.
type SymbolTable struct {
	name   string
	labels []string
	values []int
}

// NewSymbolTable builds a table from entries in declaration order, keeping
// only entries whose value is an integer. String-valued aliases never reach
// the choice list.
func NewSymbolTable(name string, entries []Symbol) *SymbolTable {
	t := &SymbolTable{name: name}
	for _, e := range entries {
		n, ok := numeric(e.Value)
		if !ok {
			continue
		}
		t.labels = append(t.labels, e.Label)
		t.values = append(t.values, n)
	}
	return t
}

func numeric(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// AsInt normalizes the integer representations a snapshot can carry; JSON
// decoding yields float64 where schemas declare integers.
func AsInt(v any) int {
	n, _ := numeric(v)
	return n
}

// Name returns the table's display name.
func (t *SymbolTable) Name() string { return t.name }

// Len returns the number of numeric-valued entries.
func (t *SymbolTable) Len() int { return len(t.labels) }

// Label returns the label at position k. The second return is false when k
// is outside [0, Len), which callers surface as an unlabeled value rather
// than a failure.
func (t *SymbolTable) Label(k int) (string, bool) {
	if k < 0 || k >= len(t.labels) {
		return "", false
	}
	return t.labels[k], true
}

// Labels returns the choice list in declaration order.
func (t *SymbolTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// ValueAt returns the numeric backing value at position k.
func (t *SymbolTable) ValueAt(k int) int {
	return t.values[k]
}

// Index returns the position whose backing value equals v, or -1.
func (t *SymbolTable) Index(v int) int {
	for i, n := range t.values {
		if n == v {
			return i
		}
	}
	return -1
}
