package shape

import (
	"fmt"
	"strings"
)

// Step is one segment of a Path: either a record field name or an array index.
type Step struct {
	Field   string
	Index   int
	IsIndex bool
}

// Path addresses one node inside a value tree. The zero Path addresses the
// root. Paths double as collapse-state keys, so String must be stable for a
// given position regardless of the value occupying it.
type Path []Step

// FieldStep returns a Path extended by a record field.
func (p Path) FieldStep(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Field: name})
}

// IndexStep returns a Path extended by an array index.
func (p Path) IndexStep(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Index: i, IsIndex: true})
}

// String renders the path in accessor notation, e.g. ".players[2].role".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var sb strings.Builder
	for _, s := range p {
		if s.IsIndex {
			fmt.Fprintf(&sb, "[%d]", s.Index)
		} else {
			sb.WriteByte('.')
			sb.WriteString(s.Field)
		}
	}
	return sb.String()
}

// Get walks v along p. Missing fields and out-of-range indices yield nil,
// the same representation as an absent optional.
func Get(v any, p Path) any {
	for _, s := range p {
		switch {
		case s.IsIndex:
			items, ok := v.([]any)
			if !ok || s.Index < 0 || s.Index >= len(items) {
				return nil
			}
			v = items[s.Index]
		default:
			rec, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = rec[s.Field]
		}
	}
	return v
}

// Set returns a copy of v with the node at p replaced by nv. Containers on
// the path are copied (copy-on-write), so the returned value is a complete
// snapshot and the input is never mutated.
func Set(v any, p Path, nv any) any {
	if len(p) == 0 {
		return nv
	}
	s := p[0]
	if s.IsIndex {
		items, _ := v.([]any)
		if s.Index < 0 || s.Index >= len(items) {
			return v
		}
		out := make([]any, len(items))
		copy(out, items)
		out[s.Index] = Set(items[s.Index], p[1:], nv)
		return out
	}
	rec, _ := v.(map[string]any)
	out := make(map[string]any, len(rec)+1)
	for k, val := range rec {
		out[k] = val
	}
	out[s.Field] = Set(rec[s.Field], p[1:], nv)
	return out
}
