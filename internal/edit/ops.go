// Package edit implements the editing half of the dispatch engine: pure
// sequence operations plus a focusable editor widget built from a shape
// descriptor. Every operation hands its caller a complete replacement
// snapshot; nothing mutates a sequence the caller already holds.
package edit

// Append returns items extended by def. Length grows by exactly one.
func Append(items []any, def any) []any {
	out := make([]any, len(items)+1)
	copy(out, items)
	out[len(items)] = def
	return out
}

// SwapAdjacent exchanges the items at i and j, where j must be i-1 or i+1.
// At either boundary, or for any other j, the input sequence is returned
// unchanged; the corresponding control renders inert.
func SwapAdjacent(items []any, i, j int) []any {
	if i < 0 || j < 0 || i >= len(items) || j >= len(items) {
		return items
	}
	if j != i-1 && j != i+1 {
		return items
	}
	out := make([]any, len(items))
	copy(out, items)
	out[i], out[j] = out[j], out[i]
	return out
}

// Delete removes the item at i, shifting subsequent items down by one.
// Out-of-range indices return the input unchanged.
func Delete(items []any, i int) []any {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]any, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out
}

// SetItem replaces the item at i, leaving every other index untouched.
func SetItem(items []any, i int, v any) []any {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]any, len(items))
	copy(out, items)
	out[i] = v
	return out
}
