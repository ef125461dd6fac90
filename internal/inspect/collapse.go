// Package inspect implements the display half of the dispatch engine: a
// read-only collapsible tree rendered from a value and its shape descriptor,
// with lazy reference resolution and the plugin display bridge.
package inspect

// States tracks per-node collapse flags, keyed by the node's position in the
// tree rather than by value identity. A node is seeded exactly once, when it
// is first mounted; afterwards only the user's toggle changes it, even if
// the underlying value grows or shrinks.
type States struct {
	m map[string]bool
}

// NewStates returns an empty state store.
func NewStates() *States {
	return &States{m: make(map[string]bool)}
}

// Seed records the default for key if the node has never been seen, and
// returns the effective state.
func (s *States) Seed(key string, collapsed bool) bool {
	if cur, ok := s.m[key]; ok {
		return cur
	}
	s.m[key] = collapsed
	return collapsed
}

// Seeded reports whether key has been mounted.
func (s *States) Seeded(key string) bool {
	_, ok := s.m[key]
	return ok
}

// Collapsed returns the current state for key; unseeded nodes are expanded.
func (s *States) Collapsed(key string) bool {
	return s.m[key]
}

// Toggle flips key between expanded and collapsed. The transition is
// symmetric and user-triggered only.
func (s *States) Toggle(key string) {
	s.m[key] = !s.m[key]
}

// DefaultArrayCollapsed is the mount-time size heuristic for array nodes:
// empty arrays stay open, composite-item arrays fold above seven items,
// scalar-item arrays above four. It runs once, against the initial value,
// and is deliberately never re-evaluated as the array changes.
func DefaultArrayCollapsed(length int, firstComposite bool) bool {
	if length == 0 {
		return false
	}
	if firstComposite {
		return length > 7
	}
	return length > 4
}
