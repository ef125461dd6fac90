// Package pluginreg is the console's one cross-boundary extension point: a
// registry of externally supplied rendering elements addressed by ID. The
// engine hands an element the current value plus the ambient session context
// on every re-render and listens for a narrow error signal back; it never
// inspects the element's internals.
package pluginreg

import (
	"fmt"
	"sync"

	"github.com/Greenheart/hathora/internal/session"
)

// RenderContext is everything an element observes: the value assigned to its
// node and the ambient session snapshot at render time.
type RenderContext struct {
	Value   any
	Session session.Context
}

// Element is an externally registered renderer. Subscribe registers an error
// listener for the duration of a mount; the returned cancel must detach it.
type Element interface {
	Render(rc RenderContext) string
	Subscribe(onError func(detail string)) (cancel func())
}

// Registry maps element IDs to elements.
type Registry struct {
	mu       sync.RWMutex
	elements map[string]Element
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{elements: make(map[string]Element)}
}

// Register adds an element under id. Re-registering an ID is rejected so a
// mounted bridge never observes its element being swapped.
func (r *Registry) Register(id string, el Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.elements[id]; dup {
		return fmt.Errorf("plugin element %q already registered", id)
	}
	r.elements[id] = el
	return nil
}

// Get returns the element registered under id.
func (r *Registry) Get(id string) (Element, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el, ok := r.elements[id]
	return el, ok
}

// FuncElement adapts a render function into an Element with a fan-out error
// feed, convenient for simple plugins and tests.
type FuncElement struct {
	RenderFunc func(rc RenderContext) string

	mu        sync.Mutex
	listeners map[int]func(string)
	next      int
}

// Render invokes the wrapped function.
func (f *FuncElement) Render(rc RenderContext) string {
	if f.RenderFunc == nil {
		return ""
	}
	return f.RenderFunc(rc)
}

// Subscribe attaches an error listener.
func (f *FuncElement) Subscribe(onError func(detail string)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = make(map[int]func(string))
	}
	id := f.next
	f.next++
	f.listeners[id] = onError
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// EmitError notifies current subscribers; unsubscribed listeners never fire.
func (f *FuncElement) EmitError(detail string) {
	f.mu.Lock()
	ls := make([]func(string), 0, len(f.listeners))
	for _, l := range f.listeners {
		ls = append(ls, l)
	}
	f.mu.Unlock()
	for _, l := range ls {
		l(detail)
	}
}
