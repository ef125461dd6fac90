// Package session carries the ambient context threaded through the render
// tree: the live connection handle, the current user, the latest state
// snapshot, and its arrival time. One Context is constructed per top-level
// mount and updated on each inbound snapshot; widgets receive it by value so
// every render observes one consistent view.
package session

import (
	"context"
	"time"

	"github.com/Greenheart/hathora/internal/transport"
)

// Submitter is the slice of the connection the render tree needs.
type Submitter interface {
	Submit(ctx context.Context, method string, payload any) (transport.Response, error)
}

// Context is the ambient session state.
type Context struct {
	Conn      Submitter
	UserID    string
	State     any
	UpdatedAt time.Time
}

// WithSnapshot returns the context advanced to a newer state snapshot.
func (c Context) WithSnapshot(s transport.Snapshot) Context {
	c.State = s.State
	c.UpdatedAt = s.At
	return c
}
