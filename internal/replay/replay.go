// Package replay feeds the console state snapshots from a JSON file instead
// of a live connection. The file is watched; edits show up in the inspector
// after a short settle delay, which makes it handy for reproducing rendering
// bugs against captured states.
package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Greenheart/hathora/internal/transport"
)

// settleDelay coalesces the burst of write events most editors emit per save.
const settleDelay = 200 * time.Millisecond

// debouncer collapses rapid successive triggers into one call after the
// burst settles.
type debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

func newDebouncer(duration time.Duration) *debouncer {
	return &debouncer{duration: duration}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Source watches one snapshot file and emits a Snapshot per settled change.
type Source struct {
	path     string
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	debounce *debouncer

	snapshots chan transport.Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

// Open loads path immediately and starts watching it. The parent directory
// is watched rather than the file, so editors that replace-on-save keep
// working.
func Open(path string, log *zap.Logger) (*Source, error) {
	if log == nil {
		log = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	s := &Source{
		path:      path,
		log:       log.Named("replay"),
		watcher:   watcher,
		debounce:  newDebouncer(settleDelay),
		snapshots: make(chan transport.Snapshot, 1),
		done:      make(chan struct{}),
	}

	snap, err := s.load()
	if err != nil {
		watcher.Close()
		return nil, err
	}
	s.snapshots <- snap

	go s.watchLoop()
	return s, nil
}

// Snapshots returns the replayed state feed.
func (s *Source) Snapshots() <-chan transport.Snapshot { return s.snapshots }

// Close stops watching.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.debounce.cancel()
		err = s.watcher.Close()
	})
	return err
}

func (s *Source) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s.debounce.trigger(s.reload)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (s *Source) reload() {
	snap, err := s.load()
	if err != nil {
		// A half-written file is expected mid-save; the next event retries.
		s.log.Warn("reload failed", zap.Error(err))
		return
	}
	select {
	case <-s.done:
		return
	default:
	}
	// Only the latest snapshot matters; displace a stale unread one.
	select {
	case s.snapshots <- snap:
	default:
		select {
		case <-s.snapshots:
		default:
		}
		select {
		case s.snapshots <- snap:
		default:
		}
	}
	s.log.Debug("snapshot reloaded", zap.String("path", s.path))
}

func (s *Source) load() (transport.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return transport.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	var state any
	if err := json.Unmarshal(data, &state); err != nil {
		return transport.Snapshot{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return transport.Snapshot{State: state, At: time.Now()}, nil
}
