package refcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResolveCachesFirstResult(t *testing.T) {
	var calls int32
	cache := New(func(ctx context.Context, id string) (*Descriptor, error) {
		atomic.AddInt32(&calls, 1)
		return &Descriptor{ID: id, Type: "human"}, nil
	})

	for i := 0; i < 3; i++ {
		d, err := cache.Resolve(context.Background(), "u1")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if d.ID != "u1" || d.Type != "human" {
			t.Fatalf("unexpected descriptor: %+v", d)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("lookup called %d times, want 1", got)
	}
}

func TestResolveDistinguishesIdentifiers(t *testing.T) {
	cache := New(func(ctx context.Context, id string) (*Descriptor, error) {
		return &Descriptor{ID: id, Type: "bot"}, nil
	})

	a, _ := cache.Resolve(context.Background(), "u1")
	b, _ := cache.Resolve(context.Background(), "u2")
	if a.ID == b.ID {
		t.Fatal("distinct identifiers must resolve independently")
	}
}

func TestResolveErrorIsNotCached(t *testing.T) {
	var calls int32
	cache := New(func(ctx context.Context, id string) (*Descriptor, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("lookup down")
		}
		return &Descriptor{ID: id, Type: "human"}, nil
	})

	if _, err := cache.Resolve(context.Background(), "u1"); err == nil {
		t.Fatal("expected first resolve to fail")
	}
	if _, ok := cache.Peek("u1"); ok {
		t.Fatal("failed lookup must not populate the cache")
	}
}

func TestUnresolvedIdentityIsNotAnError(t *testing.T) {
	cache := New(func(ctx context.Context, id string) (*Descriptor, error) {
		return nil, nil
	})

	d, err := cache.Resolve(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unresolved identity should not error: %v", err)
	}
	if d != nil {
		t.Fatalf("expected nil descriptor, got %+v", d)
	}
}

func TestConcurrentResolveSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	cache := New(func(ctx context.Context, id string) (*Descriptor, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &Descriptor{ID: id}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Resolve(context.Background(), "u1")
		}()
	}
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("lookup called %d times under contention, want 1", got)
	}
}
