package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_DeletePrefix_DropsMatchingKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "league:lg1:standings", "a")
	store.Set(ctx, "league:lg1:bracket", "b")
	store.Set(ctx, "league:lg2:standings", "c")

	store.DeletePrefix(ctx, "league:lg1:")

	if _, ok := store.Get(ctx, "league:lg1:standings"); ok {
		t.Fatal("expected league:lg1:standings to be invalidated")
	}
	if _, ok := store.Get(ctx, "league:lg1:bracket"); ok {
		t.Fatal("expected league:lg1:bracket to be invalidated")
	}
	if _, ok := store.Get(ctx, "league:lg2:standings"); !ok {
		t.Fatal("expected league:lg2:standings to survive")
	}
}

func TestDisabledStore_AlwaysRunsLoader(t *testing.T) {
	t.Parallel()

	store := NewDisabledStore()
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "fresh", nil
	}

	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(context.Background(), "k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if got, _ := v.(string); got != "fresh" {
			t.Fatalf("unexpected value: %v", v)
		}
	}

	if got := calls.Load(); got != 3 {
		t.Fatalf("loader called %d times, want 3", got)
	}

	store.Set(context.Background(), "k", "stale")
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("disabled store must never return a hit")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
