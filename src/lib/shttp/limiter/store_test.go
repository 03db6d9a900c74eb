package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/shttp/limiter"
	"github.com/stretchr/testify/assert"
)

func TestNewStore(t *testing.T) {
	store := limiter.NewStore(&limiter.Options{
		Limit:    1000,
		Duration: time.Hour,
	})

	assert.Equal(t, int64(1000), store.Limit)
	assert.Equal(t, time.Hour, store.Duration)
	assert.Equal(t, 10, store.Burst)
	assert.Equal(t, []string{"ip", "path"}, store.Hash)
}

func TestStore_GetCountsVisits(t *testing.T) {
	store := limiter.NewStore(nil)

	store.Get("1.1.1.1-/path")
	visit := store.Get("1.1.1.1-/path")

	assert.Equal(t, int64(2), visit.Count)
	assert.Len(t, store.Visits, 1)
}

func TestStore_Prune(t *testing.T) {
	store := limiter.NewStore(&limiter.Options{Duration: time.Second})
	store.Get("stale")

	store.Prune(time.Now())
	assert.Len(t, store.Visits, 1)

	store.Prune(time.Now().Add(2 * time.Second))
	assert.Len(t, store.Visits, 0)
}

func TestCleanup_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		limiter.Cleanup(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop after the context was cancelled")
	}
}
