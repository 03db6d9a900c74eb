package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// stores keeps track of every created store for the cleanup loop.
var (
	stores   = []*Store{}
	storesMu sync.Mutex
)

// Visit represents a client visit.
type Visit struct {
	Limiter  *rate.Limiter
	Count    int64
	LastSeen time.Time
}

// Store is an in-memory store for handling rate limits.
type Store struct {
	// Visits maps a request hash to its visit. Entries are removed by
	// Prune once they have been idle for longer than Duration.
	Visits map[string]*Visit

	// Limit is the number of requests a given client can perform during
	// the given duration.
	Limit int64

	// Burst is the number of tokens a client may accumulate while idle.
	// Tokens are refilled at Limit / Duration per second.
	Burst int

	// Duration is the window the limit applies to.
	Duration time.Duration

	// Hash lists the request parts composing the key. By default it is ip and path.
	Hash []string

	mtx sync.Mutex
}

// NewStore creates a new store instance.
// For instance, Limit: 5 with Duration: time.Minute allows 5 events per
// minute, per client.
func NewStore(opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}

	store := &Store{
		Visits:   make(map[string]*Visit),
		Hash:     opts.Hash,
		Limit:    opts.Limit,
		Duration: opts.Duration,
		Burst:    opts.Burst,
	}

	if store.Limit == 0 {
		store.Limit = 10
	}

	if store.Duration == 0 {
		store.Duration = time.Minute
	}

	if store.Burst == 0 {
		store.Burst = 10
	}

	if len(store.Hash) == 0 {
		store.Hash = []string{"ip", "path"}
	}

	storesMu.Lock()
	stores = append(stores, store)
	storesMu.Unlock()

	return store
}

// Get returns the visit for the given hash, creating it on first sight.
func (s *Store) Get(hash string) *Visit {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	visit, exists := s.Visits[hash]

	if !exists {
		eventsPerSecond := float64(s.Limit) / s.Duration.Seconds()

		visit = &Visit{
			Limiter:  rate.NewLimiter(rate.Limit(eventsPerSecond), s.Burst),
			LastSeen: time.Now(),
			Count:    1,
		}

		s.Visits[hash] = visit
		return visit
	}

	visit.LastSeen = time.Now()
	visit.Count = visit.Count + 1
	return visit
}

// Prune removes the visits that have not been seen since before now - Duration.
func (s *Store) Prune(now time.Time) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for hash, v := range s.Visits {
		if now.Sub(v.LastSeen) > s.Duration {
			delete(s.Visits, hash)
		}
	}
}

// Cleanup prunes every store once per interval until the context is done.
func Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			storesMu.Lock()
			current := append([]*Store{}, stores...)
			storesMu.Unlock()

			for _, s := range current {
				s.Prune(now)
			}
		}
	}
}
