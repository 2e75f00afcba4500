// Package cache memoizes provider lookups. One Store is shared by every
// pane and by the search pipeline, so it must hold up under concurrent
// access and must never fetch the same key twice at once.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
)

// DefaultCapacity covers a chapter-by-chapter reading session plus a
// keyword search pass without thrashing.
const DefaultCapacity = 512

type entry struct {
	text      string
	fetchedAt time.Time
}

// Store wraps a TextProvider with a bounded least-recently-used cache.
// Misses for the same (module, range) key coalesce into a single provider
// call; failures are never cached, so transient errors retry on the next
// access.
type Store struct {
	provider provider.TextProvider
	entries  *lru.Cache[string, entry]
	group    singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	coalesced atomic.Int64
}

// New builds a store over the given provider. capacity <= 0 selects
// DefaultCapacity.
func New(p provider.TextProvider, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{provider: p, entries: entries}, nil
}

func key(module string, rng ref.Range) string {
	return module + "\x00" + rng.String()
}

// GetOrFetch returns the cached text for the key or fetches it through the
// provider. A hit never touches the provider. The lock inside the LRU
// covers only map updates, never the fetch itself.
func (s *Store) GetOrFetch(ctx context.Context, module string, rng ref.Range) (string, error) {
	k := key(module, rng)
	if e, ok := s.entries.Get(k); ok {
		s.hits.Add(1)
		return e.text, nil
	}
	s.misses.Add(1)

	text, err, shared := s.group.Do(k, func() (interface{}, error) {
		raw, err := s.provider.Fetch(ctx, module, rng)
		if err != nil {
			return "", err
		}
		s.entries.Add(k, entry{text: raw, fetchedAt: time.Now()})
		return raw, nil
	})
	if shared {
		s.coalesced.Add(1)
	}
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

// Contains reports whether the key is currently cached, without touching
// recency.
func (s *Store) Contains(module string, rng ref.Range) bool {
	return s.entries.Contains(key(module, rng))
}

// Len returns the number of cached entries.
func (s *Store) Len() int { return s.entries.Len() }

// Stats is a snapshot of cache effectiveness counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Coalesced int64
}

// Stats returns current counter values.
func (s *Store) Stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Coalesced: s.coalesced.Load(),
	}
}
