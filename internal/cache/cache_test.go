package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
)

func addr(book string, chapter, verse int) ref.Address {
	return ref.Address{Book: book, Chapter: chapter, Verse: verse}
}

func TestGetOrFetchCachesHits(t *testing.T) {
	fake := provider.NewFake()
	fake.SetVerse("KJV", addr("Genesis", 1, 1), "In the beginning.")
	store, err := New(fake, 0)
	require.NoError(t, err)

	rng := ref.Single(addr("Genesis", 1, 1))

	first, err := store.GetOrFetch(context.Background(), "KJV", rng)
	require.NoError(t, err)
	assert.Contains(t, first, "In the beginning.")
	assert.Equal(t, 1, fake.Fetches())

	second, err := store.GetOrFetch(context.Background(), "KJV", rng)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.Fetches(), "a hit must never touch the provider")

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestKeyIncludesModule(t *testing.T) {
	fake := provider.NewFake()
	fake.SetVerse("KJV", addr("Genesis", 1, 1), "In the beginning.")
	fake.SetVerse("DutSVV", addr("Genesis", 1, 1), "In den beginne.")
	store, err := New(fake, 0)
	require.NoError(t, err)

	rng := ref.Single(addr("Genesis", 1, 1))

	kjv, err := store.GetOrFetch(context.Background(), "KJV", rng)
	require.NoError(t, err)
	svv, err := store.GetOrFetch(context.Background(), "DutSVV", rng)
	require.NoError(t, err)
	assert.NotEqual(t, kjv, svv)
	assert.Equal(t, 2, fake.Fetches())
}

func TestConcurrentMissesCoalesce(t *testing.T) {
	fake := provider.NewFake()
	fake.SetVerse("KJV", addr("Genesis", 1, 1), "In the beginning.")
	fake.SetDelay(50 * time.Millisecond)
	store, err := New(fake, 0)
	require.NoError(t, err)

	rng := ref.Single(addr("Genesis", 1, 1))

	const callers = 8
	var wg sync.WaitGroup
	texts := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			texts[i], errs[i] = store.GetOrFetch(context.Background(), "KJV", rng)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, texts[0], texts[i])
	}
	assert.Equal(t, 1, fake.Fetches(), "concurrent misses for one key must share one fetch")
}

func TestFailuresAreNotCached(t *testing.T) {
	fake := provider.NewFake()
	fake.FailWith("KJV", addr("Genesis", 1, 1), provider.Timeout)
	store, err := New(fake, 0)
	require.NoError(t, err)

	rng := ref.Single(addr("Genesis", 1, 1))

	_, err = store.GetOrFetch(context.Background(), "KJV", rng)
	require.Error(t, err)
	assert.Equal(t, provider.Timeout, provider.KindOf(err))
	assert.False(t, store.Contains("KJV", rng))

	_, err = store.GetOrFetch(context.Background(), "KJV", rng)
	require.Error(t, err)
	assert.Equal(t, 2, fake.Fetches(), "a failure must retry on the next access")
}

func TestLRUEviction(t *testing.T) {
	fake := provider.NewFake()
	for v := 1; v <= 3; v++ {
		fake.SetVerse("KJV", addr("Genesis", 1, v), "text")
	}
	store, err := New(fake, 2)
	require.NoError(t, err)

	ctx := context.Background()
	for v := 1; v <= 3; v++ {
		_, err := store.GetOrFetch(ctx, "KJV", ref.Single(addr("Genesis", 1, v)))
		require.NoError(t, err)
	}

	assert.Equal(t, 2, store.Len())
	assert.False(t, store.Contains("KJV", ref.Single(addr("Genesis", 1, 1))), "least recently used entry is evicted first")
	assert.True(t, store.Contains("KJV", ref.Single(addr("Genesis", 1, 2))))
	assert.True(t, store.Contains("KJV", ref.Single(addr("Genesis", 1, 3))))

	// The evicted key refetches.
	_, err = store.GetOrFetch(ctx, "KJV", ref.Single(addr("Genesis", 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, 4, fake.Fetches())
}
