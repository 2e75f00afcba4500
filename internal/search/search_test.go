package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canon-tui/internal/cache"
	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
)

func addr(book string, chapter, verse int) ref.Address {
	return ref.Address{Book: book, Chapter: chapter, Verse: verse}
}

// genesisOne scripts a Dutch Genesis 1 where "licht" first appears in verse
// 3 and again in verse 14.
func genesisOne(fake *provider.Fake) {
	texts := make([]string, 31)
	for i := range texts {
		texts[i] = "En God zag dat het goed was."
	}
	texts[2] = "En God zeide: Daar zij licht!"
	texts[13] = "Dat er lichten zijn in het uitspansel; licht op de aarde."
	fake.SetChapter("DutSVV", "Genesis", 1, texts)
}

func newPipeline(t *testing.T, fake *provider.Fake, opts Options) *Pipeline {
	t.Helper()
	store, err := cache.New(fake, 0)
	require.NoError(t, err)
	return New(store, opts)
}

func TestSearchFindsHitsInCanonOrder(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	hits := p.Search(context.Background(), "DutSVV", "licht", scope).Collect(0)

	require.Len(t, hits, 2)
	assert.Equal(t, addr("Genesis", 1, 3), hits[0].Addr)
	assert.Equal(t, addr("Genesis", 1, 14), hits[1].Addr)
	assert.Equal(t, "licht", hits[0].Match)
	assert.Equal(t, "DutSVV", hits[0].Module)
}

func TestSearchMatchesCaseInsensitive(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	hits := p.Search(context.Background(), "DutSVV", "LICHT", scope).Collect(0)
	require.Len(t, hits, 2)
}

func TestSearchWholeWords(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)

	scope := ref.Range{Start: addr("Genesis", 1, 14), End: addr("Genesis", 1, 14)}

	// WholeWords rejects the match inside "lichten".
	p := newPipeline(t, fake, Options{WholeWords: true})
	hits := p.Search(context.Background(), "DutSVV", "licht", scope).Collect(0)
	require.Len(t, hits, 1)

	// Substring matching finds both.
	p = newPipeline(t, fake, Options{})
	hits = p.Search(context.Background(), "DutSVV", "licht", scope).Collect(0)
	require.Len(t, hits, 2)
}

func TestSearchContextWindows(t *testing.T) {
	fake := provider.NewFake()
	fake.SetVerse("KJV", addr("Genesis", 1, 3), "And God said, Let there be light: and there was light.")
	p := newPipeline(t, fake, Options{ContextRadius: 10})

	scope := ref.Single(addr("Genesis", 1, 3))
	hits := p.Search(context.Background(), "KJV", "light", scope).Collect(0)

	require.Len(t, hits, 2)
	assert.Equal(t, "light", hits[0].Match)
	assert.LessOrEqual(t, len([]rune(hits[0].Before)), 10)
	assert.LessOrEqual(t, len([]rune(hits[0].After)), 10)
	// The second hit sits at the end of the verse; its window truncates there.
	assert.Equal(t, ".", hits[1].After)
}

func TestSearchSkipsFailedUnits(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	fake.FailWith("DutSVV", addr("Genesis", 1, 5), provider.Timeout)
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	results := p.Search(context.Background(), "DutSVV", "licht", scope)
	hits := results.Collect(0)

	require.Len(t, hits, 2, "a failing unit must not abort the search")
	assert.Equal(t, addr("Genesis", 1, 3), hits[0].Addr)
	assert.Equal(t, addr("Genesis", 1, 14), hits[1].Addr)
	diag := results.Diagnostics()
	require.Len(t, diag.Skipped, 1)
	assert.Equal(t, addr("Genesis", 1, 5), diag.Skipped[0].Addr)
	assert.Equal(t, provider.Timeout, provider.KindOf(diag.Skipped[0].Cause))
}

func TestSearchEmptyUnitsAdvanceWithoutDiagnostics(t *testing.T) {
	fake := provider.NewFake()
	// Genesis 1 has only three real verses here; the estimate overshoots and
	// verse 4 comes back empty. Iteration moves on to chapter 2.
	fake.SetChapter("DutSVV", "Genesis", 1, []string{"een", "twee", "drie"})
	fake.SetChapter("DutSVV", "Genesis", 2, []string{"licht hier"})
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 2, 1)}
	results := p.Search(context.Background(), "DutSVV", "licht", scope)
	hits := results.Collect(0)

	require.Len(t, hits, 1)
	assert.Equal(t, addr("Genesis", 2, 1), hits[0].Addr)
	assert.Empty(t, results.Diagnostics().Skipped, "empty results are not failures")
}

func TestSearchIsLazy(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	results := p.Search(context.Background(), "DutSVV", "licht", scope)

	hit, ok := results.Next()
	require.True(t, ok)
	assert.Equal(t, addr("Genesis", 1, 3), hit.Addr)
	assert.Equal(t, 3, fake.Fetches(), "verses past the first hit must not be fetched yet")
}

func TestSearchCancellation(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{WholeWords: true})

	ctx, cancel := context.WithCancel(context.Background())
	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	results := p.Search(ctx, "DutSVV", "licht", scope)

	_, ok := results.Next()
	require.True(t, ok)
	cancel()

	fetched := fake.Fetches()
	_, ok = results.Next()
	assert.False(t, ok)
	assert.Equal(t, fetched, fake.Fetches(), "no new fetches after cancellation")
}

func TestSearchEmptyKeywordAndEmptyScope(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	assert.Empty(t, p.Search(context.Background(), "DutSVV", "   ", scope).Collect(0))

	inverted := ref.Range{Start: addr("Genesis", 1, 31), End: addr("Genesis", 1, 1)}
	assert.Empty(t, p.Search(context.Background(), "DutSVV", "licht", inverted).Collect(0))
	assert.Zero(t, fake.Fetches())
}

func TestSearchRepeatedRunsIdentical(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	first := p.Search(context.Background(), "DutSVV", "licht", scope).Collect(0)
	fetched := fake.Fetches()
	second := p.Search(context.Background(), "DutSVV", "licht", scope).Collect(0)

	assert.Equal(t, first, second)
	assert.Equal(t, fetched, fake.Fetches(), "the second pass is served from cache")
}

func TestCollectLimit(t *testing.T) {
	fake := provider.NewFake()
	genesisOne(fake)
	p := newPipeline(t, fake, Options{WholeWords: true})

	scope := ref.Range{Start: addr("Genesis", 1, 1), End: addr("Genesis", 1, 31)}
	hits := p.Search(context.Background(), "DutSVV", "licht", scope).Collect(1)
	require.Len(t, hits, 1)
	assert.Equal(t, addr("Genesis", 1, 3), hits[0].Addr)
}
