package xref

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canon-tui/internal/cache"
	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
)

func target(book string, chapter, verse int) ref.Range {
	return ref.Single(ref.Address{Book: book, Chapter: chapter, Verse: verse})
}

func TestExtractInlineCitation(t *testing.T) {
	e := New(Config{})

	refs, skipped := e.Extract("...zie <ref>1 Kron 1:4</ref> en verder...")
	require.Len(t, refs, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, target("1 Chronicles", 1, 4), refs[0].Target)
	assert.Equal(t, "1 Kron 1:4", refs[0].Source.Raw)
}

func TestExtractNoMarkup(t *testing.T) {
	e := New(Config{})

	refs, skipped := e.Extract("plain commentary prose without any citations")
	assert.Empty(t, refs)
	assert.Zero(t, skipped)

	refs, skipped = e.Extract("")
	assert.Empty(t, refs)
	assert.Zero(t, skipped)
}

func TestExtractSkipsUnresolvable(t *testing.T) {
	e := New(Config{})

	refs, skipped := e.Extract("<ref>Xyzzy 9:9</ref> then <ref>Joh 3:16</ref> then <ref>not a citation</ref>")
	require.Len(t, refs, 1)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, target("John", 3, 16), refs[0].Target)
}

func TestExtractFirstOccurrenceOrder(t *testing.T) {
	e := New(Config{})

	refs, skipped := e.Extract(`Vergelijk <ref>Gen 3:15</ref> met <scripRef passage="Ro 5:6">Rom. 5:6</scripRef> en <ref>Joh 3:16</ref>.`)
	require.Len(t, refs, 3)
	assert.Zero(t, skipped)
	assert.Equal(t, target("Genesis", 3, 15), refs[0].Target)
	assert.Equal(t, target("Romans", 5, 6), refs[1].Target)
	assert.Equal(t, target("John", 3, 16), refs[2].Target)
}

func TestExtractDuplicatesKept(t *testing.T) {
	e := New(Config{})

	refs, _ := e.Extract("<ref>Gen 1:1</ref> ... <ref>Gen 1:1</ref>")
	require.Len(t, refs, 2)
	assert.Equal(t, refs[0].Target, refs[1].Target)
}

func TestExtractScripRefPassageList(t *testing.T) {
	e := New(Config{})

	refs, skipped := e.Extract(`<scripRef passage="Joh 11:51, 52; Ro 5:6, 8">verwijzingen</scripRef>`)
	require.Len(t, refs, 4)
	assert.Zero(t, skipped)
	assert.Equal(t, target("John", 11, 51), refs[0].Target)
	assert.Equal(t, target("John", 11, 52), refs[1].Target, "bare verse inherits book and chapter")
	assert.Equal(t, target("Romans", 5, 6), refs[2].Target)
	assert.Equal(t, target("Romans", 5, 8), refs[3].Target)
}

func TestExtractRollingContextAcrossTags(t *testing.T) {
	e := New(Config{})

	refs, skipped := e.Extract("<ref>Joh 11:51</ref> en <ref>52</ref>")
	require.Len(t, refs, 2)
	assert.Zero(t, skipped)
	assert.Equal(t, target("John", 11, 51), refs[0].Target)
	assert.Equal(t, target("John", 11, 52), refs[1].Target)
}

func TestExtractCustomTags(t *testing.T) {
	e := New(Config{OpenTag: "[[", CloseTag: "]]"})

	refs, skipped := e.Extract("zie [[Ps 23:1]]")
	require.Len(t, refs, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, target("Psalms", 23, 1), refs[0].Target)
}

func TestWithPreviews(t *testing.T) {
	fake := provider.NewFake()
	fake.SetVerse("KJV", ref.Address{Book: "Genesis", Chapter: 1, Verse: 1}, "In the beginning God created the heaven and the earth.")
	store, err := cache.New(fake, 0)
	require.NoError(t, err)

	refs := []CrossReference{
		{Target: target("Genesis", 1, 1)},
		{Target: target("Genesis", 1, 2)}, // not scripted; preview fetch fails
	}
	out := WithPreviews(context.Background(), store, "KJV", refs)
	require.Len(t, out, 2)
	assert.Equal(t, "In the beginning God created the heaven and the earth.", out[0].Preview)
	assert.Empty(t, out[1].Preview, "a failed preview fetch keeps the reference")
}

func TestWithPreviewsTruncatesOnRuneBoundary(t *testing.T) {
	fake := provider.NewFake()
	long := strings.Repeat("geëerd ", 20) // well past the preview length, multi-byte throughout
	fake.SetVerse("DutSVV", ref.Address{Book: "Genesis", Chapter: 1, Verse: 1}, long)
	store, err := cache.New(fake, 0)
	require.NoError(t, err)

	out := WithPreviews(context.Background(), store, "DutSVV", []CrossReference{{Target: target("Genesis", 1, 1)}})
	require.Len(t, out, 1)
	assert.True(t, utf8.ValidString(out[0].Preview), "truncation must never split a rune")
	assert.True(t, strings.HasSuffix(out[0].Preview, "..."))
	assert.Equal(t, 103, len([]rune(out[0].Preview)))
}
