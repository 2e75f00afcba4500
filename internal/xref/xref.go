// Package xref extracts citation links from commentary text so the
// cross-reference pane can list them in reading order.
package xref

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"canon-tui/internal/cache"
	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
)

// CrossReference is a directed edge from a citation found in commentary
// text to the bible address it names. Built fresh on every commentary
// update, never persisted.
type CrossReference struct {
	Source  ref.Token
	Target  ref.Range
	Preview string
}

// DefaultOpenTag and DefaultCloseTag delimit inline citations unless the
// configuration says otherwise. Commentary modules differ in how they wrap
// references.
const (
	DefaultOpenTag  = "<ref>"
	DefaultCloseTag = "</ref>"
)

// Config sets the markup the extractor recognizes. Zero values select the
// defaults.
type Config struct {
	OpenTag  string
	CloseTag string
}

// Extractor scans commentary text for inline citation tags and scripRef
// passage attributes.
type Extractor struct {
	inline   *regexp.Regexp
	scripRef *regexp.Regexp
}

var scripRefRe = regexp.MustCompile(`(?i)<scripRef[^>]*passage="([^"]+)"[^>]*>`)

// New builds an extractor from config.
func New(cfg Config) *Extractor {
	open := cfg.OpenTag
	if open == "" {
		open = DefaultOpenTag
	}
	closeTag := cfg.CloseTag
	if closeTag == "" {
		closeTag = DefaultCloseTag
	}
	inline := regexp.MustCompile(regexp.QuoteMeta(open) + `(.*?)` + regexp.QuoteMeta(closeTag))
	return &Extractor{
		inline:   inline,
		scripRef: scripRefRe,
	}
}

type hit struct {
	pos     int
	raw     string
	passage bool
}

// Extract returns the cross-references found in commentaryText in
// first-occurrence order, and the number of citations that could not be
// resolved. Duplicate targets are kept: the commentary's repetition is
// meaningful. Extraction never fails; text without markup yields nil.
//
// Citations resolve with rolling context, so "<ref>Joh 11:51</ref> and
// <ref>52</ref>" yields John 11:51 and John 11:52.
func (e *Extractor) Extract(commentaryText string) ([]CrossReference, int) {
	var hits []hit
	for _, m := range e.inline.FindAllStringSubmatchIndex(commentaryText, -1) {
		hits = append(hits, hit{pos: m[0], raw: commentaryText[m[2]:m[3]]})
	}
	for _, m := range e.scripRef.FindAllStringSubmatchIndex(commentaryText, -1) {
		hits = append(hits, hit{pos: m[0], raw: commentaryText[m[2]:m[3]], passage: true})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var refs []CrossReference
	skipped := 0
	var context *ref.Address
	for _, h := range hits {
		segments := []string{h.raw}
		if h.passage {
			segments = splitPassage(h.raw)
		}
		for _, segment := range segments {
			rng, err := ref.Resolve(segment, context)
			if err != nil {
				skipped++
				continue
			}
			token := ref.Token{Raw: segment, Range: rng}
			refs = append(refs, CrossReference{Source: token, Target: rng})
			start := rng.Start
			context = &start
		}
	}
	return refs, skipped
}

// splitPassage breaks a scripRef passage string like
// "Joh 11:51, 52, 1Jo 2:2; Ro 5:6, 8" into segments. A bare number inherits
// the book and chapter of the segment before it via the rolling context.
func splitPassage(passage string) []string {
	var segments []string
	for _, part := range strings.FieldsFunc(passage, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

const previewLen = 100

// WithPreviews decorates each reference with a short excerpt of its target
// verse, fetched through the shared cache. A failed preview fetch leaves
// the preview empty; it never drops the reference.
func WithPreviews(ctx context.Context, store *cache.Store, bibleModule string, refs []CrossReference) []CrossReference {
	out := make([]CrossReference, len(refs))
	for i, r := range refs {
		out[i] = r
		raw, err := store.GetOrFetch(ctx, bibleModule, ref.Single(r.Target.Start))
		if err != nil {
			continue
		}
		verses := provider.ParseVerses(r.Target.Start.Book, r.Target.Start.Chapter, raw)
		if len(verses) == 0 {
			continue
		}
		text := verses[0].Text
		if runes := []rune(text); len(runes) > previewLen {
			text = string(runes[:previewLen]) + "..."
		}
		out[i].Preview = text
	}
	return out
}
