// Package search runs keyword-in-context searches across a module. Results
// come out of a lazy pull iterator so a consumer showing one page of hits
// never forces the whole scope to be fetched.
package search

import (
	"context"
	"strings"
	"unicode"

	"canon-tui/internal/cache"
	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
)

// DefaultContextRadius is sized so a hit line fits a terminal row.
const DefaultContextRadius = 40

// Options tune matching and context windows.
type Options struct {
	// ContextRadius is the number of runes kept on each side of a match.
	ContextRadius int
	// WholeWords rejects matches embedded inside longer words.
	WholeWords bool
}

// Hit is one keyword-in-context result. Immutable once produced.
type Hit struct {
	Module string
	Addr   ref.Address
	Before string
	Match  string
	After  string
}

// SkippedUnit records a unit that failed to fetch during a search. The
// search continues past it.
type SkippedUnit struct {
	Addr  ref.Address
	Cause error
}

// Diagnostics accumulates non-fatal trouble for a summary line.
type Diagnostics struct {
	Skipped []SkippedUnit
}

// Pipeline issues searches against one shared cache store.
type Pipeline struct {
	store *cache.Store
	opts  Options
}

// New builds a pipeline. Zero options select the defaults.
func New(store *cache.Store, opts Options) *Pipeline {
	if opts.ContextRadius <= 0 {
		opts.ContextRadius = DefaultContextRadius
	}
	return &Pipeline{store: store, opts: opts}
}

// Search returns a lazy result sequence over the verses of scope in canon
// order. Cancelling ctx stops the sequence between units; fetches already
// dispatched complete and stay cached, but no new ones start.
func (p *Pipeline) Search(ctx context.Context, module, keyword string, scope ref.Range) *Results {
	return &Results{
		ctx:     ctx,
		p:       p,
		module:  module,
		keyword: strings.ToLower(strings.TrimSpace(keyword)),
		scope:   scope,
		cur:     scope.Start,
		done:    ref.Compare(scope.Start, scope.End) > 0,
	}
}

// Results is a restartable, finite, lazily-produced hit sequence.
type Results struct {
	ctx     context.Context
	p       *Pipeline
	module  string
	keyword string
	scope   ref.Range

	cur     ref.Address
	done    bool
	pending []Hit
	diag    Diagnostics
}

// Next yields the next hit. It returns false when the scope is exhausted,
// the keyword is empty, or the context was cancelled.
func (r *Results) Next() (Hit, bool) {
	for {
		if len(r.pending) > 0 {
			hit := r.pending[0]
			r.pending = r.pending[1:]
			return hit, true
		}
		if r.done || r.keyword == "" || r.ctx.Err() != nil {
			return Hit{}, false
		}

		unit := r.cur
		r.advance()

		raw, err := r.p.store.GetOrFetch(r.ctx, r.module, ref.Single(unit))
		if err != nil {
			if provider.IsEmpty(err) {
				// Past the chapter's real end; move to the next chapter
				// rather than flagging every estimated verse.
				r.skipChapter(unit)
				continue
			}
			r.diag.Skipped = append(r.diag.Skipped, SkippedUnit{Addr: unit, Cause: err})
			continue
		}

		text := unitText(unit, raw)
		if text == "" {
			continue
		}
		r.pending = r.scan(unit, text)
	}
}

// Diagnostics returns the skip records accumulated so far.
func (r *Results) Diagnostics() Diagnostics { return r.diag }

// Collect drains up to limit hits (all of them when limit <= 0).
func (r *Results) Collect(limit int) []Hit {
	var hits []Hit
	for {
		if limit > 0 && len(hits) >= limit {
			return hits
		}
		hit, ok := r.Next()
		if !ok {
			return hits
		}
		hits = append(hits, hit)
	}
}

func (r *Results) advance() {
	next, ok := ref.NextVerse(r.cur)
	if !ok || ref.Compare(next, r.scope.End) > 0 {
		r.done = true
		return
	}
	r.cur = next
}

// skipChapter fast-forwards iteration to the first verse of the chapter
// after the one the empty unit belonged to.
func (r *Results) skipChapter(unit ref.Address) {
	next, ok := ref.NextChapter(unit)
	if !ok || ref.Compare(next, r.scope.End) > 0 {
		r.done = true
		return
	}
	r.cur = next
}

func unitText(unit ref.Address, raw string) string {
	for _, v := range provider.ParseVerses(unit.Book, unit.Chapter, raw) {
		if v.Addr == unit {
			return v.Text
		}
	}
	return provider.CleanText(raw)
}

// scan finds every keyword occurrence in one unit's text and windows each
// into a hit. Windows truncate at the unit boundary; context never bleeds
// into adjacent verses.
func (r *Results) scan(unit ref.Address, text string) []Hit {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	needle := []rune(r.keyword)
	radius := r.p.opts.ContextRadius

	var hits []Hit
	for i := 0; i+len(needle) <= len(lower); i++ {
		if !runesEqual(lower[i:i+len(needle)], needle) {
			continue
		}
		if r.p.opts.WholeWords && !onWordBoundary(lower, i, i+len(needle)) {
			continue
		}
		before := max(0, i-radius)
		after := min(len(runes), i+len(needle)+radius)
		hits = append(hits, Hit{
			Module: r.module,
			Addr:   unit,
			Before: string(runes[before:i]),
			Match:  string(runes[i : i+len(needle)]),
			After:  string(runes[i+len(needle) : after]),
		})
		i += len(needle) - 1
	}
	return hits
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func onWordBoundary(text []rune, start, end int) bool {
	if start > 0 && isWordRune(text[start-1]) {
		return false
	}
	if end < len(text) && isWordRune(text[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
