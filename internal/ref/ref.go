// Package ref defines canonical addresses and the citation resolver that
// turns free-form reference text into them.
package ref

import (
	"fmt"
	"strings"

	"canon-tui/internal/canon"
)

// Address is a canonical (book, chapter, verse) coordinate. Chapter and
// verse are always >= 1 for a valid address.
type Address struct {
	Book    string
	Chapter int
	Verse   int
}

// Valid reports whether the address names a known book with positive
// chapter and verse.
func (a Address) Valid() bool {
	return canon.Index(a.Book) >= 0 && a.Chapter >= 1 && a.Verse >= 1
}

func (a Address) String() string {
	return fmt.Sprintf("%s %d:%d", a.Book, a.Chapter, a.Verse)
}

// Compare orders addresses by canon book order, then chapter, then verse.
func Compare(a, b Address) int {
	ai, bi := canon.Index(a.Book), canon.Index(b.Book)
	switch {
	case ai != bi:
		if ai < bi {
			return -1
		}
		return 1
	case a.Chapter != b.Chapter:
		if a.Chapter < b.Chapter {
			return -1
		}
		return 1
	case a.Verse != b.Verse:
		if a.Verse < b.Verse {
			return -1
		}
		return 1
	}
	return 0
}

// Range is an ordered pair of addresses delimiting a span. A single verse
// is the degenerate range where Start == End.
type Range struct {
	Start Address
	End   Address
}

// Single wraps one address as a degenerate range.
func Single(a Address) Range { return Range{Start: a, End: a} }

// Chapter returns the range spanning a whole chapter, using the canon's
// verse estimate for the end bound.
func Chapter(book string, chapter int) Range {
	return Range{
		Start: Address{Book: book, Chapter: chapter, Verse: 1},
		End:   Address{Book: book, Chapter: chapter, Verse: canon.VerseEstimate(book, chapter)},
	}
}

// IsSingle reports whether the range covers exactly one verse.
func (r Range) IsSingle() bool { return r.Start == r.End }

// Contains reports whether the address falls inside the range.
func (r Range) Contains(a Address) bool {
	return Compare(r.Start, a) <= 0 && Compare(a, r.End) <= 0
}

func (r Range) String() string {
	if r.IsSingle() {
		return r.Start.String()
	}
	if r.Start.Book == r.End.Book && r.Start.Chapter == r.End.Chapter {
		return fmt.Sprintf("%s %d:%d-%d", r.Start.Book, r.Start.Chapter, r.Start.Verse, r.End.Verse)
	}
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// ProviderText formats the range in the citation syntax the external
// retrieval process accepts.
func (r Range) ProviderText() string {
	tok := canon.ProviderToken(r.Start.Book)
	if r.IsSingle() {
		return fmt.Sprintf("%s %d:%d", tok, r.Start.Chapter, r.Start.Verse)
	}
	if r.Start.Book == r.End.Book && r.Start.Chapter == r.End.Chapter {
		return fmt.Sprintf("%s %d:%d-%d", tok, r.Start.Chapter, r.Start.Verse, r.End.Verse)
	}
	return fmt.Sprintf("%s %d:%d-%s %d:%d", tok, r.Start.Chapter, r.Start.Verse,
		canon.ProviderToken(r.End.Book), r.End.Chapter, r.End.Verse)
}

// Token is a raw substring matched inside arbitrary text together with the
// range it resolved to. Only the resolver produces tokens.
type Token struct {
	Raw   string
	Range Range
}

// UnknownBookError reports a book name that matched nothing in the canon.
type UnknownBookError struct {
	Name string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unknown book %q", e.Name)
}

// AmbiguousBookError reports a prefix that matched more than one book.
// Candidates are listed in canon order.
type AmbiguousBookError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousBookError) Error() string {
	return fmt.Sprintf("ambiguous book %q: %s", e.Name, strings.Join(e.Candidates, ", "))
}

// MalformedCitationError reports input that does not fit the citation
// grammar at all.
type MalformedCitationError struct {
	Input string
}

func (e *MalformedCitationError) Error() string {
	return fmt.Sprintf("malformed citation %q", e.Input)
}
