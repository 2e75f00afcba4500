package ref

import (
	"regexp"
	"strconv"
	"strings"

	"canon-tui/internal/canon"
)

// Grammar, case-insensitive and whitespace-tolerant:
//
//	<book> <chapter>[:<verse>[-<verse>]]
//	<book> <chapter>
//	<chapter>:<verse>[-<verse>]   (book from context)
//	<verse>                       (book and chapter from context)
//
// Dots are accepted where colons are ("Gen 1.3"), matching how commentary
// modules print references.
var (
	fullRe  = regexp.MustCompile(`^((?:\d\s*)?[A-Za-z][A-Za-z.]*(?:\s+[A-Za-z][A-Za-z.]*)*)\s+(\d+)(?:\s*[:.]\s*(\d+)(?:\s*-\s*(\d+))?)?$`)
	bareCV  = regexp.MustCompile(`^(\d+)\s*[:.]\s*(\d+)(?:\s*-\s*(\d+))?$`)
	bareV   = regexp.MustCompile(`^(\d+)$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Resolve parses a free-form citation into a range. context supplies the
// book (and chapter) for bare forms; it may be nil. Resolve is pure and
// never panics on any input.
func Resolve(text string, context *Address) (Range, error) {
	cleaned := spaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	if cleaned == "" {
		return Range{}, &MalformedCitationError{Input: text}
	}

	if m := fullRe.FindStringSubmatch(cleaned); m != nil {
		book, err := resolveBook(m[1])
		if err != nil {
			return Range{}, err
		}
		chapter, _ := strconv.Atoi(m[2])
		if chapter < 1 {
			return Range{}, &MalformedCitationError{Input: text}
		}
		if m[3] == "" {
			return Chapter(book, chapter), nil
		}
		return verseRange(book, chapter, m[3], m[4], text)
	}

	if m := bareCV.FindStringSubmatch(cleaned); m != nil {
		if context == nil || canon.Index(context.Book) < 0 {
			return Range{}, &MalformedCitationError{Input: text}
		}
		chapter, _ := strconv.Atoi(m[1])
		if chapter < 1 {
			return Range{}, &MalformedCitationError{Input: text}
		}
		return verseRange(context.Book, chapter, m[2], m[3], text)
	}

	if m := bareV.FindStringSubmatch(cleaned); m != nil {
		if context == nil || canon.Index(context.Book) < 0 || context.Chapter < 1 {
			return Range{}, &MalformedCitationError{Input: text}
		}
		return verseRange(context.Book, context.Chapter, m[1], "", text)
	}

	return Range{}, &MalformedCitationError{Input: text}
}

func verseRange(book string, chapter int, startStr, endStr, input string) (Range, error) {
	start, _ := strconv.Atoi(startStr)
	if start < 1 {
		return Range{}, &MalformedCitationError{Input: input}
	}
	end := start
	if endStr != "" {
		end, _ = strconv.Atoi(endStr)
		if end < start {
			return Range{}, &MalformedCitationError{Input: input}
		}
	}
	return Range{
		Start: Address{Book: book, Chapter: chapter, Verse: start},
		End:   Address{Book: book, Chapter: chapter, Verse: end},
	}, nil
}

// resolveBook matches a book name: exact canonical/abbreviation/alias match
// first, then a unique case-insensitive prefix.
func resolveBook(raw string) (string, error) {
	if name, ok := canon.Resolve(raw); ok {
		return name, nil
	}
	matches := canon.PrefixMatches(raw)
	switch len(matches) {
	case 0:
		return "", &UnknownBookError{Name: strings.TrimSpace(raw)}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousBookError{Name: strings.TrimSpace(raw), Candidates: matches}
	}
}

// NextVerse, PrevVerse and friends step an address through canon order,
// crossing chapter and book boundaries. Verse steps use the canon's verse
// estimates, so stepping may land past a short chapter's real end; lookups
// there come back empty and the caller steps again.

func NextVerse(a Address) (Address, bool) {
	if a.Verse < canon.VerseEstimate(a.Book, a.Chapter) {
		a.Verse++
		return a, true
	}
	return NextChapter(a)
}

func PrevVerse(a Address) (Address, bool) {
	if a.Verse > 1 {
		a.Verse--
		return a, true
	}
	prev, ok := PrevChapter(a)
	if !ok {
		return a, false
	}
	prev.Verse = canon.VerseEstimate(prev.Book, prev.Chapter)
	return prev, true
}

func NextChapter(a Address) (Address, bool) {
	if a.Chapter < canon.Chapters(a.Book) {
		return Address{Book: a.Book, Chapter: a.Chapter + 1, Verse: 1}, true
	}
	next, ok := canon.Next(a.Book)
	if !ok {
		return a, false
	}
	return Address{Book: next, Chapter: 1, Verse: 1}, true
}

func PrevChapter(a Address) (Address, bool) {
	if a.Chapter > 1 {
		return Address{Book: a.Book, Chapter: a.Chapter - 1, Verse: 1}, true
	}
	prev, ok := canon.Prev(a.Book)
	if !ok {
		return a, false
	}
	return Address{Book: prev, Chapter: canon.Chapters(prev), Verse: 1}, true
}

func NextBook(a Address) (Address, bool) {
	next, ok := canon.Next(a.Book)
	if !ok {
		return a, false
	}
	return Address{Book: next, Chapter: 1, Verse: 1}, true
}

func PrevBook(a Address) (Address, bool) {
	prev, ok := canon.Prev(a.Book)
	if !ok {
		return a, false
	}
	return Address{Book: prev, Chapter: 1, Verse: 1}, true
}
