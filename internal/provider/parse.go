package provider

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"canon-tui/internal/canon"
	"canon-tui/internal/ref"
)

// Verse is one verse-sized unit of provider output.
type Verse struct {
	Addr ref.Address
	Text string
}

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	wsRe      = regexp.MustCompile(`\s+`)
	// "Book 3:16: text" or "Book 3:16 text"
	verseLineRe = regexp.MustCompile(`^([\w ]+?)\s+(\d+):(\d+)\s*[:\-]?\s*(.*)$`)
	// "16. text" or "16 text"
	leadingVerseRe = regexp.MustCompile(`^(\d+)[.:\s]+(.*)$`)
)

// ParseVerses splits raw provider output into verse segments. Lines that
// carry a full reference prefix locate themselves; bare leading-verse-number
// lines fall back to the book and chapter the lookup asked for. Lines that
// fit neither shape are ignored.
func ParseVerses(fallbackBook string, fallbackChapter int, raw string) []Verse {
	var verses []Verse
	for _, line := range strings.Split(raw, "\n") {
		clean := CleanText(line)
		if clean == "" {
			continue
		}

		if m := verseLineRe.FindStringSubmatch(clean); m != nil {
			book, ok := canon.FromProviderToken(m[1])
			if !ok {
				book = fallbackBook
			}
			chapter, _ := strconv.Atoi(m[2])
			verse, _ := strconv.Atoi(m[3])
			text := strings.TrimSpace(m[4])
			if text != "" && chapter >= 1 && verse >= 1 {
				verses = append(verses, Verse{
					Addr: ref.Address{Book: book, Chapter: chapter, Verse: verse},
					Text: text,
				})
			}
			continue
		}

		if m := leadingVerseRe.FindStringSubmatch(clean); m != nil {
			verse, _ := strconv.Atoi(m[1])
			text := strings.TrimSpace(m[2])
			if text != "" && verse >= 1 && fallbackBook != "" {
				verses = append(verses, Verse{
					Addr: ref.Address{Book: fallbackBook, Chapter: fallbackChapter, Verse: verse},
					Text: text,
				})
			}
		}
	}
	return verses
}

// CleanText strips markup tags, unescapes entities and collapses
// whitespace in one line of provider output.
func CleanText(line string) string {
	if strings.Contains(line, "<") {
		line = htmlTagRe.ReplaceAllString(line, " ")
	}
	if strings.Contains(line, "&") {
		line = html.UnescapeString(line)
	}
	return strings.TrimSpace(wsRe.ReplaceAllString(line, " "))
}
