// Package canon holds the fixed book list the rest of the application
// addresses text by: canonical names, chapter counts, alias tables and
// ordering helpers. Book order is significant; range iteration and
// next/previous navigation depend on it.
package canon

import "strings"

// Book is one entry in the canonical book list.
type Book struct {
	Name     string
	Abbr     string
	Aliases  []string
	Chapters int
}

// The alias sets mix English and Dutch abbreviations because installed
// modules and commentaries cite in both. Keys are matched after
// normalization (lowercase, dots stripped, spaces removed).
var books = []Book{
	{"Genesis", "Gen", []string{"ge", "gn", "1mo"}, 50},
	{"Exodus", "Ex", []string{"exo", "exod", "2mo"}, 40},
	{"Leviticus", "Lev", []string{"le", "lv", "3mo"}, 27},
	{"Numbers", "Num", []string{"nu", "nm", "numeri", "4mo"}, 36},
	{"Deuteronomy", "Deut", []string{"de", "dt", "deu", "deuteronomium", "5mo"}, 34},
	{"Joshua", "Josh", []string{"jos", "joz", "jozua"}, 24},
	{"Judges", "Judg", []string{"jdg", "ri", "richt", "richteren"}, 21},
	{"Ruth", "Ruth", []string{"ru", "rth"}, 4},
	{"1 Samuel", "1Sam", []string{"1sa", "1samuel"}, 31},
	{"2 Samuel", "2Sam", []string{"2sa", "2samuel"}, 24},
	{"1 Kings", "1Kgs", []string{"1ki", "1kg", "1kon", "1koningen"}, 22},
	{"2 Kings", "2Kgs", []string{"2ki", "2kg", "2kon", "2koningen"}, 25},
	{"1 Chronicles", "1Chr", []string{"1ch", "1kron", "1kronieken"}, 29},
	{"2 Chronicles", "2Chr", []string{"2ch", "2kron", "2kronieken"}, 36},
	{"Ezra", "Ezr", []string{"ezra"}, 10},
	{"Nehemiah", "Neh", []string{"ne", "nehemia"}, 13},
	{"Esther", "Est", []string{"es", "esth"}, 10},
	{"Job", "Job", []string{"jb"}, 42},
	{"Psalms", "Ps", []string{"psa", "psalm", "psalmen", "pslm"}, 150},
	{"Proverbs", "Prov", []string{"pr", "pro", "spr", "spreuken"}, 31},
	{"Ecclesiastes", "Eccl", []string{"ec", "ecc", "pred", "prediker", "qoh"}, 12},
	{"Song of Solomon", "Song", []string{"sos", "songofsongs", "hoogl", "hooglied", "canticles"}, 8},
	{"Isaiah", "Isa", []string{"is", "jes", "jesaja"}, 66},
	{"Jeremiah", "Jer", []string{"je", "jeremia"}, 52},
	{"Lamentations", "Lam", []string{"la", "klaagl", "klaagliederen"}, 5},
	{"Ezekiel", "Ezek", []string{"eze", "ezk", "ezechiel"}, 48},
	{"Daniel", "Dan", []string{"da", "dn"}, 12},
	{"Hosea", "Hos", []string{"ho"}, 14},
	{"Joel", "Joel", []string{"joe", "jl"}, 3},
	{"Amos", "Amos", []string{"am", "amo"}, 9},
	{"Obadiah", "Obad", []string{"ob", "oba", "obadja"}, 1},
	{"Jonah", "Jonah", []string{"jon", "jona"}, 4},
	{"Micah", "Mic", []string{"mi", "micha"}, 7},
	{"Nahum", "Nah", []string{"na"}, 3},
	{"Habakkuk", "Hab", []string{"habakuk"}, 3},
	{"Zephaniah", "Zeph", []string{"zep", "zef", "zefanja"}, 3},
	{"Haggai", "Hag", []string{"hg", "haggai"}, 2},
	{"Zechariah", "Zech", []string{"zec", "zach", "zacharia"}, 14},
	{"Malachi", "Mal", []string{"ml", "maleachi"}, 4},
	{"Matthew", "Matt", []string{"mt", "mat", "mattheus"}, 28},
	{"Mark", "Mark", []string{"mk", "mrk", "markus", "marcus"}, 16},
	{"Luke", "Luke", []string{"lk", "luk", "lu", "lukas"}, 24},
	{"John", "John", []string{"jn", "joh", "johannes"}, 21},
	{"Acts", "Acts", []string{"ac", "act", "hand", "handelingen"}, 28},
	{"Romans", "Rom", []string{"ro", "romeinen"}, 16},
	{"1 Corinthians", "1Cor", []string{"1co", "1kor", "1korinthe"}, 16},
	{"2 Corinthians", "2Cor", []string{"2co", "2kor", "2korinthe"}, 13},
	{"Galatians", "Gal", []string{"ga", "galaten"}, 6},
	{"Ephesians", "Eph", []string{"ep", "ef", "efeze"}, 6},
	{"Philippians", "Phil", []string{"php", "fil", "filippenzen"}, 4},
	{"Colossians", "Col", []string{"kol", "kolossenzen"}, 4},
	{"1 Thessalonians", "1Thess", []string{"1th", "1thes"}, 5},
	{"2 Thessalonians", "2Thess", []string{"2th", "2thes"}, 3},
	{"1 Timothy", "1Tim", []string{"1ti"}, 6},
	{"2 Timothy", "2Tim", []string{"2ti"}, 4},
	{"Titus", "Tit", []string{"titus"}, 3},
	{"Philemon", "Phlm", []string{"phm", "filem", "filemon"}, 1},
	{"Hebrews", "Heb", []string{"hebr", "hebreeen"}, 13},
	{"James", "Jas", []string{"jam", "jak", "jakobus"}, 5},
	{"1 Peter", "1Pet", []string{"1pe", "1pt", "1petrus"}, 5},
	{"2 Peter", "2Pet", []string{"2pe", "2pt", "2petrus"}, 3},
	{"1 John", "1John", []string{"1jn", "1jo", "1joh", "1johannes"}, 5},
	{"2 John", "2John", []string{"2jn", "2jo", "2joh", "2johannes"}, 1},
	{"3 John", "3John", []string{"3jn", "3jo", "3joh", "3johannes"}, 1},
	{"Jude", "Jude", []string{"jud", "judas"}, 1},
	{"Revelation", "Rev", []string{"re", "openb", "openbaring", "apocalypse"}, 22},
}

var (
	indexByName = map[string]int{}
	aliasIndex  = map[string]int{}
)

func init() {
	for i, b := range books {
		indexByName[b.Name] = i
		aliasIndex[normalize(b.Name)] = i
		aliasIndex[normalize(b.Abbr)] = i
		for _, a := range b.Aliases {
			aliasIndex[normalize(a)] = i
		}
	}
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Books returns the canon in order.
func Books() []Book { return books }

// Index returns the 0-based position of a canonical name, or -1.
func Index(name string) int {
	if i, ok := indexByName[name]; ok {
		return i
	}
	return -1
}

// ByName returns the book for a canonical name.
func ByName(name string) (Book, bool) {
	if i, ok := indexByName[name]; ok {
		return books[i], true
	}
	return Book{}, false
}

// Resolve maps a book name, abbreviation or alias to its canonical name.
func Resolve(raw string) (string, bool) {
	if i, ok := aliasIndex[normalize(raw)]; ok {
		return books[i].Name, true
	}
	return "", false
}

// PrefixMatches returns the canonical names whose name, abbreviation or any
// alias begins with the given text, in canon order.
func PrefixMatches(raw string) []string {
	needle := normalize(raw)
	if needle == "" {
		return nil
	}
	seen := make(map[int]bool)
	for key, i := range aliasIndex {
		if strings.HasPrefix(key, needle) {
			seen[i] = true
		}
	}
	var names []string
	for i, b := range books {
		if seen[i] {
			names = append(names, b.Name)
		}
	}
	return names
}

// Chapters returns the chapter count of a book, 0 if unknown.
func Chapters(name string) int {
	if b, ok := ByName(name); ok {
		return b.Chapters
	}
	return 0
}

// Verse counts are not carried per chapter; lookups past a chapter's real
// end come back empty from the provider and iteration moves on. The
// overrides keep common chapters exact so ranges render tight.
type chapterKey struct {
	book    string
	chapter int
}

var verseCountOverrides = map[chapterKey]int{
	{"Genesis", 1}:  31,
	{"Genesis", 10}: 32,
	{"Psalms", 23}:  6,
	{"Psalms", 117}: 2,
	{"Psalms", 119}: 176,
	{"John", 3}:     36,
	{"Romans", 8}:   39,
	{"Jude", 1}:     25,
	{"Obadiah", 1}:  21,
	{"Philemon", 1}: 25,
	{"2 John", 1}:   13,
	{"3 John", 1}:   14,
}

// VerseEstimate returns the verse count for a chapter when known, otherwise
// a generous default. Callers must tolerate the estimate overshooting.
func VerseEstimate(book string, chapter int) int {
	if n, ok := verseCountOverrides[chapterKey{book, chapter}]; ok {
		return n
	}
	return 30
}

// Next returns the book after name in canon order.
func Next(name string) (string, bool) {
	i := Index(name)
	if i >= 0 && i < len(books)-1 {
		return books[i+1].Name, true
	}
	return "", false
}

// Prev returns the book before name in canon order.
func Prev(name string) (string, bool) {
	i := Index(name)
	if i > 0 {
		return books[i-1].Name, true
	}
	return "", false
}

// ProviderToken returns the book name in the form the external retrieval
// process accepts: numbered books lose the space ("1 Samuel" -> "1Samuel").
func ProviderToken(name string) string {
	if name == "" {
		return name
	}
	if name[0] >= '1' && name[0] <= '3' {
		return strings.Replace(name, " ", "", 1)
	}
	return name
}

// FromProviderToken maps a provider-emitted book name back to canonical.
func FromProviderToken(token string) (string, bool) {
	return Resolve(token)
}
