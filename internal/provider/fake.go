package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"canon-tui/internal/ref"
)

// Fake is an in-memory TextProvider for tests. It serves scripted verse
// texts, injects failures per address and counts every Fetch call.
type Fake struct {
	mu      sync.Mutex
	verses  map[string]map[ref.Address]string
	errs    map[string]map[ref.Address]ErrorKind
	modules []ModuleInfo
	listErr error
	fetches int
	delay   time.Duration
}

// NewFake returns an empty fake provider.
func NewFake() *Fake {
	return &Fake{
		verses: make(map[string]map[ref.Address]string),
		errs:   make(map[string]map[ref.Address]ErrorKind),
	}
}

// SetVerse scripts the text served for one verse of a module.
func (f *Fake) SetVerse(module string, a ref.Address, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verses[module] == nil {
		f.verses[module] = make(map[ref.Address]string)
	}
	f.verses[module][a] = text
}

// SetChapter scripts consecutive verse texts starting at verse 1.
func (f *Fake) SetChapter(module, book string, chapter int, texts []string) {
	for i, text := range texts {
		f.SetVerse(module, ref.Address{Book: book, Chapter: chapter, Verse: i + 1}, text)
	}
}

// FailWith makes any fetch touching the address fail with the given kind.
func (f *Fake) FailWith(module string, a ref.Address, kind ErrorKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs[module] == nil {
		f.errs[module] = make(map[ref.Address]ErrorKind)
	}
	f.errs[module][a] = kind
}

// SetModules scripts the installed-module listing.
func (f *Fake) SetModules(modules []ModuleInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules = modules
}

// FailModules makes Modules return the given error.
func (f *Fake) FailModules(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// Modules returns the scripted module list.
func (f *Fake) Modules(ctx context.Context) ([]ModuleInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]ModuleInfo(nil), f.modules...), nil
}

// SetDelay makes every fetch sleep, for exercising in-flight coalescing.
func (f *Fake) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Fetches returns how many Fetch calls the fake has served.
func (f *Fake) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// Fetch assembles provider-shaped output for every scripted verse inside
// the range, in canon order.
func (f *Fake) Fetch(ctx context.Context, module string, rng ref.Range) (string, error) {
	f.mu.Lock()
	f.fetches++
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", &Error{Kind: Timeout, Module: module, Range: rng, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for a, kind := range f.errs[module] {
		if rng.Contains(a) {
			return "", &Error{Kind: kind, Module: module, Range: rng}
		}
	}

	var inRange []ref.Address
	for a := range f.verses[module] {
		if rng.Contains(a) {
			inRange = append(inRange, a)
		}
	}
	if len(inRange) == 0 {
		return "", &Error{Kind: EmptyResult, Module: module, Range: rng}
	}
	sort.Slice(inRange, func(i, j int) bool { return ref.Compare(inRange[i], inRange[j]) < 0 })

	var sb strings.Builder
	for _, a := range inRange {
		fmt.Fprintf(&sb, "%s %d:%d: %s\n", a.Book, a.Chapter, a.Verse, f.verses[module][a])
	}
	return sb.String(), nil
}
