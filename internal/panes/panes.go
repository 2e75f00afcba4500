// Package panes is the state machine that keeps the bible, commentary,
// cross-reference and secondary-bible views consistent. Every UI command
// goes through one transition function that returns the new snapshot plus
// the refreshes it implies; rendering code never mutates pane state.
package panes

import (
	"canon-tui/internal/ref"
)

// Mode is the active layout.
type Mode int

const (
	// Single shows one bible pane.
	Single Mode = iota
	// Parallel shows two bible panes, optionally link-scrolled.
	Parallel
	// Study shows bible, commentary and cross-reference panes.
	Study
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Parallel:
		return "parallel"
	case Study:
		return "study"
	}
	return "unknown"
}

// PaneID names one refreshable view region.
type PaneID int

const (
	Primary PaneID = iota
	Secondary
	Commentary
)

// Direction is a navigation step relative to the focused address.
type Direction int

const (
	NextVerse Direction = iota
	PrevVerse
	NextChapter
	PrevChapter
	NextBook
	PrevBook
)

// PaneState is the authoritative position of one pane. Generation increases
// on every change so late fetch results for an old position can be told
// apart and dropped.
type PaneState struct {
	Module     string
	Focused    ref.Address
	Viewport   ref.Range
	Generation uint64
}

// Snapshot is the full machine state handed to the renderer.
type Snapshot struct {
	Mode       Mode
	Linked     bool
	Primary    PaneState
	Secondary  PaneState
	Commentary PaneState
}

// Refresh tells the UI layer to fetch new content for a pane. Results must
// be applied only while Accept(pane, generation) still holds.
type Refresh struct {
	Pane       PaneID
	Module     string
	Range      ref.Range
	Generation uint64
}

// Config seeds a machine.
type Config struct {
	Module           string
	SecondaryModule  string
	CommentaryModule string
	Start            ref.Address
}

// Machine processes navigation commands. It is driven from the single
// event loop and is not itself goroutine-safe.
type Machine struct {
	snap  Snapshot
	gen   uint64
	jumps jumpList
}

// New builds a machine in Single mode focused on cfg.Start.
func New(cfg Config) *Machine {
	m := &Machine{jumps: newJumpList()}
	m.snap = Snapshot{
		Mode:   Single,
		Linked: true,
		Primary: PaneState{
			Module:   cfg.Module,
			Focused:  cfg.Start,
			Viewport: ref.Chapter(cfg.Start.Book, cfg.Start.Chapter),
		},
		Secondary:  PaneState{Module: cfg.SecondaryModule},
		Commentary: PaneState{Module: cfg.CommentaryModule},
	}
	return m
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot { return m.snap }

// Accept reports whether a fetch result produced for the given generation
// is still current for the pane. Stale results must be dropped silently.
func (m *Machine) Accept(pane PaneID, generation uint64) bool {
	return m.pane(pane).Generation == generation
}

func (m *Machine) pane(id PaneID) *PaneState {
	switch id {
	case Secondary:
		return &m.snap.Secondary
	case Commentary:
		return &m.snap.Commentary
	}
	return &m.snap.Primary
}

// Navigate moves the primary focus and returns the refreshes the move
// implies for the current mode. Chapter and book steps enter the jump
// history; verse steps do not.
func (m *Machine) Navigate(dir Direction) []Refresh {
	next, ok := step(m.snap.Primary.Focused, dir)
	if !ok {
		return nil
	}
	if dir != NextVerse && dir != PrevVerse {
		m.jumps.record(m.snap.Primary.Focused)
	}
	return m.focus(next)
}

// Goto resolves free-form citation text against the focused address and
// jumps there. Resolve errors surface to the caller for the UI to render.
func (m *Machine) Goto(text string) ([]Refresh, error) {
	context := m.snap.Primary.Focused
	rng, err := ref.Resolve(text, &context)
	if err != nil {
		return nil, err
	}
	m.jumps.record(m.snap.Primary.Focused)
	return m.focus(rng.Start), nil
}

// JumpTo moves focus to a known address (search hit, cross-reference).
func (m *Machine) JumpTo(a ref.Address) []Refresh {
	m.jumps.record(m.snap.Primary.Focused)
	return m.focus(a)
}

// Back revisits the previous jump-history entry. Nil when there is none.
func (m *Machine) Back() []Refresh {
	a, ok := m.jumps.back(m.snap.Primary.Focused)
	if !ok {
		return nil
	}
	return m.focus(a)
}

// Forward re-applies a jump undone by Back. Nil when already at the end.
func (m *Machine) Forward() []Refresh {
	a, ok := m.jumps.forward()
	if !ok {
		return nil
	}
	return m.focus(a)
}

// focus is the single transition for any primary-address change. Dependent
// panes are recomputed here and nowhere else.
func (m *Machine) focus(a ref.Address) []Refresh {
	m.gen++
	p := &m.snap.Primary
	p.Focused = a
	p.Viewport = ref.Chapter(a.Book, a.Chapter)
	p.Generation = m.gen

	refreshes := []Refresh{{
		Pane:       Primary,
		Module:     p.Module,
		Range:      p.Viewport,
		Generation: p.Generation,
	}}
	refreshes = append(refreshes, m.dependents()...)
	return refreshes
}

// dependents recomputes the non-primary panes for the current mode. In
// Parallel with linked panes the secondary tracks the primary 1:1; in Study
// the commentary pane targets the focused verse.
func (m *Machine) dependents() []Refresh {
	var refreshes []Refresh
	a := m.snap.Primary.Focused

	switch m.snap.Mode {
	case Parallel:
		if !m.snap.Linked {
			break
		}
		s := &m.snap.Secondary
		s.Focused = a
		s.Viewport = ref.Chapter(a.Book, a.Chapter)
		s.Generation = m.gen
		refreshes = append(refreshes, Refresh{
			Pane:       Secondary,
			Module:     s.Module,
			Range:      s.Viewport,
			Generation: s.Generation,
		})
	case Study:
		c := &m.snap.Commentary
		c.Focused = a
		c.Viewport = ref.Single(a)
		c.Generation = m.gen
		refreshes = append(refreshes, Refresh{
			Pane:       Commentary,
			Module:     c.Module,
			Range:      c.Viewport,
			Generation: c.Generation,
		})
	}
	return refreshes
}

// ToggleMode switches layouts. Entering Parallel or Study seeds the new
// panes from the currently focused pane, never from stale prior state.
func (m *Machine) ToggleMode(mode Mode) []Refresh {
	if mode == m.snap.Mode {
		mode = Single
	}
	m.snap.Mode = mode
	if mode == Parallel {
		// A fresh Parallel session always starts linked, so the secondary
		// seeds from the focused address rather than a prior session's.
		m.snap.Linked = true
	}
	return m.focus(m.snap.Primary.Focused)
}

// ToggleLink flips link-scrolling in Parallel mode. Re-linking snaps the
// secondary pane back onto the primary address.
func (m *Machine) ToggleLink() []Refresh {
	if m.snap.Mode != Parallel {
		return nil
	}
	m.snap.Linked = !m.snap.Linked
	if !m.snap.Linked {
		return nil
	}
	return m.focus(m.snap.Primary.Focused)
}

// SwitchModule changes the module shown in one pane and refreshes only
// that pane.
func (m *Machine) SwitchModule(pane PaneID, module string) []Refresh {
	m.gen++
	p := m.pane(pane)
	p.Module = module
	p.Generation = m.gen
	if pane == Primary {
		return m.focus(m.snap.Primary.Focused)
	}
	if p.Viewport.Start.Verse == 0 {
		// Pane never focused yet; nothing to fetch.
		return nil
	}
	return []Refresh{{
		Pane:       pane,
		Module:     p.Module,
		Range:      p.Viewport,
		Generation: p.Generation,
	}}
}

func step(a ref.Address, dir Direction) (ref.Address, bool) {
	switch dir {
	case NextVerse:
		return ref.NextVerse(a)
	case PrevVerse:
		return ref.PrevVerse(a)
	case NextChapter:
		return ref.NextChapter(a)
	case PrevChapter:
		return ref.PrevChapter(a)
	case NextBook:
		return ref.NextBook(a)
	case PrevBook:
		return ref.PrevBook(a)
	}
	return a, false
}
