package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"canon-tui/internal/cache"
	"canon-tui/internal/canon"
	"canon-tui/internal/panes"
	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
	"canon-tui/internal/search"
	"canon-tui/internal/settings"
	"canon-tui/internal/theme"
	"canon-tui/internal/xref"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputGoto
	inputSearch
	inputBookmark
)

type hitViewMode int

const (
	hitKWIC hitViewMode = iota
	hitRefsOnly
	hitFullVerse
)

const searchPageSize = 500

type Model struct {
	store     *cache.Store
	machine   *panes.Machine
	pipeline  *search.Pipeline
	extractor *xref.Extractor
	cfg       settings.Settings
	styles    theme.Styles

	primaryVP    viewport.Model
	secondaryVP  viewport.Model
	commentaryVP viewport.Model
	input        textinput.Model
	inputMode    inputMode

	primaryVerses   []provider.Verse
	secondaryVerses []provider.Verse
	commentaryText  string
	crossRefs       []xref.CrossReference
	xrefSkipped     int
	refSel          int
	refPaneFocused  bool

	lister    provider.ModuleLister
	installed []provider.ModuleInfo

	showPicker   bool
	pickerTarget panes.PaneID
	pickerItems  []provider.ModuleInfo
	pickerSel    int

	searching    bool
	showResults  bool
	searchCancel context.CancelFunc
	searchQuery  string
	searchHits   []search.Hit
	searchDiag   search.Diagnostics
	searchSel    int
	hitView      hitViewMode

	paneErr map[panes.PaneID]string

	width  int
	height int
	ready  bool
	status string
}

type paneTextMsg struct {
	pane   panes.PaneID
	gen    uint64
	verses []provider.Verse
	err    error
}

type commentaryMsg struct {
	gen     uint64
	refs    []xref.CrossReference
	skipped int
	text    string
	err     error
}

type searchDoneMsg struct {
	query string
	hits  []search.Hit
	diag  search.Diagnostics
}

type modulesMsg struct {
	modules []provider.ModuleInfo
	err     error
}

// NewModel wires the core components into the event loop. The store is the
// only shared state; everything else is owned here. lister may be nil, in
// which case the module picker offers only the configured modules.
func NewModel(store *cache.Store, lister provider.ModuleLister, cfg settings.Settings) Model {
	cfg = cfg.Defaults()

	start := ref.Address{Book: "Genesis", Chapter: 1, Verse: 1}
	if rng, err := ref.Resolve(cfg.LastReference, nil); err == nil {
		start = rng.Start
	}

	commentary := cfg.CommentaryModules[0]
	machine := panes.New(panes.Config{
		Module:           cfg.DefaultModule,
		SecondaryModule:  cfg.SecondaryModule,
		CommentaryModule: commentary,
		Start:            start,
	})

	ti := textinput.New()
	ti.CharLimit = 60
	ti.Width = 40

	return Model{
		store:     store,
		machine:   machine,
		pipeline:  search.New(store, search.Options{ContextRadius: cfg.ContextRadius, WholeWords: true}),
		extractor: xref.New(xref.Config{}),
		cfg:       cfg,
		styles:    theme.NewStyles(theme.GetTheme(cfg.CurrentTheme)),
		input:     ti,
		lister:    lister,
		installed: configuredModules(cfg),
		paneErr:   make(map[panes.PaneID]string),
	}
}

// configuredModules is the picker fallback until discovery answers (or when
// it fails): whatever the settings name, with kinds taken from their role.
func configuredModules(cfg settings.Settings) []provider.ModuleInfo {
	installed := []provider.ModuleInfo{{Name: cfg.DefaultModule, Kind: provider.KindBible}}
	if cfg.SecondaryModule != "" && cfg.SecondaryModule != cfg.DefaultModule {
		installed = append(installed, provider.ModuleInfo{Name: cfg.SecondaryModule, Kind: provider.KindBible})
	}
	for _, name := range cfg.CommentaryModules {
		installed = append(installed, provider.ModuleInfo{Name: name, Kind: provider.KindCommentary})
	}
	return installed
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.refreshCmds(m.machine.JumpTo(m.machine.Snapshot().Primary.Focused)),
	}
	if m.lister != nil {
		lister := m.lister
		cmds = append(cmds, func() tea.Msg {
			modules, err := lister.Modules(context.Background())
			return modulesMsg{modules: modules, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// refreshCmds turns the machine's refresh effects into fetch commands. Each
// command carries the generation it was issued for; stale results are
// dropped in Update.
func (m Model) refreshCmds(refreshes []panes.Refresh) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range refreshes {
		if r.Pane == panes.Commentary {
			cmds = append(cmds, m.loadCommentary(r))
		} else {
			cmds = append(cmds, m.loadPaneText(r))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) loadPaneText(r panes.Refresh) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		raw, err := store.GetOrFetch(context.Background(), r.Module, r.Range)
		if err != nil {
			return paneTextMsg{pane: r.Pane, gen: r.Generation, err: err}
		}
		verses := provider.ParseVerses(r.Range.Start.Book, r.Range.Start.Chapter, raw)
		return paneTextMsg{pane: r.Pane, gen: r.Generation, verses: verses}
	}
}

func (m Model) loadCommentary(r panes.Refresh) tea.Cmd {
	store := m.store
	extractor := m.extractor
	bible := m.machine.Snapshot().Primary.Module
	return func() tea.Msg {
		raw, err := store.GetOrFetch(context.Background(), r.Module, r.Range)
		if err != nil {
			return commentaryMsg{gen: r.Generation, err: err}
		}
		text := provider.CleanText(raw)
		refs, skipped := extractor.Extract(raw)
		refs = xref.WithPreviews(context.Background(), store, bible, refs)
		return commentaryMsg{gen: r.Generation, refs: refs, skipped: skipped, text: text}
	}
}

func (m *Model) startSearch(query string) tea.Cmd {
	if m.searchCancel != nil {
		m.searchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.searchCancel = cancel
	m.searching = true
	m.showResults = true
	m.searchQuery = query
	m.searchHits = nil
	m.searchSel = 0

	snap := m.machine.Snapshot()
	book := snap.Primary.Focused.Book
	lastChapter := canon.Chapters(book)
	scope := ref.Range{
		Start: ref.Address{Book: book, Chapter: 1, Verse: 1},
		End:   ref.Address{Book: book, Chapter: lastChapter, Verse: canon.VerseEstimate(book, lastChapter)},
	}
	pipeline := m.pipeline
	module := snap.Primary.Module
	return func() tea.Msg {
		results := pipeline.Search(ctx, module, query, scope)
		hits := results.Collect(searchPageSize)
		return searchDoneMsg{query: query, hits: hits, diag: results.Diagnostics()}
	}
}

func (m *Model) cancelSearch() {
	if m.searchCancel != nil {
		m.searchCancel()
		m.searchCancel = nil
	}
	m.searching = false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		if m.showPicker {
			return m.updatePicker(msg)
		}
		if m.showResults {
			return m.updateResults(msg)
		}
		return m.updateReader(msg)

	case modulesMsg:
		// Discovery failure keeps the configured fallback list.
		if msg.err == nil && len(msg.modules) > 0 {
			m.installed = msg.modules
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewports()
		m.ready = true
		m.renderPanes()

	case paneTextMsg:
		if !m.machine.Accept(msg.pane, msg.gen) {
			break // navigated away; drop silently
		}
		if msg.err != nil {
			// Previous content stays visible; the error renders inline.
			m.paneErr[msg.pane] = fetchErrText(msg.err)
			break
		}
		delete(m.paneErr, msg.pane)
		switch msg.pane {
		case panes.Primary:
			m.primaryVerses = msg.verses
		case panes.Secondary:
			m.secondaryVerses = msg.verses
		}
		m.renderPanes()

	case commentaryMsg:
		if !m.machine.Accept(panes.Commentary, msg.gen) {
			break
		}
		if msg.err != nil {
			m.paneErr[panes.Commentary] = fetchErrText(msg.err)
			break
		}
		delete(m.paneErr, panes.Commentary)
		m.commentaryText = msg.text
		// Replaced wholesale: stale refs must never linger after a verse
		// change.
		m.crossRefs = msg.refs
		m.xrefSkipped = msg.skipped
		m.refSel = 0
		m.renderPanes()

	case searchDoneMsg:
		if msg.query != m.searchQuery {
			break
		}
		m.searching = false
		m.searchHits = msg.hits
		m.searchDiag = msg.diag
	}

	if m.inputMode != inputNone {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	} else if !m.showResults && !m.showPicker {
		m.primaryVP, cmd = m.primaryVP.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()

	switch msg.String() {
	case "ctrl+c", "q":
		m.saveSession()
		return m, tea.Quit

	case "j":
		if snap.Mode == panes.Study && m.refPaneFocused {
			if m.refSel < len(m.crossRefs)-1 {
				m.refSel++
				m.renderPanes()
			}
			return m, nil
		}
		return m, m.refreshCmds(m.machine.Navigate(panes.NextVerse))
	case "k":
		if snap.Mode == panes.Study && m.refPaneFocused {
			if m.refSel > 0 {
				m.refSel--
				m.renderPanes()
			}
			return m, nil
		}
		return m, m.refreshCmds(m.machine.Navigate(panes.PrevVerse))
	case "n":
		return m, m.refreshCmds(m.machine.Navigate(panes.NextChapter))
	case "p":
		return m, m.refreshCmds(m.machine.Navigate(panes.PrevChapter))
	case "N":
		return m, m.refreshCmds(m.machine.Navigate(panes.NextBook))
	case "P":
		return m, m.refreshCmds(m.machine.Navigate(panes.PrevBook))

	case "g":
		m.inputMode = inputGoto
		m.input.Placeholder = "Reference (e.g. Gen 1:1, 3:16, or bookmark name)"
		m.input.Focus()
		return m, nil
	case "/":
		m.inputMode = inputSearch
		m.input.Placeholder = "Search keyword in current book"
		m.input.Focus()
		return m, nil
	case "b":
		m.inputMode = inputBookmark
		m.input.Placeholder = "Bookmark name for " + snap.Primary.Focused.String()
		m.input.Focus()
		return m, nil

	case "s":
		m.refPaneFocused = false
		refreshes := m.machine.ToggleMode(panes.Study)
		m.layoutViewports()
		return m, m.refreshCmds(refreshes)
	case "2":
		m.refPaneFocused = false
		refreshes := m.machine.ToggleMode(panes.Parallel)
		m.layoutViewports()
		return m, m.refreshCmds(refreshes)
	case "L":
		return m, m.refreshCmds(m.machine.ToggleLink())

	case "m":
		m.openPicker(panes.Primary, provider.KindBible)
		return m, nil
	case "M":
		switch snap.Mode {
		case panes.Parallel:
			m.openPicker(panes.Secondary, provider.KindBible)
		case panes.Study:
			m.openPicker(panes.Commentary, provider.KindCommentary)
		default:
			m.status = "no dependent pane in single mode"
		}
		return m, nil

	case "o":
		return m, m.refreshCmds(m.machine.Back())
	case "i":
		return m, m.refreshCmds(m.machine.Forward())

	case "tab":
		if snap.Mode == panes.Study {
			m.refPaneFocused = !m.refPaneFocused
			m.renderPanes()
		}
		return m, nil

	case "enter":
		if snap.Mode == panes.Study && m.refPaneFocused && m.refSel < len(m.crossRefs) {
			target := m.crossRefs[m.refSel].Target.Start
			return m, m.refreshCmds(m.machine.JumpTo(target))
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = inputNone
		m.input.SetValue("")
		m.input.Blur()
		return m, nil

	case "enter":
		value := m.input.Value()
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.SetValue("")
		m.input.Blur()
		m.status = ""

		switch mode {
		case inputGoto:
			if citation, ok := m.cfg.Bookmarks[value]; ok {
				value = citation
			}
			refreshes, err := m.machine.Goto(value)
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			return m, m.refreshCmds(refreshes)

		case inputSearch:
			if value != "" {
				cmd := m.startSearch(value)
				return m, cmd
			}
			return m, nil

		case inputBookmark:
			if value != "" {
				m.cfg.Bookmarks[value] = m.machine.Snapshot().Primary.Focused.String()
				if err := settings.Save(m.cfg); err != nil {
					m.status = "bookmark not saved: " + err.Error()
				} else {
					m.status = "bookmarked " + value
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancelSearch()
		m.saveSession()
		return m, tea.Quit
	case "esc":
		m.cancelSearch()
		m.showResults = false
		return m, nil
	case "j", "down":
		if m.searchSel < len(m.searchHits)-1 {
			m.searchSel++
		}
		return m, nil
	case "k", "up":
		if m.searchSel > 0 {
			m.searchSel--
		}
		return m, nil
	case "v":
		m.hitView = (m.hitView + 1) % 3
		return m, nil
	case "enter":
		if m.searchSel < len(m.searchHits) {
			hit := m.searchHits[m.searchSel]
			m.cancelSearch()
			m.showResults = false
			return m, m.refreshCmds(m.machine.JumpTo(hit.Addr))
		}
		return m, nil
	}
	return m, nil
}

// openPicker shows the module list for one pane, preselecting the module
// the pane currently displays.
func (m *Model) openPicker(target panes.PaneID, kind string) {
	items := provider.FilterKind(m.installed, kind)
	if len(items) == 0 {
		m.status = "no modules of that kind installed"
		return
	}
	m.showPicker = true
	m.pickerTarget = target
	m.pickerItems = items
	m.pickerSel = 0

	current := m.paneModule(target)
	for i, item := range items {
		if item.Name == current {
			m.pickerSel = i
			break
		}
	}
}

func (m Model) paneModule(pane panes.PaneID) string {
	snap := m.machine.Snapshot()
	switch pane {
	case panes.Secondary:
		return snap.Secondary.Module
	case panes.Commentary:
		return snap.Commentary.Module
	}
	return snap.Primary.Module
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.showPicker = false
		return m, nil
	case "j", "down":
		if m.pickerSel < len(m.pickerItems)-1 {
			m.pickerSel++
		}
		return m, nil
	case "k", "up":
		if m.pickerSel > 0 {
			m.pickerSel--
		}
		return m, nil
	case "enter":
		chosen := m.pickerItems[m.pickerSel]
		m.showPicker = false
		return m, m.refreshCmds(m.machine.SwitchModule(m.pickerTarget, chosen.Name))
	}
	return m, nil
}

func (m *Model) saveSession() {
	m.cfg.LastReference = m.machine.Snapshot().Primary.Focused.String()
	_ = settings.Save(m.cfg)
}

func fetchErrText(err error) string {
	switch provider.KindOf(err) {
	case provider.Timeout:
		return "unavailable (timed out)"
	case provider.EmptyResult:
		return "no text for this passage"
	default:
		return fmt.Sprintf("unavailable (%v)", err)
	}
}
