// Package ui is the interactive session picker.
package ui

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidpaquet/ccsession/internal/clipboard"
	"github.com/davidpaquet/ccsession/internal/finder"
	"github.com/davidpaquet/ccsession/internal/model"
	"github.com/davidpaquet/ccsession/internal/parser"
	"github.com/davidpaquet/ccsession/internal/resume"
	"github.com/davidpaquet/ccsession/internal/search"
)

// SearchState represents the current search mode
type SearchState int

const (
	SearchStateNormal  SearchState = iota // No search active
	SearchStateInput                      // User is typing in search box
	SearchStateResults                    // User is navigating filtered results
)

// Config wires the picker to its collaborators.
type Config struct {
	Parser    *parser.Parser
	Cwd       string
	Params    finder.SourceParams
	Kind      *resume.Kind
	Clipboard clipboard.Copier
	// Changes, when set, triggers a refresh on every receive.
	Changes <-chan struct{}
	Logger  *slog.Logger
	Version string
}

// Model is the picker state.
type Model struct {
	cfg Config

	// Data
	items   []finder.Item
	results []search.Result
	marked  map[string]bool // keyed by session file path
	chosen  []model.ActionData

	// Gathering
	gather     *gatherer
	generation int
	loading    bool
	err        error

	// UI state
	width        int
	height       int
	selected     int
	scrollOffset int

	searchState SearchState
	searchInput textinput.Model
	searchQuery string

	statusMsg   string
	statusTimer time.Time
}

// NewModel creates a picker for cfg.
func NewModel(cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Kind == nil {
		cfg.Kind = &resume.Kind{}
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.NewManager()
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Filter sessions..."
	searchInput.CharLimit = 100
	searchInput.Width = 30

	return &Model{
		cfg:         cfg,
		marked:      make(map[string]bool),
		width:       80,
		height:      24,
		searchInput: searchInput,
	}
}

// Run shows the picker and returns the sessions chosen with enter.
func Run(cfg Config) ([]model.ActionData, error) {
	m := NewModel(cfg)
	defer m.stopGather()

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	return final.(*Model).chosen, nil
}

// Chosen returns the payloads selected when the picker quit.
func (m *Model) Chosen() []model.ActionData {
	return m.chosen
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startGather(), m.waitForChange())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case batchMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			m.setStatus(fmt.Sprintf("Error: %v", msg.err))
			m.cfg.Logger.Error("gather failed", "error", msg.err)
			return m, nil
		}
		if msg.done {
			m.loading = false
			m.cfg.Logger.Debug("gather finished", "items", len(m.items))
			return m, nil
		}
		m.items = append(m.items, msg.items...)
		m.applyFilter()
		return m, m.pullBatch()

	case changeMsg:
		m.cfg.Logger.Debug("session files changed, refreshing")
		return m, tea.Batch(m.startGather(), m.waitForChange())

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		if m.searchState == SearchStateInput {
			return m.updateSearchInput(msg)
		}
		return m.updateNavigation(msg)
	}

	return m, nil
}

func (m *Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.clearSearch()
		return m, nil
	case "tab", "enter":
		m.searchInput.Blur()
		if m.searchQuery == "" {
			m.searchState = SearchStateNormal
		} else {
			m.searchState = SearchStateResults
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.searchQuery {
		m.searchQuery = q
		m.selected = 0
		m.scrollOffset = 0
		m.applyFilter()
	}
	return m, cmd
}

func (m *Model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.searchState == SearchStateResults {
			m.clearSearch()
		}

	case "/":
		m.searchState = SearchStateInput
		m.searchInput.SetValue(m.searchQuery)
		return m, m.searchInput.Focus()

	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.ensureVisible()
		}

	case "down", "j":
		if m.selected < len(m.results)-1 {
			m.selected++
			m.ensureVisible()
		}

	case "home", "g":
		m.selected = 0
		m.ensureVisible()

	case "end", "G":
		m.selected = max(len(m.results)-1, 0)
		m.ensureVisible()

	case " ":
		if item, ok := m.current(); ok {
			key := item.Action.SessionFilePath
			m.marked[key] = !m.marked[key]
			if !m.marked[key] {
				delete(m.marked, key)
			}
		}

	case "enter":
		m.chosen = m.selection()
		if len(m.chosen) > 0 {
			return m, tea.Quit
		}

	case "y":
		if item, ok := m.current(); ok {
			line, err := m.cfg.Kind.Copy(m.cfg.Clipboard, item.Action)
			if err != nil {
				m.setStatus(fmt.Sprintf("Copy failed: %v", err))
			} else {
				m.setStatus("Copied: " + line)
			}
			return m, clearStatusAfter(2 * time.Second)
		}

	case "r":
		m.clearSearch()
		return m, m.startGather()
	}

	return m, nil
}

// selection returns the marked sessions in list order, or the current one.
func (m *Model) selection() []model.ActionData {
	var out []model.ActionData
	for _, item := range m.items {
		if m.marked[item.Action.SessionFilePath] {
			out = append(out, item.Action)
		}
	}
	if len(out) > 0 {
		return out
	}
	if item, ok := m.current(); ok {
		return []model.ActionData{item.Action}
	}
	return nil
}

func (m *Model) current() (finder.Item, bool) {
	if m.selected < 0 || m.selected >= len(m.results) {
		return finder.Item{}, false
	}
	return m.items[m.results[m.selected].Index], true
}

func (m *Model) applyFilter() {
	m.results = search.Filter(m.searchQuery, m.items)
	if m.selected >= len(m.results) {
		m.selected = max(len(m.results)-1, 0)
	}
	m.ensureVisible()
}

func (m *Model) clearSearch() {
	m.searchState = SearchStateNormal
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.searchQuery = ""
	m.selected = 0
	m.scrollOffset = 0
	m.applyFilter()
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusTimer = time.Now()
}

func (m *Model) View() string {
	if m.loading && len(m.items) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			"Loading sessions...")
	}

	if m.err != nil && len(m.items) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err)))
	}

	reservedHeight := 1 // status bar
	if m.searchState != SearchStateNormal {
		reservedHeight += 3 // search bar with border
	}
	availableHeight := m.height - reservedHeight

	leftWidth := m.width / 2
	if leftWidth > 70 {
		leftWidth = 70
	}
	rightWidth := m.width - leftWidth - 1

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSessionList(leftWidth, availableHeight),
		m.renderDetails(rightWidth, availableHeight),
	)

	components := []string{main}
	if m.searchState != SearchStateNormal {
		components = append(components, m.renderSearchBar())
	}
	components = append(components, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, components...)
}

func (m *Model) renderSessionList(width, height int) string {
	// 1 border + 1 padding on each side, plus the top margin
	innerHeight := height - 5
	innerWidth := width - 4

	title := fmt.Sprintf("Sessions (%d)", len(m.items))
	if m.searchQuery != "" {
		title = fmt.Sprintf("Sessions (%d/%d)", len(m.results), len(m.items))
	}
	if m.loading {
		title += " ..."
	}
	lines := []string{titleStyle.Render(title), ""}

	itemsHeight := max(innerHeight-2, 1)
	visibleEnd := min(m.scrollOffset+itemsHeight, len(m.results))

	for i := m.scrollOffset; i < visibleEnd; i++ {
		r := m.results[i]
		item := m.items[r.Index]

		mark := "  "
		if m.marked[item.Action.SessionFilePath] {
			mark = markStyle.Render("● ")
		}

		word := truncateRunes(item.Word, innerWidth-3)
		if i == m.selected {
			lines = append(lines, selectedItemStyle.Render(mark+word))
			continue
		}
		word = search.HighlightText(word, r.MatchedIndexes, func(s string) string {
			return highlightStyle.Render(s)
		})
		lines = append(lines, sessionItemStyle.Render(mark+word))
	}

	if len(m.results) == 0 && !m.loading {
		lines = append(lines, mutedTextStyle.Render("No sessions"))
	}

	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	return sessionListStyle.
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDetails(width, height int) string {
	innerHeight := height - 5
	innerWidth := width - 4

	if innerHeight < 1 || innerWidth < 1 {
		return detailsStyle.Width(width).Height(height).Render("")
	}

	item, ok := m.current()
	if !ok {
		return detailsStyle.Width(width).Height(height).Render("Select a session...")
	}
	s := item.Session

	lines := []string{
		titleStyle.Render("Session Details"),
		"",
		labelStyle.Render("Project") + s.ProjectName,
		labelStyle.Render("Path") + truncateRunes(s.ProjectPath, innerWidth-10),
		labelStyle.Render("ID") + s.SessionID,
		labelStyle.Render("Started") + s.StartTime.Local().Format(finder.TimeLayout),
		labelStyle.Render("Ended") + s.EndTime.Local().Format(finder.TimeLayout) +
			mutedTextStyle.Render(" ("+getRelativeTime(s.EndTime)+")"),
		labelStyle.Render("Messages") + fmt.Sprint(len(s.Messages)),
		"",
	}

	if item.Summary != "" {
		lines = append(lines, "Summary:")
		for _, line := range wrapText(item.Summary, innerWidth-2) {
			lines = append(lines, "  "+line)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "Resume:")
	opts := m.cfg.Kind.Options.WithDefaults()
	dir := opts.Cwd
	if dir == "" {
		dir = s.ProjectPath
	}
	cmd := resume.ShellCommand(s.SessionID, dir, opts)
	lines = append(lines, infoStyle.Render("  "+truncateRunes(cmd, innerWidth-2)), "")

	// Conversation preview fills the remaining space.
	if remaining := innerHeight - len(lines) - 1; remaining > 2 {
		lines = append(lines, "Conversation:")
		for _, line := range conversationPreview(s, remaining) {
			lines = append(lines, mutedTextStyle.Render("  "+truncateRunes(line, innerWidth-2)))
		}
	}

	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	return detailsStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// conversationPreview returns up to n lines describing the first messages.
func conversationPreview(s model.Session, n int) []string {
	var out []string
	for _, msg := range s.Messages {
		if msg.Message == nil || msg.Message.Content == nil {
			continue
		}
		for _, line := range strings.Split(parser.ExtractMessageText(*msg.Message.Content), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if len(out) == n {
				return out
			}
			out = append(out, string(msg.Type)+": "+line)
		}
	}
	return out
}

func (m *Model) renderStatusBar() string {
	var leftText string

	if m.statusMsg != "" && time.Since(m.statusTimer) < 3*time.Second {
		leftText = m.statusMsg
	} else if m.err != nil {
		leftText = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	} else if m.searchState == SearchStateInput {
		leftText = "[Tab/Enter] Navigate results  [Esc] Cancel  Type to filter..."
	} else {
		leftText = "[↑↓] Navigate  [Space] Mark  [Enter] Resume  [y] Copy  [/] Filter  [r] Refresh  [q] Quit"
	}

	leftStyle := keyHelpStyle.Width(m.width - lipgloss.Width(m.cfg.Version) - 2)
	rightStyle := keyHelpStyle.Align(lipgloss.Right)

	content := lipgloss.JoinHorizontal(lipgloss.Bottom,
		leftStyle.Render(leftText),
		rightStyle.Render(m.cfg.Version),
	)
	return statusBarStyle.Width(m.width).Render(content)
}

func (m *Model) renderSearchBar() string {
	borderColor := blurredBorder
	var prompt string
	if m.searchState == SearchStateInput {
		borderColor = focusedBorder
		prompt = "Filter: " + m.searchInput.View()
	} else {
		prompt = fmt.Sprintf("Filter: %s (%d matches) [Press / to edit]", m.searchQuery, len(m.results))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 2).
		Render(prompt)
}

func (m *Model) ensureVisible() {
	innerHeight := m.height - 1 - 5 // status bar, then borders/padding/margin
	if m.searchState != SearchStateNormal {
		innerHeight -= 3
	}
	itemsHeight := max(innerHeight-2, 1) // title and blank line

	if m.selected < m.scrollOffset {
		m.scrollOffset = m.selected
	} else if m.selected >= m.scrollOffset+itemsHeight {
		m.scrollOffset = m.selected - itemsHeight + 1
	}

	maxScroll := max(len(m.results)-itemsHeight, 0)
	m.scrollOffset = min(max(m.scrollOffset, 0), maxScroll)
}

// startGather drops the current listing and starts pulling a new one.
func (m *Model) startGather() tea.Cmd {
	m.stopGather()
	m.generation++
	m.items = nil
	m.results = nil
	m.marked = make(map[string]bool)
	m.selected = 0
	m.scrollOffset = 0
	m.err = nil
	m.loading = true

	m.gather = newGatherer(finder.Gather(m.cfg.Parser, m.cfg.Cwd, m.cfg.Params))
	return m.pullBatch()
}

func (m *Model) stopGather() {
	if m.gather != nil {
		m.gather.stop()
		m.gather = nil
	}
}

// pullBatch reads the next batch off the main loop. Only one pull is in
// flight at a time: the next one is issued when its result arrives.
func (m *Model) pullBatch() tea.Cmd {
	g, gen := m.gather, m.generation
	if g == nil {
		return nil
	}
	return func() tea.Msg {
		items, err, ok := g.next()
		return batchMsg{generation: gen, items: items, err: err, done: !ok}
	}
}

// gatherer serializes access to a pulled batch sequence so that stop never
// runs concurrently with an in-flight next.
type gatherer struct {
	mu      sync.Mutex
	pull    func() ([]finder.Item, error, bool)
	cancel  func()
	stopped bool
}

func newGatherer(seq iter.Seq2[[]finder.Item, error]) *gatherer {
	next, stop := iter.Pull2(seq)
	return &gatherer{pull: next, cancel: stop}
}

func (g *gatherer) next() ([]finder.Item, error, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return nil, nil, false
	}
	return g.pull()
}

func (g *gatherer) stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.stopped {
		g.stopped = true
		g.cancel()
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.cfg.Changes == nil {
		return nil
	}
	changes := m.cfg.Changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Messages
type batchMsg struct {
	generation int
	items      []finder.Item
	err        error
	done       bool
}

type changeMsg struct{}

type clearStatusMsg struct{}
