// Package ui implements the terminal interface: a header with the file name
// and size, the contents tree, a details pane and the search bar.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/h5nav/pkg/debug"
	"github.com/vanderheijden86/h5nav/pkg/metrics"
	"github.com/vanderheijden86/h5nav/pkg/model"
	"github.com/vanderheijden86/h5nav/pkg/nav"
	"github.com/vanderheijden86/h5nav/pkg/search"
	"github.com/vanderheijden86/h5nav/pkg/tree"
	"github.com/vanderheijden86/h5nav/pkg/watcher"
)

// EnvTestMode disables side effects such as clipboard writes.
const EnvTestMode = "H5NAV_TEST_MODE"

// Options configures the interface.
type Options struct {
	SplitRatio   float64 // contents pane share of the body width
	Tick         time.Duration
	GroupSummary bool
	Search       search.Options
	Theme        Theme
	Watcher      *watcher.Watcher
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		SplitRatio: 0.4,
		Tick:       250 * time.Millisecond,
		Theme:      TestTheme(),
	}
}

// tickMsg drives the periodic redraw.
type tickMsg time.Time

// FileChangedMsg is sent when the source file changes on disk.
type FileChangedMsg struct{}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Model is the root bubbletea model.
type Model struct {
	info  *model.FileInfo
	state *nav.State
	opts  Options
	theme Theme
	keys  KeyMap
	help  help.Model

	detail     viewport.Model
	searchBar  textinput.Model
	renderer   *DetailRenderer
	detailPath tree.Path
	detailW    int

	width, height int
	ready         bool
	showHelp      bool

	statusMsg     string
	statusIsError bool
	fileChanged   bool

	err error
}

// NewModel builds the interface for a loaded file.
func NewModel(info *model.FileInfo, opts Options) Model {
	if opts.SplitRatio <= 0 || opts.SplitRatio >= 1 {
		opts.SplitRatio = 0.4
	}
	if opts.Tick <= 0 {
		opts.Tick = 250 * time.Millisecond
	}
	if opts.Theme.Renderer == nil {
		opts.Theme = TestTheme()
	}

	roots := tree.FromEntities(info.Roots, tree.BuildOptions{GroupSummary: opts.GroupSummary})
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "regex"
	ti.TextStyle = opts.Theme.Base
	ti.PromptStyle = opts.Theme.Title

	return Model{
		info:      info,
		state:     nav.New(roots, nav.Options{DisplayHeight: 1, Search: opts.Search}),
		opts:      opts,
		theme:     opts.Theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		detail:    viewport.New(0, 0),
		searchBar: ti,
		renderer:  NewDetailRenderer(opts.Theme.MarkdownStyle),
	}
}

// State exposes the navigation state.
func (m Model) State() *nav.State { return m.state }

// Err returns the fatal error that ended the program, if any.
func (m Model) Err() error { return m.err }

// FileChanged reports whether the source changed on disk since it was opened.
func (m Model) FileChanged() bool { return m.fileChanged }

// Init starts the redraw tick and, if configured, the file watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.opts.Tick)}
	if m.opts.Watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()

	case tickMsg:
		cmds = append(cmds, tickCmd(m.opts.Tick))

	case FileChangedMsg:
		m.fileChanged = true
		m.statusMsg = "file modified on disk; reopen to reload"
		m.statusIsError = false
		if m.opts.Watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		if m.state.Mode() == nav.ModeSearch {
			m.handleSearchKeys(msg)
		} else {
			cmd = m.handleNormalKeys(msg)
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.state.Quitting() {
		return m, tea.Quit
	}
	if err := m.syncDetail(); err != nil {
		m.err = err
		debug.Log("fatal: %v", err)
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) {
	var err error
	switch msg.Type {
	case tea.KeyEsc:
		m.state.CancelSearch()
	case tea.KeyBackspace:
		err = m.state.SearchBackspace()
	case tea.KeySpace:
		err = m.state.SearchInput(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if e := m.state.SearchInput(r); e != nil {
				err = e
			}
		}
	}
	if err != nil {
		m.statusMsg = "invalid pattern"
		m.statusIsError = true
	} else {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	s := m.state
	switch {
	case key.Matches(msg, m.keys.Quit):
		s.Quit()
	case key.Matches(msg, m.keys.Up):
		s.MoveUp()
	case key.Matches(msg, m.keys.Down):
		s.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		s.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		s.PageDown()
	case key.Matches(msg, m.keys.Top):
		s.Top()
	case key.Matches(msg, m.keys.Bottom):
		s.Bottom()
	case key.Matches(msg, m.keys.Parent):
		s.Parent()
	case key.Matches(msg, m.keys.CollapseAll):
		s.CollapseAll()
	case key.Matches(msg, m.keys.ExpandAll):
		s.ExpandAll()
	case key.Matches(msg, m.keys.Collapse):
		s.Collapse()
	case key.Matches(msg, m.keys.Expand):
		s.Expand()
	case key.Matches(msg, m.keys.Search):
		s.EnterSearch()
		m.statusMsg = ""
	case key.Matches(msg, m.keys.Copy):
		m.copyPath()
	case key.Matches(msg, m.keys.DetailDown):
		m.detail.HalfViewDown()
	case key.Matches(msg, m.keys.DetailUp):
		m.detail.HalfViewUp()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
	}
	return nil
}

// copyPath copies the selected entity's absolute name to the clipboard.
func (m *Model) copyPath() {
	path := m.state.SelectedPath()
	if path == nil {
		return
	}
	name, err := model.NamePath(m.info.Roots, path)
	if err != nil {
		m.statusMsg = err.Error()
		m.statusIsError = true
		return
	}
	if os.Getenv(EnvTestMode) == "" {
		if err := clipboard.WriteAll(name); err != nil {
			m.statusMsg = fmt.Sprintf("clipboard error: %v", err)
			m.statusIsError = true
			return
		}
	}
	m.statusMsg = fmt.Sprintf("copied %s", name)
	m.statusIsError = false
}

// Pane sizes derived from the terminal size.
func (m Model) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, minBodyHeight)
}

func (m Model) footerLines() int {
	if m.showHelp {
		return len(m.keys.FullHelp()[0])
	}
	return footerHeight
}

func (m Model) treeWidth() int {
	return max(int(float64(m.width)*m.opts.SplitRatio), minPanelWidth)
}

func (m Model) detailWidth() int {
	return max(m.width-m.treeWidth(), minPanelWidth)
}

// treeRowsHeight is the number of lines available to tree rows: the panel
// minus its border, title line and position line.
func (m Model) treeRowsHeight() int {
	return max(m.bodyHeight()-(m.footerLines()-footerHeight)-panelChrome-2, 1)
}

func (m *Model) layout() {
	m.state.SetDisplayHeight(m.treeRowsHeight())
	m.detail.Width = m.detailWidth() - panelChrome
	m.detail.Height = max(m.bodyHeight()-(m.footerLines()-footerHeight)-panelChrome-1, 1)
	m.searchBar.Width = max(m.width-20, 10)
	m.help.Width = m.width
}

// syncDetail re-renders the details pane when the selection or width
// changed. Resolution failure means the tree and the source disagree.
func (m *Model) syncDetail() error {
	path := m.state.SelectedPath()
	if path == nil {
		if m.detailPath != nil || m.detail.TotalLineCount() == 0 {
			m.detail.SetContent(m.theme.MutedText.Render("no entities"))
			m.detailPath = nil
		}
		return nil
	}
	if path.Equal(m.detailPath) && m.detailW == m.detail.Width {
		return nil
	}

	done := metrics.Timer(metrics.Resolve)
	e, err := model.Resolve(m.info.Roots, path)
	done()
	if err != nil {
		return err
	}
	name, _ := model.NamePath(m.info.Roots, path)

	stop := metrics.Timer(metrics.Detail)
	m.detail.SetContent(m.renderer.Render(detailMarkdown(e, name), m.detail.Width))
	stop()
	m.detail.GotoTop()
	m.detailPath = path.Clone()
	m.detailW = m.detail.Width
	return nil
}

// View renders the interface.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	defer metrics.Timer(metrics.Render)()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderTreePanel(), m.renderDetailPanel()),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	nameW := max(int(float64(m.width)*headerNameFrac), minPanelWidth)
	sizeW := max(m.width-nameW, minPanelWidth)

	title := m.info.Name
	if m.fileChanged {
		title += " [modified]"
	}
	name := m.headerPanel("File Name", title, nameW)
	size := m.headerPanel("Size", formatSize(m.info.Size), sizeW)
	return lipgloss.JoinHorizontal(lipgloss.Top, name, size)
}

func (m Model) headerPanel(label, value string, width int) string {
	w := width - panelChrome
	prefix := label + ": "
	line := m.theme.MutedText.Render(prefix) +
		m.theme.Title.Render(fitLine(value, max(w-len(prefix), 1)))
	return m.theme.Panel.Width(w).Render(line)
}

func (m Model) renderTreePanel() string {
	w := m.treeWidth() - panelChrome
	lines := []string{m.theme.Title.Render(fitLine("Contents", w))}
	lines = append(lines, renderTreeRows(m.state, m.theme, w, m.treeRowsHeight())...)
	lines = append(lines, m.theme.MutedText.Render(fitLine(positionIndicator(m.state), w)))

	style := m.theme.Focused
	if m.state.Mode() == nav.ModeSearch {
		style = m.theme.Panel
	}
	return style.Width(w).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetailPanel() string {
	w := m.detailWidth() - panelChrome
	body := m.theme.Title.Render(fitLine("Details", w)) + "\n" + m.detail.View()
	return m.theme.Panel.Width(w).Render(body)
}

func (m Model) renderFooter() string {
	if m.state.Mode() == nav.ModeSearch {
		return m.renderSearchBar()
	}
	if m.statusMsg != "" {
		st := m.theme.MutedText
		if m.statusIsError {
			st = m.theme.ErrorText
		}
		return st.Render(fitLine(m.statusMsg, m.width))
	}
	return m.help.View(m.keys)
}

// renderSearchBar shows "/pattern [n matches]", or "[invalid]" after a
// rejected edit.
func (m Model) renderSearchBar() string {
	bar := m.searchBar
	bar.SetValue(m.state.Buffer())
	bar.CursorEnd()
	bar.Focus()

	var status string
	switch {
	case m.statusIsError:
		status = m.theme.ErrorText.Render("[invalid]")
	case !m.state.SearchActive():
		status = m.theme.MutedText.Render("[type a pattern]")
	case m.state.Matches() == 0:
		status = m.theme.MutedText.Render("[no matches]")
	default:
		status = m.theme.MatchText.Render(fmt.Sprintf("[%d matches]", m.state.Matches()))
	}
	return bar.View() + " " + status
}
