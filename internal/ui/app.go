// Package ui provides the Bubble Tea TUI for roster.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/users"
)

// Options configures the UI.
type Options struct {
	Context         context.Context
	Client          users.Service
	Logger          *zap.Logger
	BaseURL         string
	ThemeName       string
	HideEmail       bool
	PrefsPath       string
	LogFile         string
	ReconcileCreate bool
}

// loader tracks the in-flight list fetch. It lives behind a pointer so the
// value-copied Model shares it.
type loader struct {
	seq    int
	cancel context.CancelFunc
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	mount     context.Context
	unmount   context.CancelFunc
	client    users.Service
	logger    *zap.Logger
	baseURL   string
	prefsPath string
	logFile   string
	reconcile bool

	// Components
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	// UI state
	theme        Theme
	width        int
	height       int
	hideEmail    bool
	showHelp     bool
	showActivity bool
	activity     []string

	// Data state
	store    *state.Store
	loader   *loader
	loadedAt time.Time
	selected int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	mount, unmount := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	input := textinput.New()
	input.Prompt = "✎ "
	input.CharLimit = 0

	m := Model{
		ctx:       ctx,
		mount:     mount,
		unmount:   unmount,
		client:    opts.Client,
		logger:    logger,
		baseURL:   opts.BaseURL,
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		reconcile: opts.ReconcileCreate,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		input:     input,
		theme:     theme,
		hideEmail: opts.HideEmail,
		store:     &state.Store{},
		loader:    &loader{},
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model. The list is fetched as soon as the program starts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.beginLoad(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width/2, 10)
		return m, nil

	case spinner.TickMsg:
		if !m.store.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case usersLoadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case createdMsg:
		m.handleCreated(msg)
		return m, nil

	case deletedMsg:
		m.handleDeleted(msg)
		return m, nil

	case updatedMsg:
		m.handleUpdated(msg)
		return m, nil

	case activityMsg:
		m.activity = append([]string{}, msg.lines...)
		if msg.err != nil {
			m.activity = []string{msg.err.Error()}
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showActivity {
		return m.renderActivity()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// Any key closes an overlay
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showActivity {
		m.showActivity = false
		return m, nil
	}

	if m.store.Snapshot().Editing {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleEmail):
		m.hideEmail = !m.hideEmail
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		m.activity = nil
		return m, readActivityCmd(m.logFile)

	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.beginLoad(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Add):
		cmd := m.createUser()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		cmd := m.deleteSelected()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		m.editSelected()
		return m, textinput.Blink
	}

	m.handleNavKey(msg)
	return m, nil
}

// handleEditKey routes input while a record is in edit mode.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.confirmEdit()
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelEdit()
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	// The input sanitizes its value, so the draft only follows it once the
	// user has actually changed the text.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.store.SetDraft(value)
	}
	return m, cmd
}

func (m *Model) handleNavKey(msg tea.KeyMsg) {
	count := len(m.store.Snapshot().Users)
	if count == 0 {
		m.selected = 0
		return
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	}
}

// quit tears the component down: any in-flight load is canceled before the
// program exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.unmount()
	return m, tea.Quit
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.input.PromptStyle = styles.WarningText
	m.input.TextStyle = styles.Text
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText
}

func (m Model) savePrefs() {
	if strings.TrimSpace(m.prefsPath) == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, HideEmail: m.hideEmail}); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.unmount()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Interrupted by signal; that is a normal exit.
		return nil
	}
	return err
}
