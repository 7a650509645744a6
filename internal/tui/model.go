// Package tui renders the GamesWiki panel in a terminal.
package tui

import (
	"context"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ryanm101/gameswiki/internal/notify"
	"github.com/ryanm101/gameswiki/internal/panel"
	"github.com/ryanm101/gameswiki/internal/session"
	"github.com/ryanm101/gameswiki/internal/wiki"
)

// Options wires the model to a session.
type Options struct {
	Session *session.Session
	// Notices collects the toasts the session emits; the newest is shown in the status bar.
	Notices *notify.Buffer
	// Limit caps the number of game rows; zero uses the panel default.
	Limit int
	// Changes, when set, triggers a refresh for each value received.
	Changes <-chan struct{}
	// Footer is shown in the status bar when there is no notification.
	Footer string
}

// Model holds the application state
type Model struct {
	ctx     context.Context
	sess    *session.Session
	notices *notify.Buffer
	limit   int
	changes <-chan struct{}
	footer  string

	view      panel.View
	cursor    int
	width     int
	height    int
	statusMsg string

	spinner spinner.Model
	help    help.Model
}

// Messages
type refreshedMsg struct{ applied bool }

type openedMsg struct {
	name string
	ok   bool
}

type librariesChangedMsg struct{}

// New creates the model. ctx bounds inventory fetches and link opens.
func New(ctx context.Context, opts Options) Model {
	if opts.Notices == nil {
		opts.Notices = notify.NewBuffer(0)
	}
	m := Model{
		ctx:     ctx,
		sess:    opts.Session,
		notices: opts.Notices,
		limit:   opts.Limit,
		changes: opts.Changes,
		footer:  opts.Footer,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
	}
	m.sync()
	return m
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startRefresh(),
		waitForChange(m.changes),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		// session state already holds the outcome

	case openedMsg:
		// the session notified success or failure

	case librariesChangedMsg:
		cmd = tea.Batch(m.startRefresh(), waitForChange(m.changes))
	}

	m.sync()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit

	case key.Matches(msg, keys.Toggle):
		if m.sess.Enable(!m.view.Enabled) {
			return m.startRefresh()
		}

	case key.Matches(msg, keys.NextSite):
		m.cycleSite(1)

	case key.Matches(msg, keys.PrevSite):
		m.cycleSite(-1)

	case key.Matches(msg, keys.Site):
		n, _ := strconv.Atoi(msg.String())
		ids := wiki.IDs()
		if n >= 1 && n <= len(ids) {
			m.sess.SelectSite(ids[n-1])
		}

	case key.Matches(msg, keys.Refresh):
		return m.startRefresh()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Open):
		if !m.view.Enabled || m.cursor >= len(m.view.Rows) {
			return nil
		}
		row := m.view.Rows[m.cursor]
		return m.openCmd(row.AppID, row.Name)
	}
	return nil
}

// cycleSite moves the selection by delta through the registry order.
// An unknown selection starts from the first site.
func (m *Model) cycleSite(delta int) {
	ids := wiki.IDs()
	i := slices.Index(ids, m.view.SiteID)
	switch {
	case i < 0:
		i = 0
	default:
		i = (i + delta + len(ids)) % len(ids)
	}
	m.sess.SelectSite(ids[i])
}

// startRefresh moves the session into Loading now and fetches in a command.
func (m Model) startRefresh() tea.Cmd {
	run, ok := m.sess.StartRefresh()
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return refreshedMsg{applied: run(ctx)}
	}
}

func (m Model) openCmd(appID, name string) tea.Cmd {
	ctx := m.ctx
	sess := m.sess
	return func() tea.Msg {
		_, ok := sess.OpenAppID(ctx, appID)
		return openedMsg{name: name, ok: ok}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return librariesChangedMsg{}
	}
}

// sync rebuilds the panel view from the session and picks up new toasts.
func (m *Model) sync() {
	m.view = panel.Build(m.sess.Snapshot(), m.limit)
	if m.cursor >= len(m.view.Rows) {
		m.cursor = max(len(m.view.Rows)-1, 0)
	}
	if toasts := m.notices.Drain(); len(toasts) > 0 {
		last := toasts[len(toasts)-1]
		m.statusMsg = last.Title + ": " + last.Body
	}
}
