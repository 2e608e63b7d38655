// Package tui is the terminal presenter. It drives the scheduler's tick from
// the bubbletea loop and renders read-only views of its state.
package tui

import (
	"context"
	"time"

	"codeberg.org/mutker/hwdash/internal/clock"
	"codeberg.org/mutker/hwdash/internal/scheduler"
	"codeberg.org/mutker/hwdash/internal/screen"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultWidth = 80

// Dashboard is what the presenter needs from the core. *scheduler.Scheduler
// implements it.
type Dashboard interface {
	Tick(ctx context.Context, elapsed time.Duration) scheduler.Report
	CurrentScreen() screen.State
	CurrentSnapshot() *telemetry.Snapshot
	SeriesView(name string) []float64
	SeriesNames() []string
	Stale() (bool, error)
	LastRefresh() time.Time
	Navigate(target screen.State) (bool, error)
	NextScreen() bool
	PrevScreen() bool
}

// Settings is the effective configuration shown on the settings screen.
type Settings struct {
	Interval   time.Duration
	Splash     time.Duration
	TickRate   time.Duration
	Capacity   int
	Capacities map[string]int
	LogLevel   string
	LogFile    string
	ConfigFile string
}

type Options struct {
	Dashboard Dashboard
	Clock     clock.Clock
	Settings  Settings
}

type tickMsg time.Time

// Model is the top-level bubbletea model.
type Model struct {
	ctx      context.Context
	dash     Dashboard
	clock    clock.Clock
	settings Settings
	last     time.Time

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New returns a Model whose first tick measures time from now. ctx is passed
// to every scheduler tick so a quit cancels an in-flight sample.
func New(ctx context.Context, opts Options) Model {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return Model{
		ctx:      ctx,
		dash:     opts.Dashboard,
		clock:    clk,
		settings: opts.Settings,
		last:     clk.Now(),
		keys:     keys,
		help:     help.New(),
		width:    defaultWidth,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.settings.TickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := m.clock.Now()
		m.dash.Tick(m.ctx, now.Sub(m.last))
		m.last = now
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			m.dash.NextScreen()
		case key.Matches(msg, m.keys.Prev):
			m.dash.PrevScreen()
		case key.Matches(msg, m.keys.Details):
			_, _ = m.dash.Navigate(screen.Details)
		case key.Matches(msg, m.keys.Graphs):
			_, _ = m.dash.Navigate(screen.Graphs)
		case key.Matches(msg, m.keys.Settings):
			_, _ = m.dash.Navigate(screen.Settings)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}
