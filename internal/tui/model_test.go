package tui

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"codeberg.org/mutker/hwdash/internal/clock"
	"codeberg.org/mutker/hwdash/internal/scheduler"
	"codeberg.org/mutker/hwdash/internal/screen"
	"codeberg.org/mutker/hwdash/internal/series"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isQuitCmd executes a tea.Cmd and returns true if it produces a tea.QuitMsg.
func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

type fixture struct {
	model   Model
	clock   *clock.FakeClock
	sched   *scheduler.Scheduler
	failing bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{clock: clock.Fake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))}
	sampler := telemetry.SamplerFunc(func(context.Context) (*telemetry.Snapshot, error) {
		if f.failing {
			return nil, stderrors.New("host went away")
		}
		snap := &telemetry.Snapshot{
			CapturedAt: f.clock.Now(),
			CPUs:       []telemetry.CPU{{Name: "cpu0", Brand: "GenuineIntel", Model: "Xeon", Usage: 42}},
			Memory:     telemetry.Memory{Total: 16 << 30, Used: 4 << 30},
			System:     telemetry.System{HostName: "box", OSName: "arch"},
			Networks:   []telemetry.Network{{Name: "eth0", Received: 2048}},
		}
		snap.Availability.MarkUnavailable(telemetry.KindGPU, stderrors.New("no NVIDIA driver"))
		return snap, nil
	})

	sched, err := scheduler.New(scheduler.Options{
		Interval:   time.Second,
		Splash:     2 * time.Second,
		Capacities: series.Capacities{Default: 30},
		Sampler:    sampler,
		Clock:      f.clock,
	})
	require.NoError(t, err)

	f.sched = sched
	f.model = New(context.Background(), Options{
		Dashboard: sched,
		Clock:     f.clock,
		Settings:  Settings{Interval: time.Second, Splash: 2 * time.Second, TickRate: 100 * time.Millisecond, Capacity: 30, LogLevel: "info"},
	})
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	updated, cmd := f.model.Update(msg)
	m, ok := updated.(Model)
	require.True(t, ok)
	f.model = m
	return cmd
}

func (f *fixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	f.clock.Advance(d)
	cmd := f.send(t, tickMsg(f.clock.Now()))
	assert.NotNil(t, cmd, "tick must reschedule itself")
}

func TestInitSchedulesTick(t *testing.T) {
	f := newFixture(t)
	assert.NotNil(t, f.model.Init())
}

func TestSplashIgnoresNavigation(t *testing.T) {
	f := newFixture(t)

	f.send(t, runes('2'))
	assert.Equal(t, screen.Splash, f.sched.CurrentScreen())
	assert.Contains(t, f.model.View(), "hwdash")

	f.advance(t, 1500*time.Millisecond)
	assert.Equal(t, screen.Splash, f.sched.CurrentScreen())

	f.advance(t, 500*time.Millisecond)
	assert.Equal(t, screen.Details, f.sched.CurrentScreen())
}

func TestNavigationKeys(t *testing.T) {
	f := newFixture(t)
	f.advance(t, 2*time.Second)

	f.send(t, runes('2'))
	assert.Equal(t, screen.Graphs, f.sched.CurrentScreen())
	f.send(t, runes('s'))
	assert.Equal(t, screen.Settings, f.sched.CurrentScreen())
	f.send(t, runes('d'))
	assert.Equal(t, screen.Details, f.sched.CurrentScreen())

	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, screen.Graphs, f.sched.CurrentScreen())
	f.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, screen.Details, f.sched.CurrentScreen())
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	assert.True(t, isQuitCmd(f.send(t, runes('q'))))
	assert.True(t, isQuitCmd(f.send(t, tea.KeyMsg{Type: tea.KeyCtrlC})))
}

func TestHelpToggle(t *testing.T) {
	f := newFixture(t)
	f.send(t, runes('?'))
	assert.True(t, f.model.help.ShowAll)
	f.send(t, runes('?'))
	assert.False(t, f.model.help.ShowAll)
}

func TestDetailsView(t *testing.T) {
	f := newFixture(t)
	f.advance(t, 2*time.Second)

	view := f.model.View()
	assert.Contains(t, view, "CPU")
	assert.Contains(t, view, "Xeon")
	assert.Contains(t, view, "4.0 GiB / 16 GiB")
	assert.Contains(t, view, "no NVIDIA driver")
	assert.Contains(t, view, "box")
}

func TestGraphsView(t *testing.T) {
	f := newFixture(t)
	f.advance(t, 2*time.Second)
	f.advance(t, time.Second)
	f.send(t, runes('g'))

	view := f.model.View()
	assert.Contains(t, view, "cpu.total")
	assert.Contains(t, view, "42.0%")
	assert.Contains(t, view, "net.eth0.rx")
}

func TestSettingsView(t *testing.T) {
	f := newFixture(t)
	f.advance(t, 2*time.Second)
	f.send(t, runes('3'))

	view := f.model.View()
	assert.Contains(t, view, "Refresh")
	assert.Contains(t, view, "1s")
	assert.Contains(t, view, "(defaults)")
}

func TestStaleBanner(t *testing.T) {
	f := newFixture(t)
	f.advance(t, 2*time.Second)
	assert.NotContains(t, f.model.View(), "STALE")

	f.failing = true
	f.advance(t, time.Second)
	view := f.model.View()
	assert.Contains(t, view, "STALE")
	assert.Contains(t, view, "Xeon", "previous snapshot stays on screen")
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, sparkline(nil, 10, 0, 100, colorPrimary))
	assert.Contains(t, sparkline([]float64{0, 100}, 10, 0, 100, colorPrimary), "▁█")
	assert.Contains(t, sparkline([]float64{5, 5, 5}, 2, 0, 0, colorPrimary), "▅▅")
}
