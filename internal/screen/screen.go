// Package screen tracks which dashboard screen is active.
package screen

import (
	"sync"

	"codeberg.org/mutker/hwdash/internal/errors"
)

type State int

const (
	Splash State = iota
	Details
	Graphs
	Settings
)

func (s State) String() string {
	switch s {
	case Splash:
		return "splash"
	case Details:
		return "details"
	case Graphs:
		return "graphs"
	case Settings:
		return "settings"
	default:
		return "unknown"
	}
}

// Navigable lists the screens a user can move between, in tab order.
var Navigable = []State{Details, Graphs, Settings}

// Trigger is a non-navigation event the machine reacts to.
type Trigger int

const (
	SplashElapsed Trigger = iota
)

// Machine holds the current screen. It starts in Splash and has no terminal
// state.
type Machine struct {
	mu      sync.RWMutex
	current State
}

func NewMachine() *Machine {
	return &Machine{current: Splash}
}

func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire applies a trigger and reports whether the state changed.
// SplashElapsed only has an effect while in Splash.
func (m *Machine) Fire(t Trigger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t == SplashElapsed && m.current == Splash {
		m.current = Details
		return true
	}
	return false
}

// NavigateTo moves to target and reports whether the request was applied.
// Requests are ignored while the splash is showing. Moving to the current
// screen is applied and leaves the state unchanged.
func (m *Machine) NavigateTo(target State) (bool, error) {
	if !isNavigable(target) {
		return false, errors.New().WithData(errors.ErrInvalidArgument, "screen "+target.String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == Splash {
		return false, nil
	}
	m.current = target
	return true, nil
}

// Next moves to the following navigable screen, wrapping around.
func (m *Machine) Next() bool {
	return m.step(1)
}

// Prev moves to the preceding navigable screen, wrapping around.
func (m *Machine) Prev() bool {
	return m.step(-1)
}

func (m *Machine) step(dir int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(Navigable)
	for i, s := range Navigable {
		if s == m.current {
			m.current = Navigable[(i+dir+n)%n]
			return true
		}
	}
	// Splash is not navigable.
	return false
}

func isNavigable(s State) bool {
	for _, n := range Navigable {
		if n == s {
			return true
		}
	}
	return false
}
