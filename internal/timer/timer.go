package timer

import (
	"time"

	"codeberg.org/mutker/hwdash/internal/errors"
)

// Mode selects whether a Timer restarts after finishing.
type Mode int

const (
	Once Mode = iota
	Repeating
)

func (m Mode) String() string {
	if m == Repeating {
		return "repeating"
	}
	return "once"
}

// Timer accumulates elapsed time handed to it by Tick. It never reads a clock
// itself; the caller measures elapsed time on a monotonic source.
//
// JustFinished is an edge: it is true only for the Tick during which the
// timer reached its duration.
type Timer struct {
	duration      time.Duration
	mode          Mode
	elapsed       time.Duration
	finished      bool
	justFinished  bool
	timesFinished int
}

// New creates a timer. Repeating timers need a positive duration; one-shot
// timers accept zero, which finishes on the first Tick.
func New(duration time.Duration, mode Mode) (*Timer, error) {
	errFactory := errors.New()

	if duration < 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, "timer duration must not be negative")
	}
	if mode == Repeating && duration == 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, "repeating timer needs a positive duration")
	}

	return &Timer{duration: duration, mode: mode}, nil
}

// Tick advances the timer by d and updates the edge state.
func (t *Timer) Tick(d time.Duration) {
	t.justFinished = false
	t.timesFinished = 0

	if t.mode == Once && t.finished {
		return
	}
	if d > 0 {
		t.elapsed += d
	}
	if t.elapsed < t.duration {
		return
	}

	t.justFinished = true
	t.finished = true

	if t.mode == Once {
		t.timesFinished = 1
		t.elapsed = t.duration
		return
	}

	// Carry the remainder so cadence does not slip when ticks overshoot.
	t.timesFinished = int(t.elapsed / t.duration)
	t.elapsed %= t.duration
}

// JustFinished reports whether the last Tick completed the timer.
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// TimesFinished is how many whole durations the last Tick covered. It is
// above one only for repeating timers fed a tick longer than their period.
func (t *Timer) TimesFinished() int {
	return t.timesFinished
}

// Finished reports whether a one-shot timer has completed, or whether a
// repeating timer has completed at least once.
func (t *Timer) Finished() bool {
	return t.finished
}

// Elapsed is the time accumulated towards the next completion.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining is the time left until the next completion. A finished one-shot
// timer has none.
func (t *Timer) Remaining() time.Duration {
	if t.mode == Once && t.finished {
		return 0
	}
	return t.duration - t.elapsed
}
