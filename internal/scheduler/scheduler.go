// Package scheduler drives the refresh cadence and splash timeout, feeding
// the snapshot and series stores.
package scheduler

import (
	"context"
	"time"

	"codeberg.org/mutker/hwdash/internal/clock"
	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/logger"
	"codeberg.org/mutker/hwdash/internal/screen"
	"codeberg.org/mutker/hwdash/internal/series"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	"codeberg.org/mutker/hwdash/internal/timer"
)

type Options struct {
	Interval   time.Duration // refresh period, > 0
	Splash     time.Duration // splash duration, >= 0
	Capacities series.Capacities
	PruneAfter int // refreshes a series may go unfed before removal, 0 keeps all
	Sampler    telemetry.Sampler
	Clock      clock.Clock
	Logger     logger.Logger
}

// Report describes what one Tick did.
type Report struct {
	SplashElapsed bool
	Refreshed     bool
	Snapshot      *telemetry.Snapshot // set when Refreshed
	Samples       int                 // samples appended
	Dropped       int                 // samples skipped (unknown series)
	Err           error               // refresh failure, snapshot left stale
}

// Scheduler owns the refresh and splash timers and is the only writer of
// the snapshot store, the series store and the splash transition.
type Scheduler struct {
	refresh *timer.Timer
	splash  *timer.Timer

	sampler    telemetry.Sampler
	snapshots  *telemetry.Store
	series     *series.Store
	screens    *screen.Machine
	capacities series.Capacities
	pruneAfter int

	// last published snapshot whose network counters were read
	netBase *telemetry.Snapshot

	clock clock.Clock
	log   logger.Logger
}

func New(opts Options) (*Scheduler, error) {
	errFactory := errors.New()

	if opts.Sampler == nil {
		return nil, errFactory.WithData(errors.ErrInvalidArgument, "sampler is required")
	}
	if opts.Interval <= 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, "refresh interval must be positive")
	}
	if opts.Capacities.Default < 1 {
		return nil, errFactory.WithData(errors.ErrInvalidCapacity, opts.Capacities.Default)
	}
	if opts.PruneAfter < 0 {
		return nil, errFactory.WithData(errors.ErrInvalidArgument, "prune threshold must not be negative")
	}

	refresh, err := timer.New(opts.Interval, timer.Repeating)
	if err != nil {
		return nil, err
	}
	splash, err := timer.New(opts.Splash, timer.Once)
	if err != nil {
		return nil, err
	}

	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	return &Scheduler{
		refresh:    refresh,
		splash:     splash,
		sampler:    opts.Sampler,
		snapshots:  telemetry.NewStore(),
		series:     series.NewStore(),
		screens:    screen.NewMachine(),
		capacities: opts.Capacities,
		pruneAfter: opts.PruneAfter,
		clock:      opts.Clock,
		log:        opts.Logger.With("scheduler"),
	}, nil
}

// Tick advances both timers by elapsed and applies whatever became due.
// A tick spanning several refresh intervals still samples once.
func (s *Scheduler) Tick(ctx context.Context, elapsed time.Duration) Report {
	s.splash.Tick(elapsed)
	s.refresh.Tick(elapsed)

	var report Report

	if s.splash.JustFinished() {
		report.SplashElapsed = s.screens.Fire(screen.SplashElapsed)
	}

	if s.refresh.JustFinished() {
		if n := s.refresh.TimesFinished(); n > 1 {
			s.log.Debug().Int("intervals", n).Msg("Tick covered several refresh intervals")
		}
		s.refreshNow(ctx, &report)
	}

	return report
}

func (s *Scheduler) refreshNow(ctx context.Context, report *Report) {
	errFactory := errors.New()

	snap, err := s.sampler.Sample(ctx)
	if err == nil && snap == nil {
		err = errFactory.New(telemetry.ErrInvalidSnapshot)
	}
	if err != nil {
		if !errors.HasCode(err, telemetry.ErrAdapterUnreachable) {
			err = errFactory.Wrap(telemetry.ErrAdapterUnreachable, err)
		}
		s.snapshots.MarkStale(err)
		report.Err = err
		s.log.Warn().Err(err).Msg("Refresh failed, keeping previous snapshot")
		return
	}

	samples := Extract(s.netBase, snap)
	for _, sample := range samples {
		capacity := s.capacities.For(sample.Name)
		if err := s.series.EnsureSeries(sample.Name, capacity); err != nil {
			s.log.Error().Err(err).Str("series", sample.Name).Msg("Cannot create series")
		}
	}

	if err := s.snapshots.Publish(snap); err != nil {
		report.Err = err
		return
	}
	if snap.Availability.Available(telemetry.KindNetwork) {
		s.netBase = snap
	}

	errs := s.series.RecordAll(samples)
	for _, err := range errs {
		var coded errors.Error
		if errors.As(err, &coded) {
			s.log.ErrorWithCode(coded).Msg("Sample skipped")
			continue
		}
		s.log.Error().Err(err).Msg("Sample skipped")
	}

	if s.pruneAfter > 0 {
		for _, name := range s.series.Prune(s.pruneAfter) {
			s.log.Debug().Str("series", name).Int("refreshes", s.pruneAfter).Msg("Series pruned")
		}
	}

	report.Refreshed = true
	report.Snapshot = snap
	report.Samples = len(samples) - len(errs)
	report.Dropped = len(errs)
}

// Run ticks every tickRate, measuring elapsed time on the scheduler's clock,
// until ctx is done. onTick, if set, receives every report.
func (s *Scheduler) Run(ctx context.Context, tickRate time.Duration, onTick func(Report)) error {
	if tickRate <= 0 {
		return errors.New().WithData(errors.ErrInvalidInterval, "tick rate must be positive")
	}

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	last := s.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := s.clock.Now()
			report := s.Tick(ctx, now.Sub(last))
			last = now
			if onTick != nil {
				onTick(report)
			}
		}
	}
}

// Read side for presenters.

func (s *Scheduler) CurrentScreen() screen.State {
	return s.screens.Current()
}

func (s *Scheduler) CurrentSnapshot() *telemetry.Snapshot {
	return s.snapshots.Current()
}

// SeriesView returns the samples of name, oldest first, or nil if the series
// does not exist yet.
func (s *Scheduler) SeriesView(name string) []float64 {
	samples, err := s.series.Read(name)
	if err != nil {
		return nil
	}
	return samples
}

func (s *Scheduler) SeriesNames() []string {
	return s.series.Names()
}

// Stale reports whether the last refresh failed and the snapshot is old.
func (s *Scheduler) Stale() (bool, error) {
	return s.snapshots.Stale()
}

func (s *Scheduler) LastRefresh() time.Time {
	return s.snapshots.LastRefresh()
}

// Navigation commands from the presenter.

func (s *Scheduler) Navigate(target screen.State) (bool, error) {
	return s.screens.NavigateTo(target)
}

func (s *Scheduler) NextScreen() bool {
	return s.screens.Next()
}

func (s *Scheduler) PrevScreen() bool {
	return s.screens.Prev()
}
