package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/hwdash/internal/clock"
	"codeberg.org/mutker/hwdash/internal/config"
	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/gpu"
	"codeberg.org/mutker/hwdash/internal/logger"
	"codeberg.org/mutker/hwdash/internal/pid"
	"codeberg.org/mutker/hwdash/internal/scheduler"
	"codeberg.org/mutker/hwdash/internal/series"
	"codeberg.org/mutker/hwdash/internal/source"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	"codeberg.org/mutker/hwdash/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "hwdash: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	errFactory := errors.New()

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logOut, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	level, _ := logger.ParseLevel(cfg.LogLevel.String())
	logger.Init(logger.Options{Output: logOut, Level: level, Service: logger.IsService()})
	logger.Debug().Str("config_file", cfg.ConfigFile).Msg("Config loaded")
	log := logger.Get()

	clk := clock.Real()
	gpus := gpu.New(log)
	defer func() {
		if err := gpus.Shutdown(); err != nil {
			logger.Warn().Err(err).Msg("NVML shutdown failed")
		}
	}()

	sched, err := scheduler.New(scheduler.Options{
		Interval:   cfg.RefreshInterval(),
		Splash:     cfg.SplashDuration(),
		Capacities: series.Capacities{Default: cfg.Capacity, Overrides: cfg.Capacities},
		PruneAfter: cfg.PruneAfter,
		Sampler:    source.New(clk, log, gpus),
		Clock:      clk,
		Logger:     log,
	})
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.Monitor {
		return monitor(ctx, cfg, sched)
	}

	model := tui.New(ctx, tui.Options{
		Dashboard: sched,
		Clock:     clk,
		Settings: tui.Settings{
			Interval:   cfg.RefreshInterval(),
			Splash:     cfg.SplashDuration(),
			TickRate:   cfg.TickDuration(),
			Capacity:   cfg.Capacity,
			Capacities: cfg.Capacities,
			LogLevel:   cfg.LogLevel.String(),
			LogFile:    cfg.LogFile,
			ConfigFile: cfg.ConfigFile,
		},
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errFactory.Wrap(errors.ErrRunUI, err)
	}

	return nil
}

// openLog picks the log destination. The TUI owns the terminal, so without a
// log file its logs are discarded; headless mode logs to stdout.
func openLog(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, errors.New().Wrap(errors.ErrOpenLog, err)
		}
		return f, func() { _ = f.Close() }, nil
	}

	if cfg.Monitor {
		return os.Stdout, func() {}, nil
	}
	return io.Discard, func() {}, nil
}

func monitor(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler) error {
	errFactory := errors.New()

	pidFile := pid.New(cfg.PIDFile)
	if err := pidFile.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := pidFile.Release(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	logger.Info().
		Dur("interval", cfg.RefreshInterval()).
		Str("pid_file", pidFile.Path()).
		Msg("Monitor mode activated. Logging hardware status...")

	err := sched.Run(ctx, cfg.TickDuration(), func(report scheduler.Report) {
		logRefresh(cfg, report)
	})
	if err != nil {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}

	logger.Info().Msg("Exiting...")
	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func logRefresh(cfg *config.Config, report scheduler.Report) {
	if report.Err != nil {
		var coded errors.Error
		if errors.As(report.Err, &coded) {
			logger.ErrorWithCode(coded).Msg("Refresh failed, dashboard is stale")
		}
		return
	}
	if !report.Refreshed {
		return
	}

	snap := report.Snapshot
	var cpuTotal float64
	for _, c := range snap.CPUs {
		cpuTotal += c.Usage
	}
	if len(snap.CPUs) > 0 {
		cpuTotal /= float64(len(snap.CPUs))
	}

	if cfg.LogLevel == config.LogLevelDebug {
		unavailable := make([]string, 0, snap.Availability.Count())
		for _, kind := range snap.Availability.Unavailable() {
			unavailable = append(unavailable, kind.String())
		}

		logger.Debug().
			Float64("cpu_usage", cpuTotal).
			Int("cpu_cores", len(snap.CPUs)).
			Uint64("mem_used", snap.Memory.Used).
			Uint64("mem_total", snap.Memory.Total).
			Uint64("swap_used", snap.Memory.SwapUsed).
			Int("gpus", len(snap.GPUs)).
			Int("disks", len(snap.Disks)).
			Int("interfaces", len(snap.Networks)).
			Int("sensors", len(snap.Sensors)).
			Int("processes", len(snap.Processes)).
			Int("samples", report.Samples).
			Int("dropped", report.Dropped).
			Strs("unavailable", unavailable).
			Msg("")
		return
	}

	event := logger.Info().
		Float64("cpu_usage", cpuTotal).
		Uint64("mem_used", snap.Memory.Used).
		Uint64("mem_total", snap.Memory.Total)
	for _, g := range snap.GPUs {
		event = event.
			Float64(fmt.Sprintf("gpu%d_usage", g.Index), g.Utilization).
			Int(fmt.Sprintf("gpu%d_temperature", g.Index), g.Temperature)
	}
	if !snap.Availability.Available(telemetry.KindGPU) {
		event = event.Bool("gpu_unavailable", true)
	}
	event.Msg("")
}
