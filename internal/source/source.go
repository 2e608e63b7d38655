// Package source samples the local machine into telemetry snapshots.
package source

import (
	"context"
	"sort"

	"codeberg.org/mutker/hwdash/internal/clock"
	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/logger"
	"codeberg.org/mutker/hwdash/internal/telemetry"
)

// collector fills one category of snap. It must only write to snap once it
// has everything, so a failure leaves the category empty.
type collector func(ctx context.Context, snap *telemetry.Snapshot) error

// GPUReader lists GPUs. *gpu.Collector implements it.
type GPUReader interface {
	Devices(ctx context.Context) ([]telemetry.GPU, error)
}

// Host is a telemetry.Sampler backed by gopsutil and an optional GPUReader.
type Host struct {
	clock clock.Clock
	log   logger.Logger

	collectors map[telemetry.Kind]collector
}

// New builds a Host. gpus may be nil, in which case the GPU category is
// always reported unavailable.
func New(clk clock.Clock, log logger.Logger, gpus GPUReader) *Host {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logger.Nop()
	}

	h := &Host{clock: clk, log: log.With("source")}
	h.collectors = map[telemetry.Kind]collector{
		telemetry.KindCPU:       collectCPU,
		telemetry.KindGPU:       gpuCollector(gpus),
		telemetry.KindMemory:    collectMemory,
		telemetry.KindDisk:      collectDisks,
		telemetry.KindNetwork:   collectNetworks,
		telemetry.KindSystem:    collectSystem,
		telemetry.KindSensors:   collectSensors,
		telemetry.KindProcesses: collectProcesses,
	}

	return h
}

// Sample captures every category. Categories fail independently; the call
// only fails when all of them do or ctx is done.
func (h *Host) Sample(ctx context.Context) (*telemetry.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errFactory.Wrap(telemetry.ErrAdapterUnreachable, err)
	}

	snap := &telemetry.Snapshot{CapturedAt: h.clock.Now()}

	var errs []error
	for _, kind := range telemetry.Kinds() {
		collect, ok := h.collectors[kind]
		if !ok {
			continue
		}

		if err := collect(ctx, snap); err != nil {
			snap.Availability.MarkUnavailable(kind, err)
			errs = append(errs, err)
			h.log.Debug().Err(err).Str("kind", kind.String()).Msg("Metric unavailable")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errFactory.Wrap(telemetry.ErrAdapterUnreachable, err)
	}

	if len(errs) == len(h.collectors) && len(errs) > 0 {
		return nil, errFactory.Wrap(telemetry.ErrAdapterUnreachable, errors.Join(errs...))
	}

	return snap, nil
}

func gpuCollector(gpus GPUReader) collector {
	return func(ctx context.Context, snap *telemetry.Snapshot) error {
		if gpus == nil {
			return errFactory.WithMessage(errors.ErrUnavailable, "no GPU backend")
		}

		devices, err := gpus.Devices(ctx)
		if err != nil {
			return err
		}

		sort.Slice(devices, func(i, j int) bool { return devices[i].Index < devices[j].Index })
		snap.GPUs = devices
		return nil
	}
}
