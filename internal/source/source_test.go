package source

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"codeberg.org/mutker/hwdash/internal/clock"
	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingGPUs struct{}

func (failingGPUs) Devices(context.Context) ([]telemetry.GPU, error) {
	return nil, stderrors.New("nvml: driver not loaded")
}

type fixedGPUs []telemetry.GPU

func (g fixedGPUs) Devices(context.Context) ([]telemetry.GPU, error) {
	return g, nil
}

func stubbed(t *testing.T, gpus GPUReader) (*Host, *clock.FakeClock) {
	t.Helper()

	clk := clock.Fake(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	h := New(clk, nil, gpus)
	h.collectors[telemetry.KindCPU] = func(_ context.Context, snap *telemetry.Snapshot) error {
		snap.CPUs = []telemetry.CPU{{Name: "cpu0", Usage: 25}, {Name: "cpu1", Usage: 75}}
		return nil
	}
	h.collectors[telemetry.KindMemory] = func(_ context.Context, snap *telemetry.Snapshot) error {
		snap.Memory = telemetry.Memory{Total: 1000, Used: 250}
		return nil
	}
	for _, kind := range []telemetry.Kind{
		telemetry.KindDisk, telemetry.KindNetwork, telemetry.KindSystem,
		telemetry.KindSensors, telemetry.KindProcesses,
	} {
		h.collectors[kind] = func(context.Context, *telemetry.Snapshot) error { return nil }
	}
	return h, clk
}

func TestSampleGPUFailureIsPartial(t *testing.T) {
	h, clk := stubbed(t, failingGPUs{})

	snap, err := h.Sample(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.GPUs)
	assert.Len(t, snap.CPUs, 2)
	assert.Equal(t, uint64(1000), snap.Memory.Total)
	assert.Equal(t, clk.Now(), snap.CapturedAt)

	assert.False(t, snap.Availability.Available(telemetry.KindGPU))
	assert.True(t, snap.Availability.Available(telemetry.KindCPU))
	assert.True(t, errors.HasCode(snap.Availability.Reason(telemetry.KindGPU), telemetry.ErrMetricUnavailable))
}

func TestSampleNilGPUReader(t *testing.T) {
	h, _ := stubbed(t, nil)

	snap, err := h.Sample(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.GPUs)
	assert.Equal(t, []telemetry.Kind{telemetry.KindGPU}, snap.Availability.Unavailable())
}

func TestSampleSortsGPUs(t *testing.T) {
	h, _ := stubbed(t, fixedGPUs{{Index: 1, Name: "b"}, {Index: 0, Name: "a"}})

	snap, err := h.Sample(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.GPUs, 2)
	assert.Equal(t, "a", snap.GPUs[0].Name)
	assert.Zero(t, snap.Availability.Count())
}

func TestSampleFailedCategoryLeftEmpty(t *testing.T) {
	h, _ := stubbed(t, nil)
	h.collectors[telemetry.KindCPU] = func(context.Context, *telemetry.Snapshot) error {
		return stderrors.New("permission denied")
	}

	snap, err := h.Sample(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.CPUs)
	assert.False(t, snap.Availability.Available(telemetry.KindCPU))
	assert.Equal(t, uint64(250), snap.Memory.Used)
}

func TestSampleAllFailing(t *testing.T) {
	h, _ := stubbed(t, failingGPUs{})
	for kind := range h.collectors {
		h.collectors[kind] = func(context.Context, *telemetry.Snapshot) error {
			return stderrors.New("os interface gone")
		}
	}

	snap, err := h.Sample(context.Background())
	assert.Nil(t, snap)
	assert.True(t, errors.HasCode(err, telemetry.ErrAdapterUnreachable))
}

func TestSampleCancelled(t *testing.T) {
	h, _ := stubbed(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Sample(ctx)
	assert.True(t, errors.HasCode(err, telemetry.ErrAdapterUnreachable))
	assert.ErrorIs(t, err, context.Canceled)
}
