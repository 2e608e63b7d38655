package series_test

import (
	"math/rand/v2"
	"testing"

	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvictsOldest(t *testing.T) {
	store := series.NewStore()
	require.NoError(t, store.EnsureSeries("cpu.total", 3))

	for _, v := range []float64{1, 2, 3, 4} {
		require.NoError(t, store.Record("cpu.total", v))
	}

	got, err := store.Read("cpu.total")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, got)
}

func TestRecordKeepsMostRecent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		capacity := 1 + rng.IntN(10)
		store := series.NewStore()
		require.NoError(t, store.EnsureSeries("s", capacity))

		var recorded []float64
		for range rng.IntN(40) {
			v := rng.Float64()
			recorded = append(recorded, v)
			require.NoError(t, store.Record("s", v))

			got, err := store.Read("s")
			require.NoError(t, err)
			require.LessOrEqual(t, len(got), capacity)

			want := recorded[max(0, len(recorded)-capacity):]
			require.Equal(t, want, got)
		}
	}
}

func TestReadReturnsCopy(t *testing.T) {
	store := series.NewStore()
	require.NoError(t, store.EnsureSeries("mem.used", 2))
	require.NoError(t, store.Record("mem.used", 10))

	got, err := store.Read("mem.used")
	require.NoError(t, err)
	got[0] = 99

	again, err := store.Read("mem.used")
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, again)
}

func TestEnsureSeriesIsIdempotent(t *testing.T) {
	store := series.NewStore()
	require.NoError(t, store.EnsureSeries("gpu.0.util", 2))
	require.NoError(t, store.Record("gpu.0.util", 5))
	require.NoError(t, store.EnsureSeries("gpu.0.util", 10))

	capacity, err := store.Capacity("gpu.0.util")
	require.NoError(t, err)
	assert.Equal(t, 2, capacity)

	got, err := store.Read("gpu.0.util")
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, got)
}

func TestEnsureSeriesRejectsBadCapacity(t *testing.T) {
	store := series.NewStore()
	err := store.EnsureSeries("x", 0)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidCapacity))
	assert.Empty(t, store.Names())
}

func TestUnknownSeries(t *testing.T) {
	store := series.NewStore()

	err := store.Record("nope", 1)
	assert.True(t, errors.HasCode(err, series.ErrUnknownSeries))

	_, err = store.Read("nope")
	assert.True(t, errors.HasCode(err, series.ErrUnknownSeries))
}

func TestRecordAllSkipsUnknown(t *testing.T) {
	store := series.NewStore()
	require.NoError(t, store.EnsureSeries("a", 4))
	require.NoError(t, store.EnsureSeries("b", 4))

	errs := store.RecordAll([]series.Sample{
		{Name: "a", Value: 1},
		{Name: "missing", Value: 2},
		{Name: "b", Value: 3},
	})
	require.Len(t, errs, 1)
	assert.True(t, errors.HasCode(errs[0], series.ErrUnknownSeries))

	a, _ := store.Read("a")
	b, _ := store.Read("b")
	assert.Equal(t, []float64{1}, a)
	assert.Equal(t, []float64{3}, b)
	assert.Equal(t, []string{"a", "b"}, store.Names())
}

func TestCapacitiesLongestPrefix(t *testing.T) {
	caps := series.Capacities{
		Default: 120,
		Overrides: map[string]int{
			"cpu":      60,
			"cpu.core": 30,
		},
	}

	assert.Equal(t, 30, caps.For("cpu.core.3"))
	assert.Equal(t, 60, caps.For("cpu.total"))
	assert.Equal(t, 120, caps.For("mem.used"))
}

func TestPruneRemovesIdleSeries(t *testing.T) {
	store := series.NewStore()
	require.NoError(t, store.EnsureSeries("net.eth0.rx", 4))
	require.NoError(t, store.EnsureSeries("net.veth1.rx", 4))

	for _, want := range [][]string{nil, nil, {"net.veth1.rx"}} {
		store.RecordAll([]series.Sample{{Name: "net.eth0.rx", Value: 1}})
		assert.Equal(t, want, store.Prune(3))
	}
	assert.Equal(t, []string{"net.eth0.rx"}, store.Names())

	// Recording again resets the idle count.
	require.NoError(t, store.EnsureSeries("gpu.0.util", 4))
	store.Prune(3)
	store.Prune(3)
	require.NoError(t, store.Record("gpu.0.util", 5))
	store.Prune(3)
	store.Prune(3)
	assert.Equal(t, []string{"gpu.0.util"}, store.Names())

	assert.Empty(t, store.Prune(0))
	assert.Equal(t, []string{"gpu.0.util"}, store.Names())
}
