package scheduler

import (
	"fmt"

	"codeberg.org/mutker/hwdash/internal/series"
	"codeberg.org/mutker/hwdash/internal/telemetry"
)

// Series names fed from each snapshot.
const (
	SeriesCPUTotal = "cpu.total"
	SeriesMemUsed  = "mem.used"
	SeriesSwapUsed = "swap.used"
)

func SeriesCPUCore(i int) string { return fmt.Sprintf("cpu.core.%d", i) }
func SeriesGPUUtil(index int) string { return fmt.Sprintf("gpu.%d.util", index) }
func SeriesNetRx(iface string) string { return "net." + iface + ".rx" }
func SeriesNetTx(iface string) string { return "net." + iface + ".tx" }

// Extract maps a snapshot onto series samples. prev is the last snapshot
// that carried network counters and is only used for throughput; it may be
// nil. Unavailable categories contribute nothing, and so does network when
// prev could not read its counters.
func Extract(prev, cur *telemetry.Snapshot) []series.Sample {
	var out []series.Sample
	avail := cur.Availability

	if avail.Available(telemetry.KindCPU) && len(cur.CPUs) > 0 {
		var total float64
		for i, c := range cur.CPUs {
			total += c.Usage
			out = append(out, series.Sample{Name: SeriesCPUCore(i), Value: c.Usage})
		}
		out = append(out, series.Sample{Name: SeriesCPUTotal, Value: total / float64(len(cur.CPUs))})
	}

	if avail.Available(telemetry.KindMemory) {
		m := cur.Memory
		out = append(out,
			series.Sample{Name: SeriesMemUsed, Value: percent(m.Used, m.Total)},
			series.Sample{Name: SeriesSwapUsed, Value: percent(m.SwapUsed, m.SwapTotal)},
		)
	}

	if avail.Available(telemetry.KindGPU) {
		for _, g := range cur.GPUs {
			out = append(out, series.Sample{Name: SeriesGPUUtil(g.Index), Value: g.Utilization})
		}
	}

	if avail.Available(telemetry.KindNetwork) &&
		(prev == nil || prev.Availability.Available(telemetry.KindNetwork)) {
		out = append(out, networkRates(prev, cur)...)
	}

	return out
}

// networkRates turns cumulative counters into bytes per second. The first
// sighting of an interface, and a counter that went backwards (reset or
// wrap), yield zero.
func networkRates(prev, cur *telemetry.Snapshot) []series.Sample {
	var seconds float64
	before := make(map[string]telemetry.Network)
	if prev != nil && !prev.CapturedAt.IsZero() {
		seconds = cur.CapturedAt.Sub(prev.CapturedAt).Seconds()
		for _, n := range prev.Networks {
			before[n.Name] = n
		}
	}

	out := make([]series.Sample, 0, 2*len(cur.Networks))
	for _, n := range cur.Networks {
		var rx, tx float64
		if p, ok := before[n.Name]; ok && seconds > 0 {
			rx = rate(p.Received, n.Received, seconds)
			tx = rate(p.Transmitted, n.Transmitted, seconds)
		}
		out = append(out,
			series.Sample{Name: SeriesNetRx(n.Name), Value: rx},
			series.Sample{Name: SeriesNetTx(n.Name), Value: tx},
		)
	}
	return out
}

func rate(before, after uint64, seconds float64) float64 {
	if after < before {
		return 0
	}
	return float64(after-before) / seconds
}

func percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
