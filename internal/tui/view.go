package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"codeberg.org/mutker/hwdash/internal/screen"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const topProcesses = 10

func (m Model) View() string {
	current := m.dash.CurrentScreen()
	if current == screen.Splash {
		return m.renderSplash()
	}

	var content string
	switch current {
	case screen.Details:
		content = m.renderDetails()
	case screen.Graphs:
		content = m.renderGraphs()
	case screen.Settings:
		content = m.renderSettings()
	}

	parts := []string{m.renderHeader(current)}
	if banner := m.renderStale(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts,
		styleContent.Render(content),
		styleFooter.Render(m.help.View(m.keys)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderSplash() string {
	title := styleSplash.Render("hwdash")
	sub := styleMuted.Render("hardware telemetry, starting up")
	return lipgloss.JoinVertical(lipgloss.Left, title, "    "+sub)
}

func (m Model) renderHeader(current screen.State) string {
	tabs := make([]string, 0, len(screen.Navigable))
	for _, s := range screen.Navigable {
		name := strings.ToUpper(s.String()[:1]) + s.String()[1:]
		if s == current {
			tabs = append(tabs, styleActiveTab.Render(name))
		} else {
			tabs = append(tabs, styleInactiveTab.Render(name))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if last := m.dash.LastRefresh(); !last.IsZero() {
		bar += styleMuted.Render("  updated " + last.Format(time.TimeOnly))
	}
	return styleHeader.Width(m.width).Render(bar)
}

func (m Model) renderStale() string {
	stale, err := m.dash.Stale()
	if !stale {
		return ""
	}
	return styleStale.Render("STALE: " + err.Error())
}

// Details

type sectionRenderer func(*telemetry.Snapshot) string

// sectionRenderers has one entry per telemetry.Kind.
var sectionRenderers = map[telemetry.Kind]sectionRenderer{
	telemetry.KindCPU:       renderCPUs,
	telemetry.KindGPU:       renderGPUs,
	telemetry.KindMemory:    renderMemory,
	telemetry.KindDisk:      renderDisks,
	telemetry.KindNetwork:   renderNetworks,
	telemetry.KindSystem:    renderSystem,
	telemetry.KindSensors:   renderSensors,
	telemetry.KindProcesses: renderProcesses,
}

func (m Model) renderDetails() string {
	snap := m.dash.CurrentSnapshot()
	if snap.CapturedAt.IsZero() {
		return styleMuted.Render("waiting for first sample")
	}

	sections := make([]string, 0, len(sectionRenderers))
	for _, kind := range telemetry.Kinds() {
		body := ""
		if reason := snap.Availability.Reason(kind); reason != nil {
			body = styleMuted.Render(reason.Error())
		} else if render, ok := sectionRenderers[kind]; ok {
			body = render(snap)
		}
		if body == "" {
			body = styleMuted.Render("none")
		}
		sections = append(sections, styleSection.Render(kind.String())+"\n"+body)
	}

	return strings.Join(sections, "\n\n")
}

func row(label, value string) string {
	return styleLabel.Render(fmt.Sprintf("%-14s", label)) + value
}

func renderCPUs(snap *telemetry.Snapshot) string {
	if len(snap.CPUs) == 0 {
		return ""
	}

	lines := []string{row("Model", snap.CPUs[0].Brand+" "+snap.CPUs[0].Model)}
	for _, c := range snap.CPUs {
		lines = append(lines, row(c.Name, fmt.Sprintf("%5.1f%%", c.Usage)))
	}
	return strings.Join(lines, "\n")
}

func renderGPUs(snap *telemetry.Snapshot) string {
	lines := make([]string, 0, len(snap.GPUs))
	for _, g := range snap.GPUs {
		lines = append(lines, row(
			fmt.Sprintf("gpu%d", g.Index),
			fmt.Sprintf("%s %s  %5.1f%%  %d°C  %s / %s",
				g.Brand, g.Name, g.Utilization, g.Temperature,
				humanize.IBytes(g.MemoryUsed), humanize.IBytes(g.MemoryTotal)),
		))
	}
	return strings.Join(lines, "\n")
}

func renderMemory(snap *telemetry.Snapshot) string {
	mem := snap.Memory
	return strings.Join([]string{
		row("Memory", humanize.IBytes(mem.Used)+" / "+humanize.IBytes(mem.Total)),
		row("Swap", humanize.IBytes(mem.SwapUsed)+" / "+humanize.IBytes(mem.SwapTotal)),
	}, "\n")
}

func renderDisks(snap *telemetry.Snapshot) string {
	lines := make([]string, 0, len(snap.Disks))
	for _, d := range snap.Disks {
		lines = append(lines, row(d.Mountpoint, fmt.Sprintf("%s (%s)  %s used, %s free of %s",
			d.Device, d.FSType, humanize.IBytes(d.Used), humanize.IBytes(d.Free), humanize.IBytes(d.Total))))
	}
	return strings.Join(lines, "\n")
}

func renderNetworks(snap *telemetry.Snapshot) string {
	lines := make([]string, 0, len(snap.Networks))
	for _, n := range snap.Networks {
		lines = append(lines, row(n.Name, fmt.Sprintf("rx %s  tx %s",
			humanize.IBytes(n.Received), humanize.IBytes(n.Transmitted))))
	}
	return strings.Join(lines, "\n")
}

func renderSystem(snap *telemetry.Snapshot) string {
	sys := snap.System
	return strings.Join([]string{
		row("Host", telemetry.OrUnknown(sys.HostName)),
		row("OS", telemetry.OrUnknown(sys.OSName)+" "+telemetry.OrUnknown(sys.OSVersion)),
		row("Kernel", telemetry.OrUnknown(sys.KernelVersion)),
	}, "\n")
}

func renderSensors(snap *telemetry.Snapshot) string {
	lines := make([]string, 0, len(snap.Sensors))
	for _, s := range snap.Sensors {
		value := fmt.Sprintf("%.1f°C", s.Temperature)
		if s.Critical > 0 {
			value += fmt.Sprintf("  (crit %.0f°C)", s.Critical)
		}
		lines = append(lines, row(s.Key, value))
	}
	return strings.Join(lines, "\n")
}

// renderProcesses lists the processes with the most disk I/O.
func renderProcesses(snap *telemetry.Snapshot) string {
	if len(snap.Processes) == 0 {
		return ""
	}

	procs := make([]telemetry.Process, len(snap.Processes))
	copy(procs, snap.Processes)
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].ReadBytes+procs[i].WrittenBytes > procs[j].ReadBytes+procs[j].WrittenBytes
	})
	if len(procs) > topProcesses {
		procs = procs[:topProcesses]
	}

	lines := []string{styleMuted.Render(humanize.Comma(int64(len(snap.Processes))) + " processes")}
	for _, p := range procs {
		lines = append(lines, row(fmt.Sprint(p.PID), fmt.Sprintf("%-20s read %s  written %s",
			p.Name, humanize.IBytes(p.ReadBytes), humanize.IBytes(p.WrittenBytes))))
	}
	return strings.Join(lines, "\n")
}

// Graphs

func (m Model) renderGraphs() string {
	names := m.dash.SeriesNames()
	if len(names) == 0 {
		return styleMuted.Render("no history yet")
	}

	width := max(m.width-40, 10)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		data := m.dash.SeriesView(name)
		if len(data) == 0 {
			continue
		}

		latest := data[len(data)-1]
		var spark, value string
		if strings.HasPrefix(name, "net.") {
			spark = sparkline(data, width, 0, 0, colorWarning)
			value = humanize.IBytes(uint64(latest)) + "/s"
		} else {
			spark = sparkline(data, width, 0, 100, colorPrimary)
			value = fmt.Sprintf("%.1f%%", latest)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", styleLabel.Render(fmt.Sprintf("%-18s", name)), spark, value))
	}
	return strings.Join(lines, "\n")
}

// Settings

func (m Model) renderSettings() string {
	s := m.settings
	configFile := s.ConfigFile
	if configFile == "" {
		configFile = "(defaults)"
	}
	logFile := s.LogFile
	if logFile == "" {
		logFile = "(discarded)"
	}

	lines := []string{
		row("Refresh", s.Interval.String()),
		row("Splash", s.Splash.String()),
		row("Tick rate", s.TickRate.String()),
		row("History", fmt.Sprintf("%d samples", s.Capacity)),
	}

	prefixes := make([]string, 0, len(s.Capacities))
	for p := range s.Capacities {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		lines = append(lines, row("  "+p, fmt.Sprintf("%d samples", s.Capacities[p])))
	}

	lines = append(lines,
		row("Log level", s.LogLevel),
		row("Log file", logFile),
		row("Config", configFile),
	)
	return strings.Join(lines, "\n")
}
