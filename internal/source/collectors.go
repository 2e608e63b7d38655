package source

import (
	"context"
	"fmt"
	"sort"

	"codeberg.org/mutker/hwdash/internal/telemetry"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
)

func collectCPU(ctx context.Context, snap *telemetry.Snapshot) error {
	// Zero interval: usage since the previous call, without blocking.
	percents, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return err
	}
	if len(percents) == 0 {
		return errFactory.New(ErrNoCPUs)
	}

	// Model info is optional; usage alone is enough to fill the category.
	info, _ := cpu.InfoWithContext(ctx)

	cpus := make([]telemetry.CPU, len(percents))
	for i, usage := range percents {
		cpus[i] = telemetry.CPU{Name: fmt.Sprintf("cpu%d", i), Usage: usage}
		if len(info) == 0 {
			continue
		}
		stat := info[0]
		if i < len(info) {
			stat = info[i]
		}
		cpus[i].Brand = stat.VendorID
		cpus[i].Model = stat.ModelName
	}

	snap.CPUs = cpus
	return nil
}

func collectMemory(ctx context.Context, snap *telemetry.Snapshot) error {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return err
	}

	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		// If swap info fails, continue with 0 swap
		swap = &mem.SwapMemoryStat{}
	}

	snap.Memory = telemetry.Memory{
		Total:     vm.Total,
		Used:      vm.Used,
		SwapTotal: swap.Total,
		SwapUsed:  swap.Used,
	}
	return nil
}

func collectDisks(ctx context.Context, snap *telemetry.Snapshot) error {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return err
	}

	disks := make([]telemetry.Disk, 0, len(parts))
	for _, p := range parts {
		d := telemetry.Disk{Device: p.Device, Mountpoint: p.Mountpoint, FSType: p.Fstype}
		if usage, err := disk.UsageWithContext(ctx, p.Mountpoint); err == nil {
			d.Total = usage.Total
			d.Used = usage.Used
			d.Free = usage.Free
		}
		disks = append(disks, d)
	}

	snap.Disks = disks
	return nil
}

func collectNetworks(ctx context.Context, snap *telemetry.Snapshot) error {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return err
	}

	nets := make([]telemetry.Network, 0, len(counters))
	for _, c := range counters {
		nets = append(nets, telemetry.Network{
			Name:        c.Name,
			Received:    c.BytesRecv,
			Transmitted: c.BytesSent,
		})
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i].Name < nets[j].Name })

	snap.Networks = nets
	return nil
}

func collectSystem(ctx context.Context, snap *telemetry.Snapshot) error {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return err
	}

	osName := info.Platform
	if osName == "" {
		osName = info.OS
	}

	snap.System = telemetry.System{
		HostName:      telemetry.OrUnknown(info.Hostname),
		OSName:        telemetry.OrUnknown(osName),
		OSVersion:     telemetry.OrUnknown(info.PlatformVersion),
		KernelVersion: telemetry.OrUnknown(info.KernelVersion),
	}
	return nil
}

func collectSensors(ctx context.Context, snap *telemetry.Snapshot) error {
	temps, err := sensors.TemperaturesWithContext(ctx)
	// Some chips fail to read while others succeed; keep what we got.
	if err != nil && len(temps) == 0 {
		return err
	}

	readings := make([]telemetry.Sensor, 0, len(temps))
	for _, t := range temps {
		readings = append(readings, telemetry.Sensor{
			Key:         t.SensorKey,
			Temperature: t.Temperature,
			High:        t.High,
			Critical:    t.Critical,
		})
	}

	snap.Sensors = readings
	return nil
}

func collectProcesses(ctx context.Context, snap *telemetry.Snapshot) error {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return err
	}

	entries := make([]telemetry.Process, 0, len(procs))
	for _, p := range procs {
		entry := telemetry.Process{PID: p.Pid}

		// Processes may exit or deny access mid-scan.
		if name, err := p.NameWithContext(ctx); err == nil {
			entry.Name = name
		}
		if io, err := p.IOCountersWithContext(ctx); err == nil {
			entry.ReadBytes = io.ReadBytes
			entry.WrittenBytes = io.WriteBytes
		}

		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PID < entries[j].PID })

	snap.Processes = entries
	return nil
}
