package telemetry

import (
	"context"
	"time"
)

// Sampler produces a best-effort Snapshot of the machine. A category that
// cannot be read is left empty and recorded in Snapshot.Availability; only a
// failure of the whole call (every category, or ctx done) returns an error,
// coded ErrAdapterUnreachable.
type Sampler interface {
	Sample(ctx context.Context) (*Snapshot, error)
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(ctx context.Context) (*Snapshot, error)

func (f SamplerFunc) Sample(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// Snapshot is one complete capture of the tracked hardware facts. Once
// published to a Store it must not be modified.
type Snapshot struct {
	CapturedAt   time.Time
	CPUs         []CPU
	GPUs         []GPU
	Memory       Memory
	Disks        []Disk
	Networks     []Network
	System       System
	Sensors      []Sensor
	Processes    []Process
	Availability Availability
}

type CPU struct {
	Name  string
	Brand string
	Model string
	Usage float64 // percent
}

type GPU struct {
	Index       int
	Brand       string
	Name        string
	UUID        string
	Utilization float64 // percent
	Temperature int     // celsius
	MemoryTotal uint64
	MemoryUsed  uint64
}

// Memory counters are bytes.
type Memory struct {
	Total     uint64
	Used      uint64
	SwapTotal uint64
	SwapUsed  uint64
}

type Disk struct {
	Device     string
	Mountpoint string
	FSType     string
	Total      uint64
	Used       uint64
	Free       uint64
}

// Network counters are cumulative bytes since boot.
type Network struct {
	Name        string
	Received    uint64
	Transmitted uint64
}

type System struct {
	HostName      string
	OSName        string
	OSVersion     string
	KernelVersion string
}

type Sensor struct {
	Key         string
	Temperature float64
	High        float64
	Critical    float64
}

type Process struct {
	PID          int32
	Name         string
	ReadBytes    uint64
	WrittenBytes uint64
}

// Unknown is reported for system identity fields the host does not expose.
const Unknown = "unknown"

// OrUnknown returns s, or Unknown when s is blank.
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
