package telemetry

// Kind tags one hardware category. Collectors and renderers are keyed by
// Kind, so supporting a new category means adding a constant here plus one
// handler in each table.
type Kind int

const (
	KindCPU Kind = iota
	KindGPU
	KindMemory
	KindDisk
	KindNetwork
	KindSystem
	KindSensors
	KindProcesses
	kindCount
)

var kindNames = [kindCount]string{
	KindCPU:       "CPU",
	KindGPU:       "GPU",
	KindMemory:    "RAM",
	KindDisk:      "DISK",
	KindNetwork:   "NETWORK",
	KindSystem:    "SYSTEM",
	KindSensors:   "SENSORS",
	KindProcesses: "PROCESSES",
}

func (k Kind) String() string {
	if !k.Valid() {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared categories.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns every category in display order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
