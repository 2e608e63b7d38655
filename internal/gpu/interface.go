package gpu

import "github.com/NVIDIA/go-nvml/pkg/nvml"

// device is the subset of nvml.Device the collector reads. nvml.Device
// satisfies it; tests substitute fakes.
type device interface {
	GetName() (string, nvml.Return)
	GetBrand() (nvml.BrandType, nvml.Return)
	GetUUID() (string, nvml.Return)
	GetUtilizationRates() (nvml.Utilization, nvml.Return)
	GetTemperature(sensor nvml.TemperatureSensors) (uint32, nvml.Return)
	GetMemoryInfo() (nvml.Memory, nvml.Return)
}

// nvmlController abstracts NVML operations for testing
type nvmlController interface {
	Initialize() error
	Shutdown() error
	GetDeviceCount() (int, error)
	GetDevice(index int) (device, error)
}
