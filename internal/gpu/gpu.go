// Package gpu reads NVIDIA GPU state through NVML.
package gpu

import (
	"context"
	"sync"

	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/logger"
	"codeberg.org/mutker/hwdash/internal/telemetry"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// Collector lists NVIDIA GPUs. NVML is initialised on first use; if that
// fails (no driver, no device) every later call reports the same error.
type Collector struct {
	nvml nvmlController
	log  logger.Logger

	once    sync.Once
	initErr error
	mu      sync.Mutex
}

func New(log logger.Logger) *Collector {
	return newCollector(&nvmlWrapper{}, log)
}

func newCollector(ctrl nvmlController, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{nvml: ctrl, log: log.With("gpu")}
}

func (c *Collector) init() error {
	c.once.Do(func() {
		c.initErr = c.nvml.Initialize()
		if c.initErr != nil {
			c.log.Debug().Err(c.initErr).Msg("NVML unavailable, GPU metrics disabled")
		}
	})
	return c.initErr
}

// Devices returns one entry per GPU. A device whose individual queries fail
// keeps whatever fields did succeed.
func (c *Collector) Devices(ctx context.Context) ([]telemetry.GPU, error) {
	if err := c.init(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	count, err := c.nvml.GetDeviceCount()
	if err != nil {
		return nil, err
	}

	gpus := make([]telemetry.GPU, 0, count)
	for i := range count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dev, err := c.nvml.GetDevice(i)
		if err != nil {
			c.log.Debug().Err(err).Int("index", i).Msg("Skipping GPU")
			continue
		}
		gpus = append(gpus, c.read(i, dev))
	}

	return gpus, nil
}

func (c *Collector) read(index int, dev device) telemetry.GPU {
	g := telemetry.GPU{Index: index, Brand: brandName(nvml.BRAND_UNKNOWN)}

	if name, ret := dev.GetName(); IsNVMLSuccess(ret) {
		g.Name = name
	} else {
		c.warn(index, ErrDeviceInfoFailed, ret)
	}

	if brand, ret := dev.GetBrand(); IsNVMLSuccess(ret) {
		g.Brand = brandName(brand)
	}

	if uuid, ret := dev.GetUUID(); IsNVMLSuccess(ret) {
		g.UUID = uuid
	} else {
		c.warn(index, ErrDeviceUUIDFailed, ret)
	}

	if util, ret := dev.GetUtilizationRates(); IsNVMLSuccess(ret) {
		g.Utilization = float64(util.Gpu)
	} else {
		c.warn(index, ErrUtilizationReadFailed, ret)
	}

	if temp, ret := dev.GetTemperature(nvml.TEMPERATURE_GPU); IsNVMLSuccess(ret) {
		g.Temperature = int(temp)
	} else {
		c.warn(index, ErrTemperatureReadFailed, ret)
	}

	if mem, ret := dev.GetMemoryInfo(); IsNVMLSuccess(ret) {
		g.MemoryTotal = mem.Total
		g.MemoryUsed = mem.Used
	} else {
		c.warn(index, ErrMemoryReadFailed, ret)
	}

	return g
}

func (c *Collector) warn(index int, code errors.ErrorCode, ret nvml.Return) {
	c.log.Debug().
		Int("index", index).
		Str("error_code", string(code)).
		Str("nvml", nvml.ErrorString(ret)).
		Msg("GPU query failed")
}

// Shutdown releases NVML if it was initialised.
func (c *Collector) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nvml.Shutdown()
}

func brandName(b nvml.BrandType) string {
	switch b {
	case nvml.BRAND_GEFORCE:
		return "GeForce"
	case nvml.BRAND_QUADRO:
		return "Quadro"
	case nvml.BRAND_TESLA:
		return "Tesla"
	case nvml.BRAND_NVS:
		return "NVS"
	case nvml.BRAND_GRID:
		return "GRID"
	case nvml.BRAND_TITAN:
		return "Titan"
	default:
		return "NVIDIA"
	}
}
