package main

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// gpu is an opened hal device together with the instance that owns it.
type gpu struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
}

func (g *gpu) Close() {
	g.device.Destroy()
	g.instance.Destroy()
}

func lookupBackend(name string) (hal.Backend, error) {
	switch name {
	case "noop":
		return &noop.API{}, nil
	case "vulkan":
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("vulkan backend not available")
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func enumerateAdapters(name string) (hal.Instance, []hal.ExposedAdapter, error) {
	backend, err := lookupBackend(name)
	if err != nil {
		return nil, nil, err
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, fmt.Errorf("no adapters found on %s backend", name)
	}
	return instance, adapters, nil
}

// openGPU opens a device on the first discrete or integrated adapter of the
// named backend, falling back to the first adapter.
func openGPU(name string) (*gpu, error) {
	instance, adapters, err := enumerateAdapters(name)
	if err != nil {
		return nil, err
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	return &gpu{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}
