package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/timewarp"
	"github.com/gogpu/timewarp/render"
)

// GPU bundles the HAL device and queue shared by the warp pass and the
// stereo renderer. Hosts that already own a device wrap it with
// NewGPUFromDevice; standalone runs open their own with OpenGPU.
type GPU struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// owned reports whether Close should tear the device down. False for
	// devices borrowed from a host.
	owned bool
}

// OpenGPU creates a standalone device on the Vulkan backend, preferring a
// discrete or integrated adapter.
func OpenGPU() (*GPU, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}

	timewarp.Logger().Info("wgpu: GPU initialized", "adapter", selected.Info.Name)
	return &GPU{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owned:    true,
	}, nil
}

// NewGPUFromDevice wraps a host-owned device and queue. Close becomes a
// no-op; the host keeps ownership.
func NewGPUFromDevice(device hal.Device, queue hal.Queue) (*GPU, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	return &GPU{device: device, queue: queue}, nil
}

// NewGPUFromHandle wraps the device and queue behind a host-provided
// render.DeviceHandle. The handle must be backed by gogpu/wgpu's HAL;
// providers from other gpucontext implementations cannot drive this
// backend. The host keeps ownership, as with NewGPUFromDevice.
func NewGPUFromHandle(handle render.DeviceHandle) (*GPU, error) {
	if handle == nil {
		return nil, fmt.Errorf("wgpu: nil device handle")
	}
	device, ok := handle.Device().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("wgpu: device handle is not wgpu hal backed (%T)", handle.Device())
	}
	queue, ok := handle.Queue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("wgpu: queue handle is not wgpu hal backed (%T)", handle.Queue())
	}
	return NewGPUFromDevice(device, queue)
}

// Device returns the HAL device.
func (g *GPU) Device() hal.Device { return g.device }

// Queue returns the HAL queue.
func (g *GPU) Queue() hal.Queue { return g.queue }

// Close releases the device and instance if this GPU owns them. Borrowed
// devices stay with the host that provided them.
func (g *GPU) Close() {
	if g.owned {
		if g.device != nil {
			g.device.Destroy()
		}
		if g.instance != nil {
			g.instance.Destroy()
		}
	}
	g.device = nil
	g.queue = nil
	g.instance = nil
	g.owned = false
}
