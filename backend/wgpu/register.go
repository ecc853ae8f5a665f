package wgpu

import (
	"fmt"

	"github.com/gogpu/timewarp"
	"github.com/gogpu/timewarp/backend"
)

// Backend adapts the wgpu warper to the backend registry. Init opens the
// adapter, builds the reprojection pipeline, and points it at an offscreen
// target sized for a side-by-side stereo pair; hosts compositing to a real
// swapchain retarget the warper themselves.
type Backend struct {
	gpu    *GPU
	warper *Warper
	target *OffscreenTarget
	stereo *PatternStereoRenderer
}

// NewBackend creates an uninitialized wgpu backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns "wgpu".
func (b *Backend) Name() string { return backend.BackendWGPU }

// Init opens the GPU and builds the warp pipeline. Fails cleanly on hosts
// without a usable adapter, so registry selection can fall through to the
// null backend.
func (b *Backend) Init(cfg backend.Config) error {
	if cfg.EyeWidth <= 0 || cfg.EyeHeight <= 0 {
		return fmt.Errorf("wgpu: invalid eye resolution %dx%d", cfg.EyeWidth, cfg.EyeHeight)
	}

	gpu, err := OpenGPU()
	if err != nil {
		return fmt.Errorf("wgpu: open gpu: %w", err)
	}

	warper, err := NewWarper(gpu, DefaultWarpConfig())
	if err != nil {
		gpu.Close()
		return fmt.Errorf("wgpu: create warper: %w", err)
	}

	target, err := NewOffscreenTarget(gpu, 2*cfg.EyeWidth, cfg.EyeHeight)
	if err != nil {
		warper.Destroy()
		gpu.Close()
		return fmt.Errorf("wgpu: create target: %w", err)
	}
	warper.SetTarget(target)

	stereo, err := NewPatternStereoRenderer(gpu, uint32(cfg.EyeWidth), uint32(cfg.EyeHeight))
	if err != nil {
		target.Destroy(gpu)
		warper.Destroy()
		gpu.Close()
		return fmt.Errorf("wgpu: create stereo renderer: %w", err)
	}

	b.gpu = gpu
	b.warper = warper
	b.target = target
	b.stereo = stereo
	return nil
}

// Close releases the pipeline, target, renderer, and device.
func (b *Backend) Close() {
	if b.stereo != nil {
		b.stereo.Destroy()
		b.stereo = nil
	}
	if b.target != nil {
		b.target.Destroy(b.gpu)
		b.target = nil
	}
	if b.warper != nil {
		b.warper.Destroy()
		b.warper = nil
	}
	if b.gpu != nil {
		b.gpu.Close()
		b.gpu = nil
	}
}

// Warper returns the wgpu reprojection warper.
func (b *Backend) Warper() timewarp.Warper { return b.warper }

// StereoRenderer returns the pattern stereo renderer on this device.
func (b *Backend) StereoRenderer() timewarp.StereoRenderer { return b.stereo }

// GPU exposes the underlying device for hosts that want to share it.
func (b *Backend) GPU() *GPU { return b.gpu }

// Target returns the offscreen target the warper draws to.
func (b *Backend) Target() *OffscreenTarget { return b.target }

var _ backend.WarpBackend = (*Backend)(nil)

func init() {
	backend.Register(backend.BackendWGPU, func() backend.WarpBackend { return NewBackend() })
}
