package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/timewarp/render"
)

// EyeTexture is a render.Texture backed by a HAL texture and view.
type EyeTexture struct {
	tex  hal.Texture
	view hal.TextureView
	desc render.EyeTextureDescriptor
}

// createEyeTexture allocates a sampled, uploadable eye texture.
func createEyeTexture(device hal.Device, desc render.EyeTextureDescriptor) (*EyeTexture, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: desc.ArrayLayers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create eye texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create eye texture view: %w", err)
	}
	return &EyeTexture{tex: tex, view: view, desc: desc}, nil
}

// Width returns the texture width in pixels.
func (t *EyeTexture) Width() uint32 { return t.desc.Width }

// Height returns the texture height in pixels.
func (t *EyeTexture) Height() uint32 { return t.desc.Height }

// Format returns the texture pixel format.
func (t *EyeTexture) Format() gputypes.TextureFormat { return t.desc.Format }

// View returns the HAL view for sampling.
func (t *EyeTexture) View() hal.TextureView { return t.view }

// destroy releases the texture and its view.
func (t *EyeTexture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

var _ render.Texture = (*EyeTexture)(nil)

// OffscreenTarget is a render.RenderTarget backed by an offscreen color
// texture, for warping without a swapchain (tests, headless runs).
type OffscreenTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	format gputypes.TextureFormat
}

// NewOffscreenTarget creates an offscreen warp destination.
func NewOffscreenTarget(gpu *GPU, width, height int) (*OffscreenTarget, error) {
	format := gputypes.TextureFormatBGRA8Unorm
	tex, err := gpu.device.CreateTexture(&hal.TextureDescriptor{
		Label: "warp_offscreen",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen target: %w", err)
	}
	view, err := gpu.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "warp_offscreen_view",
	})
	if err != nil {
		gpu.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create offscreen target view: %w", err)
	}
	return &OffscreenTarget{tex: tex, view: view, width: width, height: height, format: format}, nil
}

// Width returns the target width in pixels.
func (t *OffscreenTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *OffscreenTarget) Height() int { return t.height }

// Format returns the target pixel format.
func (t *OffscreenTarget) Format() gputypes.TextureFormat { return t.format }

// TextureView returns the render attachment view.
func (t *OffscreenTarget) TextureView() render.TextureView { return halView{t.view} }

// HALView returns the underlying HAL view.
func (t *OffscreenTarget) HALView() hal.TextureView { return t.view }

// Destroy releases the target's GPU resources.
func (t *OffscreenTarget) Destroy(gpu *GPU) {
	if t.view != nil {
		gpu.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		gpu.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

var _ render.RenderTarget = (*OffscreenTarget)(nil)

// halView adapts a hal.TextureView to render.TextureView.
type halView struct {
	view hal.TextureView
}

// Destroy is a no-op; the owning target manages the view's lifetime.
func (halView) Destroy() {}
