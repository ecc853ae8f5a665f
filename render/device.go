// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: the timewarp backend RECEIVES the device from the host, it
// does NOT create one. The display compositor, the scene renderer, and the
// warp pass all share one device and queue, so eye textures rendered by the
// scene worker can be sampled by the warp pass without cross-device copies.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// timewarp-specific name while maintaining full compatibility with the
// gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// EyeTextureDescriptor describes parameters for creating a per-eye texture.
type EyeTextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// ArrayLayers is the number of array layers. Use 1 for plain stereo
	// pairs, 2 for layered multiview rendering.
	ArrayLayers uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat
}

// DefaultEyeTextureDescriptor returns an EyeTextureDescriptor with sensible
// defaults for a stereo eye buffer. Only Width and Height need to be set.
func DefaultEyeTextureDescriptor(width, height uint32) EyeTextureDescriptor {
	return EyeTextureDescriptor{
		Width:       width,
		Height:      height,
		ArrayLayers: 1,
		Format:      gputypes.TextureFormatRGBA8Unorm,
	}
}

// Texture is a non-owning handle to a GPU eye texture.
//
// The scheduler treats textures as opaque. Ownership stays with whoever
// created the texture; the back-pressure protocol bounds how long the
// scheduler borrows it (until a newer frame is published).
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat
}

// TextureView represents a bindable view into a texture.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// Completion is an opaque, pollable token indicating that the GPU work which
// produced a texture has finished. Handles are created by the backend that
// submitted the work and are only meaningful to it.
//
// Completions are polled, never waited on, from the display worker.
type Completion interface{}

// RenderTarget is the destination of a warp pass: typically the current
// swapchain image, but offscreen textures work too.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// TextureView returns the GPU texture view for this target.
	TextureView() TextureView
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used in tests and hosts that drive the scheduler without a GPU.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns unknown adapter metadata for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
