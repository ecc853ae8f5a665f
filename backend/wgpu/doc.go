// Package wgpu implements the timewarp render interfaces on top of
// github.com/gogpu/wgpu's HAL. Standalone opens (OpenGPU) go through the
// Vulkan backend; hosts on other HAL backends share their own device via
// NewGPUFromDevice or NewGPUFromHandle.
//
// The package provides:
//   - Warper: the per-refresh reprojection pass, submitted without ever
//     blocking the calling goroutine on GPU work
//   - PatternStereoRenderer: a scene-worker stand-in that uploads synthetic
//     eye images and fences them, for demos and integration tests
//   - fence-backed completion handles, polled with a zero timeout
//
// GPU submission from two goroutines (the scene worker renders, the display
// worker warps) is safe because both sides share one hal.Queue and queue
// submission is internally synchronized; nothing here waits on the other
// side's fences.
package wgpu
