package wgpu

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/timewarp/render"
)

// fenceCompletion is a render.Completion backed by a HAL fence value. The
// fence outlives the handle; the value identifies one submission on it.
type fenceCompletion struct {
	device hal.Device
	fence  hal.Fence
	value  uint64
}

// pollCompletion reports whether the submission behind c has completed.
// The zero timeout turns hal's fence wait into a non-blocking poll; the
// display worker must never sleep on the scene worker's GPU work.
func pollCompletion(c render.Completion) bool {
	if c == nil {
		return true
	}
	fc, ok := c.(fenceCompletion)
	if !ok {
		// Foreign handle: not ours to judge, treat as complete rather
		// than stall admission forever.
		return true
	}
	done, err := fc.device.Wait(fc.fence, fc.value, 0)
	if err != nil {
		return false
	}
	return done
}
