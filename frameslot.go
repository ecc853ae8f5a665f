package timewarp

import (
	"sync"
	"time"

	"github.com/gogpu/timewarp/render"
)

// Frame is one published stereo frame: borrowed references to the two eye
// textures and their completion handles, plus the pose and projection the
// pair was rendered with.
//
// The cited textures must remain valid until a newer frame is published.
// The publish back-pressure guarantees the producer observes that point.
type Frame struct {
	// FrameIndex is the scene worker's logical frame counter. It may skip
	// integers when the scene worker misses refreshes.
	FrameIndex int64

	// TargetDisplayTime is the display time the frame was rendered for.
	TargetDisplayTime time.Time

	// RenderPose is the head pose the stereo pair was rendered with.
	RenderPose Matrix4

	// Projection is the projection used when the pair was rendered.
	// Immutable for the lifetime of the published frame.
	Projection Matrix4

	// Textures hold the left and right eye textures.
	Textures [2]render.Texture

	// Completions hold the per-eye GPU completion handles.
	Completions [2]render.Completion

	// CPUTime and GPUTime are per-frame render costs, for diagnostics.
	CPUTime time.Duration
	GPUTime time.Duration
}

// publishedFrame is a Frame plus the slot-assigned sequence number.
type publishedFrame struct {
	Frame

	// sequence increases by one per publish, independent of FrameIndex.
	sequence uint64
}

// frameSlot is the single-element mailbox between the scene worker and the
// display worker. One mutex guards the slot contents; two binary semaphores
// (capacity-1 channels) carry the hand-off protocol:
//
//   - consumed: initially signaled. The producer takes it before overwriting
//     the slot; the consumer raises it when it admits a frame. This is the
//     sole back-pressure mechanism, and it also bounds the borrow lifetime
//     of the textures referenced by the slot.
//   - pace: raised once per consumer cycle. The producer takes it after
//     publishing, throttling it to at most one frame of lead over the
//     consumer.
//
// Thread safety: single producer, single consumer.
type frameSlot struct {
	mu       sync.Mutex
	frame    publishedFrame
	occupied bool

	consumed chan struct{}
	pace     chan struct{}
}

func newFrameSlot() *frameSlot {
	s := &frameSlot{
		consumed: make(chan struct{}, 1),
		pace:     make(chan struct{}, 1),
	}
	s.consumed <- struct{}{}
	return s
}

// publish waits for the previous frame to be consumed, overwrites the slot,
// and then waits for the consumer's pace signal. Both waits abort with
// ErrShutdown when done is closed.
func (s *frameSlot) publish(f publishedFrame, done <-chan struct{}) error {
	select {
	case <-s.consumed:
	case <-done:
		return ErrShutdown
	}

	s.mu.Lock()
	s.frame = f
	s.occupied = true
	s.mu.Unlock()

	select {
	case <-s.pace:
	case <-done:
		return ErrShutdown
	}
	return nil
}

// tryAdmit copies out the current slot contents without blocking. If the
// producer holds the slot mutex (it holds it only for a field-wise copy, but
// the display worker must not gamble on that), tryAdmit reports no candidate
// and the caller re-displays the previous frame.
func (s *frameSlot) tryAdmit() (publishedFrame, bool) {
	if !s.mu.TryLock() {
		return publishedFrame{}, false
	}
	defer s.mu.Unlock()
	if !s.occupied {
		return publishedFrame{}, false
	}
	return s.frame, true
}

// raise signals a binary semaphore without blocking; an already-signaled
// semaphore stays signaled.
func raise(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// release force-raises both signals so a blocked publish can observe the
// shutdown flag and exit. Called once, from Shutdown.
func (s *frameSlot) release() {
	raise(s.consumed)
	raise(s.pace)
}
