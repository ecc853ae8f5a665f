package timewarp

import (
	"sync/atomic"
	"time"

	"github.com/gogpu/timewarp/render"
)

// WarpSubmission describes one reprojection draw. The two transforms bracket
// the refresh: the backend interpolates between TransformStart and
// TransformEnd across the scanout so rows displayed later in the refresh use
// a fresher orientation.
type WarpSubmission struct {
	// TransformStart is the warp transform for the refresh-start pose.
	TransformStart Matrix4

	// TransformEnd is the warp transform for the refresh-end pose.
	TransformEnd Matrix4

	// Textures are the left and right eye textures of the displayed frame.
	Textures [2]render.Texture

	// ArrayLayers is the number of array layers per eye texture.
	ArrayLayers int

	// Target is the destination of the warp pass. A nil Target lets the
	// backend draw to its own default target (the current swap image).
	Target render.RenderTarget
}

// Warper submits reprojection draws and polls GPU completion. It is called
// from the display worker, so both methods must be non-blocking:
// SubmitReprojection may encode and queue GPU work but must not wait for it,
// and PollCompletion must return immediately.
type Warper interface {
	// SubmitReprojection encodes and submits one warp pass.
	SubmitReprojection(sub WarpSubmission) error

	// PollCompletion reports whether the GPU work behind c has finished.
	// A nil handle is considered complete.
	PollCompletion(c render.Completion) bool
}

// StereoRenderer renders a stereo pair for a pose and hands back borrowed
// texture references plus per-eye completion handles. It is called from the
// scene worker.
type StereoRenderer interface {
	RenderStereoPair(pose, projection Matrix4) (textures [2]render.Texture, completions [2]render.Completion, err error)
}

// PoseSource predicts the head pose at a display time. Implementations live
// in the tracking package; hosts with real head tracking provide their own.
//
// Thread safety: PoseAt is called from both workers and must be safe for
// concurrent use.
type PoseSource interface {
	PoseAt(t time.Time) Matrix4
}

// NullWarper is a Warper that accepts every submission and reports every
// completion handle as finished. Used in tests and headless runs.
type NullWarper struct {
	submissions atomic.Uint64
}

// SubmitReprojection counts the submission and discards it.
func (w *NullWarper) SubmitReprojection(WarpSubmission) error {
	w.submissions.Add(1)
	return nil
}

// PollCompletion always reports completion.
func (w *NullWarper) PollCompletion(render.Completion) bool { return true }

// Submissions returns how many warp passes have been submitted.
func (w *NullWarper) Submissions() uint64 { return w.submissions.Load() }

var _ Warper = (*NullWarper)(nil)
