package backend

import (
	"github.com/gogpu/timewarp"
	"github.com/gogpu/timewarp/render"
)

// Backend name constants.
const (
	// BackendNull is the name of the no-op backend.
	BackendNull = "null"
	// BackendWGPU is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// NullBackend runs the scheduler without any GPU. Submissions are counted
// and discarded; eye textures are empty handles. Used in tests, benchmarks,
// and scheduling-only hosts.
type NullBackend struct {
	initialized bool
	warper      *timewarp.NullWarper
}

// NewNullBackend creates a new null backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

// Name returns "null".
func (b *NullBackend) Name() string { return BackendNull }

// Init initializes the backend. It cannot fail.
func (b *NullBackend) Init(Config) error {
	b.warper = &timewarp.NullWarper{}
	b.initialized = true
	return nil
}

// Close releases backend resources.
func (b *NullBackend) Close() {
	b.initialized = false
	b.warper = nil
}

// Warper returns the counting no-op warper.
func (b *NullBackend) Warper() timewarp.Warper { return b.warper }

// StereoRenderer returns a renderer producing empty frames. The empty
// completion handles poll as complete, so admission behaves as if the GPU
// were infinitely fast.
func (b *NullBackend) StereoRenderer() timewarp.StereoRenderer {
	return nullStereoRenderer{}
}

type nullStereoRenderer struct{}

func (nullStereoRenderer) RenderStereoPair(pose, projection timewarp.Matrix4) ([2]render.Texture, [2]render.Completion, error) {
	return [2]render.Texture{}, [2]render.Completion{}, nil
}

var _ WarpBackend = (*NullBackend)(nil)

func init() {
	Register(BackendNull, func() WarpBackend { return NewNullBackend() })
}
