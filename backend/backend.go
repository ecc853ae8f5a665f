package backend

import (
	"errors"

	"github.com/gogpu/timewarp"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Config carries backend initialization parameters.
type Config struct {
	// EyeWidth and EyeHeight are the per-eye texture resolution.
	EyeWidth  int
	EyeHeight int
}

// WarpBackend owns the execution resources behind a warper.
// It abstracts the reprojection implementation, allowing the scheduler to
// run against a GPU (wgpu) or against nothing at all (null) without the
// host changing shape.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type WarpBackend interface {
	// Name returns the backend identifier (e.g., "null", "wgpu").
	Name() string

	// Init initializes the backend.
	// This must be called before Warper or StereoRenderer.
	Init(cfg Config) error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Warper returns the warper that executes reprojection submissions.
	Warper() timewarp.Warper

	// StereoRenderer returns a renderer producing eye textures on this
	// backend's device, for hosts without a scene renderer of their own.
	StereoRenderer() timewarp.StereoRenderer
}
