// Package backend provides a pluggable warp backend abstraction.
//
// A warp backend owns the resources behind a [timewarp.Warper]: the GPU
// device, the reprojection pipeline, and a stereo renderer for hosts that
// do not bring their own. Backends are registered via init() functions and
// selected at runtime.
//
// The null backend is automatically registered on import; the wgpu backend
// registers itself when its package is imported:
//
//	import (
//		"github.com/gogpu/timewarp/backend"
//
//		_ "github.com/gogpu/timewarp/backend/wgpu"
//	)
//
// Use Default() to get the best available backend, or Get() to request a
// specific backend by name:
//
//	b := backend.Default()
//	if err := b.Init(backend.Config{EyeWidth: 1024, EyeHeight: 1024}); err != nil {
//		// fall back to backend.Get(backend.BackendNull)
//	}
//	defer b.Close()
//
//	scheduler, err := timewarp.New(timewarp.DefaultConfig(), b.Warper(), poses)
package backend
