package backend

import (
	"sync"
)

// BackendFactory creates a new backend instance.
type BackendFactory func() WarpBackend

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	// Priority order for backend selection (first available wins).
	// WGPU over Null: a registered GPU backend is always preferable.
	backendPriority = []string{BackendWGPU, BackendNull}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) WarpBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available backend based on priority.
// Priority order: wgpu > null
// Returns nil if no backends are registered.
func Default() WarpBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}

	// Fallback: return first available
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}

	return nil
}

// MustDefault returns the default backend or panics.
func MustDefault() WarpBackend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// InitDefault initializes the default backend based on availability.
// Backends that fail Init (no GPU, no driver) are skipped in priority
// order, so a host on a headless machine falls through to the null
// backend.
func InitDefault(cfg Config) (WarpBackend, error) {
	registryMu.RLock()
	order := make([]string, 0, len(backends))
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			order = append(order, name)
		}
	}
	for name := range backends {
		known := false
		for _, p := range backendPriority {
			if name == p {
				known = true
				break
			}
		}
		if !known {
			order = append(order, name)
		}
	}
	registryMu.RUnlock()

	var lastErr error = ErrBackendNotAvailable
	for _, name := range order {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(cfg); err != nil {
			lastErr = err
			continue
		}
		return b, nil
	}
	return nil, lastErr
}
