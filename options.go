package timewarp

import "time"

// Config carries the tuning parameters of the scheduler. The zero value is
// not useful; start from DefaultConfig.
type Config struct {
	// NominalFramePeriod is the display's refresh period, used for
	// prediction until the first measured period arrives.
	NominalFramePeriod time.Duration

	// LeadFrames is how many refreshes ahead of the last observed vsync
	// the scene worker targets when choosing a frame index. Two refreshes
	// absorb production, hand-off, and warp latency on most displays.
	// Tuned per display-latency characteristics, not derived.
	LeadFrames int64

	// AdmitTolerance is the fraction of the frame period by which a
	// candidate's target display time may lie beyond the next swap and
	// still be admitted. Frames scheduled further in the future than
	// nextSwap + AdmitTolerance*period are rejected as early.
	AdmitTolerance float64

	// ArrayLayers is the number of texture array layers per eye passed
	// through to warp submission.
	ArrayLayers int
}

// DefaultConfig returns the configuration tuned for a 60 Hz display.
func DefaultConfig() Config {
	return Config{
		NominalFramePeriod: 16667 * time.Microsecond,
		LeadFrames:         2,
		AdmitTolerance:     0.5,
		ArrayLayers:        1,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.NominalFramePeriod <= 0 {
		c.NominalFramePeriod = def.NominalFramePeriod
	}
	if c.LeadFrames <= 0 {
		c.LeadFrames = def.LeadFrames
	}
	if c.AdmitTolerance <= 0 {
		c.AdmitTolerance = def.AdmitTolerance
	}
	if c.ArrayLayers <= 0 {
		c.ArrayLayers = def.ArrayLayers
	}
	return c
}
