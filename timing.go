package timewarp

import (
	"sync"
	"time"
)

// DisplayTimePredictor extrapolates the display time of a future frame from
// the most recently observed vsync. The display worker overwrites the
// reference record once per refresh; the scene worker reads it before
// rendering so it can pose the scene for the instant the frame will actually
// reach the screen, rather than the instant it is submitted.
//
// Thread safety: DisplayTimePredictor is safe for concurrent use. There is a
// single writer (the display worker) and the record is small, so a plain
// RWMutex keeps readers out of the writer's way.
type DisplayTimePredictor struct {
	mu sync.RWMutex

	// referenceFrameIndex is the frame index of the reference vsync.
	referenceFrameIndex int64

	// referenceVsyncTime is the display time of referenceFrameIndex.
	referenceVsyncTime time.Time

	// framePeriod is the measured refresh period, or the configured
	// nominal period before the first refresh has been observed.
	framePeriod time.Duration
}

// NewDisplayTimePredictor creates a predictor seeded with the nominal
// refresh period. Until Update is called, predictions extrapolate from
// frame index zero at the given start time.
func NewDisplayTimePredictor(start time.Time, nominalPeriod time.Duration) *DisplayTimePredictor {
	return &DisplayTimePredictor{
		referenceVsyncTime: start,
		framePeriod:        nominalPeriod,
	}
}

// Update overwrites the reference record. Called once per refresh by the
// display worker with the upcoming swap's frame index and time and the
// measured refresh period. A non-positive period is ignored and the
// previous (or nominal) period is kept.
func (p *DisplayTimePredictor) Update(frameIndex int64, vsyncTime time.Time, framePeriod time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.referenceFrameIndex = frameIndex
	p.referenceVsyncTime = vsyncTime
	if framePeriod > 0 {
		p.framePeriod = framePeriod
	}
}

// Predict returns the extrapolated display time of frameIndex:
//
//	referenceVsyncTime + (frameIndex - referenceFrameIndex) * framePeriod
//
// The result is monotonically non-decreasing in frameIndex for a fixed
// reference record.
func (p *DisplayTimePredictor) Predict(frameIndex int64) time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.referenceVsyncTime.Add(time.Duration(frameIndex-p.referenceFrameIndex) * p.framePeriod)
}

// ReferenceFrameIndex returns the frame index of the last observed vsync.
func (p *DisplayTimePredictor) ReferenceFrameIndex() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.referenceFrameIndex
}

// FramePeriod returns the current measured (or nominal) refresh period.
func (p *DisplayTimePredictor) FramePeriod() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.framePeriod
}
