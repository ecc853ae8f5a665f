// Package tracking provides head-pose sources for the timewarp scheduler.
//
// A PoseSource answers "where will the head be looking at time t". Real
// hosts back this with an IMU-driven tracking filter; the implementations
// here are deterministic stand-ins for tests, demos, and perf runs.
package tracking

import (
	"math"
	"sync"
	"time"

	"github.com/gogpu/timewarp"
)

// StaticSource reports a fixed pose for every time. Useful to pin the
// rotation delta at identity in tests.
type StaticSource struct {
	Pose timewarp.Matrix4
}

// NewStaticSource returns a source fixed at the identity pose.
func NewStaticSource() *StaticSource {
	return &StaticSource{Pose: timewarp.Identity4()}
}

// PoseAt returns the configured pose regardless of t.
func (s *StaticSource) PoseAt(time.Time) timewarp.Matrix4 { return s.Pose }

// SyntheticSource generates smooth synthetic head motion: sinusoidal yaw
// and pitch around a reference epoch. Being a pure function of t, two calls
// with the same time yield the same pose, which keeps tests deterministic.
//
// Thread safety: safe for concurrent use after creation; fields must not be
// mutated while in use.
type SyntheticSource struct {
	// Epoch anchors the motion; phase is measured from here.
	Epoch time.Time

	// YawAmplitude and PitchAmplitude are peak angles in radians.
	YawAmplitude   float64
	PitchAmplitude float64

	// Frequency is full oscillations per second.
	Frequency float64
}

// NewSyntheticSource returns a source with a gentle 0.5 Hz scan, roughly
// 20 degrees of yaw and 10 degrees of pitch.
func NewSyntheticSource(epoch time.Time) *SyntheticSource {
	return &SyntheticSource{
		Epoch:          epoch,
		YawAmplitude:   20 * math.Pi / 180,
		PitchAmplitude: 10 * math.Pi / 180,
		Frequency:      0.5,
	}
}

// PoseAt returns the synthetic pose at t.
func (s *SyntheticSource) PoseAt(t time.Time) timewarp.Matrix4 {
	phase := 2 * math.Pi * s.Frequency * t.Sub(s.Epoch).Seconds()
	yaw := float32(s.YawAmplitude * math.Sin(phase))
	pitch := float32(s.PitchAmplitude * math.Sin(phase*0.7))
	return timewarp.RotationY(yaw).Multiply(timewarp.RotationX(pitch))
}

// RecordedSource replays a sequence of timestamped poses, holding each pose
// until the next sample's time. Times before the first sample return the
// first pose; times after the last return the last.
//
// Thread safety: safe for concurrent use.
type RecordedSource struct {
	mu      sync.RWMutex
	samples []PoseSample
}

// PoseSample is one timestamped pose in a recording.
type PoseSample struct {
	Time time.Time
	Pose timewarp.Matrix4
}

// NewRecordedSource creates a source from samples, which must be in
// ascending time order.
func NewRecordedSource(samples []PoseSample) *RecordedSource {
	return &RecordedSource{samples: samples}
}

// Append adds a sample at the end of the recording.
func (r *RecordedSource) Append(s PoseSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

// PoseAt returns the recorded pose in effect at t.
func (r *RecordedSource) PoseAt(t time.Time) timewarp.Matrix4 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.samples) == 0 {
		return timewarp.Identity4()
	}
	// Last sample at or before t; linear scan is fine for short traces,
	// but recordings can be long, so bisect.
	lo, hi := 0, len(r.samples)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.samples[mid].Time.After(t) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == 0 {
		return r.samples[0].Pose
	}
	return r.samples[lo-1].Pose
}

var (
	_ timewarp.PoseSource = (*StaticSource)(nil)
	_ timewarp.PoseSource = (*SyntheticSource)(nil)
	_ timewarp.PoseSource = (*RecordedSource)(nil)
)
