package timewarp

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrShutdown is returned by Publish and RenderCycle after Shutdown.
var ErrShutdown = errors.New("timewarp: scheduler shut down")

// Scheduler coordinates the scene worker and the display worker. The two
// sides share nothing but the frame slot; each repeats its own cycle:
//
// Producer, once per scene frame: pick a frame index, predict its display
// time, render for a pose sampled near that time, Publish.
//
// Consumer, once per refresh: RenderCycle — try to admit the latest
// published frame, warp whichever frame is current with freshly predicted
// start- and end-of-refresh poses, release the producer.
//
// Thread safety: one producer goroutine, one consumer goroutine. Shutdown
// and Stats may be called from anywhere.
type Scheduler struct {
	cfg    Config
	warper Warper
	poses  PoseSource

	slot      *frameSlot
	predictor *DisplayTimePredictor

	done      chan struct{}
	closeOnce sync.Once

	// Producer-side state. Touched only by the publishing goroutine.
	publishSeq     uint64
	lastFrameIndex int64

	// Consumer-side state. Touched only by the display goroutine.
	current    publishedFrame
	hasCurrent bool
	vsyncCount int64

	// consumedIndex is the sequence of the last admitted frame. Written by
	// the consumer, read by tests and assertions.
	consumedIndex atomic.Uint64

	stats schedulerCounters
}

// schedulerCounters are the scheduler's diagnostic counters. All fields are
// monotonically increasing.
type schedulerCounters struct {
	published          atomic.Uint64
	cycles             atomic.Uint64
	admitted           atomic.Uint64
	reused             atomic.Uint64
	rejectedEarly      atomic.Uint64
	rejectedIncomplete atomic.Uint64
}

// Stats is a point-in-time snapshot of the scheduler's counters.
type Stats struct {
	// FramesPublished counts successful Publish calls.
	FramesPublished uint64

	// RenderCycles counts RenderCycle calls.
	RenderCycles uint64

	// FramesAdmitted counts cycles that adopted a new frame.
	FramesAdmitted uint64

	// FramesReused counts cycles that re-displayed the previous frame.
	FramesReused uint64

	// RejectedEarly counts candidates rejected because their target
	// display time lay too far in the future.
	RejectedEarly uint64

	// RejectedIncomplete counts candidates rejected because their GPU
	// work had not completed.
	RejectedIncomplete uint64
}

// New creates a scheduler. The warper submits the per-refresh reprojection
// draw; poses predicts head orientation at display times.
func New(cfg Config, warper Warper, poses PoseSource) (*Scheduler, error) {
	if warper == nil {
		return nil, fmt.Errorf("timewarp: nil warper")
	}
	if poses == nil {
		return nil, fmt.Errorf("timewarp: nil pose source")
	}
	cfg = cfg.withDefaults()
	s := &Scheduler{
		cfg:       cfg,
		warper:    warper,
		poses:     poses,
		slot:      newFrameSlot(),
		predictor: NewDisplayTimePredictor(time.Now(), cfg.NominalFramePeriod),
		done:      make(chan struct{}),
	}
	Logger().Info("timewarp: scheduler created",
		"nominalPeriod", cfg.NominalFramePeriod,
		"leadFrames", cfg.LeadFrames)
	return s, nil
}

// NextFrameIndex returns the frame index the scene worker should render
// next: at least LeadFrames refreshes ahead of the last observed vsync, and
// always past any index previously issued. Indices skip forward when the
// scene worker falls behind the display.
//
// Producer side only.
func (s *Scheduler) NextFrameIndex() int64 {
	idx := s.predictor.ReferenceFrameIndex() + s.cfg.LeadFrames
	if idx <= s.lastFrameIndex {
		idx = s.lastFrameIndex + 1
	}
	s.lastFrameIndex = idx
	return idx
}

// PredictDisplayTime extrapolates the display time of frameIndex from the
// most recent vsync observation. The scene worker calls this before
// rendering so the frame is posed for the time it will actually be shown.
func (s *Scheduler) PredictDisplayTime(frameIndex int64) time.Time {
	return s.predictor.Predict(frameIndex)
}

// Publish hands a finished stereo frame to the display worker. It blocks
// until the previously published frame has been consumed (back-pressure)
// and then until the next display cycle has run (pacing), so the scene
// worker can never run more than one frame ahead.
//
// Returns ErrShutdown if the scheduler is torn down while blocked.
// Producer side only.
func (s *Scheduler) Publish(f Frame) error {
	select {
	case <-s.done:
		return ErrShutdown
	default:
	}

	s.publishSeq++
	pf := publishedFrame{Frame: f, sequence: s.publishSeq}
	if err := s.slot.publish(pf, s.done); err != nil {
		return err
	}
	s.stats.published.Add(1)
	Logger().Debug("timewarp: published",
		"seq", pf.sequence,
		"frameIndex", f.FrameIndex,
		"target", f.TargetDisplayTime)
	return nil
}

// RenderCycle runs one display refresh: update timing, admit the latest
// published frame if it is safe to show, warp the current frame with poses
// predicted for the start and end of this refresh, and release the
// producer. It never blocks on the scene worker.
//
// nextSwapTime is when the image produced by this cycle reaches the screen;
// framePeriod is the measured refresh period (pass 0 to keep the previous
// measurement). Reports whether a new frame was admitted this cycle.
//
// Consumer side only.
func (s *Scheduler) RenderCycle(nextSwapTime time.Time, framePeriod time.Duration) (bool, error) {
	select {
	case <-s.done:
		return false, ErrShutdown
	default:
	}

	s.stats.cycles.Add(1)
	s.vsyncCount++
	s.predictor.Update(s.vsyncCount, nextSwapTime, framePeriod)
	period := s.predictor.FramePeriod()

	admitted := s.admit(nextSwapTime, period)

	var err error
	if s.hasCurrent {
		if !admitted {
			s.stats.reused.Add(1)
		}
		err = s.submitWarp(nextSwapTime, period)
	}

	// Release the producer for its next cycle even when nothing was
	// displayed; pacing must not depend on admission.
	raise(s.slot.pace)
	return admitted, err
}

// admit runs the admission policy against the slot's current candidate.
func (s *Scheduler) admit(nextSwapTime time.Time, period time.Duration) bool {
	cand, ok := s.slot.tryAdmit()
	if !ok {
		return false
	}

	consumed := s.consumedIndex.Load()
	switch {
	case cand.sequence < consumed:
		// The slot can only be overwritten with increasing sequences by
		// the single producer. Going backwards is a protocol bug, not a
		// runtime condition to mask.
		panic(fmt.Sprintf("timewarp: slot sequence went backwards (%d < %d)", cand.sequence, consumed))

	case cand.sequence == consumed:
		// Already displayed; the producer has not published since.
		return false
	}

	deadline := nextSwapTime.Add(time.Duration(float64(period) * s.cfg.AdmitTolerance))
	if !cand.TargetDisplayTime.Before(deadline) {
		// Scheduled materially in the future; showing it now would be
		// showing it early.
		s.stats.rejectedEarly.Add(1)
		Logger().Debug("timewarp: rejected early frame",
			"seq", cand.sequence, "target", cand.TargetDisplayTime, "deadline", deadline)
		return false
	}

	if !s.warper.PollCompletion(cand.Completions[0]) || !s.warper.PollCompletion(cand.Completions[1]) {
		s.stats.rejectedIncomplete.Add(1)
		Logger().Debug("timewarp: rejected incomplete frame", "seq", cand.sequence)
		return false
	}

	s.current = cand
	s.hasCurrent = true
	s.consumedIndex.Store(cand.sequence)
	raise(s.slot.consumed)
	s.stats.admitted.Add(1)
	return true
}

// submitWarp computes the bracketing warp transforms for this refresh and
// hands the draw to the warper.
func (s *Scheduler) submitWarp(nextSwapTime time.Time, period time.Duration) error {
	poseStart := s.poses.PoseAt(nextSwapTime)
	poseEnd := s.poses.PoseAt(nextSwapTime.Add(period))

	sub := WarpSubmission{
		TransformStart: TimeWarpTransform(s.current.Projection, s.current.RenderPose, poseStart),
		TransformEnd:   TimeWarpTransform(s.current.Projection, s.current.RenderPose, poseEnd),
		Textures:       s.current.Textures,
		ArrayLayers:    s.cfg.ArrayLayers,
	}
	if err := s.warper.SubmitReprojection(sub); err != nil {
		Logger().Warn("timewarp: warp submission failed", "err", err)
		return fmt.Errorf("submit reprojection: %w", err)
	}
	return nil
}

// ConsumedIndex returns the sequence number of the last admitted frame.
func (s *Scheduler) ConsumedIndex() uint64 {
	return s.consumedIndex.Load()
}

// Stats returns a snapshot of the scheduler's counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		FramesPublished:    s.stats.published.Load(),
		RenderCycles:       s.stats.cycles.Load(),
		FramesAdmitted:     s.stats.admitted.Load(),
		FramesReused:       s.stats.reused.Load(),
		RejectedEarly:      s.stats.rejectedEarly.Load(),
		RejectedIncomplete: s.stats.rejectedIncomplete.Load(),
	}
}

// Shutdown tears the scheduler down cooperatively: it closes the shutdown
// flag and force-raises both hand-off signals, so whichever worker is
// blocked in Publish observes the flag and exits instead of deadlocking.
// Safe to call multiple times, from any goroutine.
func (s *Scheduler) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.slot.release()
		Logger().Info("timewarp: scheduler shut down")
	})
}
