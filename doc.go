// Package timewarp implements asynchronous frame hand-off and reprojection
// scheduling for stereoscopic displays.
//
// # Overview
//
// Two independent workers cooperate through a single-slot mailbox: a scene
// worker renders stereo frames at whatever rate it can sustain and publishes
// them, while a display worker runs once per refresh, decides whether the
// latest published frame is safe to show, and re-samples the chosen frame
// with an updated head orientation ("time warp"). The display worker never
// waits for the scene worker, so a late or incomplete scene frame degrades
// to re-displaying the previous frame rather than missing the refresh.
//
// # Quick Start
//
//	sched, err := timewarp.New(timewarp.DefaultConfig(), warper, poseSource)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Scene worker, free-running:
//	go func() {
//	    for {
//	        idx := sched.NextFrameIndex()
//	        target := sched.PredictDisplayTime(idx)
//	        frame := renderStereoPair(poseSource.PoseAt(target), target, idx)
//	        if err := sched.Publish(frame); err != nil {
//	            return // shut down
//	        }
//	    }
//	}()
//
//	// Display worker, once per refresh:
//	for running {
//	    sched.RenderCycle(nextSwapTime(), framePeriod())
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Scheduler, Frame, Matrix4, time-warp transform math
//   - render/: collaborator interfaces for the GPU backend (textures,
//     completion handles, warp submission)
//   - tracking/: head-pose sources
//   - backend/: pluggable warp backend registry (null backend built in)
//   - backend/wgpu/: a wgpu/hal implementation of the render interfaces
//
// # Concurrency
//
// Exactly one producer goroutine may call Publish, NextFrameIndex, and
// PredictDisplayTime; exactly one consumer goroutine may call RenderCycle.
// Shutdown and Stats are safe from any goroutine.
package timewarp
