// Command warpdemo runs the timewarp scheduler end to end: a free-running
// scene worker publishing synthetic stereo frames and a fixed-rate display
// worker warping them, on whichever warp backend is selected.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gogpu/timewarp"
	"github.com/gogpu/timewarp/backend"
	"github.com/gogpu/timewarp/tracking"

	_ "github.com/gogpu/timewarp/backend/wgpu"
)

func main() {
	var (
		duration    = flag.Duration("duration", 2*time.Second, "how long to run")
		fps         = flag.Float64("fps", 60, "display refresh rate")
		sceneFPS    = flag.Float64("scene-fps", 45, "scene worker frame rate (0 = uncapped)")
		width       = flag.Int("width", 1024, "per-eye texture width")
		height      = flag.Int("height", 1024, "per-eye texture height")
		backendName = flag.String("backend", "auto", "warp backend: auto, wgpu, or null")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	timewarp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	framePeriod := time.Duration(float64(time.Second) / *fps)
	poses := tracking.NewSyntheticSource(time.Now())

	b, err := openBackend(*backendName, backend.Config{EyeWidth: *width, EyeHeight: *height})
	if err != nil {
		log.Fatalf("open backend: %v", err)
	}
	defer b.Close()
	log.Printf("backend: %s", b.Name())

	cfg := timewarp.DefaultConfig()
	cfg.NominalFramePeriod = framePeriod
	sched, err := timewarp.New(cfg, b.Warper(), poses)
	if err != nil {
		log.Fatalf("create scheduler: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runSceneWorker(sched, b.StereoRenderer(), poses, *sceneFPS)
	}()

	runDisplayWorker(sched, framePeriod, *duration)

	sched.Shutdown()
	wg.Wait()

	stats := sched.Stats()
	log.Printf("published=%d cycles=%d admitted=%d reused=%d rejectedEarly=%d rejectedIncomplete=%d",
		stats.FramesPublished, stats.RenderCycles, stats.FramesAdmitted,
		stats.FramesReused, stats.RejectedEarly, stats.RejectedIncomplete)
}

func openBackend(name string, cfg backend.Config) (backend.WarpBackend, error) {
	if name == "auto" {
		return backend.InitDefault(cfg)
	}
	b := backend.Get(name)
	if b == nil {
		return nil, backend.ErrBackendNotAvailable
	}
	if err := b.Init(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// runSceneWorker free-runs the producer cycle: predict, render, publish.
func runSceneWorker(sched *timewarp.Scheduler, stereo timewarp.StereoRenderer, poses timewarp.PoseSource, sceneFPS float64) {
	projection := timewarp.PerspectiveProjection(90*3.14159265/180, 1, 0.1, 100)

	var pacer *time.Ticker
	if sceneFPS > 0 {
		pacer = time.NewTicker(time.Duration(float64(time.Second) / sceneFPS))
		defer pacer.Stop()
	}

	for {
		idx := sched.NextFrameIndex()
		target := sched.PredictDisplayTime(idx)
		pose := poses.PoseAt(target)

		frame := timewarp.Frame{
			FrameIndex:        idx,
			TargetDisplayTime: target,
			RenderPose:        pose,
			Projection:        projection,
		}

		start := time.Now()
		textures, completions, err := stereo.RenderStereoPair(pose, projection)
		if err != nil {
			log.Printf("render stereo pair: %v", err)
			return
		}
		frame.Textures = textures
		frame.Completions = completions
		frame.CPUTime = time.Since(start)

		if err := sched.Publish(frame); err != nil {
			return // shut down
		}
		if pacer != nil {
			<-pacer.C
		}
	}
}

// runDisplayWorker calls RenderCycle once per refresh for the configured
// duration, emulating a vsync-paced compositor with a ticker.
func runDisplayWorker(sched *timewarp.Scheduler, framePeriod, duration time.Duration) {
	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()
	deadline := time.Now().Add(duration)

	for now := range ticker.C {
		if now.After(deadline) {
			return
		}
		if _, err := sched.RenderCycle(now.Add(framePeriod), framePeriod); err != nil {
			log.Printf("render cycle: %v", err)
			return
		}
	}
}
