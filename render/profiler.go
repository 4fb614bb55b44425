package render

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"mathwizard/game"
)

// FrameSnapshot is the game state recorded alongside a capture
type FrameSnapshot struct {
	FPS       float64
	Wave      int
	Clock     time.Duration
	State     string
	Enemies   int
	Droplets  int
	Particles int
}

// snapshotOf reads the counters worth correlating with a slow frame
func snapshotOf(g *game.Game, fx *Effects, fps float64) FrameSnapshot {
	snap := FrameSnapshot{
		FPS:   fps,
		Wave:  g.Wave(),
		Clock: g.Now(),
		State: g.Reason().String(),
	}
	for _, e := range g.Enemies() {
		if e.Alive() {
			snap.Enemies++
		}
	}
	for _, d := range g.Droplets() {
		if d.Active {
			snap.Droplets++
		}
	}
	if fx != nil {
		snap.Particles = fx.Particles()
	}
	return snap
}

// captureName names the files of one capture after the wave it happened in
func captureName(at time.Time, snap FrameSnapshot) string {
	return fmt.Sprintf("fps-drop-%s-wave%d-fps%.0f", at.Format("20060102-150405"), snap.Wave, snap.FPS)
}

// Profiler captures a CPU profile and an execution trace when frames drop,
// then writes a text report tying the capture to the game state
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	profilesDir     string
	captureDuration time.Duration
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string) *Profiler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Profiles directory unavailable: %v", err)
	}

	return &Profiler{
		captureCooldown: 10 * time.Second,
		profilesDir:     dir,
		captureDuration: 5 * time.Second,
	}
}

// CaptureProfile starts a background capture. It refuses while on cooldown or
// while another capture is running.
func (p *Profiler) CaptureProfile(snap FrameSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastCaptureTime) < p.captureCooldown {
		return fmt.Errorf("capture on cooldown (last capture was %v ago)", time.Since(p.lastCaptureTime))
	}
	if p.isProfiling {
		return fmt.Errorf("already profiling")
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()
	baseName := captureName(p.lastCaptureTime, snap)

	go func() {
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := p.captureCPUProfile(baseName); err != nil {
				log.Printf("CPU profile failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := p.captureTrace(baseName); err != nil {
				log.Printf("Trace failed: %v", err)
			}
		}()
		wg.Wait()

		if err := p.saveReport(baseName, snap); err != nil {
			log.Printf("Profile report failed: %v", err)
		}
	}()

	return nil
}

func (p *Profiler) captureCPUProfile(baseName string) error {
	file, err := os.Create(filepath.Join(p.profilesDir, baseName+".cpu.prof"))
	if err != nil {
		return fmt.Errorf("create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("start CPU profile: %w", err)
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	file, err := os.Create(filepath.Join(p.profilesDir, baseName+".trace"))
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("start trace: %w", err)
	}
	time.Sleep(p.captureDuration)
	trace.Stop()
	return nil
}

// saveReport writes <base>.txt next to the capture and echoes it to the log
func (p *Profiler) saveReport(baseName string, snap FrameSnapshot) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var buf bytes.Buffer
	writeReport(&buf, filepath.Join(p.profilesDir, baseName+".cpu.prof"), snap, m)

	log.Printf("Captured %s\n%s", baseName, buf.String())
	return os.WriteFile(filepath.Join(p.profilesDir, baseName+".txt"), buf.Bytes(), 0644)
}

func writeReport(w io.Writer, profilePath string, snap FrameSnapshot, m runtime.MemStats) {
	fmt.Fprintf(w, "fps %.1f at %s (wave %d, %s)\n", snap.FPS, snap.Clock.Truncate(time.Millisecond), snap.Wave, snap.State)
	fmt.Fprintf(w, "enemies %d  droplets %d  particles %d\n", snap.Enemies, snap.Droplets, snap.Particles)
	fmt.Fprintf(w, "heap %d KB  sys %d KB  objects %d  gc %d\n", m.Alloc/1024, m.Sys/1024, m.HeapObjects, m.NumGC)
	fmt.Fprintf(w, "go tool pprof -http=:8080 %s\n", profilePath)
}

// IsProfiling returns whether a capture is currently in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

// FrameWatch decides when the frame rate has dropped long enough to be worth a capture
type FrameWatch struct {
	// Threshold is the FPS below which a frame counts as slow
	Threshold float64
	// Window is how long FPS must stay low before a capture
	Window time.Duration
	// Warmup ignores the first frames while the window opens
	Warmup time.Duration

	elapsed time.Duration
	lowFor  time.Duration
}

// NewFrameWatch returns a watch tuned for a 60 TPS game
func NewFrameWatch() *FrameWatch {
	return &FrameWatch{Threshold: 45, Window: 500 * time.Millisecond, Warmup: 3 * time.Second}
}

// Observe records one frame and reports whether a capture should start
func (w *FrameWatch) Observe(fps float64, dt time.Duration) bool {
	w.elapsed += dt
	if w.elapsed < w.Warmup {
		return false
	}
	if fps >= w.Threshold {
		w.lowFor = 0
		return false
	}
	w.lowFor += dt
	if w.lowFor >= w.Window {
		w.lowFor = 0
		return true
	}
	return false
}
