// Package video times per-frame renders and assembles the recorded
// frames into a variable-duration animation plus timing reports.
package video

import (
	"fmt"
	"image"
	"os"
	"time"
)

// Recorder accumulates rendered frames and their measured durations.
// Each render is bracketed by a device synchronization barrier so the
// measurement window covers actual computation only, never queued
// asynchronous work. A Recorder is driven by a single control
// goroutine; it is not safe for concurrent use.
type Recorder struct {
	syncFn func()

	frames    []*image.RGBA
	durations []time.Duration
	sum       time.Duration
	max       time.Duration
}

// NewRecorder returns a Recorder using syncFn as the synchronization
// barrier. A nil syncFn means no device work to wait on.
func NewRecorder(syncFn func()) *Recorder {
	if syncFn == nil {
		syncFn = func() {}
	}
	return &Recorder{syncFn: syncFn}
}

// Record runs render between two synchronization barriers, measuring
// its wall time, and stores the frame and duration. A render failure
// aborts the run: nothing is recorded and the error is returned.
func (r *Recorder) Record(render func() (*image.RGBA, error)) error {
	r.syncFn()
	start := time.Now()
	frame, err := render()
	r.syncFn()
	elapsed := time.Since(start)

	if err != nil {
		return err
	}
	r.add(frame, elapsed)
	return nil
}

func (r *Recorder) add(frame *image.RGBA, d time.Duration) {
	r.frames = append(r.frames, frame)
	r.durations = append(r.durations, d)
	r.sum += d
	if d > r.max {
		r.max = d
	}
}

// FrameCount returns the number of recorded frames.
func (r *Recorder) FrameCount() int {
	return len(r.frames)
}

// Durations returns a copy of the per-frame render durations.
func (r *Recorder) Durations() []time.Duration {
	out := make([]time.Duration, len(r.durations))
	copy(out, r.durations)
	return out
}

// TotalDuration returns the sum of all recorded render durations.
func (r *Recorder) TotalDuration() time.Duration {
	return r.sum
}

// MaxDuration returns the slowest recorded render duration.
func (r *Recorder) MaxDuration() time.Duration {
	return r.max
}

// AverageFPS returns frameCount / sum(durations), or 0 before any
// frame is recorded.
func (r *Recorder) AverageFPS() float64 {
	if len(r.frames) == 0 || r.sum <= 0 {
		return 0
	}
	return float64(len(r.frames)) / r.sum.Seconds()
}

// MinFPS returns the worst-case rate 1 / max(durations), or 0 before
// any frame is recorded.
func (r *Recorder) MinFPS() float64 {
	if r.max <= 0 {
		return 0
	}
	return 1 / r.max.Seconds()
}

// WriteGIF writes the recorded frames to path as an animated GIF in
// which each frame's display duration equals its own measured render
// time, so relative per-frame cost is visible in playback.
func (r *Recorder) WriteGIF(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("write gif: no frames recorded")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write gif: %w", err)
	}
	if err := EncodeGIF(f, r.frames, r.durations); err != nil {
		f.Close()
		return fmt.Errorf("write gif: %w", err)
	}
	return f.Close()
}
