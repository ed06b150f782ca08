package video

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"
)

func colorFrame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeGIFDelays(t *testing.T) {
	frames := []*image.RGBA{
		colorFrame(color.RGBA{255, 0, 0, 255}),
		colorFrame(color.RGBA{0, 255, 0, 255}),
		colorFrame(color.RGBA{0, 0, 255, 255}),
	}
	durations := []time.Duration{
		35 * time.Millisecond, // 3 ticks
		5 * time.Millisecond,  // below one tick: floored to 1
		1200 * time.Millisecond,
	}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, durations); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Image) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(decoded.Image))
	}

	wantDelays := []int{3, 1, 120}
	for i, want := range wantDelays {
		if decoded.Delay[i] != want {
			t.Errorf("frame %d: delay %d ticks, want %d", i, decoded.Delay[i], want)
		}
	}
	if decoded.LoopCount != 0 {
		t.Errorf("expected infinite loop, got %d", decoded.LoopCount)
	}
}

func TestEncodeGIFErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, nil, nil); err == nil {
		t.Errorf("expected error for zero frames")
	}

	frames := []*image.RGBA{colorFrame(color.RGBA{A: 255})}
	if err := EncodeGIF(&buf, frames, nil); err == nil {
		t.Errorf("expected error for frame/duration count mismatch")
	}
}
