package video

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"time"
)

// gifTick is the GIF timing granularity (delays are stored in 100ths
// of a second).
const gifTick = 10 * time.Millisecond

// EncodeGIF writes frames as one animated GIF where frame i is shown
// for durations[i], rounded to the GIF's 10ms ticks with a one-tick
// floor so that no frame is skipped by viewers.
func EncodeGIF(w io.Writer, frames []*image.RGBA, durations []time.Duration) error {
	if len(frames) == 0 {
		return fmt.Errorf("gif: no frames")
	}
	if len(frames) != len(durations) {
		return fmt.Errorf("gif: %d frames but %d durations", len(frames), len(durations))
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for i, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})

		delay := int(durations[i] / gifTick)
		if delay < 1 {
			delay = 1
		}

		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, delay)
	}

	return gif.EncodeAll(w, out)
}
