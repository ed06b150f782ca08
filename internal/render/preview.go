package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/pointscape-data/flyover.report/internal/scene"
	"github.com/pointscape-data/flyover.report/internal/splat"
)

// shC0 is the zeroth spherical-harmonics basis constant used to turn
// the DC colour feature into a base colour.
const shC0 = 0.28209479177387814

// previewNearClip matches the compositing near-clip so the preview
// never draws points the fine filter would have discarded.
const previewNearClip = 0.2

// PreviewRenderer is a nearest-point z-buffered projection: each point
// is splatted as a single pixel coloured by its DC feature, blended
// over the background by opacity. No shape parameters are evaluated.
type PreviewRenderer struct{}

// Render implements Renderer.
func (PreviewRenderer) Render(cam splat.Camera, cloud *splat.Cloud, pipeline scene.PipelineConfig, background [3]float64) (*image.RGBA, error) {
	w, h := pipeline.Width, pipeline.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("preview: invalid frame size %dx%d", w, h)
	}
	focal := pipeline.FocalScale
	if focal <= 0 {
		focal = 1.0
	}
	// Pinhole focal length in pixels, derived from the frame height.
	f := focal * float64(h)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, rgba(background))
		}
	}

	if cloud.Len() == 0 {
		return img, nil
	}
	if cloud.FeatDim < 3 {
		return nil, fmt.Errorf("preview: need at least 3 feature channels for colour, got %d", cloud.FeatDim)
	}

	depth := make([]float64, w*h)
	for i := range depth {
		depth[i] = math.Inf(1)
	}

	cx, cy := float64(w)/2, float64(h)/2
	for i, p := range cloud.Positions {
		q := cam.CameraSpace(p)
		if q[2] <= previewNearClip {
			continue
		}
		px := int(math.Round(cx + f*q[0]/q[2]))
		py := int(math.Round(cy - f*q[1]/q[2]))
		if px < 0 || px >= w || py < 0 || py >= h {
			continue
		}
		idx := py*w + px
		if q[2] >= depth[idx] {
			continue
		}
		depth[idx] = q[2]

		feat := cloud.Feat(i)
		alpha := clamp01(cloud.Opacities[i])
		var c [3]float64
		for ch := 0; ch < 3; ch++ {
			base := clamp01(0.5 + shC0*feat[ch])
			c[ch] = background[ch]*(1-alpha) + base*alpha
		}
		img.SetRGBA(px, py, rgba(c))
	}
	return img, nil
}

func rgba(c [3]float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(clamp01(c[0]) * 255)),
		G: uint8(math.Round(clamp01(c[1]) * 255)),
		B: uint8(math.Round(clamp01(c[2]) * 255)),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
