package render

import (
	"image/color"
	"testing"

	"github.com/pointscape-data/flyover.report/internal/scene"
	"github.com/pointscape-data/flyover.report/internal/splat"
)

func previewPipeline(w, h int) scene.PipelineConfig {
	return scene.PipelineConfig{Width: w, Height: h, FocalScale: 1.0}
}

func TestPreviewBackgroundFill(t *testing.T) {
	cam := splat.NewCamera([3]float64{0, 0, 0}, 0, 0)
	cloud := &splat.Cloud{FeatDim: 3}

	img, err := PreviewRenderer{}.Render(cam, cloud, previewPipeline(4, 4), [3]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want white background", x, y, got)
			}
		}
	}
}

func TestPreviewCenterSplat(t *testing.T) {
	// Camera at the origin looking down +Y. A point straight ahead
	// projects to the image centre.
	cam := splat.NewCamera([3]float64{0, 0, 0}, 0, 0)
	cloud := &splat.Cloud{
		Positions: [][3]float64{{0, 5, 0}},
		Opacities: []float64{1},
		Feats:     []float64{0, 0, 0},
		FeatDim:   3,
	}

	img, err := PreviewRenderer{}.Render(cam, cloud, previewPipeline(8, 8), [3]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Zero DC feature maps to base colour 0.5 on every channel.
	got := img.RGBAAt(4, 4)
	if got.R != 128 || got.G != 128 || got.B != 128 {
		t.Errorf("centre pixel = %v, want mid-grey", got)
	}
	if corner := img.RGBAAt(0, 0); corner != (color.RGBA{A: 255}) {
		t.Errorf("corner pixel = %v, want black background", corner)
	}
}

func TestPreviewDepthOrder(t *testing.T) {
	cam := splat.NewCamera([3]float64{0, 0, 0}, 0, 0)
	// shC0 inverse so the near point's base colour saturates to 1.
	bright := 0.5 / shC0
	cloud := &splat.Cloud{
		Positions: [][3]float64{{0, 5, 0}, {0, 2, 0}},
		Opacities: []float64{1, 1},
		Feats: []float64{
			0, 0, 0,
			bright, bright, bright,
		},
		FeatDim: 3,
	}

	img, err := PreviewRenderer{}.Render(cam, cloud, previewPipeline(8, 8), [3]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := img.RGBAAt(4, 4); got.R != 255 {
		t.Errorf("centre pixel = %v, want the nearer white point", got)
	}
}

func TestPreviewNearClip(t *testing.T) {
	cam := splat.NewCamera([3]float64{0, 0, 0}, 0, 0)
	cloud := &splat.Cloud{
		Positions: [][3]float64{{0, 0.1, 0}, {0, -3, 0}},
		Opacities: []float64{1, 1},
		Feats:     []float64{0, 0, 0, 0, 0, 0},
		FeatDim:   3,
	}

	img, err := PreviewRenderer{}.Render(cam, cloud, previewPipeline(8, 8), [3]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v: clipped points must not draw", x, y, got)
			}
		}
	}
}

func TestPreviewRejectsBadInput(t *testing.T) {
	cam := splat.NewCamera([3]float64{0, 0, 0}, 0, 0)
	cloud := &splat.Cloud{
		Positions: [][3]float64{{0, 5, 0}},
		Opacities: []float64{1},
		Feats:     []float64{0},
		FeatDim:   1,
	}

	if _, err := (PreviewRenderer{}).Render(cam, cloud, previewPipeline(0, 8), [3]float64{0, 0, 0}); err == nil {
		t.Errorf("expected error for zero frame width")
	}
	if _, err := (PreviewRenderer{}).Render(cam, cloud, previewPipeline(8, 8), [3]float64{0, 0, 0}); err == nil {
		t.Errorf("expected error for narrow feature vector")
	}
}
