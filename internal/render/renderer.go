// Package render defines the renderer collaborator interface and a
// minimal CPU preview implementation. The production rasterizer is an
// external component; everything here exists so the pipeline can
// produce a real artifact without it.
package render

import (
	"image"

	"github.com/pointscape-data/flyover.report/internal/scene"
	"github.com/pointscape-data/flyover.report/internal/splat"
)

// Renderer turns a composite point set and a camera into an image.
// Implementations are synchronous and deterministic for equal inputs.
type Renderer interface {
	Render(cam splat.Camera, cloud *splat.Cloud, pipeline scene.PipelineConfig, background [3]float64) (*image.RGBA, error)
}
