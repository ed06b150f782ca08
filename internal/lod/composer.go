package lod

import (
	"fmt"
	"math"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

// Range is a half-open camera-distance band [Near, Far).
type Range struct {
	Near float64
	Far  float64
}

// Composer holds an ordered list of levels (finest first) with
// contiguous, non-overlapping distance ranges covering [0, +Inf). For
// a camera it gathers each level's fine-filtered contribution and
// concatenates them into one combined point set.
type Composer struct {
	levels []*Level
	ranges []Range
}

// NewComposer assigns ranges to levels from k ascending thresholds,
// where k must equal len(levels)-1. The synthesized ranges are
// [0,t1), [t1,t2), …, [tk, +Inf), assigned to levels in order.
func NewComposer(levels []*Level, thresholds []float64) (*Composer, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("composer: no levels")
	}
	if len(thresholds) != len(levels)-1 {
		return nil, fmt.Errorf("composer: %d levels require %d distance thresholds, got %d",
			len(levels), len(levels)-1, len(thresholds))
	}
	featDim := levels[0].Cloud().FeatDim
	for i, lvl := range levels[1:] {
		if lvl.Cloud().FeatDim != featDim {
			return nil, fmt.Errorf("composer: level %d feature dim %d differs from level 0 dim %d",
				i+1, lvl.Cloud().FeatDim, featDim)
		}
	}

	bounds := make([]float64, 0, len(thresholds)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, thresholds...)
	bounds = append(bounds, math.Inf(1))
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, fmt.Errorf("composer: thresholds must be positive and strictly ascending, got %v", thresholds)
		}
	}

	c := &Composer{
		levels: levels,
		ranges: make([]Range, len(levels)),
	}
	for i, lvl := range levels {
		c.ranges[i] = Range{Near: bounds[i], Far: bounds[i+1]}
		lvl.setRange(bounds[i], bounds[i+1])
	}
	return c, nil
}

// Ranges returns a copy of the synthesized per-level distance ranges.
func (c *Composer) Ranges() []Range {
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Levels returns the composer's levels in range order.
func (c *Composer) Levels() []*Level { return c.levels }

// TotalPoints returns the combined point count across all levels.
func (c *Composer) TotalPoints() int {
	total := 0
	for _, lvl := range c.levels {
		total += lvl.Cloud().Len()
	}
	return total
}

// Composite returns the combined point set for cam: each level's
// fine-filtered contribution, concatenated in level order. Ranges are
// disjoint by construction, so no point can appear twice. Every level
// re-scans all its points on every call; results are never cached
// between frames.
func (c *Composer) Composite(cam splat.Camera) (*splat.Cloud, error) {
	parts := make([]*splat.Cloud, len(c.levels))
	for i, lvl := range c.levels {
		parts[i] = lvl.FilterByCamera(cam)
	}
	combined, err := splat.Concat(parts...)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}
	return combined, nil
}
