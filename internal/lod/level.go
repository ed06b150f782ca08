package lod

import (
	"math"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

// nearClipDepth is the camera-space depth below which points are
// discarded before any distance test.
const nearClipDepth = 0.2

// Level is one trained scene variant, valid over the half-open camera
// distance range [Near, Far). It owns its point cloud and grid
// partition, both immutable after construction; the only mutable state
// is an internal scratch mask reused across queries, which makes a
// Level unsafe for concurrent queries.
type Level struct {
	cloud *splat.Cloud
	grid  *GridPartition

	near, far float64

	mask []bool // scratch, overwritten per query
}

// NewLevel wires a cloud to its grid partition. The distance range is
// assigned by the Composer that owns the level.
func NewLevel(cloud *splat.Cloud, grid *GridPartition) *Level {
	return &Level{
		cloud: cloud,
		grid:  grid,
		near:  0,
		far:   math.Inf(1),
		mask:  make([]bool, cloud.Len()),
	}
}

// Cloud returns the level's full point cloud.
func (l *Level) Cloud() *splat.Cloud { return l.cloud }

// Grid returns the level's grid partition.
func (l *Level) Grid() *GridPartition { return l.grid }

// Near returns the inclusive lower bound of the level's range.
func (l *Level) Near() float64 { return l.near }

// Far returns the exclusive upper bound of the level's range.
func (l *Level) Far() float64 { return l.far }

func (l *Level) setRange(near, far float64) {
	l.near = near
	l.far = far
}

// FilterByCell is the coarse path: given candidate cell ids and one
// representative distance per candidate, it returns a fresh Cloud of
// all points whose cell's distance lies in [Near, Far). Approximate at
// cell boundaries; a pre-filter, not the compositing path.
func (l *Level) FilterByCell(cells []int, cellDists []float64) *splat.Cloud {
	selected := make([]int, 0, len(cells))
	for i, id := range cells {
		if l.grid.CellCount(id) == 0 {
			continue
		}
		if cellDists[i] >= l.near && cellDists[i] < l.far {
			selected = append(selected, id)
		}
	}
	if len(selected) == 0 {
		return &splat.Cloud{FeatDim: l.cloud.FeatDim}
	}
	return l.cloud.Select(l.grid.MembershipMask(selected))
}

// FilterByCamera is the fine path used for compositing: it transforms
// every point into camera space, drops points at or behind the near
// clip, and keeps survivors whose Euclidean distance from the camera
// centre lies in [Near, Far). The result is always a fresh Cloud;
// an empty match is not an error.
func (l *Level) FilterByCamera(cam splat.Camera) *splat.Cloud {
	any := false
	for i, p := range l.cloud.Positions {
		if cam.Depth(p) <= nearClipDepth {
			l.mask[i] = false
			continue
		}
		d := cam.Distance(p)
		l.mask[i] = d >= l.near && d < l.far
		any = any || l.mask[i]
	}
	if !any {
		return &splat.Cloud{FeatDim: l.cloud.FeatDim}
	}
	return l.cloud.Select(l.mask)
}
