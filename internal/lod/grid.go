// Package lod implements the level-of-detail spatial partitioning and
// distance-based selection engine: a uniform grid partition of each
// trained scene variant, per-level distance filtering, and per-camera
// composition of the variants into one renderable point set.
package lod

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

// madMultiplier scales the median absolute deviation when estimating a
// cell's nominal extent. Matches the training-side partitioning.
const madMultiplier = 4.0

// GridPartition divides a scene's bounding volume into a uniform 3D
// grid of cells and assigns every point of a cloud to exactly one cell.
// Points outside the nominal bounds are clamped into the border cells,
// so no point is ever dropped. Built once at load time; immutable.
type GridPartition struct {
	dims  [3]int
	aabb  splat.BoundingBox
	scale float64

	cellIDs []int // one entry per point, in [0, NumCells)
	boxes   []splat.BoundingBox
	counts  []int
}

// NewGridPartition partitions cloud over aabb using dims cells per
// axis. scale contracts (or expands) the box extents about its centre
// before assignment. Every point receives a cell id; each non-empty
// cell gets an outlier-robust bounding box.
func NewGridPartition(cloud *splat.Cloud, aabb splat.BoundingBox, dims [3]int, scale float64) (*GridPartition, error) {
	for axis := 0; axis < 3; axis++ {
		if dims[axis] <= 0 {
			return nil, fmt.Errorf("grid: dims must be positive, got %v", dims)
		}
		if aabb.Max[axis] <= aabb.Min[axis] {
			return nil, fmt.Errorf("grid: degenerate bounding box on axis %d: [%f, %f]",
				axis, aabb.Min[axis], aabb.Max[axis])
		}
	}
	if scale <= 0 {
		return nil, fmt.Errorf("grid: scale must be positive, got %f", scale)
	}
	if err := cloud.Validate(); err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}

	g := &GridPartition{
		dims:    dims,
		aabb:    scaledBox(aabb, scale),
		scale:   scale,
		cellIDs: make([]int, cloud.Len()),
	}

	numCells := dims[0] * dims[1] * dims[2]
	g.boxes = make([]splat.BoundingBox, numCells)
	g.counts = make([]int, numCells)

	for i, p := range cloud.Positions {
		id := g.assign(p)
		g.cellIDs[i] = id
		g.counts[id]++
	}

	g.computeCellBoxes(cloud)
	return g, nil
}

// NumCells returns the total cell count.
func (g *GridPartition) NumCells() int {
	return g.dims[0] * g.dims[1] * g.dims[2]
}

// CellID returns the cell id assigned to point i.
func (g *GridPartition) CellID(i int) int {
	return g.cellIDs[i]
}

// CellCount returns the number of points assigned to cell id.
func (g *GridPartition) CellCount(id int) int {
	return g.counts[id]
}

// CellBox returns the robust bounding box of cell id. ok is false for
// cells with no members; such cells are excluded from all queries.
func (g *GridPartition) CellBox(id int) (box splat.BoundingBox, ok bool) {
	if g.counts[id] == 0 {
		return splat.BoundingBox{}, false
	}
	return g.boxes[id], true
}

// MembershipMask returns a fresh boolean mask over all points, true
// where a point's cell id is in cells.
func (g *GridPartition) MembershipMask(cells []int) []bool {
	wanted := make(map[int]struct{}, len(cells))
	for _, id := range cells {
		wanted[id] = struct{}{}
	}
	mask := make([]bool, len(g.cellIDs))
	for i, id := range g.cellIDs {
		_, mask[i] = wanted[id]
	}
	return mask
}

// assign maps a point to its flattened cell index. Per-axis indices
// are clamped into [0, dim), which lands out-of-box points in the
// nearest border cell rather than dropping them.
func (g *GridPartition) assign(p [3]float64) int {
	var idx [3]int
	for axis := 0; axis < 3; axis++ {
		extent := g.aabb.Max[axis] - g.aabb.Min[axis]
		q := (p[axis] - g.aabb.Min[axis]) / extent
		i := int(math.Floor(q * float64(g.dims[axis])))
		if i < 0 {
			i = 0
		}
		if i >= g.dims[axis] {
			i = g.dims[axis] - 1
		}
		idx[axis] = i
	}
	return (idx[0]*g.dims[1]+idx[1])*g.dims[2] + idx[2]
}

// computeCellBoxes estimates each non-empty cell's extent from the
// per-axis median and MAD of its member positions, then intersects the
// candidate median±4·MAD box with the true member min/max. A cell with
// a single member degenerates to a zero-size box at that member (the
// MAD is zero); empty cells keep a zero box and are skipped entirely.
func (g *GridPartition) computeCellBoxes(cloud *splat.Cloud) {
	members := make(map[int][]int)
	for i, id := range g.cellIDs {
		members[id] = append(members[id], i)
	}

	for id, pts := range members {
		var box splat.BoundingBox
		for axis := 0; axis < 3; axis++ {
			vals := make([]float64, len(pts))
			for j, pi := range pts {
				vals[j] = cloud.Positions[pi][axis]
			}
			sort.Float64s(vals)
			trueMin, trueMax := vals[0], vals[len(vals)-1]

			med := stat.Quantile(0.5, stat.Empirical, vals, nil)
			devs := make([]float64, len(vals))
			for j, v := range vals {
				devs[j] = math.Abs(v - med)
			}
			sort.Float64s(devs)
			mad := stat.Quantile(0.5, stat.Empirical, devs, nil)

			box.Min[axis] = math.Max(med-madMultiplier*mad, trueMin)
			box.Max[axis] = math.Min(med+madMultiplier*mad, trueMax)
		}
		g.boxes[id] = box
	}
}

// scaledBox contracts or expands a box about its centre.
func scaledBox(b splat.BoundingBox, scale float64) splat.BoundingBox {
	c := b.Center()
	var out splat.BoundingBox
	for axis := 0; axis < 3; axis++ {
		half := (b.Max[axis] - b.Min[axis]) / 2 * scale
		out.Min[axis] = c[axis] - half
		out.Max[axis] = c[axis] + half
	}
	return out
}
