package splat

// BoundingBox is an axis-aligned box in world coordinates.
type BoundingBox struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Center returns the box centre.
func (b BoundingBox) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Contains reports whether p lies inside the box (inclusive).
func (b BoundingBox) Contains(p [3]float64) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] || p[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Intersect returns the per-axis intersection of two boxes. The result
// may be inverted (Min > Max) if the boxes do not overlap.
func (b BoundingBox) Intersect(o BoundingBox) BoundingBox {
	out := b
	for axis := 0; axis < 3; axis++ {
		if o.Min[axis] > out.Min[axis] {
			out.Min[axis] = o.Min[axis]
		}
		if o.Max[axis] < out.Max[axis] {
			out.Max[axis] = o.Max[axis]
		}
	}
	return out
}

// Corners returns the eight corner points of the box, minimum corner
// first, Z varying fastest.
func (b BoundingBox) Corners() [8][3]float64 {
	var out [8][3]float64
	i := 0
	for _, x := range [2]float64{b.Min[0], b.Max[0]} {
		for _, y := range [2]float64{b.Min[1], b.Max[1]} {
			for _, z := range [2]float64{b.Min[2], b.Max[2]} {
				out[i] = [3]float64{x, y, z}
				i++
			}
		}
	}
	return out
}
