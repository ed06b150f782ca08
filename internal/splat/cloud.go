// Package splat provides the point-model primitives shared by the LOD
// partitioning and rendering pipeline: struct-of-arrays point clouds,
// camera poses and axis-aligned bounding boxes.
package splat

import "fmt"

// Cloud is a struct-of-arrays point set. Positions, opacities and the
// flattened per-point feature vectors (view-dependent colour features
// followed by shape parameters, FeatDim values per point) are parallel
// arrays. A Cloud is immutable once loaded; filtering operations return
// fresh Clouds.
type Cloud struct {
	Positions [][3]float64
	Opacities []float64
	Feats     []float64
	FeatDim   int
}

// Len returns the number of points in the cloud.
func (c *Cloud) Len() int {
	return len(c.Positions)
}

// Validate checks the parallel-array invariant: positions, opacities
// and features must describe the same number of points.
func (c *Cloud) Validate() error {
	n := len(c.Positions)
	if len(c.Opacities) != n {
		return fmt.Errorf("cloud: %d positions but %d opacities", n, len(c.Opacities))
	}
	if c.FeatDim <= 0 {
		if len(c.Feats) != 0 {
			return fmt.Errorf("cloud: %d feature values with feature dim %d", len(c.Feats), c.FeatDim)
		}
		return nil
	}
	if len(c.Feats) != n*c.FeatDim {
		return fmt.Errorf("cloud: expected %d feature values (%d points x dim %d), got %d",
			n*c.FeatDim, n, c.FeatDim, len(c.Feats))
	}
	return nil
}

// Feat returns the feature vector of point i. The returned slice
// aliases the cloud's storage and must not be modified.
func (c *Cloud) Feat(i int) []float64 {
	return c.Feats[i*c.FeatDim : (i+1)*c.FeatDim]
}

// Select returns a fresh Cloud holding the points for which mask is
// true. The mask must cover every point.
func (c *Cloud) Select(mask []bool) *Cloud {
	count := 0
	for _, keep := range mask {
		if keep {
			count++
		}
	}

	out := &Cloud{
		Positions: make([][3]float64, 0, count),
		Opacities: make([]float64, 0, count),
		Feats:     make([]float64, 0, count*c.FeatDim),
		FeatDim:   c.FeatDim,
	}
	for i, keep := range mask {
		if !keep {
			continue
		}
		out.Positions = append(out.Positions, c.Positions[i])
		out.Opacities = append(out.Opacities, c.Opacities[i])
		out.Feats = append(out.Feats, c.Feat(i)...)
	}
	return out
}

// Concat concatenates clouds in order into a fresh Cloud. All inputs
// must share the same feature dimension; empty clouds are skipped.
func Concat(clouds ...*Cloud) (*Cloud, error) {
	featDim := 0
	total := 0
	for _, c := range clouds {
		if c.Len() == 0 {
			continue
		}
		if featDim == 0 {
			featDim = c.FeatDim
		} else if c.FeatDim != featDim {
			return nil, fmt.Errorf("concat: feature dim mismatch: %d vs %d", featDim, c.FeatDim)
		}
		total += c.Len()
	}

	out := &Cloud{
		Positions: make([][3]float64, 0, total),
		Opacities: make([]float64, 0, total),
		Feats:     make([]float64, 0, total*featDim),
		FeatDim:   featDim,
	}
	for _, c := range clouds {
		if c.Len() == 0 {
			continue
		}
		out.Positions = append(out.Positions, c.Positions...)
		out.Opacities = append(out.Opacities, c.Opacities...)
		out.Feats = append(out.Feats, c.Feats...)
	}
	return out, nil
}
