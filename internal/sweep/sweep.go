// Package sweep generates deterministic camera trajectories by varying
// one scalar pose parameter (camera height) at a fixed step.
package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

// DefaultHeights is the standard fly-through band: heights 500..2500
// in hundredths of world units, 25 apart (81 poses).
var DefaultHeights = IntRange{Min: 500, Max: 2525, Step: 25}

// DefaultHeightScale converts sweep height units to world units.
const DefaultHeightScale = 100.0

// IntRange is a half-open integer range [Min, Max) walked by Step.
type IntRange struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// ParseIntRange parses a "min:max:step" string into an IntRange.
func ParseIntRange(s string) (IntRange, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return IntRange{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return IntRange{}, fmt.Errorf("invalid min value %q: %w", parts[0], err)
	}

	max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return IntRange{}, fmt.Errorf("invalid max value %q: %w", parts[1], err)
	}

	step, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return IntRange{}, fmt.Errorf("invalid step value %q: %w", parts[2], err)
	}

	if step <= 0 {
		return IntRange{}, fmt.Errorf("step must be positive, got %d", step)
	}

	return IntRange{Min: min, Max: max, Step: step}, nil
}

// Values returns the range's values in ascending order. The result is
// freshly allocated on every call.
func (r IntRange) Values() []int {
	if r.Step <= 0 || r.Min >= r.Max {
		return nil
	}
	out := make([]int, 0, (r.Max-r.Min+r.Step-1)/r.Step)
	for v := r.Min; v < r.Max; v += r.Step {
		out = append(out, v)
	}
	return out
}

// Spec describes one camera sweep: a base camera chosen by index from
// a fixed camera list, a fixed pitch, and the height band to walk.
type Spec struct {
	BaseIndex   int      `json:"base_index"`
	Pitch       float64  `json:"pitch"`
	Heights     IntRange `json:"heights"`
	HeightScale float64  `json:"height_scale"`
}

// Validate checks the sweep parameters independent of any camera list.
func (s Spec) Validate() error {
	if s.BaseIndex < 0 {
		return fmt.Errorf("sweep: base index must not be negative, got %d", s.BaseIndex)
	}
	if s.Heights.Step <= 0 {
		return fmt.Errorf("sweep: height step must be positive, got %d", s.Heights.Step)
	}
	if s.Heights.Min >= s.Heights.Max {
		return fmt.Errorf("sweep: empty height range [%d, %d)", s.Heights.Min, s.Heights.Max)
	}
	if s.HeightScale <= 0 {
		return fmt.Errorf("sweep: height scale must be positive, got %f", s.HeightScale)
	}
	return nil
}

// Trajectory derives one camera pose per height value from the base
// camera views[BaseIndex]: the height (scaled to world units) replaces
// the pose's vertical component and the fixed pitch is applied, all
// other extrinsics reused. The sequence is finite and deterministic;
// repeated calls with the same inputs return identical fresh slices.
func (s Spec) Trajectory(views []splat.Camera) ([]splat.Camera, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.BaseIndex >= len(views) {
		return nil, fmt.Errorf("sweep: base index %d out of range (%d cameras)", s.BaseIndex, len(views))
	}

	base := views[s.BaseIndex]
	heights := s.Heights.Values()
	out := make([]splat.Camera, 0, len(heights))
	for _, h := range heights {
		out = append(out, base.WithHeightPitch(float64(h)/s.HeightScale, s.Pitch))
	}
	return out, nil
}
