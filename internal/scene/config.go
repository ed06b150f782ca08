// Package scene loads scene configurations, trained point-model
// checkpoints and camera lists from disk.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pointscape-data/flyover.report/internal/splat"
	"github.com/pointscape-data/flyover.report/internal/sweep"
)

// Kind identifies a supported scene-representation implementation.
// The set is closed: unknown tags fail at validation time, before any
// checkpoint I/O.
type Kind string

const (
	// KindGaussian is the full-precision point-based radiance model.
	KindGaussian Kind = "gaussian"
	// KindGaussianVQ is the vector-quantized variant with uint8
	// feature codes and per-channel scale/offset codebooks.
	KindGaussianVQ Kind = "gaussian-vq"
)

// decoders maps each representation kind to its checkpoint decoder.
var decoders = map[Kind]pointDecoder{
	KindGaussian:   decodePoints,
	KindGaussianVQ: decodePointsVQ,
}

// PipelineConfig carries the renderer pipeline flags.
type PipelineConfig struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	FocalScale   float64 `json:"focal_scale"`
	ComputeCov3D bool    `json:"compute_cov3d"`
}

// LevelConfig describes one trained scene variant.
type LevelConfig struct {
	Name      string            `json:"name"`
	Kind      Kind              `json:"kind"`
	Dir       string            `json:"dir"`
	BlockDims [3]int            `json:"block_dims"`
	AABB      splat.BoundingBox `json:"aabb"`
	Scale     float64           `json:"scale"`
	SHDegree  int               `json:"sh_degree"`
}

// Config is the full scene configuration, passed explicitly to every
// component constructor. There is no process-wide mutable state.
type Config struct {
	ModelPath       string         `json:"model_path"`
	Cameras         string         `json:"cameras"`
	WhiteBackground bool           `json:"white_background"`
	Pipeline        PipelineConfig `json:"pipeline"`
	Sweep           sweep.Spec     `json:"sweep"`
	Levels          []LevelConfig  `json:"levels"`          // finest first
	DistThresholds  []float64      `json:"dist_thresholds"` // ascending, len(Levels)-1
}

// LoadConfig reads and validates a scene configuration. Defaults are
// applied before validation: the model path derives from the config
// filename, and the sweep falls back to the standard height band.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene config %s: %w", path, err)
	}

	if cfg.ModelPath == "" {
		cfg.ModelPath = DefaultModelPath(path)
	}
	if cfg.Sweep.Heights == (sweep.IntRange{}) {
		cfg.Sweep.Heights = sweep.DefaultHeights
	}
	if cfg.Sweep.HeightScale == 0 {
		cfg.Sweep.HeightScale = sweep.DefaultHeightScale
	}
	if cfg.Pipeline.Width == 0 {
		cfg.Pipeline.Width = 1024
	}
	if cfg.Pipeline.Height == 0 {
		cfg.Pipeline.Height = 1024
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultModelPath derives the output model path from a config
// filename: output/<basename without extension>.
func DefaultModelPath(configPath string) string {
	base := filepath.Base(configPath)
	return filepath.Join("output", strings.TrimSuffix(base, filepath.Ext(base)))
}

// Validate checks the configuration before any loading or rendering
// work begins.
func (c *Config) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("no levels configured")
	}
	if len(c.DistThresholds) != len(c.Levels)-1 {
		return fmt.Errorf("%d levels require %d distance thresholds, got %d",
			len(c.Levels), len(c.Levels)-1, len(c.DistThresholds))
	}
	prev := 0.0
	for _, t := range c.DistThresholds {
		if t <= prev {
			return fmt.Errorf("distance thresholds must be positive and strictly ascending, got %v", c.DistThresholds)
		}
		prev = t
	}
	if c.Cameras == "" {
		return fmt.Errorf("no camera list configured")
	}
	for i, lc := range c.Levels {
		if _, ok := decoders[lc.Kind]; !ok {
			return fmt.Errorf("level %d (%s): unknown representation kind %q", i, lc.Name, lc.Kind)
		}
		if lc.Dir == "" {
			return fmt.Errorf("level %d (%s): no checkpoint dir", i, lc.Name)
		}
		for axis := 0; axis < 3; axis++ {
			if lc.BlockDims[axis] <= 0 {
				return fmt.Errorf("level %d (%s): block dims must be positive, got %v", i, lc.Name, lc.BlockDims)
			}
			if lc.AABB.Max[axis] <= lc.AABB.Min[axis] {
				return fmt.Errorf("level %d (%s): degenerate aabb on axis %d", i, lc.Name, axis)
			}
		}
		if lc.Scale <= 0 {
			return fmt.Errorf("level %d (%s): scale must be positive, got %f", i, lc.Name, lc.Scale)
		}
	}
	return c.Sweep.Validate()
}
