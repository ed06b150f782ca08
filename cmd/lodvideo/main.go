// Command lodvideo renders a fly-through video of a large point-based
// radiance scene. Several independently trained LOD variants are
// spatially partitioned, combined per camera into one composite point
// set, rendered along a deterministic height sweep, and written out as
// an animated GIF whose per-frame display time equals the measured
// render time.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pointscape-data/flyover.report/internal/lod"
	"github.com/pointscape-data/flyover.report/internal/render"
	"github.com/pointscape-data/flyover.report/internal/runstore"
	"github.com/pointscape-data/flyover.report/internal/scene"
	"github.com/pointscape-data/flyover.report/internal/splat"
	"github.com/pointscape-data/flyover.report/internal/sweep"
	"github.com/pointscape-data/flyover.report/internal/video"
)

var (
	configPath  = flag.String("config", "", "scene config JSON (required)")
	outputPath  = flag.String("output", "", "output model path (default derived from config filename)")
	customTest  = flag.String("custom-test", "", "render one combined split named after this dataset path")
	loadVQ      = flag.Bool("load-vq", false, "load the quantized representation (forces the latest checkpoint)")
	iteration   = flag.Int("iteration", scene.LatestIteration, "checkpoint iteration (-1 = latest)")
	pitch       = flag.Float64("pitch", -180.0, "fixed sweep pitch in degrees")
	heights     = flag.String("heights", "", "height sweep override as min:max:step (hundredths of world units)")
	cameraIndex = flag.Int("camera-index", -1, "base camera index override")
	skipTrain   = flag.Bool("skip-train", false, "skip the train split")
	skipTest    = flag.Bool("skip-test", false, "skip the test split")
	quiet       = flag.Bool("quiet", false, "suppress progress output")
	runLog      = flag.String("runlog", "", "optional sqlite database recording run statistics")
)

func main() {
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -config flag")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("lodvideo: %v", err)
	}
}

func run() error {
	cfg, err := scene.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *outputPath != "" {
		cfg.ModelPath = *outputPath
	}
	spec, err := sweepSpec(cfg)
	if err != nil {
		return err
	}

	// Build every level and the composer before any rendering, so
	// configuration errors surface before expensive work.
	levels := make([]*lod.Level, 0, len(cfg.Levels))
	for _, lc := range cfg.Levels {
		cloud, err := scene.LoadLevel(lc, *iteration, *loadVQ)
		if err != nil {
			return err
		}
		grid, err := lod.NewGridPartition(cloud, lc.AABB, lc.BlockDims, lc.Scale)
		if err != nil {
			return fmt.Errorf("level %s: %w", lc.Name, err)
		}
		levels = append(levels, lod.NewLevel(cloud, grid))
		log.Printf("loaded level %s: %d points", lc.Name, cloud.Len())
	}

	composer, err := lod.NewComposer(levels, cfg.DistThresholds)
	if err != nil {
		return err
	}

	cameras, err := scene.LoadCameras(cfg.Cameras)
	if err != nil {
		return err
	}

	var store *runstore.Store
	if *runLog != "" {
		store, err = runstore.Open(*runLog)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sceneName := filepath.Base(cfg.ModelPath)
	renderer := render.PreviewRenderer{}

	renderSplit := func(name string, views []splat.Camera) error {
		run, err := renderSet(cfg, spec, composer, renderer, name, views)
		if err != nil {
			return fmt.Errorf("split %s: %w", name, err)
		}
		if store != nil {
			run.Scene = sceneName
			if err := store.Insert(run); err != nil {
				return err
			}
		}
		return nil
	}

	if *customTest != "" {
		// A custom dataset path renders one combined split named
		// after it, from the full designated camera list.
		log.Printf("custom test path given, rendering all views as one split")
		return renderSplit(filepath.Base(*customTest), cameras.Combined())
	}

	if !*skipTrain {
		if err := renderSplit("train", cameras.Train); err != nil {
			return err
		}
	}
	if !*skipTest {
		if err := renderSplit("test", cameras.Test); err != nil {
			return err
		}
	}
	return nil
}

// sweepSpec merges the config's sweep parameters with any CLI
// overrides.
func sweepSpec(cfg *scene.Config) (sweep.Spec, error) {
	spec := cfg.Sweep
	spec.Pitch = *pitch
	if *cameraIndex >= 0 {
		spec.BaseIndex = *cameraIndex
	}
	if *heights != "" {
		r, err := sweep.ParseIntRange(*heights)
		if err != nil {
			return sweep.Spec{}, fmt.Errorf("-heights: %w", err)
		}
		spec.Heights = r
	}
	return spec, spec.Validate()
}

// renderSet drives one camera sweep: per pose it composites the LOD
// contributions, renders, and records timing; afterwards it writes the
// variable-duration GIF, the timing charts and the FPS summary.
func renderSet(cfg *scene.Config, spec sweep.Spec, composer *lod.Composer, renderer render.Renderer, name string, views []splat.Camera) (*runstore.RenderRun, error) {
	trajectory, err := spec.Trajectory(views)
	if err != nil {
		return nil, err
	}

	videoDir := filepath.Join(cfg.ModelPath, name, "ours_lod_video")
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		return nil, err
	}

	background := [3]float64{0, 0, 0}
	if cfg.WhiteBackground {
		background = [3]float64{1, 1, 1}
	}

	rec := video.NewRecorder(nil)
	for i, cam := range trajectory {
		err := rec.Record(func() (*image.RGBA, error) {
			cloud, err := composer.Composite(cam)
			if err != nil {
				return nil, err
			}
			return renderer.Render(cam, cloud, cfg.Pipeline, background)
		})
		if err != nil {
			// A failed frame aborts the whole run; no partial video.
			return nil, fmt.Errorf("frame %d (height %.2f): %w", i, cam.Height, err)
		}
	}

	gifPath := filepath.Join(videoDir, "video.gif")
	if err := rec.WriteGIF(gifPath); err != nil {
		return nil, err
	}
	if err := video.WriteTimingPlot(filepath.Join(videoDir, "timings.png"), rec.Durations()); err != nil {
		return nil, err
	}
	if err := video.WriteTimingReport(filepath.Join(videoDir, "report.html"), rec.Durations()); err != nil {
		return nil, err
	}

	log.Printf("saved %s (%d frames)", gifPath, rec.FrameCount())
	log.Printf("Average FPS: %.4f", rec.AverageFPS())
	log.Printf("Min FPS: %.4f", rec.MinFPS())

	return &runstore.RenderRun{
		Split:       name,
		Frames:      rec.FrameCount(),
		TotalPoints: composer.TotalPoints(),
		AvgFPS:      rec.AverageFPS(),
		MinFPS:      rec.MinFPS(),
		SumSeconds:  rec.TotalDuration().Seconds(),
		MaxSeconds:  rec.MaxDuration().Seconds(),
	}, nil
}
