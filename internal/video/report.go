package video

import (
	"fmt"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteTimingPlot saves a PNG line chart of per-frame render times in
// milliseconds, indexed by frame number.
func WriteTimingPlot(path string, durations []time.Duration) error {
	if len(durations) == 0 {
		return fmt.Errorf("timing plot: no durations")
	}

	p := plot.New()
	p.Title.Text = "Per-frame render time"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Render time (ms)"

	pts := make(plotter.XYs, len(durations))
	for i, d := range durations {
		pts[i] = plotter.XY{X: float64(i), Y: float64(d.Microseconds()) / 1000.0}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("timing plot: %w", err)
	}
	p.Add(line)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("timing plot: %w", err)
	}
	return nil
}

// WriteTimingReport saves a standalone HTML line chart of per-frame
// render times for quick inspection in a browser.
func WriteTimingReport(path string, durations []time.Duration) error {
	if len(durations) == 0 {
		return fmt.Errorf("timing report: no durations")
	}

	xAxis := make([]int, len(durations))
	data := make([]opts.LineData, len(durations))
	for i, d := range durations {
		xAxis[i] = i
		data[i] = opts.LineData{Value: float64(d.Microseconds()) / 1000.0}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "LOD render timing"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-frame render time",
			Subtitle: fmt.Sprintf("frames=%d", len(durations)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("render time", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("timing report: %w", err)
	}
	if err := line.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("timing report: %w", err)
	}
	return f.Close()
}
