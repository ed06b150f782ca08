package video

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteTimingReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	durations := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}

	if err := WriteTimingReport(path, durations); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "Per-frame render time") {
		t.Errorf("report missing chart title")
	}
	if !strings.Contains(html, "frames=2") {
		t.Errorf("report missing frame count subtitle")
	}
}

func TestWriteTimingPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timings.png")
	durations := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 15 * time.Millisecond}

	if err := WriteTimingPlot(path, durations); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("plot file is empty")
	}
}

func TestTimingOutputsRejectEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := WriteTimingPlot(filepath.Join(dir, "t.png"), nil); err == nil {
		t.Errorf("expected error for empty durations (plot)")
	}
	if err := WriteTimingReport(filepath.Join(dir, "t.html"), nil); err == nil {
		t.Errorf("expected error for empty durations (report)")
	}
}
