package splat

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestCameraDepthAndDistance(t *testing.T) {
	// Yaw 0, pitch 0 looks along +Y.
	cam := NewCamera([3]float64{0, 0, 0}, 0, 0)

	testCases := []struct {
		name     string
		point    [3]float64
		depth    float64
		distance float64
	}{
		{"ahead", [3]float64{0, 5, 0}, 5, 5},
		{"behind", [3]float64{0, -5, 0}, -5, 5},
		{"right", [3]float64{3, 4, 0}, 4, 5},
		{"above", [3]float64{0, 0, 2}, 0, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cam.Depth(tc.point); math.Abs(got-tc.depth) > eps {
				t.Errorf("Depth(%v) = %f, want %f", tc.point, got, tc.depth)
			}
			if got := cam.Distance(tc.point); math.Abs(got-tc.distance) > eps {
				t.Errorf("Distance(%v) = %f, want %f", tc.point, got, tc.distance)
			}
		})
	}
}

func TestCameraSpaceMatchesDepth(t *testing.T) {
	cam := NewCamera([3]float64{1, 2, 3}, 30, -15)
	p := [3]float64{4, -2, 7}
	q := cam.CameraSpace(p)
	if math.Abs(q[2]-cam.Depth(p)) > eps {
		t.Errorf("camera-space forward component %f != Depth %f", q[2], cam.Depth(p))
	}
}

func TestCameraSpacePreservesDistance(t *testing.T) {
	// Rotation must be orthonormal: camera-space norm equals world distance.
	cam := NewCamera([3]float64{1, 2, 3}, 72, -33)
	p := [3]float64{-4, 9, 0.5}
	q := cam.CameraSpace(p)
	norm := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2])
	if math.Abs(norm-cam.Distance(p)) > eps {
		t.Errorf("camera-space norm %f != distance %f", norm, cam.Distance(p))
	}
}

func TestWithHeightPitch(t *testing.T) {
	base := NewCamera([3]float64{10, 20, 3}, 45, 0)
	derived := base.WithHeightPitch(7.5, -30)

	if derived.Position != [3]float64{10, 20, 7.5} {
		t.Errorf("expected planar position reused with height substituted, got %v", derived.Position)
	}
	if derived.Yaw != 45 {
		t.Errorf("expected yaw reused, got %f", derived.Yaw)
	}
	if derived.Pitch != -30 {
		t.Errorf("expected pitch -30, got %f", derived.Pitch)
	}
	if derived.Height != 7.5 {
		t.Errorf("expected height 7.5, got %f", derived.Height)
	}

	// The base camera must be untouched.
	if base.Position[2] != 3 || base.Pitch != 0 {
		t.Errorf("base camera mutated: %+v", base)
	}
}

func TestBoundingBoxCorners(t *testing.T) {
	b := BoundingBox{Min: [3]float64{0, 0, 0}, Max: [3]float64{1, 2, 3}}
	corners := b.Corners()
	if len(corners) != 8 {
		t.Fatalf("expected 8 corners, got %d", len(corners))
	}
	seen := make(map[[3]float64]bool)
	for _, c := range corners {
		if !b.Contains(c) {
			t.Errorf("corner %v outside box", c)
		}
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct corners, got %d", len(seen))
	}
}

func TestBoundingBoxIntersect(t *testing.T) {
	a := BoundingBox{Min: [3]float64{0, 0, 0}, Max: [3]float64{4, 4, 4}}
	b := BoundingBox{Min: [3]float64{2, -1, 1}, Max: [3]float64{6, 3, 5}}
	got := a.Intersect(b)
	want := BoundingBox{Min: [3]float64{2, 0, 1}, Max: [3]float64{4, 3, 4}}
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
}
