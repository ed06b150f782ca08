package sweep

import (
	"reflect"
	"testing"

	"github.com/pointscape-data/flyover.report/internal/splat"
)

func TestParseIntRange(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  IntRange
		expectErr bool
	}{
		{"valid_range", "500:2525:25", IntRange{Min: 500, Max: 2525, Step: 25}, false},
		{"with_spaces", " 0 : 10 : 2 ", IntRange{Min: 0, Max: 10, Step: 2}, false},
		{"negative_min", "-100:100:50", IntRange{Min: -100, Max: 100, Step: 50}, false},
		{"missing_parts", "500:2525", IntRange{}, true},
		{"too_many_parts", "1:2:3:4", IntRange{}, true},
		{"invalid_min", "abc:10:1", IntRange{}, true},
		{"invalid_max", "0:abc:1", IntRange{}, true},
		{"invalid_step", "0:10:abc", IntRange{}, true},
		{"zero_step", "0:10:0", IntRange{}, true},
		{"negative_step", "0:10:-1", IntRange{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseIntRange(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if result != tc.expected {
				t.Errorf("expected %+v, got %+v", tc.expected, result)
			}
		})
	}
}

func TestIntRangeValues(t *testing.T) {
	testCases := []struct {
		name     string
		r        IntRange
		expected []int
	}{
		{"half_open", IntRange{Min: 0, Max: 10, Step: 5}, []int{0, 5}},
		{"single", IntRange{Min: 3, Max: 4, Step: 1}, []int{3}},
		{"empty", IntRange{Min: 5, Max: 5, Step: 1}, nil},
		{"inverted", IntRange{Min: 10, Max: 0, Step: 1}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.r.Values()
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Values() = %v, want %v", got, tc.expected)
			}
		})
	}
}

// baseViews builds a camera list large enough to hold the standard
// reference index.
func baseViews(n, baseIdx int) []splat.Camera {
	views := make([]splat.Camera, n)
	for i := range views {
		views[i] = splat.NewCamera([3]float64{float64(i), 0, 3}, 0, 0)
	}
	views[baseIdx] = splat.NewCamera([3]float64{12, 34, 3}, 45, 0)
	return views
}

func TestTrajectoryStandardSweep(t *testing.T) {
	spec := Spec{
		BaseIndex:   481,
		Pitch:       -180,
		Heights:     DefaultHeights,
		HeightScale: DefaultHeightScale,
	}
	views := baseViews(482, 481)

	trajectory, err := spec.Trajectory(views)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The standard band [500, 2525) step 25 yields exactly 81 poses
	// with strictly ascending heights 5.00 .. 25.00 world units.
	if len(trajectory) != 81 {
		t.Fatalf("expected 81 poses, got %d", len(trajectory))
	}
	if trajectory[0].Height != 5.0 {
		t.Errorf("first height = %f, want 5.0", trajectory[0].Height)
	}
	if trajectory[80].Height != 25.0 {
		t.Errorf("last height = %f, want 25.0", trajectory[80].Height)
	}
	for i, cam := range trajectory {
		if i > 0 && cam.Height <= trajectory[i-1].Height {
			t.Fatalf("heights not strictly ascending at pose %d", i)
		}
		if cam.Pitch != -180 {
			t.Errorf("pose %d: pitch = %f, want -180", i, cam.Pitch)
		}
		if cam.Yaw != 45 {
			t.Errorf("pose %d: yaw = %f, want base yaw 45", i, cam.Yaw)
		}
		if cam.Position[0] != 12 || cam.Position[1] != 34 {
			t.Errorf("pose %d: planar position %v, want (12, 34)", i, cam.Position)
		}
		if cam.Position[2] != cam.Height {
			t.Errorf("pose %d: height component %f != %f", i, cam.Position[2], cam.Height)
		}
	}
}

func TestTrajectoryDeterministic(t *testing.T) {
	spec := Spec{BaseIndex: 2, Pitch: -45, Heights: IntRange{Min: 100, Max: 200, Step: 10}, HeightScale: 100}
	views := baseViews(5, 2)

	first, err := spec.Trajectory(views)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := spec.Trajectory(views)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-running the sweep produced a different trajectory")
	}

	// Fresh slices: mutating one run must not leak into the next.
	first[0].Position[0] = 999
	third, _ := spec.Trajectory(views)
	if third[0].Position[0] == 999 {
		t.Errorf("trajectory runs share storage")
	}
}

func TestTrajectoryErrors(t *testing.T) {
	views := baseViews(3, 0)

	testCases := []struct {
		name string
		spec Spec
	}{
		{"index_out_of_range", Spec{BaseIndex: 3, Heights: DefaultHeights, HeightScale: 100}},
		{"negative_index", Spec{BaseIndex: -1, Heights: DefaultHeights, HeightScale: 100}},
		{"zero_step", Spec{BaseIndex: 0, Heights: IntRange{Min: 0, Max: 10}, HeightScale: 100}},
		{"empty_band", Spec{BaseIndex: 0, Heights: IntRange{Min: 10, Max: 10, Step: 1}, HeightScale: 100}},
		{"zero_scale", Spec{BaseIndex: 0, Heights: DefaultHeights}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.spec.Trajectory(views); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}
