package xmeans

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// newTestEngine builds an engine the way Cluster does, without running it.
func newTestEngine(data, centers [][]float64, cfg Config) *engine {
	applyDefaults(&cfg)
	return newEngine(data, centers, cfg)
}

func TestImproveParametersConverges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tolerance = 1e-6
	e := newTestEngine(twoGroups1D, [][]float64{{0}, {10}}, cfg)

	clusters, err := e.improveParameters(e.centers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(clusters, [][]int{{0, 1, 2}, {3, 4, 5}}) {
		t.Errorf("clusters: got %v, want [[0 1 2] [3 4 5]]", clusters)
	}
	if math.Abs(e.centers[0][0]-1) > 1e-9 {
		t.Errorf("center 0: got %f, want 1", e.centers[0][0])
	}
	if math.Abs(e.centers[1][0]-11) > 1e-9 {
		t.Errorf("center 1: got %f, want 11", e.centers[1][0])
	}
}

// Once converged, one more assignment+update cycle moves centers by at most
// the tolerance.
func TestImproveParametersIdempotentAtConvergence(t *testing.T) {
	rng := newTestRNG(5)
	data := make([][]float64, 30)
	for i := 0; i < 15; i++ {
		data[i] = []float64{rng.Float64(), rng.Float64()}
	}
	for i := 15; i < 30; i++ {
		data[i] = []float64{5 + rng.Float64(), 5 + rng.Float64()}
	}

	cfg := DefaultConfig()
	cfg.Tolerance = 1e-6
	e := newTestEngine(data, [][]float64{{0, 0}, {6, 6}}, cfg)

	if _, err := e.improveParameters(e.centers, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clusters := e.assignClusters(e.centers, nil)
	change, err := e.updateCenters(clusters, e.centers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change > e.tolerance {
		t.Errorf("post-convergence center movement %g exceeds tolerance %g", change, e.tolerance)
	}
}

func TestImproveParametersSubset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tolerance = 1e-6
	e := newTestEngine(twoGroups1D, [][]float64{{9}, {13}}, cfg)

	subset := []int{3, 4, 5}
	clusters, err := e.improveParameters(e.centers, subset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[int]bool)
	for _, members := range clusters {
		for _, idx := range members {
			if idx < 3 {
				t.Errorf("index %d outside subset was assigned", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != len(subset) {
		t.Errorf("subset coverage: got %d indices, want %d", len(seen), len(subset))
	}
}

func TestNearestCenterTieBreak(t *testing.T) {
	data := [][]float64{{0}}
	centers := [][]float64{{-1}, {1}}

	for _, reduced := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.UseReducedDistance = reduced
		e := newTestEngine(data, centers, cfg)

		// Equidistant point: the first (lowest-index) center must win.
		if got := e.nearestCenter(e.centers, data[0]); got != 0 {
			t.Errorf("reduced=%v: tie broke to center %d, want 0", reduced, got)
		}
	}
}

func TestNearestCenterOrdering(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(twoGroups1D, [][]float64{{1}, {11}}, cfg)

	tests := []struct {
		point []float64
		want  int
	}{
		{[]float64{0}, 0},
		{[]float64{2}, 0},
		{[]float64{5.9}, 0},
		{[]float64{6.1}, 1},
		{[]float64{12}, 1},
	}
	for _, tt := range tests {
		if got := e.nearestCenter(e.centers, tt.point); got != tt.want {
			t.Errorf("nearestCenter(%v) = %d, want %d", tt.point, got, tt.want)
		}
	}
}

func TestUpdateCentersEmptyCluster(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(twoGroups1D, [][]float64{{0}, {100}}, cfg)

	_, err := e.updateCenters([][]int{{0, 1, 2, 3, 4, 5}, {}}, e.centers)
	if err == nil {
		t.Fatal("expected error for empty cluster")
	}
	if !errors.Is(err, ErrDegenerateCluster) {
		t.Errorf("error %v does not wrap ErrDegenerateCluster", err)
	}
}

func TestUpdateCentersMean(t *testing.T) {
	data := [][]float64{{0, 0}, {2, 4}, {4, 8}}
	cfg := DefaultConfig()
	e := newTestEngine(data, [][]float64{{0, 0}}, cfg)

	change, err := e.updateCenters([][]int{{0, 1, 2}}, e.centers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{2, 4}
	for d := range want {
		if math.Abs(e.centers[0][d]-want[d]) > 1e-12 {
			t.Errorf("center[%d]: got %f, want %f", d, e.centers[0][d], want[d])
		}
	}
	// Center moved from (0,0) to (2,4).
	if wantChange := math.Sqrt(20); math.Abs(change-wantChange) > 1e-12 {
		t.Errorf("change: got %f, want %f", change, wantChange)
	}
}

func TestReducedToleranceSquaredOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tolerance = 0.5
	cfg.UseReducedDistance = true
	e := newTestEngine(twoGroups1D, [][]float64{{5}}, cfg)

	if e.tolerance != 0.25 {
		t.Errorf("reduced tolerance: got %f, want 0.25", e.tolerance)
	}
}
