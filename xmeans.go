package xmeans

import (
	"errors"
	"fmt"
)

// ErrDegenerateCluster reports a cluster that cannot support a numeric result:
// it has no members entering a mean update or criterion evaluation, or a scored
// candidate model has no more points than clusters. Returned errors wrap this
// sentinel so callers can test with errors.Is.
var ErrDegenerateCluster = errors.New("degenerate cluster")

// minSplitMembers is the smallest cluster a split trial will consider.
// A 2-way split of fewer points cannot satisfy N > K in the child model.
const minSplitMembers = 3

// Config controls X-Means clustering behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// MaxClusters is the upper bound on the number of clusters. The search
	// stops once the cluster count reaches it; the final structure round may
	// overshoot it when several clusters split at once, and the overshoot is
	// kept. Must be >= 1. Default: 20.
	MaxClusters int

	// Tolerance is the convergence threshold on the maximum center movement
	// between refinement iterations. Must be > 0; a non-positive tolerance
	// would keep the refinement loop from terminating. Default: 0.025.
	Tolerance float64

	// SplitOffset is the per-dimension perturbation applied to a cluster's
	// center to seed the two child centers of a split trial. Must be > 0.
	// Default: 0.001.
	SplitOffset float64

	// Metric is the distance function used throughout. The criterion always
	// uses Metric.Distance; assignment and convergence checks use
	// Metric.ReducedDistance when UseReducedDistance is set.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// UseReducedDistance switches the hot comparison paths (nearest-center
	// assignment and the center-movement check) to Metric.ReducedDistance,
	// e.g. squared Euclidean without the sqrt. Tolerance is squared once at
	// setup so comparisons stay consistent. Cluster assignments are identical
	// either way since reduced distance preserves ordering. Default: false.
	UseReducedDistance bool

	// Workers controls the number of goroutines used for per-cluster split
	// trials. Each trial reads only the immutable dataset and one cluster's
	// member list, so the parallel path produces output identical to the
	// sequential one. <= 1 means sequential. Default: 1.
	Workers int
}

// Result contains the output of X-Means clustering.
type Result struct {
	// Clusters holds, per cluster, the dataset indices assigned to it.
	// Every dataset index appears in exactly one cluster. Indices within a
	// cluster are ascending.
	Clusters [][]int

	// Centers is the final center of each cluster, index-aligned with
	// Clusters.
	Centers [][]float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MaxClusters: 20,
		Tolerance:   0.025,
		SplitOffset: 0.001,
		Metric:      EuclideanMetric{},
		Workers:     1,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MaxClusters == 0 {
		cfg.MaxClusters = 20
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 0.025
	}
	if cfg.SplitOffset == 0 {
		cfg.SplitOffset = 0.001
	}
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.MaxClusters < 1 {
		return fmt.Errorf("xmeans: MaxClusters must be >= 1, got %d", cfg.MaxClusters)
	}
	if cfg.Tolerance <= 0 {
		return fmt.Errorf("xmeans: Tolerance must be > 0, got %f", cfg.Tolerance)
	}
	if cfg.SplitOffset <= 0 {
		return fmt.Errorf("xmeans: SplitOffset must be > 0, got %f", cfg.SplitOffset)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("xmeans: Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// Cluster performs X-Means clustering on data starting from initialCenters.
// Each data element is a point (float64 slice); all points and centers must
// have the same dimensionality. data is read but never mutated; initialCenters
// is copied. Returns an error if the config or inputs are invalid, or if a
// degenerate (empty) cluster arises during refinement.
func Cluster(data, initialCenters [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errors.New("xmeans: dataset must not be empty")
	}
	if len(initialCenters) == 0 {
		return nil, errors.New("xmeans: at least one initial center is required")
	}
	if len(initialCenters) > cfg.MaxClusters {
		return nil, fmt.Errorf("xmeans: %d initial centers exceed MaxClusters = %d",
			len(initialCenters), cfg.MaxClusters)
	}

	dims := len(data[0])
	if dims == 0 {
		return nil, errors.New("xmeans: points must have at least one dimension")
	}
	for i, p := range data {
		if len(p) != dims {
			return nil, fmt.Errorf("xmeans: point %d has dimension %d, want %d", i, len(p), dims)
		}
	}
	for i, c := range initialCenters {
		if len(c) != dims {
			return nil, fmt.Errorf("xmeans: initial center %d has dimension %d, want %d", i, len(c), dims)
		}
	}

	e := newEngine(data, initialCenters, cfg)
	if err := e.process(); err != nil {
		return nil, err
	}
	return &Result{Clusters: e.clusters, Centers: e.centers}, nil
}

// engine holds the working state of one clustering run: the borrowed dataset
// and the current center/cluster pair, index-aligned. A structure round
// replaces centers wholesale; the following refinement rebuilds clusters to
// match.
type engine struct {
	data     [][]float64
	centers  [][]float64
	clusters [][]int

	metric      DistanceMetric
	tolerance   float64 // squared when reduced
	reduced     bool
	maxClusters int
	splitOffset float64
	workers     int
}

func newEngine(data, initialCenters [][]float64, cfg Config) *engine {
	centers := make([][]float64, len(initialCenters))
	for i, c := range initialCenters {
		centers[i] = cloneVector(c)
	}

	tolerance := cfg.Tolerance
	if cfg.UseReducedDistance {
		// Reduced Euclidean is squared, so square the threshold once instead
		// of taking a root every iteration.
		tolerance *= tolerance
	}

	return &engine{
		data:        data,
		centers:     centers,
		metric:      cfg.Metric,
		tolerance:   tolerance,
		reduced:     cfg.UseReducedDistance,
		maxClusters: cfg.MaxClusters,
		splitOffset: cfg.SplitOffset,
		workers:     cfg.Workers,
	}
}

// process runs the refine-and-split loop to completion: full-dataset Lloyd's
// refinement, then a structure round that tests every cluster for a beneficial
// 2-way split. The loop stops when a structure round leaves the cluster count
// unchanged or the count has reached MaxClusters. A final refinement aligns
// the reported partition with the final centers.
func (e *engine) process() error {
	count := len(e.centers)
	for count < e.maxClusters {
		clusters, err := e.improveParameters(e.centers, nil)
		if err != nil {
			return err
		}
		e.clusters = clusters

		if err := e.improveStructure(); err != nil {
			return err
		}

		if count == len(e.centers) {
			break
		}
		count = len(e.centers)
	}

	clusters, err := e.improveParameters(e.centers, nil)
	if err != nil {
		return err
	}
	e.clusters = clusters
	return nil
}

// improveStructure runs a split trial for every current cluster and rebuilds
// the center set from the survivors, parents and children in cluster-index
// order. Cluster membership is left stale; callers refine afterwards.
func (e *engine) improveStructure() error {
	outcomes, err := e.runSplitTrials()
	if err != nil {
		return err
	}

	next := make([][]float64, 0, len(outcomes))
	for _, centers := range outcomes {
		next = append(next, centers...)
	}
	e.centers = next
	return nil
}

// splitTrial decides whether cluster index should split in two. It seeds two
// child centers by perturbing the parent center by ±SplitOffset along every
// dimension, refines them against the cluster's own members, and compares the
// criterion of the 1-cluster parent model against the refined 2-cluster child
// model. Returns the parent center when it scores strictly higher, else both
// child centers. Clusters too small to support a child model keep their
// parent without a trial.
func (e *engine) splitTrial(index int) ([][]float64, error) {
	members := e.clusters[index]
	parent := e.centers[index]

	if len(members) < minSplitMembers {
		return [][]float64{cloneVector(parent)}, nil
	}

	children := [][]float64{cloneVector(parent), cloneVector(parent)}
	for d := range parent {
		children[0][d] -= e.splitOffset
		children[1][d] += e.splitOffset
	}

	childClusters, err := e.improveParameters(children, members)
	if err != nil {
		return nil, fmt.Errorf("xmeans: split trial for cluster %d: %w", index, err)
	}

	parentScore, err := e.splittingCriterion([][]int{members}, [][]float64{parent})
	if err != nil {
		return nil, fmt.Errorf("xmeans: scoring cluster %d: %w", index, err)
	}
	childScore, err := e.splittingCriterion(childClusters, children)
	if err != nil {
		return nil, fmt.Errorf("xmeans: scoring children of cluster %d: %w", index, err)
	}

	if parentScore > childScore {
		return [][]float64{cloneVector(parent)}, nil
	}
	return children, nil
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
