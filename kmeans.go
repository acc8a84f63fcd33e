package xmeans

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// improveParameters runs Lloyd's refinement against centers, mutating them in
// place, and returns the converged cluster membership. When subset is non-nil
// only those dataset indices participate; otherwise the full dataset does.
// Each iteration assigns every participating point to its nearest center and
// recomputes each center as the mean of its members, until the maximum center
// movement falls to the tolerance or below.
func (e *engine) improveParameters(centers [][]float64, subset []int) ([][]int, error) {
	change := math.Inf(1)

	var clusters [][]int
	for change > e.tolerance {
		clusters = e.assignClusters(centers, subset)

		var err error
		change, err = e.updateCenters(clusters, centers)
		if err != nil {
			return nil, err
		}
	}
	return clusters, nil
}

// assignClusters distributes the participating dataset indices among the
// centers by nearest distance.
func (e *engine) assignClusters(centers [][]float64, subset []int) [][]int {
	clusters := make([][]int, len(centers))

	if subset == nil {
		for i := range e.data {
			c := e.nearestCenter(centers, e.data[i])
			clusters[c] = append(clusters[c], i)
		}
		return clusters
	}

	for _, i := range subset {
		c := e.nearestCenter(centers, e.data[i])
		clusters[c] = append(clusters[c], i)
	}
	return clusters
}

// nearestCenter returns the index of the center closest to point. Ties go to
// the lowest center index: the comparison is strict, so a later center must be
// strictly closer to win.
func (e *engine) nearestCenter(centers [][]float64, point []float64) int {
	best := 0
	bestDist := math.Inf(1)

	for i, c := range centers {
		var d float64
		if e.reduced {
			d = e.metric.ReducedDistance(point, c)
		} else {
			d = e.metric.Distance(point, c)
		}
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// updateCenters recomputes every center as the coordinate-wise mean of its
// cluster's member points and returns the maximum distance any center moved.
// A cluster with no members has no mean; that surfaces as an
// ErrDegenerateCluster-wrapped error rather than a division by zero.
func (e *engine) updateCenters(clusters [][]int, centers [][]float64) (float64, error) {
	var maxChange float64
	total := make([]float64, len(centers[0]))

	for i, members := range clusters {
		if len(members) == 0 {
			return 0, fmt.Errorf("xmeans: %w: cluster %d has no members in mean update",
				ErrDegenerateCluster, i)
		}

		for d := range total {
			total[d] = 0
		}
		for _, idx := range members {
			floats.Add(total, e.data[idx])
		}
		floats.Scale(1/float64(len(members)), total)

		var change float64
		if e.reduced {
			change = e.metric.ReducedDistance(centers[i], total)
		} else {
			change = e.metric.Distance(centers[i], total)
		}
		if change > maxChange {
			maxChange = change
		}

		copy(centers[i], total)
	}
	return maxChange, nil
}
