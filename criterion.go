package xmeans

import (
	"fmt"
	"math"
)

// splittingCriterion computes the BIC-style score of one candidate model of
// the data: a partition into clusters with index-aligned centers. Higher is
// better. The score follows the X-Means paper: a pooled variance estimate
// sigma shared across all clusters of the candidate, then a per-cluster
// Gaussian log-likelihood term summed over the clusters.
//
// The formula is not scale-invariant, so it always uses true distances, never
// the reduced form. It is a pure function of its inputs.
func (e *engine) splittingCriterion(clusters [][]int, centers [][]float64) (float64, error) {
	k := len(centers)
	dims := float64(len(centers[0]))

	var n int
	var sigma float64
	for i, members := range clusters {
		if len(members) == 0 {
			return 0, fmt.Errorf("xmeans: %w: cluster %d is empty in criterion",
				ErrDegenerateCluster, i)
		}
		for _, idx := range members {
			sigma += e.metric.Distance(e.data[idx], centers[i])
		}
		n += len(members)
	}

	if n <= k {
		return 0, fmt.Errorf("xmeans: %w: %d points cannot support a %d-cluster model",
			ErrDegenerateCluster, n, k)
	}
	sigma /= float64(n - k)

	logN := math.Log(float64(n))
	logSigma := math.Log(sigma)

	var score float64
	for _, members := range clusters {
		ni := float64(len(members))
		score += ni*math.Log(ni) - ni*logN -
			ni*math.Log(2*math.Pi)/2 - ni*dims*logSigma/2 - (ni-float64(k))/2
	}
	return score, nil
}
