package xmeans

import "sync"

// runSplitTrials evaluates a split trial for every current cluster and returns
// the surviving centers per cluster, in cluster-index order. With Workers > 1
// the trials are sharded across goroutines; each trial reads only the
// immutable dataset and its own cluster's member list and writes only its own
// slot, so no synchronization is needed for writes and the result is identical
// to the sequential path.
func (e *engine) runSplitTrials() ([][][]float64, error) {
	count := len(e.clusters)

	if e.workers <= 1 || count <= 1 {
		out := make([][][]float64, count)
		for i := 0; i < count; i++ {
			centers, err := e.splitTrial(i)
			if err != nil {
				return nil, err
			}
			out[i] = centers
		}
		return out, nil
	}

	out := make([][][]float64, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	perWorker := (count + e.workers - 1) / e.workers

	for w := 0; w < e.workers; w++ {
		start := w * perWorker
		end := min(start+perWorker, count)
		if start >= count {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i], errs[i] = e.splitTrial(i)
			}
		}(start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
