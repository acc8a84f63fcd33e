// Package xmeans implements X-Means clustering (Pelleg & Moore, 2000).
//
// X-Means extends K-Means by discovering the number of clusters on its own.
// Starting from a small set of initial centers, it alternates classic Lloyd's
// refinement with a structural search that tries to split every cluster in two
// and keeps the split only when a BIC-style criterion says the two-cluster
// model describes the cluster's points better than the one-cluster model.
// Splitting stops once no cluster wants to split or the configured maximum
// cluster count is reached.
//
// Basic usage:
//
//	cfg := xmeans.DefaultConfig()
//	cfg.MaxClusters = 10
//	result, err := xmeans.Cluster(data, [][]float64{{0, 0}}, cfg)
//	// result.Clusters[i] holds the dataset indices assigned to cluster i
//	// result.Centers[i] is the final center of cluster i
//
// The package also provides AdjacencyList, a fixed-size directed neighbor-set
// collection reusable by graph-based clustering methods. It is independent of
// the X-Means flow.
package xmeans
