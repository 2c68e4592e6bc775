package ports

// Clusterer partitions behavior sample rows into groups. Implementations must
// be deterministic: identical inputs yield identical labels.
type Clusterer interface {
	// Name identifies the algorithm in result payloads.
	Name() string
	// Partition assigns a cluster label (0..numClusters-1) to each row of
	// data. A k of zero or less asks the implementation to choose; the
	// threshold fallback ignores k entirely.
	Partition(data [][]float64, k int) (labels []int, numClusters int, err error)
}
