package patterns

import (
	"math"

	"peoplestats/domain/core"
)

// ThresholdClusterer is the fallback strategy: greedy correlation-threshold
// grouping. It produces the same result shape as k-means but not necessarily
// the same partition. Used where a centroid partitioner is unwanted (tiny
// behavior sets, degenerate samples).
type ThresholdClusterer struct{}

// NewThresholdClusterer creates the fallback clustering strategy.
func NewThresholdClusterer() *ThresholdClusterer {
	return &ThresholdClusterer{}
}

// Name implements ports.Clusterer.
func (c *ThresholdClusterer) Name() string {
	return "correlation_threshold"
}

// Partition implements ports.Clusterer. The requested k is ignored; the
// number of clusters emerges from the grouping.
func (c *ThresholdClusterer) Partition(data [][]float64, _ int) ([]int, int, error) {
	n := len(data)
	if n < 2 {
		return nil, 0, core.ErrInsufficientData
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	// Rows arrive in sorted-name order, so seeding clusters by ascending
	// index keeps the partition deterministic.
	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != -1 {
			continue
		}
		labels[i] = next
		for j := i + 1; j < n; j++ {
			if labels[j] != -1 {
				continue
			}
			if math.Abs(pearson(data[i], data[j])) > strongPairThreshold {
				labels[j] = next
			}
		}
		next++
	}

	return labels, next, nil
}
