package patterns

import (
	"math"
	"math/rand"

	"peoplestats/domain/core"
)

// kmeansSeed fixes the initialization so identical inputs always give the
// same partition.
const kmeansSeed = 42

const (
	maxKMeansIterations = 100
	maxAutoClusters     = 5
)

// KMeansClusterer is the primary clustering strategy: centroid-based
// partitioning over the raw sample matrix with deterministic seeding. When k
// is not given it searches [2, min(5, n-1)] for the silhouette-best count.
type KMeansClusterer struct{}

// NewKMeansClusterer creates the primary clustering strategy.
func NewKMeansClusterer() *KMeansClusterer {
	return &KMeansClusterer{}
}

// Name implements ports.Clusterer.
func (c *KMeansClusterer) Name() string {
	return "kmeans"
}

// Partition implements ports.Clusterer.
func (c *KMeansClusterer) Partition(data [][]float64, k int) ([]int, int, error) {
	n := len(data)
	if n < 2 {
		return nil, 0, core.ErrInsufficientData
	}

	if k <= 0 {
		k = c.optimalClusterCount(data)
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	labels := c.run(data, k)
	return labels, k, nil
}

// optimalClusterCount brute-forces the candidate range and keeps the k with
// the highest silhouette score.
func (c *KMeansClusterer) optimalClusterCount(data [][]float64) int {
	n := len(data)
	maxK := n - 1
	if maxK > maxAutoClusters {
		maxK = maxAutoClusters
	}
	if maxK < 2 {
		return 1
	}

	bestK := 2
	bestScore := math.Inf(-1)
	for k := 2; k <= maxK; k++ {
		labels := c.run(data, k)
		score := silhouetteScore(data, labels, k)
		if score > bestScore {
			bestScore = score
			bestK = k
		}
	}
	return bestK
}

// run performs Lloyd's algorithm with seeded k-means++ initialization.
func (c *KMeansClusterer) run(data [][]float64, k int) []int {
	n := len(data)
	dims := len(data[0])
	rng := rand.New(rand.NewSource(kmeansSeed))

	centroids := initCentroids(data, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false

		// Assignment step.
		for i, point := range data {
			best := 0
			bestDist := math.Inf(1)
			for j, centroid := range centroids {
				d := squaredDistance(point, centroid)
				if d < bestDist {
					bestDist = d
					best = j
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		// Update step.
		counts := make([]int, k)
		next := make([][]float64, k)
		for j := range next {
			next[j] = make([]float64, dims)
		}
		for i, point := range data {
			counts[labels[i]]++
			for d, v := range point {
				next[labels[i]][d] += v
			}
		}
		for j := range next {
			if counts[j] == 0 {
				// Keep an emptied centroid where it was; the farthest
				// point migrates to it on a later assignment pass only if
				// it genuinely is closest, which keeps runs deterministic.
				next[j] = centroids[j]
				continue
			}
			for d := range next[j] {
				next[j][d] /= float64(counts[j])
			}
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	return labels
}

// initCentroids uses k-means++ seeding with the fixed rng.
func initCentroids(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, data[rng.Intn(n)])

	for len(centroids) < k {
		// Squared distance to the nearest already-chosen centroid.
		dists := make([]float64, n)
		total := 0.0
		for i, point := range data {
			min := math.Inf(1)
			for _, centroid := range centroids {
				if d := squaredDistance(point, centroid); d < min {
					min = d
				}
			}
			dists[i] = min
			total += min
		}

		if total == 0 {
			// All remaining points coincide with a centroid; pick by index.
			centroids = append(centroids, data[len(centroids)%n])
			continue
		}

		target := rng.Float64() * total
		acc := 0.0
		chosen := n - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, data[chosen])
	}

	return centroids
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// silhouetteScore computes the mean silhouette coefficient over all points.
// Points in singleton clusters contribute 0.
func silhouetteScore(data [][]float64, labels []int, numClusters int) float64 {
	n := len(data)
	if numClusters < 2 || n < 2 {
		return 0
	}

	clusterSizes := make([]int, numClusters)
	for _, label := range labels {
		clusterSizes[label]++
	}

	total := 0.0
	for i := range data {
		own := labels[i]
		if clusterSizes[own] < 2 {
			continue
		}

		// Mean intra-cluster distance (a) and smallest mean distance to
		// another cluster (b).
		sums := make([]float64, numClusters)
		for j := range data {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(squaredDistance(data[i], data[j]))
		}

		a := sums[own] / float64(clusterSizes[own]-1)
		b := math.Inf(1)
		for cl := 0; cl < numClusters; cl++ {
			if cl == own || clusterSizes[cl] == 0 {
				continue
			}
			if mean := sums[cl] / float64(clusterSizes[cl]); mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			continue
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			total += (b - a) / max
		}
	}

	return total / float64(n)
}
