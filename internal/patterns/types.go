package patterns

import (
	"peoplestats/domain/evaluation"
)

// ScoreSeries maps a behavior name to its numeric sample. Every sample must
// have the same length for correlation, clustering and PCA.
type ScoreSeries map[string][]float64

// CorrelationPair is one above-threshold behavior pairing.
type CorrelationPair struct {
	BehaviorA   string  `json:"behavior_a"`
	BehaviorB   string  `json:"behavior_b"`
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
}

// CorrelationResult holds the full Pearson matrix plus the reportable pairs.
// Names and matrix rows/columns share one ordering.
type CorrelationResult struct {
	Names  []string          `json:"names"`
	Matrix [][]float64       `json:"matrix"`
	Pairs  []CorrelationPair `json:"pairs"`
}

// Cluster is one group of similar behaviors.
type Cluster struct {
	ID        int      `json:"id"`
	Behaviors []string `json:"behaviors"`
	Size      int      `json:"size"`
}

// ClusterResult is a disjoint partition of the behavior set, clusters sorted
// by size descending.
type ClusterResult struct {
	NumClusters int       `json:"num_clusters"`
	Silhouette  float64   `json:"silhouette_score"`
	Algorithm   string    `json:"algorithm"`
	Clusters    []Cluster `json:"clusters"`
}

// ComponentLoading is a behavior's contribution to a principal component.
type ComponentLoading struct {
	Behavior        string  `json:"behavior"`
	Loading         float64 `json:"loading"`
	AbsoluteLoading float64 `json:"absolute_loading"`
	Direction       string  `json:"direction"`
}

// Component is one principal component with its dominant behaviors, sorted by
// descending absolute loading.
type Component struct {
	ID                     int                `json:"id"`
	ExplainedVarianceRatio float64            `json:"explained_variance_ratio"`
	Dominant               []ComponentLoading `json:"dominant_behaviors"`
}

// PCAResult is the ordered list of extracted principal components.
type PCAResult struct {
	NumComponents           int         `json:"n_components"`
	ExplainedVarianceRatios []float64   `json:"explained_variance_ratio"`
	TotalExplainedVariance  float64     `json:"total_explained_variance"`
	Components              []Component `json:"components"`
}

// Gap pattern bucket names.
const (
	BucketPositiveRef    = "positive_ref"
	BucketNegativeRef    = "negative_ref"
	BucketPositiveAcima  = "positive_acima"
	BucketNegativeAcima  = "negative_acima"
	BucketPositiveAbaixo = "positive_abaixo"
	BucketNegativeAbaixo = "negative_abaixo"
)

// Primary gap pattern labels for the averaged gap vector.
const (
	PrimaryReferenceDeficit    = "reference_deficit"
	PrimaryReferenceExcess     = "reference_excess"
	PrimaryUpperDeficit        = "upper_deficit"
	PrimaryLowerExcess         = "lower_excess"
	PrimaryGloballyAligned     = "globally_aligned"
	PrimaryCenterConcentration = "center_concentration"
	PrimaryMixed               = "mixed"
)

// GapPatternResult buckets behaviors by their category gaps and classifies a
// dominant pattern from the per-category averages.
type GapPatternResult struct {
	ConsistentPatterns   map[string][]string              `json:"consistent_patterns"`
	CategoryAvgGaps      [evaluation.VectorLength]float64 `json:"category_avg_gaps"`
	NumBehaviorsAnalyzed int                              `json:"num_behaviors_analyzed"`
	PrimaryPattern       string                           `json:"primary_pattern"`
}
