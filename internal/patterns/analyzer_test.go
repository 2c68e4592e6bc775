package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplestats/domain/core"
	"peoplestats/domain/evaluation"
	"peoplestats/internal/comparison"
	"peoplestats/internal/scoring"
)

func newTestAnalyzer() *Analyzer {
	comparator := comparison.NewComparator(scoring.ModelNPS, false)
	return NewAnalyzer(NewKMeansClusterer(), comparator)
}

func TestCorrelationMatrix(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.CorrelationMatrix(ScoreSeries{
		"alpha": {1, 2, 3},
		"beta":  {2, 4, 6},
		"gamma": {3, 2, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, result.Names)

	// Unit diagonal, symmetric.
	n := len(result.Names)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1.0, result.Matrix[i][i], 1e-9)
		for j := 0; j < n; j++ {
			assert.InDelta(t, result.Matrix[j][i], result.Matrix[i][j], 1e-9)
		}
	}

	assert.InDelta(t, 1.0, result.Matrix[0][1], 1e-9)
	assert.InDelta(t, -1.0, result.Matrix[0][2], 1e-9)

	require.Len(t, result.Pairs, 3)
	for _, p := range result.Pairs {
		assert.Equal(t, "very_strong", p.Strength)
	}
	// Equal |r| falls back to name ordering.
	assert.Equal(t, "alpha", result.Pairs[0].BehaviorA)
	assert.Equal(t, "beta", result.Pairs[0].BehaviorB)
	assert.Equal(t, "positive", result.Pairs[0].Direction)
	assert.Equal(t, "negative", result.Pairs[1].Direction)
}

func TestCorrelationMatrix_SampleLengthMismatch(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.CorrelationMatrix(ScoreSeries{
		"alpha": {1, 2, 3},
		"beta":  {1, 2},
	})
	assert.ErrorIs(t, err, core.ErrIncompatibleSampleLength)
}

func TestCorrelationMatrix_ConstantSeries(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.CorrelationMatrix(ScoreSeries{
		"flat":  {5, 5, 5},
		"slope": {1, 2, 3},
	})
	require.NoError(t, err)

	// Zero variance has no defined correlation; it is reported as 0.
	assert.Zero(t, result.Matrix[0][1])
	assert.Empty(t, result.Pairs)
}

func TestCorrelationMatrix_Deterministic(t *testing.T) {
	a := newTestAnalyzer()
	series := ScoreSeries{
		"c": {1, 5, 2, 4},
		"a": {2, 3, 1, 5},
		"b": {5, 1, 4, 2},
	}

	first, err := a.CorrelationMatrix(series)
	require.NoError(t, err)
	second, err := a.CorrelationMatrix(series)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCluster_SingleBehavior(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Cluster(ScoreSeries{"solo": {1, 2, 3}}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NumClusters)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, []string{"solo"}, result.Clusters[0].Behaviors)
	assert.Zero(t, result.Silhouette)
}

func TestCluster_SeparatedGroups(t *testing.T) {
	a := newTestAnalyzer()
	series := ScoreSeries{
		"a1": {0, 0, 0},
		"a2": {0.1, 0, 0},
		"b1": {10, 10, 10},
		"b2": {10.1, 10, 10},
	}

	result, err := a.Cluster(series, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NumClusters)
	assert.Equal(t, "kmeans", result.Algorithm)
	assert.Greater(t, result.Silhouette, 0.5)

	// Every behavior lands in exactly one cluster.
	seen := map[string]bool{}
	for _, cl := range result.Clusters {
		assert.Equal(t, len(cl.Behaviors), cl.Size)
		for _, b := range cl.Behaviors {
			assert.False(t, seen[b], "behavior %s assigned twice", b)
			seen[b] = true
		}
	}
	assert.Len(t, seen, 4)

	// Well-separated points must not share a cluster across groups.
	labels := map[string]int{}
	for _, cl := range result.Clusters {
		for _, b := range cl.Behaviors {
			labels[b] = cl.ID
		}
	}
	assert.Equal(t, labels["a1"], labels["a2"])
	assert.Equal(t, labels["b1"], labels["b2"])
	assert.NotEqual(t, labels["a1"], labels["b1"])
}

func TestCluster_AutoSelectsCount(t *testing.T) {
	a := newTestAnalyzer()
	series := ScoreSeries{
		"a1": {0, 0, 0},
		"a2": {0.2, 0, 0},
		"b1": {10, 10, 10},
		"b2": {10.2, 10, 10},
	}

	result, err := a.Cluster(series, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NumClusters)
}

func TestCluster_SortedBySizeDescending(t *testing.T) {
	a := newTestAnalyzer()
	series := ScoreSeries{
		"a1": {0, 0, 0},
		"a2": {0.1, 0, 0},
		"a3": {0.2, 0, 0},
		"b1": {10, 10, 10},
	}

	result, err := a.Cluster(series, 2)
	require.NoError(t, err)
	require.Len(t, result.Clusters, 2)
	assert.GreaterOrEqual(t, result.Clusters[0].Size, result.Clusters[1].Size)
}

func TestThresholdClusterer(t *testing.T) {
	comparator := comparison.NewComparator(scoring.ModelNPS, false)
	a := NewAnalyzer(NewThresholdClusterer(), comparator)

	result, err := a.Cluster(ScoreSeries{
		"alpha": {1, 2, 3},
		"beta":  {2, 4, 6},
		"gamma": {1, 3, 2},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "correlation_threshold", result.Algorithm)
	assert.Equal(t, 2, result.NumClusters)

	labels := map[string]int{}
	for _, cl := range result.Clusters {
		for _, b := range cl.Behaviors {
			labels[b] = cl.ID
		}
	}
	assert.Equal(t, labels["alpha"], labels["beta"])
	assert.NotEqual(t, labels["alpha"], labels["gamma"])
}

func TestThresholdClusterer_TooFewRows(t *testing.T) {
	c := NewThresholdClusterer()
	_, _, err := c.Partition([][]float64{{1, 2}}, 0)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestGapPatterns(t *testing.T) {
	a := newTestAnalyzer()

	individual := map[string]evaluation.FrequencyVector{
		"ref_heavy": {0, 30, 40, 30, 0, 0},
		"low_heavy": {0, 10, 10, 30, 30, 20},
	}
	group := map[string]evaluation.FrequencyVector{
		"ref_heavy": {0, 10, 40, 30, 10, 10},
		"low_heavy": {0, 10, 30, 40, 10, 10},
		"unmatched": {0, 0, 0, 0, 0, 100},
	}

	result := a.GapPatterns(individual, group)

	assert.Equal(t, 2, result.NumBehaviorsAnalyzed)
	assert.Contains(t, result.ConsistentPatterns[BucketPositiveRef], "ref_heavy")
	assert.Contains(t, result.ConsistentPatterns[BucketNegativeAcima], "low_heavy")
	assert.Contains(t, result.ConsistentPatterns[BucketPositiveAbaixo], "low_heavy")
	assert.NotEmpty(t, result.PrimaryPattern)
}

func TestGapPatterns_Empty(t *testing.T) {
	a := newTestAnalyzer()

	result := a.GapPatterns(nil, nil)
	assert.Zero(t, result.NumBehaviorsAnalyzed)
	assert.Equal(t, PrimaryGloballyAligned, result.PrimaryPattern)
}

func TestPrimaryGapPattern(t *testing.T) {
	cases := []struct {
		name string
		gaps [evaluation.VectorLength]float64
		want string
	}{
		{"reference deficit", [evaluation.VectorLength]float64{0, -15, 0, 0, 0, 0}, PrimaryReferenceDeficit},
		{"reference excess", [evaluation.VectorLength]float64{0, 15, 0, 0, 0, 0}, PrimaryReferenceExcess},
		{"upper deficit", [evaluation.VectorLength]float64{0, -7, -12, 25, 0, 0}, PrimaryUpperDeficit},
		{"lower excess", [evaluation.VectorLength]float64{0, 0, 0, 5, 8, 2}, PrimaryLowerExcess},
		{"globally aligned", [evaluation.VectorLength]float64{0, 2, -3, 1, 2, -1}, PrimaryGloballyAligned},
		{"center concentration", [evaluation.VectorLength]float64{0, -5, -8, 30, 0, 0}, PrimaryCenterConcentration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, primaryGapPattern(tc.gaps))
		})
	}
}
