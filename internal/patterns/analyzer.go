package patterns

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"peoplestats/domain/core"
	"peoplestats/domain/evaluation"
	"peoplestats/internal/comparison"
	"peoplestats/ports"
)

// Correlation reporting thresholds.
const (
	pairReportThreshold = 0.2
	strongPairThreshold = 0.6
)

// Gap pattern bucket thresholds, in percentage points.
const (
	refBucketThreshold   = 10.0
	acimaBucketThreshold = 10.0
	belowBucketThreshold = 5.0
)

// Analyzer detects structure across a person's behavior score series:
// pairwise correlation, clustering and principal components. Stateless apart
// from the injected clustering strategy; safe for concurrent use.
type Analyzer struct {
	clusterer  ports.Clusterer
	comparator *comparison.Comparator
}

// NewAnalyzer creates an analyzer with the given clustering strategy. The
// strategy is chosen at construction so business logic stays free of
// capability checks.
func NewAnalyzer(clusterer ports.Clusterer, comparator *comparison.Comparator) *Analyzer {
	return &Analyzer{clusterer: clusterer, comparator: comparator}
}

// sortedNames gives the one deterministic ordering shared by matrix rows,
// columns and the names list.
func sortedNames(series ScoreSeries) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sampleMatrix validates equal sample lengths and lays the series out as one
// row per behavior, in sorted-name order.
func sampleMatrix(series ScoreSeries, names []string) ([][]float64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	want := len(series[names[0]])
	rows := make([][]float64, len(names))
	for i, name := range names {
		sample := series[name]
		if len(sample) != want {
			return nil, core.NewSampleLengthError(name, want, len(sample))
		}
		rows[i] = sample
	}
	return rows, nil
}

// CorrelationMatrix computes the Pearson correlation between every behavior
// pair, plus a flattened list of pairs above the reporting threshold. Fails
// with ErrIncompatibleSampleLength when the samples disagree in length.
func (a *Analyzer) CorrelationMatrix(series ScoreSeries) (CorrelationResult, error) {
	names := sortedNames(series)
	rows, err := sampleMatrix(series, names)
	if err != nil {
		return CorrelationResult{}, err
	}

	n := len(names)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	result := CorrelationResult{Names: names, Matrix: matrix, Pairs: []CorrelationPair{}}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(rows[i], rows[j])
			matrix[i][j] = r
			matrix[j][i] = r

			if math.Abs(r) <= pairReportThreshold {
				continue
			}
			direction := "positive"
			if r < 0 {
				direction = "negative"
			}
			result.Pairs = append(result.Pairs, CorrelationPair{
				BehaviorA:   names[i],
				BehaviorB:   names[j],
				Coefficient: r,
				Strength:    strengthBand(r),
				Direction:   direction,
			})
		}
	}

	// Strongest first; ties broken by name so output is reproducible.
	sort.SliceStable(result.Pairs, func(x, y int) bool {
		ax, ay := math.Abs(result.Pairs[x].Coefficient), math.Abs(result.Pairs[y].Coefficient)
		if ax != ay {
			return ax > ay
		}
		if result.Pairs[x].BehaviorA != result.Pairs[y].BehaviorA {
			return result.Pairs[x].BehaviorA < result.Pairs[y].BehaviorA
		}
		return result.Pairs[x].BehaviorB < result.Pairs[y].BehaviorB
	})

	return result, nil
}

// pearson wraps gonum's correlation, mapping the zero-variance NaN case to 0.
func pearson(x, y []float64) float64 {
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

func strengthBand(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs > 0.8:
		return "very_strong"
	case abs > 0.6:
		return "strong"
	case abs > 0.4:
		return "moderate"
	default:
		return "weak"
	}
}

// Cluster partitions the behaviors into similarity groups. With fewer than
// two behaviors it returns a single cluster holding everything. A k of zero
// lets the strategy pick the best count.
func (a *Analyzer) Cluster(series ScoreSeries, k int) (ClusterResult, error) {
	names := sortedNames(series)
	rows, err := sampleMatrix(series, names)
	if err != nil {
		return ClusterResult{}, err
	}

	if len(names) < 2 {
		members := make([]string, len(names))
		copy(members, names)
		return ClusterResult{
			NumClusters: 1,
			Algorithm:   a.clusterer.Name(),
			Clusters:    []Cluster{{ID: 0, Behaviors: members, Size: len(members)}},
		}, nil
	}

	labels, numClusters, err := a.clusterer.Partition(rows, k)
	if err != nil {
		return ClusterResult{}, err
	}

	groups := make([][]string, numClusters)
	for i, label := range labels {
		groups[label] = append(groups[label], names[i])
	}

	result := ClusterResult{
		NumClusters: numClusters,
		Algorithm:   a.clusterer.Name(),
	}
	if numClusters > 1 {
		result.Silhouette = silhouetteScore(rows, labels, numClusters)
	}
	for id, members := range groups {
		result.Clusters = append(result.Clusters, Cluster{ID: id, Behaviors: members, Size: len(members)})
	}
	sort.SliceStable(result.Clusters, func(i, j int) bool {
		return result.Clusters[i].Size > result.Clusters[j].Size
	})

	return result, nil
}

// GapPatterns buckets behaviors by where their individual-vs-group percentage
// gaps concentrate, then classifies one dominant pattern from the averaged
// gap vector. Behaviors missing from either map are skipped, not errors.
func (a *Analyzer) GapPatterns(individual, group map[string]evaluation.FrequencyVector) GapPatternResult {
	result := GapPatternResult{
		ConsistentPatterns: map[string][]string{
			BucketPositiveRef:    {},
			BucketNegativeRef:    {},
			BucketPositiveAcima:  {},
			BucketNegativeAcima:  {},
			BucketPositiveAbaixo: {},
			BucketNegativeAbaixo: {},
		},
	}

	names := make([]string, 0, len(individual))
	for name := range individual {
		if _, ok := group[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		gaps := a.comparator.GapMetrics(individual[name], group[name]).Gaps

		refGap := gaps[evaluation.CategoryReference]
		acimaGap := gaps[evaluation.CategoryAlways]
		abaixoGap := gaps[evaluation.CategoryRarely]
		muitoAbaixoGap := gaps[evaluation.CategorySeldom]

		if refGap > refBucketThreshold {
			result.ConsistentPatterns[BucketPositiveRef] = append(result.ConsistentPatterns[BucketPositiveRef], name)
		} else if refGap < -refBucketThreshold {
			result.ConsistentPatterns[BucketNegativeRef] = append(result.ConsistentPatterns[BucketNegativeRef], name)
		}

		if acimaGap > acimaBucketThreshold {
			result.ConsistentPatterns[BucketPositiveAcima] = append(result.ConsistentPatterns[BucketPositiveAcima], name)
		} else if acimaGap < -acimaBucketThreshold {
			result.ConsistentPatterns[BucketNegativeAcima] = append(result.ConsistentPatterns[BucketNegativeAcima], name)
		}

		// The negative bucket requires both below-bands to be negative.
		if abaixoGap > belowBucketThreshold || muitoAbaixoGap > belowBucketThreshold {
			result.ConsistentPatterns[BucketPositiveAbaixo] = append(result.ConsistentPatterns[BucketPositiveAbaixo], name)
		} else if abaixoGap < -belowBucketThreshold && muitoAbaixoGap < -belowBucketThreshold {
			result.ConsistentPatterns[BucketNegativeAbaixo] = append(result.ConsistentPatterns[BucketNegativeAbaixo], name)
		}

		for i, gap := range gaps {
			result.CategoryAvgGaps[i] += gap
		}
		result.NumBehaviorsAnalyzed++
	}

	if result.NumBehaviorsAnalyzed > 0 {
		for i := range result.CategoryAvgGaps {
			result.CategoryAvgGaps[i] /= float64(result.NumBehaviorsAnalyzed)
		}
	}
	result.PrimaryPattern = primaryGapPattern(result.CategoryAvgGaps)

	return result
}

// primaryGapPattern classifies the averaged gap vector with priority-ordered
// rules; first match wins.
func primaryGapPattern(gaps [evaluation.VectorLength]float64) string {
	ref := gaps[evaluation.CategoryReference]
	acima := gaps[evaluation.CategoryAlways]
	dentro := gaps[evaluation.CategoryAlmostAlways]
	abaixo := gaps[evaluation.CategoryRarely]
	muitoAbaixo := gaps[evaluation.CategorySeldom]

	sum := ref + acima + dentro + abaixo + muitoAbaixo

	switch {
	case ref < -10:
		return PrimaryReferenceDeficit
	case ref > 10:
		return PrimaryReferenceExcess
	case acima < -10 && ref < -5:
		return PrimaryUpperDeficit
	case abaixo > 5 || muitoAbaixo > 5:
		return PrimaryLowerExcess
	case math.Abs(sum) < 10:
		return PrimaryGloballyAligned
	case dentro > 10 && ref < 0 && acima < 0:
		return PrimaryCenterConcentration
	default:
		return PrimaryMixed
	}
}
