package comparison

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"peoplestats/domain/evaluation"
	"peoplestats/internal/scoring"
)

// Pattern rule thresholds, in percentage points.
const (
	topBandThreshold    = 10.0
	referenceThreshold  = 10.0
	alignmentThreshold  = 10.0
	centerImbalanceGate = 15.0
)

// Comparator compares an individual frequency vector against a group vector.
// Stateless; safe for concurrent use.
type Comparator struct {
	scorer    *scoring.Engine
	model     scoring.Model
	normalize bool
}

// NewComparator creates a comparator that scores both arms with the given
// model and normalization.
func NewComparator(model scoring.Model, normalize bool) *Comparator {
	return &Comparator{scorer: scoring.NewEngine(), model: model, normalize: normalize}
}

// Compare runs the full individual-vs-group analysis. Malformed vectors fail
// with ErrInvalidFrequencyVector; well-formed six-length vectors never error,
// even when one or both arms are all zeros.
func (c *Comparator) Compare(individual, group evaluation.FrequencyVector) (Comparison, error) {
	if err := individual.Validate(); err != nil {
		return Comparison{}, err
	}
	if err := group.Validate(); err != nil {
		return Comparison{}, err
	}

	indScore := c.scorer.ScoreLenient(individual, c.model, c.normalize)
	grpScore := c.scorer.ScoreLenient(group, c.model, c.normalize)

	gaps := c.GapMetrics(individual, group)
	indEntropy := c.Entropy(individual)
	grpEntropy := c.Entropy(group)

	return Comparison{
		IndividualScore:    indScore,
		GroupScore:         grpScore,
		ScoreGap:           indScore - grpScore,
		IndividualCategory: c.scorer.Categorize(indScore, c.normalize),
		GroupCategory:      c.scorer.Categorize(grpScore, c.normalize),
		GapMetrics:         gaps,
		Significance:       c.Significance(individual, group),
		Concentration: Concentration{
			IndividualEntropy: indEntropy,
			GroupEntropy:      grpEntropy,
			EntropyDifference: indEntropy - grpEntropy,
		},
		GapDistribution: gapDistribution(gaps),
		Pattern:         c.ClassifyPattern(individual, group),
	}, nil
}

// GapMetrics computes per-category gaps between the two percentage
// distributions. Percentages keep the thresholds scale-invariant when the
// individual and group totals differ.
func (c *Comparator) GapMetrics(individual, group evaluation.FrequencyVector) GapMetrics {
	ind := individual.Percentages()
	grp := group.Percentages()

	m := GapMetrics{MaxPositiveIndex: -1, MaxNegativeIndex: -1}
	for i := 0; i < evaluation.VectorLength; i++ {
		gap := ind[i] - grp[i]
		m.Gaps[i] = gap
		m.AbsoluteGaps[i] = math.Abs(gap)
		m.TotalGap += gap
		m.TotalAbsoluteGap += math.Abs(gap)
		if gap > 0 && (m.MaxPositiveIndex == -1 || gap > m.MaxPositiveGap) {
			m.MaxPositiveGap = gap
			m.MaxPositiveIndex = i
		}
		if gap < 0 && (m.MaxNegativeIndex == -1 || gap < m.MaxNegativeGap) {
			m.MaxNegativeGap = gap
			m.MaxNegativeIndex = i
		}
	}
	return m
}

// Significance runs Welch's two-sample t-test, treating the frequency counts
// as weighted samples: each category index is repeated count times as a raw
// observation, with the n/a bucket excluded from both arms so the test
// compares expressed-opinion distributions only. Degenerate inputs resolve to
// a defaulted neutral result rather than an error.
func (c *Comparator) Significance(individual, group evaluation.FrequencyVector) SignificanceTest {
	indSample := expandSample(individual)
	grpSample := expandSample(group)

	if len(indSample) < 2 || len(grpSample) < 2 {
		return defaultedTest("fewer than 2 expressed responses in one arm")
	}

	meanInd, _ := stats.Mean(indSample)
	meanGrp, _ := stats.Mean(grpSample)
	varInd, _ := stats.SampleVariance(indSample)
	varGrp, _ := stats.SampleVariance(grpSample)

	n1 := float64(len(indSample))
	n2 := float64(len(grpSample))

	se := math.Sqrt(varInd/n1 + varGrp/n2)
	if se == 0 {
		return defaultedTest("zero variance in both arms")
	}

	tStat := (meanInd - meanGrp) / se

	// Welch-Satterthwaite degrees of freedom.
	df := math.Pow(varInd/n1+varGrp/n2, 2) /
		(math.Pow(varInd/n1, 2)/(n1-1) + math.Pow(varGrp/n2, 2)/(n2-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * (1 - tDist.CDF(math.Abs(tStat)))

	return SignificanceTest{
		TStatistic:    tStat,
		PValue:        pValue,
		Significance:  significanceBand(pValue),
		IsSignificant: pValue < 0.05,
	}
}

// Entropy computes the Shannon entropy (base 2) of the normalized
// distribution; 0 for an all-zero vector.
func (c *Comparator) Entropy(freq evaluation.FrequencyVector) float64 {
	v := freq.Lenient()
	total := v.Sum()
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, count := range v {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// ClassifyPattern labels the comparison shape with priority-ordered threshold
// rules over the two percentage distributions. First match wins.
func (c *Comparator) ClassifyPattern(individual, group evaluation.FrequencyVector) Pattern {
	ind := individual.Percentages()
	grp := group.Percentages()

	indTop := ind[evaluation.CategoryReference] + ind[evaluation.CategoryAlways]
	grpTop := grp[evaluation.CategoryReference] + grp[evaluation.CategoryAlways]
	indBottom := ind[evaluation.CategoryRarely] + ind[evaluation.CategorySeldom]
	grpBottom := grp[evaluation.CategoryRarely] + grp[evaluation.CategorySeldom]

	refGap := ind[evaluation.CategoryReference] - grp[evaluation.CategoryReference]
	centerGap := ind[evaluation.CategoryAlmostAlways] - grp[evaluation.CategoryAlmostAlways]

	totalAbsGap := 0.0
	for i := 0; i < evaluation.VectorLength; i++ {
		totalAbsGap += math.Abs(ind[i] - grp[i])
	}

	switch {
	case indTop > grpTop+topBandThreshold && indBottom < grpBottom:
		return PatternSuperior
	case indTop < grpTop-topBandThreshold && indBottom > grpBottom:
		return PatternInferior
	case refGap > referenceThreshold:
		return PatternReferenceExcess
	case refGap < -referenceThreshold:
		return PatternReferenceDeficit
	case totalAbsGap < alignmentThreshold:
		return PatternAligned
	case math.Abs(centerGap) > centerImbalanceGate:
		return PatternCenterImbalanced
	default:
		return PatternMixed
	}
}

// expandSample maps frequency counts to a raw sample: category index i
// repeated count[i] times, skipping the n/a bucket.
func expandSample(freq evaluation.FrequencyVector) []float64 {
	v := freq.Lenient()
	var out []float64
	for i := evaluation.CategoryReference; i < evaluation.VectorLength; i++ {
		for n := 0; n < v[i]; n++ {
			out = append(out, float64(i))
		}
	}
	return out
}

func significanceBand(p float64) string {
	switch {
	case p < 0.001:
		return "p < 0.001"
	case p < 0.01:
		return "p < 0.01"
	case p < 0.05:
		return "p < 0.05"
	case p < 0.1:
		return "p < 0.1"
	default:
		return "not significant"
	}
}

func defaultedTest(reason string) SignificanceTest {
	return SignificanceTest{
		TStatistic:    0,
		PValue:        1.0,
		Significance:  "not significant",
		IsSignificant: false,
		Defaulted:     true,
		Reason:        reason,
	}
}

func gapDistribution(m GapMetrics) GapDistribution {
	d := GapDistribution{}
	for _, gap := range m.Gaps {
		switch {
		case gap > 0:
			d.PositiveGaps++
		case gap < 0:
			d.NegativeGaps++
		default:
			d.NeutralGaps++
		}
	}
	d.GapRatio = float64(d.PositiveGaps-d.NegativeGaps) / float64(evaluation.VectorLength)
	return d
}
