package comparison

import (
	"peoplestats/domain/evaluation"
	"peoplestats/internal/scoring"
)

// GapMetrics summarizes per-category differences between an individual's and
// the group's percentage distributions.
type GapMetrics struct {
	Gaps             [evaluation.VectorLength]float64 `json:"gaps"`
	AbsoluteGaps     [evaluation.VectorLength]float64 `json:"absolute_gaps"`
	TotalGap         float64                          `json:"total_gap"`
	TotalAbsoluteGap float64                          `json:"total_absolute_gap"`
	MaxPositiveGap   float64                          `json:"max_positive_gap"`
	MaxNegativeGap   float64                          `json:"max_negative_gap"`
	// Category indices of the extreme gaps; -1 when no gap of that sign exists.
	MaxPositiveIndex int `json:"max_positive_index"`
	MaxNegativeIndex int `json:"max_negative_index"`
}

// SignificanceTest is the outcome of Welch's two-sample t-test between the
// individual and group samples.
type SignificanceTest struct {
	TStatistic    float64 `json:"t_statistic"`
	PValue        float64 `json:"p_value"`
	Significance  string  `json:"significance"`
	IsSignificant bool    `json:"is_significant"`
	// Defaulted marks results substituted because the inputs were degenerate
	// (too few expressed responses or zero variance). Reason says why, so a
	// caller can tell a computed neutral result from a recovered one.
	Defaulted bool   `json:"defaulted,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Concentration holds Shannon entropy (base 2) of each distribution.
type Concentration struct {
	IndividualEntropy float64 `json:"individual_entropy"`
	GroupEntropy      float64 `json:"group_entropy"`
	EntropyDifference float64 `json:"entropy_difference"`
}

// GapDistribution counts the sign of each category gap.
type GapDistribution struct {
	PositiveGaps int     `json:"positive_gaps"`
	NegativeGaps int     `json:"negative_gaps"`
	NeutralGaps  int     `json:"neutral_gaps"`
	GapRatio     float64 `json:"gap_ratio"`
}

// Pattern is a heuristic label for the shape of an individual-vs-group
// comparison, used by narrative reports. Not a statistical test.
type Pattern string

const (
	PatternSuperior         Pattern = "superior"
	PatternInferior         Pattern = "inferior"
	PatternReferenceExcess  Pattern = "reference_excess"
	PatternReferenceDeficit Pattern = "reference_deficit"
	PatternAligned          Pattern = "aligned"
	PatternCenterImbalanced Pattern = "center_imbalanced"
	PatternMixed            Pattern = "mixed"
)

// Comparison is the full output of comparing an individual vector against a
// group vector.
type Comparison struct {
	IndividualScore    float64          `json:"individual_score"`
	GroupScore         float64          `json:"group_score"`
	ScoreGap           float64          `json:"score_gap"`
	IndividualCategory scoring.Category `json:"individual_category"`
	GroupCategory      scoring.Category `json:"group_category"`
	GapMetrics         GapMetrics       `json:"gap_metrics"`
	Significance       SignificanceTest `json:"significance_test"`
	Concentration      Concentration    `json:"concentration"`
	GapDistribution    GapDistribution  `json:"gap_distribution"`
	Pattern            Pattern          `json:"pattern"`
}
