package scoring

import (
	"peoplestats/domain/evaluation"
)

// Model selects the weighting scheme applied to a frequency vector.
type Model string

const (
	// ModelTraditional is a weighted mean biased toward the always /
	// almost-always categories. All six positions count in the denominator.
	ModelTraditional Model = "traditional"
	// ModelNPS separates promoter-like categories (positive weights) from
	// detractor-like ones (negative weights) and excludes the n/a bucket
	// from the denominator, so scores can be negative.
	ModelNPS Model = "nps"
)

var (
	traditionalWeights = [evaluation.VectorLength]float64{0, 2.5, 4, 3, 2, 1}
	npsWeights         = [evaluation.VectorLength]float64{0, 2, 10, 5, -5, -10}
)

// Score domain bounds per model.
const (
	TraditionalMin = 0.0
	TraditionalMax = 4.0
	NPSMin         = -10.0
	NPSMax         = 10.0
)

// neutral defaults returned when a vector carries no usable responses
const (
	neutralRaw        = 0.0
	neutralNormalized = 50.0
)

// Engine converts frequency vectors into scalar scores. It is stateless and
// safe for concurrent use.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the scalar score for a strict six-category vector. A wrong
// length or negative count fails with ErrInvalidFrequencyVector; a zero-sum
// vector resolves to the model's neutral default instead of erroring.
func (e *Engine) Score(freq evaluation.FrequencyVector, model Model, normalize bool) (float64, error) {
	if err := freq.Validate(); err != nil {
		return 0, err
	}
	return e.score(freq, model, normalize), nil
}

// ScoreLenient pads or truncates the vector to six categories and never
// fails. It exists for historically malformed records.
func (e *Engine) ScoreLenient(freq evaluation.FrequencyVector, model Model, normalize bool) float64 {
	return e.score(freq.Lenient(), model, normalize)
}

func (e *Engine) score(freq evaluation.FrequencyVector, model Model, normalize bool) float64 {
	switch model {
	case ModelNPS:
		return e.npsScore(freq, normalize)
	default:
		return e.traditionalScore(freq, normalize)
	}
}

func (e *Engine) traditionalScore(freq evaluation.FrequencyVector, normalize bool) float64 {
	weighted := 0.0
	total := 0
	for i, c := range freq {
		weighted += float64(c) * traditionalWeights[i]
		total += c
	}
	if total == 0 {
		return neutralRaw
	}
	raw := weighted / float64(total)
	if normalize {
		// Map the [0,4] domain onto [0,100].
		return raw / TraditionalMax * 100
	}
	return raw
}

func (e *Engine) npsScore(freq evaluation.FrequencyVector, normalize bool) float64 {
	weighted := 0.0
	total := 0
	// The n/a bucket (position 0) is excluded from the denominator.
	for i := evaluation.CategoryReference; i < evaluation.VectorLength; i++ {
		weighted += float64(freq[i]) * npsWeights[i]
		total += freq[i]
	}
	if total == 0 {
		if normalize {
			return neutralNormalized
		}
		return neutralRaw
	}
	raw := weighted / float64(total)
	if normalize {
		return Normalize(raw)
	}
	return raw
}

// Normalize rescales a raw NPS score from [-10,10] onto [0,100].
func Normalize(raw float64) float64 {
	return 50 + raw*5
}

// Distribution converts a vector's counts into a label -> percentage mapping.
// A zero-sum vector yields an all-zero mapping, not an error.
func (e *Engine) Distribution(freq evaluation.FrequencyVector) map[string]float64 {
	out := make(map[string]float64, evaluation.VectorLength)
	percentages := freq.Percentages()
	for i, label := range evaluation.CategoryLabels {
		out[label] = percentages[i]
	}
	return out
}
