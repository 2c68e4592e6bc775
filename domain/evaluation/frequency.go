package evaluation

import (
	"peoplestats/domain/core"
)

// VectorLength is the fixed number of response categories in an evaluation.
const VectorLength = 6

// Category indices into a FrequencyVector. Positions are fixed and meaningful.
const (
	CategoryNotApplicable = iota
	CategoryReference
	CategoryAlways
	CategoryAlmostAlways
	CategoryRarely
	CategorySeldom
)

// CategoryLabels are the canonical response-category names, by vector position.
var CategoryLabels = [VectorLength]string{
	"n/a",
	"referencia",
	"sempre",
	"quase sempre",
	"poucas vezes",
	"raramente",
}

// FrequencyVector is an ordered count of responses per category. The strict
// scoring API requires exactly VectorLength entries; Lenient repairs anything
// else.
type FrequencyVector []int

// Validate checks the strict contract: exactly six non-negative counts.
func (f FrequencyVector) Validate() error {
	if len(f) != VectorLength {
		return core.NewInvalidVectorError(len(f))
	}
	for _, c := range f {
		if c < 0 {
			return core.NewInvalidVectorError(len(f))
		}
	}
	return nil
}

// Lenient returns a copy padded with zeros or truncated to VectorLength.
// It never fails; negative counts are clamped to zero.
func (f FrequencyVector) Lenient() FrequencyVector {
	out := make(FrequencyVector, VectorLength)
	for i := 0; i < VectorLength && i < len(f); i++ {
		if f[i] > 0 {
			out[i] = f[i]
		}
	}
	return out
}

// Sum returns the total response count across all categories.
func (f FrequencyVector) Sum() int {
	total := 0
	for _, c := range f {
		total += c
	}
	return total
}

// IsZero reports whether the vector holds no responses at all.
func (f FrequencyVector) IsZero() bool {
	return f.Sum() == 0
}

// Percentages converts counts to per-category percentages of the total.
// A zero-sum vector yields all zeros, not an error.
func (f FrequencyVector) Percentages() [VectorLength]float64 {
	var out [VectorLength]float64
	v := f.Lenient()
	total := v.Sum()
	if total == 0 {
		return out
	}
	for i, c := range v {
		out[i] = float64(c) / float64(total) * 100
	}
	return out
}

// Clone returns an independent copy of the vector.
func (f FrequencyVector) Clone() FrequencyVector {
	out := make(FrequencyVector, len(f))
	copy(out, f)
	return out
}
