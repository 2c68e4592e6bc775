package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplestats/domain/core"
)

func TestPCA(t *testing.T) {
	a := newTestAnalyzer()
	series := ScoreSeries{
		"alpha": {1, 2, 3, 4},
		"beta":  {2, 4, 6, 8},
		"gamma": {4, 3, 2, 1},
	}

	result, err := a.PCA(series, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NumComponents)
	require.Len(t, result.Components, 2)
	require.Len(t, result.ExplainedVarianceRatios, 2)

	// Ratios are ordered and bounded.
	assert.GreaterOrEqual(t, result.ExplainedVarianceRatios[0], result.ExplainedVarianceRatios[1])
	assert.LessOrEqual(t, result.TotalExplainedVariance, 1.0+1e-9)

	// Perfectly collinear series load onto one dominant component.
	assert.InDelta(t, 1.0, result.ExplainedVarianceRatios[0], 1e-9)

	first := result.Components[0]
	require.NotEmpty(t, first.Dominant)
	for i := 1; i < len(first.Dominant); i++ {
		assert.GreaterOrEqual(t, first.Dominant[i-1].AbsoluteLoading, first.Dominant[i].AbsoluteLoading)
	}
	for _, d := range first.Dominant {
		assert.Greater(t, d.AbsoluteLoading, dominantLoadingThreshold)
	}
}

func TestPCA_ClampsComponentCount(t *testing.T) {
	a := newTestAnalyzer()
	series := ScoreSeries{
		"alpha": {1, 2, 3, 4},
		"beta":  {2, 1, 4, 3},
	}

	result, err := a.PCA(series, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, result.NumComponents, 2)
	assert.Len(t, result.Components, result.NumComponents)
}

func TestPCA_InsufficientData(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.PCA(ScoreSeries{}, 2)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = a.PCA(ScoreSeries{"alpha": {1}, "beta": {2}}, 2)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestPCA_SampleLengthMismatch(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.PCA(ScoreSeries{"alpha": {1, 2, 3}, "beta": {1, 2}}, 2)
	assert.ErrorIs(t, err, core.ErrIncompatibleSampleLength)
}
