package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplestats/domain/evaluation"
)

func TestDataset_Deterministic(t *testing.T) {
	first := NewTestKit().Dataset()
	second := NewTestKit().Dataset()
	assert.Equal(t, first, second)
}

func TestDataset_Shape(t *testing.T) {
	records := NewTestKit().Dataset()
	assert.Len(t, records, len(People)*len(CatalogYears()))

	for _, rec := range records {
		assert.NotEmpty(t, rec.Concept)
		require.NotEmpty(t, rec.Drivers)
		for _, d := range rec.Drivers {
			for _, b := range d.Behaviors {
				overall, ok := b.Overall()
				require.True(t, ok, "behavior %s lacks an overall assessment", b.Name)
				assert.NoError(t, overall.Individual.Validate())
				assert.NoError(t, overall.Group.Validate())
				assert.Positive(t, overall.Individual.Sum())
			}
		}
	}
}

func TestGenerator_LevelShapesScores(t *testing.T) {
	g := NewGenerator(1)

	high := g.Frequencies(LevelHigh)
	low := g.Frequencies(LevelLow)

	// High performers concentrate in the upper bands, low in the lower ones.
	highTop := high[evaluation.CategoryAlways] + high[evaluation.CategoryAlmostAlways]
	lowTop := low[evaluation.CategoryAlways] + low[evaluation.CategoryAlmostAlways]
	assert.Greater(t, highTop, lowTop)
}
