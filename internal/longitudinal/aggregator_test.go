package longitudinal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplestats/domain/evaluation"
	"peoplestats/internal/scoring"
)

func overallBehavior(name string, individual, group evaluation.FrequencyVector) evaluation.Behavior {
	return evaluation.Behavior{
		Name: name,
		Assessments: []evaluation.Assessment{
			{Evaluator: evaluation.OverallEvaluator, Individual: individual, Group: group},
		},
	}
}

func yearRecord(person, year, concept string, behaviors map[string][]evaluation.Behavior) evaluation.Evaluation {
	rec := evaluation.Evaluation{Person: person, Year: year, Concept: concept}
	for driver, bs := range behaviors {
		rec.Drivers = append(rec.Drivers, evaluation.Driver{Name: driver, Behaviors: bs})
	}
	return rec
}

func TestCommonBehaviors_Intersection(t *testing.T) {
	ind := evaluation.FrequencyVector{0, 0, 10, 0, 0, 0}
	grp := evaluation.FrequencyVector{0, 0, 0, 10, 0, 0}

	idx := evaluation.NewIndex([]evaluation.Evaluation{
		yearRecord("ana", "2021", "", map[string][]evaluation.Behavior{
			"Liderança": {overallBehavior("A", ind, grp), overallBehavior("B", ind, grp)},
			"Clientes":  {overallBehavior("X", ind, grp)},
		}),
		yearRecord("ana", "2022", "", map[string][]evaluation.Behavior{
			"Liderança": {overallBehavior("A", ind, grp)},
		}),
		yearRecord("ana", "2023", "", map[string][]evaluation.Behavior{
			"Liderança": {overallBehavior("A", ind, grp), overallBehavior("C", ind, grp)},
		}),
	})
	agg := NewAggregator(idx, scoring.ModelNPS, false)

	common := agg.CommonBehaviors("ana", []string{"2021", "2022", "2023"})
	require.Len(t, common, 1)
	require.Contains(t, common, "Liderança")
	assert.Len(t, common["Liderança"], 1)
	assert.Contains(t, common["Liderança"], "A")
}

func TestCommonBehaviors_PermutationInvariant(t *testing.T) {
	ind := evaluation.FrequencyVector{0, 0, 10, 0, 0, 0}
	grp := evaluation.FrequencyVector{0, 0, 0, 10, 0, 0}

	idx := evaluation.NewIndex([]evaluation.Evaluation{
		yearRecord("ana", "2021", "", map[string][]evaluation.Behavior{
			"D": {overallBehavior("A", ind, grp), overallBehavior("B", ind, grp)},
		}),
		yearRecord("ana", "2022", "", map[string][]evaluation.Behavior{
			"D": {overallBehavior("B", ind, grp), overallBehavior("C", ind, grp)},
		}),
	})
	agg := NewAggregator(idx, scoring.ModelNPS, false)

	forward := agg.CommonBehaviors("ana", []string{"2021", "2022"})
	backward := agg.CommonBehaviors("ana", []string{"2022", "2021"})
	assert.Equal(t, forward, backward)
	assert.Contains(t, forward["D"], "B")
}

func TestCommonBehaviors_SingleYearIdentity(t *testing.T) {
	ind := evaluation.FrequencyVector{0, 0, 10, 0, 0, 0}
	grp := evaluation.FrequencyVector{0, 0, 0, 10, 0, 0}

	idx := evaluation.NewIndex([]evaluation.Evaluation{
		yearRecord("ana", "2021", "", map[string][]evaluation.Behavior{
			"D": {overallBehavior("A", ind, grp), overallBehavior("B", ind, grp)},
		}),
	})
	agg := NewAggregator(idx, scoring.ModelNPS, false)

	common := agg.CommonBehaviors("ana", []string{"2021"})
	assert.Len(t, common["D"], 2)

	assert.Empty(t, agg.CommonBehaviors("ana", nil))
}

func TestYearOverYear_Improvement(t *testing.T) {
	group := evaluation.FrequencyVector{0, 0, 0, 10, 0, 0} // raw 5

	idx := evaluation.NewIndex([]evaluation.Evaluation{
		yearRecord("ana", "2021", "alinhado em relação ao grupo", map[string][]evaluation.Behavior{
			"D": {overallBehavior("A", evaluation.FrequencyVector{0, 0, 0, 10, 0, 0}, group)}, // raw 5
		}),
		yearRecord("ana", "2022", "acima do grupo", map[string][]evaluation.Behavior{
			"D": {overallBehavior("A", evaluation.FrequencyVector{0, 0, 10, 0, 0, 0}, group)}, // raw 10
		}),
	})
	agg := NewAggregator(idx, scoring.ModelNPS, false)

	result := agg.YearOverYear("ana")

	assert.Equal(t, []string{"2021", "2022"}, result.Years)
	assert.InDelta(t, 5.0, result.YearScores["2021"], 1e-9)
	assert.InDelta(t, 10.0, result.YearScores["2022"], 1e-9)
	assert.InDelta(t, 5.0, result.YearGroupScores["2021"], 1e-9)
	assert.InDelta(t, 5.0, result.Improvement, 1e-9)
	assert.InDelta(t, 1.0, result.RelativeImprovement, 1e-9)
	assert.InDelta(t, 0.0, result.DifferenceFromGroup["2021"], 1e-9)
	assert.InDelta(t, 5.0, result.DifferenceFromGroup["2022"], 1e-9)
	assert.Equal(t, "acima do grupo", result.Concepts["2022"])

	// "A" is evaluated in both years, so the restricted means match the
	// unrestricted ones here.
	assert.Equal(t, 1, result.CommonBehaviors.Count)
	assert.InDelta(t, result.YearScores["2021"], result.CommonYearScores["2021"], 1e-9)
}

func TestYearOverYear_RelativeImprovementGuard(t *testing.T) {
	group := evaluation.FrequencyVector{0, 0, 0, 10, 0, 0}

	idx := evaluation.NewIndex([]evaluation.Evaluation{
		yearRecord("ana", "2021", "", map[string][]evaluation.Behavior{
			"D": {overallBehavior("A", evaluation.FrequencyVector{0, 0, 0, 0, 0, 10}, group)}, // raw -10
		}),
		yearRecord("ana", "2022", "", map[string][]evaluation.Behavior{
			"D": {overallBehavior("A", evaluation.FrequencyVector{0, 0, 10, 0, 0, 0}, group)}, // raw 10
		}),
	})
	agg := NewAggregator(idx, scoring.ModelNPS, false)

	result := agg.YearOverYear("ana")
	assert.InDelta(t, 20.0, result.Improvement, 1e-9)
	// A non-positive starting score makes the ratio meaningless.
	assert.Zero(t, result.RelativeImprovement)
}

func TestYearOverYear_NoHistory(t *testing.T) {
	idx := evaluation.NewIndex(nil)
	agg := NewAggregator(idx, scoring.ModelNPS, false)

	result := agg.YearOverYear("ninguém")
	assert.Equal(t, "ninguém", result.Person)
	assert.Empty(t, result.Years)
	assert.Empty(t, result.YearScores)
	assert.Zero(t, result.Improvement)
	assert.Zero(t, result.RelativeImprovement)
	assert.Zero(t, result.CommonBehaviors.Count)
}

func TestYearOverYear_SkipsBehaviorsWithoutOverall(t *testing.T) {
	group := evaluation.FrequencyVector{0, 0, 0, 10, 0, 0}

	rec := yearRecord("ana", "2021", "", map[string][]evaluation.Behavior{
		"D": {
			overallBehavior("A", evaluation.FrequencyVector{0, 0, 10, 0, 0, 0}, group),
			{Name: "B", Assessments: []evaluation.Assessment{{Evaluator: "gestor"}}},
		},
	})
	agg := NewAggregator(evaluation.NewIndex([]evaluation.Evaluation{rec}), scoring.ModelNPS, false)

	result := agg.YearOverYear("ana")
	// Only "A" counts toward the mean.
	assert.InDelta(t, 10.0, result.YearScores["2021"], 1e-9)
}
