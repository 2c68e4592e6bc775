package longitudinal

import (
	"sort"

	"github.com/montanaflynn/stats"

	"peoplestats/domain/evaluation"
	"peoplestats/internal/comparison"
	"peoplestats/internal/scoring"
)

// CommonBehaviorSummary describes the intersection of evaluated criteria
// across a comparison window.
type CommonBehaviorSummary struct {
	Count     int                 `json:"count"`
	Behaviors map[string][]string `json:"behaviors"`
}

// YearOverYear is a person's multi-year trajectory. All maps are keyed by
// year; empty collections (not nil errors) represent "no history".
type YearOverYear struct {
	Person              string                                      `json:"person"`
	Years               []string                                    `json:"years"`
	Concepts            map[string]string                           `json:"concepts"`
	YearScores          map[string]float64                          `json:"year_scores"`
	YearGroupScores     map[string]float64                          `json:"year_group_scores"`
	YearCategories      map[string][evaluation.VectorLength]float64 `json:"year_categories"`
	Improvement         float64                                     `json:"improvement"`
	RelativeImprovement float64                                     `json:"relative_improvement"`
	DifferenceFromGroup map[string]float64                          `json:"difference_from_group"`
	CommonBehaviors     CommonBehaviorSummary                       `json:"common_behaviors"`
	CommonYearScores    map[string]float64                          `json:"common_year_scores"`
	CommonGroupScores   map[string]float64                          `json:"common_year_group_scores"`
}

// Aggregator builds multi-year trajectories from the immutable index.
type Aggregator struct {
	index      *evaluation.Index
	scorer     *scoring.Engine
	comparator *comparison.Comparator
	model      scoring.Model
	normalize  bool
}

// NewAggregator creates an aggregator scoring behaviors with the given model.
func NewAggregator(index *evaluation.Index, model scoring.Model, normalize bool) *Aggregator {
	return &Aggregator{
		index:      index,
		scorer:     scoring.NewEngine(),
		comparator: comparison.NewComparator(model, normalize),
		model:      model,
		normalize:  normalize,
	}
}

// YearsFor returns the person's evaluated years, ascending.
func (a *Aggregator) YearsFor(person string) []string {
	return a.index.YearsFor(person)
}

// CommonBehaviors intersects the person's driver -> behavior sets across the
// given years. Drivers absent from any year are dropped, as are drivers whose
// intersection empties out. The result is order-independent in years.
func (a *Aggregator) CommonBehaviors(person string, years []string) evaluation.Criteria {
	if len(years) == 0 {
		return evaluation.Criteria{}
	}

	common := evaluation.Criteria{}
	first := a.index.CriteriaFor(person, years[0])
	for driver, set := range first {
		common[driver] = set.Clone()
	}

	for _, year := range years[1:] {
		crit := a.index.CriteriaFor(person, year)
		for driver, set := range common {
			yearSet, ok := crit[driver]
			if !ok {
				delete(common, driver)
				continue
			}
			set.Intersect(yearSet)
			if len(set) == 0 {
				delete(common, driver)
			}
		}
	}

	return common
}

// behaviorScore is one behavior's overall-evaluator outcome within a year.
type behaviorScore struct {
	driver       string
	behavior     string
	individual   float64
	group        float64
	categoryGaps [evaluation.VectorLength]float64
}

// overallScores collects the overall-evaluator ("%todos") score per behavior
// for one year. Behaviors without an overall assessment are skipped; that
// scopes any malformed unit to itself instead of failing the whole year.
func (a *Aggregator) overallScores(person, year string) []behaviorScore {
	rec, ok := a.index.Get(person, year)
	if !ok {
		return nil
	}

	var out []behaviorScore
	for _, driver := range rec.Drivers {
		for _, behavior := range driver.Behaviors {
			overall, ok := behavior.Overall()
			if !ok {
				continue
			}
			out = append(out, behaviorScore{
				driver:       driver.Name,
				behavior:     behavior.Name,
				individual:   a.scorer.ScoreLenient(overall.Individual, a.model, a.normalize),
				group:        a.scorer.ScoreLenient(overall.Group, a.model, a.normalize),
				categoryGaps: a.comparator.GapMetrics(overall.Individual, overall.Group).Gaps,
			})
		}
	}
	return out
}

// YearOverYear computes the person's trajectory across every evaluated year.
// A person with no history yields empty collections and zero improvements,
// never an error.
func (a *Aggregator) YearOverYear(person string) YearOverYear {
	years := a.YearsFor(person)

	result := YearOverYear{
		Person:              person,
		Years:               years,
		Concepts:            map[string]string{},
		YearScores:          map[string]float64{},
		YearGroupScores:     map[string]float64{},
		YearCategories:      map[string][evaluation.VectorLength]float64{},
		DifferenceFromGroup: map[string]float64{},
		CommonYearScores:    map[string]float64{},
		CommonGroupScores:   map[string]float64{},
	}

	common := a.CommonBehaviors(person, years)
	result.CommonBehaviors = summarizeCommon(common)

	for _, year := range years {
		if rec, ok := a.index.Get(person, year); ok && rec.Concept != "" {
			result.Concepts[year] = rec.Concept
		}

		scores := a.overallScores(person, year)

		var individual, group []float64
		var gaps [evaluation.VectorLength]float64
		for _, s := range scores {
			individual = append(individual, s.individual)
			group = append(group, s.group)
			for i, g := range s.categoryGaps {
				gaps[i] += g
			}
		}

		count := len(scores)
		if count > 0 {
			mean, _ := stats.Mean(individual)
			groupMean, _ := stats.Mean(group)
			result.YearScores[year] = mean
			result.YearGroupScores[year] = groupMean
			for i := range gaps {
				gaps[i] /= float64(count)
			}
		} else {
			result.YearScores[year] = 0
			result.YearGroupScores[year] = 0
		}
		result.YearCategories[year] = gaps
		result.DifferenceFromGroup[year] = result.YearScores[year] - result.YearGroupScores[year]

		// Apples-to-apples means restricted to commonly evaluated behaviors.
		var commonInd, commonGrp []float64
		for _, s := range scores {
			if set, ok := common[s.driver]; ok {
				if _, ok := set[s.behavior]; ok {
					commonInd = append(commonInd, s.individual)
					commonGrp = append(commonGrp, s.group)
				}
			}
		}
		if len(commonInd) > 0 {
			mean, _ := stats.Mean(commonInd)
			groupMean, _ := stats.Mean(commonGrp)
			result.CommonYearScores[year] = mean
			result.CommonGroupScores[year] = groupMean
		}
	}

	if len(years) >= 2 {
		first := result.YearScores[years[0]]
		last := result.YearScores[years[len(years)-1]]
		result.Improvement = last - first
		if first > 0 {
			result.RelativeImprovement = result.Improvement / first
		}
	}

	return result
}

func summarizeCommon(common evaluation.Criteria) CommonBehaviorSummary {
	summary := CommonBehaviorSummary{Behaviors: map[string][]string{}}
	for driver, set := range common {
		names := make([]string, 0, len(set))
		for b := range set {
			names = append(names, b)
		}
		sort.Strings(names)
		summary.Behaviors[driver] = names
		summary.Count += len(names)
	}
	return summary
}
