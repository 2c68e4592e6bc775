package app

import (
	"sort"

	"github.com/montanaflynn/stats"

	"peoplestats/domain/core"
	"peoplestats/domain/evaluation"
	"peoplestats/internal/comparison"
	"peoplestats/internal/longitudinal"
	"peoplestats/internal/patterns"
	"peoplestats/internal/scoring"
)

// BehaviorScore is one behavior's scored outcome for a (person, year).
type BehaviorScore struct {
	Driver          string                `json:"driver"`
	Behavior        string                `json:"behavior"`
	IndividualScore float64               `json:"individual_score"`
	GroupScore      float64               `json:"group_score"`
	Gap             float64               `json:"gap"`
	Category        scoring.Category      `json:"category"`
	GapMetrics      comparison.GapMetrics `json:"gap_metrics"`
}

// PersonYearComparison summarizes one person against the group for a year.
type PersonYearComparison struct {
	Person          string                           `json:"person"`
	AverageScore    float64                          `json:"average_score"`
	GroupScore      float64                          `json:"group_score"`
	Difference      float64                          `json:"difference"`
	CategoryAvgGaps [evaluation.VectorLength]float64 `json:"category_avg_gaps"`
	NumBehaviors    int                              `json:"num_behaviors"`
}

// YearComparison is the cross-person view for one year.
type YearComparison struct {
	Year   string                 `json:"year"`
	People []PersonYearComparison `json:"people"`
}

// PatternReport bundles every structural analysis for a (person, year).
type PatternReport struct {
	Person       string                     `json:"person"`
	Year         string                     `json:"year"`
	Correlations patterns.CorrelationResult `json:"correlations"`
	Clusters     patterns.ClusterResult     `json:"clusters"`
	PCA          patterns.PCAResult         `json:"pca,omitempty"`
	GapPatterns  patterns.GapPatternResult  `json:"gap_patterns"`
}

// AnalysisService is the application facade over the four engines. It only
// reads the immutable index, so a single instance serves concurrent callers.
type AnalysisService struct {
	index      *evaluation.Index
	scorer     *scoring.Engine
	comparator *comparison.Comparator
	aggregator *longitudinal.Aggregator
	analyzer   *patterns.Analyzer
	model      scoring.Model
	normalize  bool
}

// NewAnalysisService wires the engines around one dataset index.
func NewAnalysisService(index *evaluation.Index, analyzer *patterns.Analyzer, model scoring.Model, normalize bool) *AnalysisService {
	return &AnalysisService{
		index:      index,
		scorer:     scoring.NewEngine(),
		comparator: comparison.NewComparator(model, normalize),
		aggregator: longitudinal.NewAggregator(index, model, normalize),
		analyzer:   analyzer,
		model:      model,
		normalize:  normalize,
	}
}

// People lists every evaluated person, sorted.
func (s *AnalysisService) People() []string {
	return s.index.People()
}

// Years lists every dataset year, ascending.
func (s *AnalysisService) Years() []string {
	return s.index.Years()
}

// YearsFor lists a person's evaluated years, ascending.
func (s *AnalysisService) YearsFor(person string) ([]string, error) {
	years := s.index.YearsFor(person)
	if len(years) == 0 {
		return nil, core.ErrPersonNotFound
	}
	return years, nil
}

// CriteriaForYear returns the dataset-wide driver -> behaviors catalog.
func (s *AnalysisService) CriteriaForYear(year string) (evaluation.Criteria, error) {
	crit := s.index.CriteriaForYear(year)
	if crit == nil {
		return nil, core.ErrYearNotFound
	}
	return crit, nil
}

// BehaviorScores scores every behavior's overall assessment for a person in a
// year. Behaviors without an overall assessment are skipped.
func (s *AnalysisService) BehaviorScores(person, year string) ([]BehaviorScore, error) {
	rec, ok := s.index.Get(person, year)
	if !ok {
		return nil, core.NewNotFoundError("evaluation", person+"/"+year)
	}

	var out []BehaviorScore
	for _, driver := range rec.Drivers {
		for _, behavior := range driver.Behaviors {
			overall, ok := behavior.Overall()
			if !ok {
				continue
			}
			indScore := s.scorer.ScoreLenient(overall.Individual, s.model, s.normalize)
			grpScore := s.scorer.ScoreLenient(overall.Group, s.model, s.normalize)
			out = append(out, BehaviorScore{
				Driver:          driver.Name,
				Behavior:        behavior.Name,
				IndividualScore: indScore,
				GroupScore:      grpScore,
				Gap:             indScore - grpScore,
				Category:        s.scorer.Categorize(indScore, s.normalize),
				GapMetrics:      s.comparator.GapMetrics(overall.Individual, overall.Group),
			})
		}
	}
	return out, nil
}

// AverageScore is the mean of the person's overall behavior scores for a year.
func (s *AnalysisService) AverageScore(person, year string) (float64, error) {
	scores, err := s.BehaviorScores(person, year)
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, core.ErrInsufficientData
	}
	values := make([]float64, len(scores))
	for i, sc := range scores {
		values[i] = sc.IndividualScore
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0, core.ErrInsufficientData
	}
	return mean, nil
}

// ScoreForCriterion returns one behavior's overall individual score.
func (s *AnalysisService) ScoreForCriterion(person, year, driver, behavior string) (float64, error) {
	rec, ok := s.index.Get(person, year)
	if !ok {
		return 0, core.NewNotFoundError("evaluation", person+"/"+year)
	}
	for _, d := range rec.Drivers {
		if d.Name != driver {
			continue
		}
		for _, b := range d.Behaviors {
			if b.Name != behavior {
				continue
			}
			overall, ok := b.Overall()
			if !ok {
				return 0, core.ErrInsufficientData
			}
			return s.scorer.ScoreLenient(overall.Individual, s.model, s.normalize), nil
		}
	}
	return 0, core.NewNotFoundError("criterion", driver+"/"+behavior)
}

// Compare runs the full comparison for one behavior's overall assessment.
func (s *AnalysisService) Compare(person, year, driver, behavior string) (comparison.Comparison, error) {
	rec, ok := s.index.Get(person, year)
	if !ok {
		return comparison.Comparison{}, core.NewNotFoundError("evaluation", person+"/"+year)
	}
	for _, d := range rec.Drivers {
		if d.Name != driver {
			continue
		}
		for _, b := range d.Behaviors {
			if b.Name != behavior {
				continue
			}
			overall, ok := b.Overall()
			if !ok {
				return comparison.Comparison{}, core.ErrInsufficientData
			}
			return s.comparator.Compare(overall.Individual, overall.Group)
		}
	}
	return comparison.Comparison{}, core.NewNotFoundError("criterion", driver+"/"+behavior)
}

// CompareYear summarizes every person with data in a year against the group:
// mean scores, difference, and per-category average gaps. People whose record
// yields no scoreable behaviors are skipped, not errors.
func (s *AnalysisService) CompareYear(year string) (YearComparison, error) {
	people := s.index.PeopleForYear(year)
	if len(people) == 0 {
		return YearComparison{}, core.ErrYearNotFound
	}

	result := YearComparison{Year: year}
	for _, person := range people {
		scores, err := s.BehaviorScores(person, year)
		if err != nil || len(scores) == 0 {
			continue
		}

		var ind, grp []float64
		var gaps [evaluation.VectorLength]float64
		for _, sc := range scores {
			ind = append(ind, sc.IndividualScore)
			grp = append(grp, sc.GroupScore)
			for i, g := range sc.GapMetrics.Gaps {
				gaps[i] += g
			}
		}
		for i := range gaps {
			gaps[i] /= float64(len(scores))
		}

		meanInd, _ := stats.Mean(ind)
		meanGrp, _ := stats.Mean(grp)
		result.People = append(result.People, PersonYearComparison{
			Person:          person,
			AverageScore:    meanInd,
			GroupScore:      meanGrp,
			Difference:      meanInd - meanGrp,
			CategoryAvgGaps: gaps,
			NumBehaviors:    len(scores),
		})
	}

	sort.SliceStable(result.People, func(i, j int) bool {
		return result.People[i].Person < result.People[j].Person
	})
	return result, nil
}

// YearOverYear builds the person's multi-year trajectory.
func (s *AnalysisService) YearOverYear(person string) (longitudinal.YearOverYear, error) {
	if len(s.index.YearsFor(person)) == 0 {
		return longitudinal.YearOverYear{}, core.ErrPersonNotFound
	}
	return s.aggregator.YearOverYear(person), nil
}

// PatternsFor runs the structural analyses over a (person, year). The behavior
// samples are the six percentage positions of each overall individual
// distribution, so every behavior contributes an equal-length series.
func (s *AnalysisService) PatternsFor(person, year string) (PatternReport, error) {
	rec, ok := s.index.Get(person, year)
	if !ok {
		return PatternReport{}, core.NewNotFoundError("evaluation", person+"/"+year)
	}

	series := patterns.ScoreSeries{}
	individual := map[string]evaluation.FrequencyVector{}
	group := map[string]evaluation.FrequencyVector{}
	for _, driver := range rec.Drivers {
		for _, behavior := range driver.Behaviors {
			overall, ok := behavior.Overall()
			if !ok {
				continue
			}
			pct := overall.Individual.Percentages()
			series[behavior.Name] = pct[:]
			individual[behavior.Name] = overall.Individual
			group[behavior.Name] = overall.Group
		}
	}

	report := PatternReport{Person: person, Year: year}

	correlations, err := s.analyzer.CorrelationMatrix(series)
	if err != nil {
		return PatternReport{}, err
	}
	report.Correlations = correlations

	clusters, err := s.analyzer.Cluster(series, 0)
	if err != nil {
		return PatternReport{}, err
	}
	report.Clusters = clusters

	// PCA needs at least two samples; the six percentage positions satisfy
	// that whenever any behavior exists at all.
	if len(series) > 0 {
		pca, err := s.analyzer.PCA(series, 2)
		if err != nil && !core.IsInputError(err) {
			return PatternReport{}, err
		}
		if err == nil {
			report.PCA = pca
		}
	}

	report.GapPatterns = s.analyzer.GapPatterns(individual, group)
	return report, nil
}
