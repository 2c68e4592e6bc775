package testkit

import (
	"math/rand"
	"sort"

	"peoplestats/domain/evaluation"
)

// People are the synthetic evaluees.
var People = []string{
	"João Silva",
	"Maria Oliveira",
	"Pedro Santos",
	"Ana Costa",
	"Carlos Pereira",
	"Lúcia Fernandes",
	"Roberto Almeida",
	"Patrícia Gomes",
}

// PerformanceLevel controls the shape of generated frequency distributions.
type PerformanceLevel int

const (
	LevelLow PerformanceLevel = iota
	LevelMedium
	LevelHigh
)

// PerformanceConcepts relative to the group, worst to best.
var PerformanceConcepts = []string{
	"abaixo do grupo",
	"alinhado em relação ao grupo",
	"acima do grupo",
}

// Trend maps a person's level per year, so multi-year trajectories are
// meaningful instead of noise.
type Trend struct {
	byYear map[string]PerformanceLevel
}

func (t Trend) levelFor(year string) PerformanceLevel {
	return t.byYear[year]
}

func improving() Trend {
	return Trend{byYear: map[string]PerformanceLevel{
		"2021": LevelLow, "2022": LevelLow, "2023": LevelMedium, "2024": LevelHigh,
	}}
}

func declining() Trend {
	return Trend{byYear: map[string]PerformanceLevel{
		"2021": LevelHigh, "2022": LevelHigh, "2023": LevelMedium, "2024": LevelLow,
	}}
}

func stable(level PerformanceLevel) Trend {
	return Trend{byYear: map[string]PerformanceLevel{
		"2021": level, "2022": level, "2023": level, "2024": level,
	}}
}

// Trends assigns every synthetic person a trajectory.
var Trends = map[string]Trend{
	"João Silva":      improving(),
	"Maria Oliveira":  declining(),
	"Pedro Santos":    stable(LevelHigh),
	"Ana Costa":       stable(LevelMedium),
	"Carlos Pereira":  stable(LevelLow),
	"Lúcia Fernandes": improving(),
	"Roberto Almeida": stable(LevelMedium),
	"Patrícia Gomes":  declining(),
}

type catalogDriver struct {
	name      string
	behaviors []string
}

// driversByYear mirrors the criteria catalogs the evaluations historically
// used. 2023 carried over two 2022 drivers and added a third; 2024 added a
// fourth, which is what exercises the common-behavior intersection.
var driversByYear = map[string][]catalogDriver{
	"2021": {
		{"1. Inovação e Transformação", []string{
			"você estimula a inovação no ambiente de trabalho",
			"você implementa soluções criativas para problemas complexos",
			"você adapta-se rapidamente às mudanças",
		}},
		{"2. Colaboração e Trabalho em Equipe", []string{
			"você trabalha efetivamente em equipe",
			"você compartilha conhecimento com os colegas",
			"você contribui para um ambiente positivo",
		}},
	},
	"2022": {
		{"1. A gente trabalha para o cliente", []string{
			"você tem obstinação por encantar o cliente",
			"você adota soluções simples para nossos clientes",
			"você promove experiências diferenciadas",
		}},
		{"2. Performance que transforma", []string{
			"você busca resultados sustentáveis",
			"você é eficiente e ágil nas entregas",
			"você tem foco na melhoria contínua",
		}},
	},
	"2023": {
		{"1. A gente trabalha para o cliente", []string{
			"você tem obstinação por encantar o cliente",
			"você promove experiências diferenciadas",
			"você se coloca no lugar do cliente",
		}},
		{"2. Performance que transforma", []string{
			"você busca resultados sustentáveis",
			"você tem mentalidade de dono",
			"você é eficiente e ágil nas entregas",
		}},
		{"3. Liderança inspiradora", []string{
			"você inspira pelo exemplo",
			"você desenvolve talentos e equipes",
			"você toma decisões com coragem",
		}},
	},
	"2024": {
		{"1. A gente trabalha para o cliente", []string{
			"você tem obstinação por encantar o cliente",
			"você promove experiências diferenciadas",
			"você se coloca no lugar do cliente",
		}},
		{"2. Performance que transforma", []string{
			"você busca resultados sustentáveis",
			"você tem mentalidade de dono",
			"você é eficiente e ágil nas entregas",
		}},
		{"3. Liderança inspiradora", []string{
			"você inspira pelo exemplo",
			"você desenvolve talentos e equipes",
			"você toma decisões com coragem",
		}},
		{"4. Inovação e Agilidade", []string{
			"você inova e busca soluções disruptivas",
			"você prioriza o cliente nas decisões técnicas",
			"você aprende e se adapta rapidamente",
		}},
	},
}

// CatalogYears lists the years with a criteria catalog, ascending.
func CatalogYears() []string {
	years := make([]string, 0, len(driversByYear))
	for year := range driversByYear {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// Generator produces synthetic evaluation records from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Evaluation builds one synthetic record for a (person, year) at the given
// performance level.
func (g *Generator) Evaluation(person, year string, level PerformanceLevel) evaluation.Evaluation {
	rec := evaluation.Evaluation{
		Person:  person,
		Year:    year,
		Concept: PerformanceConcepts[level],
	}

	for _, cd := range driversByYear[year] {
		driver := evaluation.Driver{Name: cd.name}
		for _, name := range cd.behaviors {
			individual := g.Frequencies(level)
			group := g.GroupFrequencies()
			driver.Behaviors = append(driver.Behaviors, evaluation.Behavior{
				Name: name,
				Assessments: []evaluation.Assessment{
					{Evaluator: evaluation.OverallEvaluator, Individual: individual, Group: group},
					{Evaluator: "%pares e parceiros", Individual: g.Frequencies(level), Group: group.Clone()},
				},
			})
		}
		rec.Drivers = append(rec.Drivers, driver)
	}
	return rec
}

// Frequencies generates a percentage-normalized six-category vector shaped by
// the performance level.
func (g *Generator) Frequencies(level PerformanceLevel) evaluation.FrequencyVector {
	var raw evaluation.FrequencyVector
	switch level {
	case LevelHigh:
		raw = evaluation.FrequencyVector{
			g.between(0, 5),   // n/a
			g.between(5, 15),  // reference
			g.between(30, 50), // always
			g.between(20, 40), // almost always
			g.between(5, 15),  // rarely
			g.between(0, 5),   // seldom
		}
	case LevelMedium:
		raw = evaluation.FrequencyVector{
			g.between(0, 5),
			g.between(0, 5),
			g.between(20, 40),
			g.between(30, 50),
			g.between(10, 25),
			g.between(0, 10),
		}
	default:
		raw = evaluation.FrequencyVector{
			g.between(0, 5),
			g.between(0, 5),
			g.between(0, 15),
			g.between(20, 40),
			g.between(40, 60),
			g.between(10, 25),
		}
	}
	return normalize(raw)
}

// GroupFrequencies generates a medium-shaped group distribution.
func (g *Generator) GroupFrequencies() evaluation.FrequencyVector {
	return normalize(evaluation.FrequencyVector{
		g.between(0, 5),
		g.between(0, 5),
		g.between(15, 30),
		g.between(30, 50),
		g.between(15, 30),
		g.between(0, 10),
	})
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// normalize rescales counts so they sum to roughly 100, matching how the
// export pipeline reports percentages as integer counts.
func normalize(f evaluation.FrequencyVector) evaluation.FrequencyVector {
	total := f.Sum()
	if total <= 0 {
		return make(evaluation.FrequencyVector, evaluation.VectorLength)
	}
	out := make(evaluation.FrequencyVector, len(f))
	for i, c := range f {
		out[i] = int(float64(c)/float64(total)*100 + 0.5)
	}
	return out
}
