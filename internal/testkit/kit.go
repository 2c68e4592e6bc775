package testkit

import (
	"peoplestats/domain/evaluation"
)

// TestKit provides deterministic synthetic evaluation fixtures for tests and
// the demo server.
type TestKit struct {
	gen *Generator
}

// NewTestKit creates a test kit with a fixed seed, so every run sees the same
// dataset.
func NewTestKit() *TestKit {
	return &TestKit{gen: NewGenerator(42)}
}

// Dataset generates the full synthetic dataset: every person across every
// catalog year, each following their assigned performance trend.
func (k *TestKit) Dataset() []evaluation.Evaluation {
	var records []evaluation.Evaluation
	for _, person := range People {
		trend := Trends[person]
		for _, year := range CatalogYears() {
			records = append(records, k.gen.Evaluation(person, year, trend.levelFor(year)))
		}
	}
	return records
}

// Index builds the canonical index over the synthetic dataset.
func (k *TestKit) Index() *evaluation.Index {
	return evaluation.NewIndex(k.Dataset())
}
