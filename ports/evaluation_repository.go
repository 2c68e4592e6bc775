package ports

import (
	"context"

	"peoplestats/domain/evaluation"
)

// EvaluationRepository stores and retrieves canonical evaluation records.
type EvaluationRepository interface {
	// Save upserts the record for its (person, year) pair.
	Save(ctx context.Context, rec evaluation.Evaluation) error
	// Get returns the record for a (person, year) pair.
	Get(ctx context.Context, person, year string) (evaluation.Evaluation, error)
	// ListAll returns every stored record, ordered by person then year.
	ListAll(ctx context.Context) ([]evaluation.Evaluation, error)
	// Delete removes the record for a (person, year) pair.
	Delete(ctx context.Context, person, year string) error
}
