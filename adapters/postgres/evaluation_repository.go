package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"peoplestats/domain/core"
	"peoplestats/domain/evaluation"
	"peoplestats/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	person     TEXT NOT NULL,
	year       TEXT NOT NULL,
	concept    TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (person, year)
)`

// evaluationRepository implements the EvaluationRepository interface
type evaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *sqlx.DB) ports.EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Bootstrap creates the evaluations table if it does not exist.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to bootstrap evaluations schema: %w", err)
	}
	return nil
}

// Save upserts the record for its (person, year) pair. The driver tree is
// stored as one JSONB payload; the engines rebuild the index from it.
func (r *evaluationRepository) Save(ctx context.Context, rec evaluation.Evaluation) error {
	payload, err := json.Marshal(rec.Drivers)
	if err != nil {
		return fmt.Errorf("failed to marshal drivers: %w", err)
	}

	query := `INSERT INTO evaluations (person, year, concept, payload, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (person, year) DO UPDATE SET
			concept = EXCLUDED.concept,
			payload = EXCLUDED.payload,
			updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, rec.Person, rec.Year, rec.Concept, payload); err != nil {
		return fmt.Errorf("failed to save evaluation %s/%s: %w", rec.Person, rec.Year, err)
	}
	return nil
}

// Get returns the record for a (person, year) pair.
func (r *evaluationRepository) Get(ctx context.Context, person, year string) (evaluation.Evaluation, error) {
	query := `SELECT person, year, concept, payload FROM evaluations WHERE person = $1 AND year = $2`

	var rec evaluation.Evaluation
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, person, year).Scan(&rec.Person, &rec.Year, &rec.Concept, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return evaluation.Evaluation{}, core.NewNotFoundError("evaluation", person+"/"+year)
		}
		return evaluation.Evaluation{}, fmt.Errorf("failed to get evaluation: %w", err)
	}

	if err := json.Unmarshal(payload, &rec.Drivers); err != nil {
		return evaluation.Evaluation{}, fmt.Errorf("failed to unmarshal drivers: %w", err)
	}
	return rec, nil
}

// ListAll returns every stored record, ordered by person then year.
func (r *evaluationRepository) ListAll(ctx context.Context) ([]evaluation.Evaluation, error) {
	query := `SELECT person, year, concept, payload FROM evaluations ORDER BY person, year`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var records []evaluation.Evaluation
	for rows.Next() {
		var rec evaluation.Evaluation
		var payload []byte
		if err := rows.Scan(&rec.Person, &rec.Year, &rec.Concept, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		if err := json.Unmarshal(payload, &rec.Drivers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal drivers for %s/%s: %w", rec.Person, rec.Year, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluations: %w", err)
	}
	return records, nil
}

// Delete removes the record for a (person, year) pair.
func (r *evaluationRepository) Delete(ctx context.Context, person, year string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM evaluations WHERE person = $1 AND year = $2`, person, year)
	if err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("evaluation", person+"/"+year)
	}
	return nil
}
