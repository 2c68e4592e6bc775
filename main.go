package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"peoplestats/adapters/api"
	"peoplestats/adapters/ingest"
	"peoplestats/adapters/postgres"
	"peoplestats/app"
	"peoplestats/domain/evaluation"
	"peoplestats/internal"
	"peoplestats/internal/comparison"
	"peoplestats/internal/config"
	"peoplestats/internal/errors"
	"peoplestats/internal/patterns"
	"peoplestats/internal/testkit"
	"peoplestats/ports"
)

// initDatabase opens the PostgreSQL connection and bootstraps the schema.
func initDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.Bootstrap(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// loadRecords resolves the dataset source in priority order: a dataset
// directory, then the database, then the synthetic demo fixtures.
func loadRecords(ctx context.Context, cfg *config.Config, repo ports.EvaluationRepository, logger *internal.Logger) ([]evaluation.Evaluation, error) {
	if cfg.Data.EvaluationsFile != "" {
		decoder := ingest.NewDecoder(logger)
		records, err := decoder.DecodeDataset(cfg.Data.EvaluationsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded %d evaluations from %s", len(records), cfg.Data.EvaluationsFile)

		// Persist the ingested dataset when a database is configured.
		if repo != nil {
			for _, rec := range records {
				if err := repo.Save(ctx, rec); err != nil {
					logger.Warn("persist %s/%s: %v", rec.Person, rec.Year, err)
				}
			}
		}
		return records, nil
	}

	if repo != nil {
		records, err := repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			logger.Info("loaded %d evaluations from database", len(records))
			return records, nil
		}
	}

	logger.Info("no dataset configured, serving synthetic demo data")
	return testkit.NewTestKit().Dataset(), nil
}

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	var repo ports.EvaluationRepository
	if cfg.Database.URL != "" {
		db, err := initDatabase(ctx, cfg)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewEvaluationRepository(db)
	}

	records, err := loadRecords(ctx, cfg, repo, logger)
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}

	index := evaluation.NewIndex(records)
	comparator := comparison.NewComparator(cfg.Scoring.Model, cfg.Scoring.Normalize)
	analyzer := patterns.NewAnalyzer(patterns.NewKMeansClusterer(), comparator)
	svc := app.NewAnalysisService(index, analyzer, cfg.Scoring.Model, cfg.Scoring.Normalize)
	batch := app.NewBatchRunner(svc, cfg.Batch.Concurrency, logger)

	server := api.NewApp(svc, batch, logger)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
