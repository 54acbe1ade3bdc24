package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"loyalty_quiz/internal/adapters/datasource"
	"loyalty_quiz/internal/adapters/observability"
	"loyalty_quiz/internal/app"
	"loyalty_quiz/internal/shared"
	mysqlrepo "loyalty_quiz/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "loyalty-quiz-importer", cfg.LogLevel)

	if cfg.DatasetSource == "" || cfg.DatasetSource == "mysql" {
		log.Fatal().Msg("DATASET_SOURCE must point at a CSV file or URL")
	}
	log.Info().
		Str("source", cfg.DatasetSource).
		Int("workers", cfg.ImportWorkers).
		Int("batch", cfg.ImportBatch).
		Msg("importer starting")

	// 2) parse before touching the database
	ds, err := datasource.Load(ctx, datasource.Open(cfg.DatasetSource, cfg.DatasetKey, cfg.FetchRPS))
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	log.Info().Int("records", len(ds)).Msg("dataset parsed")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := app.NewImportService(repo, cfg.ImportWorkers, cfg.ImportBatch).Import(ctx, ds); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	n, err := repo.CountRecords(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count failed")
	}
	log.Info().Int("records", n).Msg("import completed")
}
