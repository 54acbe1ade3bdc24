package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"loyalty_quiz/internal/adapters/datasource"
	server "loyalty_quiz/internal/adapters/http_server"
	"loyalty_quiz/internal/adapters/observability"
	redisad "loyalty_quiz/internal/adapters/redis"
	"loyalty_quiz/internal/app"
	"loyalty_quiz/internal/catalog"
	"loyalty_quiz/internal/domain"
	"loyalty_quiz/internal/quiz"
	"loyalty_quiz/internal/shared"
	mysqlrepo "loyalty_quiz/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "loyalty-quiz-api", cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// catalog
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("catalog load failed")
	}

	// dataset
	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.DatasetSource).Msg("dataset load failed")
	}
	observability.DatasetRecords.Set(float64(len(ds)))
	if unknown := cat.UnknownBrands(ds); len(unknown) > 0 {
		log.Warn().Strs("brands", unknown).Msg("catalog brands missing from dataset")
	}
	log.Info().Int("records", len(ds)).Str("source", cfg.DatasetSource).Msg("dataset loaded")

	// sessions
	store := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}
	log.Info().Msg("redis connection ok")

	svc := app.NewConversationService(quiz.NewMachine(cat, ds), store, cfg.SessionTTL, cfg.AllowDevMode)
	if rep := app.SelfTest(); !rep.Passed {
		log.Warn().Msg("scoring self-test failed")
	}

	// http
	srv := server.New(server.Options{RateLimitRPS: cfg.RateLimitRPS, RateLimitBurst: cfg.RateLimitBurst})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{C: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Bool("dev_mode", cfg.AllowDevMode).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// loadDataset reads the imported table, or parses a CSV file or URL directly.
func loadDataset(ctx context.Context, cfg shared.Config) (domain.Dataset, error) {
	if cfg.DatasetSource != "mysql" {
		return datasource.Load(ctx, datasource.Open(cfg.DatasetSource, cfg.DatasetKey, cfg.FetchRPS))
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return mysqlrepo.New(db).ListRecords(ctx)
}
