package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	DatasetSource  string // "mysql" or a CSV path/URL
	DatasetKey     string
	FetchRPS       int
	CatalogPath    string
	SessionTTL     time.Duration
	AllowDevMode   bool
	RateLimitRPS   float64
	RateLimitBurst int
	ImportWorkers  int
	ImportBatch    int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/loyalty?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		DatasetSource:  env("DATASET_SOURCE", "mysql"),
		DatasetKey:     env("DATASET_API_KEY", ""),
		FetchRPS:       atoi("FETCH_RPS", 5),
		CatalogPath:    env("CATALOG_PATH", ""),
		SessionTTL:     time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
		AllowDevMode:   envBool("ALLOW_DEV_MODE"),
		RateLimitRPS:   atof("RATE_LIMIT_RPS", 5),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 10),
		ImportWorkers:  atoi("IMPORT_WORKERS", 4),
		ImportBatch:    atoi("IMPORT_BATCH", 500),
	}
	if c.SessionTTL <= 0 {
		log.Warn().Dur("ttl", c.SessionTTL).Msg("SESSION_TTL_SECONDS must be positive, using 30m")
		c.SessionTTL = 30 * time.Minute
	}
	if c.ImportBatch <= 0 {
		c.ImportBatch = 500
	}
	if c.ImportWorkers <= 0 {
		c.ImportWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
