package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const envPrefix = "REVIEWS_"

type Config struct {
	AppEnv   string `koanf:"app_env"`
	LogLevel string `koanf:"log_level"`
	HTTPAddr string `koanf:"http_addr"`
	// MetricsAddr starts a second listener serving only /metrics; empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	StoreDriver     string `koanf:"store_driver"` // mongo|mysql|memory
	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`
	MySQLDSN        string `koanf:"mysql_dsn"`

	// RedisAddr empty disables the read cache.
	RedisAddr       string `koanf:"redis_addr"`
	RedisPass       string `koanf:"redis_password"`
	RedisDB         int    `koanf:"redis_db"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`

	WebhookURL            string `koanf:"webhook_url"`
	WebhookTimeoutSeconds int    `koanf:"webhook_timeout_seconds"`
	WebhookRPS            int    `koanf:"webhook_rps"`
	WebhookMaxInFlight    int    `koanf:"webhook_max_inflight"`

	DailyLimit      int `koanf:"daily_limit"`
	GenerateWorkers int `koanf:"generate_workers"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func (c Config) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSeconds) * time.Second
}

var defaults = map[string]any{
	"app_env":                 "prod",
	"log_level":               "info",
	"http_addr":               ":8000",
	"metrics_addr":            "",
	"store_driver":            "mongo",
	"mongo_uri":               "mongodb://localhost:27017",
	"mongo_database":          "movie_reviews",
	"mongo_collection":        "reviews",
	"mysql_dsn":               "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4&loc=UTC",
	"redis_addr":              "",
	"redis_password":          "",
	"redis_db":                0,
	"cache_ttl_seconds":       300,
	"webhook_url":             "",
	"webhook_timeout_seconds": 600,
	"webhook_rps":             5,
	"webhook_max_inflight":    16,
	"daily_limit":             2,
	"generate_workers":        2,
}

// Load reads defaults, then an optional YAML file (REVIEWS_CONFIG_FILE,
// default config.yaml), then REVIEWS_* environment variables. Later sources win.
func Load() (Config, error) {
	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return Config{}, err
		}
	}

	path := os.Getenv(envPrefix + "CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// a missing file is fine; env vars may carry everything
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, err
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.WebhookURL == "" {
		log.Warn().Msg("REVIEWS_WEBHOOK_URL is empty")
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case "mongo", "mysql", "memory":
	default:
		return fmt.Errorf("store_driver must be mongo, mysql or memory, got %q", c.StoreDriver)
	}
	if c.DailyLimit <= 0 {
		return fmt.Errorf("daily_limit must be positive, got %d", c.DailyLimit)
	}
	if c.WebhookTimeoutSeconds <= 0 {
		return fmt.Errorf("webhook_timeout_seconds must be positive, got %d", c.WebhookTimeoutSeconds)
	}
	if c.GenerateWorkers <= 0 {
		return fmt.Errorf("generate_workers must be positive, got %d", c.GenerateWorkers)
	}
	return nil
}
