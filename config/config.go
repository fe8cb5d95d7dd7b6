package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the environment-driven settings for a selector run.
// Load .env via godotenv at the entry point before calling FromEnv.
type Config struct {
	// Registry
	RegistryTable string
	AWSRegion     string

	// Hand-off object store
	Bucket        string
	PendingPrefix string

	// Selection policy
	ScoreThreshold   float64
	StockWindow      time.Duration
	FreshnessHorizon time.Duration
	PublishWindow    time.Duration
	MaxEvalRetries   int

	// Feeds
	SourcesPath string

	// Oracle
	CohereAPIKey string
	CohereModel  string

	// Publish history (optional; fail-open when unset)
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	PublishedKey string

	// Hand-off notification (optional; skipped when unset)
	KafkaBrokers []string
	KafkaTopic   string

	// Scheduling
	RunBudget time.Duration
}

// FromEnv reads configuration from environment variables, applying defaults
// for everything except credentials and resource names.
func FromEnv() Config {
	return Config{
		RegistryTable: os.Getenv("DYNAMODB_TABLE"),
		AWSRegion:     os.Getenv("AWS_REGION"),

		Bucket:        os.Getenv("S3_BUCKET"),
		PendingPrefix: ensureTrailingSlash(getenv("PENDING_PATH", "pending/")),

		ScoreThreshold:   getenvFloat("SCORE_THRESHOLD", DefaultScoreThreshold),
		StockWindow:      time.Duration(getenvInt("STOCK_DAYS", DefaultStockDays)) * 24 * time.Hour,
		FreshnessHorizon: time.Duration(getenvInt("FRESHNESS_DAYS", DefaultFreshnessDays)) * 24 * time.Hour,
		PublishWindow:    time.Duration(getenvInt("PUBLISH_WINDOW_DAYS", DefaultPublishWindowDays)) * 24 * time.Hour,
		MaxEvalRetries:   getenvInt("MAX_EVAL_RETRIES", DefaultMaxEvalRetries),

		SourcesPath: getenv("RSS_SOURCES_PATH", "rss_sources.json"),

		CohereAPIKey: os.Getenv("COHERE_API_KEY"),
		CohereModel:  getenv("COHERE_MODEL", "command-r7b-12-2024"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		PublishedKey: getenv("PUBLISHED_KEY", "published:titles"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "selected-articles"),

		RunBudget: getenvDuration("RUN_BUDGET", DefaultRunBudget),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func ensureTrailingSlash(v string) string {
	if strings.HasSuffix(v, "/") {
		return v
	}
	return v + "/"
}
