package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataFile  string
	DataSheet string
	Schema    domain.Schema

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// RefreshInterval reloads the data file periodically; 0 disables.
	RefreshInterval time.Duration

	HeatmapBins      int
	HeatmapCacheSize int

	// Kafka sample publication (optional).
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
	BatchSize      int
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first when
// present; real environment variables take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	refreshInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("REFRESH_INTERVAL", "0s"))
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	bins, err := parsePositiveInt("HEATMAP_BINS", 50)
	if err != nil {
		return nil, err
	}
	if bins > 500 {
		return nil, errors.New("invalid HEATMAP_BINS: must be at most 500")
	}

	cacheSize, err := parsePositiveInt("HEATMAP_CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	defaults := domain.DefaultSchema()
	cfg := &Config{
		DataFile:  sharedcfg.EnvOrDefault("DATA_FILE", "data/tracking.xlsx"),
		DataSheet: os.Getenv("DATA_SHEET"),
		Schema: domain.Schema{
			IDColumn:     sharedcfg.EnvOrDefault("ID_COLUMN", defaults.IDColumn),
			CrimeColumn:  sharedcfg.EnvOrDefault("CRIME_COLUMN", defaults.CrimeColumn),
			TerrorColumn: sharedcfg.EnvOrDefault("TERROR_COLUMN", defaults.TerrorColumn),
			DayPrefix:    sharedcfg.EnvOrDefault("DAY_COLUMN_PREFIX", defaults.DayPrefix),
		},
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		RefreshInterval:  refreshInterval,
		HeatmapBins:      bins,
		HeatmapCacheSize: cacheSize,
		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "location-samples"),
		BatchSize:        batchSize,
	}

	if strings.TrimSpace(cfg.DataFile) == "" {
		return nil, errors.New("DATA_FILE is required")
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid column configuration: %w", err)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
