package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Dataset source backends.
const (
	SourceS3   = "s3"
	SourceFile = "file"
)

// Notification backends.
const (
	NotifyLambda = "lambda"
	NotifyKafka  = "kafka"
	NotifyNone   = "none"
)

// DefaultTopologyURL is the vega-datasets world-110m TopoJSON.
const DefaultTopologyURL = "https://cdn.jsdelivr.net/npm/vega-datasets@v1.29.0/data/world-110m.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset loader configuration.
	DatasetPath     string
	DatasetSource   string
	DatasetDir      string
	DatasetCacheTTL time.Duration
	AWSRegion       string

	// World topology configuration.
	TopologyURL     string
	TopologyObject  string
	TopologyTimeout time.Duration

	// Report notification configuration.
	NotifyBackend    string
	NotifyFunction   string
	KafkaBrokers     []string
	KafkaReportTopic string
}

// Load reads configuration from environment variables (optionally seeded
// from a .env file), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("DATASET_CACHE_TTL", "600s")
	if err != nil {
		return nil, err
	}

	topologyTimeout, err := parsePositiveDuration("TOPOLOGY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath:     sharedcfg.EnvOrDefault("DATASET_PATH", "plastic-waste-data/data_cleaned.csv"),
		DatasetSource:   strings.ToLower(sharedcfg.EnvOrDefault("DATASET_SOURCE", SourceS3)),
		DatasetDir:      sharedcfg.EnvOrDefault("DATASET_DIR", "data"),
		DatasetCacheTTL: cacheTTL,
		AWSRegion:       sharedcfg.EnvOrDefault("AWS_REGION", "us-east-1"),

		TopologyURL:     sharedcfg.EnvOrDefault("TOPOLOGY_URL", DefaultTopologyURL),
		TopologyObject:  sharedcfg.EnvOrDefault("TOPOLOGY_OBJECT", "countries"),
		TopologyTimeout: topologyTimeout,

		NotifyBackend:    strings.ToLower(sharedcfg.EnvOrDefault("NOTIFY_BACKEND", NotifyLambda)),
		NotifyFunction:   sharedcfg.EnvOrDefault("NOTIFY_FUNCTION", "plastic-waste-emailer"),
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "report-requests"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatasetPath == "" {
		return errors.New("DATASET_PATH is required")
	}
	if !strings.Contains(strings.Trim(c.DatasetPath, "/"), "/") {
		return errors.New("DATASET_PATH must have the form <bucket>/<key>")
	}

	switch c.DatasetSource {
	case SourceS3, SourceFile:
	default:
		return fmt.Errorf("invalid DATASET_SOURCE %q (want %s or %s)", c.DatasetSource, SourceS3, SourceFile)
	}

	if c.TopologyURL == "" {
		return errors.New("TOPOLOGY_URL is required")
	}
	if u, err := url.Parse(c.TopologyURL); err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file") {
		return fmt.Errorf("invalid TOPOLOGY_URL %q (want http, https or file scheme)", c.TopologyURL)
	}

	switch c.NotifyBackend {
	case NotifyLambda:
		if c.NotifyFunction == "" {
			return errors.New("NOTIFY_FUNCTION is required for the lambda backend")
		}
	case NotifyKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the kafka backend")
		}
		if c.KafkaReportTopic == "" {
			return errors.New("KAFKA_REPORT_TOPIC is required for the kafka backend")
		}
	case NotifyNone:
	default:
		return fmt.Errorf("invalid NOTIFY_BACKEND %q", c.NotifyBackend)
	}
	return nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
