package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/police-blotter-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	FailurePolicy   domain.FailurePolicy
	LogLevel        string
	LogFormat       string
	HTTPAddr        string // empty disables the metrics server
	ShutdownTimeout time.Duration

	// Kafka sink configuration. No brokers disables the sink.
	KafkaBrokers       []string
	KafkaTopic         string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// KafkaEnabled reports whether records should also be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
// Values that callers may override (policy, log format, Kafka topic) are checked
// by Validate, not here.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		FailurePolicy:      domain.FailurePolicy(sharedcfg.EnvOrDefault("FAILURE_POLICY", string(domain.FailFast))),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ""),
		ShutdownTimeout:    shutdownTimeout,
		KafkaBrokers:       brokers,
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "police-blotter-accidents"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	return cfg, nil
}

// Validate checks settings that may be overridden after Load, e.g. by CLI flags.
func (c *Config) Validate() error {
	if _, err := domain.ParseFailurePolicy(string(c.FailurePolicy)); err != nil {
		return fmt.Errorf("invalid FAILURE_POLICY: %w", err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}
