package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/commerce-platform/commerce-core/internal/infrastructure/kafkapub"
	"github.com/commerce-platform/commerce-core/internal/infrastructure/mongodb"
	"github.com/commerce-platform/commerce-core/pkg/logging"
)

// Config is the root configuration for embedding commerce-core
type Config struct {
	ServiceName string           `yaml:"serviceName"`
	Environment string           `yaml:"environment"`
	Logging     LoggingConfig    `yaml:"logging"`
	MongoDB     *mongodb.Config  `yaml:"mongodb"`
	Kafka       *kafkapub.Config `yaml:"kafka"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level logging.LogLevel `yaml:"level"`
}

// Default returns the baseline configuration
func Default() *Config {
	return &Config{
		ServiceName: "commerce-core",
		Environment: "development",
		Logging:     LoggingConfig{Level: logging.LevelInfo},
		MongoDB:     mongodb.DefaultConfig(),
		Kafka:       kafkapub.DefaultConfig(),
	}
}

// Load reads the configuration file at path over the defaults, then applies
// environment overrides. A missing file is not an error; environment-only
// deployments are supported.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = logging.LogLevel(v)
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.MongoDB.URI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		c.MongoDB.Database = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
}
