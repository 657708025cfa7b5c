package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/productaware/ecoselect/internal/scoring"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Events  EventsConfig  `yaml:"events"`
	Service ServiceConfig `yaml:"service"`
	Scoring ScoringConfig `yaml:"scoring"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

// CatalogConfig selects the material backend: a Postgres URL when set,
// otherwise the JSON dataset file.
type CatalogConfig struct {
	DatabaseURL string `yaml:"database_url"`
	DataFile    string `yaml:"data_file"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

// ServiceConfig points the wizard front-end at a running scoring service.
type ServiceConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	ReferenceLifespanYears float64 `yaml:"reference_lifespan_years"`
	// Dimensions maps a selectable metric id to the weight dimension an
	// emphasis on it boosts. Empty means the identity mapping over the three
	// built-in ids.
	Dimensions map[string]string `yaml:"dimensions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DimensionMap materializes the configured metric-to-dimension mapping.
func (c *Config) DimensionMap() scoring.DimensionMap {
	if len(c.Scoring.Dimensions) == 0 {
		return scoring.DefaultDimensionMap()
	}
	m := make(scoring.DimensionMap, len(c.Scoring.Dimensions))
	for metric, dim := range c.Scoring.Dimensions {
		m[metric] = scoring.Dimension(dim)
	}
	return m
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8620,
			MetricsPort: 8621,
		},
		Catalog: CatalogConfig{
			DataFile: "data/materials.json",
		},
		Service: ServiceConfig{
			URL: "http://localhost:8620",
		},
		Scoring: ScoringConfig{
			ReferenceLifespanYears: scoring.DefaultReferenceLifespan,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ECOSELECT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ECOSELECT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ECOSELECT_DATABASE_URL"); v != "" {
		cfg.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("ECOSELECT_DATA_FILE"); v != "" {
		cfg.Catalog.DataFile = v
	}
	if v := os.Getenv("ECOSELECT_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("ECOSELECT_SERVICE_URL"); v != "" {
		cfg.Service.URL = v
	}
	if v := os.Getenv("ECOSELECT_REFERENCE_LIFESPAN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.ReferenceLifespanYears = f
		}
	}
	if v := os.Getenv("ECOSELECT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
