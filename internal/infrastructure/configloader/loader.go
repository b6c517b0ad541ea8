package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the admin API server configuration.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ProviderConfig holds the managed-provider credential used to build URLs for
// well-known networks.
type ProviderConfig struct {
	ProjectKey string `yaml:"projectKey"`
}

// StateConfig holds persisted-state configuration.
type StateConfig struct {
	FilePath string `yaml:"filePath"`
}

// ProbeConfig holds timeouts and cadences for the status prober and watcher.
type ProbeConfig struct {
	RequestTimeoutSeconds   int `yaml:"request_timeout_seconds"`
	HeadPollIntervalSeconds int `yaml:"head_poll_interval_seconds"`
}

// HealthConfig holds the endpoint health tracker configuration.
type HealthConfig struct {
	RecordTTLSeconds   int `yaml:"record_ttl_seconds"`
	PingTimeoutSeconds int `yaml:"ping_timeout_seconds"`
}

// APIConfig holds rate limiting for the admin API.
type APIConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Provider ProviderConfig `yaml:"provider"`
	State    StateConfig    `yaml:"state"`
	Probe    ProbeConfig    `yaml:"probe"`
	Health   HealthConfig   `yaml:"health"`
	API      APIConfig      `yaml:"api"`
}

// Load reads and parses the YAML configuration at path, applying defaults for
// anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.State.FilePath == "" {
		cfg.State.FilePath = "data/state.json"
	}
	if cfg.Probe.RequestTimeoutSeconds <= 0 {
		cfg.Probe.RequestTimeoutSeconds = 30
	}
	if cfg.Probe.HeadPollIntervalSeconds <= 0 {
		cfg.Probe.HeadPollIntervalSeconds = 12
	}
	if cfg.Health.RecordTTLSeconds <= 0 {
		cfg.Health.RecordTTLSeconds = 300
	}
	if cfg.Health.PingTimeoutSeconds <= 0 {
		cfg.Health.PingTimeoutSeconds = 10
	}
	if cfg.API.RequestsPerSecond <= 0 {
		cfg.API.RequestsPerSecond = 10
	}
	if cfg.API.Burst <= 0 {
		cfg.API.Burst = 20
	}
}
