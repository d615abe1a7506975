package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults. The ten-second poll interval matches how fast a user expects
// the tray state to catch up after closing an offending app.
const (
	DefaultPollIntervalSeconds = 10
	DefaultListen              = "127.0.0.1:8113"
)

type Config struct {
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	Listen              string `yaml:"listen"`
	Auth                bool   `yaml:"auth"`
	LogFile             string `yaml:"log_file"`
}

// Load resolves configuration from flags > env > config file > defaults.
// Zero-valued flag arguments mean "not set on the command line".
func Load(flagInterval int, flagListen string) (*Config, error) {
	cfg := &Config{
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		Listen:              DefaultListen,
	}

	// 1. Config file as base
	if cfgPath := configFilePath(); cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", cfgPath, err)
			}
		}
	}

	// 2. Environment variables override the file
	if v := os.Getenv("WAKEGUARD_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv("WAKEGUARD_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("WAKEGUARD_AUTH"); v != "" {
		cfg.Auth = v == "1" || v == "true"
	}

	// 3. CLI flags override everything
	if flagInterval > 0 {
		cfg.PollIntervalSeconds = flagInterval
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PollIntervalSeconds < 1 || c.PollIntervalSeconds > 3600 {
		return fmt.Errorf("poll_interval_seconds must be between 1 and 3600, got %d", c.PollIntervalSeconds)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}

func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".wakeguard", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
