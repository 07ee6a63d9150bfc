package pyroscope

import (
	"fmt"
	"net/url"
)

const DEFAULT_APPLICATION_NAME = "riverlabel"

type Config struct {
	ApplicationName      string            `koanf:"application_name" json:"application_name"`
	ServerAddress        string            `koanf:"server_address" json:"server_address"`
	ApiKey               string            `koanf:"api_key" json:"-"`
	MutexProfileFraction int               `koanf:"mutex_profile_fraction" json:"mutex_profile_fraction"`
	BlockProfileRate     int               `koanf:"block_profile_rate" json:"block_profile_rate"`
	Tags                 map[string]string `koanf:"tags" json:"tags"`
}

func (cfg *Config) Enabled() bool {
	return cfg.ServerAddress != ""
}

func (cfg *Config) Validate() error {
	if !cfg.Enabled() {
		return nil
	}
	if _, err := url.ParseRequestURI(cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid pyroscope server_address '%s': %w", cfg.ServerAddress, err)
	}
	if cfg.ApplicationName == "" {
		return fmt.Errorf("pyroscope application_name is required when server_address is set")
	}
	if cfg.MutexProfileFraction < 0 {
		return fmt.Errorf("invalid pyroscope mutex_profile_fraction '%d': must be >= 0", cfg.MutexProfileFraction)
	}
	if cfg.BlockProfileRate < 0 {
		return fmt.Errorf("invalid pyroscope block_profile_rate '%d': must be >= 0", cfg.BlockProfileRate)
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		ApplicationName: DEFAULT_APPLICATION_NAME,
	}
}
