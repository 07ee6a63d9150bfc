package placement_cache

import (
	"errors"
	"fmt"
	"time"
)

const (
	DEFAULT_TTL_SECONDS = 3600
	DEFAULT_KEY_PREFIX  = "riverlabel:placements:"
)

type Config struct {
	Enabled    bool   `koanf:"enabled" json:"enabled"`
	Addr       string `koanf:"addr" json:"addr"`
	Password   string `koanf:"password" json:"-"`
	DB         int    `koanf:"db" json:"db"`
	TTLSeconds int    `koanf:"ttl_seconds" json:"ttl_seconds"`
	KeyPrefix  string `koanf:"key_prefix" json:"key_prefix"`
}

func GetDefaultConfig() Config {
	return Config{
		Addr:       "127.0.0.1:6379",
		TTLSeconds: DEFAULT_TTL_SECONDS,
		KeyPrefix:  DEFAULT_KEY_PREFIX,
	}
}

func (cfg *Config) TTL() time.Duration {
	return time.Duration(cfg.TTLSeconds) * time.Second
}

func (cfg *Config) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Addr == "" {
		return errors.New("cache: no redis addr configured")
	}
	if cfg.DB < 0 {
		return fmt.Errorf("cache: invalid db '%d': must be >= 0", cfg.DB)
	}
	if cfg.TTLSeconds < 1 {
		return fmt.Errorf("cache: invalid ttl_seconds '%d': must be > 0", cfg.TTLSeconds)
	}
	return nil
}
