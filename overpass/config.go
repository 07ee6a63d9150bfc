package overpass

import (
	"errors"
	"fmt"
)

const (
	DEFAULT_URL             = "https://overpass-api.de/api/interpreter"
	DEFAULT_TIMEOUT_SECONDS = 180
	DEFAULT_FUZZ_METERS     = 5000
	DEFAULT_MAX_DUPE_TRIES  = 5
)

type Config struct {
	Url            string `koanf:"url" json:"url"`
	TimeoutSeconds int    `koanf:"timeout_seconds" json:"timeout_seconds"`
	// bbox is padded by a random amount up to this many meters so
	// repeated queries are not rejected as duplicates.
	FuzzMeters int `koanf:"fuzz_meters" json:"fuzz_meters"`
}

func (cfg *Config) Validate() error {
	if cfg.Url == "" {
		return errors.New("No overpass url configured")
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid overpass timeout_seconds '%d': must be > 0", cfg.TimeoutSeconds)
	}
	if cfg.FuzzMeters < 0 {
		return fmt.Errorf("invalid overpass fuzz_meters '%d': must be >= 0", cfg.FuzzMeters)
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Url:            DEFAULT_URL,
		TimeoutSeconds: DEFAULT_TIMEOUT_SECONDS,
		FuzzMeters:     DEFAULT_FUZZ_METERS,
	}
}
