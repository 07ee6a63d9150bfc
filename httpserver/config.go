package httpserver

import (
	"errors"
	"fmt"
	"time"
)

const DEFAULT_SHUTDOWN_TIMEOUT_SECONDS = 5

type Config struct {
	Addr                   string `koanf:"addr" json:"addr"`
	ShutdownTimeoutSeconds int    `koanf:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds"`
}

func (cfg *Config) ShutdownTimeout() time.Duration {
	return time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
}

func (cfg *Config) Validate() error {
	if cfg.Addr == "" {
		return errors.New("no http addr configured")
	}
	if cfg.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("invalid shutdown_timeout_seconds '%d': must be >= 0", cfg.ShutdownTimeoutSeconds)
	}
	return nil
}
