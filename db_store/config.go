package db_store

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	DEFAULT_DB_PORT = "3306"
)

type DBConfig struct {
	Addr     string `koanf:"addr" json:"addr"`
	User     string `koanf:"user" json:"user"`
	Password string `koanf:"password" json:"-"`
	Db       string `koanf:"db" json:"db"`
	Port     string `koanf:"port" json:"port"`

	MaxPool int `koanf:"max_pool" json:"max_pool"`
	// directory holding the schema migrations. empty skips migrating.
	MigrationsPath string `koanf:"migrations_path" json:"migrations_path"`
}

func (cfg *DBConfig) Enabled() bool {
	return cfg.Addr != "" || cfg.Db != ""
}

func (cfg *DBConfig) SetFromUri(uri *url.URL) error {
	if ui := uri.User; ui != nil {
		cfg.User = ui.Username()
		cfg.Password, _ = ui.Password()
	}
	cfg.Addr = uri.Hostname()
	if port := uri.Port(); port != "" {
		cfg.Port = port
	}
	cfg.Db = strings.TrimLeft(uri.Path, "/")
	if cfg.Db == "" {
		return errors.New("no database name in uri path")
	}
	return nil
}

func (cfg *DBConfig) AsDSN() string {
	port := cfg.Port
	if port == "" {
		port = DEFAULT_DB_PORT
	}
	return fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Addr, port, cfg.Db)
}

func (cfg *DBConfig) Validate() error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.Addr == "" {
		return errors.New("db: no addr configured")
	}
	if cfg.Db == "" {
		return errors.New("db: no database name configured")
	}
	if cfg.User == "" {
		return errors.New("db: no user configured")
	}
	if cfg.MaxPool < 0 {
		return fmt.Errorf("db: invalid max_pool '%d': must be >= 0", cfg.MaxPool)
	}
	return nil
}
