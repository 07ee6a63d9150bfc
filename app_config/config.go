package app_config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/db_store"
	"github.com/kartwerk/riverlabel/httpserver"
	"github.com/kartwerk/riverlabel/importer"
	"github.com/kartwerk/riverlabel/logging"
	"github.com/kartwerk/riverlabel/overpass"
	"github.com/kartwerk/riverlabel/placement"
	"github.com/kartwerk/riverlabel/placement_cache"
	"github.com/kartwerk/riverlabel/pyroscope"
	"github.com/kartwerk/riverlabel/stats_collector"
)

const (
	ENV_DB_PASSWORD    = "RIVERLABEL_DB_PASSWORD"
	ENV_REDIS_PASSWORD = "RIVERLABEL_REDIS_PASSWORD"
)

type Config struct {
	Placement placement.Config `koanf:"placement"`
	Importer  importer.Config  `koanf:"importer"`

	Logging logging.Config    `koanf:"logging"`
	HTTP    httpserver.Config `koanf:"http"`

	DB       db_store.DBConfig      `koanf:"db"`
	Cache    placement_cache.Config `koanf:"cache"`
	Overpass overpass.Config        `koanf:"overpass"`

	Prometheus stats_collector.PrometheusConfig `koanf:"prometheus"`
	Pyroscope  pyroscope.Config                 `koanf:"pyroscope"`
}

func (cfg *Config) CreateLogger(rotate bool) *logrus.Logger {
	return cfg.Logging.CreateLogger(rotate, true)
}

func (cfg *Config) GetPrometheusConfig() stats_collector.PrometheusConfig {
	return cfg.Prometheus
}

func (cfg *Config) Validate() error {
	if err := cfg.Placement.Validate(); err != nil {
		return fmt.Errorf("placement: %w", err)
	}

	if err := cfg.Importer.Validate(); err != nil {
		return fmt.Errorf("importer: %w", err)
	}

	if err := cfg.Logging.Validate(); err != nil {
		return err
	}

	if err := cfg.HTTP.Validate(); err != nil {
		return err
	}

	if err := cfg.DB.Validate(); err != nil {
		return err
	}

	if err := cfg.Cache.Validate(); err != nil {
		return err
	}

	if err := cfg.Overpass.Validate(); err != nil {
		return err
	}

	if err := cfg.Prometheus.Validate(); err != nil {
		return err
	}

	if err := cfg.Pyroscope.Validate(); err != nil {
		return err
	}

	return nil
}

// applyEnv fills secrets that should not live in the config file.
func (cfg *Config) applyEnv() {
	if v := os.Getenv(ENV_DB_PASSWORD); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv(ENV_REDIS_PASSWORD); v != "" {
		cfg.Cache.Password = v
	}
}

func GetDefaultConfig() Config {
	importerConfig := importer.GetDefaultConfig()

	return Config{
		Placement: placement.GetDefaultConfig(),
		Importer:  importerConfig,

		Logging: logging.Config{
			Format:     logging.FORMAT_PLAIN,
			Filename:   filepath.FromSlash("logs/riverlabel.log"),
			MaxSizeMB:  500,
			MaxAgeDays: 7,
			MaxBackups: 20,
			Compress:   true,
		},

		HTTP: httpserver.Config{
			Addr:                   "127.0.0.1:9050",
			ShutdownTimeoutSeconds: httpserver.DEFAULT_SHUTDOWN_TIMEOUT_SECONDS,
		},

		DB: db_store.DBConfig{
			MigrationsPath: "./db_store/sql",
		},

		Cache:      placement_cache.GetDefaultConfig(),
		Overpass:   overpass.GetDefaultConfig(),
		Prometheus: stats_collector.GetDefaultPrometheusConfig(),
		Pyroscope:  pyroscope.GetDefaultConfig(),
	}
}

// LoadEnvFile loads 'filename' into the environment. A missing file is
// not an error.
func LoadEnvFile(filename string) error {
	err := godotenv.Load(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file '%s': %w", filename, err)
	}
	return nil
}

// LoadConfig layers the toml file over defaultConfig, then secrets from the
// environment. An empty filename uses the defaults only.
func LoadConfig(filename string, defaultConfig Config) (*Config, error) {
	k := koanf.New(".")
	err := k.Load(structs.Provider(defaultConfig, "koanf"), nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't load default config: %w", err)
	}

	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return nil, fmt.Errorf("couldn't open '%s': %w", filename, err)
		}
		err = k.Load(file.Provider(filename), toml.Parser())
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyEnv()
	cfg.Importer.Placement = cfg.Placement

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
