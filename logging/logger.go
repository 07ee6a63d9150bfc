package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FORMAT_PLAIN = "plain"
	FORMAT_JSON  = "json"

	DEFAULT_TIMESTAMP_FORMAT = "2006-01-02 15:04:05"
)

// PlainFormatter writes "LEVL timestamp message k=v ..." lines.
type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f *PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb strings.Builder

	level := int(entry.Level)
	if level < len(f.LevelDesc) {
		sb.WriteString(f.LevelDesc[level])
	} else {
		sb.WriteString(strings.ToUpper(entry.Level.String()))
	}
	sb.WriteByte(' ')
	sb.WriteString(entry.Time.Format(f.TimestampFormat))
	sb.WriteByte(' ')
	sb.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
		}
	}

	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

type Config struct {
	Debug      bool   `koanf:"debug" json:"debug"`
	Format     string `koanf:"format" json:"format"`
	Filename   string `koanf:"filename" json:"filename"`
	MaxSizeMB  int    `koanf:"max_size" json:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups" json:"max_backups"`
	MaxAgeDays int    `koanf:"max_age" json:"max_age"` // Days
	Compress   bool   `koanf:"compress" json:"compress"`
}

func GetDefaultConfig() Config {
	return Config{
		Format:     FORMAT_PLAIN,
		MaxSizeMB:  500,
		MaxBackups: 5,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

func (cfg *Config) Validate() error {
	switch cfg.Format {
	case "", FORMAT_PLAIN, FORMAT_JSON:
	default:
		return fmt.Errorf("invalid logging format '%s': must be '%s' or '%s'", cfg.Format, FORMAT_PLAIN, FORMAT_JSON)
	}

	if cfg.Filename != "" && cfg.MaxSizeMB <= 0 {
		return fmt.Errorf("invalid max_size '%d': must be > 0 when logging to a file", cfg.MaxSizeMB)
	}

	return nil
}

func (cfg *Config) formatter() logrus.Formatter {
	if cfg.Format == FORMAT_JSON {
		return &logrus.JSONFormatter{
			TimestampFormat: DEFAULT_TIMESTAMP_FORMAT,
		}
	}
	return &PlainFormatter{
		TimestampFormat: DEFAULT_TIMESTAMP_FORMAT,
		LevelDesc:       []string{"PANC", "FATL", "ERRO", "WARN", "INFO", "DEBG", "TRAC"},
	}
}

func (cfg *Config) CreateLogger(rotate bool, wrapStdlibDefault bool) *logrus.Logger {
	return cfg.CreateLoggerWithOutput(os.Stdout, rotate, wrapStdlibDefault)
}

// CreateLoggerWithOutput is CreateLogger writing to output instead of
// stdout. The log file, when configured, still receives a copy.
func (cfg *Config) CreateLoggerWithOutput(output io.Writer, rotate bool, wrapStdlibDefault bool) *logrus.Logger {
	if cfg.Filename != "" {
		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}

		if rotate {
			lumberjackLogger.Rotate()
		}

		// Fork writing into two outputs
		output = io.MultiWriter(output, lumberjackLogger)
	}

	logger := logrus.New()
	logger.SetFormatter(cfg.formatter())
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	logger.SetOutput(output)

	if wrapStdlibDefault {
		log.SetOutput(logger.Writer())
	}

	return logger
}
