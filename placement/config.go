package placement

import (
	"fmt"
	"runtime"
)

type Config struct {
	// inward padding applied before searching for the pole, in polygon units
	Padding float64 `koanf:"padding" json:"padding"`
	// font size used when only label text is given
	FontSize float64 `koanf:"font_size" json:"font_size"`
	// number of polygons placed concurrently per request
	Workers   int       `koanf:"workers" json:"workers"`
	Evaluator Evaluator `koanf:"evaluator" json:"evaluator"`
}

func GetDefaultConfig() Config {
	return Config{
		Padding:   DEFAULT_PADDING,
		FontSize:  DEFAULT_FONT_SIZE,
		Workers:   runtime.NumCPU(),
		Evaluator: DefaultEvaluator(),
	}
}

func (cfg *Config) Validate() error {
	if val := cfg.Padding; val < 0 {
		return fmt.Errorf("invalid padding '%0.3f': must be >= 0", val)
	}

	if val := cfg.FontSize; !(val > 0) {
		return fmt.Errorf("invalid font_size '%0.3f': must be > 0", val)
	}

	if val := cfg.Workers; val < 1 {
		return fmt.Errorf("invalid workers '%d': must be > 0", val)
	}

	if err := cfg.Evaluator.Validate(); err != nil {
		return fmt.Errorf("evaluator: %w", err)
	}

	return nil
}

func (cfg *Config) Labeler() *Labeler {
	return &Labeler{
		Padding:   cfg.Padding,
		FontSize:  cfg.FontSize,
		Evaluator: cfg.Evaluator,
	}
}
