package importer

import (
	"fmt"

	"github.com/kartwerk/riverlabel/placement"
)

type Config struct {
	// name given to polygons that come without one.
	DefaultName string `koanf:"default_name"`
	// append the representative point of the polygon to DefaultName.
	DefaultNameLocation bool `koanf:"default_name_location"`
	// label text. The polygon's name is used when empty.
	Text string `koanf:"text"`
	// place one label per name instead of one per part.
	Best bool `koanf:"best"`
	// parts with a smaller area, in polygon units, are skipped.
	MinArea float64 `koanf:"min_area"`

	// below here will be populated from the top level placement config

	Placement placement.Config `koanf:"-" json:"-"`
}

func GetDefaultConfig() Config {
	return Config{
		DefaultName: "River",
		Placement:   placement.GetDefaultConfig(),
	}
}

func (cfg *Config) Validate() error {
	if cfg.MinArea < 0 {
		return fmt.Errorf("invalid min_area '%0.3f': must be >= 0", cfg.MinArea)
	}
	if err := cfg.Placement.Validate(); err != nil {
		return fmt.Errorf("placement: %w", err)
	}
	return nil
}
