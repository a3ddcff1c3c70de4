// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/kinetype/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice  PracticeConfig  `toml:"practice"`
	Placement PlacementConfig `toml:"placement"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Learner       *string  `toml:"learner"`
	Catalog       *string  `toml:"catalog"`
	Words         *int     `toml:"words"`
	Caps          *string  `toml:"caps"`
	Punct         *string  `toml:"punct"`
	StrugglePct   *float64 `toml:"struggle-pct"`
	NewPct        *float64 `toml:"new-pct"`
	ConfidencePct *float64 `toml:"confidence-pct"`
	Boosters      *int     `toml:"boosters"`
}

// PlacementConfig maps placement test settings.
type PlacementConfig struct {
	Items *int `toml:"items"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if c.Practice.Caps != nil {
		if _, err := model.ParseFrequency(*c.Practice.Caps); err != nil {
			return fmt.Errorf("invalid practice.caps: %w", err)
		}
	}
	if c.Practice.Punct != nil {
		if _, err := model.ParseFrequency(*c.Practice.Punct); err != nil {
			return fmt.Errorf("invalid practice.punct: %w", err)
		}
	}
	if c.Placement.Items != nil && *c.Placement.Items <= 0 {
		return fmt.Errorf("placement.items must be > 0")
	}
	return nil
}
