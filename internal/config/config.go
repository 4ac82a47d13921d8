package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Store    Store    `yaml:"store" json:"store"`
	Burndown Burndown `yaml:"burndown" json:"burndown"`
	Velocity Velocity `yaml:"velocity" json:"velocity"`
	DueSoon  DueSoon  `yaml:"due_soon" json:"due_soon"`
}

type Store struct {
	// Driver: "sqlite" | "file" | "memory"
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
}

type Burndown struct {
	// Variant: "count" | "hours"
	Variant string `yaml:"variant" json:"variant"`
}

type Velocity struct {
	// Granularity: "weekly" | "biweekly" | "monthly"
	Granularity string `yaml:"granularity" json:"granularity"`
	MaxPeriods  int    `yaml:"max_periods" json:"max_periods"`
}

type DueSoon struct {
	WindowDays int `yaml:"window_days" json:"window_days"`
}

func Default() Config {
	return Config{
		Store:    Store{Driver: "sqlite", Path: "data/workplan.db"},
		Burndown: Burndown{Variant: "count"},
		Velocity: Velocity{Granularity: "weekly", MaxPeriods: 12},
		DueSoon:  DueSoon{WindowDays: 3},
	}
}

// Load reads the yaml config at path, on top of defaults. A missing file
// is not an error; env overrides apply last either way.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(cfg), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return FromEnv(cfg), nil
}
