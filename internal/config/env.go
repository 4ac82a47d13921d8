package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment variable overrides on top of cfg.
// Unset or malformed variables leave the existing value untouched.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("WORKPLAN_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("WORKPLAN_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("WORKPLAN_BURNDOWN_VARIANT"); v != "" {
		cfg.Burndown.Variant = v
	}
	if v := os.Getenv("WORKPLAN_VELOCITY_GRANULARITY"); v != "" {
		cfg.Velocity.Granularity = v
	}
	if v := getEnvInt("WORKPLAN_VELOCITY_MAX_PERIODS"); v > 0 {
		cfg.Velocity.MaxPeriods = v
	}
	if v := getEnvInt("WORKPLAN_DUE_SOON_DAYS"); v > 0 {
		cfg.DueSoon.WindowDays = v
	}
	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
