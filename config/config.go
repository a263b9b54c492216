/*
Package config loads engine and server tuning from a YAML file.

PURPOSE:
  One place for every tunable: normalizer windows, short-session threshold,
  overtime week, reopen policy, reference timezone, server port, database
  path. Load applies defaults first, overlays the file if one is given, and
  validates the result - a bad timezone name or reopen policy fails at
  startup, not mid-payroll.

FILE FORMAT (all keys optional):
  timezone: America/New_York
  reopen_policy: force_close
  burst_window_seconds: 60
  duplicate_window_seconds: 60
  break_abort_window_seconds: 120
  short_session_minutes: 3
  week_start: monday
  overtime_threshold_hours: 40
  overtime_multiplier: 1.5
  server:
    port: 8080
    db_path: punchclock.db
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/hours"
	"github.com/warp/punch-engine/payroll"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/session"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIG
// =============================================================================

type Config struct {
	Timezone                string  `yaml:"timezone"`
	ReopenPolicy            string  `yaml:"reopen_policy"`
	BurstWindowSeconds      int     `yaml:"burst_window_seconds"`
	DuplicateWindowSeconds  int     `yaml:"duplicate_window_seconds"`
	BreakAbortWindowSeconds int     `yaml:"break_abort_window_seconds"`
	ShortSessionMinutes     int     `yaml:"short_session_minutes"`
	WeekStart               string  `yaml:"week_start"`
	OvertimeThresholdHours  float64 `yaml:"overtime_threshold_hours"`
	OvertimeMultiplier      float64 `yaml:"overtime_multiplier"`

	Server ServerConfig `yaml:"server"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Timezone:                "UTC",
		ReopenPolicy:            string(session.ReopenForceClose),
		BurstWindowSeconds:      60,
		DuplicateWindowSeconds:  60,
		BreakAbortWindowSeconds: 120,
		ShortSessionMinutes:     3,
		WeekStart:               "monday",
		OvertimeThresholdHours:  40,
		OvertimeMultiplier:      1.5,
		Server: ServerConfig{
			Port:   8080,
			DBPath: "punchclock.db",
		},
	}
}

// Load reads the config file at path, overlaying the defaults. An empty path
// returns the defaults. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that can fail at runtime.
func (c Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	switch session.ReopenPolicy(c.ReopenPolicy) {
	case session.ReopenForceClose, session.ReopenDiscard:
	default:
		return fmt.Errorf("invalid reopen_policy %q", c.ReopenPolicy)
	}
	if _, err := parseWeekday(c.WeekStart); err != nil {
		return err
	}
	if c.OvertimeThresholdHours <= 0 {
		return fmt.Errorf("overtime_threshold_hours must be positive, got %v", c.OvertimeThresholdHours)
	}
	if c.OvertimeMultiplier < 1 {
		return fmt.Errorf("overtime_multiplier must be at least 1, got %v", c.OvertimeMultiplier)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Location resolves the configured timezone. Validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AssemblerOptions maps the config onto the payroll engine's options.
func (c Config) AssemblerOptions() payroll.Options {
	weekStart, _ := parseWeekday(c.WeekStart)
	return payroll.Options{
		Windows: punch.Windows{
			Burst:      time.Duration(c.BurstWindowSeconds) * time.Second,
			Duplicate:  time.Duration(c.DuplicateWindowSeconds) * time.Second,
			BreakAbort: time.Duration(c.BreakAbortWindowSeconds) * time.Second,
		},
		Reopen:             session.ReopenPolicy(c.ReopenPolicy),
		ShortSession:       time.Duration(c.ShortSessionMinutes) * time.Minute,
		Week: hours.WeekConfig{
			StartDay:          weekStart,
			OvertimeThreshold: decimal.NewFromFloat(c.OvertimeThresholdHours),
		},
		OvertimeMultiplier: decimal.NewFromFloat(c.OvertimeMultiplier),
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("invalid week_start %q", s)
	}
}
