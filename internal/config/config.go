// Package config loads examprep settings from an optional YAML file,
// EXAMPREP_* environment variables and command-line flags, in that order
// of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/examprep/examprep/internal/llm"
	"github.com/examprep/examprep/internal/schedule"
)

// DefaultUser is the profile used when none is configured.
const DefaultUser = "default"

type Config struct {
	DBPath   string         `yaml:"db_path"`
	User     string         `yaml:"user"`
	LogLevel string         `yaml:"log_level"`
	LogFile  string         `yaml:"log_file"`
	Schedule ScheduleConfig `yaml:"schedule"`
	LLM      llm.Config     `yaml:"llm"`
}

// ScheduleConfig holds plan generation defaults.
type ScheduleConfig struct {
	Strategy        string   `yaml:"strategy"`
	WeeklyHours     float64  `yaml:"weekly_hours"`
	Weeks           int      `yaml:"weeks"`
	StudyDays       []string `yaml:"study_days"`
	MaxSessionHours float64  `yaml:"max_session_hours"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		User:     DefaultUser,
		LogLevel: "info",
		Schedule: ScheduleConfig{
			Strategy:    string(schedule.WeakAreasFocus),
			WeeklyHours: 10,
			Weeks:       1,
		},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/examprep/config.yaml, falling back
// to ~/.config/examprep/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "examprep", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults and applies the
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv("EXAMPREP_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("EXAMPREP_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("EXAMPREP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("EXAMPREP_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("EXAMPREP_STRATEGY"); v != "" {
		c.Schedule.Strategy = v
	}
	if v := os.Getenv("EXAMPREP_WEEKLY_HOURS"); v != "" {
		if h, err := strconv.ParseFloat(v, 64); err == nil {
			c.Schedule.WeeklyHours = h
		}
	}
	c.LLM.ApplyEnv()
}

// Validate checks the schedule section. LLM settings are validated when
// a provider is built.
func (c Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	if _, err := schedule.ParseStrategy(c.Schedule.Strategy); err != nil {
		return fmt.Errorf("schedule.strategy: %w", err)
	}
	if c.Schedule.WeeklyHours < 0 {
		return fmt.Errorf("schedule.weekly_hours must not be negative, got %v", c.Schedule.WeeklyHours)
	}
	if c.Schedule.Weeks < 0 {
		return fmt.Errorf("schedule.weeks must not be negative, got %d", c.Schedule.Weeks)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Strategy returns the configured default strategy.
func (c Config) Strategy() schedule.Strategy {
	s, err := schedule.ParseStrategy(c.Schedule.Strategy)
	if err != nil {
		return schedule.WeakAreasFocus
	}
	return s
}

// Policy builds the allocator policy from the schedule section.
func (c Config) Policy() (schedule.Policy, error) {
	p := schedule.DefaultPolicy()
	if c.Schedule.MaxSessionHours > 0 {
		p.MaxSessionHours = c.Schedule.MaxSessionHours
	}
	if len(c.Schedule.StudyDays) > 0 {
		days := make([]time.Weekday, 0, len(c.Schedule.StudyDays))
		seen := make(map[time.Weekday]bool)
		for _, name := range c.Schedule.StudyDays {
			d, err := schedule.ParseWeekday(name)
			if err != nil {
				return p, fmt.Errorf("schedule.study_days: %w", err)
			}
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		p.StudyDays = days
	}
	return p, nil
}

// LLMConfig returns the provider configuration, falling back to vendor
// key discovery when no provider is set. ok is false when the assistant
// is disabled.
func (c Config) LLMConfig() (llm.Config, bool) {
	if c.LLM.Enabled() {
		return c.LLM, true
	}
	return llm.DiscoverConfig()
}
