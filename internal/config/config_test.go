package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examprep/examprep/internal/schedule"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EXAMPREP_DB", "EXAMPREP_USER", "EXAMPREP_LOG_LEVEL", "EXAMPREP_LOG_FILE",
		"EXAMPREP_STRATEGY", "EXAMPREP_WEEKLY_HOURS", "EXAMPREP_LLM_PROVIDER",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultUser, cfg.User)
	assert.Equal(t, schedule.WeakAreasFocus, cfg.Strategy())
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path: /tmp/prep.db
user: ana
log_level: debug
schedule:
  strategy: balanced
  weekly_hours: 12.5
  weeks: 3
  study_days: [mon, wednesday, Fri, mon]
  max_session_hours: 1.5
llm:
  provider: mock
  timeout: 20s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prep.db", cfg.DBPath)
	assert.Equal(t, "ana", cfg.User)
	assert.Equal(t, schedule.Balanced, cfg.Strategy())
	assert.Equal(t, 12.5, cfg.Schedule.WeeklyHours)
	assert.Equal(t, 3, cfg.Schedule.Weeks)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	// Unset nested values keep their defaults.
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, p.StudyDays)
	assert.Equal(t, 1.5, p.MaxSessionHours)

	llmCfg, ok := cfg.LLMConfig()
	assert.True(t, ok)
	assert.Equal(t, "mock", llmCfg.Provider)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "user: ana\nschedule:\n  weekly_hours: 4\n")
	t.Setenv("EXAMPREP_USER", "bruno")
	t.Setenv("EXAMPREP_WEEKLY_HOURS", "20")
	t.Setenv("EXAMPREP_STRATEGY", "uniform-review")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bruno", cfg.User)
	assert.Equal(t, 20.0, cfg.Schedule.WeeklyHours)
	assert.Equal(t, schedule.UniformReview, cfg.Strategy())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "user: [unterminated"},
		{"bad strategy", "schedule:\n  strategy: cram\n"},
		{"negative hours", "schedule:\n  weekly_hours: -1\n"},
		{"bad weekday", "schedule:\n  study_days: [funday]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
