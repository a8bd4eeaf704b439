package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Forum config
	assert.Equal(t, []string{"naobaijin.app", "www.naobaijin.app"}, cfg.Forum.Domains)
	assert.Equal(t, 30, cfg.Forum.TimeoutSeconds)
	assert.Contains(t, cfg.Forum.UserAgent, "Mozilla/5.0")
	assert.Equal(t, int64(10*1024*1024), cfg.Forum.MaxBodyBytes)

	// Scanner markers
	assert.Equal(t, "tags_e5a45e", cfg.Scanner.ContainerMarker)
	assert.Equal(t, "pill_a2c9e8 small_a2c9e8", cfg.Scanner.PillMarker)
	assert.Equal(t, "defaultColor__4bd52", cfg.Scanner.ExclusionMarker)
	assert.Equal(t, "lineClamp1__4bd52", cfg.Scanner.TextMarker)

	// Automation config
	assert.Empty(t, cfg.Automation.ActiveRuleset)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, 30, cfg.Forum.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"FORUM_DOMAINS":             "forum.test,www.forum.test",
		"FORUM_TIMEOUT_SECONDS":     "10",
		"SCANNER_CONTAINER_MARKER":  "tags_abc123",
		"ACTIVE_AUTOMATION_RULESET": "rs-7",
		"LOG_LEVEL":                 "debug",
		"LOG_DEV":                   "true",
	}

	for key, value := range envVars {
		os.Setenv(key, value)
	}
	defer func() {
		for key := range envVars {
			os.Unsetenv(key)
		}
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"forum.test", "www.forum.test"}, cfg.Forum.Domains)
	assert.Equal(t, 10, cfg.Forum.TimeoutSeconds)
	assert.Equal(t, "tags_abc123", cfg.Scanner.ContainerMarker)
	assert.Equal(t, "rs-7", cfg.Automation.ActiveRuleset)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}
