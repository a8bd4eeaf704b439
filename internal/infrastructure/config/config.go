package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Forum      ForumConfig
	Scanner    ScannerConfig
	Automation AutomationConfig
	Logging    LogConfig
}

// ForumConfig holds forum fetch configuration.
type ForumConfig struct {
	// Domains accepted by the tag fetcher. Exact hosts or their subdomains.
	Domains []string `envconfig:"FORUM_DOMAINS" default:"naobaijin.app,www.naobaijin.app"`
	// TimeoutSeconds bounds each fetch attempt.
	TimeoutSeconds int    `envconfig:"FORUM_TIMEOUT_SECONDS" default:"30"`
	UserAgent      string `envconfig:"FORUM_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	// RequestsPerSecond rate-limits outbound fetches. <= 0 disables the limit.
	RequestsPerSecond float64 `envconfig:"FORUM_RPS" default:"0"`
	// MaxBodyBytes limits how much of a response body is read.
	MaxBodyBytes int64 `envconfig:"FORUM_MAX_BODY_BYTES" default:"10485760"`
}

// ScannerConfig holds the structural markers of the forum's rendered HTML.
//
// The class suffixes are emitted by the forum's front-end build and can change
// whenever that build regenerates its style hashes. Treat them as a versioned
// external artifact: when the forum ships a new build, update these values
// (environment overrides, no code change required).
type ScannerConfig struct {
	ContainerMarker string `envconfig:"SCANNER_CONTAINER_MARKER" default:"tags_e5a45e"`
	PillMarker      string `envconfig:"SCANNER_PILL_MARKER" default:"pill_a2c9e8 small_a2c9e8"`
	ExclusionMarker string `envconfig:"SCANNER_EXCLUSION_MARKER" default:"defaultColor__4bd52"`
	TextMarker      string `envconfig:"SCANNER_TEXT_MARKER" default:"lineClamp1__4bd52"`
}

// AutomationConfig holds automation configuration.
type AutomationConfig struct {
	// ActiveRuleset names the ruleset applied by the automation hooks.
	// Empty disables automation.
	ActiveRuleset string `envconfig:"ACTIVE_AUTOMATION_RULESET" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Forum: ForumConfig{
			Domains:        []string{"naobaijin.app", "www.naobaijin.app"},
			TimeoutSeconds: 30,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxBodyBytes:   10 * 1024 * 1024,
		},
		Scanner: ScannerConfig{
			ContainerMarker: "tags_e5a45e",
			PillMarker:      "pill_a2c9e8 small_a2c9e8",
			ExclusionMarker: "defaultColor__4bd52",
			TextMarker:      "lineClamp1__4bd52",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
