package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Feed     FeedConfig     `yaml:"feed"`
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Engine   EngineConfig   `yaml:"engine"`
	Filter   FilterConfig   `yaml:"filter"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
}

// APIConfig points at the catalog backend for one producer.
type APIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

// FeedConfig configures the optional public release feed source.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// DatabaseConfig configures the local SQLite post cache.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures the daemon refresh interval.
type ScheduleConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

// ParseRefreshInterval returns the refresh interval as time.Duration.
func (s ScheduleConfig) ParseRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// EngineConfig tunes the analytics engine.
type EngineConfig struct {
	LikeWeight  float64 `yaml:"like_weight"`
	SaveWeight  float64 `yaml:"save_weight"`
	AgeDecay    float64 `yaml:"age_decay"`
	SpikeWeight float64 `yaml:"spike_weight"`
	SmearDays   int     `yaml:"smear_days"`
	WindowDays  int     `yaml:"window_days"`
}

// FilterConfig narrows the catalog by keyword before analysis.
type FilterConfig struct {
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// AlertsConfig configures trending-alert destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://res.beatnow.app",
		},
		Database: DatabaseConfig{Path: "./beatpulse.db"},
		Schedule: ScheduleConfig{RefreshInterval: "15m"},
		Engine: EngineConfig{
			LikeWeight:  2,
			SaveWeight:  3,
			AgeDecay:    0.2,
			SpikeWeight: 0.25,
			SmearDays:   7,
			WindowDays:  14,
		},
		Alerts: AlertsConfig{},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
// A .env file in the working directory is honored before the environment
// is read.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BEATPULSE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("BEATPULSE_USERNAME"); v != "" {
		cfg.API.Username = v
	}
	if v := os.Getenv("BEATPULSE_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("BEATPULSE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
