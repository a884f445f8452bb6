package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage backend: "memory" or "redis"
	StorageType string `envconfig:"STORAGE_TYPE" default:"memory"`
	RedisURL    string `envconfig:"REDIS_URL" default:""`

	// Discord OAuth application
	DiscordClientID     string `envconfig:"DISCORD_CLIENT_ID" required:"true"`
	DiscordClientSecret string `envconfig:"DISCORD_CLIENT_SECRET" required:"true"`
	DiscordRedirectURI  string `envconfig:"DISCORD_REDIRECT_URI" required:"true"`
	DiscordWebhookURL   string `envconfig:"DISCORD_WEBHOOK_URL" default:""`

	// AllowedUsersFile is the externally-owned allow-list document
	AllowedUsersFile string `envconfig:"ALLOWED_USERS_FILE" default:"allowed_users.json"`

	// DashboardOrigin is the browser origin of the dashboard frontend;
	// used for the post-login redirect and CORS.
	DashboardOrigin string `envconfig:"DASHBOARD_ORIGIN" default:"https://bloxpanel-dev.netlify.app"`

	EnforceAllowList bool          `envconfig:"ENFORCE_ALLOW_LIST" default:"true"`
	NotifyLogins     bool          `envconfig:"NOTIFY_LOGINS" default:"true"`
	SessionDuration  time.Duration `envconfig:"SESSION_DURATION" default:"24h"`
	UpstreamTimeout  time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"5s"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
