package factory

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bloxpanel/bloxpanel/internal/allowlist"
	"github.com/bloxpanel/bloxpanel/internal/dependencies/clock"
	"github.com/bloxpanel/bloxpanel/internal/discord"
	"github.com/bloxpanel/bloxpanel/internal/roblox"
	"github.com/bloxpanel/bloxpanel/internal/services/access"
	"github.com/bloxpanel/bloxpanel/internal/services/profile"
	"github.com/bloxpanel/bloxpanel/internal/storage"
	"github.com/bloxpanel/bloxpanel/internal/storage/memory"
	redisstorage "github.com/bloxpanel/bloxpanel/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage   storage.Storage
	Clock     clock.Clock
	AllowList allowlist.Source

	// Upstream clients
	OAuth    *discord.Client
	Platform *roblox.Client
	Webhook  *discord.Webhook

	// Services
	AccessService  *access.Service
	ProfileService *profile.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger

	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig is required when StorageType is "redis"
	RedisConfig *redisstorage.Config

	// AllowList overrides the file-backed source (used in tests)
	// If nil, a file source at AllowedUsersFile is used
	AllowList        allowlist.Source
	AllowedUsersFile string

	// Upstream endpoints
	Discord discord.Config
	Roblox  roblox.Config

	// WebhookURL enables the login notification sink when non-empty
	WebhookURL string

	AccessConfig access.Config
}

// New creates and wires all application components
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis storage requires RedisConfig")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("creating redis storage: %w", err)
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}

	allowList := cfg.AllowList
	if allowList == nil {
		allowList = allowlist.NewFile(cfg.AllowedUsersFile)
	}

	clk := clock.New()
	oauth := discord.New(cfg.Discord)
	platform := roblox.New(cfg.Roblox)

	var webhook *discord.Webhook
	var notifier access.Notifier
	if cfg.WebhookURL != "" {
		webhook = discord.NewWebhook(cfg.WebhookURL)
		notifier = webhook
	}

	accessService := access.New(oauth, allowList, notifier, store, clk, logger, cfg.AccessConfig)
	profileService := profile.New(platform, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		AllowList:      allowList,
		OAuth:          oauth,
		Platform:       platform,
		Webhook:        webhook,
		AccessService:  accessService,
		ProfileService: profileService,
	}, nil
}
