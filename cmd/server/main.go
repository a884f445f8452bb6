package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bloxpanel/bloxpanel/internal/api"
	"github.com/bloxpanel/bloxpanel/internal/config"
	"github.com/bloxpanel/bloxpanel/internal/discord"
	"github.com/bloxpanel/bloxpanel/internal/factory"
	"github.com/bloxpanel/bloxpanel/internal/roblox"
	"github.com/bloxpanel/bloxpanel/internal/services/access"
	redisstorage "github.com/bloxpanel/bloxpanel/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Build factory config
	factoryCfg := factory.Config{
		Logger:           logger,
		StorageType:      cfg.StorageType,
		AllowedUsersFile: cfg.AllowedUsersFile,
		Discord: discord.Config{
			BaseURL:      discord.DefaultConfig().BaseURL,
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURI:  cfg.DiscordRedirectURI,
		},
		Roblox:     robloxConfig(cfg),
		WebhookURL: cfg.DiscordWebhookURL,
		AccessConfig: access.Config{
			EnforceAllowList: cfg.EnforceAllowList,
			NotifyLogins:     cfg.NotifyLogins,
			SessionDuration:  cfg.SessionDuration,
		},
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SessionTTL = cfg.SessionDuration
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AccessService:  app.AccessService,
		ProfileService: app.ProfileService,
		Storage:        app.Storage,
		Clock:          app.Clock,
		AuthorizeURL:   app.OAuth,
		DashboardURL:   cfg.DashboardOrigin,
		CORSOrigin:     cfg.DashboardOrigin,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func robloxConfig(cfg *config.Config) roblox.Config {
	r := roblox.DefaultConfig()
	if cfg.UpstreamTimeout > 0 {
		r.Timeout = cfg.UpstreamTimeout
	}
	return r
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
