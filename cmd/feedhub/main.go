package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"feedhub/internal/config"
	"feedhub/internal/domain"
	"feedhub/internal/provider"
	"feedhub/internal/provider/linkedin"
	"feedhub/internal/provider/mastodon"
	"feedhub/internal/provider/rss"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "feedhub",
		Short:         "Aggregate social feeds from linked accounts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newPollCmd(&configPath))

	return rootCmd
}

// app holds what every command needs after start-up.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sqlx.DB
	registry *provider.Registry
}

func bootstrap(configPath string) (*app, error) {
	logger := setupLogger("info")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, err
	}
	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database")

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		registry: newRegistry(cfg, logger),
	}, nil
}

// newRegistry wires every adapter. Each Resolve builds a fresh instance.
func newRegistry(cfg *config.Config, logger *slog.Logger) *provider.Registry {
	p := cfg.Providers
	return provider.NewRegistry(map[domain.ProviderName]provider.Factory{
		mastodon.Name: func() provider.Adapter {
			return mastodon.New(mastodon.Config{
				ClientID:     p.Mastodon.ClientID,
				ClientSecret: p.Mastodon.ClientSecret,
				RedirectURL:  p.Mastodon.RedirectURL,
				Scopes:       p.Mastodon.Scopes,
				Instance:     p.Mastodon.Instance,
				Timeout:      cfg.API.Timeout,
			}, logger)
		},
		linkedin.Name: func() provider.Adapter {
			return linkedin.New(linkedin.Config{
				BaseURL:      p.LinkedIn.BaseURL,
				AuthURL:      p.LinkedIn.AuthURL,
				ClientID:     p.LinkedIn.ClientID,
				ClientSecret: p.LinkedIn.ClientSecret,
				RedirectURL:  p.LinkedIn.RedirectURL,
				Scopes:       p.LinkedIn.Scopes,
				Timeout:      cfg.API.Timeout,
			}, logger)
		},
		rss.Name: func() provider.Adapter {
			return rss.New(rss.Config{
				UserAgent: p.RSS.UserAgent,
				Timeout:   cfg.API.Timeout,
			}, logger)
		},
	})
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
