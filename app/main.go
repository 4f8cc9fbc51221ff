package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lysyi3m/ilias-herald/app/api"
	"github.com/lysyi3m/ilias-herald/app/bot"
	"github.com/lysyi3m/ilias-herald/app/catalog"
	"github.com/lysyi3m/ilias-herald/app/cfg"
	"github.com/lysyi3m/ilias-herald/app/database"
	"github.com/lysyi3m/ilias-herald/app/feed"
	"github.com/lysyi3m/ilias-herald/app/metrics"
	"github.com/lysyi3m/ilias-herald/app/notify"
	"github.com/lysyi3m/ilias-herald/app/tasks"
)

func main() {
	// Local development convenience; production uses the real environment.
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg)

	slog.Info("Starting ILIAS Herald", "version", appCfg.Version, "feed_url", appCfg.FeedURL)

	if err := run(appCfg); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}

	slog.Info("ILIAS Herald shutdown complete")
}

func setupLogger(appCfg *cfg.Cfg) {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch appCfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func run(appCfg *cfg.Cfg) error {
	tables, err := catalog.Load(appCfg.TablesDir)
	if err != nil {
		return fmt.Errorf("failed to load classification tables: %w", err)
	}
	subjects, statuses, fileTypes := tables.Counts()
	slog.Info("Classification tables loaded", "subjects", subjects, "statuses", statuses, "file_types", fileTypes)

	state, err := cfg.LoadState(appCfg.GetStateFile())
	if err != nil {
		return fmt.Errorf("failed to load runtime state: %w", err)
	}

	store, err := database.Open(appCfg.StoreBackend, appCfg.StorePath())
	if err != nil {
		return fmt.Errorf("failed to open dedup store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close dedup store", "error", err)
		}
	}()
	slog.Info("Dedup store loaded", "backend", appCfg.StoreBackend, "path", appCfg.StorePath(), "entries", store.Len())

	metrics.Init()
	metrics.SetStoreEntries(store.Len())

	var (
		sink    notify.Sink = notify.NewLogSink()
		discord *bot.Bot
	)
	if appCfg.DiscordToken != "" {
		discord, err = bot.New(appCfg.DiscordToken, bot.Channels{
			Primary:         appCfg.RSSChannelID,
			Assignment:      appCfg.AssignmentChannelID,
			DebugPrimary:    appCfg.DebugChannelID,
			DebugAssignment: appCfg.DebugAssignmentChannelID,
		}, state)
		if err != nil {
			return err
		}
		sink = discord
	} else {
		slog.Warn("DISCORD_TOKEN not set, notifications are only logged")
	}

	factory := tasks.NewFactory(
		tasks.Settings{
			URL:       appCfg.FeedURL,
			StoreTime: appCfg.StoreTime,
			Timeout:   appCfg.GetFetchTimeout(),
			UserAgent: appCfg.UserAgent,
		},
		&http.Client{},
		feed.NewParser(),
		tables,
		store,
		sink,
	)
	scheduler := tasks.NewScheduler(factory, appCfg.GetReloadInterval())

	if discord != nil {
		discord.HandleCommands(bot.NewCommander(scheduler, state))
		if err := discord.Open(); err != nil {
			return err
		}
		defer func() {
			if err := discord.Close(); err != nil {
				slog.Error("Failed to close discord session", "error", err)
			}
		}()
	}

	slog.Info("Starting background scheduler", "reload_interval", appCfg.GetReloadInterval().String())
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(scheduler, state, factory, tables, appCfg.FeedURL, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "api_enabled", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErrChan:
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	return runErr
}
