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

	"github.com/aditotot/Spinner/bot"
	"github.com/aditotot/Spinner/config"
	"github.com/aditotot/Spinner/handlers"
	"github.com/aditotot/Spinner/live"
	"github.com/aditotot/Spinner/notify"
	api "github.com/aditotot/Spinner/routes"
	"github.com/aditotot/Spinner/services"
	"github.com/aditotot/Spinner/store"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Optional snapshot mirror (Cloudflare R2).
	var mirror store.SnapshotMirror
	if cfg.MirrorEnabled() {
		mirror, err = store.NewCloudflareR2Mirror(store.CloudflareR2MirrorConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 mirror", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 snapshot mirror initialized")
	}

	st := store.New(cfg.DataFile, mirror, logger)
	state := services.NewState(st.Load())
	logger.Info("tournament state loaded", slog.String("file", cfg.DataFile))

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Error("failed to create Discord session", slog.Any("error", err))
		os.Exit(1)
	}
	notifier := notify.NewDiscordNotifier(session, cfg.GuildID)

	progressionService := services.NewProgressionService(state, st, notifier, wsHub, cfg.RefereeRoleID, logger)
	registrationService := services.NewRegistrationService(state, st, notifier, logger)
	logger.Info("services initialized")

	discordBot := bot.New(session, cfg.GuildID, progressionService, registrationService, state, logger)
	if err := discordBot.Start(); err != nil {
		logger.Error("failed to start Discord bot", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := discordBot.Stop(); err != nil {
			logger.Error("failed to close Discord session", slog.Any("error", err))
		} else {
			logger.Info("Discord session closed")
		}
	}()
	logger.Info("Discord bot started")

	spinHandler := handlers.NewSpinHandler(progressionService, registrationService, state)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(router, spinHandler, webSocketHandler, cfg.APIKey)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
