package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/clients"
	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/config"
	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard"
	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard/gateway"
	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard/remotesync"
	"github.com/STUPA-UNREAL-BROADCAST-DEV/padel-2d-broadcast/go/internal/scoreboard/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	setupLogging(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, closer, err := setupBackend(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open state backend")
	}
	if closer != nil {
		defer closer.Close()
	}

	repo := store.NewRepository(backend, log.Logger)

	// The document must exist before the first request is served.
	created, err := repo.Init(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize scoreboard document")
	}

	app := scoreboard.NewApp(ctx, repo, log.Logger)

	log.Info().
		Str("backend", repo.BackendName()).
		Bool("created", created).
		Str("port", cfg.Server.Port).
		Bool("remote_sync", cfg.RemoteSyncEnabled()).
		Msg("starting scoreboard gateway")

	gatewayConfig := gateway.Config{
		PublicDir: cfg.Server.PublicDir,
		Backend:   repo.BackendName(),
	}

	if cfg.RemoteSyncEnabled() {
		httpClient := &http.Client{Timeout: cfg.RemoteTimeout()}
		source := clients.NewRemoteSourceClient(cfg.Remote.URL, httpClient)
		poller := remotesync.NewPoller(source, app, cfg.PollInterval(), log.Logger,
			remotesync.WithCycleTimeout(cfg.RemoteTimeout()))
		gatewayConfig.SyncStats = poller

		go poller.Run(ctx)
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(gateway.NewRouter(app, gatewayConfig, log.Logger), &http2.Server{}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Stops the remote sync loop
	cancel()

	log.Info().Msg("scoreboard gateway shutdown complete")
}

func setupLogging(cfg config.LogConfig) {
	if cfg.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func setupBackend(ctx context.Context, cfg config.StoreConfig) (store.Backend, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		backend, err := store.DialRedisBackend(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	case config.BackendSQLite:
		backend, err := store.NewSQLiteBackend(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	default:
		return store.NewFileBackend(cfg.File), nil, nil
	}
}
