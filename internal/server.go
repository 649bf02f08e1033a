package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/movepeek/tictactoe-console/internal/config"
	"github.com/movepeek/tictactoe-console/internal/renderer"
	"github.com/movepeek/tictactoe-console/internal/repository"
	"github.com/movepeek/tictactoe-console/internal/repository/storage"
	"github.com/movepeek/tictactoe-console/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunService - runs the game service the console client talks to.
func RunService(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	renderCache := repository.NewRenderCacheRepository(redisStorage.Connection, conf.Server.CacheTTL)
	renderService := renderer.New(logger, renderCache)
	handlers := rest.NewHandlers(logger, renderService)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.Server.HTTPPort)
		if httpErr := rest.Start(logger, conf.Server.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
