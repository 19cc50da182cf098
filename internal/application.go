package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rocketscienceinc/dice-backend/internal/config"
	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/metrics"
	"github.com/rocketscienceinc/dice-backend/internal/repository"
	"github.com/rocketscienceinc/dice-backend/internal/repository/storage"
	"github.com/rocketscienceinc/dice-backend/internal/usecase"
	"github.com/rocketscienceinc/dice-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
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

	stateRepo, closeStorage, err := newStateRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	source, err := dice.NewRandomSource()
	if err != nil {
		return fmt.Errorf("could not seed dice: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gameManager := usecase.NewGameManager(logger, stateRepo, source, metrics.New(registry), conf.HistoryLimit)
	handlers := rest.NewHandlers(logger, gameManager)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)

	if err = rest.Start(ctx, logger, conf.HTTPPort, handlers.Routes(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newStateRepository(ctx context.Context, conf *config.Config) (repository.StateRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryStateRepository(), func() error { return nil }, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewRedisStateRepository(redisStorage.Connection), redisStorage.Close, nil
}
