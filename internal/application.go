package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Satogava-Kaydan/XO/internal/config"
	"github.com/Satogava-Kaydan/XO/internal/repository"
	"github.com/Satogava-Kaydan/XO/internal/repository/storage"
	"github.com/Satogava-Kaydan/XO/internal/service"
	"github.com/Satogava-Kaydan/XO/internal/usecase"
	"github.com/Satogava-Kaydan/XO/transport/rest"
	"github.com/Satogava-Kaydan/XO/transport/websocket"
)

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

	roomRepo, playerRepo, cleanup, err := buildRepositories(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer cleanup()

	roomService := service.NewRoomService(logger, roomRepo, playerRepo)
	roomManager := usecase.NewRoomManager(roomService)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, conf.PublicURL, roomManager); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, roomManager, conf.PublicURL)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// buildRepositories selects the storage backend. The default is the
// in-process map; redis is available for deployments that want room state
// inspectable from outside the process.
func buildRepositories(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.RoomRepository, repository.PlayerRepository, func(), error) {
	switch conf.Storage {
	case config.StorageMemory, "":
		return repository.NewMemoryRoomRepository(), repository.NewMemoryPlayerRepository(), func() {}, nil

	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		cleanup := func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				logger.Error("could not close redis storage", "error", closeErr)
			}
		}

		return repository.NewRoomRepository(redisStorage.Connection), repository.NewPlayerRepository(redisStorage.Connection), cleanup, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend: %q", conf.Storage)
	}
}
