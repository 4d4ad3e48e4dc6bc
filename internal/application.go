package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gameRepo repository.GameRepository
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo = repository.NewGameRepository(redisStorage.Connection, conf.Redis.TTL)
		log.Info("Mirroring game snapshots to redis", "addr", conf.Redis.GetRedisAddr())
	}

	gameManager, err := usecase.NewGameManager(ctx, logger, gameRepo, usecase.Settings{
		DefaultConfig: conf.Game.DefaultGameConfig(),
		MaxBoardSize:  conf.Game.MaxBoardSize,
		MaxSessions:   conf.Game.MaxSessions,
		Seed:          conf.Game.Seed,
	})
	if err != nil {
		return fmt.Errorf("could not create game manager: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(logger, gameManager, conf.CORS.AllowedOrigins)
		httpErrCh <- rest.Start(ctx, conf.HTTPPort, router)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, conf.CORS.AllowedOrigins)
		wsErrCh <- wsServer.Start(ctx, conf.SocketPort)
	}()

	// the first server to stop takes the other one down
	var runErr error
	for range 2 {
		select {
		case err = <-httpErrCh:
			if err != nil {
				err = fmt.Errorf("HTTP server error: %w", err)
			}
		case err = <-wsErrCh:
			if err != nil {
				err = fmt.Errorf("WebSocket server error: %w", err)
			}
		}

		cancel()
		if runErr == nil {
			runErr = err
		}
	}

	log.Info("Application stopped")

	return runErr
}
