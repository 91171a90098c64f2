package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/handler"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
)

const connectTimeout = 10 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// Подключаем хранилище, без него работа теряет смысл
	store, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to connect to the store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	logger.Info("Successfully connected to the store!", zap.String("driver", cfg.StoreDriver))

	taskHandler := handler.NewTaskHandler(service.NewTaskService(store), logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(taskHandler, logger, cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown: сначала дожидаемся запросов, потом закрываем хранилище
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"server": func(ctx context.Context) error {
				logger.Info("Shutting down server...")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return store.Close(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server stopped", zap.Int("exit_code", exitCode))
	logger.Sync()
	os.Exit(exitCode)
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func openStore(ctx context.Context, cfg config.Config) (repo.TaskRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var store repo.TaskRepository
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := repo.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store = repo.NewMongoRepo(client, cfg.MongoDatabase())
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := repo.NewPostgresRepo(pool)
		if err := pg.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		store = pg
	case config.DriverMemory:
		store = repo.NewMemoryRepo()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	return store, nil
}
