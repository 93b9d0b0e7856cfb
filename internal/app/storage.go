package app

import (
	"context"
	"fmt"

	"github.com/avc/crypto-bridge/internal/config"
	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/handlers"
	"github.com/avc/crypto-bridge/internal/repository/memory"
	"github.com/avc/crypto-bridge/internal/repository/postgres"
	"github.com/avc/crypto-bridge/internal/repository/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// storage - выбранное хранилище снимка сессии
type storage struct {
	repo   domain.StateRepository
	pinger handlers.Pinger
	close  func()
}

// initStorage открывает хранилище по драйверу из конфигурации
func initStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		repo := memory.NewStateRepository()
		logger.Warn("using in-memory storage, state is lost on restart")
		return &storage{repo: repo, pinger: repo, close: repo.Close}, nil

	case config.StorageSQLite:
		repo, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		logger.Info("opened sqlite storage", zap.String("path", cfg.SQLitePath))
		return &storage{repo: repo, pinger: repo, close: repo.Close}, nil

	case config.StoragePostgres:
		dbPool, err := initDatabase(ctx, cfg.DatabaseURI, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database")
		return &storage{repo: postgres.NewStateRepository(dbPool), pinger: dbPool, close: dbPool.Close}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, cfg.StorageDriver)
	}
}

// initDatabase создает пул соединений с базой данных и выполняет миграции
func initDatabase(ctx context.Context, databaseURI string, logger *zap.Logger) (*pgxpool.Pool, error) {
	dbPool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.RunMigrations(ctx, dbPool, logger); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations completed successfully")

	return dbPool, nil
}
