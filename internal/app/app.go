package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avc/crypto-bridge/internal/config"
	"github.com/avc/crypto-bridge/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App представляет приложение
type App struct {
	config  *config.Config
	logger  *zap.Logger
	storage *storage
	deps    *dependencies
	router  *chi.Mux
	clock   *worker.Clock
	server  *http.Server
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	ctx := context.Background()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Инициализация хранилища
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Инициализация зависимостей
	deps, err := initDependencies(ctx, cfg, store, logger)
	if err != nil {
		store.close()
		return nil, fmt.Errorf("failed to init dependencies: %w", err)
	}

	// Настройка роутера
	router := setupRouter(deps, logger)

	// Создание HTTP сервера
	server := createServer(cfg.RunAddress, router, cfg.VerifyTimeout)

	return &App{
		config:  cfg,
		logger:  logger,
		storage: store,
		deps:    deps,
		router:  router,
		clock:   deps.clock,
		server:  server,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск часов охлаждения и простоя
	a.clock.Start(ctx)
	a.logger.Info("session clock started", zap.Duration("interval", a.config.TickInterval))

	// Запуск HTTP сервера и ожидание сигнала завершения
	err := a.runServer(ctx)

	// Graceful shutdown, в том числе после ошибки сервера
	a.shutdown(cancel)

	return err
}
