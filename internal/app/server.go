package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	serverReadTimeout = 15 * time.Second
	serverIdleTimeout = 60 * time.Second
	shutdownTimeout   = 10 * time.Second

	// запас сверх таймаута верификатора: ответ на проверку ждет его результат
	writeTimeoutMargin = 15 * time.Second
)

// createServer создает HTTP сервер
func createServer(addr string, handler *chi.Mux, verifyTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       serverReadTimeout,
		ReadHeaderTimeout: serverReadTimeout,
		WriteTimeout:      verifyTimeout + writeTimeoutMargin,
		IdleTimeout:       serverIdleTimeout,
	}
}

// runServer запускает HTTP сервер и ждет сигнала завершения или ошибки сервера
func (a *App) runServer(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.logger.Info("received signal", zap.String("signal", sig.String()))
		return nil
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// shutdown выполняет graceful shutdown приложения
func (a *App) shutdown(cancel context.CancelFunc) {
	a.logger.Info("shutting down server...")

	// Останавливаем прием новых запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	// Останавливаем часы
	cancel()
	a.clock.Stop()
	a.logger.Info("session clock stopped")

	if rc := a.deps.transports.cache; rc != nil {
		if err := rc.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}

	a.storage.close()
	a.logger.Info("storage closed")

	_ = a.logger.Sync()
}
