package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initLogger создает логгер. "production" включает JSON логгер zap,
// остальные значения задают уровень development логгера (debug, info, warn, error).
func initLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
		return logger, nil
	}

	cfg := zap.NewDevelopmentConfig()
	if logLevel != "" {
		level, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return logger, nil
}
