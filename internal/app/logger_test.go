package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{"Default is debug", "", zapcore.DebugLevel, zapcore.InvalidLevel},
		{"Info", "info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"Warn", "warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"Production", "production", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initLogger(tt.level)
			require.NoError(t, err)

			assert.True(t, logger.Core().Enabled(tt.enabled))
			if tt.disabled != zapcore.InvalidLevel {
				assert.False(t, logger.Core().Enabled(tt.disabled))
			}
		})
	}

	t.Run("Unknown level", func(t *testing.T) {
		_, err := initLogger("loud")
		assert.Error(t, err)
	})
}
