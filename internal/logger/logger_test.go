package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		environment string
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"development debug", "debug", "development", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"production info", "info", "production", zapcore.InfoLevel, zapcore.DebugLevel},
		{"upper case level", "WARN", "production", zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.environment)
			require.NoError(t, err)

			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", "development")
	assert.Error(t, err)
}
