package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.expected-1))
			}
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}
