package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Defaults(t *testing.T) {
	log, err := New("console", "")
	require.NoError(t, err)
	require.NotNil(t, log)

	// Info is the default level
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_FormatsAndLevels(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"json debug", "json", "debug"},
		{"case insensitive", "JSON", "WARN"},
		{"console error", "console", "error"},
		{"unknown format falls back to console", "plain", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.format, tt.level)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("console", "verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
