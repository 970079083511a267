package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	Init("debug")
	require.NotNil(t, Log)
	assert.True(t, Log.Enabled(nil, slog.LevelDebug))
}

func TestInitWithConfig_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			InitWithConfig(Config{Level: tt.level, Format: "text", Output: "stderr"})
			require.NotNil(t, Log)
			assert.True(t, Log.Enabled(nil, tt.enabled))
			assert.False(t, Log.Enabled(nil, tt.muted))
		})
	}
}

func TestInitWithConfig_FileOutput(t *testing.T) {
	path := t.TempDir() + "/logs/app.log"
	InitWithConfig(Config{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	require.NotNil(t, Log)

	// Writing must not panic and should create the file lazily.
	Info("file output test", "key", "value")
}

func TestHelpers(t *testing.T) {
	Init("info")

	assert.NotNil(t, WithRequestID("req-1"))
	assert.NotNil(t, WithService("traversal-svc"))
	assert.NotNil(t, WithContext(nil, "k", "v"))
}
