package log_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/log"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.LevelTrace, log.Level("trace"))
	assert.Equal(t, slog.LevelDebug, log.Level("debug"))
	assert.Equal(t, slog.LevelInfo, log.Level("info"))
	assert.Equal(t, slog.LevelWarn, log.Level("warn"))
	assert.Equal(t, slog.LevelError, log.Level("error"))
	assert.Equal(t, slog.LevelInfo, log.Level(""))
	assert.Equal(t, slog.LevelInfo, log.Level("verbose"))
}

func TestSetupLevelRouting(t *testing.T) {
	logger, closers, err := log.Setup("error", "")
	require.NoError(t, err)
	assert.Empty(t, closers)

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.True(t, logger.Enabled(ctx, slog.LevelError))
}

func TestSetupWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closers, err := log.Setup("debug", path)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Debug("loaded project", "tables", 3)
	logger.Error("generator failed", "generator", "msgids")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded project")
	assert.Contains(t, string(data), "generator failed")
}

func TestSetupBadLogFile(t *testing.T) {
	_, _, err := log.Setup("info", filepath.Join(t.TempDir(), "missing", "run.log"))
	assert.Error(t, err)
}
