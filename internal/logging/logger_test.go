package logging

import (
	"os"
	"path/filepath"
	"testing"

	"sheetsplit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&config.LoggingConfig{Level: "chatty", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetsplit.log")
	logger, err := NewLogger(&config.LoggingConfig{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	WithComponent(logger, "test").Info("upload processed")
	require.NoError(t, logger.Sync())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"message":"upload processed"`)
	assert.Contains(t, string(contents), `"component":"test"`)
	assert.Contains(t, string(contents), `"service":"sheetsplit"`)
}

func TestNewLoggerRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotating.log")
	logger, err := NewLogger(&config.LoggingConfig{
		Level:      "info",
		Format:     "console",
		OutputPath: path,
		MaxSize:    1,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	logger.Info("rotated")
	_ = logger.Sync()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "rotated")
}

func TestVersionOverride(t *testing.T) {
	t.Setenv("SHEETSPLIT_VERSION", "")
	assert.Equal(t, "dev", Version())
	t.Setenv("SHEETSPLIT_VERSION", "1.2.3")
	assert.Equal(t, "1.2.3", Version())
}
