package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustyeddy/ind/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ind.log")
	log, err := New(config.LogConfig{Level: "info", Format: "json", OutputFile: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("file written")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"file written"`))
	assert.False(t, strings.Contains(string(data), "hidden"))
}
