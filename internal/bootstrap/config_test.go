package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { logLevel.Set(slog.LevelInfo) })

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	require.NoError(t, SetLogLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, logLevel.Level())

	err := SetLogLevel("verbose")
	require.Error(t, err)
	assert.Equal(t, slog.LevelWarn, logLevel.Level())
}
