package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"paramanu/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("production logger is info level", func(t *testing.T) {
		logger, err := New(config.AppConfig{Name: "test", Version: "0.0.1"})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("debug logger enables debug level", func(t *testing.T) {
		logger, err := New(config.AppConfig{Name: "test", Debug: true})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}
