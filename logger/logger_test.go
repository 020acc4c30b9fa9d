package logger

import (
	"testing"

	"github.com/expki/go-covariance/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	assert.NotNil(t, Logger())
	assert.NotNil(t, Sugar())
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(config.LogLevelDebug))
	assert.True(t, Logger().Core().Enabled(config.LogLevelDebug.Zap().Level()))

	require.NoError(t, Initialize(config.LogLevelError))
	assert.False(t, Logger().Core().Enabled(config.LogLevelDebug.Zap().Level()))
}
