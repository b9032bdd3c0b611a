package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	l, err := Init("production")
	require.NoError(t, err)
	assert.Same(t, l, zap.L())
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	// Re-initializing swaps the global, so callers sync zap.L() rather than
	// the first logger they got.
	first := l
	l, err = Init("development")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, l, zap.L())
	assert.NotSame(t, first, zap.L())
}
