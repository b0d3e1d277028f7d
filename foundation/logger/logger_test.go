package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/crmclean/foundation/logger"
)

func TestNewForEveryEnv(t *testing.T) {
	for _, env := range []string{"development", "debug", "production", "", "staging"} {
		t.Run("env="+env, func(t *testing.T) {
			l, err := logger.New("crmclean-test", env)
			require.NoError(t, err)
			require.NotNil(t, l)
			l.SafeSync()
		})
	}
}

func TestWithReturnsIndependentLogger(t *testing.T) {
	l := logger.Nop()
	child := l.With("run_id", "test")
	assert.NotNil(t, child)

	// Both must be usable after With.
	l.Infow("parent", "k", "v")
	child.Infow("child", "k", "v")
}

func TestSafeSyncOnNil(t *testing.T) {
	var l *logger.Logger
	assert.NotPanics(t, func() { l.SafeSync() })
}

func TestNopDiscards(t *testing.T) {
	l := logger.Nop()
	assert.NotPanics(t, func() {
		l.Debug("a")
		l.Infof("%d", 1)
		l.Warnw("w", "k", "v")
		l.Error("e")
	})
}
