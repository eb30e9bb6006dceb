package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l, mode)
	}
}

func TestBootstrap_NeverNil(t *testing.T) {
	assert.NotNil(t, Bootstrap("prod"))

	// An empty zap config has no encoder, so Build fails
	broken, err := fromConfig(zap.Config{})
	require.Error(t, err)
	assert.Nil(t, broken)

	l := orFallback(broken, err)
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("still logging", "error", errors.New("boom")) })
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("job", "expiry_sweep").Debug("nothing to expire", "count", 0)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "nothing to expire", entries[0].Message)
	assert.Equal(t, "expiry_sweep", entries[0].ContextMap()["job"])
}
