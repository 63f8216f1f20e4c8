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

func TestZapLoggerForwardsFieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.Debug("probe", map[string]interface{}{"mode": "direct_api"})
	log.Error("backend failed", errors.New("boom"), map[string]interface{}{"kind": "backend_call_failed"})
	log.With(map[string]interface{}{"session": "s1"}).Info("query", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "direct_api", entries[0].ContextMap()["mode"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "backend_call_failed", entries[1].ContextMap()["kind"])
	assert.Equal(t, "s1", entries[2].ContextMap()["session"])
}

func TestNewFallsBackToSaneLevel(t *testing.T) {
	log := New("unknown", "console")
	assert.NotNil(t, log.Zap())
	assert.False(t, log.Zap().Core().Enabled(zapcore.DebugLevel))

	debug := New("debug", "json")
	assert.True(t, debug.Zap().Core().Enabled(zapcore.DebugLevel))
}
