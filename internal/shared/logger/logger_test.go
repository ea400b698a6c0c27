package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("creates with default config", func(t *testing.T) {
		l := New(nil)
		assert.NotNil(t, l)
		assert.NotNil(t, l.Logger)
	})

	t.Run("json format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "debug", Format: "json", Output: buf})

		l.Info("webhook received", "provider", "mercadopago")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "webhook received", entry["msg"])
		assert.Equal(t, "mercadopago", entry["provider"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "info", Format: "text", Output: buf})

		l.Info("test message")
		output := buf.String()
		assert.Contains(t, output, "test message")
		assert.False(t, strings.HasPrefix(output, "{"))
	})
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "warn", Format: "json", Output: buf})

	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "json", Output: buf}).With("request_id", "req-1")

	l.Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestContextLogger(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "info", Output: buf})
		ctx := ContextWithLogger(context.Background(), l)

		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestNewZapLogger(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		zl, err := NewZapLogger(&Config{Level: "info", Format: "json", Output: buf})
		require.NoError(t, err)

		zl.Info("ledger write", zap.String("provider_payment_id", "123"))
		require.NoError(t, zl.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "ledger write", entry["msg"])
		assert.Equal(t, "123", entry["provider_payment_id"])
	})

	t.Run("accepts warning alias", func(t *testing.T) {
		buf := &bytes.Buffer{}
		zl, err := NewZapLogger(&Config{Level: "warning", Output: buf})
		require.NoError(t, err)

		zl.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := NewZapLogger(&Config{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "info", normalizeLevel(""))
	assert.Equal(t, "warn", normalizeLevel("WARNING"))
	assert.Equal(t, "debug", normalizeLevel(" Debug "))
}
