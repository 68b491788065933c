package logger

import (
	"bytes"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelInfo), FormatJSON)

		l.Info("Ledger: points awarded", "user_id", "u1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Ledger: points awarded", entry["msg"])
		assert.Equal(t, "u1", entry["user_id"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelInfo), "text")

		l.Info("hello", "k", "v")

		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelWarn), "text")

		l.Info("dropped")
		l.Debug("dropped")

		assert.Empty(t, buf.String())
	})
}
