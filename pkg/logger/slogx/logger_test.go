package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitGlobal_JSON(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, InitGlobal(&buf, "info", false))

	Debug(context.Background(), "hidden")
	Info(context.Background(), "note created", NoteID("n1"), OwnerID("o1"), Err(errors.New("boom")))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "note created", entry["msg"])
	assert.Equal(t, "n1", entry["note_id"])
	assert.Equal(t, "o1", entry["owner_id"])
	assert.Equal(t, "boom", entry["err"])
}

func TestInitGlobal_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, InitGlobal(&buf, "chatty", true))
}

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(ContextHandler(slog.NewJSONHandler(&buf, nil))).With(slog.String("component", "api"))

	ctx := ContextWith(context.Background(), RequestID("r1"))
	ctx = ContextWith(ctx, OwnerID("o1"))

	l.Info(ctx, "with context")
	l.Info(context.Background(), "without context")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "r1", first["request_id"])
	assert.Equal(t, "o1", first["owner_id"])
	assert.Equal(t, "api", first["component"])

	assert.NotContains(t, second, "request_id")
	assert.Equal(t, "api", second["component"])
}
