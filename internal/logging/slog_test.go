package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	ctx := context.Background()

	log.Info(ctx, "inf", "a", 1)
	log.Warn(ctx, "wrn", "b", 2)
	log.Error(ctx, "err", "c", 3)

	out := buf.String()
	for _, want := range []string{"level=INFO", "msg=inf", "a=1", "level=WARN", "b=2", "level=ERROR", "c=3"} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).With("request_id", "abc")

	log.Info(context.Background(), "hello")

	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestSlogLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Info(context.Background(), "started", "port", "8080")

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "started", rec["msg"])
	assert.Equal(t, "8080", rec["port"])
}

func TestNop_Discards(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "ignored")
	var _ Logger = log.With("k", "v")
}
