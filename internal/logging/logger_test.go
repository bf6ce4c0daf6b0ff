package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestWithSession_AttachesSessionCode(t *testing.T) {
	buf := captureLogs(t)

	WithSession("MSA234").Info("Session created")

	assert.Contains(t, buf.String(), "session_code=MSA234")
	assert.Contains(t, buf.String(), "Session created")
}

func TestWithError_AttachesError(t *testing.T) {
	buf := captureLogs(t)

	WithError(errors.New("disk full")).Warn("Snapshot unreadable")

	assert.Contains(t, buf.String(), "disk full")
}

func TestInitLogger_RespectsLevel(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	InitLogger("error", "text")
	ctx := context.Background()
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelError))
}
