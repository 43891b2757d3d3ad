package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planetdyn/shtk/pkg/types"
)

func newTestHandler(t *testing.T) (*ParquetHandler, string) {
	t.Helper()
	dir := t.TempDir()
	next := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	h, err := NewParquetHandler(next, dir)
	require.NoError(t, err)
	return h, dir
}

func TestParquetHandlerBuffersErrors(t *testing.T) {
	h, dir := newTestHandler(t)
	log := slog.New(h)

	ctx := context.WithValue(context.Background(), types.ContextKeyRequestID, "req-1")
	ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "server")

	log.InfoContext(ctx, "not persisted")
	log.ErrorContext(ctx, "model load failed", "model", "mars")

	// Nothing on disk until flush.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, h.Flush())

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	rows, err := parquet.ReadFile[LogRecord](filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rec := rows[0]
	assert.Equal(t, "ERROR", rec.Level)
	assert.Equal(t, "model load failed", rec.Message)
	assert.Equal(t, "req-1", rec.RequestID)
	assert.Equal(t, "server", rec.RequestSource)
	assert.Contains(t, rec.Attributes, `"model":"mars"`)
	assert.NotEmpty(t, rec.ID)
}

func TestParquetHandlerFlushEmpty(t *testing.T) {
	h, dir := newTestHandler(t)
	require.NoError(t, h.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
