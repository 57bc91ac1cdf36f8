package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
)

func openStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), sqlstore.Options{
		DatabaseURL: filepath.Join(t.TempDir(), "cli.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openStore(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := src.Insert(ctx, "aaaaaa", "https://a.com", created)
	require.NoError(t, err)
	_, err = src.Insert(ctx, "bbbbbb", "https://b.com", created.Add(time.Hour))
	require.NoError(t, err)
	_, err = src.IncrementClicks(ctx, "aaaaaa", created.Add(2*time.Hour))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doExport(ctx, src, &buf))

	dst := openStore(t)
	imported, skipped, err := doImport(ctx, dst, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	got, err := dst.FindByCode(ctx, "aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Clicks)
	require.NotNil(t, got.LastClicked)
	assert.True(t, created.Add(2*time.Hour).Equal(*got.LastClicked))
	assert.True(t, created.Equal(got.CreatedAt))

	// a second import finds every code taken
	imported, skipped, err = doImport(ctx, dst, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 2, skipped)
}

func TestImportSkipsMalformed(t *testing.T) {
	dst := openStore(t)
	input := `[{"code":"ok0001","url":"https://a.com","created_at":"2026-01-01T00:00:00Z"},
		{"code":"x","url":"https://b.com"},
		{"code":"ok0002","url":""}]`

	imported, skipped, err := doImport(context.Background(), dst, strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 2, skipped)
}

func TestImportRejectsBadJSON(t *testing.T) {
	_, _, err := doImport(context.Background(), openStore(t), strings.NewReader("{"))
	assert.Error(t, err)
}

func TestImportStopsOnStorageError(t *testing.T) {
	store, err := sqlstore.Open(context.Background(), sqlstore.Options{})
	require.NoError(t, err)

	_, _, err = doImport(context.Background(), store, strings.NewReader(`[{"code":"ok0001","url":"https://a.com"}]`))

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
