package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	data := []byte("2 2\n 0.000 1.000\n-1.000 0.500\n")
	require.NoError(t, store.Put(ctx, "blobs/small.txt", data))

	// Verify file exists on disk
	_, err := os.Stat(filepath.Join(tmpDir, "blobs", "small.txt"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "blobs/small.txt")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data, got)

	require.NoError(t, store.Put(ctx, "other.txt", []byte("x")))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"blobs/small.txt", "other.txt"}, names)

	names, err = store.List(ctx, "blobs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"blobs/small.txt"}, names)
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Open(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("payload")
	require.NoError(t, store.Put(ctx, "b/1", data))
	require.NoError(t, store.Put(ctx, "a", []byte("first")))
	data[0] = 'P'

	rc, err := store.Open(ctx, "b/1")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b/1"}, names)
}
