package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	testStoreContract(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_AtomicCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewLocalStore(dir)

	w, err := store.Create(ctx, "data-001.bin")
	require.NoError(t, err)

	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	// Not visible until Close.
	_, err = os.Stat(filepath.Join(dir, "data-001.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(dir, "data-001.bin"))
	require.NoError(t, err)

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestLocalStore_Mappable(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "m", []byte("mapped")))

	blob, err := store.Open(ctx, "m")
	require.NoError(t, err)
	defer blob.Close()

	m, ok := blob.(Mappable)
	require.True(t, ok)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "mapped", string(b))
}

func TestLocalStore_InvalidNames(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	for _, name := range []string{"", "../escape", "/abs/path", "a/../../b"} {
		assert.ErrorIs(t, store.Put(ctx, name, []byte("x")), ErrInvalidName, name)
		_, err := store.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "not-yet"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
