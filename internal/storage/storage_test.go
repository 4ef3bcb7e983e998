package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"dir":    dir,
		"sqlite": db,
	}
}

func TestBackends_GetMissing(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Get("sweetcrumb-cart")
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
		})
	}
}

func TestBackends_SetGetOverwrite(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set("sweetcrumb-cart", []byte(`[1]`)))
			got, err := b.Get("sweetcrumb-cart")
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))

			require.NoError(t, b.Set("sweetcrumb-cart", []byte(`[1,2]`)))
			got, err = b.Get("sweetcrumb-cart")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))
		})
	}
}

func TestBackends_RejectBadKey(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := b.Set("../escape", []byte("x"))
			assert.True(t, errors.Is(err, ErrInvalidKey))
		})
	}
}

func TestDir_NoTempFilesLeft(t *testing.T) {
	path := t.TempDir()
	d, err := NewDir(path)
	require.NoError(t, err)
	require.NoError(t, d.Set("cart", []byte("{}")))

	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cart.json", entries[0].Name())
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("cart", []byte("saved")))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get("cart")
	require.NoError(t, err)
	assert.Equal(t, "saved", string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open("memory", dir)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)

	b, err = Open("file", dir)
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, b)

	b, err = Open("sqlite", dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	b.Close()

	_, err = Open("redis", dir)
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
