package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/storage"
)

func testStoreContract(t *testing.T, store storage.Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, ok, err := store.Load(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "theme", []byte(`"dark"`)))
		value, ok, err := store.Load(ctx, "theme")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `"dark"`, string(value))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "rounds", []byte("10")))
		require.NoError(t, store.Save(ctx, "rounds", []byte("4")))
		value, ok, err := store.Load(ctx, "rounds")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "4", string(value))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := store.Load(cancelled, "theme")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	testStoreContract(t, storage.NewMemoryStore())

	t.Run("saved value is copied", func(t *testing.T) {
		store := storage.NewMemoryStore()
		raw := []byte("abc")
		require.NoError(t, store.Save(context.Background(), "k", raw))
		raw[0] = 'z'

		value, _, err := store.Load(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(value))
	})
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data", "kv.db")

	store, err := storage.NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	testStoreContract(t, store)
	require.NoError(t, store.Close())

	t.Run("values survive a reopen", func(t *testing.T) {
		reopened, err := storage.NewSQLiteStore(context.Background(), path)
		require.NoError(t, err)
		defer reopened.Close()

		value, ok, err := reopened.Load(context.Background(), "rounds")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "4", string(value))
	})
}

func TestNewByEngine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := storage.NewByEngine(ctx, "Memory", storage.Options{})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)

	store, err = storage.NewByEngine(ctx, "", storage.Options{SQLitePath: filepath.Join(t.TempDir(), "kv.db")})
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = storage.NewByEngine(ctx, "mongo", storage.Options{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedEngine)
}
