package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ddobak/lawharvest"
	"github.com/ddobak/lawharvest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		store := fs.NewStore(t.TempDir())
		ctx := context.Background()

		require.NoError(t, store.Put(ctx, "lawtalk/consultation_case/2024/0.json", []byte("payload")))

		data, err := store.Get(ctx, "lawtalk/consultation_case/2024/0.json")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("keys become nested directories", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store := fs.NewStore(dir)

		require.NoError(t, store.Put(context.Background(), "a/b/c.txt", []byte("x")))

		_, err := os.Stat(filepath.Join(dir, "a", "b", "c.txt"))
		require.NoError(t, err)
	})

	t.Run("get missing object", func(t *testing.T) {
		t.Parallel()
		store := fs.NewStore(t.TempDir())

		_, err := store.Get(context.Background(), "missing.json")
		require.Error(t, err)
		assert.Equal(t, lawharvest.ENOTFOUND, lawharvest.ErrorCode(err))
	})

	t.Run("exists", func(t *testing.T) {
		t.Parallel()
		store := fs.NewStore(t.TempDir())
		ctx := context.Background()

		ok, err := store.Exists(ctx, "k.json")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Put(ctx, "k.json", []byte("x")))

		ok, err = store.Exists(ctx, "k.json")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("put replaces existing content", func(t *testing.T) {
		t.Parallel()
		store := fs.NewStore(t.TempDir())
		ctx := context.Background()

		require.NoError(t, store.Put(ctx, "k.json", []byte("old")))
		require.NoError(t, store.Put(ctx, "k.json", []byte("new")))

		data, err := store.Get(ctx, "k.json")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})
}
