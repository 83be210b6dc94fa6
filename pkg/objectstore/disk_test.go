package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskBlobStore_PutGetHas(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewDiskBlobStore(root)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(src, []byte("hello object store"), 0o644))

	hash := "deadbeefcafef00d"
	has, err := store.Has(ctx, hash)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, store.PutFile(ctx, hash, src, nil))

	has, err = store.Has(ctx, hash)
	require.NoError(t, err)
	require.True(t, has)

	// idempotent re-write
	require.NoError(t, store.PutFile(ctx, hash, src, nil))

	dst := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, store.GetFile(ctx, hash, dst, nil))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello object store", string(got))
}

func TestDiskBlobStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskBlobStore(t.TempDir())
	require.NoError(t, err)

	err = store.GetFile(ctx, "0000000000000000", filepath.Join(t.TempDir(), "out.bin"), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDiskBlobStore_ExpandHash(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewDiskBlobStore(root)
	require.NoError(t, err)

	srcDir := t.TempDir()
	mk := func(name, content string) string {
		p := filepath.Join(srcDir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	h1 := "aa11111111111111111111111111111111111111111111111111111111111111"
	h2 := "aa22222222222222222222222222222222222222222222222222222222222222"

	require.NoError(t, store.PutFile(ctx, h1, mk("a", "a"), nil))
	require.NoError(t, store.PutFile(ctx, h2, mk("b", "b"), nil))

	_, err = store.ExpandHash(ctx, "aa")
	require.ErrorIs(t, err, ErrAmbiguousHash)

	got, err := store.ExpandHash(ctx, "aa1")
	require.NoError(t, err)
	require.Equal(t, h1, got)

	_, err = store.ExpandHash(ctx, "ff")
	require.ErrorIs(t, err, ErrNotFound)
}
