package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snow/pkg/model"
)

func TestStore_WriteReadCommitCycle(t *testing.T) {
	ctx := context.Background()
	commondir := t.TempDir()

	store, err := Create(ctx, Config{Commondir: commondir, Journal: JournalConfig{Driver: "sqlite"}})
	require.NoError(t, err)
	defer store.Close()

	src := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("repository content"), 0o644))

	hash, err := store.Write(ctx, src, nil)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	has, err := store.Has(ctx, hash)
	require.NoError(t, err)
	require.True(t, has)

	dst := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, store.Read(ctx, hash, dst, nil))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "repository content", string(got))

	root := model.TreeDir{Path: "", Files: []model.TreeFile{{Path: "file.txt", Hash: hash, Size: int64(len(got))}}}
	commit, err := model.NewCommit("add file", time.Now().UTC(), root, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, store.WriteCommit(commit))

	got2, err := store.ReadCommit(commit.Hash)
	require.NoError(t, err)
	require.Equal(t, commit.Hash, got2.Hash)

	require.NoError(t, store.WriteReference(model.Reference{Type: model.ReferenceBranch, Name: "main", Hash: commit.Hash}))
	require.NoError(t, store.WriteHeadReference(model.Head{Name: "main", Hash: commit.Hash}))

	head, err := store.ReadHeadReference()
	require.NoError(t, err)
	require.Equal(t, "main", head.Name)

	history, err := store.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
}
