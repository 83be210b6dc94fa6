package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow/pkg/snowerr"
)

func TestCreateCommit_StagesAndCommitsFile(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("world"), 0o644))
	require.NoError(t, r.mainIndex.Add("hello.txt"))

	commit, err := r.CreateCommit(context.Background(), r.mainIndex, "add hello", CommitOptions{}, nil, nil)
	require.NoError(t, err)

	files := commit.Root.Flatten()
	require.Contains(t, files, "hello.txt")
	assert.Len(t, commit.Parents, 1)
	assert.Equal(t, commit.Hash, r.head.Hash)
}

func TestCreateCommit_NothingToCommitFails(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.CreateCommit(context.Background(), r.mainIndex, "empty", CommitOptions{}, nil, nil)
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.NothingToCommit))
}

func TestCreateCommit_AllowEmptySucceeds(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	commit, err := r.CreateCommit(context.Background(), r.mainIndex, "empty but allowed", CommitOptions{AllowEmpty: true}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{r.commits[len(r.commits)-2].Hash}, commit.Parents)
}

func TestCreateCommit_CarriesForwardUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aaa"), 0o644))
	require.NoError(t, r.mainIndex.Add("a.txt"))
	_, err = r.CreateCommit(context.Background(), r.mainIndex, "add a", CommitOptions{}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bbb"), 0o644))
	require.NoError(t, r.mainIndex.Add("b.txt"))
	second, err := r.CreateCommit(context.Background(), r.mainIndex, "add b", CommitOptions{}, nil, nil)
	require.NoError(t, err)

	files := second.Root.Flatten()
	assert.Contains(t, files, "a.txt")
	assert.Contains(t, files, "b.txt")
}

func TestCreateCommit_DeleteRemovesFileFromTree(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aaa"), 0o644))
	require.NoError(t, r.mainIndex.Add("a.txt"))
	_, err = r.CreateCommit(context.Background(), r.mainIndex, "add a", CommitOptions{}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.txt")))
	require.NoError(t, r.mainIndex.Remove("a.txt"))
	second, err := r.CreateCommit(context.Background(), r.mainIndex, "remove a", CommitOptions{AllowEmpty: true}, nil, nil)
	require.NoError(t, err)

	assert.NotContains(t, second.Root.Flatten(), "a.txt")
}
