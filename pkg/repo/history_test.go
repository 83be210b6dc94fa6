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

func setupHistory(t *testing.T) (*Repository, []string) {
	t.Helper()
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)

	var hashes []string
	hashes = append(hashes, r.head.Hash)
	for i, name := range []string{"a.txt", "b.txt", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{byte('a' + i)}, 0o644))
		require.NoError(t, r.mainIndex.Add(name))
		_, err := r.CreateCommit(context.Background(), r.mainIndex, "add "+name, CommitOptions{}, nil, nil)
		require.NoError(t, err)
		hashes = append(hashes, r.head.Hash)
	}
	return r, hashes
}

func TestFindCommitByHash_Literal(t *testing.T) {
	r, hashes := setupHistory(t)
	defer r.Close()

	c, err := r.FindCommitByHash(hashes[2])
	require.NoError(t, err)
	assert.Equal(t, hashes[2], c.Hash)
}

func TestFindCommitByHash_AbbreviatedPrefix(t *testing.T) {
	r, hashes := setupHistory(t)
	defer r.Close()

	c, err := r.FindCommitByHash(hashes[2][:8])
	require.NoError(t, err)
	assert.Equal(t, hashes[2], c.Hash)
}

func TestFindCommitByHash_HeadAncestorWalk(t *testing.T) {
	r, hashes := setupHistory(t)
	defer r.Close()

	c, err := r.FindCommitByHash("HEAD~1")
	require.NoError(t, err)
	assert.Equal(t, hashes[2], c.Hash)

	c, err = r.FindCommitByHash("HEAD~2")
	require.NoError(t, err)
	assert.Equal(t, hashes[1], c.Hash)
}

func TestFindCommitByHash_OutOfHistoryFails(t *testing.T) {
	r, _ := setupHistory(t)
	defer r.Close()

	_, err := r.FindCommitByHash("HEAD~100")
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.OutOfHistory))
}

func TestFindCommitByHash_InvalidSyntax(t *testing.T) {
	r, _ := setupHistory(t)
	defer r.Close()

	_, err := r.FindCommitByHash("HEAD~notanumber")
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.InvalidHashSyntax))
}

func TestLog_NewestFirstCappedAtLimit(t *testing.T) {
	r, hashes := setupHistory(t)
	defer r.Close()

	commits, err := r.Log("", 2)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, hashes[3], commits[0].Hash)
	assert.Equal(t, hashes[2], commits[1].Hash)
}

func TestLog_UnboundedReturnsEntireHistory(t *testing.T) {
	r, hashes := setupHistory(t)
	defer r.Close()

	commits, err := r.Log("", 0)
	require.NoError(t, err)
	assert.Len(t, commits, len(hashes))
}
