package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow/pkg/hasher"
	"snow/pkg/ioctx"
)

// fakeStore is an in-memory BlobWriter stand-in so index tests don't
// need a real objectstore.Store.
type fakeStore struct {
	written map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{written: map[string]string{}}
}

func (f *fakeStore) Write(ctx context.Context, srcAbsPath string, _ *ioctx.Context) (string, error) {
	result, err := hasher.HashFile(ctx, srcAbsPath)
	if err != nil {
		return "", err
	}
	f.written[result.FileHash] = srcAbsPath
	return result.FileHash, nil
}

func TestIndex_Persistence_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	indexPath := filepath.Join(tmpDir, "index.json")

	idx1, err := Load(indexPath, "")
	require.NoError(t, err)
	require.NoError(t, idx1.Add("data/model.bin"))
	require.NoError(t, idx1.Add("readme.md"))
	require.NoError(t, idx1.Save())

	idx2, err := Load(indexPath, "")
	require.NoError(t, err)
	snap := idx2.Snapshot()
	_, ok := snap.AddRelPaths["data/model.bin"]
	assert.True(t, ok)
	_, ok = snap.AddRelPaths["readme.md"]
	assert.True(t, ok)
}

func TestIndex_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	idx, err := Load(filepath.Join(tmpDir, "index.json"), "")
	require.NoError(t, err)

	assert.True(t, idx.IsEmpty())
	require.NoError(t, idx.Add("src/main.go"))
	assert.False(t, idx.IsEmpty())

	require.NoError(t, idx.Remove("src/main.go"))
	snap := idx.Snapshot()
	_, exists := snap.AddRelPaths["src/main.go"]
	assert.False(t, exists, "path should be removed from AddRelPaths")
	_, wasDeleted := snap.DeleteRelPaths["src/main.go"]
	assert.True(t, wasDeleted)

	require.NoError(t, idx.Remove("ghost.file"))
}

func TestIndex_WriteFiles(t *testing.T) {
	workdir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workdir, "a.txt"), []byte("alpha"), 0o644))

	idx, err := Load(filepath.Join(workdir, ".snow", "index", ".json"), "")
	require.NoError(t, err)
	require.NoError(t, idx.Add("a.txt"))

	store := newFakeStore()
	require.NoError(t, idx.WriteFiles(context.Background(), workdir, store, nil))

	snap := idx.Snapshot()
	info, ok := snap.ProcessedMap["a.txt"]
	require.True(t, ok)
	assert.Equal(t, int64(5), info.Size)
	assert.NotEmpty(t, info.Hash)
}

func TestIndex_InvalidateRejectsMutators(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "index.json"), "")
	require.NoError(t, err)
	require.NoError(t, idx.Add("a"))
	require.NoError(t, idx.Invalidate())

	assert.Error(t, idx.Add("b"))
	assert.Error(t, idx.Remove("a"))
}
