package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow/pkg/model"
	"snow/pkg/snowerr"
)

func TestCreateNewReference(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	ref, err := r.CreateNewReference(model.ReferenceBranch, "feature", r.head.Hash, nil)
	require.NoError(t, err)
	assert.Equal(t, r.head.Hash, ref.Hash)
	assert.Contains(t, r.refs, "feature")
}

func TestCreateNewReference_RejectsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.CreateNewReference(model.ReferenceBranch, mainReferenceName, r.head.Hash, nil)
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.RefExists))
}

func TestCreateNewReference_RejectsUnknownStartPoint(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.CreateNewReference(model.ReferenceBranch, "feature", "deadbeef", nil)
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.InvalidStartPoint))
}

func TestDeleteReference_RefusesCheckedOutRef(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	err = r.DeleteReference(mainReferenceName)
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.CannotDeleteCheckedOutRef))
}

func TestDeleteReference_RemovesUncheckedOutRef(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.CreateNewReference(model.ReferenceBranch, "feature", r.head.Hash, nil)
	require.NoError(t, err)

	require.NoError(t, r.DeleteReference("feature"))
	assert.NotContains(t, r.refs, "feature")
}

func TestSetHead_AttachesToReference(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aaa"), 0o644))
	require.NoError(t, r.mainIndex.Add("a.txt"))
	_, err = r.CreateCommit(context.Background(), r.mainIndex, "add a", CommitOptions{}, nil, nil)
	require.NoError(t, err)

	_, err = r.CreateNewReference(model.ReferenceBranch, "feature", r.head.Hash, nil)
	require.NoError(t, err)

	require.NoError(t, r.SetHeadDetached(r.head.Hash))
	assert.False(t, r.head.Attached())

	require.NoError(t, r.SetHead("feature"))
	assert.True(t, r.head.Attached())
	assert.Equal(t, "feature", r.head.Name)
}

func TestSetHead_UnknownReferenceFails(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	err = r.SetHead("nonexistent")
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.RefNotFound))
}

func TestSetHeadDetached_ValidatesHash(t *testing.T) {
	dir := t.TempDir()
	r, err := InitExt(context.Background(), dir, InitOptions{})
	require.NoError(t, err)
	defer r.Close()

	err = r.SetHeadDetached("not-a-real-hash")
	require.Error(t, err)
	assert.True(t, snowerr.Is(err, snowerr.UnknownTarget))
}
