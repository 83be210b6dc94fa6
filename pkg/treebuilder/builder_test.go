package treebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow/pkg/model"
)

func TestBuild_NestedPaths(t *testing.T) {
	processed := map[string]model.FileInfo{
		"a.txt":     {Hash: "hash-a", Size: 100},
		"sub/b.txt": {Hash: "hash-b", Size: 200},
	}

	root := Build(processed)

	require.Len(t, root.Files, 1)
	assert.Equal(t, "a.txt", root.Files[0].Path)
	assert.Equal(t, "hash-a", root.Files[0].Hash)

	require.Len(t, root.Children, 1)
	sub := root.Children[0]
	assert.Equal(t, "sub", sub.Path)
	require.Len(t, sub.Files, 1)
	assert.Equal(t, "sub/b.txt", sub.Files[0].Path)
	assert.Equal(t, "hash-b", sub.Files[0].Hash)
}

func TestBuild_DeterministicOrdering(t *testing.T) {
	processed := map[string]model.FileInfo{
		"z.txt": {Hash: "hz"},
		"a.txt": {Hash: "ha"},
		"m.txt": {Hash: "hm"},
	}

	root := Build(processed)
	require.Len(t, root.Files, 3)
	assert.Equal(t, "a.txt", root.Files[0].Path)
	assert.Equal(t, "m.txt", root.Files[1].Path)
	assert.Equal(t, "z.txt", root.Files[2].Path)
}

func TestBuild_Empty(t *testing.T) {
	root := Build(map[string]model.FileInfo{})
	assert.Empty(t, root.Files)
	assert.Empty(t, root.Children)
}
