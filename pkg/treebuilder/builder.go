// Package treebuilder turns a staging index's flat, relative-path keyed
// FileInfo map into the nested model.TreeDir a commit embeds. There is
// no I/O here: the blobs themselves were already written by the index
// (4.F); this package only arranges their paths into a tree shape.
package treebuilder

import (
	"path"
	"sort"
	"strings"

	"snow/pkg/model"
)

type node struct {
	name     string
	isDir    bool
	children map[string]*node
	info     model.FileInfo
}

func newDirNode(name string) *node {
	return &node{name: name, isDir: true, children: make(map[string]*node)}
}

func (n *node) addFile(relPath string, info model.FileInfo) {
	parts := strings.Split(relPath, "/")
	current := n
	for _, part := range parts[:len(parts)-1] {
		child, ok := current.children[part]
		if !ok {
			child = newDirNode(part)
			current.children[part] = child
		}
		current = child
	}
	name := parts[len(parts)-1]
	current.children[name] = &node{name: name, isDir: false, info: info}
}

// Build assembles a model.TreeDir from a staging index's ProcessedMap.
// Deletions are applied by the caller simply omitting their relPath
// from processedMap before calling Build; this package has no notion
// of a previous tree to diff against.
func Build(processedMap map[string]model.FileInfo) model.TreeDir {
	root := newDirNode("")
	for relPath, info := range processedMap {
		root.addFile(relPath, info)
	}
	return toTreeDir(root, "")
}

// toTreeDir walks children in sorted-name order so two trees built
// from the same contents encode identically regardless of map
// iteration order.
func toTreeDir(n *node, dirPath string) model.TreeDir {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	dir := model.TreeDir{Path: dirPath}
	for _, name := range names {
		child := n.children[name]
		childPath := path.Join(dirPath, name)
		if child.isDir {
			dir.Children = append(dir.Children, toTreeDir(child, childPath))
			continue
		}
		dir.Files = append(dir.Files, model.TreeFile{
			Path:  childPath,
			Hash:  child.info.Hash,
			Size:  child.info.Size,
			Mtime: child.info.Mtime,
			Ctime: child.info.Ctime,
		})
	}
	return dir
}
