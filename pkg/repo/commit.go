package repo

import (
	"context"
	"os"
	"time"

	"snow/pkg/index"
	"snow/pkg/model"
	"snow/pkg/snowerr"
	"snow/pkg/treebuilder"
)

const mainReferenceName = "Main"

// CreateCommit builds a commit from idx's staged state, advances HEAD
// (and, for the first commit, creates the Main reference), and
// persists the commit, HEAD, and reference in that order.
func (r *Repository) CreateCommit(ctx context.Context, idx *index.Index, message string, opts CommitOptions, tags []string, userData map[string]any) (*model.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := idx.Snapshot()
	if !opts.AllowEmpty && len(snap.AddRelPaths) == 0 && len(snap.DeleteRelPaths) == 0 {
		return nil, snowerr.New(snowerr.NothingToCommit, "CreateCommit", r.Workdir)
	}

	if err := idx.WriteFiles(ctx, r.Workdir, r.store, r.ioc); err != nil {
		return nil, err
	}
	snap = idx.Snapshot()

	processedMap := make(map[string]model.FileInfo, len(snap.ProcessedMap))
	for path, info := range snap.ProcessedMap {
		processedMap[path] = info
	}

	if headCommit, ok := r.headCommit(); ok {
		for path, file := range headCommit.Root.Flatten() {
			if _, exists := processedMap[path]; !exists {
				processedMap[path] = model.FileInfo{
					Hash:  file.Hash,
					Size:  file.Size,
					Mtime: file.Mtime,
					Ctime: file.Ctime,
				}
			}
		}
	}

	for path := range snap.DeleteRelPaths {
		delete(processedMap, path)
	}

	root := treebuilder.Build(processedMap)

	var parents []string
	if headCommit, ok := r.headCommit(); ok {
		parents = []string{headCommit.Hash}
	}

	commit, err := model.NewCommit(message, time.Now().UTC(), root, parents, tags, userData)
	if err != nil {
		return nil, err
	}

	if err := idx.Invalidate(); err != nil {
		return nil, err
	}
	if idx == r.mainIndex {
		// The main index is re-created on demand: the invalidated one is
		// replaced by a fresh, empty main index, persisted in its place.
		if err := os.Remove(index.IndexPath(r.Commondir, "")); err != nil && !os.IsNotExist(err) {
			return nil, snowerr.Wrap(snowerr.IoError, "CreateCommit", r.Commondir, err)
		}
		fresh, err := index.LoadMainIndex(r.Commondir)
		if err != nil {
			return nil, err
		}
		if err := fresh.Save(); err != nil {
			return nil, err
		}
		r.mainIndex = fresh
	}

	firstCommit := len(r.commits) == 0

	if err := r.store.WriteCommit(commit); err != nil {
		return nil, err
	}

	r.commits = append(r.commits, &commit)
	r.commitMap[commit.Hash] = &commit

	if firstCommit {
		ref := &model.Reference{Type: model.ReferenceBranch, Name: mainReferenceName, Hash: commit.Hash, Start: commit.Hash}
		r.head = model.Head{Name: mainReferenceName, Hash: commit.Hash}
		if err := r.persistHead(); err != nil {
			return nil, err
		}
		if err := r.store.WriteReference(*ref); err != nil {
			return nil, err
		}
		r.refs[mainReferenceName] = ref
	} else {
		r.head.Hash = commit.Hash
		if err := r.persistHead(); err != nil {
			return nil, err
		}
		if r.head.Attached() {
			ref := r.refs[r.head.Name]
			ref.Hash = commit.Hash
			if err := r.store.WriteReference(*ref); err != nil {
				return nil, err
			}
		}
	}

	return &commit, nil
}
