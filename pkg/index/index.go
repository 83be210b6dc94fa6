// Package index implements the staging area: the set of relative paths
// queued for addition or deletion before the next commit, plus the
// FileInfo recorded for each once its content has been hashed and
// written to the object store.
package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"snow/pkg/hasher"
	"snow/pkg/ioctx"
	"snow/pkg/model"
	"snow/pkg/pathutil"
	"snow/pkg/snowerr"
)

// BlobWriter is the subset of objectstore.Store the index needs to
// persist staged file contents. Expressed as an interface here so this
// package does not depend on objectstore's storage backends directly.
type BlobWriter interface {
	Write(ctx context.Context, srcAbsPath string, ioc *ioctx.Context) (string, error)
}

// Index is the staging area, backed by a model.Index and persisted as
// JSON under <commondir>/index/<id>.json. Every public mutator rejects
// calls once the index has been invalidated.
type Index struct {
	mu   sync.Mutex
	path string
	data *model.Index
}

// Load reads an existing index from path, or returns a fresh, valid
// index with the given id if none exists yet.
func Load(path, id string) (*Index, error) {
	idx := &Index{path: path, data: model.NewIndex(id)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, snowerr.Wrap(snowerr.IoError, "Load", path, err)
	}
	if err := json.Unmarshal(data, idx.data); err != nil {
		return nil, snowerr.Wrap(snowerr.Unknown, "Load", path, err)
	}
	return idx, nil
}

// IndexPath returns the conventional on-disk location of an index with
// the given id under commondir.
func IndexPath(commondir, id string) string {
	return filepath.Join(commondir, "index", id+".json")
}

// LoadMainIndex loads (or creates) the repository's main index, the
// one with id "".
func LoadMainIndex(commondir string) (*Index, error) {
	return Load(IndexPath(commondir, ""), "")
}

func (idx *Index) Add(relPath string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.data.Valid {
		return snowerr.New(snowerr.IndexInvalidated, "Add", relPath)
	}
	key := pathutil.Normalize(relPath)
	idx.data.AddRelPaths[key] = struct{}{}
	delete(idx.data.DeleteRelPaths, key)
	return nil
}

func (idx *Index) Remove(relPath string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.data.Valid {
		return snowerr.New(snowerr.IndexInvalidated, "Remove", relPath)
	}
	key := pathutil.Normalize(relPath)
	idx.data.DeleteRelPaths[key] = struct{}{}
	delete(idx.data.AddRelPaths, key)
	delete(idx.data.ProcessedMap, key)
	return nil
}

// WriteFiles hashes every path queued in AddRelPaths (resolved against
// workdir), writes each blob through store, and records the resulting
// FileInfo in ProcessedMap. AddRelPaths is left untouched so a repeated
// call (e.g. after a transient failure) simply re-hashes and
// re-idempotently re-writes.
func (idx *Index) WriteFiles(ctx context.Context, workdir string, store BlobWriter, ioc *ioctx.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.data.Valid {
		return snowerr.New(snowerr.IndexInvalidated, "WriteFiles", workdir)
	}

	relPaths := make([]string, 0, len(idx.data.AddRelPaths))
	for relPath := range idx.data.AddRelPaths {
		relPaths = append(relPaths, relPath)
	}
	if ioc != nil {
		if err := ioc.PerformWriteLockChecks(ctx, workdir, relPaths); err != nil {
			return err
		}
	}

	for relPath := range idx.data.AddRelPaths {
		absPath := filepath.Join(workdir, relPath)
		info, err := os.Stat(absPath)
		if err != nil {
			return snowerr.Wrap(snowerr.IoError, "WriteFiles", absPath, err)
		}

		result, err := hasher.HashFile(ctx, absPath)
		if err != nil {
			return err
		}
		hash, err := store.Write(ctx, absPath, ioc)
		if err != nil {
			return err
		}
		if hash != result.FileHash {
			return snowerr.New(snowerr.Unknown, "WriteFiles", absPath)
		}

		idx.data.ProcessedMap[relPath] = model.FileInfo{
			Hash:  hash,
			Size:  info.Size(),
			Mtime: info.ModTime(),
			Ctime: info.ModTime(),
		}
	}
	return nil
}

// Invalidate persists the index's current state, then marks it invalid
// so every subsequent mutator call fails. Called once CreateCommit has
// consumed the index's ProcessedMap into a new commit.
func (idx *Index) Invalidate() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.save(); err != nil {
		return err
	}
	idx.data.Valid = false
	return idx.save()
}

func (idx *Index) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.save()
}

func (idx *Index) save() error {
	dir := filepath.Dir(idx.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return snowerr.Wrap(snowerr.IoError, "save", dir, err)
	}
	data, err := json.MarshalIndent(idx.data, "", "  ")
	if err != nil {
		return snowerr.Wrap(snowerr.Unknown, "save", idx.path, err)
	}
	return os.WriteFile(idx.path, data, 0o644)
}

// Snapshot returns a defensive copy of the underlying model.Index,
// safe for a caller to inspect without racing further mutation.
func (idx *Index) Snapshot() model.Index {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	snap := model.Index{
		ID:             idx.data.ID,
		AddRelPaths:    make(map[string]struct{}, len(idx.data.AddRelPaths)),
		DeleteRelPaths: make(map[string]struct{}, len(idx.data.DeleteRelPaths)),
		ProcessedMap:   make(map[string]model.FileInfo, len(idx.data.ProcessedMap)),
		Valid:          idx.data.Valid,
	}
	for k, v := range idx.data.AddRelPaths {
		snap.AddRelPaths[k] = v
	}
	for k, v := range idx.data.DeleteRelPaths {
		snap.DeleteRelPaths[k] = v
	}
	for k, v := range idx.data.ProcessedMap {
		snap.ProcessedMap[k] = v
	}
	return snap
}

func (idx *Index) IsEmpty() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.data.AddRelPaths) == 0 && len(idx.data.DeleteRelPaths) == 0
}
