package repo

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"snow/pkg/hasher"
	"snow/pkg/model"
)

// walkWorkingTree returns every regular file under r.Workdir, relative
// to it and forward-slash normalized, skipping the commondir entry
// itself. When includeDirs is true, directory paths are also
// returned with isDir=true; ignored paths are only included when
// includeIgnored is true.
func (r *Repository) walkWorkingTree(includeDirs, includeIgnored bool) ([]StatusEntry, error) {
	var entries []StatusEntry
	err := filepath.WalkDir(r.Workdir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == r.Workdir {
			return nil
		}
		rel := r.RelPath(path)
		if rel == snowEntryName {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		ignored := r.ig.Ignored(rel)
		if ignored && !includeIgnored {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if includeDirs {
				entries = append(entries, StatusEntry{Path: rel, IsDir: true, Status: statusFor(ignored)})
			}
			return nil
		}

		entries = append(entries, StatusEntry{Path: rel, Status: statusFor(ignored)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func statusFor(ignored bool) WorkingTreeStatus {
	if ignored {
		return WTIgnored
	}
	return 0
}

// GetStatus reports the working tree's relationship to commit (HEAD
// if nil), filtered per flag.
func (r *Repository) GetStatus(ctx context.Context, filter StatusFilter, commit *model.Commit) ([]StatusEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if commit == nil {
		hc, ok := r.headCommit()
		if !ok {
			return nil, nil
		}
		commit = hc
	}

	oldFiles := commit.Root.Flatten()

	walked, err := r.walkWorkingTree(filter&IncludeDirectories != 0, filter&IncludeIgnored != 0)
	if err != nil {
		return nil, err
	}

	currentFiles := map[string]struct{}{}
	var results []StatusEntry

	for _, entry := range walked {
		if entry.IsDir {
			results = append(results, entry)
			continue
		}
		if entry.Status&WTIgnored != 0 {
			if filter&IncludeIgnored != 0 {
				results = append(results, entry)
			}
			continue
		}

		currentFiles[entry.Path] = struct{}{}
		old, existed := oldFiles[entry.Path]
		if !existed {
			if filter&IncludeUntracked != 0 {
				results = append(results, StatusEntry{Path: entry.Path, Status: WTNew})
			}
			continue
		}

		modified, err := r.fileIsModified(ctx, entry.Path, old)
		if err != nil {
			return nil, err
		}
		if modified {
			results = append(results, StatusEntry{Path: entry.Path, Status: WTModified})
		} else if filter&IncludeUnmodified != 0 {
			results = append(results, StatusEntry{Path: entry.Path, Status: WTUnmodified})
		}
	}

	for path := range oldFiles {
		if _, ok := currentFiles[path]; ok {
			continue
		}
		if r.ig.Ignored(path) && filter&IncludeIgnored == 0 {
			continue
		}
		results = append(results, StatusEntry{Path: path, Status: WTDeleted})
	}

	return results, nil
}

// fileIsModified compares old against the file currently at
// <workdir>/relPath using the mtime/size fast path, falling back to a
// full content re-hash only when the fast path is ambiguous.
func (r *Repository) fileIsModified(ctx context.Context, relPath string, old model.TreeFile) (bool, error) {
	absPath := filepath.Join(r.Workdir, relPath)
	info, err := os.Stat(absPath)
	if err != nil {
		return false, err
	}

	if !fastPathModified(old, info.Size(), info.ModTime().Unix()) {
		return false, nil
	}

	match, err := hasher.CompareFileHash(ctx, absPath, old.Hash, nil)
	if err != nil {
		return false, err
	}
	return !match, nil
}
