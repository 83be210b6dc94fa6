package objectstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snow/pkg/model"
	"snow/pkg/snowerr"
)

// metaStore is the JSON-on-disk persistence layer for commits,
// references, and HEAD. It is the source of truth; the derived SQL
// journal (journal.go) only mirrors it for fast queries.
type metaStore struct {
	commondir string
}

func newMetaStore(commondir string) *metaStore {
	return &metaStore{commondir: commondir}
}

func (m *metaStore) commitPath(hash string) string {
	return filepath.Join(m.commondir, "commits", hash+".json")
}

func (m *metaStore) refPath(name string) string {
	return filepath.Join(m.commondir, "refs", name+".json")
}

func (m *metaStore) headPath() string {
	return filepath.Join(m.commondir, "HEAD")
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return snowerr.Wrap(snowerr.IoError, "writeJSONAtomic", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return snowerr.Wrap(snowerr.Unknown, "writeJSONAtomic", path, err)
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "writeJSONAtomic", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return snowerr.Wrap(snowerr.IoError, "writeJSONAtomic", tmpPath, err)
	}
	tmp.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return snowerr.Wrap(snowerr.IoError, "writeJSONAtomic", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snowerr.New(snowerr.NotFound, "readJSON", path)
		}
		return snowerr.Wrap(snowerr.IoError, "readJSON", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return snowerr.Wrap(snowerr.Unknown, "readJSON", path, err)
	}
	return nil
}

func (m *metaStore) WriteCommit(c model.Commit) error {
	return writeJSONAtomic(m.commitPath(c.Hash), c)
}

func (m *metaStore) ReadCommit(hash string) (model.Commit, error) {
	var c model.Commit
	err := readJSON(m.commitPath(hash), &c)
	return c, err
}

// ReadCommits loads every commit under the commondir. Order is not
// meaningful; callers that need history order walk Parents from a
// starting hash instead.
func (m *metaStore) ReadCommits() ([]model.Commit, error) {
	dir := filepath.Join(m.commondir, "commits")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, snowerr.Wrap(snowerr.IoError, "ReadCommits", dir, err)
	}
	commits := make([]model.Commit, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var c model.Commit
		if err := readJSON(filepath.Join(dir, e.Name()), &c); err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

func (m *metaStore) WriteReference(r model.Reference) error {
	return writeJSONAtomic(m.refPath(r.Name), r)
}

func (m *metaStore) DeleteReference(name string) error {
	if err := os.Remove(m.refPath(name)); err != nil {
		if os.IsNotExist(err) {
			return snowerr.New(snowerr.RefNotFound, "DeleteReference", name)
		}
		return snowerr.Wrap(snowerr.IoError, "DeleteReference", name, err)
	}
	return nil
}

func (m *metaStore) ReadReference(name string) (model.Reference, error) {
	var r model.Reference
	err := readJSON(m.refPath(name), &r)
	if snowerr.Is(err, snowerr.NotFound) {
		return r, snowerr.New(snowerr.RefNotFound, "ReadReference", name)
	}
	return r, err
}

func (m *metaStore) ReadReferences() ([]model.Reference, error) {
	dir := filepath.Join(m.commondir, "refs")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, snowerr.Wrap(snowerr.IoError, "ReadReferences", dir, err)
	}
	refs := make([]model.Reference, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var r model.Reference
		if err := readJSON(filepath.Join(dir, e.Name()), &r); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (m *metaStore) WriteHeadReference(h model.Head) error {
	return writeJSONAtomic(m.headPath(), h)
}

func (m *metaStore) ReadHeadReference() (model.Head, error) {
	var h model.Head
	err := readJSON(m.headPath(), &h)
	return h, err
}
