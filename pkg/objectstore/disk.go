package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snow/pkg/ioctx"
	"snow/pkg/snowerr"
)

// DiskBlobStore is a hash-sharded, content-addressed blob store rooted
// at a directory. Writes land via a temp-file-then-rename so a reader
// never observes a partially written blob.
type DiskBlobStore struct {
	rootPath string
}

// NewDiskBlobStore creates (if needed) and returns a disk-backed
// BlobStore rooted at root.
func NewDiskBlobStore(root string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, snowerr.Wrap(snowerr.IoError, "NewDiskBlobStore", root, err)
	}
	return &DiskBlobStore{rootPath: root}, nil
}

// layout shards by the first two hex characters of the hash.
func (s *DiskBlobStore) layout(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.rootPath, hash)
	}
	return filepath.Join(s.rootPath, hash[:2], hash[2:])
}

func (s *DiskBlobStore) PutFile(ctx context.Context, hash, srcPath string, ioc *ioctx.Context) error {
	target := s.layout(hash)
	if _, err := os.Stat(target); err == nil {
		return nil // idempotent: content-addressed, already present
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return snowerr.Wrap(snowerr.IoError, "PutFile", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "PutFile", dir, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if ioc != nil {
		if err := ioc.CopyFile(ctx, srcPath, tmpPath); err != nil {
			return err
		}
	} else if err := plainCopy(srcPath, tmpPath); err != nil {
		return snowerr.Wrap(snowerr.IoError, "PutFile", srcPath, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return snowerr.Wrap(snowerr.IoError, "PutFile", target, err)
	}
	return nil
}

func (s *DiskBlobStore) GetFile(ctx context.Context, hash, dstPath string, ioc *ioctx.Context) error {
	src := s.layout(hash)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return snowerr.Wrap(snowerr.IoError, "GetFile", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return snowerr.Wrap(snowerr.IoError, "GetFile", dstPath, err)
	}

	if ioc != nil {
		return ioc.CopyFile(ctx, src, dstPath)
	}
	if err := plainCopy(src, dstPath); err != nil {
		return snowerr.Wrap(snowerr.IoError, "GetFile", dstPath, err)
	}
	return nil
}

func (s *DiskBlobStore) Has(_ context.Context, hash string) (bool, error) {
	_, err := os.Stat(s.layout(hash))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, snowerr.Wrap(snowerr.IoError, "Has", hash, err)
}

func (s *DiskBlobStore) ExpandHash(_ context.Context, prefix string) (string, error) {
	if len(prefix) < 2 {
		return "", snowerr.New(snowerr.InvalidHashSyntax, "ExpandHash", prefix)
	}
	shardDir := filepath.Join(s.rootPath, prefix[:2])
	entries, err := os.ReadDir(shardDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", snowerr.Wrap(snowerr.IoError, "ExpandHash", shardDir, err)
	}

	rest := prefix[2:]
	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), rest) {
			matches = append(matches, prefix[:2]+e.Name())
		}
	}
	sort.Strings(matches)
	switch len(matches) {
	case 0:
		return "", ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", ErrAmbiguousHash
	}
}
