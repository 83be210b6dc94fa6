// Package objectstore is the concrete fulfillment of the engine's object
// store contract: content-addressed blob storage, plus JSON persistence
// of commits, references, and HEAD, plus a derived SQL journal for fast
// history queries.
package objectstore

import (
	"context"
	"errors"

	"snow/pkg/ioctx"
)

// ErrNotFound is returned by a BlobStore when the requested hash is
// absent.
var ErrNotFound = errors.New("object not found")

// ErrAmbiguousHash is returned by ExpandHash when a short hash prefix
// matches more than one stored blob.
var ErrAmbiguousHash = errors.New("ambiguous hash prefix")

// BlobStore is the low-level, content-addressed byte store a concrete
// backend (disk, S3, ...) implements. PutFile/GetFile receive an
// IoContext so a local-disk backend can materialize blobs through a
// reflink-aware copy instead of a plain byte stream; backends with no
// notion of a local filesystem (S3) simply ignore it.
type BlobStore interface {
	PutFile(ctx context.Context, hash, srcPath string, ioc *ioctx.Context) error
	GetFile(ctx context.Context, hash, dstPath string, ioc *ioctx.Context) error
	Has(ctx context.Context, hash string) (bool, error)
	ExpandHash(ctx context.Context, prefix string) (string, error)
}
