package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"snow/pkg/hasher"
	"snow/pkg/ioctx"
	"snow/pkg/model"
)

// Store is the concrete fulfillment of the engine's object store
// contract: a BlobStore for content-addressed bytes, JSON persistence
// for commits/references/HEAD, and an optional SQL journal mirroring
// both for fast queries. The journal is best-effort; a failure to
// record into it never fails the operation that produced the write,
// since the JSON state under meta remains the source of truth.
type Store struct {
	blobs   BlobStore
	meta    *metaStore
	journal *Journal
}

// Config selects the concrete backends composing a Store.
type Config struct {
	Commondir string

	// Blob backend selection. S3, if set, replaces the disk backend
	// (objects/ under Commondir); Redis, if set, adds an existence cache
	// in front of whichever backend is selected.
	S3     *S3Config
	Redis  *RedisCacheConfig
	Journal JournalConfig
}

// Create initializes a fresh Store rooted at cfg.Commondir: it creates
// the objects/ directory (or connects to the S3 bucket) for blobs;
// commits/, refs/ and HEAD are created on first write. It is safe to call against an already
// populated commondir; every write underneath is idempotent or
// create-if-missing.
func Create(ctx context.Context, cfg Config) (*Store, error) {
	return open(ctx, cfg)
}

// Open returns a Store bound to an existing commondir. There is no
// structural difference from Create: both simply wire up the
// configured backends against commondir paths that may or may not yet
// exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	return open(ctx, cfg)
}

func open(ctx context.Context, cfg Config) (*Store, error) {
	var blobs BlobStore
	var err error

	switch {
	case cfg.S3 != nil:
		blobs, err = NewS3BlobStore(ctx, *cfg.S3)
	default:
		blobs, err = NewDiskBlobStore(filepath.Join(cfg.Commondir, "objects"))
	}
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	if cfg.Redis != nil {
		cached, err := NewCachedBlobStore(ctx, blobs, *cfg.Redis)
		if err != nil {
			slog.Warn("redis cache unavailable, continuing without it", "err", err)
		} else {
			blobs = cached
		}
	}

	journal, err := OpenJournal(ctx, JournalConfig{
		Driver: cfg.Journal.Driver,
		DSN:    journalDSN(cfg),
	})
	if err != nil {
		slog.Warn("journal unavailable, history queries will be degraded", "err", err)
		journal = nil
	}

	return &Store{
		blobs:   blobs,
		meta:    newMetaStore(cfg.Commondir),
		journal: journal,
	}, nil
}

func journalDSN(cfg Config) string {
	if cfg.Journal.DSN != "" {
		return cfg.Journal.DSN
	}
	if cfg.Journal.Driver == "" || cfg.Journal.Driver == "sqlite" {
		return filepath.Join(cfg.Commondir, "journal.db")
	}
	return ""
}

// Write hashes srcAbsPath (via the fixed-size block hasher) and copies
// it into the blob store under that hash, reusing ioc for a
// reflink-aware transfer when the backend supports it. Write is
// idempotent: re-writing an already-stored hash is a no-op.
func (s *Store) Write(ctx context.Context, srcAbsPath string, ioc *ioctx.Context) (string, error) {
	result, err := hasher.HashFile(ctx, srcAbsPath)
	if err != nil {
		return "", err
	}
	if err := s.blobs.PutFile(ctx, result.FileHash, srcAbsPath, ioc); err != nil {
		return "", err
	}
	return result.FileHash, nil
}

// Read materializes the blob named by hash at dstAbsPath.
func (s *Store) Read(ctx context.Context, hash, dstAbsPath string, ioc *ioctx.Context) error {
	return s.blobs.GetFile(ctx, hash, dstAbsPath, ioc)
}

func (s *Store) Has(ctx context.Context, hash string) (bool, error) {
	return s.blobs.Has(ctx, hash)
}

func (s *Store) ExpandHash(ctx context.Context, prefix string) (string, error) {
	return s.blobs.ExpandHash(ctx, prefix)
}

func (s *Store) WriteCommit(c model.Commit) error {
	if err := s.meta.WriteCommit(c); err != nil {
		return err
	}
	if s.journal != nil {
		if err := s.journal.RecordCommit(c); err != nil {
			slog.Warn("journal record failed", "commit", c.Hash, "err", err)
		}
	}
	return nil
}

func (s *Store) ReadCommit(hash string) (model.Commit, error) {
	return s.meta.ReadCommit(hash)
}

func (s *Store) ReadCommits() ([]model.Commit, error) {
	return s.meta.ReadCommits()
}

func (s *Store) WriteReference(r model.Reference) error {
	if err := s.meta.WriteReference(r); err != nil {
		return err
	}
	if s.journal != nil {
		if err := s.journal.RecordReference(r); err != nil {
			slog.Warn("journal record failed", "ref", r.Name, "err", err)
		}
	}
	return nil
}

func (s *Store) DeleteReference(name string) error {
	if err := s.meta.DeleteReference(name); err != nil {
		return err
	}
	if s.journal != nil {
		if err := s.journal.RemoveReference(name); err != nil {
			slog.Warn("journal remove failed", "ref", name, "err", err)
		}
	}
	return nil
}

func (s *Store) ReadReference(name string) (model.Reference, error) {
	return s.meta.ReadReference(name)
}

func (s *Store) ReadReferences() ([]model.Reference, error) {
	return s.meta.ReadReferences()
}

func (s *Store) WriteHeadReference(h model.Head) error {
	return s.meta.WriteHeadReference(h)
}

func (s *Store) ReadHeadReference() (model.Head, error) {
	return s.meta.ReadHeadReference()
}

// History returns recent commits newest-first via the journal when
// available, falling back to an unordered full scan of the JSON store
// otherwise.
func (s *Store) History(limit int) ([]model.Commit, error) {
	if s.journal != nil {
		commits, err := s.journal.History(limit)
		if err == nil {
			return commits, nil
		}
		slog.Warn("journal history query failed, falling back to JSON scan", "err", err)
	}
	commits, err := s.meta.ReadCommits()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(commits) > limit {
		commits = commits[:limit]
	}
	return commits, nil
}

func (s *Store) Close() error {
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}
