// Package repo implements the repository: commit creation, checkout,
// status, and reference management over an object store and a
// working directory.
package repo

import (
	"snow/pkg/model"
	"snow/pkg/objectstore"
)

// ResetFlag controls which categories of working-tree drift Checkout
// reconciles. The zero value is never used directly; DefaultReset is
// the documented default.
type ResetFlag int

const (
	DeleteModifiedFiles ResetFlag = 1 << iota
	DeleteNewFiles
	RestoreDeletedFiles
	Detach
)

// DefaultReset matches a plain checkout with no explicit flags: clean
// up modified and new files, restore deleted ones, but stay attached
// to a branch reference when the target resolves to one.
const DefaultReset = DeleteModifiedFiles | DeleteNewFiles | RestoreDeletedFiles

// StatusFilter controls which categories GetStatus reports.
type StatusFilter int

const (
	IncludeDirectories StatusFilter = 1 << iota
	IncludeUntracked
	IncludeUnmodified
	IncludeIgnored
)

// WorkingTreeStatus is a bitmask describing one path's relationship to
// the commit being compared against.
type WorkingTreeStatus int

const (
	WTNew WorkingTreeStatus = 1 << iota
	WTModified
	WTDeleted
	WTUnmodified
	WTIgnored
)

// StatusEntry is one row of GetStatus's report.
type StatusEntry struct {
	Path   string
	Status WorkingTreeStatus
	IsDir  bool
}

// InitOptions configures InitExt. Commondir, if set, externalizes the
// repository's metadata outside workdir. Store, if its fields are left
// zero, selects the disk blob backend and a sqlite journal; set S3 to
// use the S3 backend instead, and Redis to add an existence cache in
// front of either, per objectstore.Config.
type InitOptions struct {
	Commondir string
	Store     objectstore.Config
}

// OpenOptions configures Open. Store mirrors InitOptions.Store and must
// match whatever backend the repository was created or last opened
// with.
type OpenOptions struct {
	Store objectstore.Config
}

// CommitOptions configures CreateCommit.
type CommitOptions struct {
	AllowEmpty bool
}

// fastPathModified reports whether old's recorded size differs from
// the current size, or its recorded mtime differs from the current
// one. fileIsModified accepts a false result as unchanged and confirms
// a true result by re-hashing via 4.C.
func fastPathModified(old model.TreeFile, size int64, mtime int64) bool {
	return old.Size != size || old.Mtime.Unix() != mtime
}
