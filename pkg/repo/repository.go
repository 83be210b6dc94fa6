package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"snow/pkg/ignore"
	"snow/pkg/index"
	"snow/pkg/ioctx"
	"snow/pkg/model"
	"snow/pkg/objectstore"
	"snow/pkg/pathutil"
	"snow/pkg/snowerr"
)

const snowEntryName = ".snow"

// Repository is the in-memory arena for one working directory's
// commits, references, and HEAD. Commits are keyed by their own
// content hash in commitMap; references and HEAD store hash strings
// rather than pointers, so nothing here ever holds a *model.Commit
// across a concurrent mutation — callers always resolve through
// FindCommitByHash.
type Repository struct {
	mu sync.RWMutex

	Workdir   string
	Commondir string

	store *objectstore.Store
	ioc   *ioctx.Context
	ig    *ignore.Matcher

	commits   []*model.Commit
	commitMap map[string]*model.Commit
	refs      map[string]*model.Reference
	head      model.Head

	mainIndex *index.Index
}

// InitExt creates a new repository rooted at workdir.
func InitExt(ctx context.Context, workdir string, opts InitOptions) (*Repository, error) {
	absWorkdir, err := filepath.Abs(workdir)
	if err != nil {
		return nil, snowerr.Wrap(snowerr.IoError, "InitExt", workdir, err)
	}

	commondir := opts.Commondir
	external := commondir != ""
	if external {
		absCommondir, err := filepath.Abs(commondir)
		if err != nil {
			return nil, snowerr.Wrap(snowerr.IoError, "InitExt", commondir, err)
		}
		commondir = absCommondir
		if strings.HasPrefix(commondir, absWorkdir+string(filepath.Separator)) || commondir == absWorkdir {
			return nil, snowerr.New(snowerr.InvalidCommondir, "InitExt", commondir)
		}
	} else {
		commondir = filepath.Join(absWorkdir, snowEntryName)
	}

	if err := os.MkdirAll(absWorkdir, 0o755); err != nil {
		return nil, snowerr.Wrap(snowerr.IoError, "InitExt", absWorkdir, err)
	}

	if external {
		marker := filepath.Join(absWorkdir, snowEntryName)
		if err := os.WriteFile(marker, []byte(commondir), 0o644); err != nil {
			return nil, snowerr.Wrap(snowerr.IoError, "InitExt", marker, err)
		}
	}
	if err := os.MkdirAll(commondir, 0o755); err != nil {
		return nil, snowerr.Wrap(snowerr.IoError, "InitExt", commondir, err)
	}

	storeCfg := opts.Store
	storeCfg.Commondir = commondir
	if storeCfg.Journal.Driver == "" {
		storeCfg.Journal.Driver = "sqlite"
	}
	store, err := objectstore.Create(ctx, storeCfg)
	if err != nil {
		return nil, err
	}

	iocx, err := ioctx.New(ctx)
	if err != nil {
		return nil, err
	}
	ig, err := ignore.NewMatcher(absWorkdir)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		Workdir:   absWorkdir,
		Commondir: commondir,
		store:     store,
		ioc:       iocx,
		ig:        ig,
		commitMap: map[string]*model.Commit{},
		refs:      map[string]*model.Reference{},
	}
	mainIndex, err := index.LoadMainIndex(commondir)
	if err != nil {
		return nil, err
	}
	r.mainIndex = mainIndex

	if _, err := r.CreateCommit(ctx, r.mainIndex, "Created Project", CommitOptions{AllowEmpty: true}, nil, nil); err != nil {
		return nil, err
	}
	return r, nil
}

// Open loads an existing repository by walking ancestors of workdir
// for a .snow marker.
func Open(ctx context.Context, workdir string, opts ...OpenOptions) (*Repository, error) {
	var opt OpenOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	absWorkdir, err := filepath.Abs(workdir)
	if err != nil {
		return nil, snowerr.Wrap(snowerr.IoError, "Open", workdir, err)
	}

	root, commondir, err := findCommondir(absWorkdir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(commondir)
	if err != nil || !info.IsDir() {
		return nil, snowerr.New(snowerr.InvalidCommondir, "Open", commondir)
	}

	storeCfg := opt.Store
	storeCfg.Commondir = commondir
	if storeCfg.Journal.Driver == "" {
		storeCfg.Journal.Driver = "sqlite"
	}
	store, err := objectstore.Open(ctx, storeCfg)
	if err != nil {
		return nil, err
	}
	iocx, err := ioctx.New(ctx)
	if err != nil {
		return nil, err
	}
	ig, err := ignore.NewMatcher(root)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		Workdir:   root,
		Commondir: commondir,
		store:     store,
		ioc:       iocx,
		ig:        ig,
		commitMap: map[string]*model.Commit{},
		refs:      map[string]*model.Reference{},
	}
	mainIndex, err := index.LoadMainIndex(commondir)
	if err != nil {
		return nil, err
	}
	r.mainIndex = mainIndex

	if err := r.loadCommits(); err != nil {
		return nil, err
	}
	if err := r.loadReferences(); err != nil {
		return nil, err
	}
	if err := r.loadHead(); err != nil {
		return nil, err
	}
	return r, nil
}

// findCommondir walks ancestors of dir looking for a .snow entry.
func findCommondir(dir string) (workdirRoot, commondir string, err error) {
	for {
		marker := filepath.Join(dir, snowEntryName)
		info, statErr := os.Stat(marker)
		if statErr == nil {
			if info.IsDir() {
				return dir, marker, nil
			}
			data, readErr := os.ReadFile(marker)
			if readErr != nil {
				return "", "", snowerr.Wrap(snowerr.IoError, "findCommondir", marker, readErr)
			}
			return dir, strings.TrimSpace(string(data)), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", snowerr.New(snowerr.NotARepository, "findCommondir", dir)
		}
		dir = parent
	}
}

func (r *Repository) loadCommits() error {
	commits, err := r.store.ReadCommits()
	if err != nil {
		return err
	}
	r.commits = make([]*model.Commit, 0, len(commits))
	for i := range commits {
		c := commits[i]
		r.commits = append(r.commits, &c)
		r.commitMap[c.Hash] = &c
	}
	return nil
}

func (r *Repository) loadReferences() error {
	refs, err := r.store.ReadReferences()
	if err != nil {
		return err
	}
	for i := range refs {
		ref := refs[i]
		r.refs[ref.Name] = &ref
	}
	return nil
}

func (r *Repository) loadHead() error {
	head, err := r.store.ReadHeadReference()
	if err != nil {
		if len(r.refs) > 0 {
			for name, ref := range r.refs {
				r.head = model.Head{Name: name, Hash: ref.Hash}
				return nil
			}
		}
		return snowerr.New(snowerr.NoHead, "loadHead", r.Commondir)
	}

	if head.Name != "" && head.Name != model.HeadName {
		if ref, ok := r.refs[head.Name]; ok {
			r.head = model.Head{Name: ref.Name, Hash: ref.Hash}
			return nil
		}
	}
	r.head = model.Head{Name: model.HeadName, Hash: head.Hash}
	return nil
}

func (r *Repository) persistHead() error {
	return r.store.WriteHeadReference(r.head)
}

// RelPath normalizes an absolute or working-directory-relative path to
// a forward-slash path relative to the repository root.
func (r *Repository) RelPath(p string) string {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.Workdir, p)
		if err == nil {
			p = rel
		}
	}
	return pathutil.Normalize(filepath.ToSlash(p))
}

func (r *Repository) headCommit() (*model.Commit, bool) {
	if r.head.Hash == "" {
		return nil, false
	}
	c, ok := r.commitMap[r.head.Hash]
	return c, ok
}

// Index returns the repository's main staging index.
func (r *Repository) Index() *index.Index {
	return r.mainIndex
}

func (r *Repository) Close() error {
	return r.store.Close()
}
