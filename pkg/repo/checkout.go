package repo

import (
	"context"
	"os"
	"path/filepath"

	"snow/pkg/model"
	"snow/pkg/snowerr"
)

// CheckoutTarget is anything Checkout can resolve to a commit: a
// reference name, a raw (possibly short) commit hash, a *Reference,
// or a *Commit.
type CheckoutTarget struct {
	Name      string
	Hash      string
	Reference *model.Reference
	Commit    *model.Commit
}

func TargetName(name string) CheckoutTarget               { return CheckoutTarget{Name: name} }
func TargetHash(hash string) CheckoutTarget               { return CheckoutTarget{Hash: hash} }
func TargetReference(ref *model.Reference) CheckoutTarget { return CheckoutTarget{Reference: ref} }
func TargetCommit(c *model.Commit) CheckoutTarget         { return CheckoutTarget{Commit: c} }

// resolveTarget returns the commit the target names and, if it names
// (or uniquely matches) a reference, that reference too.
func (r *Repository) resolveTarget(target CheckoutTarget) (*model.Commit, *model.Reference, error) {
	switch {
	case target.Commit != nil:
		return target.Commit, r.referenceForHash(target.Commit.Hash), nil
	case target.Reference != nil:
		c, ok := r.commitMap[target.Reference.Hash]
		if !ok {
			return nil, nil, snowerr.New(snowerr.UnknownTarget, "Checkout", target.Reference.Name)
		}
		return c, target.Reference, nil
	case target.Name != "":
		if ref, ok := r.refs[target.Name]; ok {
			c, ok := r.commitMap[ref.Hash]
			if !ok {
				return nil, nil, snowerr.New(snowerr.UnknownTarget, "Checkout", target.Name)
			}
			return c, ref, nil
		}
		c, err := r.findCommitByHash(target.Name)
		if err != nil {
			return nil, nil, snowerr.New(snowerr.UnknownTarget, "Checkout", target.Name)
		}
		return c, r.referenceForHash(c.Hash), nil
	case target.Hash != "":
		full, err := r.expandHashLocal(target.Hash)
		if err == nil {
			target.Hash = full
		}
		c, ok := r.commitMap[target.Hash]
		if !ok {
			return nil, nil, snowerr.New(snowerr.UnknownTarget, "Checkout", target.Hash)
		}
		return c, r.referenceForHash(c.Hash), nil
	default:
		return nil, nil, snowerr.New(snowerr.UnknownTarget, "Checkout", "")
	}
}

// referenceForHash returns the unique reference pointing at hash, or
// nil if none or more than one do (an ambiguous raw-hash checkout
// stays detached).
func (r *Repository) referenceForHash(hash string) *model.Reference {
	var match *model.Reference
	for _, ref := range r.refs {
		if ref.Hash == hash {
			if match != nil {
				return nil
			}
			match = ref
		}
	}
	return match
}

// Checkout moves HEAD to target and reconciles the working tree per
// reset. HEAD is persisted before any file mutation: a failure partway
// through file reconciliation leaves HEAD already pointing at the new
// commit.
func (r *Repository) Checkout(ctx context.Context, target CheckoutTarget, reset ResetFlag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	targetCommit, targetRef, err := r.resolveTarget(target)
	if err != nil {
		return err
	}

	currentFiles, err := r.currentFileSet()
	if err != nil {
		return err
	}

	oldFiles := targetCommit.Root.Flatten()

	r.head.Hash = targetCommit.Hash
	if reset&Detach != 0 || targetRef == nil {
		r.head.Name = model.HeadName
	} else {
		r.head.Name = targetRef.Name
	}
	if err := r.persistHead(); err != nil {
		return err
	}

	if reset&DeleteNewFiles != 0 {
		for relPath := range currentFiles {
			if _, ok := oldFiles[relPath]; !ok {
				if err := r.ioc.PutToTrash(ctx, filepath.Join(r.Workdir, relPath)); err != nil {
					return err
				}
			}
		}
	}

	if reset&RestoreDeletedFiles != 0 {
		for relPath, file := range oldFiles {
			if _, ok := currentFiles[relPath]; ok {
				continue
			}
			if err := r.materialize(ctx, relPath, file); err != nil {
				return err
			}
		}
	}

	if reset&DeleteModifiedFiles != 0 {
		for relPath, file := range oldFiles {
			if _, ok := currentFiles[relPath]; !ok {
				continue
			}
			modified, err := r.fileIsModified(ctx, relPath, file)
			if err != nil {
				return err
			}
			if modified {
				if err := r.materialize(ctx, relPath, file); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (r *Repository) materialize(ctx context.Context, relPath string, file model.TreeFile) error {
	dst := filepath.Join(r.Workdir, relPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return snowerr.Wrap(snowerr.IoError, "materialize", dst, err)
	}
	return r.store.Read(ctx, file.Hash, dst, r.ioc)
}

// currentFileSet scans the working tree excluding ignore-matched paths:
// an ignored file is never under version control, so it must not be
// swept up by DeleteNewFiles just because it isn't in the target
// commit's tree.
func (r *Repository) currentFileSet() (map[string]struct{}, error) {
	entries, err := r.walkWorkingTree(false, false)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.Path] = struct{}{}
	}
	return set, nil
}
