package repo

import (
	"strconv"
	"strings"

	"snow/pkg/model"
	"snow/pkg/snowerr"
)

// FindCommitByHash resolves expr to a commit. expr is either a literal
// (possibly abbreviated) hash, or an ancestor expression of the form
// "HEAD~N~M~..." where each segment after the first names how many
// first-parent hops to walk.
func (r *Repository) FindCommitByHash(expr string) (*model.Commit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findCommitByHash(expr)
}

func (r *Repository) findCommitByHash(expr string) (*model.Commit, error) {
	parts := strings.Split(expr, "~")
	base := parts[0]

	var start *model.Commit
	if base == model.HeadName {
		c, ok := r.headCommit()
		if !ok {
			return nil, snowerr.New(snowerr.NoHead, "FindCommitByHash", expr)
		}
		start = c
	} else if ref, ok := r.refs[base]; ok {
		c, ok := r.commitMap[ref.Hash]
		if !ok {
			return nil, snowerr.New(snowerr.UnknownTarget, "FindCommitByHash", expr)
		}
		start = c
	} else {
		full, err := r.expandHashLocal(base)
		if err != nil {
			return nil, snowerr.New(snowerr.InvalidHashSyntax, "FindCommitByHash", expr)
		}
		c, ok := r.commitMap[full]
		if !ok {
			return nil, snowerr.New(snowerr.InvalidHashSyntax, "FindCommitByHash", expr)
		}
		start = c
	}

	current := start
	for _, segment := range parts[1:] {
		n, err := strconv.Atoi(segment)
		if err != nil || n < 0 {
			return nil, snowerr.New(snowerr.InvalidHashSyntax, "FindCommitByHash", expr)
		}
		for i := 0; i < n; i++ {
			if len(current.Parents) == 0 {
				return nil, snowerr.New(snowerr.OutOfHistory, "FindCommitByHash", expr)
			}
			parent, ok := r.commitMap[current.Parents[0]]
			if !ok {
				return nil, snowerr.New(snowerr.OutOfHistory, "FindCommitByHash", expr)
			}
			current = parent
		}
	}
	return current, nil
}

// expandHashLocal resolves a possibly-abbreviated hash against the
// in-memory commitMap, falling back to a full match.
func (r *Repository) expandHashLocal(prefix string) (string, error) {
	if _, ok := r.commitMap[prefix]; ok {
		return prefix, nil
	}
	var match string
	for hash := range r.commitMap {
		if strings.HasPrefix(hash, prefix) {
			if match != "" {
				return "", snowerr.New(snowerr.InvalidHashSyntax, "expandHashLocal", prefix)
			}
			match = hash
		}
	}
	if match == "" {
		return "", snowerr.New(snowerr.InvalidHashSyntax, "expandHashLocal", prefix)
	}
	return match, nil
}

// FindCommitByReferenceName returns the commit a named reference
// currently points at.
func (r *Repository) FindCommitByReferenceName(refType model.ReferenceType, name string) (*model.Commit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, ok := r.refs[name]
	if !ok || ref.Type != refType {
		return nil, snowerr.New(snowerr.RefNotFound, "FindCommitByReferenceName", name)
	}
	c, ok := r.commitMap[ref.Hash]
	if !ok {
		return nil, snowerr.New(snowerr.UnknownTarget, "FindCommitByReferenceName", name)
	}
	return c, nil
}

// Log walks first-parent ancestry starting at ref (HEAD if empty),
// returning commits newest-first, capped at limit (0 = unbounded).
func (r *Repository) Log(ref string, limit int) ([]*model.Commit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start, ok := r.headCommit()
	if ref != "" {
		c, err := r.findCommitByHash(ref)
		if err != nil {
			return nil, err
		}
		start, ok = c, true
	}
	if !ok {
		return nil, nil
	}

	var out []*model.Commit
	current := start
	for {
		out = append(out, current)
		if limit > 0 && len(out) >= limit {
			break
		}
		if len(current.Parents) == 0 {
			break
		}
		parent, ok := r.commitMap[current.Parents[0]]
		if !ok {
			break
		}
		current = parent
	}
	return out, nil
}
