package repo

import (
	"snow/pkg/model"
	"snow/pkg/snowerr"
)

// CreateNewReference adds a new named reference pointing at
// startPoint (a literal or abbreviated commit hash).
func (r *Repository) CreateNewReference(refType model.ReferenceType, name, startPoint string, userData map[string]any) (*model.Reference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.refs[name]; exists {
		return nil, snowerr.New(snowerr.RefExists, "CreateNewReference", name)
	}

	hash, err := r.expandHashLocal(startPoint)
	if err != nil {
		return nil, snowerr.New(snowerr.InvalidStartPoint, "CreateNewReference", startPoint)
	}

	ref := &model.Reference{Type: refType, Name: name, Hash: hash, Start: hash, UserData: userData}
	if err := r.store.WriteReference(*ref); err != nil {
		return nil, err
	}
	r.refs[name] = ref
	return ref, nil
}

// DeleteReference removes a reference by name. Refuses to delete the
// reference HEAD is currently attached to.
func (r *Repository) DeleteReference(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.refs[name]; !exists {
		return snowerr.New(snowerr.RefNotFound, "DeleteReference", name)
	}
	if r.head.Attached() && r.head.Name == name {
		return snowerr.New(snowerr.CannotDeleteCheckedOutRef, "DeleteReference", name)
	}
	if err := r.store.DeleteReference(name); err != nil {
		return err
	}
	delete(r.refs, name)
	return nil
}

// SetHead attaches HEAD to an existing named reference.
func (r *Repository) SetHead(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.refs[name]
	if !ok {
		return snowerr.New(snowerr.RefNotFound, "SetHead", name)
	}
	r.head = model.Head{Name: ref.Name, Hash: ref.Hash}
	return r.persistHead()
}

// SetHeadDetached points HEAD directly at a commit hash, detaching it
// from any reference.
func (r *Repository) SetHeadDetached(hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	full, err := r.expandHashLocal(hash)
	if err != nil {
		return snowerr.New(snowerr.UnknownTarget, "SetHeadDetached", hash)
	}
	r.head = model.Head{Name: model.HeadName, Hash: full}
	return r.persistHead()
}

// References returns every reference, keyed by name.
func (r *Repository) References() map[string]*model.Reference {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*model.Reference, len(r.refs))
	for name, ref := range r.refs {
		cp := *ref
		out[name] = &cp
	}
	return out
}

// Head returns the current HEAD value.
func (r *Repository) Head() model.Head {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.head
}
