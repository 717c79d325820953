// Package registry is an in-memory parent lookup table for bodies.
package registry

import (
	"slices"
	"sync"

	"celestial-server/internal/body"
	"celestial-server/internal/entity"
	"celestial-server/internal/shared/errors"

	"github.com/kamstrup/intmap"
)

// Registry indexes bodies by handle. Bodies are immutable, so the lock
// only guards the indexes.
type Registry struct {
	mu       sync.RWMutex
	bodies   *intmap.Map[entity.Handle, body.Body]
	children *intmap.Map[entity.Handle, []entity.Handle]
}

func New() *Registry {
	return &Registry{
		bodies:   intmap.New[entity.Handle, body.Body](256),
		children: intmap.New[entity.Handle, []entity.Handle](64),
	}
}

// Add stores b under an allocated handle. The parent, if any, must
// already be registered.
func (r *Registry) Add(h entity.Handle, b body.Body) error {
	if _, err := h.Category(); err != nil {
		return errors.WrapValidation("invalid handle", err)
	}
	if b == nil {
		return errors.Validation("body is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bodies.Get(h); exists {
		return errors.Conflictf("body %s already registered", h)
	}

	parent, hasParent := b.Parent()
	if hasParent {
		if parent == h {
			return errors.Validationf("body %s cannot orbit itself", h)
		}
		if _, ok := r.bodies.Get(parent); !ok {
			return errors.NotFoundf("parent %s of %s is not registered", parent, h)
		}
	}

	r.bodies.Put(h, b)
	if hasParent {
		siblings, _ := r.children.Get(parent)
		r.children.Put(parent, append(siblings, h))
	}
	return nil
}

func (r *Registry) Get(h entity.Handle) (body.Body, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bodies.Get(h)
}

// Children lists the handles orbiting h in ascending order.
func (r *Registry) Children(h entity.Handle) ([]entity.Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.bodies.Get(h); !ok {
		return nil, errors.NotFoundf("body %s not found", h)
	}
	children, _ := r.children.Get(h)
	out := slices.Clone(children)
	slices.Sort(out)
	return out, nil
}

// Ancestors walks the parent chain from h, nearest first. Add only accepts
// registered parents, so the chain always terminates.
func (r *Registry) Ancestors(h entity.Handle) ([]entity.Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bodies.Get(h)
	if !ok {
		return nil, errors.NotFoundf("body %s not found", h)
	}

	var ancestors []entity.Handle
	for {
		parent, hasParent := b.Parent()
		if !hasParent {
			return ancestors, nil
		}
		ancestors = append(ancestors, parent)
		if b, ok = r.bodies.Get(parent); !ok {
			return ancestors, nil
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bodies.Len()
}
