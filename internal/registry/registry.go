// Package registry holds the tasks declared for one synthesis run, keyed by
// task name, so workflow text can reference them.
package registry

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// Registry provides thread-safe access to task descriptors.
// Descriptors are cloned on the way in and out, so callers never share
// state with the registry.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*domain.TaskDescriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tasks: make(map[string]*domain.TaskDescriptor)}
}

// Register adds a descriptor.
// Returns an error if it is nil, has an empty name, or the name is taken.
func (r *Registry) Register(desc *domain.TaskDescriptor) error {
	if desc == nil {
		return fserrors.ErrTaskNil
	}
	if strings.TrimSpace(desc.Name) == "" {
		return fserrors.NewValidationError("name", "required", "", desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.tasks[desc.Name]; ok {
		return fmt.Errorf("%w: %s (declared in %s and %s)",
			fserrors.ErrTaskDuplicate, desc.Name, sourceOf(existing), sourceOf(desc))
	}
	r.tasks[desc.Name] = desc.Clone()
	return nil
}

// Get returns a copy of the named descriptor, or a ReferenceError wrapping
// ErrTaskNotFound.
func (r *Registry) Get(name string) (*domain.TaskDescriptor, error) {
	if name == "" {
		return nil, &fserrors.ReferenceError{Err: fserrors.ErrTaskNameMissing}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.tasks[name]
	if !ok {
		return nil, &fserrors.ReferenceError{TaskName: name, Err: fserrors.ErrTaskNotFound}
	}
	return desc.Clone(), nil
}

// Names returns registered task names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.tasks))
}

// List returns copies of all descriptors, sorted by name.
func (r *Registry) List() []*domain.TaskDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.TaskDescriptor, 0, len(r.tasks))
	for _, name := range slices.Sorted(maps.Keys(r.tasks)) {
		out = append(out, r.tasks[name].Clone())
	}
	return out
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tasks)
}

func sourceOf(desc *domain.TaskDescriptor) string {
	if desc.Source == "" {
		return "<memory>"
	}
	return desc.Source
}
