package compat

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zjrosen/homestead/internal/version"
)

// ErrEmptyRegistry reports a change registry with zero entries. Homestead
// never ships without changes, so this signals a packaging defect rather than
// a user error.
var ErrEmptyRegistry = errors.New("change registry has no entries")

// UnsortedRegistryError reports adjacent registry entries whose versions
// decrease. Registration order is the declared source order; authors must
// keep it non-decreasing.
type UnsortedRegistryError struct {
	Index int
	Prev  string
	Next  string
}

func (e *UnsortedRegistryError) Error() string {
	return fmt.Sprintf("change registry out of order at entry %d: %s follows %s", e.Index, e.Next, e.Prev)
}

// Registry is an ordered, immutable catalog of breaking changes. The ordering
// invariant (non-decreasing versions) is checked at construction, so the last
// entry always carries the highest version known to this build.
type Registry struct {
	changes []Change
}

// NewRegistry builds a registry from changes in declared order and validates
// it. Returns ErrEmptyRegistry, an *UnsortedRegistryError, or a
// *version.MalformedError when the catalog itself is defective.
func NewRegistry(changes []Change) (*Registry, error) {
	r := &Registry{changes: slices.Clone(changes)}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// All returns the changes in registration order.
func (r *Registry) All() []Change {
	return slices.Clone(r.changes)
}

// Len returns the number of registered changes.
func (r *Registry) Len() int {
	return len(r.changes)
}

// LatestVersion returns the version of the last registered change, the
// highest version known to this build.
func (r *Registry) LatestVersion() (string, error) {
	if len(r.changes) == 0 {
		return "", ErrEmptyRegistry
	}
	return r.changes[len(r.changes)-1].Version, nil
}

// Validate asserts the registry invariants: at least one entry, every version
// parseable, and versions non-decreasing in registration order.
func (r *Registry) Validate() error {
	if len(r.changes) == 0 {
		return ErrEmptyRegistry
	}
	for i, c := range r.changes {
		// Self-comparison forces a parse of every entry, including a
		// single-entry registry with no adjacent pair.
		if _, err := version.Compare(c.Version, c.Version); err != nil {
			return fmt.Errorf("change registry entry %d: %w", i, err)
		}
	}
	for i := 1; i < len(r.changes); i++ {
		prev, next := r.changes[i-1].Version, r.changes[i].Version
		cmp, err := version.Compare(prev, next)
		if err != nil {
			return fmt.Errorf("change registry entry %d: %w", i, err)
		}
		if cmp > 0 {
			return &UnsortedRegistryError{Index: i, Prev: prev, Next: next}
		}
	}
	return nil
}
