package datamigration

import (
	"fmt"
	"sync"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"go.uber.org/multierr"
)

// Registry is the ordered list of data migrations. It is filled once at
// initialization and sealed before the first pass; after that it is read-only.
// New migrations must be appended, never inserted.
type Registry struct {
	mu     sync.RWMutex
	units  []Unit
	names  map[string]struct{}
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// BuildRegistry registers units in order and seals the registry. All
// registration and validation problems are reported together.
func BuildRegistry(units ...Unit) (*Registry, error) {
	r := NewRegistry()
	var errs error
	for _, u := range units {
		errs = multierr.Append(errs, r.Register(u))
	}
	if errs != nil {
		return nil, errs
	}
	if err := r.Seal(); err != nil {
		return nil, err
	}
	return r, nil
}

// Register appends u. It fails on an empty name, a nil action, a name that is
// already registered, or a sealed registry.
func (r *Registry) Register(u Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return apperrors.NewValidationError(u.Name, apperrors.ErrMsgRegistrySealed)
	}
	if u.Name == "" {
		return apperrors.NewValidationError("name", apperrors.ErrMsgEmptyUnitName)
	}
	if u.Action == nil {
		return apperrors.NewValidationError(u.Name, apperrors.ErrMsgNilAction)
	}
	if _, ok := r.names[u.Name]; ok {
		return apperrors.NewValidationError(u.Name, apperrors.ErrMsgDuplicateUnit)
	}

	r.names[u.Name] = struct{}{}
	r.units = append(r.units, u)
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *Registry) MustRegister(u Unit) {
	if err := r.Register(u); err != nil {
		panic(err)
	}
}

// Seal ends the registration phase. It checks that repeatable indices are
// positive and strictly increasing in registration order: an index assigned
// out of order would be skipped silently once a later index advanced the
// gate past it. Sealing an already sealed registry re-runs the check.
func (r *Registry) Seal() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		errs error
		last int
		prev string
	)
	for _, u := range r.units {
		if !u.Gated() {
			continue
		}
		if u.RepeatableIndex < 0 {
			errs = multierr.Append(errs, apperrors.NewValidationError(u.Name, apperrors.ErrMsgGateIndexPositive))
			continue
		}
		if u.RepeatableIndex <= last {
			errs = multierr.Append(errs, apperrors.NewValidationError(u.Name,
				fmt.Sprintf("%s: index %d does not follow %d of %q", apperrors.ErrMsgGateIndexOrder, u.RepeatableIndex, last, prev)))
			continue
		}
		last, prev = u.RepeatableIndex, u.Name
	}
	if errs != nil {
		return errs
	}

	r.sealed = true
	return nil
}

// Sealed reports whether registration is closed.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Units returns the units in registration order.
func (r *Registry) Units() []Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Unit(nil), r.units...)
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
