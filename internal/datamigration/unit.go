// Package datamigration runs one-time transformations of persisted data at
// startup. Each named unit runs at most once per store, inside its own
// transaction, and is recorded in the data_migrations ledger in that same
// transaction. Units that carry a repeatable index are additionally gated by
// the data-migration-index setting so they stay applied when a dataset from
// another deployment is imported without its ledger.
package datamigration

import (
	"context"

	"gorm.io/gorm"
)

// Action performs a unit's work. Every read and write must go through tx.
type Action func(ctx context.Context, tx *gorm.DB) error

// CatchPolicy decides what a failed action does to the pass.
type CatchPolicy int

const (
	// Propagate aborts the pass and fails startup.
	Propagate CatchPolicy = iota
	// SuppressAndWarn logs a warning, leaves the unit unrecorded and lets the
	// pass continue. The unit is retried on the next startup.
	SuppressAndWarn
)

func (p CatchPolicy) String() string {
	switch p {
	case Propagate:
		return "propagate"
	case SuppressAndWarn:
		return "suppress-and-warn"
	default:
		return "unknown"
	}
}

// Unit is one registered data migration.
type Unit struct {
	Name        string
	Description string
	Action      Action
	CatchPolicy CatchPolicy
	// RepeatableIndex, when positive, gates the action behind the
	// data-migration-index setting. Zero means not gated.
	RepeatableIndex int
}

// Gated reports whether the unit runs behind the repeatable-migration gate.
func (u Unit) Gated() bool {
	return u.RepeatableIndex != 0
}

// UnitOption configures a Unit built by NewUnit.
type UnitOption func(*Unit)

// WithCatchPolicy sets the unit's catch policy. The default is Propagate.
func WithCatchPolicy(p CatchPolicy) UnitOption {
	return func(u *Unit) {
		u.CatchPolicy = p
	}
}

// WithRepeatableIndex gates the unit behind the given index. Index 0
// disables gating; negative indices are rejected when the registry is
// sealed. Indices must increase in registration order.
func WithRepeatableIndex(index int) UnitOption {
	return func(u *Unit) {
		u.RepeatableIndex = index
	}
}

// WithDescription attaches a human readable description used in status output.
func WithDescription(description string) UnitOption {
	return func(u *Unit) {
		u.Description = description
	}
}

// NewUnit builds a unit.
func NewUnit(name string, action Action, opts ...UnitOption) Unit {
	u := Unit{
		Name:        name,
		Action:      action,
		CatchPolicy: Propagate,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}
