package datamigration

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutcomeKind classifies how a unit ended within a pass.
type OutcomeKind int

const (
	// OutcomeCompleted means the unit's transaction committed together with
	// its ledger record.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeSuppressed means the action failed under SuppressAndWarn. The
	// transaction rolled back and the unit stays pending.
	OutcomeSuppressed
	// OutcomeFatal means the pass stopped at this unit.
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the result of executing one unit.
type Outcome struct {
	Unit string
	Kind OutcomeKind
	// BodyRan is false when the gate reported the unit as already applied.
	BodyRan  bool
	Err      error
	Duration time.Duration
}

// PassReport summarizes one RunAll invocation.
type PassReport struct {
	RunID    string
	Skipped  []string
	Outcomes []Outcome
}

// Completed returns the names of units recorded during the pass.
func (p *PassReport) Completed() []string {
	return p.namesOf(OutcomeCompleted)
}

// Suppressed returns the names of units that failed and were left pending.
func (p *PassReport) Suppressed() []string {
	return p.namesOf(OutcomeSuppressed)
}

func (p *PassReport) namesOf(kind OutcomeKind) []string {
	var names []string
	for _, o := range p.Outcomes {
		if o.Kind == kind {
			names = append(names, o.Unit)
		}
	}
	return names
}

// UnitStatus describes one registered unit for status output.
type UnitStatus struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	RepeatableIndex int        `json:"repeatable_index,omitempty"`
	CatchPolicy     string     `json:"catch_policy"`
}

// Status is the ledger and gate state as seen by the registry.
type Status struct {
	Units []UnitStatus `json:"units"`
	// Unregistered lists ledger rows with no matching unit, typically
	// written by a newer release.
	Unregistered []MigrationRecord `json:"unregistered,omitempty"`
	GateIndex    *int              `json:"gate_index"`
}

// Runner executes registered units against a database.
type Runner struct {
	db       *gorm.DB
	registry *Registry
	ledger   *Ledger
	gate     *Gate
	logger   logger.Logger
	newRunID func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used for ledger timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.ledger.now = now
	}
}

// WithRunIDGenerator overrides how pass ids are generated.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		r.newRunID = fn
	}
}

// NewRunner creates a runner. The registry is sealed if it is not already.
func NewRunner(db *gorm.DB, registry *Registry, log logger.Logger, opts ...Option) (*Runner, error) {
	if !registry.Sealed() {
		if err := registry.Seal(); err != nil {
			return nil, err
		}
	}

	r := &Runner{
		db:       db,
		registry: registry,
		ledger:   NewLedger(db),
		gate:     NewGate(db),
		logger:   log,
		newRunID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Ledger returns the runner's completion ledger.
func (r *Runner) Ledger() *Ledger {
	return r.ledger
}

// Gate returns the runner's repeatable-migration gate.
func (r *Runner) Gate() *Gate {
	return r.gate
}

// RunAll executes every pending unit in registration order. It returns nil
// when the pass finished, even if some units were suppressed, and the first
// fatal error otherwise. Units after a fatal failure are not attempted.
func (r *Runner) RunAll(ctx context.Context) error {
	_, err := r.Run(ctx)
	return err
}

// Run is RunAll returning a report of the pass.
func (r *Runner) Run(ctx context.Context) (*PassReport, error) {
	report := &PassReport{RunID: r.newRunID()}
	log := r.logger.WithFields(map[string]interface{}{"run_id": report.RunID})

	completed, err := r.ledger.LoadCompletedNames(ctx)
	if err != nil {
		return report, log.LogError(err, "Failed to load data migration ledger")
	}

	units := r.registry.Units()
	var pending []Unit
	for _, u := range units {
		if _, done := completed[u.Name]; done {
			report.Skipped = append(report.Skipped, u.Name)
			continue
		}
		pending = append(pending, u)
	}

	if len(pending) == 0 {
		log.LogInfo("No pending data migrations", map[string]interface{}{
			"registered": len(units),
		})
		return report, nil
	}

	log.LogInfo("Bringing up data migrations", map[string]interface{}{
		"registered": len(units),
		"pending":    len(pending),
	})

	for _, u := range pending {
		outcome := r.execute(ctx, log, u)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Kind == OutcomeFatal {
			return report, outcome.Err
		}
	}

	log.LogInfo("Data migrations finished", map[string]interface{}{
		"completed":  len(report.Completed()),
		"suppressed": len(report.Suppressed()),
	})
	return report, nil
}

func (r *Runner) execute(ctx context.Context, log logger.Logger, u Unit) Outcome {
	log = log.WithFields(map[string]interface{}{"migration": u.Name})
	log.LogDebug("Running data migration", nil)

	start := time.Now()
	var (
		actionErr error
		gateErr   error
		bodyRan   bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bodyRan, actionErr, gateErr = r.invoke(ctx, tx, u)
		if actionErr != nil {
			return actionErr
		}
		if gateErr != nil {
			return gateErr
		}
		return r.ledger.MarkCompleted(ctx, tx, u.Name)
	})
	outcome := Outcome{Unit: u.Name, BodyRan: bodyRan, Duration: time.Since(start)}

	switch {
	case err == nil:
		outcome.Kind = OutcomeCompleted
		fields := map[string]interface{}{"duration": outcome.Duration.String()}
		if !bodyRan {
			fields["gate_index"] = u.RepeatableIndex
			log.LogInfo("Data migration already applied to this dataset; recorded without running", fields)
		} else {
			log.LogInfo("Data migration completed", fields)
		}
	case actionErr != nil && u.CatchPolicy == SuppressAndWarn:
		outcome.Kind = OutcomeSuppressed
		outcome.Err = actionErr
		log.LogWarn("Data migration failed; continuing startup", map[string]interface{}{
			"error": actionErr.Error(),
		})
	case actionErr != nil:
		outcome.Kind = OutcomeFatal
		outcome.Err = apperrors.NewMigrationFailedError(u.Name, actionErr)
		log.LogError(outcome.Err, "Data migration failed")
	case gateErr != nil:
		outcome.Kind = OutcomeFatal
		outcome.Err = apperrors.NewMigrationFailedError(u.Name, gateErr)
		log.LogError(outcome.Err, "Failed to read or advance data migration gate")
	default:
		// The action succeeded but recording it or committing did not.
		outcome.Kind = OutcomeFatal
		outcome.Err = apperrors.NewMigrationFailedError(u.Name, err)
		log.LogError(outcome.Err, "Failed to record data migration")
	}
	return outcome
}

// invoke runs the unit's action, behind the gate when the unit is gated.
// Errors from the action, panics included, come back as actionErr and are
// subject to the catch policy. Gate reads and writes fail as gateErr, which
// is always fatal.
func (r *Runner) invoke(ctx context.Context, tx *gorm.DB, u Unit) (ran bool, actionErr, gateErr error) {
	defer func() {
		if p := recover(); p != nil {
			ran = true
			actionErr = fmt.Errorf("panic: %v", p)
		}
	}()

	if !u.Gated() {
		return true, u.Action(ctx, tx), nil
	}
	ran, err := r.gate.RunWithIndex(ctx, tx, u.RepeatableIndex, func() error {
		actionErr = u.Action(ctx, tx)
		return actionErr
	})
	if actionErr != nil {
		return ran, actionErr, nil
	}
	return ran, nil, err
}

// Status reports every registered unit against the ledger, plus the gate.
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	records, err := r.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]MigrationRecord, len(records))
	for _, rec := range records {
		byName[rec.ID] = rec
	}

	status := &Status{}
	for _, u := range r.registry.Units() {
		us := UnitStatus{
			Name:            u.Name,
			Description:     u.Description,
			RepeatableIndex: u.RepeatableIndex,
			CatchPolicy:     u.CatchPolicy.String(),
		}
		if rec, ok := byName[u.Name]; ok {
			ts := rec.Timestamp
			us.Completed = true
			us.CompletedAt = &ts
			delete(byName, u.Name)
		}
		status.Units = append(status.Units, us)
	}
	for _, rec := range records {
		if _, ok := byName[rec.ID]; ok {
			status.Unregistered = append(status.Unregistered, rec)
		}
	}

	index, ok, err := r.gate.Current(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		status.GateIndex = &index
	}
	return status, nil
}
