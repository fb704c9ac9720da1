package editor

import (
	"context"
	"fmt"
	"path"

	"github.com/anvilkit/anvil/internal/oplog"
)

// MoveStep is one file rename inside a capability move.
type MoveStep struct {
	From string
	To   string
}

// FailedStep is a step that did not complete, with its cause.
type FailedStep struct {
	MoveStep
	Err error
}

// MovePlan is the full set of renames for moving a capability and its child
// enabler files into another directory. The capability file always moves
// first; child moves are best-effort.
type MovePlan struct {
	Capability MoveStep
	Enablers   []MoveStep
}

// MoveReport records what a move actually did. The operation is not
// transactional: child failures are collected here rather than rolled back,
// and Retry can re-run just the failed steps.
type MoveReport struct {
	CapabilityPath string
	Completed      []MoveStep
	Failed         []FailedStep
}

// PartiallyFailed reports whether any child move failed.
func (r *MoveReport) PartiallyFailed() bool {
	return len(r.Failed) > 0
}

// Mover executes capability moves against the server, journaling each step.
type Mover struct {
	Store   Store
	Journal *oplog.Journal
}

// Plan resolves the child enabler files of the capability with the given id
// and lays out one rename per file into targetDir. capPath is the
// capability file's current location.
func (m *Mover) Plan(ctx context.Context, capPath, capabilityID, targetDir string) (*MovePlan, error) {
	plan := &MovePlan{
		Capability: MoveStep{From: capPath, To: path.Join(targetDir, path.Base(capPath))},
	}

	caps, err := m.Store.ListCapabilitiesWithDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving child enablers: %w", err)
	}
	for _, c := range caps {
		if c.ID != capabilityID {
			continue
		}
		for _, e := range c.Enablers {
			if e.Path == "" {
				continue
			}
			plan.Enablers = append(plan.Enablers, MoveStep{
				From: e.Path,
				To:   path.Join(targetDir, path.Base(e.Path)),
			})
		}
		return plan, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCapabilityNotFound, capabilityID)
}

// Execute runs the plan. A failed capability rename aborts the whole move;
// a failed child rename is journaled, kept in the report, and skipped —
// the remaining children still move.
func (m *Mover) Execute(ctx context.Context, plan *MovePlan) (*MoveReport, error) {
	if err := m.Store.RenameFile(ctx, plan.Capability.From, plan.Capability.To); err != nil {
		return nil, err
	}
	report := &MoveReport{
		CapabilityPath: plan.Capability.To,
		Completed:      []MoveStep{plan.Capability},
	}
	m.journalStep(plan.Capability, nil)

	for _, step := range plan.Enablers {
		if err := m.Store.RenameFile(ctx, step.From, step.To); err != nil {
			report.Failed = append(report.Failed, FailedStep{MoveStep: step, Err: err})
			m.journalStep(step, err)
			continue
		}
		report.Completed = append(report.Completed, step)
		m.journalStep(step, nil)
	}

	m.Journal.Record(oplog.Event{
		Kind: oplog.KindMoveDone,
		Path: report.CapabilityPath,
		Data: map[string]int{"completed": len(report.Completed), "failed": len(report.Failed)},
	})
	return report, nil
}

// Retry re-runs only the failed steps of a previous report, returning an
// updated report.
func (m *Mover) Retry(ctx context.Context, prev *MoveReport) *MoveReport {
	report := &MoveReport{
		CapabilityPath: prev.CapabilityPath,
		Completed:      append([]MoveStep(nil), prev.Completed...),
	}
	for _, failed := range prev.Failed {
		if err := m.Store.RenameFile(ctx, failed.From, failed.To); err != nil {
			report.Failed = append(report.Failed, FailedStep{MoveStep: failed.MoveStep, Err: err})
			m.journalStep(failed.MoveStep, err)
			continue
		}
		report.Completed = append(report.Completed, failed.MoveStep)
		m.journalStep(failed.MoveStep, nil)
	}
	return report
}

func (m *Mover) journalStep(step MoveStep, err error) {
	data := map[string]string{"to": step.To}
	if err != nil {
		data["error"] = err.Error()
	}
	m.Journal.Record(oplog.Event{Kind: oplog.KindMoveStep, Path: step.From, Data: data})
}
