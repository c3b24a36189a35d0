// Package eval turns a manifest into an execution plan, running the
// compatibility gate first. The gate decides; this package carries out the
// halt by refusing to plan.
package eval

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/homestead/internal/compat"
	"github.com/zjrosen/homestead/internal/config"
	"github.com/zjrosen/homestead/internal/flags"
	"github.com/zjrosen/homestead/internal/log"
)

// IncompatibleError carries a blocked gate result across the evaluator
// boundary. The caller translates it into process termination; nothing below
// this point performs I/O or exits.
type IncompatibleError struct {
	Result compat.Result
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("manifest blocked by %d incompatible change(s)", len(e.Result.Incompatible))
}

// Action is one planned step for a managed service.
type Action struct {
	Service string `json:"service"`
	DataDir string `json:"data_dir"`
}

// Plan is the ordered set of actions one evaluation produced.
type Plan struct {
	RunID   string   `json:"run_id"`
	Actions []Action `json:"actions"`
}

// Evaluator evaluates manifests into plans.
type Evaluator struct {
	flags  *flags.Registry
	tracer trace.Tracer
}

// New creates an Evaluator. flags and tracer may be nil/no-op.
func New(fl *flags.Registry, tracer trace.Tracer) *Evaluator {
	return &Evaluator{flags: fl, tracer: tracer}
}

// Evaluate runs the compatibility gate for cfg and, when it passes, builds
// the service plan. A blocked gate surfaces as *IncompatibleError; defects in
// the change catalog or the pinned version surface as ordinary errors.
//
// The gate runs before manifest validation on purpose: a manifest that is
// both outdated and invalid should get the migration notice, which usually
// explains why validation would now fail.
func (e *Evaluator) Evaluate(ctx context.Context, cfg config.Config, snap config.Snapshot) (Plan, error) {
	ctx, span := e.tracer.Start(ctx, "eval.run")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("compat.declared", snap.CompatVersion()),
	)
	log.Info(log.CatEval, "evaluation started", "run_id", runID)

	if err := e.checkCompat(ctx, snap, span); err != nil {
		return Plan{}, err
	}

	if err := cfg.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid manifest")
		return Plan{}, fmt.Errorf("invalid manifest: %w", err)
	}

	plan := e.buildPlan(ctx, runID, snap)
	span.SetAttributes(attribute.Int("plan.actions", len(plan.Actions)))
	log.Info(log.CatEval, "evaluation finished", "run_id", runID, "actions", len(plan.Actions))
	return plan, nil
}

func (e *Evaluator) checkCompat(ctx context.Context, snap config.Snapshot, parent trace.Span) error {
	_, span := e.tracer.Start(ctx, "eval.compat_gate")
	defer span.End()

	reg, err := compat.NewCatalog(snap)
	if err != nil {
		span.SetStatus(codes.Error, "defective change catalog")
		return fmt.Errorf("building change catalog: %w", err)
	}

	res, err := compat.Check(snap.CompatVersion(), reg, snap)
	if err != nil {
		span.SetStatus(codes.Error, "gate check failed")
		return err
	}
	if !res.OK {
		span.SetAttributes(attribute.Int("compat.blocking", len(res.Incompatible)))
		parent.SetStatus(codes.Error, "incompatible manifest")
		return &IncompatibleError{Result: res}
	}
	return nil
}

// buildPlan emits one action per enabled service, in name order so repeated
// evaluations of the same manifest produce identical plans.
func (e *Evaluator) buildPlan(ctx context.Context, runID string, snap config.Snapshot) Plan {
	_, span := e.tracer.Start(ctx, "eval.build_plan")
	defer span.End()

	names := snap.ServiceNames()
	sort.Strings(names)

	actions := make([]Action, 0, len(names))
	for _, name := range names {
		if !snap.ServiceEnabled(name) {
			continue
		}
		action := Action{Service: name, DataDir: snap.ServiceDataDir(name)}
		actions = append(actions, action)
		if e.flags.Enabled(flags.FlagVerbosePlan) {
			log.Info(log.CatEval, "planned action", "run_id", runID, "service", action.Service, "data_dir", action.DataDir)
		}
	}
	return Plan{RunID: runID, Actions: actions}
}
