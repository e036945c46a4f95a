// Package batch runs validated command batches in order against one mesh and
// aggregates the per-command results into a Report.
package batch

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/dispatch"
	"github.com/petasbytes/go-meshedit/internal/metrics"
	"github.com/petasbytes/go-meshedit/internal/schema"
	"github.com/petasbytes/go-meshedit/internal/telemetry"
	"github.com/petasbytes/go-meshedit/internal/volume"
)

const tracerName = "github.com/petasbytes/go-meshedit/batch"

// DefaultBoundsTolerance is how far a volume center may sit outside the mesh
// bounds before a warning is added to the report.
const DefaultBoundsTolerance = 10.0

// Executor gates batches through a schema validator and runs them through a
// dispatcher. It is not safe for concurrent use on the same mesh.
type Executor struct {
	dispatcher *dispatch.Dispatcher
	validator  *schema.Validator
	tracer     trace.Tracer
	tolerance  float64
}

// Option configures an Executor.
type Option func(*Executor)

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// WithBoundsTolerance sets the tolerance for the out-of-bounds warning.
// A negative tolerance disables the check.
func WithBoundsTolerance(tol float64) Option {
	return func(e *Executor) { e.tolerance = tol }
}

// New builds an Executor. A nil validator passes every document through.
func New(d *dispatch.Dispatcher, v *schema.Validator, opts ...Option) *Executor {
	if v == nil {
		v = &schema.Validator{}
	}
	e := &Executor{
		dispatcher: d,
		validator:  v,
		tracer:     otel.Tracer(tracerName),
		tolerance:  DefaultBoundsTolerance,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RunBytes decodes and validates data, then runs it. A schema failure is
// returned as a *schema.Error with an empty Report.
func (e *Executor) RunBytes(ctx context.Context, data []byte, f command.Format, src volume.Source) (Report, error) {
	doc, err := command.DecodeDocument(data, f)
	if err != nil {
		return e.reject(ctx, &schema.Error{Cause: err})
	}
	return e.RunDocument(ctx, doc, src)
}

// RunDocument validates a decoded batch document, then runs it.
func (e *Executor) RunDocument(ctx context.Context, doc any, src volume.Source) (Report, error) {
	vb, err := e.validator.Validate(doc)
	if err != nil {
		return e.reject(ctx, err)
	}
	return e.Run(ctx, vb, src), nil
}

func (e *Executor) reject(ctx context.Context, err error) (Report, error) {
	runID, _ := telemetry.RunIDFromContext(ctx)
	telemetry.Emit("schema_rejected", map[string]any{
		"run_id": runID,
		"error":  err.Error(),
	})
	return Report{RunID: runID}, err
}

// Run executes every call of vb in order. Each call is resolved against the
// mesh state left by the calls before it. A failed call never stops the batch.
func (e *Executor) Run(ctx context.Context, vb schema.ValidatedBatch, src volume.Source) Report {
	ctx, runID := telemetry.EnsureRunID(ctx)
	calls := vb.Calls()
	telemetry.Emit("batch_validated", map[string]any{
		"run_id":   runID,
		"commands": len(calls),
		"schema":   e.validator.Enabled(),
	})

	ctx, span := e.tracer.Start(ctx, "meshedit.batch", trace.WithAttributes(
		attribute.String("meshedit.run_id", runID),
		attribute.Int("meshedit.commands", len(calls)),
	))
	defer span.End()

	warnings := e.boundsWarnings(calls, src)
	results := make([]dispatch.ExecutionResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, e.runOne(ctx, call, src))
	}

	r := newReport(runID, results)
	r.Warnings = warnings
	span.SetAttributes(
		attribute.Int("meshedit.succeeded", r.Succeeded),
		attribute.Int("meshedit.failed", r.Failed),
	)
	if r.Failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d commands failed", r.Failed, r.Total))
	}

	telemetry.Emit("batch_complete", map[string]any{
		"run_id":       runID,
		"total":        r.Total,
		"successful":   r.Succeeded,
		"failed":       r.Failed,
		"success_rate": r.SuccessRate(),
	})
	if telemetry.PersistReportsEnabled() {
		if doc, err := r.JSON(); err == nil {
			telemetry.PersistReport(runID, doc)
		}
	}
	return r
}

func (e *Executor) runOne(ctx context.Context, call command.Call, src volume.Source) dispatch.ExecutionResult {
	ctx, span := e.tracer.Start(ctx, "meshedit.command", trace.WithAttributes(
		attribute.String("meshedit.operation", call.FunctionName),
	))
	defer span.End()

	var res dispatch.ExecutionResult
	cmd, err := command.Parse(call)
	if err == nil {
		span.SetAttributes(attribute.String("meshedit.volume.kind", cmd.Volume.Kind.String()))
		res = e.dispatcher.Dispatch(ctx, cmd, src)
	} else {
		res = e.dispatcher.DispatchCall(ctx, call, src)
	}

	span.SetAttributes(
		attribute.Bool("meshedit.success", res.Success),
		attribute.Int("meshedit.affected", len(res.AffectedElements)),
	)
	if !res.Success {
		span.SetStatus(codes.Error, res.Message)
	}
	return res
}

// boundsWarnings flags calls whose volume center lies far outside the mesh.
func (e *Executor) boundsWarnings(calls []command.Call, src volume.Source) []string {
	if e.tolerance < 0 {
		return nil
	}
	st := metrics.Summarize(src)
	if st.Empty() {
		return nil
	}
	var out []string
	for i, call := range calls {
		cmd, err := command.Parse(call)
		if err != nil {
			continue
		}
		c := cmd.Volume.Center
		if !volume.WithinBounds(c, st.Min, st.Max, e.tolerance) {
			out = append(out, fmt.Sprintf("command %d: volume center %s is outside mesh bounds %s..%s",
				i+1, command.FormatVec3(c), command.FormatVec3(st.Min), command.FormatVec3(st.Max)))
		}
	}
	return out
}
