// Package dispatch maps a typed Command to its handler: it resolves the
// command's volume against the current mesh state, forwards the selection to a
// Backend, and turns every outcome into an ExecutionResult.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/telemetry"
	"github.com/petasbytes/go-meshedit/internal/volume"
)

// Backend performs the geometric mutation for each operation. Selections are
// indices into the element space the operation works in.
type Backend interface {
	ExtrudeFaces(faces []int, p command.ExtrudeParams) error
	// ScaleVertices scales about pivot, the volume center.
	ScaleVertices(verts []int, p command.ScaleParams, pivot volume.Vec3) error
	TransformVertices(verts []int, p command.TransformParams) error
	ApplyMaterial(faces []int, p command.MaterialParams) error
	// DeformLattice applies the lattice matrix about center, the volume center.
	DeformLattice(verts []int, p command.DeformParams, center volume.Vec3) error
	SubdivideFaces(faces []int, p command.SubdivideParams) error
	InsetFaces(faces []int, p command.InsetParams) error
}

// ExecutionResult is the outcome of one command. AffectedElements is nil on failure.
type ExecutionResult struct {
	Success          bool
	Message          string
	AffectedElements []int
}

// BackendError wraps a failure raised by the Backend while mutating the mesh.
type BackendError struct {
	Operation command.OperationKind
	Err       error
}

func (e *BackendError) Error() string { return e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }

// Dispatcher runs commands against a Backend. It holds no mesh state of its own;
// selection is recomputed from the source on every call.
type Dispatcher struct {
	backend Backend
}

// New returns a Dispatcher forwarding to b.
func New(b Backend) *Dispatcher {
	return &Dispatcher{backend: b}
}

// DispatchCall parses a wire call and dispatches it. Parse failures are
// reported as failed results, never returned.
func (d *Dispatcher) DispatchCall(ctx context.Context, call command.Call, src volume.Source) ExecutionResult {
	cmd, err := command.Parse(call)
	if err != nil {
		var unknown *command.UnknownOperationError
		if errors.As(err, &unknown) {
			res := ExecutionResult{Success: false, Message: unknown.Error()}
			emit(ctx, call.FunctionName, "", res, 0)
			return res
		}
		res := failure(call.FunctionName, err)
		emit(ctx, call.FunctionName, "", res, 0)
		return res
	}
	return d.Dispatch(ctx, cmd, src)
}

// Dispatch resolves cmd.Volume in the operation's element space and forwards
// the selection to the backend.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command, src volume.Source) ExecutionResult {
	start := time.Now()
	res := d.dispatch(cmd, src)
	emit(ctx, cmd.Operation.String(), cmd.Volume.Kind.String(), res, time.Since(start))
	return res
}

func (d *Dispatcher) dispatch(cmd command.Command, src volume.Source) ExecutionResult {
	op := cmd.Operation
	if !op.Valid() {
		return ExecutionResult{Success: false, Message: (&command.UnknownOperationError{Name: op.String()}).Error()}
	}
	if cmd.Params == nil || cmd.Params.Operation() != op {
		return failure(op.String(), fmt.Errorf("parameters %T do not match %s", cmd.Params, op))
	}
	sel, err := volume.SelectIn(src, op.Space(), cmd.Volume)
	if err != nil {
		return failure(op.String(), err)
	}
	if err := d.forward(cmd, sel); err != nil {
		return failure(op.String(), &BackendError{Operation: op, Err: err})
	}
	affected := make([]int, len(sel))
	copy(affected, sel)
	return ExecutionResult{
		Success:          true,
		Message:          Describe(cmd),
		AffectedElements: affected,
	}
}

func (d *Dispatcher) forward(cmd command.Command, sel []int) (err error) {
	// A panicking backend is a failed command, not a failed batch.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()

	center := cmd.Volume.Center
	switch p := cmd.Params.(type) {
	case command.ExtrudeParams:
		return d.backend.ExtrudeFaces(sel, p)
	case command.ScaleParams:
		return d.backend.ScaleVertices(sel, p, center)
	case command.TransformParams:
		return d.backend.TransformVertices(sel, p)
	case command.MaterialParams:
		return d.backend.ApplyMaterial(sel, p)
	case command.DeformParams:
		return d.backend.DeformLattice(sel, p, center)
	case command.SubdivideParams:
		return d.backend.SubdivideFaces(sel, p)
	case command.InsetParams:
		return d.backend.InsetFaces(sel, p)
	}
	return &command.UnknownOperationError{Name: cmd.Operation.String()}
}

// Describe renders the success message for cmd. It names the volume kind and
// center, plus the operation's defining parameter.
func Describe(cmd command.Command) string {
	kind := cmd.Volume.Kind.String()
	at := command.FormatVec3(cmd.Volume.Center)
	switch p := cmd.Params.(type) {
	case command.ExtrudeParams:
		return fmt.Sprintf("Extruded faces in %s volume at %s by vector %s", kind, at, command.FormatVec3(p.Vector))
	case command.ScaleParams:
		return fmt.Sprintf("Scaled vertices in %s volume at %s by factor %g", kind, at, p.Factor)
	case command.TransformParams:
		return fmt.Sprintf("Applied transformation %s to vertices in %s volume at %s", command.FormatMatrix(p.Matrix[:], 4), kind, at)
	case command.MaterialParams:
		return fmt.Sprintf("Applied material '%s' to %s volume at %s", p.Name, kind, at)
	case command.DeformParams:
		return fmt.Sprintf("Applied lattice deformation %s to %s volume at %s", command.FormatMatrix(p.Matrix[:], 3), kind, at)
	case command.SubdivideParams:
		return fmt.Sprintf("Subdivided faces in %s volume at %s (level %d)", kind, at, p.Level)
	case command.InsetParams:
		return fmt.Sprintf("Inset faces in %s volume at %s (depth %g)", kind, at, p.Depth)
	}
	return fmt.Sprintf("%s in %s volume at %s", cmd.Operation, kind, at)
}

func failure(op string, err error) ExecutionResult {
	return ExecutionResult{
		Success: false,
		Message: fmt.Sprintf("Error executing %s: %v", op, err),
	}
}

func emit(ctx context.Context, op, kind string, res ExecutionResult, dur time.Duration) {
	runID, _ := telemetry.RunIDFromContext(ctx)
	telemetry.Emit("command_exec", map[string]any{
		"run_id":      runID,
		"operation":   op,
		"volume_kind": kind,
		"success":     res.Success,
		"affected":    len(res.AffectedElements),
		"duration_ms": dur.Milliseconds(),
	})
}
