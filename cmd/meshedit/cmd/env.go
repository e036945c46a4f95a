package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/petasbytes/go-meshedit/internal/audit"
	"github.com/petasbytes/go-meshedit/internal/batch"
	"github.com/petasbytes/go-meshedit/internal/config"
	"github.com/petasbytes/go-meshedit/internal/dispatch"
	"github.com/petasbytes/go-meshedit/internal/fsops"
	"github.com/petasbytes/go-meshedit/internal/mesh"
	"github.com/petasbytes/go-meshedit/internal/schema"
)

// env carries what every subcommand needs.
type env struct {
	cfg    config.Config
	out    io.Writer
	errOut io.Writer
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}, nil
}

func (e *env) warnf(format string, args ...any) {
	fmt.Fprintf(e.errOut, "warning: "+format+"\n", args...)
}

// validator loads the configured contract, warning when none is found.
func (e *env) validator() (*schema.Validator, error) {
	v, err := schema.Load(e.cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	if !v.Enabled() {
		e.warnf("no schema loaded, skipping validation")
	}
	return v, nil
}

// engine wires an editor on m into an executor.
func (e *env) engine(m *mesh.Mesh) (*mesh.Editor, *batch.Executor, error) {
	v, err := e.validator()
	if err != nil {
		return nil, nil, err
	}
	ed := mesh.NewEditor(m)
	ex := batch.New(dispatch.New(ed), v,
		batch.WithBoundsTolerance(e.cfg.BoundsTolerance),
		batch.WithTracer(otel.Tracer("github.com/petasbytes/go-meshedit/cmd")),
	)
	return ed, ex, nil
}

// auditStore opens the audit DB if one is configured. Failure to open is a
// warning: auditing never blocks an edit.
func (e *env) auditStore() *audit.Store {
	if e.cfg.AuditDB == "" {
		return nil
	}
	s, err := audit.Open(e.cfg.AuditDB)
	if err != nil {
		e.warnf("audit disabled: %v", err)
		return nil
	}
	return s
}

func readMesh(path string) (*mesh.Mesh, error) {
	data, err := fsops.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := mesh.ReadOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func writeMesh(path string, m *mesh.Mesh) error {
	var buf bytes.Buffer
	if err := mesh.WriteOBJ(&buf, m); err != nil {
		return err
	}
	return fsops.WriteFile(path, buf.Bytes())
}
