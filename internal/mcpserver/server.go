package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/petasbytes/go-meshedit/internal/audit"
	"github.com/petasbytes/go-meshedit/internal/batch"
	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/fsops"
	"github.com/petasbytes/go-meshedit/internal/mesh"
	"github.com/petasbytes/go-meshedit/internal/metrics"
	"github.com/petasbytes/go-meshedit/internal/telemetry"
	"github.com/petasbytes/go-meshedit/internal/volume"
	"github.com/petasbytes/go-meshedit/tools"
)

const serverVersion = "0.1.0"

// Server serves one mesh to MCP clients.
type Server struct {
	mu        sync.Mutex
	editor    *mesh.Editor
	exec      *batch.Executor
	store     *audit.Store
	tolerance float64
	mcpServer *mcp.Server
}

type Option func(*Server)

// WithAudit records every batch report in store.
func WithAudit(store *audit.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithBoundsTolerance sets the tolerance inspect_mesh uses for within_bounds.
func WithBoundsTolerance(tol float64) Option {
	return func(s *Server) { s.tolerance = tol }
}

// New builds a server named name. editor must be the backend exec dispatches to.
func New(name string, editor *mesh.Editor, exec *batch.Executor, opts ...Option) *Server {
	s := &Server{editor: editor, exec: exec, tolerance: batch.DefaultBoundsTolerance}
	for _, o := range opts {
		o(s)
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: name, Version: serverVersion}, nil)
	s.register()
	return s
}

// MCP returns the underlying server, for custom transports.
func (s *Server) MCP() *mcp.Server { return s.mcpServer }

// Serve runs on stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Mesh returns a copy of the mesh being edited.
func (s *Server) Mesh() *mesh.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Mesh().Clone()
}

func (s *Server) register() {
	for _, def := range tools.Registry() {
		s.registerOperation(def)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "apply_volume_commands",
		Description: "Run a batch of volume commands in order. The whole batch is rejected if it does not match the contract; otherwise each command runs against the mesh left by the previous one.",
	}, s.applyBatch)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "inspect_mesh",
		Description: "Report vertex and face counts and world bounds, optionally resolving a volume without editing.",
	}, s.inspect)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meshes",
		Description: "List OBJ files under the read root.",
	}, s.list)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "load_mesh",
		Description: "Replace the edited mesh with an OBJ file from the read root.",
	}, s.load)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_mesh",
		Description: "Write the edited mesh as OBJ under the write root.",
	}, s.save)
}

func (s *Server) registerOperation(def tools.ToolDefinition) {
	tool := &mcp.Tool{Name: def.Name, Description: def.Description}
	switch def.Operation {
	case command.ExtrudeFaces:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.ExtrudeInput](s, def.Operation))
	case command.ScaleVertices:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.ScaleInput](s, def.Operation))
	case command.TransformVertices:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.TransformInput](s, def.Operation))
	case command.ApplyMaterial:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.MaterialInput](s, def.Operation))
	case command.DeformLattice:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.DeformInput](s, def.Operation))
	case command.SubdivideFaces:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.SubdivideInput](s, def.Operation))
	case command.InsetFaces:
		mcp.AddTool(s.mcpServer, tool, operationHandler[tools.InsetInput](s, def.Operation))
	}
}

// operationHandler runs one command as a single-entry batch, so it passes the
// same contract check as apply_volume_commands.
func operationHandler[In any](s *Server, op command.OperationKind) mcp.ToolHandlerFor[In, CommandOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, CommandOutput, error) {
		params, err := json.Marshal(in)
		if err != nil {
			return nil, CommandOutput{}, fmt.Errorf("encode parameters: %w", err)
		}
		doc := []byte(`{"tool_calls":[]}`)
		if doc, err = sjson.SetBytes(doc, "tool_calls.0.function_name", op.String()); err != nil {
			return nil, CommandOutput{}, err
		}
		if doc, err = sjson.SetRawBytes(doc, "tool_calls.0.parameters", params); err != nil {
			return nil, CommandOutput{}, err
		}
		r, err := s.run(ctx, doc)
		if err != nil {
			return nil, CommandOutput{}, err
		}
		out := commandOutput(r.Results[0])
		out.Warnings = r.Warnings
		if !out.Success {
			return errorResult(out.Message), out, nil
		}
		return nil, out, nil
	}
}

func (s *Server) applyBatch(ctx context.Context, _ *mcp.CallToolRequest, in BatchInput) (*mcp.CallToolResult, BatchOutput, error) {
	doc, err := json.Marshal(in)
	if err != nil {
		return nil, BatchOutput{}, fmt.Errorf("encode batch: %w", err)
	}
	r, err := s.run(ctx, doc)
	if err != nil {
		return nil, BatchOutput{}, err
	}
	return nil, batchOutput(r), nil
}

// run executes a JSON batch under the server lock and audits the report.
func (s *Server) run(ctx context.Context, doc []byte) (batch.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.exec.RunBytes(ctx, doc, command.FormatJSON, s.editor)
	if err != nil {
		return batch.Report{}, err
	}
	if s.store != nil {
		if err := s.store.Record(ctx, "mcp", r); err != nil {
			telemetry.Emit("audit_failed", map[string]any{"run_id": r.RunID, "error": err.Error()})
		}
	}
	return r, nil
}

func (s *Server) inspect(ctx context.Context, _ *mcp.CallToolRequest, in InspectInput) (*mcp.CallToolResult, MeshOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := metrics.Summarize(s.editor)
	telemetry.EmitMeshStats(ctx, "inspect", st)
	out := meshOutput("", st)
	if in.Volume == nil {
		return nil, out, nil
	}

	raw, err := json.Marshal(in.Volume)
	if err != nil {
		return nil, MeshOutput{}, fmt.Errorf("encode volume: %w", err)
	}
	d, err := command.ParseVolume(gjson.ParseBytes(raw))
	if err != nil {
		return nil, MeshOutput{}, err
	}
	verts, err := volume.SelectVertices(s.editor, d)
	if err != nil {
		return nil, MeshOutput{}, err
	}
	faces, err := volume.SelectFaces(s.editor, d)
	if err != nil {
		return nil, MeshOutput{}, err
	}
	out.Selection = &SelectionOutput{
		Vertices:     nonNil(verts),
		Faces:        nonNil(faces),
		WithinBounds: st.Empty() || volume.WithinBounds(d.Center, st.Min, st.Max, s.tolerance),
	}
	return nil, out, nil
}

func (s *Server) list(_ context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	dir := in.Dir
	if dir == "" {
		dir = "."
	}
	files, err := fsops.ListFiles(dir, ".obj")
	if err != nil {
		return nil, ListOutput{}, err
	}
	return nil, ListOutput{Files: nonNil(files)}, nil
}

func (s *Server) load(ctx context.Context, _ *mcp.CallToolRequest, in PathInput) (*mcp.CallToolResult, MeshOutput, error) {
	data, err := fsops.ReadFile(in.Path)
	if err != nil {
		return nil, MeshOutput{}, err
	}
	m, err := mesh.ReadOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, MeshOutput{}, fmt.Errorf("%s: %w", in.Path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Reset(m)
	st := metrics.Summarize(s.editor)
	telemetry.EmitMeshStats(ctx, "load", st)
	return nil, meshOutput(in.Path, st), nil
}

func (s *Server) save(ctx context.Context, _ *mcp.CallToolRequest, in PathInput) (*mcp.CallToolResult, MeshOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	if err := mesh.WriteOBJ(&buf, s.editor.Mesh()); err != nil {
		return nil, MeshOutput{}, err
	}
	if err := fsops.WriteFile(in.Path, buf.Bytes()); err != nil {
		return nil, MeshOutput{}, err
	}
	st := metrics.Summarize(s.editor)
	telemetry.EmitMeshStats(ctx, "save", st)
	return nil, meshOutput(in.Path, st), nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
