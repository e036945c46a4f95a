package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/petasbytes/go-meshedit/cmd/meshedit/cmd"
	"github.com/petasbytes/go-meshedit/internal/mesh"
	"github.com/petasbytes/go-meshedit/internal/schema"
	"github.com/petasbytes/go-meshedit/internal/volume"
)

var sandbox string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "meshedit-cli-")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("MESHEDIT_READ_ROOT", dir)
	_ = os.Setenv("MESHEDIT_WRITE_ROOT", dir)
	sandbox = dir

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const twoCalls = `tool_calls:
  - function_name: extrude_faces_in_volume
    parameters:
      volume_identifier: {type: box, center_xyz: [0, 0, 1], dimensions_xyz: [3, 3, 0.5]}
      extrude_vector: [0, 0, 2]
  - function_name: apply_material_to_volume
    parameters:
      volume_identifier: {type: sphere, center_xyz: [0, 0, 3], radius: 0.5}
      material_name: Glass
`

// workspace seeds a cube and a batch under a per-test directory and points
// MESHEDIT_SCHEMA_PATH at a copy of the built-in contract.
func workspace(t *testing.T) string {
	t.Helper()
	rel := t.Name()
	dir := filepath.Join(sandbox, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	if err := mesh.WriteOBJ(&buf, mesh.Cube(volume.Vec3{}, 2)); err != nil {
		t.Fatalf("write obj: %v", err)
	}
	write(t, filepath.Join(dir, "cube.obj"), buf.String())
	write(t, filepath.Join(dir, "calls.yaml"), twoCalls)

	schemaPath := filepath.Join(t.TempDir(), "contract.json")
	write(t, schemaPath, string(schema.Contract()))
	t.Setenv("MESHEDIT_SCHEMA_PATH", schemaPath)
	t.Setenv("MESHEDIT_AUDIT_DB", "")
	return rel
}

func write(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_PrintsReportAndWritesMesh(t *testing.T) {
	ws := workspace(t)
	out, stderr, err := execute(t, "run",
		"--mesh", filepath.Join(ws, "cube.obj"),
		"--batch", filepath.Join(ws, "calls.yaml"),
		"--out", filepath.Join(ws, "out.obj"))
	if err != nil {
		t.Fatalf("run: %v (stderr %q)", err, stderr)
	}
	for _, want := range []string{
		"Total Operations: 2",
		"Success Rate: 100.0%",
		"1. ✓ SUCCESS: Extruded faces in box volume at [0, 0, 1]",
		"2. ✓ SUCCESS: Applied material 'Glass'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(filepath.Join(sandbox, ws, "out.obj"))
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	m, err := mesh.ReadOBJ(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse out: %v", err)
	}
	if len(m.Vertices) != 12 || len(m.Faces) != 10 || m.Faces[1].Material != "Glass" {
		t.Fatalf("edited mesh: %d verts, %d faces, top material %q", len(m.Vertices), len(m.Faces), m.Faces[1].Material)
	}
}

func TestRun_JSONReport(t *testing.T) {
	ws := workspace(t)
	out, _, err := execute(t, "run", "--json",
		"--mesh", filepath.Join(ws, "cube.obj"),
		"--batch", filepath.Join(ws, "calls.yaml"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	doc := gjson.Parse(out)
	if doc.Get("total").Int() != 2 || doc.Get("successful").Int() != 2 || doc.Get("run_id").String() == "" {
		t.Fatalf("json report: %s", out)
	}
}

func TestRun_RejectedBatchLeavesNoOutput(t *testing.T) {
	ws := workspace(t)
	write(t, filepath.Join(sandbox, ws, "bad.json"),
		`{"tool_calls":[{"function_name":"inset_faces_in_volume","parameters":{"volume_identifier":{"type":"box"}}}]}`)

	_, _, err := execute(t, "run",
		"--mesh", filepath.Join(ws, "cube.obj"),
		"--batch", filepath.Join(ws, "bad.json"),
		"--out", filepath.Join(ws, "out.obj"))
	if err == nil || !strings.Contains(err.Error(), "Schema validation failed") {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(sandbox, ws, "out.obj")); !os.IsNotExist(err) {
		t.Fatalf("output mesh should not be written, stat err = %v", err)
	}
}

func TestRun_MissingSchemaWarns(t *testing.T) {
	ws := workspace(t)
	t.Setenv("MESHEDIT_SCHEMA_PATH", filepath.Join(t.TempDir(), "absent.json"))
	_, stderr, err := execute(t, "run",
		"--mesh", filepath.Join(ws, "cube.obj"),
		"--batch", filepath.Join(ws, "calls.yaml"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stderr, "warning: no schema loaded, skipping validation") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRun_OutsideSandbox(t *testing.T) {
	workspace(t)
	_, _, err := execute(t, "run", "--mesh", "../cube.obj", "--batch", "calls.yaml")
	if err == nil {
		t.Fatal("expected sandbox error")
	}
}

func TestValidate(t *testing.T) {
	ws := workspace(t)
	out, _, err := execute(t, "validate", "--batch", filepath.Join(ws, "calls.yaml"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok: 2 commands") {
		t.Fatalf("output = %q", out)
	}

	write(t, filepath.Join(sandbox, ws, "bad.yaml"), "tool_calls:\n  - function_name: melt_faces\n    parameters: {}\n")
	if _, _, err := execute(t, "validate", "--batch", filepath.Join(ws, "bad.yaml")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSchema_PrintAndWrite(t *testing.T) {
	out, _, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !gjson.Valid(out) || !gjson.Get(out, "properties.tool_calls").Exists() {
		t.Fatalf("schema output: %s", out)
	}

	path := filepath.Join(t.TempDir(), "nested", "contract.json")
	t.Setenv("MESHEDIT_SCHEMA_PATH", path)
	if _, _, err := execute(t, "schema", "--write"); err != nil {
		t.Fatalf("schema --write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written schema: %v", err)
	}
	if !bytes.Equal(data, schema.Contract()) {
		t.Fatal("written schema differs from the built-in contract")
	}
}

func TestTools(t *testing.T) {
	out, _, err := execute(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	list := gjson.Parse(out).Array()
	if len(list) != 7 {
		t.Fatalf("tools = %d", len(list))
	}
	if name := list[6].Get("name").String(); name != "inset_faces_in_volume" {
		t.Fatalf("last tool = %q", name)
	}
	if props := list[6].Get("properties").String(); !strings.Contains(props, "inset_depth") {
		t.Fatalf("inset properties = %s", props)
	}
}

func TestInspect(t *testing.T) {
	ws := workspace(t)
	out, stderr, err := execute(t, "inspect", "--mesh", filepath.Join(ws, "cube.obj"),
		"--volume", `{"type":"box","center_xyz":[0,0,1],"dimensions_xyz":[3,3,0.5]}`)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"vertices: 8", "faces: 6", "bounds: [-1, -1, -1] .. [1, 1, 1]", "selected vertices: [4 5 6 7]", "selected faces: [1]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if stderr != "" {
		t.Fatalf("unexpected warning: %q", stderr)
	}

	_, stderr, err = execute(t, "inspect", "--mesh", filepath.Join(ws, "cube.obj"),
		"--volume", `{"type":"sphere","center_xyz":[50,0,0],"radius":1}`)
	if err != nil {
		t.Fatalf("inspect far: %v", err)
	}
	if !strings.Contains(stderr, "outside mesh bounds") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestHistory(t *testing.T) {
	ws := workspace(t)
	t.Setenv("MESHEDIT_AUDIT_DB", filepath.Join(t.TempDir(), "audit.db"))

	out, _, err := execute(t, "run", "--json",
		"--mesh", filepath.Join(ws, "cube.obj"),
		"--batch", filepath.Join(ws, "calls.yaml"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	runID := gjson.Get(out, "run_id").String()

	list, _, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(list, runID) || !strings.Contains(list, "2/2 ok") {
		t.Fatalf("history list = %q", list)
	}

	detail, _, err := execute(t, "history", runID)
	if err != nil {
		t.Fatalf("history %s: %v", runID, err)
	}
	if !strings.Contains(detail, "2. ✓ Applied material 'Glass'") {
		t.Fatalf("history detail = %q", detail)
	}
}

func TestHistory_RequiresAuditDB(t *testing.T) {
	t.Setenv("MESHEDIT_AUDIT_DB", "")
	if _, _, err := execute(t, "history"); err == nil {
		t.Fatal("expected error without MESHEDIT_AUDIT_DB")
	}
}

func TestAgent_RequiresAPIKey(t *testing.T) {
	ws := workspace(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, _, err := execute(t, "agent", "--mesh", filepath.Join(ws, "cube.obj"), "--prompt", "taller")
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("err = %v", err)
	}
}
