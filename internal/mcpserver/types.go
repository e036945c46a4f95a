package mcpserver

import (
	"github.com/petasbytes/go-meshedit/internal/batch"
	"github.com/petasbytes/go-meshedit/internal/dispatch"
	"github.com/petasbytes/go-meshedit/internal/metrics"
	"github.com/petasbytes/go-meshedit/tools"
)

// CommandOutput is the result of one edit command.
type CommandOutput struct {
	Success          bool     `json:"success" jsonschema:"whether the command succeeded"`
	Message          string   `json:"message" jsonschema:"human-readable outcome"`
	AffectedElements []int    `json:"affected_elements,omitempty" jsonschema:"indices of the vertices or faces the command touched"`
	Warnings         []string `json:"warnings,omitempty" jsonschema:"advisory notes such as a volume far from the mesh"`
}

// CallInput is one entry of a batch.
type CallInput struct {
	FunctionName string         `json:"function_name" jsonschema:"edit operation name"`
	Parameters   map[string]any `json:"parameters" jsonschema:"operation parameters including volume_identifier"`
}

// BatchInput is the apply_volume_commands input.
type BatchInput struct {
	ToolCalls []CallInput `json:"tool_calls" jsonschema:"commands to run in order"`
}

// BatchOutput is a batch report.
type BatchOutput struct {
	RunID       string          `json:"run_id" jsonschema:"batch run id"`
	Total       int             `json:"total" jsonschema:"number of commands"`
	Successful  int             `json:"successful" jsonschema:"number of successful commands"`
	Failed      int             `json:"failed" jsonschema:"number of failed commands"`
	SuccessRate float64         `json:"success_rate" jsonschema:"percentage of successful commands"`
	Results     []CommandOutput `json:"results" jsonschema:"one result per command in order"`
	Warnings    []string        `json:"warnings,omitempty" jsonschema:"advisory notes"`
	Report      string          `json:"report" jsonschema:"plain-text execution report"`
}

// InspectInput optionally names a volume to resolve without editing.
type InspectInput struct {
	Volume *tools.VolumeInput `json:"volume,omitempty" jsonschema:"optional volume to resolve against the mesh"`
}

// SelectionOutput lists the elements a volume would address.
type SelectionOutput struct {
	Vertices     []int `json:"vertices" jsonschema:"vertex indices inside the volume"`
	Faces        []int `json:"faces" jsonschema:"face indices whose centers are inside the volume"`
	WithinBounds bool  `json:"within_bounds" jsonschema:"whether the volume center is near the mesh"`
}

// MeshOutput summarises the current mesh.
type MeshOutput struct {
	Path      string           `json:"path,omitempty" jsonschema:"file the mesh was loaded from or saved to"`
	Vertices  int              `json:"vertices" jsonschema:"vertex count"`
	Faces     int              `json:"faces" jsonschema:"face count"`
	Min       []float64        `json:"min" jsonschema:"lower corner of the bounds"`
	Max       []float64        `json:"max" jsonschema:"upper corner of the bounds"`
	Selection *SelectionOutput `json:"selection,omitempty" jsonschema:"elements inside the requested volume"`
}

// ListInput names a directory under the read root.
type ListInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory relative to the read root"`
}

// ListOutput lists OBJ files.
type ListOutput struct {
	Files []string `json:"files" jsonschema:"OBJ file names in the directory"`
}

// PathInput names a mesh file relative to the sandbox root.
type PathInput struct {
	Path string `json:"path" jsonschema:"OBJ file path relative to the sandbox root"`
}

func commandOutput(res dispatch.ExecutionResult) CommandOutput {
	return CommandOutput{Success: res.Success, Message: res.Message, AffectedElements: res.AffectedElements}
}

func batchOutput(r batch.Report) BatchOutput {
	out := BatchOutput{
		RunID:       r.RunID,
		Total:       r.Total,
		Successful:  r.Succeeded,
		Failed:      r.Failed,
		SuccessRate: r.SuccessRate(),
		Results:     make([]CommandOutput, 0, len(r.Results)),
		Warnings:    r.Warnings,
		Report:      r.Format(),
	}
	for _, res := range r.Results {
		out.Results = append(out.Results, commandOutput(res))
	}
	return out
}

func meshOutput(path string, st metrics.Stats) MeshOutput {
	return MeshOutput{
		Path:     path,
		Vertices: st.Vertices,
		Faces:    st.Faces,
		Min:      st.Min[:],
		Max:      st.Max[:],
	}
}
