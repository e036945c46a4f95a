package batch

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/petasbytes/go-meshedit/internal/dispatch"
)

// Report is the outcome of one batch run. Results has one entry per submitted
// call, in submission order.
type Report struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Results   []dispatch.ExecutionResult
	// Warnings are advisory and never affect counts.
	Warnings []string
}

func newReport(runID string, results []dispatch.ExecutionResult) Report {
	r := Report{RunID: runID, Total: len(results), Results: results}
	for _, res := range results {
		if res.Success {
			r.Succeeded++
		}
	}
	r.Failed = r.Total - r.Succeeded
	return r
}

// SuccessRate is the percentage of successful commands, 0 for an empty batch.
func (r Report) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Total) * 100
}

// Format renders the human-readable report.
func (r Report) Format() string {
	var b strings.Builder
	b.WriteString("\n=== Tool Execution Report ===\n")
	fmt.Fprintf(&b, "Total Operations: %d\n", r.Total)
	fmt.Fprintf(&b, "Successful: %d\n", r.Succeeded)
	fmt.Fprintf(&b, "Failed: %d\n", r.Failed)
	fmt.Fprintf(&b, "Success Rate: %.1f%%\n", r.SuccessRate())
	b.WriteString("\n=== Operation Details ===\n")
	for i, res := range r.Results {
		status := "✓ SUCCESS"
		if !res.Success {
			status = "✗ FAILED"
		}
		elements := ""
		if res.AffectedElements != nil {
			elements = fmt.Sprintf(" (affected: %d elements)", len(res.AffectedElements))
		}
		fmt.Fprintf(&b, "%d. %s: %s%s\n", i+1, status, res.Message, elements)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n=== Warnings ===\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

// JSON renders the machine-readable report.
func (r Report) JSON() ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}
	set("run_id", r.RunID)
	set("total", r.Total)
	set("successful", r.Succeeded)
	set("failed", r.Failed)
	set("success_rate", r.SuccessRate())
	set("results", []any{})
	for i, res := range r.Results {
		p := fmt.Sprintf("results.%d", i)
		set(p+".success", res.Success)
		set(p+".message", res.Message)
		if res.AffectedElements != nil {
			set(p+".affected_elements", res.AffectedElements)
		}
	}
	set("warnings", []any{})
	for i, w := range r.Warnings {
		set(fmt.Sprintf("warnings.%d", i), w)
	}
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return doc, nil
}
