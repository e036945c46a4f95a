package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/sjson"

	"github.com/petasbytes/go-meshedit/internal/batch"
	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/dispatch"
	"github.com/petasbytes/go-meshedit/internal/telemetry"
	"github.com/petasbytes/go-meshedit/internal/volume"
	"github.com/petasbytes/go-meshedit/internal/windowing"
	"github.com/petasbytes/go-meshedit/tools"
)

// DefaultMaxTokens caps each model response.
const DefaultMaxTokens = 1024

// SystemPrompt tells the model how to address the mesh.
const SystemPrompt = `You edit a polygon mesh by calling tools. Every tool addresses mesh elements through a volume
(box, sphere or cylinder) in world coordinates; the cylinder axis is its local Z. Use the mesh
bounds you are given to place volumes. Calls in one message run in order, each against the mesh
left by the previous call.`

type Runner struct {
	Client    *anthropic.Client
	Tools     []tools.ToolDefinition
	Executor  *batch.Executor
	MaxTokens int64
	System    string
	Out       io.Writer
	// TokenBudget caps the estimated input of each request. Older message
	// groups are dropped to fit; 0 sends the whole conversation.
	TokenBudget int
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, ex *batch.Executor) *Runner {
	return &Runner{
		Client:    client,
		Tools:     toolDefs,
		Executor:  ex,
		MaxTokens: DefaultMaxTokens,
		System:    SystemPrompt,
		Out:       os.Stdout,
	}
}

func (r *Runner) lookup(name string) bool {
	for _, t := range r.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

type toolUse struct {
	id    string
	name  string
	input json.RawMessage
}

// RunOneStep sends conv, prints any text, and runs the returned tool calls
// against src. The report is nil when the model made no known tool call.
func (r *Runner) RunOneStep(ctx context.Context, model anthropic.Model, conv []anthropic.MessageParam, src volume.Source) (*anthropic.Message, []anthropic.ContentBlockParamUnion, *batch.Report, error) {
	if len(conv) == 0 {
		return nil, nil, nil, errors.New("runner: empty conversation")
	}
	ctx, runID := telemetry.EnsureRunID(ctx)

	window, stats := windowing.Window(conv, r.TokenBudget, windowing.RuneCounter{})
	telemetry.Emit("window_prepared", map[string]any{
		"run_id":   runID,
		"budget":   stats.Budget,
		"total":    stats.Total,
		"kept":     stats.Kept,
		"dropped":  stats.Dropped,
		"overflow": stats.Overflow,
	})
	if stats.Overflow {
		return nil, nil, nil, fmt.Errorf("newest message exceeds token budget %d; raise MESHEDIT_TOKEN_BUDGET", r.TokenBudget)
	}

	maxTokens := r.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  window,
		Tools:     tools.Params(r.Tools),
	}
	if r.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.System}}
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, nil, err
	}

	var uses []toolUse
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if r.Out != nil {
				fmt.Fprintf(r.Out, "\u001b[93mModel\u001b[0m: %s\n", v.Text)
			}
		case anthropic.ToolUseBlock:
			input := json.RawMessage(v.JSON.Input.Raw())
			if len(input) == 0 {
				input = json.RawMessage(`{}`)
			}
			uses = append(uses, toolUse{id: v.ID, name: v.Name, input: input})
		}
	}

	results, report, err := r.execTools(ctx, uses, src)
	if err != nil {
		return nil, nil, nil, err
	}
	telemetry.Emit("model_step", map[string]any{
		"run_id":      runID,
		"model":       string(model),
		"stop_reason": string(msg.StopReason),
		"tool_uses":   len(uses),
	})
	return msg, results, report, nil
}

// execTools answers every tool_use. Unknown tools get an error result; the
// rest run as one batch in emission order.
func (r *Runner) execTools(ctx context.Context, uses []toolUse, src volume.Source) ([]anthropic.ContentBlockParamUnion, *batch.Report, error) {
	results := make([]anthropic.ContentBlockParamUnion, len(uses))
	known := make([]int, 0, len(uses))
	doc := []byte(`{"tool_calls":[]}`)
	var err error
	for i, u := range uses {
		if !r.lookup(u.name) {
			results[i] = anthropic.NewToolResultBlock(u.id, "tool not found", true)
			continue
		}
		n := len(known)
		if doc, err = sjson.SetBytes(doc, fmt.Sprintf("tool_calls.%d.function_name", n), u.name); err != nil {
			return nil, nil, fmt.Errorf("assemble batch: %w", err)
		}
		if doc, err = sjson.SetRawBytes(doc, fmt.Sprintf("tool_calls.%d.parameters", n), u.input); err != nil {
			return nil, nil, fmt.Errorf("assemble batch: %w", err)
		}
		known = append(known, i)
	}
	if len(known) == 0 {
		return results, nil, nil
	}

	report, err := r.Executor.RunBytes(ctx, doc, command.FormatJSON, src)
	if err != nil {
		// A rejected batch answers every call with the same verdict.
		for _, i := range known {
			results[i] = anthropic.NewToolResultBlock(uses[i].id, err.Error(), true)
		}
		return results, &report, nil
	}
	for k, i := range known {
		res := report.Results[k]
		results[i] = anthropic.NewToolResultBlock(uses[i].id, resultText(res), !res.Success)
	}
	return results, &report, nil
}

func resultText(res dispatch.ExecutionResult) string {
	if res.AffectedElements == nil {
		return res.Message
	}
	return fmt.Sprintf("%s (affected: %d elements)", res.Message, len(res.AffectedElements))
}

// Run sends prompt and keeps answering tool calls until the model stops
// calling tools or maxSteps model calls have been made. It returns one report
// per step that ran a batch; each batch gets its own run id.
func (r *Runner) Run(ctx context.Context, model anthropic.Model, prompt string, src volume.Source, maxSteps int) ([]batch.Report, error) {
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))}
	var reports []batch.Report
	for step := 0; step < maxSteps; step++ {
		msg, results, report, err := r.RunOneStep(ctx, model, conv, src)
		if err != nil {
			return reports, err
		}
		if report != nil {
			reports = append(reports, *report)
		}
		if len(results) == 0 {
			return reports, nil
		}
		conv = append(conv, msg.ToParam(), anthropic.NewUserMessage(results...))
	}
	return reports, nil
}
