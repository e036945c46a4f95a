package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/petasbytes/go-meshedit/internal/audit"
	"github.com/petasbytes/go-meshedit/internal/batch"
	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/mesh"
	"github.com/petasbytes/go-meshedit/internal/metrics"
	"github.com/petasbytes/go-meshedit/internal/provider"
	"github.com/petasbytes/go-meshedit/internal/runner"
	"github.com/petasbytes/go-meshedit/memory"
	"github.com/petasbytes/go-meshedit/tools"
)

func newAgentCmd() *cobra.Command {
	var meshPath, prompt, outPath string
	c := &cobra.Command{
		Use:   "agent",
		Short: "Let a model edit the mesh from a natural-language request",
		Long: `Agent sends the request and the mesh bounds to the Anthropic Messages API with
one tool per edit operation. The tool calls of each reply run as one batch.
Without --prompt it reads requests from stdin until EOF or Ctrl-C; set
MESHEDIT_TRANSCRIPT to keep the session between runs.

Requires ANTHROPIC_API_KEY.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				return fmt.Errorf("missing ANTHROPIC_API_KEY; export it before running")
			}
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			m, err := readMesh(meshPath)
			if err != nil {
				return err
			}
			ed, ex, err := e.engine(m)
			if err != nil {
				return err
			}
			r := runner.New(provider.NewAnthropicClient(), tools.Registry(), ex)
			r.MaxTokens = e.cfg.MaxTokens
			r.TokenBudget = e.cfg.TokenBudget
			r.Out = e.out

			store := e.auditStore()
			if store != nil {
				defer store.Close()
			}
			s := &agentSession{env: e, runner: r, editor: ed, store: store, model: provider.Model(e.cfg.Model)}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if prompt != "" {
				_, _, err = s.turn(ctx, nil, prompt)
			} else {
				err = s.interactive(ctx, meshPath)
			}
			if err != nil {
				return err
			}
			if outPath != "" {
				return writeMesh(outPath, ed.Mesh())
			}
			return nil
		},
	}
	c.Flags().StringVar(&meshPath, "mesh", "", "input OBJ mesh")
	c.Flags().StringVar(&prompt, "prompt", "", "single request; omit for an interactive session")
	c.Flags().StringVar(&outPath, "out", "", "write the edited mesh to this OBJ file")
	_ = c.MarkFlagRequired("mesh")
	return c
}

type agentSession struct {
	env    *env
	runner *runner.Runner
	editor *mesh.Editor
	store  *audit.Store
	model  anthropic.Model
}

// turn runs one request to completion. It returns the extended conversation
// and the run ids of the batches it executed.
func (s *agentSession) turn(ctx context.Context, conv []anthropic.MessageParam, request string) ([]anthropic.MessageParam, []string, error) {
	conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(s.describe()+"\n\n"+request)))
	var runIDs []string
	for step := 0; step < s.env.cfg.AgentMaxSteps; step++ {
		msg, results, report, err := s.runner.RunOneStep(ctx, s.model, conv, s.editor)
		if err != nil {
			return conv, runIDs, err
		}
		conv = append(conv, msg.ToParam())
		if report != nil {
			runIDs = append(runIDs, report.RunID)
			s.record(ctx, report)
		}
		if len(results) == 0 {
			return conv, runIDs, nil
		}
		conv = append(conv, anthropic.NewUserMessage(results...))
	}
	s.env.warnf("stopped after %d model steps", s.env.cfg.AgentMaxSteps)
	return conv, runIDs, nil
}

func (s *agentSession) record(ctx context.Context, report *batch.Report) {
	fmt.Fprint(s.env.out, report.Format())
	if s.store == nil {
		return
	}
	if err := s.store.Record(ctx, "agent", *report); err != nil {
		s.env.warnf("audit: %v", err)
	}
}

// describe tells the model where the mesh is before each request.
func (s *agentSession) describe() string {
	st := metrics.Summarize(s.editor)
	return fmt.Sprintf("Mesh: %d vertices, %d faces, bounds %s to %s.",
		st.Vertices, st.Faces, command.FormatVec3(st.Min), command.FormatVec3(st.Max))
}

func (s *agentSession) interactive(ctx context.Context, meshPath string) error {
	path := s.env.cfg.Transcript
	var tr memory.Transcript
	if path != "" {
		loaded, err := memory.Load(path)
		if err != nil {
			s.env.warnf("failed to load transcript: %v", err)
		} else if loaded.Mesh == "" || loaded.Mesh == meshPath {
			tr = loaded
		}
		tr.Mesh = meshPath
	}
	conv := tr.Conversation()

	inputCh := make(chan string)
	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(s.env.out, "Describe an edit (Ctrl-C to quit)")
	for {
		fmt.Fprint(s.env.out, "\u001b[94mYou\u001b[0m: ")
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-inputCh:
			if !ok {
				return scanner.Err()
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		start := len(conv)
		next, runIDs, err := s.turn(ctx, conv, line)
		if err != nil {
			fmt.Fprintf(s.env.errOut, "error: %v\n", err)
			continue
		}
		conv = next
		if path != "" {
			tr.Append(line, replyText(conv[start:]), runIDs)
			if err := memory.Save(path, tr); err != nil {
				s.env.warnf("failed to save transcript: %v", err)
			}
		}
	}
}

// replyText joins the assistant text of one turn.
func replyText(msgs []anthropic.MessageParam) string {
	var parts []string
	for _, m := range msgs {
		if m.Role != anthropic.MessageParamRoleAssistant {
			continue
		}
		for _, b := range m.Content {
			if b.OfText != nil && strings.TrimSpace(b.OfText.Text) != "" {
				parts = append(parts, b.OfText.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
