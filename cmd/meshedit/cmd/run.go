package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/fsops"
	"github.com/petasbytes/go-meshedit/internal/metrics"
	"github.com/petasbytes/go-meshedit/internal/telemetry"
)

func newRunCmd() *cobra.Command {
	var meshPath, batchPath, outPath string
	var asJSON bool
	c := &cobra.Command{
		Use:   "run",
		Short: "Run a batch file against a mesh",
		Long: `Run validates a JSON or YAML batch and executes its commands in order against
the mesh. A batch that fails validation is rejected as a whole and the mesh is
left untouched; otherwise a failing command is reported and the rest still run.

Example:
  meshedit run --mesh cube.obj --batch calls.yaml --out cube-edited.obj`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			m, err := readMesh(meshPath)
			if err != nil {
				return err
			}
			data, err := fsops.ReadFile(batchPath)
			if err != nil {
				return err
			}
			ed, ex, err := e.engine(m)
			if err != nil {
				return err
			}

			ctx, _ := telemetry.EnsureRunID(cmd.Context())
			telemetry.EmitMeshStats(ctx, "before", metrics.Summarize(ed))
			report, err := ex.RunBytes(ctx, data, command.FormatFromPath(batchPath), ed)
			if err != nil {
				return err
			}
			telemetry.EmitMeshStats(ctx, "after", metrics.Summarize(ed))

			if store := e.auditStore(); store != nil {
				if err := store.Record(ctx, batchPath, report); err != nil {
					e.warnf("audit: %v", err)
				}
				_ = store.Close()
			}

			if asJSON {
				doc, err := report.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, string(doc))
			} else {
				fmt.Fprint(e.out, report.Format())
			}

			if outPath != "" {
				return writeMesh(outPath, ed.Mesh())
			}
			return nil
		},
	}
	c.Flags().StringVar(&meshPath, "mesh", "", "input OBJ mesh")
	c.Flags().StringVar(&batchPath, "batch", "", "batch file (.json, .yaml or .yml)")
	c.Flags().StringVar(&outPath, "out", "", "write the edited mesh to this OBJ file")
	c.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = c.MarkFlagRequired("mesh")
	_ = c.MarkFlagRequired("batch")
	return c
}
