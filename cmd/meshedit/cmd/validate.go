package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/fsops"
)

func newValidateCmd() *cobra.Command {
	var batchPath string
	c := &cobra.Command{
		Use:   "validate",
		Short: "Check a batch file against the contract without running it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			v, err := e.validator()
			if err != nil {
				return err
			}
			data, err := fsops.ReadFile(batchPath)
			if err != nil {
				return err
			}
			vb, err := v.ValidateBytes(data, command.FormatFromPath(batchPath))
			if err != nil {
				return err
			}
			// Parse each call too, so unknown shapes the contract allows still surface.
			for i, call := range vb.Calls() {
				if _, err := command.Parse(call); err != nil {
					fmt.Fprintf(e.out, "%d. %s: %v\n", i+1, call.FunctionName, err)
				}
			}
			fmt.Fprintf(e.out, "ok: %d commands\n", vb.Len())
			return nil
		},
	}
	c.Flags().StringVar(&batchPath, "batch", "", "batch file (.json, .yaml or .yml)")
	_ = c.MarkFlagRequired("batch")
	return c
}
