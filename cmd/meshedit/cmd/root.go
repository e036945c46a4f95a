// Package cmd implements the meshedit command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "meshedit",
		Short: "Apply structured volume commands to a polygon mesh",
		Long: `meshedit edits a polygon mesh through batches of structured commands. Every
command addresses mesh elements by a geometric volume (box, sphere or
cylinder) instead of by index.

Environment:
  MESHEDIT_SCHEMA_PATH       batch contract (default schema/tool_calls_schema.json)
  MESHEDIT_READ_ROOT         sandbox root for mesh and batch files
  MESHEDIT_WRITE_ROOT        sandbox root for output meshes
  MESHEDIT_AUDIT_DB          sqlite file recording every batch report
  MESHEDIT_OBSERVE_JSON=1    append JSONL events under MESHEDIT_ARTIFACTS_DIR`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newSchemaCmd(),
		newToolsCmd(),
		newInspectCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newAgentCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
		return err
	}
	return nil
}
