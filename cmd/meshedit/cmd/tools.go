package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petasbytes/go-meshedit/tools"
)

type toolListing struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Properties  []string `json:"properties"`
	InputSchema any      `json:"input_schema"`
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions offered to models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs := tools.Registry()
			out := make([]toolListing, 0, len(defs))
			for _, d := range defs {
				out = append(out, toolListing{
					Name:        d.Name,
					Description: d.Description,
					Properties:  tools.PropertyNames(d.InputSchema),
					InputSchema: d.InputSchema,
				})
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
