package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petasbytes/go-meshedit/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	var write bool
	c := &cobra.Command{
		Use:   "schema",
		Short: "Print the built-in batch contract, or write it to MESHEDIT_SCHEMA_PATH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if !write {
				_, err := e.out.Write(schema.Contract())
				return err
			}
			path := e.cfg.SchemaPath
			if path == "" {
				return fmt.Errorf("MESHEDIT_SCHEMA_PATH is empty")
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, schema.Contract(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "wrote %s\n", path)
			return nil
		},
	}
	c.Flags().BoolVar(&write, "write", false, "write the contract to MESHEDIT_SCHEMA_PATH")
	return c
}
