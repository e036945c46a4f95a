package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List audited batches, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if e.cfg.AuditDB == "" {
				return fmt.Errorf("MESHEDIT_AUDIT_DB is not set")
			}
			store := e.auditStore()
			if store == nil {
				return fmt.Errorf("audit store unavailable")
			}
			defer store.Close()

			if len(args) == 1 {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s  %s  %s  %d/%d ok\n", run.RunID, run.CreatedAt.Format(time.RFC3339), run.Source, run.Successful, run.Total)
				for i, r := range run.Results {
					mark := "✓"
					if !r.Success {
						mark = "✗"
					}
					fmt.Fprintf(e.out, "%d. %s %s\n", i+1, mark, r.Message)
				}
				for _, w := range run.Warnings {
					fmt.Fprintf(e.out, "- %s\n", w)
				}
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprintf(e.out, "%s  %s  %s  %d/%d ok\n", run.RunID, run.CreatedAt.Format(time.RFC3339), run.Source, run.Successful, run.Total)
			}
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	return c
}
