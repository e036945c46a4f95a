package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petasbytes/go-meshedit/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	var meshPath, outPath string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve a mesh to MCP clients over stdio",
		Long: `Serve exposes the edit operations, apply_volume_commands and mesh file tools
over the Model Context Protocol on stdin/stdout. When --out is set the edited
mesh is written there after the client disconnects.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			opts := []mcpserver.Option{mcpserver.WithBoundsTolerance(e.cfg.BoundsTolerance)}
			if store := e.auditStore(); store != nil {
				defer store.Close()
				opts = append(opts, mcpserver.WithAudit(store))
			}
			srv := mcpserver.New(e.cfg.MCPName, ed, ex, opts...)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Serve(ctx); err != nil {
				return err
			}
			if outPath != "" {
				return writeMesh(outPath, srv.Mesh())
			}
			return nil
		},
	}
	c.Flags().StringVar(&meshPath, "mesh", "", "input OBJ mesh")
	c.Flags().StringVar(&outPath, "out", "", "write the edited mesh here on exit")
	_ = c.MarkFlagRequired("mesh")
	return c
}
