package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/displaywall/internal/mcp"
	"github.com/1broseidon/displaywall/internal/observability"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: "Start the MCP server on stdio. The tools drive a running daemon\n" +
			"over its socket, so start 'displaywall daemon' first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := runContext()
			defer stop()

			server := mcp.NewServer(a.client(), observability.Logger().Named("mcp"))
			return server.Run(ctx)
		},
	})
	return cmd
}
