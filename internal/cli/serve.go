package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/pdfworks/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Starts the pdfworks MCP server on stdin/stdout. Logs go to stderr or,
with log.output set to "file", to the configured log file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.log.Info("Starting pdfworks server %s", a.version)

			srv, err := server.CreateServer(cmd.Context(), a.cfg, a.version, a.log)
			if err != nil {
				return err
			}
			defer srv.Close()

			if err := srv.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				a.log.Error("Server failed: %v", err)
				return err
			}
			return nil
		},
	}
}
