package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/chorus/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review tools over MCP on stdin/stdout",
	Long: "Serve runs an MCP server on stdin/stdout until stdin closes or the " +
		"process is interrupted. Logs go to stderr.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		defer a.close()

		srv := mcpserver.New(a.dispatcher, version, a.logger)
		if err := srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		return nil
	},
}
