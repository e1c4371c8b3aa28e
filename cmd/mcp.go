package cmd

import (
	"github.com/alchm-kitchen/typesweep/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Typesweep MCP server",
	Long:  `Launch an MCP server that lets AI agents inspect 'any' usage via standard tools. The exposed tools are read-only; campaigns stay on the CLI.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The handlers suppress the normal analysis headers themselves
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
