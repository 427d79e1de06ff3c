package cmd

import (
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the PhasmaFood MCP server",
	Long:  `Launch an MCP server that allows AI agents to browse replicated measurements and read platform statistics via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays reserved for the protocol.
		return docsSetupWrapper(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, app.svc)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
