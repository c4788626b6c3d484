package cmd

import (
	"github.com/commitcritic/commitcritic/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Commit Critic MCP server",
	Long:  `Launch an MCP server that lets AI agents query repository memory via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep setup output off stdout, which carries the protocol stream.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openMemoryStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		client, err := newOracleClient()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, store, client)
	},
}
