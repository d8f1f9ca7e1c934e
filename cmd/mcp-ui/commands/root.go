package commands

import (
	"github.com/spf13/cobra"
)

// Root returns the mcp-ui command. getenv supplies the environment to every
// subcommand.
func Root(getenv func(string) string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mcp-ui",
		Short:        "MCP servers that answer tool calls with UI resources",
		SilenceUsage: true,
	}
	cmd.AddCommand(serveCommand(getenv))
	cmd.AddCommand(chainsCommand(getenv))
	cmd.AddCommand(versionCommand())
	return cmd
}
