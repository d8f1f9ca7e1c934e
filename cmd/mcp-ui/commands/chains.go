package commands

import (
	"github.com/spf13/cobra"

	chainscli "github.com/docker/mcp-ui-servers/cmd/mcp-ui/chains"
	"github.com/docker/mcp-ui-servers/cmd/mcp-ui/hints"
)

func chainsCommand(getenv func(string) string) *cobra.Command {
	var chainsPath string

	cmd := &cobra.Command{
		Use:   "chains",
		Short: "Inspect model chains",
	}
	addChainsFlag(cmd.PersistentFlags(), &chainsPath)

	var outputJSON bool
	lsCommand := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List model chains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, credentials, err := chainscli.Load(chainsPath, getenv)
			if err != nil {
				return err
			}
			if err := chainscli.List(cmd.OutOrStdout(), catalog, credentials, outputJSON); err != nil {
				return err
			}
			if !outputJSON && hints.Enabled(getenv) {
				hints.TipCyan.Fprint(cmd.OutOrStdout(), "Tip: Check that a chain has its API keys with ")
				hints.TipCyanBoldItalic.Fprintln(cmd.OutOrStdout(), "mcp-ui chains check <chain>")
			}
			return nil
		},
	}
	lsCommand.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON.")
	cmd.AddCommand(lsCommand)

	cmd.AddCommand(&cobra.Command{
		Use:   "check [chain]",
		Short: "Check that a chain's API keys are set, without calling any model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, credentials, err := chainscli.Load(chainsPath, getenv)
			if err != nil {
				return err
			}
			var key string
			if len(args) > 0 {
				key = args[0]
			}
			if err := chainscli.Check(cmd.OutOrStdout(), catalog, credentials, key); err != nil {
				if hints.Enabled(getenv) {
					hints.TipCyan.Fprintln(cmd.ErrOrStderr(), "Tip: Export the missing variables, or add fallbackKeys to a chains file passed with --chains")
				}
				return err
			}
			hints.TipGreen.Fprintln(cmd.OutOrStdout(), "All stages have credentials.")
			return nil
		},
	})

	return cmd
}
