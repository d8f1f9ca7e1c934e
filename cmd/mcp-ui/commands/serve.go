package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/docker/mcp-ui-servers/pkg/gateway"
)

const defaultPort = 3000

func serveCommand(getenv func(string) string) *cobra.Command {
	var config gateway.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP-UI server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := gateway.NormalizeVariant(config.Variant); err != nil {
				return err
			}
			if config.Watch && config.ChainsPath == "" {
				return errors.New("--watch requires --chains")
			}
			return gateway.NewGateway(config).Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&config.Port, "port", portFromEnv(getenv), "TCP port to listen on (defaults to $PORT)")
	flags.StringVar(&config.Transport, "transport", "streaming", "stdio, sse or streaming")
	flags.StringVar(&config.Variant, "variant", gateway.VariantLibreChat, "Tool set to serve: "+strings.Join(gateway.Variants, ", "))
	addChainsFlag(flags, &config.ChainsPath)
	flags.BoolVar(&config.Watch, "watch", false, "Reload the chains file when it changes")
	flags.BoolVar(&config.LogCalls, "log-calls", true, "Log tool calls")
	flags.StringVar(&config.LogFilePath, "log-file", "", "Also write logs to this file")
	flags.BoolVar(&config.Auth, "auth", false, "Require a Bearer token on the sse and streaming transports")
	flags.BoolVar(&config.DryRun, "dry-run", false, "Load the configuration and exit without serving")

	return cmd
}

func addChainsFlag(flags *pflag.FlagSet, p *string) {
	flags.StringVar(p, "chains", "", "YAML or JSONC file replacing the built-in model chains")
}

func portFromEnv(getenv func(string) string) int {
	if port, err := strconv.Atoi(strings.TrimSpace(getenv("PORT"))); err == nil && port > 0 {
		return port
	}
	return defaultPort
}
