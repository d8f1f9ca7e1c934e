package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/mcp-ui-servers/cmd/mcp-ui/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := commands.Root(os.Getenv).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
