package version

// Version is set at build time with -ldflags "-X github.com/docker/mcp-ui-servers/cmd/mcp-ui/version.Version=...".
var Version = "dev"
