package gateway

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/docker/mcp-ui-servers/pkg/chain"
	"github.com/docker/mcp-ui-servers/pkg/eraser"
	"github.com/docker/mcp-ui-servers/pkg/health"
	"github.com/docker/mcp-ui-servers/pkg/interceptors"
	"github.com/docker/mcp-ui-servers/pkg/log"
	"github.com/docker/mcp-ui-servers/pkg/session"
	"github.com/docker/mcp-ui-servers/pkg/telemetry"
)

const (
	serviceName   = "mcp-ui-servers"
	serverVersion = "1.0.0"
)

type Gateway struct {
	Options
	chainsPath string
	getenv     func(string) string

	health      health.State
	sessions    *session.Registry[*sessionHandle]
	catalog     *chain.Catalog
	credentials *chain.Credentials
	runner      *chain.Runner
	eraser      *eraser.Client

	// authToken is required as a Bearer token on sse and streaming transports
	// when Auth is set.
	authToken string
	// authTokenWasGenerated indicates whether the token was auto-generated or from environment
	authTokenWasGenerated bool
}

func NewGateway(config Config) *Gateway {
	return newGateway(config, os.Getenv)
}

func newGateway(config Config, getenv func(string) string) *Gateway {
	catalog := chain.DefaultCatalog()
	catalog.Getenv = getenv
	credentials := chain.NewCredentials(getenv)

	// Run reports an invalid variant.
	options := config.Options
	if variant, err := NormalizeVariant(options.Variant); err == nil {
		options.Variant = variant
	}

	return &Gateway{
		Options:     options,
		chainsPath:  config.ChainsPath,
		getenv:      getenv,
		sessions:    session.NewRegistry[*sessionHandle](),
		catalog:     catalog,
		credentials: credentials,
		runner:      chain.NewRunner(catalog, credentials, getenv),
		eraser:      eraser.NewClientFromEnv(getenv),
	}
}

func (g *Gateway) Run(ctx context.Context) error {
	// Set up log file redirection if specified
	if g.LogFilePath != "" {
		logFile, err := os.OpenFile(g.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", g.LogFilePath, err)
		}
		defer logFile.Close()

		log.SetLogWriter(io.MultiWriter(os.Stderr, logFile))
	}

	variant, err := NormalizeVariant(g.Variant)
	if err != nil {
		return err
	}
	g.Variant = variant

	transport := strings.ToLower(g.Transport)
	if transport == "" {
		transport = "streaming"
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.OptionsFromEnv(serviceName, serverVersion))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Log("! Telemetry shutdown:", err)
		}
	}()

	start := time.Now()

	// Listen as early as possible to not lose client connections.
	var ln net.Listener
	if transport != "stdio" {
		var lc net.ListenConfig
		ln, err = lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", g.Port))
		if err != nil {
			return err
		}
		defer ln.Close()
	}

	if g.chainsPath != "" {
		file, err := chain.LoadFile(g.chainsPath)
		if err != nil {
			return err
		}
		if err := file.Apply(g.catalog, g.credentials); err != nil {
			return fmt.Errorf("loading chains from %s: %w", g.chainsPath, err)
		}
		log.Logf("- Loaded %d chains from %s", len(file.Chains), g.chainsPath)
	}
	g.registerRedactions()

	tools := g.toolRegistrations("localhost")
	log.Logf("- Serving variant %s with %d tools", g.Variant, len(tools))
	for _, tool := range tools {
		log.Log("  -", tool.Tool.Name)
	}
	if g.serves(VariantLibreChat) {
		g.reportDefaultChain()
	}

	log.Log("> Initialized in", time.Since(start))
	if g.DryRun {
		log.Log("Dry run mode enabled, not starting the server.")
		return nil
	}

	if g.Auth && transport != "stdio" {
		token, wasGenerated, err := getOrGenerateAuthToken()
		if err != nil {
			return fmt.Errorf("failed to initialize auth token: %w", err)
		}
		g.authToken = token
		g.authTokenWasGenerated = wasGenerated
		g.registerRedactions()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	if g.Watch && g.chainsPath != "" {
		log.Log("- Watching", g.chainsPath, "for chain updates...")
		eg.Go(func() error {
			return chain.Watch(ctx, g.chainsPath, func(file *chain.File) error {
				if err := file.Apply(g.catalog, g.credentials); err != nil {
					return err
				}
				g.registerRedactions()
				return nil
			})
		})
	}

	eg.Go(func() error {
		defer cancel()
		defer g.sessions.CloseAll()
		return g.serve(ctx, transport, ln)
	})

	return eg.Wait()
}

func (g *Gateway) serve(ctx context.Context, transport string, ln net.Listener) error {
	g.health.SetHealthy()
	defer g.health.SetUnhealthy()

	switch transport {
	case "stdio":
		log.Log("> Start stdio server")
		return g.startStdioServer(ctx)

	case "sse":
		log.Log("> Start sse server on port", g.Port)
		g.logEndpoint("/sse")
		return g.startSseServer(ctx, ln)

	case "http", "streamable", "streaming", "streamable-http":
		log.Log("> Start streaming server on port", g.Port)
		g.logEndpoint("/mcp")
		if g.serves(VariantLibreChat) {
			log.Logf("> LibreChat endpoints: POST %s, GET %s", formatServerURL(g.Port, libreChatMessagesPath), formatServerURL(g.Port, libreChatStreamPath))
		}
		return g.startStreamingServer(ctx, ln)

	default:
		return fmt.Errorf("unknown transport %q, expected 'stdio', 'sse' or 'streaming'", g.Transport)
	}
}

func (g *Gateway) logEndpoint(endpoint string) {
	log.Logf("> Server URL: %s", formatServerURL(g.Port, endpoint))
	switch {
	case g.authToken == "":
		log.Log("> Authentication disabled")
	case g.authTokenWasGenerated:
		// Written around the log package, which would redact it.
		fmt.Fprintf(os.Stderr, "> Use Bearer token: %s\n", formatBearerToken(g.authToken))
	default:
		log.Logf("> Use Bearer token from %s environment variable", authTokenEnv)
	}
}

// newServer builds the MCP server for one session. r is the request that
// opened it, or nil for stdio.
func (g *Gateway) newServer(r *http.Request) *mcp.Server {
	host := fmt.Sprintf("localhost:%d", g.Port)
	if r != nil && r.Host != "" {
		host = r.Host
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    serviceName + "-" + g.Variant,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		InitializedHandler: func(_ context.Context, req *mcp.InitializedRequest) {
			clientInfo := req.Session.InitializeParams().ClientInfo
			log.Log(fmt.Sprintf("- Client initialized %s@%s %s", clientInfo.Name, clientInfo.Version, clientInfo.Title))
		},
		HasTools: true,
	})

	if middlewares := interceptors.Callbacks(g.LogCalls); len(middlewares) > 0 {
		server.AddReceivingMiddleware(middlewares...)
	}

	for _, reg := range g.toolRegistrations(host) {
		server.AddTool(reg.Tool, withToolTelemetry(reg.Variant, reg.Tool.Name, reg.Handler))
	}
	return server
}

// registerRedactions keeps every configured API key and the auth token out
// of the logs. It replaces the previous set so reloads drop removed keys.
func (g *Gateway) registerRedactions() {
	var secrets []string
	for _, env := range chain.ProviderKeyEnv {
		secrets = append(secrets, g.getenv(env))
	}
	for _, key := range g.catalog.Keys() {
		c, _ := g.catalog.Lookup(key)
		for _, stage := range c.Stages {
			if stage.APIKeyEnv != "" {
				secrets = append(secrets, g.getenv(stage.APIKeyEnv))
			}
		}
	}
	for _, key := range g.credentials.Fallbacks() {
		secrets = append(secrets, key)
	}
	secrets = append(secrets, g.getenv(eraser.APIKeyEnv), g.getenv(authTokenEnv), g.authToken)
	log.ResetRedactions()
	log.SetRedactions(secrets...)
}

func (g *Gateway) reportDefaultChain() {
	c := g.catalog.Resolve("")
	log.Logf("- Default model chain %s (%d stages)", c.Name, len(c.Stages))
	for _, missing := range g.credentials.Precheck(c) {
		log.Logf("! %s (%s) needs %s", missing.Label, missing.Provider, missing.EnvVar)
	}
}
