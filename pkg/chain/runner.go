package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/mcp-ui-servers/pkg/log"
	"github.com/docker/mcp-ui-servers/pkg/telemetry"
)

// Runner executes chains from a catalog.
type Runner struct {
	Catalog     *Catalog
	Credentials *Credentials
	Invoker     Invoker
}

// NewRunner wires a runner that calls providers over HTTP.
func NewRunner(catalog *Catalog, credentials *Credentials, getenv func(string) string) *Runner {
	return &Runner{
		Catalog:     catalog,
		Credentials: credentials,
		Invoker:     NewHTTPInvoker(credentials, getenv),
	}
}

// Run resolves the requested chain, checks credentials and executes its stages
// in order. The first failing stage aborts the run and its error is returned
// unchanged so callers can match it with errors.As.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	chain := r.Catalog.Resolve(req.Chain)

	if missing := r.Credentials.Precheck(chain); len(missing) > 0 {
		return nil, &MissingCredentialsError{Chain: chain.Name, Missing: missing}
	}

	prompt := ComposePrompt(req)
	result := &Result{Chain: chain.Name}

	for _, stage := range chain.Stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("chain %s cancelled before stage %s: %w", chain.Name, stage.ID, err)
		}

		messages := BuildMessages(stage.Role, prompt, result.Plan, result.Review)

		stageCtx, span := telemetry.StartStageSpan(ctx, chain.Name, stage.ID, string(stage.Provider), stage.Model)
		start := time.Now()
		text, err := r.Invoker.Invoke(stageCtx, stage, messages)
		elapsed := time.Since(start)
		telemetry.EndStageSpan(stageCtx, span, chain.Name, stage.ID, elapsed, err)

		if err != nil {
			log.Logf("! Chain %s stage %s (%s/%s) failed after %s: %v", chain.Name, stage.ID, stage.Provider, stage.Model, elapsed.Round(time.Millisecond), err)
			return nil, err
		}
		log.Logf("- Chain %s stage %s (%s/%s) done in %s", chain.Name, stage.ID, stage.Provider, stage.Model, elapsed.Round(time.Millisecond))

		result.Stages = append(result.Stages, StageRun{
			StageID:  stage.ID,
			Role:     stage.Role,
			Provider: stage.Provider,
			Model:    stage.Model,
			Duration: elapsed,
		})

		switch stage.Role {
		case RolePlanner:
			result.Plan = text
		case RoleReviewer:
			result.Review = text
		default:
			result.HTML = Sanitize(text)
		}
	}

	if result.HTML == "" {
		return nil, ErrNoHTMLOutput
	}
	return result, nil
}
