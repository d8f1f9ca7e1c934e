package chains

import (
	"fmt"
	"io"

	"github.com/docker/mcp-ui-servers/pkg/chain"
)

const (
	redColor   = "\033[31m"
	greenColor = "\033[32m"
	resetColor = "\033[0m"
)

var (
	greenCircle = fmt.Sprintf("%s●%s", greenColor, resetColor)
	redCircle   = fmt.Sprintf("%s●%s", redColor, resetColor)
)

// Check reports, without calling any model, whether every stage of the chain
// stored under key can resolve its API key. An empty key checks the default
// chain.
func Check(w io.Writer, catalog *chain.Catalog, credentials *chain.Credentials, key string) error {
	if key == "" {
		key = catalog.DefaultKey()
	}
	c, ok := catalog.Lookup(key)
	if !ok {
		return fmt.Errorf("chain %q not found", key)
	}

	fmt.Fprintf(w, "Chain %s (%s):\n", key, c.Name)
	for _, stage := range c.Stages {
		_, source, ok := credentials.Resolve(stage)
		switch {
		case !ok:
			fmt.Fprintf(w, " %s %s: %s is not set\n", redCircle, stage.Label, stage.APIKeyEnv)
		case source == "":
			fmt.Fprintf(w, " %s %s: no key required\n", greenCircle, stage.Label)
		default:
			fmt.Fprintf(w, " %s %s: key from %s\n", greenCircle, stage.Label, source)
		}
	}

	if missing := credentials.Precheck(c); len(missing) > 0 {
		return &chain.MissingCredentialsError{Chain: c.Name, Missing: missing}
	}
	return nil
}
