package chains

import (
	"fmt"

	"github.com/docker/mcp-ui-servers/pkg/chain"
)

// Load returns the built-in catalog, replaced by the chains file at path when
// one is given.
func Load(path string, getenv func(string) string) (*chain.Catalog, *chain.Credentials, error) {
	catalog := chain.DefaultCatalog()
	catalog.Getenv = getenv
	credentials := chain.NewCredentials(getenv)

	if path == "" {
		return catalog, credentials, nil
	}

	file, err := chain.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if err := file.Apply(catalog, credentials); err != nil {
		return nil, nil, fmt.Errorf("loading chains from %s: %w", path, err)
	}
	return catalog, credentials, nil
}
