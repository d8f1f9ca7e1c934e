package chain

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// DisableReviewerEnv drops reviewer stages from every resolved chain when set
// to 1, true, yes or on.
const DisableReviewerEnv = "DISABLE_REVIEWER_STAGE"

// Catalog holds the configured chains. It is safe for concurrent use and can
// be swapped wholesale when the chains file changes.
type Catalog struct {
	mu         sync.RWMutex
	chains     map[string]ModelChain
	defaultKey string

	// Getenv reads the reviewer toggle. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewCatalog validates chains and returns a catalog whose fallback is defaultKey.
func NewCatalog(chains map[string]ModelChain, defaultKey string) (*Catalog, error) {
	c := &Catalog{Getenv: os.Getenv}
	if err := c.Replace(chains, defaultKey); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCatalog returns a catalog of the built-in chains.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultChains(), DefaultChainKey)
	if err != nil {
		panic(err)
	}
	return c
}

// Replace swaps in a new set of chains after validating it.
func (c *Catalog) Replace(chains map[string]ModelChain, defaultKey string) error {
	if defaultKey == "" {
		defaultKey = DefaultChainKey
	}
	if _, ok := chains[defaultKey]; !ok {
		return fmt.Errorf("default chain %q is not defined", defaultKey)
	}
	for key, chain := range chains {
		if err := ValidateChain(chain); err != nil {
			return fmt.Errorf("chain %q: %w", key, err)
		}
	}

	copied := make(map[string]ModelChain, len(chains))
	for key, chain := range chains {
		copied[key] = cloneChain(chain)
	}

	c.mu.Lock()
	c.chains = copied
	c.defaultKey = defaultKey
	c.mu.Unlock()
	return nil
}

// Resolve returns the chain stored under name, or the default chain when
// name is empty or unknown. Reviewer stages are filtered out when the
// DISABLE_REVIEWER_STAGE toggle is on at the time of the call.
func (c *Catalog) Resolve(name string) ModelChain {
	c.mu.RLock()
	chain, ok := c.chains[name]
	if !ok {
		chain = c.chains[c.defaultKey]
	}
	chain = cloneChain(chain)
	c.mu.RUnlock()

	if !ReviewerStageDisabled(c.getenv) {
		return chain
	}

	stages := chain.Stages[:0]
	for _, stage := range chain.Stages {
		if stage.Role != RoleReviewer {
			stages = append(stages, stage)
		}
	}
	chain.Stages = stages
	return chain
}

// Lookup returns the chain stored under key without falling back.
func (c *Catalog) Lookup(key string) (ModelChain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chain, ok := c.chains[key]
	if !ok {
		return ModelChain{}, false
	}
	return cloneChain(chain), true
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.chains))
	for key := range c.chains {
		keys = append(keys, key)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// DefaultKey returns the key Resolve falls back to.
func (c *Catalog) DefaultKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultKey
}

func (c *Catalog) getenv(key string) string {
	if c.Getenv == nil {
		return os.Getenv(key)
	}
	return c.Getenv(key)
}

// ReviewerStageDisabled reports whether the reviewer toggle is on.
func ReviewerStageDisabled(getenv func(string) string) bool {
	switch strings.ToLower(strings.TrimSpace(getenv(DisableReviewerEnv))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func cloneChain(chain ModelChain) ModelChain {
	chain.Stages = append([]AgentStage(nil), chain.Stages...)
	return chain
}
