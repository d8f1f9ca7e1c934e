package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// File is the on-disk chains configuration. YAML files use the .yaml or .yml
// extension; .json, .jsonc and .hujson files may carry comments and trailing
// commas.
//
//	default: default
//	fallbackKeys:
//	  openai: sk-...
//	chains:
//	  default:
//	    name: design-review-generate
//	    stages:
//	      - id: planner
//	        ...
type File struct {
	Default      string                `yaml:"default,omitempty" json:"default,omitempty"`
	FallbackKeys map[Provider]string   `yaml:"fallbackKeys,omitempty" json:"fallbackKeys,omitempty"`
	Chains       map[string]ModelChain `yaml:"chains" json:"chains" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads and validates a chains file.
func LoadFile(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chains file: %w", err)
	}
	return ParseFile(buf, filepath.Ext(path))
}

// ParseFile decodes a chains file with the format implied by ext.
func ParseFile(buf []byte, ext string) (*File, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".json", ".jsonc", ".hujson":
		standard, err := hujson.Standardize(buf)
		if err != nil {
			return nil, fmt.Errorf("parsing chains file: %w", err)
		}
		if err := json.Unmarshal(standard, &file); err != nil {
			return nil, fmt.Errorf("decoding chains file: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(buf, &file); err != nil {
			return nil, fmt.Errorf("decoding chains file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported chains file extension %q", ext)
	}

	if file.Default == "" {
		file.Default = DefaultChainKey
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid chains file: %w", err)
	}
	if _, ok := file.Chains[file.Default]; !ok {
		return nil, fmt.Errorf("invalid chains file: default chain %q is not defined", file.Default)
	}
	for key, chain := range file.Chains {
		if err := ValidateChain(chain); err != nil {
			return nil, fmt.Errorf("invalid chains file: chain %q: %w", key, err)
		}
	}
	return &file, nil
}

// Apply installs the file's chains into catalog and its fallback keys into
// credentials. The catalog is left untouched when the chains are rejected.
func (f *File) Apply(catalog *Catalog, credentials *Credentials) error {
	if err := catalog.Replace(f.Chains, f.Default); err != nil {
		return err
	}
	credentials.SetFallbacks(f.FallbackKeys)
	return nil
}

// ValidateChain checks field constraints plus the rules that span stages:
// stage ids are unique and at most one stage is a generator. A chain without
// a generator is accepted here and fails when it runs.
func ValidateChain(chain ModelChain) error {
	if err := validate.Struct(chain); err != nil {
		return err
	}

	seen := map[string]bool{}
	generators := 0
	for _, stage := range chain.Stages {
		if seen[stage.ID] {
			return fmt.Errorf("duplicate stage id %q", stage.ID)
		}
		seen[stage.ID] = true
		if stage.Role == RoleGenerator {
			generators++
		}
	}
	if generators > 1 {
		return errors.New("more than one generator stage")
	}
	return nil
}
