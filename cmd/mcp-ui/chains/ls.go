package chains

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/docker/mcp-ui-servers/pkg/chain"
	"github.com/docker/mcp-ui-servers/pkg/terminal"
)

type stageInfo struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Role      chain.Role     `json:"role"`
	Provider  chain.Provider `json:"provider"`
	Model     string         `json:"model"`
	APIKeyEnv string         `json:"apiKeyEnv,omitempty"`
	Ready     bool           `json:"ready"`
}

type chainInfo struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Default     bool        `json:"default"`
	Stages      []stageInfo `json:"stages"`
}

func describe(catalog *chain.Catalog, credentials *chain.Credentials) []chainInfo {
	var infos []chainInfo
	for _, key := range catalog.Keys() {
		c, ok := catalog.Lookup(key)
		if !ok {
			continue
		}
		info := chainInfo{
			Key:         key,
			Name:        c.Name,
			Description: c.Description,
			Default:     key == catalog.DefaultKey(),
		}
		for _, stage := range c.Stages {
			_, _, ready := credentials.Resolve(stage)
			info.Stages = append(info.Stages, stageInfo{
				ID:        stage.ID,
				Label:     stage.Label,
				Role:      stage.Role,
				Provider:  stage.Provider,
				Model:     stage.Model,
				APIKeyEnv: stage.APIKeyEnv,
				Ready:     ready,
			})
		}
		infos = append(infos, info)
	}
	return infos
}

// List prints the chains of catalog, either as JSON or as a listing sized to
// the terminal.
func List(w io.Writer, catalog *chain.Catalog, credentials *chain.Credentials, outputJSON bool) error {
	infos := describe(catalog, credentials)

	if outputJSON {
		buf, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(buf))
		return err
	}

	width := terminal.GetWidthFrom(w)
	lineWidth := min(width-4, 78)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  \033[1mModel chains\033[0m\n")
	fmt.Fprintf(w, "  %d chains available\n", len(infos))
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", max(lineWidth, 10)))

	for _, info := range infos {
		fmt.Fprintln(w)
		suffix := ""
		if info.Default {
			suffix = " (default)"
		}
		fmt.Fprintf(w, "  \033[1m%s\033[0m %s%s\n", info.Key, info.Name, suffix)
		if info.Description != "" {
			fmt.Fprintf(w, "    %s\n", terminal.Truncate(info.Description, width-6))
		}
		for i, stage := range info.Stages {
			status := greenCircle
			if !stage.Ready {
				status = redCircle
			}
			line := fmt.Sprintf("%d. %s [%s] %s/%s", i+1, stage.Label, stage.Role, stage.Provider, stage.Model)
			fmt.Fprintf(w, "    %s %s\n", status, terminal.Truncate(line, width-8))
		}
	}
	fmt.Fprintln(w)
	return nil
}
