package gateway

import (
	"fmt"
	"slices"
	"strings"
)

const (
	VariantLibreChat = "librechat"
	VariantDemo      = "demo"
	VariantTasks     = "tasks"
	VariantAll       = "all"
)

// Variants lists the tool sets a server can expose.
var Variants = []string{VariantLibreChat, VariantDemo, VariantTasks, VariantAll}

// NormalizeVariant lower-cases variant, defaults it to librechat and rejects
// unknown names.
func NormalizeVariant(variant string) (string, error) {
	variant = strings.ToLower(strings.TrimSpace(variant))
	if variant == "" {
		return VariantLibreChat, nil
	}
	if !slices.Contains(Variants, variant) {
		return "", fmt.Errorf("unknown variant %q, expected one of %s", variant, strings.Join(Variants, ", "))
	}
	return variant, nil
}

func (g *Gateway) serves(variant string) bool {
	return g.Variant == VariantAll || g.Variant == variant
}

// toolRegistrations returns the tools of the configured variant. host is the
// Host of the request that opened the session; tasks tools point their
// iframes back at it.
func (g *Gateway) toolRegistrations(host string) []ToolRegistration {
	var tools []ToolRegistration
	if g.serves(VariantLibreChat) {
		tools = append(tools, librechatStaticTools()...)
		tools = append(tools, g.generateUITool())
	}
	if g.serves(VariantDemo) {
		tools = append(tools, demoStaticTools()...)
		tools = append(tools, g.eraserTool(VariantDemo, "generateEraserDiagram"))
	}
	if g.serves(VariantTasks) {
		tools = append(tools, g.tasksTools(host)...)
	}
	return tools
}
