package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	// Build the binary once for all integration tests.
	tmp, err := os.MkdirTemp("", "uishowcase-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "uishowcase")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches `uishowcase serve` as a subprocess and returns an
// initialized MCP client.
func startServer(t *testing.T, args ...string) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, append([]string{"serve"}, args...)...)
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "uishowcase-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "uishowcase", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}
	assert.ElementsMatch(t, []string{
		"list_categories",
		"list_components",
		"get_component_examples",
		"search_components",
		"render_element",
		"verify_element",
		"list_icons",
	}, toolNames)
}

func TestIntegration_ListCategories(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "list_categories", nil)
	assert.False(t, result.IsError)

	var cats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &cats))
	require.NotEmpty(t, cats)
	assert.Contains(t, cats[0], "name")
	assert.Contains(t, cats[0], "component_count")
}

func TestIntegration_ListComponents(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	t.Run("filter by category", func(t *testing.T) {
		result := callToolHelper(t, c, "list_components", map[string]any{"category": "actions"})
		assert.False(t, result.IsError)

		var comps []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
		require.NotEmpty(t, comps)
		for _, comp := range comps {
			assert.Equal(t, "actions", comp["category"])
		}
	})

	t.Run("unknown category is an error", func(t *testing.T) {
		result := callToolHelper(t, c, "list_components", map[string]any{"category": "nope"})
		assert.True(t, result.IsError)
	})
}

func TestIntegration_GetComponentExamples(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "get_component_examples", map[string]any{"name": "Button"})
	assert.False(t, result.IsError)

	var examples []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &examples))
	require.NotEmpty(t, examples)
	assert.Equal(t, "Default", examples[0]["title"])
	assert.Equal(t, "<Button>Button</Button>", examples[0]["code"])

	result = callToolHelper(t, c, "get_component_examples", map[string]any{"name": "Carousel"})
	assert.True(t, result.IsError)
}

func TestIntegration_SearchComponents(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "search_components", map[string]any{"query": "button"})
	assert.False(t, result.IsError)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "Button", results[0]["name"])

	result = callToolHelper(t, c, "search_components", map[string]any{"query": "zzz_nonexistent_xyz"})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no components found")
}

func TestIntegration_RenderElement(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "render_element", map[string]any{
		"element": `{"type":"Button","props":{"variant":"outline","size":"sm"},"children":[{"type":"StarIcon"}," Star"]}`,
	})
	require.False(t, result.IsError, resultText(t, result))

	var rendered struct {
		Code    string   `json:"code"`
		Imports []string `json:"imports"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rendered))
	assert.Equal(t, "<Button variant=\"outline\" size=\"sm\">\n  <StarIcon />\n   Star\n</Button>", rendered.Code)
	assert.Equal(t, []string{
		`import { Button } from "@/components/ui/button";`,
		`import { StarIcon } from "lucide-react";`,
	}, rendered.Imports)
}

func TestIntegration_VerifyElement(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "verify_element", map[string]any{
		"element": "type: Card\nchildren:\n  - type: CardTitle\n    children: Hello\n",
	})
	require.False(t, result.IsError, resultText(t, result))

	var vr map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &vr))
	assert.Equal(t, true, vr["ok"])
}

func TestIntegration_ListIcons(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "list_icons", map[string]any{"search": "chevron", "limit": 2})
	assert.False(t, result.IsError)

	var page map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &page))
	assert.Equal(t, true, page["hasMore"])
	assert.Len(t, page["icons"], 2)
}

func TestIntegration_CatalogFlag(t *testing.T) {
	skipIfNotIntegration(t)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tiny
version: "1"
components:
  - name: Chip
    import_path: "@/ui/chip"
    imported_names: [Chip]
    examples:
      - title: Plain
        element: {type: Chip, children: hi}
`), 0644))

	c := startServer(t, "--catalog", path)
	result := callToolHelper(t, c, "list_components", nil)
	require.False(t, result.IsError)

	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
	require.Len(t, comps, 1)
	assert.Equal(t, "Chip", comps[0]["name"])
}
