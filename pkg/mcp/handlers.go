package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/icons"
	"github.com/gnana997/uishowcase/pkg/jsx"
	"github.com/gnana997/uishowcase/pkg/verify"
)

type categorySummary struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	ComponentCount int    `json:"component_count"`
}

type componentSummary struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ImportPath   string `json:"import_path"`
	ExampleCount int    `json:"example_count"`
}

type searchResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MatchReason string `json:"match_reason"`
}

type renderedExample struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Imports     []string `json:"imports"`
	Code        string   `json:"code"`
}

type renderResult struct {
	Code    string   `json:"code"`
	Imports []string `json:"imports"`
}

type verifyResult struct {
	OK         bool              `json:"ok"`
	Code       string            `json:"code"`
	Mismatches []verify.Mismatch `json:"mismatches"`
}

func (s *Server) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs := s.catalog()
	cats := qs.ListCategories()
	out := make([]categorySummary, len(cats))
	for i, c := range cats {
		out[i] = categorySummary{Name: c.Name, Description: c.Description, ComponentCount: len(c.Components)}
	}
	return jsonResult(out)
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs := s.catalog()
	category := req.GetString("category", "")
	keyword := req.GetString("keyword", "")

	if category != "" {
		if _, ok := qs.Index.CategoryByName[category]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("category not found: %s", category)), nil
		}
	}

	comps := qs.ListComponents(category, keyword)
	out := make([]componentSummary, len(comps))
	for i, c := range comps {
		out[i] = componentSummary{
			Name:         c.Name,
			Description:  c.Description,
			Category:     c.Category,
			ImportPath:   c.ImportPath,
			ExampleCount: len(c.Examples),
		}
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponentExamples(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts, err := s.renderOptions(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rendered, err := s.catalog().RenderExamples(name, opts)
	if err != nil {
		if errors.Is(err, catalog.ErrComponentNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("component not found: %s", name)), nil
		}
		return nil, err
	}

	out := make([]renderedExample, len(rendered))
	for i, r := range rendered {
		out[i] = renderedExample{
			Title:       r.Title,
			Slug:        r.Slug,
			Description: r.Description,
			Imports:     r.Imports,
			Code:        r.Code,
		}
	}
	return jsonResult(out)
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := s.catalog().SearchComponents(query)
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no components found matching %q", query)), nil
	}

	out := make([]searchResult, len(results))
	for i, r := range results {
		out[i] = searchResult{
			Name:        r.Component.Name,
			Description: r.Component.Description,
			Category:    r.Component.Category,
			MatchReason: r.MatchReason,
		}
	}
	return jsonResult(out)
}

func (s *Server) handleRenderElement(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	el, err := elementArgument(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts, err := s.renderOptions(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stmts := s.catalog().Index.ImportsFor(el)
	imports := make([]string, len(stmts))
	for i, stmt := range stmts {
		imports[i] = stmt.String()
	}
	return jsonResult(renderResult{Code: jsx.SerializeElement(el, opts), Imports: imports})
}

func (s *Server) handleVerifyElement(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.verifier == nil {
		return mcp.NewToolResultError("verification is not available: no TSX parser configured"), nil
	}
	el, err := elementArgument(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.verifier.Check(el, s.render)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("verification failed to run: %v", err)), nil
	}
	mismatches := result.Mismatches
	if mismatches == nil {
		mismatches = []verify.Mismatch{}
	}
	return jsonResult(verifyResult{OK: result.OK(), Code: result.Code, Mismatches: mismatches})
}

func (s *Server) handleListIcons(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := s.icons.List(icons.Query{
		Page:   req.GetInt("page", 1),
		Limit:  req.GetInt("limit", icons.DefaultLimit),
		Search: req.GetString("search", ""),
	})
	return jsonResult(page)
}

// --- argument helpers ---

// elementArgument decodes the "element" argument. Text is decoded as
// YAML/JSON with key order kept; an object argument has already lost its
// key order in transit and renders with props sorted by name.
func elementArgument(req mcp.CallToolRequest) (*jsx.Element, error) {
	switch v := req.GetArguments()["element"].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("element must not be empty")
		}
		return jsx.DecodeElementYAML([]byte(v))
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid element: %w", err)
		}
		return jsx.DecodeElementJSON(data)
	case nil:
		return nil, fmt.Errorf("required argument \"element\" not found")
	default:
		return nil, fmt.Errorf("element must be a JSON or YAML string, got %T", v)
	}
}

func (s *Server) renderOptions(req mcp.CallToolRequest) (jsx.Options, error) {
	opts := s.render
	indent := req.GetInt("indent", opts.Indent)
	if indent < 0 {
		return opts, fmt.Errorf("indent must be non-negative, got %d", indent)
	}
	opts.Indent = indent
	if ch := req.GetString("indent_char", ""); ch != "" {
		opts.IndentChar = ch
	}
	if limit := req.GetInt("inline_attr_limit", 0); limit != 0 {
		opts.InlineAttrLimit = limit
	}
	return opts, nil
}

// jsonResult marshals v and wraps it as a text result. HTML escaping is off
// so JSX stays readable.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(strings.TrimSuffix(b.String(), "\n")), nil
}
