package mcp

import "github.com/mark3labs/mcp-go/mcp"

// ToolNames lists the tools in registration order.
var ToolNames = []string{
	"list_categories",
	"list_components",
	"get_component_examples",
	"search_components",
	"render_element",
	"verify_element",
	"list_icons",
}

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("Returns category names, descriptions and component counts"),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("Lists components, optionally filtered by category and/or a keyword matched against name and description"),
		mcp.WithString("category", mcp.Description("Category name to filter by")),
		mcp.WithString("keyword", mcp.Description("Case-insensitive keyword")),
	)
}

func getComponentExamplesTool() mcp.Tool {
	return mcp.NewTool("get_component_examples",
		mcp.WithDescription("Renders every example of a component to JSX with its import statements. Part names (e.g. DialogTrigger) resolve to their component"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component or part name")),
		mcp.WithNumber("indent", mcp.Description("Starting indentation depth (default 0)")),
		mcp.WithString("indent_char", mcp.Description("One indentation level (default two spaces)")),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Searches components by name, description, props, part names and example titles"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	)
}

func renderElementTool() mcp.Tool {
	return mcp.NewTool("render_element",
		mcp.WithDescription("Serializes an element definition to JSX. The element is a JSON or YAML document "+
			`such as {"type":"Button","props":{"variant":"outline"},"children":"Save"}. `+
			`Markers: {"$func":"name"} for function props, {"$element":{...}} for element props, {"$undefined":true}`),
		mcp.WithString("element", mcp.Required(), mcp.Description("Element definition (JSON or YAML text; prop order is preserved)")),
		mcp.WithNumber("indent", mcp.Description("Starting indentation depth (default 0)")),
		mcp.WithString("indent_char", mcp.Description("One indentation level (default two spaces)")),
		mcp.WithNumber("inline_attr_limit", mcp.Description("Attribute length above which elements with children break onto several lines (default 40; negative breaks whenever attributes are present)")),
	)
}

func verifyElementTool() mcp.Tool {
	return mcp.NewTool("verify_element",
		mcp.WithDescription("Serializes an element definition, parses the JSX back with a TSX parser and reports any difference in tags, attribute names, text or children"),
		mcp.WithString("element", mcp.Required(), mcp.Description("Element definition (JSON or YAML text)")),
	)
}

func listIconsTool() mcp.Tool {
	return mcp.NewTool("list_icons",
		mcp.WithDescription("Lists icon names (kebab-case and component name), paginated and optionally filtered"),
		mcp.WithNumber("page", mcp.Description("1-based page (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50, max 200)")),
		mcp.WithString("search", mcp.Description("Case-insensitive substring; spaces match dashes")),
	)
}
