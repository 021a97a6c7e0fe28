package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/jsx"
)

// layoutFlags are the serializer flags shared by render, inspect and build.
type layoutFlags struct {
	indent          int
	indentChar      string
	inlineAttrLimit int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.indent, "indent", 0, "starting indentation depth")
	cmd.Flags().StringVar(&f.indentChar, "indent-char", "", `one indentation level (default two spaces, render.indent_char)`)
	cmd.Flags().IntVar(&f.inlineAttrLimit, "inline-attr-limit", 0, "attribute length that forces a multi-line layout (default 40, negative: any attribute; render.inline_attr_limit)")
}

// options overlays explicitly set flags on the configured defaults.
func (f *layoutFlags) options(cmd *cobra.Command, cfg Config) (jsx.Options, error) {
	opts := cfg.renderOptions()
	if f.indent < 0 {
		return opts, fmt.Errorf("--indent must be non-negative, got %d", f.indent)
	}
	opts.Indent = f.indent
	if cmd.Flags().Changed("indent-char") {
		opts.IndentChar = unescapeIndent(f.indentChar)
	}
	if cmd.Flags().Changed("inline-attr-limit") {
		opts.InlineAttrLimit = f.inlineAttrLimit
	}
	return opts, nil
}

// unescapeIndent lets shells pass a tab as the two characters `\t`.
func unescapeIndent(s string) string {
	return strings.ReplaceAll(s, `\t`, "\t")
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		layout  layoutFlags
		imports bool
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print the JSX for an element definition (YAML or JSON; - reads stdin)",
		Example: `  uishowcase render button.yaml
  echo '{"type":"Button","props":{"variant":"outline"},"children":"Save"}' | uishowcase render -
  uishowcase render card.yaml --indent-char '\t' --imports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := layout.options(cmd, a.cfg)
			if err != nil {
				return err
			}
			el, err := readElement(a.stdin, args[0])
			if err != nil {
				return err
			}

			if imports {
				qs, err := a.cfg.loadCatalog(nil)
				if err != nil {
					return err
				}
				printImports(a.stdout, qs.Index, el)
			}
			fmt.Fprintln(a.stdout, jsx.SerializeElement(el, opts))
			return nil
		},
	}
	layout.register(cmd)
	cmd.Flags().BoolVar(&imports, "imports", false, "prefix the import statements the configured catalog resolves")
	return cmd
}

// readElement decodes an element definition from path, or stdin for "-".
func readElement(stdin io.Reader, path string) (*jsx.Element, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read element: %w", err)
	}

	var el *jsx.Element
	if strings.EqualFold(filepath.Ext(path), ".json") {
		el, err = jsx.DecodeElementJSON(data)
	} else {
		el, err = jsx.DecodeElementYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return el, nil
}

func printImports(w io.Writer, idx *catalog.CatalogIndex, el *jsx.Element) {
	stmts := idx.ImportsFor(el)
	for _, stmt := range stmts {
		fmt.Fprintln(w, stmt.String())
	}
	if len(stmts) > 0 {
		fmt.Fprintln(w)
	}
}
