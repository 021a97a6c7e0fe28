package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/jsx"
)

const maxWidth = 80

func newInspectCmd(a *app) *cobra.Command {
	var (
		layout       layoutFlags
		showExamples bool
	)
	cmd := &cobra.Command{
		Use:   "inspect NAME",
		Short: "Show a component's import, props, parts and (optionally) rendered examples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := layout.options(cmd, a.cfg)
			if err != nil {
				return err
			}
			qs, err := a.cfg.loadCatalog(nil)
			if err != nil {
				return err
			}
			comp, ok := qs.GetComponent(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", catalog.ErrComponentNotFound, args[0])
			}
			p := &inspectPrinter{w: a.stdout}
			p.component(qs, comp, args[0], showExamples, opts)
			return nil
		},
	}
	layout.register(cmd)
	cmd.Flags().BoolVarP(&showExamples, "examples", "e", false, "render the component's examples")
	return cmd
}

type inspectPrinter struct {
	w io.Writer
}

func (p *inspectPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *inspectPrinter) println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// component prints a human-readable component summary.
func (p *inspectPrinter) component(qs *catalog.QueryService, comp *catalog.Component, requestedName string, showExamples bool, opts jsx.Options) {
	header := comp.Name
	if !strings.EqualFold(requestedName, comp.Name) {
		header = fmt.Sprintf("%s  (part of %s)", requestedName, comp.Name)
	}
	p.printf("%s  [%s]\n", header, comp.Category)

	if comp.Description != "" {
		p.println()
		p.wrapped(comp.Description, 0, maxWidth)
	}

	p.println()
	p.println("Import")
	p.printf("  %s\n", catalog.ImportStatement{Path: comp.ImportPath, Names: comp.ImportedNames})

	p.println()
	p.props("Props", comp.Props)

	var parts []string
	for _, name := range comp.ImportedNames {
		if name != comp.Name {
			parts = append(parts, name)
		}
	}
	p.println()
	if len(parts) == 0 {
		p.println("Parts  (none)")
	} else {
		p.println("Parts")
		p.printf("  %s\n", strings.Join(parts, ", "))
	}

	p.println()
	if len(comp.Examples) == 0 {
		p.println("Examples  (none)")
		return
	}
	if !showExamples {
		titles := make([]string, len(comp.Examples))
		for i, ex := range comp.Examples {
			titles[i] = ex.Title
		}
		p.printf("Examples  %s  (use --examples to render)\n", strings.Join(titles, ", "))
		return
	}

	p.println("Examples")
	for _, ex := range comp.Examples {
		rendered := qs.Render(comp, ex, opts)
		p.println()
		p.printf("  %s\n", ex.Title)
		if ex.Description != "" {
			p.printf("  %s\n", ex.Description)
		}
		p.println("  " + strings.Repeat("─", 40))
		for _, line := range strings.Split(strings.TrimSuffix(rendered.Sample(), "\n"), "\n") {
			p.printf("  %s\n", line)
		}
	}
}

// props renders the props table with dynamic column widths.
func (p *inspectPrinter) props(title string, props []catalog.Prop) {
	if len(props) == 0 {
		p.printf("%s  (none)\n", title)
		return
	}

	p.println(title)

	nameW := len("NAME")
	typeW := len("TYPE")
	defW := len("DEFAULT")
	for _, prop := range props {
		nameW = max(nameW, len(prop.Name))
		typeW = max(typeW, len(prop.Type))
		defW = max(defW, len(defaultOrDash(prop.Default)))
	}

	sepLen := nameW + typeW + 5 + defW + 4
	p.printf("  %-*s  %-*s  %-3s  %-*s\n", nameW, "NAME", typeW, "TYPE", "REQ", defW, "DEFAULT")
	p.printf("  %s\n", strings.Repeat("─", sepLen))

	for _, prop := range props {
		req := "no"
		if prop.Required {
			req = "yes"
		}
		p.printf("  %-*s  %-*s  %-3s  %s\n", nameW, prop.Name, typeW, prop.Type, req, defaultOrDash(prop.Default))

		if prop.Description != "" {
			p.printf("  %s  %s\n", strings.Repeat(" ", nameW), prop.Description)
		}
		if len(prop.AllowedValues) > 0 {
			allowed := strings.Join(prop.AllowedValues, " | ")
			p.printf("  %s  allowed: %s\n", strings.Repeat(" ", nameW), wrapAllowed(allowed, nameW+13))
		}
	}
}

func defaultOrDash(def string) string {
	if def == "" {
		return "-"
	}
	return def
}

// wrapAllowed wraps the allowed values string if it exceeds maxWidth.
func wrapAllowed(allowed string, indent int) string {
	if indent+len(allowed) <= maxWidth {
		return allowed
	}
	parts := strings.Split(allowed, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3 // " | "
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// wrapped prints text word-wrapped at width with the given left indent.
func (p *inspectPrinter) wrapped(text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		switch {
		case line == prefix:
			line += word
		case len(line)+len(word)+1 > width:
			p.println(line)
			line = prefix + word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		p.println(line)
	}
}
