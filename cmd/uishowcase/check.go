package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/jsx"
	"github.com/gnana997/uishowcase/pkg/parser"
	"github.com/gnana997/uishowcase/pkg/verify"
)

func newCheckCmd(a *app) *cobra.Command {
	var layout layoutFlags
	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Render element files (or every catalog example) and parse the JSX back to verify it",
		Long: `check serializes each element, parses the output with a TSX parser and
compares tags, attribute names, text and children with the definition.
Without arguments every example of the configured catalog is checked,
including its import block.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := layout.options(cmd, a.cfg)
			if err != nil {
				return err
			}

			pm := parser.NewManager(a.logger)
			defer pm.Close()
			v := verify.NewVerifier(pm, a.logger)

			var failed, total int
			if len(args) > 0 {
				for _, path := range args {
					total++
					ok, err := checkFile(a.stdout, a.stdin, v, path, opts)
					if err != nil {
						return err
					}
					if !ok {
						failed++
					}
				}
			} else {
				qs, err := a.cfg.loadCatalog(nil)
				if err != nil {
					return err
				}
				total, failed, err = checkCatalog(a.stdout, v, qs, opts)
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(a.stdout, "\n%d checked, %d failed\n", total, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, total)
			}
			return nil
		},
	}
	layout.register(cmd)
	return cmd
}

func checkFile(w io.Writer, stdin io.Reader, v *verify.Verifier, path string, opts jsx.Options) (bool, error) {
	el, err := readElement(stdin, path)
	if err != nil {
		return false, err
	}
	result, err := v.Check(el, opts)
	if err != nil {
		return false, err
	}
	report(w, path, result.Mismatches)
	return result.OK(), nil
}

func checkCatalog(w io.Writer, v *verify.Verifier, qs *catalog.QueryService, opts jsx.Options) (total, failed int, err error) {
	for i := range qs.Catalog.Components {
		comp := &qs.Catalog.Components[i]
		for _, ex := range comp.Examples {
			total++
			rendered := qs.Render(comp, ex, opts)

			result, err := v.CheckCode(rendered.Code, ex.Element)
			if err != nil {
				return total, failed, err
			}
			missing, err := v.CheckImports(rendered.Sample())
			if err != nil {
				return total, failed, err
			}
			problems := append(result.Mismatches, missing...)

			report(w, comp.Name+"/"+ex.Title, problems)
			if len(problems) > 0 {
				failed++
			}
		}
	}
	return total, failed, nil
}

func report(w io.Writer, label string, problems []verify.Mismatch) {
	if len(problems) == 0 {
		fmt.Fprintf(w, "ok    %s\n", label)
		return
	}
	fmt.Fprintf(w, "FAIL  %s\n", label)
	for _, m := range problems {
		fmt.Fprintf(w, "      %s\n", m)
	}
}
