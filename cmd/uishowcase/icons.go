package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gnana997/uishowcase/pkg/icons"
)

func newIconsCmd(a *app) *cobra.Command {
	var q icons.Query
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List icon names as JSON (paginated, optionally filtered)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			reg, err := a.cfg.loadIcons()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(reg.List(q))
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "1-based page")
	cmd.Flags().IntVar(&q.Limit, "limit", icons.DefaultLimit, "page size (max 200)")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "case-insensitive filter; spaces match dashes")
	return cmd
}
