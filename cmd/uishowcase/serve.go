package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/httpapi"
	mcpserver "github.com/gnana997/uishowcase/pkg/mcp"
	"github.com/gnana997/uishowcase/pkg/mcplog"
	"github.com/gnana997/uishowcase/pkg/parser"
	"github.com/gnana997/uishowcase/pkg/util"
	"github.com/gnana997/uishowcase/pkg/verify"
	"github.com/gnana997/uishowcase/pkg/watch"
)

func newServeCmd(a *app) *cobra.Command {
	var watching bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cache := util.NewSourceCache(0, a.logger)
			qs, err := a.cfg.loadCatalog(cache)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			reg, err := a.cfg.loadIcons()
			if err != nil {
				return err
			}

			callLog, err := mcplog.NewLogger(a.cfg.LogPath)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			pm := parser.NewManager(a.logger)
			defer pm.Close()

			srv := mcpserver.NewServer(qs, verify.NewVerifier(pm, a.logger), callLog,
				mcpserver.WithIcons(reg),
				mcpserver.WithRenderOptions(a.cfg.renderOptions()),
			)

			if watching {
				ctx, cancel := signalContext()
				defer cancel()
				stop, err := a.watchCatalog(ctx, cache, srv.SetCatalog)
				if err != nil {
					return err
				}
				defer stop()
			}

			a.logger.Info("mcp server starting", "components", len(qs.Catalog.Components))
			return srv.ServeStdio()
		},
	}
	cmd.Flags().BoolVar(&watching, "watch", false, "reload the catalog when its files change")
	return cmd
}

func newHTTPCmd(a *app) *cobra.Command {
	var watching bool
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Start the HTTP API (catalog, rendering, icons, /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := util.NewSourceCache(0, a.logger)
			qs, err := a.cfg.loadCatalog(cache)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			reg, err := a.cfg.loadIcons()
			if err != nil {
				return err
			}

			srv := httpapi.NewServer(qs, reg,
				httpapi.WithLogger(a.logger),
				httpapi.WithRenderOptions(a.cfg.renderOptions()),
			)

			ctx, cancel := signalContext()
			defer cancel()

			if watching {
				stop, err := a.watchCatalog(ctx, cache, srv.SetCatalog)
				if err != nil {
					return err
				}
				defer stop()
			}

			return srv.ListenAndServe(ctx, a.cfg.HTTP.Addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address (http.addr)")
	_ = a.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	cmd.Flags().BoolVar(&watching, "watch", false, "reload the catalog when its files change")
	return cmd
}

// watchCatalog reloads the configured catalog on change and hands each
// valid result to swap. Invalid edits are logged and the previous catalog
// stays in place.
func (a *app) watchCatalog(ctx context.Context, cache *util.SourceCache, swap func(*catalog.QueryService)) (stop func(), err error) {
	root, patterns, ok := a.cfg.watchRoot()
	if !ok {
		return nil, fmt.Errorf("--watch needs --catalog or --catalog-dir")
	}
	reload := func([]string) error {
		qs, err := a.cfg.loadCatalog(cache)
		if err != nil {
			return err
		}
		swap(qs)
		return nil
	}
	w, err := watch.New(root, reload, watch.Options{Patterns: patterns}, cache, a.logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return func() { _ = w.Stop() }, nil
}
