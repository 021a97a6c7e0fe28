package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/parser"
	"github.com/gnana997/uishowcase/pkg/render"
	"github.com/gnana997/uishowcase/pkg/util"
	"github.com/gnana997/uishowcase/pkg/verify"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		layout   layoutFlags
		outDir   string
		workers  int
		verified bool
		watching bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write every catalog example to <out>/<component>/<example>.tsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := layout.options(cmd, a.cfg)
			if err != nil {
				return err
			}

			builderOpts := []render.Option{render.WithOptions(opts), render.WithWorkers(workers)}
			if verified {
				pm := parser.NewManager(a.logger)
				defer pm.Close()
				builderOpts = append(builderOpts, render.WithVerifier(verify.NewVerifier(pm, a.logger)))
			}
			builder := render.NewBuilder(a.logger, builderOpts...)

			ctx, cancel := signalContext()
			defer cancel()

			cache := util.NewSourceCache(0, a.logger)
			qs, err := a.cfg.loadCatalog(cache)
			if err != nil {
				return err
			}
			if err := a.runBuild(ctx, builder, qs, outDir); err != nil {
				if !watching {
					return err
				}
				a.logger.Warn("initial build failed", "error", err)
			}
			if !watching {
				return nil
			}

			rebuild := func(qs *catalog.QueryService) {
				if err := a.runBuild(ctx, builder, qs, outDir); err != nil {
					a.logger.Warn("rebuild failed", "error", err)
				}
			}
			stop, err := a.watchCatalog(ctx, cache, rebuild)
			if err != nil {
				return err
			}
			defer stop()

			a.logger.Info("watching catalog for changes")
			<-ctx.Done()
			return nil
		},
	}
	layout.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "snippets", "output directory")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "render workers (default: CPU count)")
	cmd.Flags().BoolVar(&verified, "verify", false, "parse every snippet back before writing it")
	cmd.Flags().BoolVar(&watching, "watch", false, "rebuild when catalog files change")
	return cmd
}

func (a *app) runBuild(ctx context.Context, b *render.Builder, qs *catalog.QueryService, outDir string) error {
	summary, err := b.Build(ctx, qs, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "wrote %d snippet(s) to %s\n", summary.Written, outDir)
	if summary.Failed > 0 {
		for _, e := range summary.Errors {
			fmt.Fprintf(a.stderr, "  ! %v\n", e)
		}
		return fmt.Errorf("%d snippet(s) failed", summary.Failed)
	}
	return nil
}
