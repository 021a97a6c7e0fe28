// Command uishowcase renders component showcase examples to JSX and serves
// them to editors, agents and browsers.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gnana997/uishowcase/pkg/util"
)

const version = "0.1.0-dev"

// app carries per-invocation state shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{v: viper.New(), stdin: stdin, stdout: stdout, stderr: stderr, logger: util.NopLogger()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "uishowcase",
		Short: "Render and serve JSX samples for a component showcase",
		Long: `uishowcase turns element definitions (YAML or JSON) into JSX source text,
the way a documentation site shows "code" for a live example.

Quick Start:
  uishowcase render button.yaml      Print the JSX for one element
  uishowcase inspect Button -e       Show a component and its examples
  uishowcase build --out snippets    Write every example as a .tsx file
  uishowcase serve                   Start the MCP server on stdio
  uishowcase http                    Start the HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := readConfig(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = util.NewLogger(util.LoggerConfig{
				Level:  util.LogLevel(cfg.LogLevel),
				Format: util.LogFormat(cfg.LogFormat),
				Output: a.stderr,
			})
			if used := a.v.ConfigFileUsed(); used != "" {
				a.logger.Debug("using config file", "path", used)
			}
			return nil
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default .uishowcase/config.yaml, or "+envConfigFile+")")
	flags.String("catalog", "", "catalog file (YAML or JSON)")
	flags.String("catalog-dir", "", "directory of *.catalog.{yaml,yml,json} fragments")
	flags.String("icons", "", "icon list file, one kebab-case name per line")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	_ = a.v.BindPFlag("catalog_path", flags.Lookup("catalog"))
	_ = a.v.BindPFlag("catalog_dir", flags.Lookup("catalog-dir"))
	_ = a.v.BindPFlag("icons_path", flags.Lookup("icons"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(
		newRenderCmd(a),
		newCheckCmd(a),
		newBuildCmd(a),
		newInspectCmd(a),
		newIconsCmd(a),
		newServeCmd(a),
		newHTTPCmd(a),
		newSetupCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "uishowcase %s\n", version)
		},
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
