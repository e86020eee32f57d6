package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/hookwire/internal/builtin"
	"github.com/dshills/hookwire/internal/config"
	"github.com/dshills/hookwire/internal/hook"
	"github.com/dshills/hookwire/internal/logging"
	"github.com/dshills/hookwire/internal/manifest"
)

// cli holds the state shared by the subcommands once flags are parsed.
type cli struct {
	out    io.Writer
	errOut io.Writer

	cfg     config.Config
	logger  zerolog.Logger
	catalog map[string]hook.Handler
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut, logger: zerolog.Nop()}

	var manifestPath, logLevel, logFormat string

	root := &cobra.Command{
		Use:           "hookctl",
		Short:         "Inspect and fire the hooks a manifest defines",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ParseEnv()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("manifest") {
				cfg.Manifest = manifestPath
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.FromConfig(c.errOut, cfg)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			c.catalog = builtin.Catalog(c.logger)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&manifestPath, "manifest", "m", "", "path to the hook manifest (default $HOOKWIRE_MANIFEST or hooks.toml)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "log format: auto, console or json")

	root.AddCommand(
		c.listCmd(),
		c.applyCmd(),
		c.doCmd(),
		c.watchCmd(),
		c.handlersCmd(),
	)
	return root
}

// build loads the configured manifest into a fresh runtime.
func (c *cli) build(ctx context.Context) (*manifest.Runtime, error) {
	return manifest.Build(ctx, c.cfg.Manifest, c.catalog, c.buildOptions()...)
}

func (c *cli) buildOptions() []manifest.Option {
	return []manifest.Option{
		manifest.WithLogger(c.logger),
		manifest.WithScriptTimeout(c.cfg.ScriptTimeout),
	}
}

// toArgs converts command line arguments to hook arguments.
func toArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
