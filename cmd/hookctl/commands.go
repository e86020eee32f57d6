package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/hookwire/internal/builtin"
	"github.com/dshills/hookwire/internal/manifest"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered hooks by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.build(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HOOK\tPRIORITY\tHANDLER\tARGS")
			for _, name := range rt.Table.Names() {
				r, ok := rt.Table.Get(name)
				if !ok {
					continue
				}
				for _, lvl := range r.Levels() {
					for _, cb := range lvl.Callbacks {
						fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", name, lvl.Priority, cb.ID, cb.AcceptedArgs)
					}
				}
			}
			return w.Flush()
		},
	}
}

func (c *cli) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <hook> <value> [args...]",
		Short: "Run a value through a filter hook and print the result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.build(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			return c.apply(rt, args)
		},
	}
}

// apply filters args[1] through hook args[0] and prints the result.
func (c *cli) apply(rt *manifest.Runtime, args []string) error {
	out, err := rt.Table.ApplyFilters(args[0], args[1], toArgs(args[2:])...)
	if err != nil {
		return fmt.Errorf("apply %s: %w", args[0], err)
	}
	fmt.Fprintln(c.out, out)
	return nil
}

func (c *cli) doCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "do <hook> [args...]",
		Short: "Fire an action hook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.build(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Table.DoAction(args[0], toArgs(args[1:])...); err != nil {
				return fmt.Errorf("do %s: %w", args[0], err)
			}
			fmt.Fprintf(c.out, "%s fired %d time(s)\n", args[0], rt.Table.DidAction(args[0]))
			return nil
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <hook> <value> [args...]",
		Short: "Re-apply a filter hook every time the manifest changes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := c.build(ctx)
			if err != nil {
				return err
			}
			defer func() {
				rt.Close()
			}()

			if err := c.apply(rt, args); err != nil {
				return err
			}

			c.logger.Info().Str("manifest", c.cfg.Manifest).Msg("watching manifest")
			return manifest.Watch(ctx, c.cfg.Manifest, func(m *manifest.Manifest, err error) {
				if err != nil {
					c.logger.Error().Err(err).Msg("manifest reload failed")
					return
				}

				next, err := manifest.BuildFrom(ctx, m, c.catalog, c.buildOptions()...)
				if err != nil {
					c.logger.Error().Err(err).Msg("manifest rebuild failed")
					return
				}
				rt.Close()
				rt = next

				c.logger.Info().Strs("hooks", m.Hooks()).Msg("manifest reloaded")
				if err := c.apply(rt, args); err != nil {
					c.logger.Error().Err(err).Msg("apply failed")
				}
			})
		},
	}
}

func (c *cli) handlersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the builtin handler names a manifest can bind",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, name := range builtin.Names() {
				fmt.Fprintln(c.out, name)
			}
			return nil
		},
	}
}
