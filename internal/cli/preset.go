package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/carousel/pkg/preset"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Save, list and render named layout requests",
		Long: `Save, list and render named layout requests.

A preset stores the layout flags as given. Config defaults are applied when
the preset is rendered, so presets follow later changes to the config file.`,
	}

	cmd.AddCommand(c.presetSaveCommand())
	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetShowCommand())
	cmd.AddCommand(c.presetDeleteCommand())

	return cmd
}

// presetSaveCommand creates the "preset save" subcommand.
func (c *CLI) presetSaveCommand() *cobra.Command {
	var (
		lf          layoutFlags
		description string
	)

	cmd := &cobra.Command{
		Use:     "save NAME",
		Short:   "Save the layout flags as a named preset",
		Example: `  carousel preset save gallery -s multi-browse --preferred 240 -n 12 --description "photo gallery"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			opts, err := lf.options(cmd)
			if err != nil {
				return err
			}
			p, err := preset.New(args[0], description, opts)
			if err != nil {
				return err
			}

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(ctx, p); err != nil {
				return err
			}
			printSuccess(w, "Saved preset %s", StyleHighlight.Render(p.Name))
			printNextStep(w, "Render it", "carousel preset show "+p.Name)
			return nil
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().StringVar(&description, "description", "", "preset description")

	return cmd
}

// presetListCommand creates the "preset list" subcommand.
func (c *CLI) presetListCommand() *cobra.Command {
	var of outputFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved presets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			format, err := of.resolve(w)
			if err != nil {
				return err
			}
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			presets, err := store.List(ctx)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(w, presets)
			}
			if format == formatTable && len(presets) == 0 {
				printInfo(w, "No presets saved")
				printNextStep(w, "Save one", "carousel preset save NAME --sizes 100,100,40")
				return nil
			}
			rows := presetRows(presets)
			printRows(w, format, presetHeaders, rows, func() string { return renderRowsTable(presetHeaders, rows) })
			return nil
		},
	}

	of.register(cmd.Flags())
	return cmd
}

// presetShowCommand creates the "preset show" subcommand.
func (c *CLI) presetShowCommand() *cobra.Command {
	var (
		of      outputFlags
		scroll  float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Render a preset at a scroll offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			p, err := store.Get(ctx, args[0])
			store.Close()
			if err != nil {
				return err
			}

			opts := p.Options.Clone()
			if cmd.Flags().Changed("scroll") {
				opts.Scroll = scroll
			}
			if format, _ := of.resolve(cmd.OutOrStdout()); format == formatTable {
				printKeyValue(cmd.OutOrStdout(), "Preset", p.Name)
				if p.Description != "" {
					printKeyValue(cmd.OutOrStdout(), "Description", p.Description)
				}
			}
			return c.runPlace(ctx, cmd.OutOrStdout(), opts, of, noCache)
		},
	}

	of.register(cmd.Flags())
	cmd.Flags().Float64Var(&scroll, "scroll", 0, "scroll offset (default from the preset)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// presetDeleteCommand creates the "preset delete" subcommand.
func (c *CLI) presetDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted preset %s", args[0])
			return nil
		},
	}
}

var presetHeaders = []string{"Name", "Strategy", "Items", "Updated", "Description"}

func presetRows(presets []*preset.Preset) [][]string {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		items := "-"
		if n := len(p.Options.Items); n > 0 {
			items = strconv.Itoa(n)
		} else if p.Options.ItemCount > 0 {
			items = strconv.Itoa(p.Options.ItemCount)
		}
		rows[i] = []string{
			p.Name,
			orDash(p.Options.Strategy),
			items,
			p.UpdatedAt.Local().Format(time.DateTime),
			p.Description,
		}
	}
	return rows
}
