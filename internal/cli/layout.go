package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/carousel/pkg/layout"
	"github.com/matzehuels/carousel/pkg/pipeline"
)

// layoutCommand creates the layout command for computing keylines.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		lf      layoutFlags
		of      outputFlags
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the keyline layout of a carousel",
		Long: `Compute the keyline layout of a carousel.

Keylines come either from explicit item sizes (--sizes) or from a strategy:

  uncontained   as many --item-size items as fit, plus one partial item
  multi-browse  large, medium and small items sized around --preferred
  hero          one large item with small peeking neighbours

Results are cached locally for faster subsequent runs.`,
		Example: `  carousel layout --sizes 100,100,40 --anchors --main-axis 360
  carousel layout -s uncontained --item-size 120 -f json -o keylines.json
  carousel layout -s hero -a center --preferred 240`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(cmd)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), opts, of, noCache)
		},
	}

	lf.register(cmd.Flags())
	of.register(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, w io.Writer, opts pipeline.Options, of outputFlags, noCache bool) error {
	format, err := of.resolve(w)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newProgress(loggerFromContext(ctx))
	l, hit, err := runner.KeylinesWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d keylines", len(l.Keylines)))

	if err := writeLayoutOutput(of.output, l); err != nil {
		return err
	}

	if format == formatJSON {
		return writeJSON(w, l)
	}
	if format == formatTable {
		printLayoutSummary(w, l)
	}
	printRows(w, format, keylineHeaders, keylineRows(l), func() string { return renderKeylineTable(l) })
	if format == formatTable {
		printStats(w, len(l.Keylines), l.ItemCount, hit)
		if of.output != "" {
			printFile(w, of.output)
		}
	}
	return nil
}

// snapCommand creates the snap command.
func (c *CLI) snapCommand() *cobra.Command {
	var (
		lf      layoutFlags
		of      outputFlags
		scroll  float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Print snap offsets and the nearest item to a scroll offset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(cmd)
			if err != nil {
				return err
			}
			var at *float64
			if cmd.Flags().Changed("scroll") {
				at = &scroll
			}
			return c.runSnap(cmd.Context(), cmd.OutOrStdout(), opts, of, at, noCache)
		},
	}

	lf.register(cmd.Flags())
	of.register(cmd.Flags())
	cmd.Flags().Float64Var(&scroll, "scroll", 0, "report the item nearest to this scroll offset")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// SnapReport is the JSON output of `carousel snap`.
type SnapReport struct {
	ItemStep    float64   `json:"item_step"`
	MaxScroll   float64   `json:"max_scroll"`
	SnapOffsets []float64 `json:"snap_offsets"`
	Scroll      *float64  `json:"scroll,omitempty"`
	Nearest     *int      `json:"nearest,omitempty"`
}

func (c *CLI) runSnap(ctx context.Context, w io.Writer, opts pipeline.Options, of outputFlags, scroll *float64, noCache bool) error {
	format, err := of.resolve(w)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	l, err := runner.Keylines(ctx, opts)
	if err != nil {
		return err
	}
	if err := writeLayoutOutput(of.output, l); err != nil {
		return err
	}
	car, err := layout.Parse(l)
	if err != nil {
		return err
	}

	report := SnapReport{
		ItemStep:    car.ItemStep(),
		MaxScroll:   car.MaxScroll(),
		SnapOffsets: car.SnapOffsets(),
	}
	if scroll != nil {
		n := car.Nearest(*scroll)
		report.Scroll = scroll
		report.Nearest = &n
	}

	if format == formatJSON {
		return writeJSON(w, report)
	}

	rows := make([][]string, len(report.SnapOffsets))
	for i, off := range report.SnapOffsets {
		mark := ""
		if report.Nearest != nil && *report.Nearest == i {
			mark = "nearest"
		}
		rows[i] = []string{strconv.Itoa(i), formatFloat(off), mark}
	}
	headers := []string{"Item", "Snap offset", ""}

	if format == formatTable {
		fmt.Fprintln(w, StyleTitle.Render("Snap offsets"))
		printDetail(w, "step %s · max scroll %s", formatFloat(report.ItemStep), formatFloat(report.MaxScroll))
		for _, r := range rows {
			line := fmt.Sprintf("  %4s  %10s", r[0], r[1])
			if r[2] != "" {
				line = StyleHighlight.Render(line + "  " + iconArrow + " nearest to " + formatFloat(*scroll))
			}
			fmt.Fprintln(w, line)
		}
		return nil
	}
	fmt.Fprintln(w, renderExport(format, headers, rows))
	return nil
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		lf      layoutFlags
		of      outputFlags
		scroll  float64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Print per-item geometry at a scroll offset",
		Long: `Print per-item geometry at a scroll offset.

Each item is positioned by interpolating between the keylines that bracket
it, so items grow, shrink and get cut off as the carousel scrolls.`,
		Example: `  carousel place -s uncontained --item-size 100 -n 5 --scroll 54`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("scroll") || opts.Scroll == 0 {
				opts.Scroll = scroll
			}
			return c.runPlace(cmd.Context(), cmd.OutOrStdout(), opts, of, noCache)
		},
	}

	lf.register(cmd.Flags())
	of.register(cmd.Flags())
	cmd.Flags().Float64Var(&scroll, "scroll", 0, "scroll offset")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, w io.Writer, opts pipeline.Options, of outputFlags, noCache bool) error {
	format, err := of.resolve(w)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	l := result.Layout
	if err := writeLayoutOutput(of.output, l); err != nil {
		return err
	}

	if format == formatJSON {
		return writeJSON(w, l)
	}
	if format == formatTable {
		fmt.Fprintln(w, StyleTitle.Render("Placements at scroll "+formatFloat(*l.Scroll)))
		printDetail(w, "%d of %d items visible", result.Stats.VisibleCount, result.Stats.ItemCount)
	}
	printRows(w, format, placementHeaders, placementRows(l), func() string { return renderPlacementTable(l) })
	return nil
}

func writeLayoutOutput(path string, l layout.Layout) error {
	if path == "" {
		return nil
	}
	if err := layout.WriteLayoutFile(l, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
