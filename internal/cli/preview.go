package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/layout"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		lf      layoutFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Scroll a carousel interactively in the terminal",
		Long: `Scroll a carousel interactively in the terminal.

Arrow keys drag the carousel; it snaps to the nearest item when you stop.
Digits and tab select an item from the tab bar and scroll to it. The tab bar
follows the item the carousel settles on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New(errors.ErrCodeUnsupported, "preview requires a terminal")
			}
			opts, err := lf.options(cmd)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			l, err := runner.Keylines(cmd.Context(), opts)
			runner.Cache.Close()
			if err != nil {
				return err
			}
			car, err := layout.Parse(l)
			if err != nil {
				return err
			}
			return runPreview(cmd.Context(), car, previewTitle(l))
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runPreview runs the preview program with a [carousel.Sync] between the
// tab bar and the carousel's scroll position.
func runPreview(parent context.Context, car *carousel.Carousel, title string) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	selections := make(chan int)
	settled := make(chan int)

	model := newPreviewModel(car, title).withSync(selections, settled, ctx.Done())
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	link := carousel.NewSync(
		carousel.ScrollerFunc(func(_ context.Context, index int) error {
			p.Send(scrollToMsg{index: index})
			return nil
		}),
		func(index int) { p.Send(selectedMsg{index: index}) },
		0,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return link.Run(gctx, selections, settled) })
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})

	err := g.Wait()
	if parent.Err() != nil {
		return parent.Err()
	}
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func previewTitle(l layout.Layout) string {
	title := "Carousel preview"
	if l.Strategy != "" {
		title += " (" + l.Strategy + ")"
	}
	return title
}
