package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/pipeline"
)

// layoutFlags binds the layout request flags shared by layout, snap, place,
// preview and preset save.
type layoutFlags struct {
	request     string
	strategy    string
	mainAxis    float64
	spacing     float64
	alignment   string
	sizes       []float64
	anchors     bool
	pivot       int
	pivotOffset float64
	itemSize    float64
	preferred   float64
	count       int
	minSmall    float64
	maxSmall    float64
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.request, "request", "r", "", "JSON request file (pipeline options); flags override its fields")
	fs.StringVarP(&f.strategy, "strategy", "s", "", "strategy: explicit, uncontained, multi-browse, hero (default from config)")
	fs.Float64Var(&f.mainAxis, "main-axis", 0, "viewport size along the scroll axis")
	fs.Float64Var(&f.spacing, "spacing", 0, "gap between adjacent items")
	fs.StringVarP(&f.alignment, "alignment", "a", "", "focal alignment: start, center, end")
	fs.Float64SliceVar(&f.sizes, "sizes", nil, "explicit item sizes, e.g. 100,100,40")
	fs.BoolVar(&f.anchors, "anchors", false, "bookend explicit sizes with zero-size anchor items")
	fs.IntVar(&f.pivot, "pivot", -1, "explicit pivot item index (overrides --alignment)")
	fs.Float64Var(&f.pivotOffset, "pivot-offset", 0, "main-axis center of the pivot item")
	fs.Float64Var(&f.itemSize, "item-size", 0, "item size for the uncontained strategy")
	fs.Float64Var(&f.preferred, "preferred", 0, "preferred large item size for multi-browse and hero")
	fs.IntVarP(&f.count, "count", "n", 0, "number of carousel items")
	fs.Float64Var(&f.minSmall, "min-small", 0, "smallest allowed small item")
	fs.Float64Var(&f.maxSmall, "max-small", 0, "largest allowed small item")
}

// options builds a request from the request file and the changed flags.
// Unset fields are filled from the config defaults by the runner.
func (f *layoutFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.request != "" {
		data, err := os.ReadFile(f.request)
		if err != nil {
			return opts, fmt.Errorf("read request %s: %w", f.request, err)
		}
		if err := json.Unmarshal(data, &opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse request %s", f.request)
		}
	}

	changed := cmd.Flags().Changed
	if changed("strategy") {
		opts.Strategy = f.strategy
	}
	if changed("main-axis") {
		opts.MainAxisSize = f.mainAxis
	}
	if changed("spacing") {
		spacing := f.spacing
		opts.ItemSpacing = &spacing
	}
	if changed("alignment") {
		opts.Alignment = f.alignment
	}
	if changed("sizes") {
		opts.Items = explicitItems(f.sizes, f.anchors)
	}
	if changed("pivot") && f.pivot >= 0 {
		opts.Pivot = &carousel.Pivot{Index: f.pivot, Offset: f.pivotOffset}
	} else if changed("pivot-offset") {
		return opts, errors.New(errors.ErrCodeInvalidInput, "--pivot-offset requires --pivot")
	}
	if changed("item-size") {
		opts.ItemSize = f.itemSize
	}
	if changed("preferred") {
		opts.PreferredItemSize = f.preferred
	}
	if changed("count") {
		opts.ItemCount = f.count
	}
	if changed("min-small") {
		opts.MinSmall = f.minSmall
	}
	if changed("max-small") {
		opts.MaxSmall = f.maxSmall
	}
	return opts, nil
}

func explicitItems(sizes []float64, anchors bool) []pipeline.Item {
	items := make([]pipeline.Item, 0, len(sizes)+2)
	if anchors {
		items = append(items, pipeline.Item{Size: 0, Anchor: true})
	}
	for _, s := range sizes {
		items = append(items, pipeline.Item{Size: s})
	}
	if anchors {
		items = append(items, pipeline.Item{Size: 0, Anchor: true})
	}
	return items
}
