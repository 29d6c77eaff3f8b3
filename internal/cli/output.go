package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/pflag"

	"github.com/matzehuels/carousel/pkg/errors"
)

// Output formats accepted by --format.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatCSV      = "csv"
)

var outputFormats = []string{formatTable, formatJSON, formatMarkdown, formatCSV}

// outputFlags binds --format and --output.
type outputFlags struct {
	format string
	output string
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: table, json, markdown, csv (default: table on a terminal, json otherwise)")
	fs.StringVarP(&f.output, "output", "o", "", "also write the layout JSON to this file")
}

// resolve picks the effective format for w.
func (f *outputFlags) resolve(w io.Writer) (string, error) {
	if f.format == "" {
		if isTerminal(w) {
			return formatTable, nil
		}
		return formatJSON, nil
	}
	if !slices.Contains(outputFormats, f.format) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want table, json, markdown or csv)", f.format)
	}
	return f.format, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderExport renders rows as markdown or CSV. Numeric columns are right
// aligned in markdown.
func renderExport(format string, headers []string, rows [][]string) string {
	tw := table.NewWriter()

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight}
	}
	// The last column holds flags or yes/no.
	configs[len(headers)-1].Align = text.AlignLeft
	tw.SetColumnConfigs(configs)

	if format == formatCSV {
		return tw.RenderCSV()
	}
	return tw.RenderMarkdown()
}

// printRows writes a table in a non-JSON format.
func printRows(w io.Writer, format string, headers []string, rows [][]string, styled func() string) {
	if format == formatTable {
		fmt.Fprintln(w, styled())
		return
	}
	fmt.Fprintln(w, renderExport(format, headers, rows))
}
