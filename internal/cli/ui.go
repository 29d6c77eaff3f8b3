package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/carousel/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleFocal  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleAnchor = lipgloss.NewStyle().Foreground(colorDim)
	styleHidden = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints layout statistics on a single line.
func printStats(w io.Writer, keylines, items int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d keylines", keylines),
		fmt.Sprintf("%d items", items),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Layout Tables
// =============================================================================

// formatFloat prints geometry compactly: integers without decimals, other
// values with up to two.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func keylineFlags(k layout.Keyline) string {
	var flags []string
	if k.Pivot {
		flags = append(flags, "pivot")
	}
	if k.Focal {
		flags = append(flags, "focal")
	}
	if k.Anchor {
		flags = append(flags, "anchor")
	}
	return strings.Join(flags, ",")
}

var keylineHeaders = []string{"#", "Size", "Offset", "Unadjusted", "Cutoff", "Flags"}

func keylineRows(l layout.Layout) [][]string {
	rows := make([][]string, len(l.Keylines))
	for i, k := range l.Keylines {
		rows[i] = []string{
			strconv.Itoa(i),
			formatFloat(k.Size),
			formatFloat(k.Offset),
			formatFloat(k.UnadjustedOffset),
			formatFloat(k.Cutoff),
			keylineFlags(k),
		}
	}
	return rows
}

var placementHeaders = []string{"Item", "Size", "Offset", "Left", "Right", "Cutoff", "Visible"}

func placementRows(l layout.Layout) [][]string {
	rows := make([][]string, len(l.Placements))
	for i, p := range l.Placements {
		visible := "no"
		if p.Visible {
			visible = "yes"
		}
		rows[i] = []string{
			strconv.Itoa(p.Index),
			formatFloat(p.Size),
			formatFloat(p.Offset),
			formatFloat(p.Offset - p.Size/2),
			formatFloat(p.Offset + p.Size/2),
			formatFloat(p.Cutoff),
			visible,
		}
	}
	return rows
}

// renderKeylineTable renders the keylines with focal rows highlighted and
// anchors dimmed.
func renderKeylineTable(l layout.Layout) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(keylineHeaders...).
		Rows(keylineRows(l)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row < 0 || row >= len(l.Keylines) {
				return base
			}
			switch k := l.Keylines[row]; {
			case k.Focal:
				return styleFocal.Padding(0, 1)
			case k.Anchor:
				return styleAnchor.Padding(0, 1)
			}
			return base
		}).
		Render()
}

// renderPlacementTable renders placements with hidden items dimmed.
func renderPlacementTable(l layout.Layout) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(placementHeaders...).
		Rows(placementRows(l)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(l.Placements) && !l.Placements[row].Visible {
				return styleHidden.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// renderRowsTable renders plain rows with the default table styling.
func renderRowsTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// printLayoutSummary prints the viewport line above a table.
func printLayoutSummary(w io.Writer, l layout.Layout) {
	title := "Keylines"
	if l.Strategy != "" {
		title += " (" + l.Strategy + ")"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printDetail(w, "main axis %s · spacing %s · alignment %s · %d items",
		formatFloat(l.MainAxisSize), formatFloat(l.ItemSpacing), orDash(l.Alignment), l.ItemCount)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
