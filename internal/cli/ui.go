package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/render/ascii"
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
	colorStone  = lipgloss.Color("102") // Walls
	colorAmber  = lipgloss.Color("178") // Doors
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary or muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// Map glyph styles, keyed by the ascii renderer's glyphs.
var glyphStyles = map[rune]lipgloss.Style{
	ascii.Wall:       lipgloss.NewStyle().Foreground(colorStone),
	ascii.Door:       lipgloss.NewStyle().Foreground(colorAmber),
	ascii.LockedDoor: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	ascii.Floor:      lipgloss.NewStyle().Foreground(colorDim),
	ascii.Step:       lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	ascii.Seen:       lipgloss.NewStyle().Foreground(colorBlue),
	ascii.Start:      lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	ascii.Goal:       lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled status lines to a command's output.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) errorf(format string, args ...any) {
	p.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.line(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	p.line(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

func (p printer) nextStep(description, cmd string) {
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// warnings prints every non-fatal problem of a run.
func (p printer) warnings(res *pipeline.Result) {
	for _, w := range res.Warnings {
		p.warning("%s", w)
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// stats prints dungeon statistics on a single line.
func (p printer) stats(res *pipeline.Result) {
	s := res.Stats
	parts := []string{
		fmt.Sprintf("%d rooms", s.Rooms),
		fmt.Sprintf("%d doors", s.Doors),
	}
	if s.RoomsPruned > 0 {
		parts = append(parts, fmt.Sprintf("%d pruned", s.RoomsPruned))
	}
	if s.DoorsRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d loops cut", s.DoorsRemoved))
	}
	parts = append(parts, fmt.Sprintf("seed %d", res.Seed))

	status := styleComputed.Render(iconFresh)
	if res.CacheInfo.LayoutHit {
		status = styleCached.Render(iconCached)
	}

	rendered := make([]string, len(parts))
	for i, part := range parts {
		rendered[i] = StyleDim.Render(part)
	}
	p.line("  " + strings.Join(append(rendered, status), StyleDim.Render(" · ")))
}

// statsTable renders the full statistics of a run as a bordered table.
func statsTable(res *pipeline.Result) string {
	s := res.Stats
	rows := [][]string{
		{"rooms", fmt.Sprint(s.Rooms), "split", fmtDuration(s.SplitTime)},
		{"doors", fmt.Sprint(s.Doors), "prune", fmtDuration(s.PruneTime)},
		{"pruned", fmt.Sprint(s.RoomsPruned), "reduce", fmtDuration(s.ReduceTime)},
		{"loops cut", fmt.Sprint(s.DoorsRemoved), "grid", fmtDuration(s.GridTime)},
		{"depth", fmt.Sprint(s.Depth), "cells", fmt.Sprint(s.WallCells + s.DoorCells + s.FloorCells)},
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("graph", "", "stage", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col%2 == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		}).
		Render()
}

func fmtDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(100 * time.Microsecond).String()
}

// colorize styles every glyph of rendered map rows.
func colorize(rows []string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			if st, ok := glyphStyles[r]; ok {
				b.WriteString(st.Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
