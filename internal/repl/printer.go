package repl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tuannm99/flatdb/internal/record"
	"github.com/tuannm99/flatdb/internal/sql/executor"
)

const (
	IntCellWidth  = 5
	TextCellWidth = 20
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C79FF"})
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#FF5F56", Dark: "#FF6B6B"})
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FFA500"})
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
)

// Printer renders query results as right-aligned fixed-width cells written
// back to back.
type Printer struct {
	Out   io.Writer
	Color bool
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Render(text)
}

// CellWidth is the minimum printed width of a column of type t.
func CellWidth(t record.ColumnType) int {
	if t == record.ColText {
		return TextCellWidth
	}
	return IntCellWidth
}

// FormatValue is the bare printed form of v.
func FormatValue(v record.Value) string {
	switch v.Kind {
	case record.ColInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case record.ColText:
		return v.Text
	case record.ColType:
		return record.TypeName(v.Type)
	default:
		return "?"
	}
}

func formatRow(cols []record.Column, cells []string) string {
	var b strings.Builder
	for i, c := range cells {
		fmt.Fprintf(&b, "%*s", CellWidth(cols[i].Type), c)
	}
	return b.String()
}

// PrintTable writes a header line with the column names and one line per row.
func (p *Printer) PrintTable(t *record.Table) {
	cols := t.Schema.Cols
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	fmt.Fprintln(p.Out, p.style(headerStyle, formatRow(cols, names)))

	cells := make([]string, len(cols))
	for _, row := range t.Rows {
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		fmt.Fprintln(p.Out, formatRow(cols, cells))
	}
	fmt.Fprintln(p.Out, p.style(mutedStyle, fmt.Sprintf("(%d rows)", len(t.Rows))))
}

// PrintResult prints the selection if there is one, otherwise the affected
// count, then the warnings.
func (p *Printer) PrintResult(res *executor.Result) {
	if res.Table != nil {
		p.PrintTable(res.Table)
	} else {
		fmt.Fprintln(p.Out, p.style(mutedStyle, fmt.Sprintf("OK (%d affected)", res.Affected)))
	}
	for _, w := range res.Warnings {
		p.PrintWarning(w)
	}
}

func (p *Printer) PrintError(err error) {
	fmt.Fprintln(p.Out, p.style(errorStyle, "error: "+err.Error()))
}

func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintln(p.Out, p.style(warningStyle, "warning: "+msg))
}
