package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebelice/sqlfold/internal/models"
	"github.com/rebelice/sqlfold/internal/ui/theme"
)

const maxCellWidth = 32

// ResultsView renders query results as a scrollable table
type ResultsView struct {
	Result  *models.QueryResult
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme

	selectedRow int
	scrollY     int
}

// NewResultsView creates an empty results view
func NewResultsView(th theme.Theme) *ResultsView {
	return &ResultsView{Theme: th}
}

// SetResult replaces the displayed result and resets scrolling
func (v *ResultsView) SetResult(result *models.QueryResult) {
	v.Result = result
	v.selectedRow = 0
	v.scrollY = 0
}

// SelectedRow returns the currently selected row values, or nil
func (v *ResultsView) SelectedRow() []string {
	if v.Result == nil || v.selectedRow >= len(v.Result.Rows) {
		return nil
	}
	return v.Result.Rows[v.selectedRow]
}

// MoveUp moves the row selection up
func (v *ResultsView) MoveUp() {
	if v.selectedRow > 0 {
		v.selectedRow--
		if v.selectedRow < v.scrollY {
			v.scrollY = v.selectedRow
		}
	}
}

// MoveDown moves the row selection down
func (v *ResultsView) MoveDown() {
	if v.Result == nil {
		return
	}
	if v.selectedRow < len(v.Result.Rows)-1 {
		v.selectedRow++
		visible := v.visibleRows()
		if v.selectedRow >= v.scrollY+visible {
			v.scrollY = v.selectedRow - visible + 1
		}
	}
}

// visibleRows is the number of data rows that fit in the pane
func (v *ResultsView) visibleRows() int {
	// borders, header and status line
	rows := v.Height - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the results table
func (v *ResultsView) View() string {
	borderColor := v.Theme.Border
	if v.Focused {
		borderColor = v.Theme.BorderFocused
	}
	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(v.Width - 2).
		Height(v.Height - 2)

	if v.Result == nil {
		hint := lipgloss.NewStyle().Foreground(v.Theme.Metadata).
			Render("Run a query to see results")
		return containerStyle.Render(hint)
	}

	if v.Result.Error != nil {
		errStyle := lipgloss.NewStyle().Foreground(v.Theme.Error)
		msg := fmt.Sprintf("Error: %v\n\n(%s)", v.Result.Error, v.Result.Duration.Round(time.Millisecond))
		return containerStyle.Render(errStyle.Render(msg))
	}

	widths := v.columnWidths()

	headerStyle := lipgloss.NewStyle().Foreground(v.Theme.TableHeader).Bold(true)
	var b strings.Builder
	b.WriteString(headerStyle.Render(v.renderRow(v.Result.Columns, widths)))
	b.WriteString("\n")

	evenStyle := lipgloss.NewStyle().Background(v.Theme.TableRowEven)
	oddStyle := lipgloss.NewStyle().Background(v.Theme.TableRowOdd)
	selectedStyle := lipgloss.NewStyle().Background(v.Theme.TableRowSelected).Bold(true)

	end := v.scrollY + v.visibleRows()
	if end > len(v.Result.Rows) {
		end = len(v.Result.Rows)
	}
	for i := v.scrollY; i < end; i++ {
		style := evenStyle
		if i%2 == 1 {
			style = oddStyle
		}
		if v.Focused && i == v.selectedRow {
			style = selectedStyle
		}
		b.WriteString(style.Render(v.renderRow(v.Result.Rows[i], widths)))
		b.WriteString("\n")
	}

	statusStyle := lipgloss.NewStyle().Foreground(v.Theme.Metadata)
	b.WriteString(statusStyle.Render(fmt.Sprintf("%d rows in %s",
		len(v.Result.Rows), v.Result.Duration.Round(time.Millisecond))))

	return containerStyle.Render(b.String())
}

// renderRow joins cells padded to the column widths
func (v *ResultsView) renderRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := maxCellWidth
		if i < len(widths) {
			w = widths[i]
		}
		parts[i] = padCell(cell, w)
	}
	return strings.Join(parts, " │ ")
}

// columnWidths computes per-column display widths from header and data
func (v *ResultsView) columnWidths() []int {
	widths := make([]int, len(v.Result.Columns))
	for i, col := range v.Result.Columns {
		widths[i] = len(col)
	}
	for _, row := range v.Result.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] > maxCellWidth {
			widths[i] = maxCellWidth
		}
	}
	return widths
}

// padCell truncates or pads a cell to the given width
func padCell(cell string, width int) string {
	runes := []rune(cell)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return cell + strings.Repeat(" ", width-len(runes))
}
