package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// MinColumnWidth is the narrowest a table column is drawn.
const MinColumnWidth = 12

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}

	titleText   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedText   = lipgloss.NewStyle().Foreground(dim)
	labelText   = lipgloss.NewStyle().Bold(true)
	errorText   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
	successText = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
)

// ColumnTitles are the table headers in field order.
var ColumnTitles = [4]string{"Name", "Phone Number", "Email Address", "Residential Address"}

// TableStyles returns the contact table styles: an underlined header and an
// accent-colored selected row.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dim).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "0"}).
		Background(accent).
		Bold(false)
	return s
}

// Columns splits totalWidth evenly across the four contact columns.
// Each column gets at least MinColumnWidth; cell padding is subtracted
// so the rendered table fits within totalWidth when there is room.
func Columns(totalWidth int) []table.Column {
	// Default cell style pads one space on each side.
	const padding = 2
	w := totalWidth/len(ColumnTitles) - padding
	if w < MinColumnWidth {
		w = MinColumnWidth
	}
	cols := make([]table.Column, len(ColumnTitles))
	for i, title := range ColumnTitles {
		cols[i] = table.Column{Title: title, Width: w}
	}
	return cols
}
