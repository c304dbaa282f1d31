package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinTheme() Theme {
	return Theme{
		Name: "catppuccin",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater
		Metadata:      lipgloss.Color("#6c7086"), // Overlay0

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Syntax highlighting
		Keyword:  lipgloss.Color("#cba6f7"), // Mauve
		String:   lipgloss.Color("#a6e3a1"), // Green
		Number:   lipgloss.Color("#fab387"), // Peach
		Comment:  lipgloss.Color("#6c7086"), // Overlay0
		Operator: lipgloss.Color("#94e2d5"), // Teal

		// Folding gutter
		FoldMarker:    lipgloss.Color("#f9e2af"), // Yellow
		FoldIndicator: lipgloss.Color("#6c7086"), // Overlay0

		// Results table colors
		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowEven:     lipgloss.Color("#1e1e2e"), // Base
		TableRowOdd:      lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#313244"), // Surface0
	}
}
