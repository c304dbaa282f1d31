package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"Ctrl+C", "Quit application"},
		{"Tab", "Switch pane focus"},
		{"Ctrl+R", "Run query"},
		{"Ctrl+Y", "Copy query to clipboard"},
	}
}

// GetFoldingKeys returns folding key bindings
func GetFoldingKeys() []KeyBinding {
	return []KeyBinding{
		{"Ctrl+F", "Toggle fold at cursor"},
		{"Ctrl+G", "Fold all regions"},
		{"Ctrl+T", "Unfold all regions"},
	}
}

// GetHistoryKeys returns history and snippet key bindings
func GetHistoryKeys() []KeyBinding {
	return []KeyBinding{
		{"Ctrl+P", "Previous query from history"},
		{"Ctrl+N", "Next query from history"},
		{"Ctrl+S", "Save query as snippet"},
	}
}

// Render creates the help view
func Render(width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("sqlfold — Keyboard Shortcuts"))
	b.WriteString("\n")

	sections := []struct {
		name string
		keys []KeyBinding
	}{
		{"Global", GetGlobalKeys()},
		{"Folding", GetFoldingKeys()},
		{"History & Snippets", GetHistoryKeys()},
	}

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.name))
		b.WriteString("\n")
		for _, kb := range section.keys {
			b.WriteString("    ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(descStyle.Render("  Press ? or Esc to close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)

	box := boxStyle.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
