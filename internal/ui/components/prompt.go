package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebelice/sqlfold/internal/ui/theme"
)

// PromptSubmitMsg is sent when the prompt is confirmed
type PromptSubmitMsg struct {
	ID    string
	Value string
}

// PromptCancelMsg is sent when the prompt is dismissed
type PromptCancelMsg struct{}

// Prompt is a single-line input overlay used for snippet names and
// connection strings
type Prompt struct {
	Input   textinput.Model
	ID      string // identifies what the answer is for
	Title   string
	Theme   theme.Theme
	Width   int
	Visible bool
}

// NewPrompt creates a new prompt
func NewPrompt(th theme.Theme) *Prompt {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 48

	return &Prompt{
		Input: ti,
		Theme: th,
	}
}

// Show opens the prompt with the given purpose id and title
func (p *Prompt) Show(id, title, placeholder string) {
	p.ID = id
	p.Title = title
	p.Input.Placeholder = placeholder
	p.Input.SetValue("")
	p.Input.Focus()
	p.Visible = true
}

// Hide closes the prompt
func (p *Prompt) Hide() {
	p.Visible = false
	p.Input.Blur()
}

// Update handles messages
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			value := p.Input.Value()
			if value != "" {
				id := p.ID
				return p, func() tea.Msg {
					return PromptSubmitMsg{ID: id, Value: value}
				}
			}
			return p, nil
		case "esc":
			return p, func() tea.Msg {
				return PromptCancelMsg{}
			}
		}
	}

	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

// View renders the prompt box
func (p *Prompt) View() string {
	if !p.Visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Theme.Info)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1)

	return boxStyle.Render(titleStyle.Render(p.Title) + "\n" + p.Input.View())
}
