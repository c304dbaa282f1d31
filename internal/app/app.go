package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rebelice/sqlfold/internal/config"
	"github.com/rebelice/sqlfold/internal/db/connection"
	"github.com/rebelice/sqlfold/internal/db/query"
	"github.com/rebelice/sqlfold/internal/history"
	"github.com/rebelice/sqlfold/internal/models"
	"github.com/rebelice/sqlfold/internal/snippets"
	"github.com/rebelice/sqlfold/internal/ui/components"
	"github.com/rebelice/sqlfold/internal/ui/help"
	"github.com/rebelice/sqlfold/internal/ui/theme"
)

// ConnectedMsg is sent when the database connection attempt finishes
type ConnectedMsg struct {
	Pool *connection.Pool
	Err  error
}

// QueryFinishedMsg is sent when a query execution completes
type QueryFinishedMsg struct {
	SQL    string
	Result models.QueryResult
}

// App is the main application model
type App struct {
	config *config.Config
	theme  theme.Theme

	editor  *components.SQLEditor
	results *components.ResultsView
	prompt  *components.Prompt

	focus    models.FocusTarget
	width    int
	height   int
	showHelp bool
	status   string

	pool     *connection.Pool
	executor *query.Executor

	historyStore *history.Store
	sessionID    string
	recall       []history.Entry
	recallIdx    int

	snippets *snippets.Manager
}

// New creates a new App instance
func New(cfg *config.Config, store *history.Store, snips *snippets.Manager) *App {
	th := theme.GetTheme(cfg.UI.Theme)

	editor := components.NewSQLEditor(th)
	editor.FoldingEnabled = cfg.Folding.Enabled
	editor.ShowPreview = cfg.Folding.ShowPreview
	editor.Focused = true

	return &App{
		config:       cfg,
		theme:        th,
		editor:       editor,
		results:      components.NewResultsView(th),
		prompt:       components.NewPrompt(th),
		focus:        models.FocusEditor,
		status:       "not connected",
		historyStore: store,
		sessionID:    uuid.New().String(),
		recallIdx:    -1,
		snippets:     snips,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.config.Connection.DSN != "" {
		return a.connectCmd(a.config.Connection.DSN)
	}
	a.prompt.Show("dsn", "Connect to database", "postgres://user@host:5432/db")
	return nil
}

// connectCmd opens a connection pool in the background
func (a *App) connectCmd(dsn string) tea.Cmd {
	poolSize := a.config.Connection.PoolSize
	return func() tea.Msg {
		pool, err := connection.NewPool(context.Background(), dsn, poolSize)
		return ConnectedMsg{Pool: pool, Err: err}
	}
}

// runQueryCmd executes the current editor content
func (a *App) runQueryCmd(sql string) tea.Cmd {
	executor := a.executor
	return func() tea.Msg {
		result := executor.Run(context.Background(), sql)
		return QueryFinishedMsg{SQL: sql, Result: result}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case ConnectedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("connection failed: %v", msg.Err)
			return a, nil
		}
		a.pool = msg.Pool
		timeout := time.Duration(a.config.Connection.QueryTimeout) * time.Millisecond
		a.executor = query.NewExecutor(msg.Pool.GetPool(), timeout)
		a.status = "connected"
		return a, nil

	case QueryFinishedMsg:
		a.results.SetResult(&msg.Result)
		a.recordHistory(msg)
		if msg.Result.Error != nil {
			a.status = "query failed"
		} else {
			a.status = fmt.Sprintf("%d rows in %s",
				len(msg.Result.Rows), msg.Result.Duration.Round(time.Millisecond))
		}
		return a, nil

	case components.PromptSubmitMsg:
		a.prompt.Hide()
		switch msg.ID {
		case "dsn":
			a.status = "connecting..."
			return a, a.connectCmd(msg.Value)
		case "snippet":
			if _, err := a.snippets.Add(msg.Value, a.editor.GetContent()); err != nil {
				a.status = err.Error()
			} else {
				a.status = fmt.Sprintf("snippet '%s' saved", msg.Value)
			}
		}
		return a, nil

	case components.PromptCancelMsg:
		a.prompt.Hide()
		return a, nil

	case tea.KeyMsg:
		if a.prompt.Visible {
			var cmd tea.Cmd
			a.prompt, cmd = a.prompt.Update(msg)
			return a, cmd
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		return a.handleKey(msg)
	}

	if a.prompt.Visible {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKey routes key input to the focused pane
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "tab":
		a.toggleFocus()
		return a, nil

	case "ctrl+r":
		sql := a.editor.GetContent()
		if a.executor == nil {
			a.status = "not connected"
			return a, nil
		}
		if sql == "" {
			return a, nil
		}
		a.status = "running..."
		return a, a.runQueryCmd(sql)

	case "ctrl+f":
		if r := a.editor.ToggleFoldAtCursor(); r == nil {
			a.status = "no foldable region at cursor"
		} else if r.Collapsed {
			a.status = fmt.Sprintf("folded %s (%d lines)", r.Type, r.Lines())
		} else {
			a.status = fmt.Sprintf("unfolded %s", r.Type)
		}
		return a, nil

	case "ctrl+g":
		a.editor.FoldAll()
		return a, nil

	case "ctrl+t":
		a.editor.UnfoldAll()
		return a, nil

	case "ctrl+y":
		if err := clipboard.WriteAll(a.editor.GetContent()); err != nil {
			a.status = fmt.Sprintf("clipboard: %v", err)
		} else {
			a.status = "query copied"
		}
		return a, nil

	case "ctrl+s":
		a.prompt.Show("snippet", "Save snippet as", "snippet name")
		return a, nil

	case "ctrl+p":
		a.recallHistory(-1)
		return a, nil

	case "ctrl+n":
		a.recallHistory(1)
		return a, nil
	}

	if a.focus == models.FocusEditor {
		return a, a.handleEditorKey(msg)
	}
	return a, a.handleResultsKey(msg)
}

// handleEditorKey handles text editing keys
func (a *App) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		a.editor.MoveCursorUp()
	case "down":
		a.editor.MoveCursorDown()
	case "left":
		a.editor.MoveCursorLeft()
	case "right":
		a.editor.MoveCursorRight()
	case "home":
		a.editor.MoveCursorToLineStart()
	case "end":
		a.editor.MoveCursorToLineEnd()
	case "ctrl+home":
		a.editor.MoveCursorToDocStart()
	case "ctrl+end":
		a.editor.MoveCursorToDocEnd()
	case "enter":
		a.editor.InsertNewline()
	case "backspace":
		a.editor.DeleteCharBefore()
	case "delete":
		a.editor.DeleteCharAfter()
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				a.editor.InsertChar(r)
			}
		} else if msg.Type == tea.KeySpace {
			a.editor.InsertChar(' ')
		}
	}
	return nil
}

// handleResultsKey handles result table navigation
func (a *App) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		a.results.MoveUp()
	case "down", "j":
		a.results.MoveDown()
	case "?":
		a.showHelp = true
	case "c":
		row := a.results.SelectedRow()
		if row == nil {
			return nil
		}
		if err := clipboard.WriteAll(fmt.Sprintf("%v", row)); err != nil {
			a.status = fmt.Sprintf("clipboard: %v", err)
		} else {
			a.status = "row copied"
		}
	}
	return nil
}

// toggleFocus switches key input between editor and results
func (a *App) toggleFocus() {
	if a.focus == models.FocusEditor {
		a.focus = models.FocusResults
	} else {
		a.focus = models.FocusEditor
	}
	a.editor.Focused = a.focus == models.FocusEditor
	a.results.Focused = a.focus == models.FocusResults
}

// recordHistory persists a finished query and refreshes the recall list
func (a *App) recordHistory(msg QueryFinishedMsg) {
	if a.historyStore == nil || !a.config.History.Enabled {
		return
	}
	if msg.Result.Error != nil && !a.config.History.SaveFailedQueries {
		return
	}

	entry := history.Entry{
		SessionID:    a.sessionID,
		Query:        msg.SQL,
		Duration:     msg.Result.Duration,
		RowsAffected: msg.Result.RowsAffected,
		Success:      msg.Result.Error == nil,
	}
	if msg.Result.Error != nil {
		entry.ErrorMessage = msg.Result.Error.Error()
	}
	if err := a.historyStore.Add(entry); err != nil {
		a.status = fmt.Sprintf("history: %v", err)
		return
	}
	_ = a.historyStore.Prune(a.config.History.MaxEntries)

	a.recall = nil
	a.recallIdx = -1
}

// recallHistory steps through recent queries into the editor.
// Direction -1 goes further back, +1 forward toward the newest.
func (a *App) recallHistory(direction int) {
	if a.historyStore == nil {
		return
	}
	if a.recall == nil {
		entries, err := a.historyStore.GetRecent(a.config.History.MaxEntries)
		if err != nil {
			a.status = fmt.Sprintf("history: %v", err)
			return
		}
		a.recall = entries
		a.recallIdx = -1
	}
	if len(a.recall) == 0 {
		a.status = "history is empty"
		return
	}

	next := a.recallIdx - direction // recall is newest-first
	if next < 0 {
		a.status = "at newest history entry"
		return
	}
	if next >= len(a.recall) {
		a.status = "at oldest history entry"
		return
	}
	a.recallIdx = next
	a.editor.SetContent(a.recall[next].Query)
}

// layout distributes the window between editor and results panes
func (a *App) layout() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	statusBar := 1
	editorHeight := (a.height - statusBar) / 2
	if editorHeight < 4 {
		editorHeight = 4
	}

	a.editor.Width = a.width
	a.editor.Height = editorHeight
	a.results.Width = a.width
	a.results.Height = a.height - statusBar - editorHeight
}

// View implements tea.Model
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}
	if a.showHelp {
		return help.Render(a.width, a.height)
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		a.editor.View(),
		a.results.View(),
		a.statusBar(),
	)

	if a.prompt.Visible {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.prompt.View())
	}
	return main
}

// statusBar renders the bottom status line
func (a *App) statusBar() string {
	left := lipgloss.NewStyle().Foreground(a.theme.Info).Render(a.status)

	summary := a.editor.FoldSummary()
	right := ""
	if summary != "" {
		right = lipgloss.NewStyle().Foreground(a.theme.Metadata).Render(summary)
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}
