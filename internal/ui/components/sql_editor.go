package components

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebelice/sqlfold/internal/fold"
	"github.com/rebelice/sqlfold/internal/ui/theme"
)

// SQLEditor is a multiline SQL editor with code folding. It owns the
// fold manager for its buffer; detection runs after every edit and the
// manager's fingerprint cache absorbs calls where content is unchanged.
type SQLEditor struct {
	// Content
	lines     []string
	cursorRow int // current cursor row (0-indexed, original document lines)
	cursorCol int

	// Folding
	folds          *fold.Manager
	FoldingEnabled bool
	ShowPreview    bool

	// Dimensions
	Width  int
	Height int

	// State
	Focused bool
	scrollY int

	// Theme
	Theme theme.Theme
}

// NewSQLEditor creates a new SQL editor
func NewSQLEditor(th theme.Theme) *SQLEditor {
	return &SQLEditor{
		lines:          []string{""},
		folds:          fold.NewManager(),
		FoldingEnabled: true,
		ShowPreview:    true,
		Theme:          th,
	}
}

// Folds exposes the editor's fold manager
func (e *SQLEditor) Folds() *fold.Manager {
	return e.folds
}

// GetContent returns the full content as a single string
func (e *SQLEditor) GetContent() string {
	return strings.Join(e.lines, "\n")
}

// SetContent sets the editor content and re-detects fold regions
func (e *SQLEditor) SetContent(content string) {
	if content == "" {
		e.lines = []string{""}
	} else {
		e.lines = strings.Split(content, "\n")
	}
	e.cursorRow = len(e.lines) - 1
	e.cursorCol = len(e.lines[e.cursorRow])
	e.refreshFolds()
}

// Clear clears the editor content and all fold state
func (e *SQLEditor) Clear() {
	e.lines = []string{""}
	e.cursorRow = 0
	e.cursorCol = 0
	e.scrollY = 0
	e.folds.Clear()
}

// CursorLine returns the original document line the cursor is on
func (e *SQLEditor) CursorLine() int {
	return e.cursorRow
}

// refreshFolds re-runs region detection over the current content
func (e *SQLEditor) refreshFolds() {
	if !e.FoldingEnabled {
		return
	}
	e.folds.DetectRegions(e.GetContent(), false)
}

// ToggleFoldAtCursor folds or unfolds the innermost region starting at
// the cursor line; returns nil if no region starts there
func (e *SQLEditor) ToggleFoldAtCursor() *fold.Region {
	if !e.FoldingEnabled {
		return nil
	}
	r := e.folds.ToggleFold(e.cursorRow)
	if r != nil && r.Collapsed {
		// keep the cursor out of the hidden span
		if e.folds.IsLineHidden(e.cursorRow) {
			e.cursorRow = r.StartLine
			e.clampCursorCol()
		}
	}
	return r
}

// FoldAll collapses every detected region
func (e *SQLEditor) FoldAll() {
	if !e.FoldingEnabled {
		return
	}
	e.folds.FoldAll()
	if e.folds.IsLineHidden(e.cursorRow) {
		e.cursorRow = e.nearestVisibleAbove(e.cursorRow)
		e.clampCursorCol()
	}
}

// UnfoldAll expands every region
func (e *SQLEditor) UnfoldAll() {
	e.folds.UnfoldAll()
}

// nearestVisibleAbove walks upward to the closest visible line
func (e *SQLEditor) nearestVisibleAbove(line int) int {
	for line > 0 && e.folds.IsLineHidden(line) {
		line--
	}
	return line
}

// FoldSummary describes the buffer's fold state for the status bar
func (e *SQLEditor) FoldSummary() string {
	markers := e.folds.FoldMarkers()
	if len(markers) == 0 {
		return ""
	}
	folded := 0
	for _, m := range markers {
		if m.Collapsed {
			folded++
		}
	}
	summary := fmt.Sprintf("%d foldable, %d folded", len(markers), folded)
	if e.ShowPreview {
		if r := e.folds.RegionAtLine(e.cursorRow); r != nil && r.Collapsed {
			summary += " │ " + r.Preview
		}
	}
	return summary
}

// MoveCursorLeft moves cursor left
func (e *SQLEditor) MoveCursorLeft() {
	if e.cursorCol > 0 {
		e.cursorCol--
	} else if e.cursorRow > 0 {
		e.cursorRow = e.prevVisibleRow(e.cursorRow)
		e.cursorCol = len(e.lines[e.cursorRow])
	}
}

// MoveCursorRight moves cursor right
func (e *SQLEditor) MoveCursorRight() {
	if e.cursorCol < len(e.lines[e.cursorRow]) {
		e.cursorCol++
	} else if e.cursorRow < len(e.lines)-1 {
		if next := e.nextVisibleRow(e.cursorRow); next != e.cursorRow {
			e.cursorRow = next
			e.cursorCol = 0
		}
	}
}

// MoveCursorUp moves cursor to the previous visible line
func (e *SQLEditor) MoveCursorUp() {
	if e.cursorRow > 0 {
		e.cursorRow = e.prevVisibleRow(e.cursorRow)
		e.clampCursorCol()
	}
}

// MoveCursorDown moves cursor to the next visible line
func (e *SQLEditor) MoveCursorDown() {
	if e.cursorRow < len(e.lines)-1 {
		e.cursorRow = e.nextVisibleRow(e.cursorRow)
		e.clampCursorCol()
	}
}

// MoveCursorToLineStart moves cursor to start of line
func (e *SQLEditor) MoveCursorToLineStart() {
	e.cursorCol = 0
}

// MoveCursorToLineEnd moves cursor to end of line
func (e *SQLEditor) MoveCursorToLineEnd() {
	e.cursorCol = len(e.lines[e.cursorRow])
}

// MoveCursorToDocStart moves cursor to start of document
func (e *SQLEditor) MoveCursorToDocStart() {
	e.cursorRow = 0
	e.cursorCol = 0
}

// MoveCursorToDocEnd moves cursor to the last visible line's end
func (e *SQLEditor) MoveCursorToDocEnd() {
	e.cursorRow = e.nearestVisibleAbove(len(e.lines) - 1)
	e.cursorCol = len(e.lines[e.cursorRow])
}

// prevVisibleRow returns the closest visible row above the given one
func (e *SQLEditor) prevVisibleRow(row int) int {
	for r := row - 1; r >= 0; r-- {
		if !e.folds.IsLineHidden(r) {
			return r
		}
	}
	return row
}

// nextVisibleRow returns the closest visible row below the given one
func (e *SQLEditor) nextVisibleRow(row int) int {
	for r := row + 1; r < len(e.lines); r++ {
		if !e.folds.IsLineHidden(r) {
			return r
		}
	}
	return row
}

func (e *SQLEditor) clampCursorCol() {
	if e.cursorCol > len(e.lines[e.cursorRow]) {
		e.cursorCol = len(e.lines[e.cursorRow])
	}
}

// InsertChar inserts a character at cursor position
func (e *SQLEditor) InsertChar(ch rune) {
	line := e.lines[e.cursorRow]
	e.lines[e.cursorRow] = line[:e.cursorCol] + string(ch) + line[e.cursorCol:]
	e.cursorCol++
	e.refreshFolds()
}

// InsertNewline inserts a new line at cursor position
func (e *SQLEditor) InsertNewline() {
	line := e.lines[e.cursorRow]
	before := line[:e.cursorCol]
	after := line[e.cursorCol:]

	e.lines[e.cursorRow] = before
	newLines := make([]string, len(e.lines)+1)
	copy(newLines[:e.cursorRow+1], e.lines[:e.cursorRow+1])
	newLines[e.cursorRow+1] = after
	copy(newLines[e.cursorRow+2:], e.lines[e.cursorRow+1:])
	e.lines = newLines

	e.cursorRow++
	e.cursorCol = 0
	e.refreshFolds()
}

// DeleteCharBefore deletes character before cursor (backspace)
func (e *SQLEditor) DeleteCharBefore() {
	if e.cursorCol > 0 {
		line := e.lines[e.cursorRow]
		e.lines[e.cursorRow] = line[:e.cursorCol-1] + line[e.cursorCol:]
		e.cursorCol--
	} else if e.cursorRow > 0 {
		prevLine := e.lines[e.cursorRow-1]
		currLine := e.lines[e.cursorRow]
		e.cursorCol = len(prevLine)
		e.lines[e.cursorRow-1] = prevLine + currLine
		e.lines = append(e.lines[:e.cursorRow], e.lines[e.cursorRow+1:]...)
		e.cursorRow--
	}
	e.refreshFolds()
}

// DeleteCharAfter deletes character after cursor (delete key)
func (e *SQLEditor) DeleteCharAfter() {
	line := e.lines[e.cursorRow]
	if e.cursorCol < len(line) {
		e.lines[e.cursorRow] = line[:e.cursorCol] + line[e.cursorCol+1:]
	} else if e.cursorRow < len(e.lines)-1 {
		nextLine := e.lines[e.cursorRow+1]
		e.lines[e.cursorRow] = line + nextLine
		e.lines = append(e.lines[:e.cursorRow+1], e.lines[e.cursorRow+2:]...)
	}
	e.refreshFolds()
}

// View renders the editor: visible lines with line numbers, fold gutter
// markers, syntax highlighting and collapsed-region indicators
func (e *SQLEditor) View() string {
	contentHeight := e.Height - 2 // account for borders
	if contentHeight < 1 {
		contentHeight = 1
	}

	visible := e.folds.VisibleLines(len(e.lines))

	// scroll so the cursor's display row stays on screen
	cursorDisplay := 0
	for i, line := range visible {
		if line == e.cursorRow {
			cursorDisplay = i
			break
		}
	}
	if cursorDisplay < e.scrollY {
		e.scrollY = cursorDisplay
	}
	if cursorDisplay >= e.scrollY+contentHeight {
		e.scrollY = cursorDisplay - contentHeight + 1
	}

	end := e.scrollY + contentHeight
	if end > len(visible) {
		end = len(visible)
	}

	var rendered []string
	for _, line := range visible[e.scrollY:end] {
		rendered = append(rendered, e.renderLine(line, line == e.cursorRow))
	}
	for len(rendered) < contentHeight {
		rendered = append(rendered, e.renderEmptyLine())
	}

	content := strings.Join(rendered, "\n")

	borderColor := e.Theme.Border
	if e.Focused {
		borderColor = e.Theme.BorderFocused
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(e.Width - 2).
		Height(contentHeight)

	return containerStyle.Render(content)
}

// renderLine renders a single original line with gutter and highlighting
func (e *SQLEditor) renderLine(lineNum int, hasCursor bool) string {
	lineNumWidth := e.getLineNumberWidth()
	lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum+1)

	lineNumStyle := lipgloss.NewStyle().Foreground(e.Theme.Metadata)
	sepStyle := lipgloss.NewStyle().Foreground(e.Theme.Border)
	markerStyle := lipgloss.NewStyle().Foreground(e.Theme.FoldMarker)

	marker := " "
	region := e.folds.RegionAtLine(lineNum)
	if region != nil {
		if region.Collapsed {
			marker = "▸"
		} else {
			marker = "▾"
		}
	}

	gutter := lineNumStyle.Render(lineNumStr) + " " + markerStyle.Render(marker) + sepStyle.Render("│ ")

	line := e.lines[lineNum]
	tokens := e.tokenizeLine(line)
	contentPart := e.renderTokens(tokens)

	if hasCursor && e.Focused {
		contentPart = e.insertCursor(line, tokens)
	}

	// a collapsed header carries the hidden-count indicator
	if region != nil && region.Collapsed {
		indicatorStyle := lipgloss.NewStyle().Foreground(e.Theme.FoldIndicator).Italic(true)
		contentPart += indicatorStyle.Render(fmt.Sprintf(" ⋯ (%d lines hidden)", region.Lines()))
	}

	return gutter + contentPart
}

// renderEmptyLine renders an empty line placeholder
func (e *SQLEditor) renderEmptyLine() string {
	lineNumWidth := e.getLineNumberWidth()
	lineNumStr := fmt.Sprintf("%*s", lineNumWidth, "~")

	lineNumStyle := lipgloss.NewStyle().Foreground(e.Theme.Metadata)
	sepStyle := lipgloss.NewStyle().Foreground(e.Theme.Border)

	return lineNumStyle.Render(lineNumStr) + "  " + sepStyle.Render("│ ")
}

// getLineNumberWidth returns the width needed for line numbers
func (e *SQLEditor) getLineNumberWidth() int {
	maxLine := len(e.lines)
	if maxLine < 10 {
		maxLine = 10
	}
	digits := len(fmt.Sprintf("%d", maxLine))
	if digits < 2 {
		digits = 2
	}
	return digits
}

// SQL keywords for syntax highlighting
var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
	"DELETE": true, "CREATE": true, "TABLE": true, "DROP": true, "ALTER": true,
	"INDEX": true, "VIEW": true, "JOIN": true, "LEFT": true, "RIGHT": true,
	"INNER": true, "OUTER": true, "FULL": true, "ON": true, "AS": true,
	"ORDER": true, "BY": true, "GROUP": true, "HAVING": true, "LIMIT": true,
	"OFFSET": true, "UNION": true, "ALL": true, "DISTINCT": true, "CASE": true,
	"WHEN": true, "THEN": true, "ELSE": true, "END": true, "NULL": true,
	"NOT": true, "IN": true, "EXISTS": true, "BETWEEN": true, "LIKE": true,
	"IS": true, "TRUE": true, "FALSE": true, "ASC": true, "DESC": true,
	"PRIMARY": true, "KEY": true, "FOREIGN": true, "REFERENCES": true,
	"CONSTRAINT": true, "UNIQUE": true, "CHECK": true, "DEFAULT": true,
	"BEGIN": true, "COMMIT": true, "ROLLBACK": true, "TRANSACTION": true,
	"WITH": true, "RECURSIVE": true, "RETURNING": true, "COALESCE": true,
	"CAST": true, "COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

// TokenType represents the type of a syntax token
type TokenType int

const (
	TokenText TokenType = iota
	TokenKeyword
	TokenString
	TokenNumber
	TokenComment
	TokenOperator
)

// Token represents a syntax-highlighted token
type Token struct {
	Type  TokenType
	Value string
}

// tokenizeLine tokenizes a single line for syntax highlighting
func (e *SQLEditor) tokenizeLine(line string) []Token {
	var tokens []Token
	i := 0

	for i < len(line) {
		// Skip whitespace
		if unicode.IsSpace(rune(line[i])) {
			start := i
			for i < len(line) && unicode.IsSpace(rune(line[i])) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenText, Value: line[start:i]})
			continue
		}

		// Comment (-- to end of line)
		if i+1 < len(line) && line[i:i+2] == "--" {
			tokens = append(tokens, Token{Type: TokenComment, Value: line[i:]})
			break
		}

		// String literal (single quotes)
		if line[i] == '\'' {
			start := i
			i++
			for i < len(line) {
				if line[i] == '\'' {
					if i+1 < len(line) && line[i+1] == '\'' {
						// Escaped quote
						i += 2
					} else {
						i++
						break
					}
				} else {
					i++
				}
			}
			tokens = append(tokens, Token{Type: TokenString, Value: line[start:i]})
			continue
		}

		// Number
		if unicode.IsDigit(rune(line[i])) || (line[i] == '.' && i+1 < len(line) && unicode.IsDigit(rune(line[i+1]))) {
			start := i
			for i < len(line) && (unicode.IsDigit(rune(line[i])) || line[i] == '.') {
				i++
			}
			tokens = append(tokens, Token{Type: TokenNumber, Value: line[start:i]})
			continue
		}

		// Identifier or keyword
		if unicode.IsLetter(rune(line[i])) || line[i] == '_' {
			start := i
			for i < len(line) && (unicode.IsLetter(rune(line[i])) || unicode.IsDigit(rune(line[i])) || line[i] == '_') {
				i++
			}
			word := line[start:i]
			if sqlKeywords[strings.ToUpper(word)] {
				tokens = append(tokens, Token{Type: TokenKeyword, Value: word})
			} else {
				tokens = append(tokens, Token{Type: TokenText, Value: word})
			}
			continue
		}

		// Operators
		if strings.ContainsRune("=<>!+-*/%&|^~", rune(line[i])) {
			start := i
			for i < len(line) && strings.ContainsRune("=<>!+-*/%&|^~", rune(line[i])) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenOperator, Value: line[start:i]})
			continue
		}

		// Other single characters (parens, commas, etc.)
		tokens = append(tokens, Token{Type: TokenText, Value: string(line[i])})
		i++
	}

	return tokens
}

// tokenStyle maps a token type to its lipgloss style
func (e *SQLEditor) tokenStyle(t TokenType) lipgloss.Style {
	switch t {
	case TokenKeyword:
		return lipgloss.NewStyle().Foreground(e.Theme.Keyword).Bold(true)
	case TokenString:
		return lipgloss.NewStyle().Foreground(e.Theme.String)
	case TokenNumber:
		return lipgloss.NewStyle().Foreground(e.Theme.Number)
	case TokenComment:
		return lipgloss.NewStyle().Foreground(e.Theme.Comment).Italic(true)
	case TokenOperator:
		return lipgloss.NewStyle().Foreground(e.Theme.Operator)
	default:
		return lipgloss.NewStyle().Foreground(e.Theme.Foreground)
	}
}

// renderTokens renders tokens with syntax highlighting
func (e *SQLEditor) renderTokens(tokens []Token) string {
	var result strings.Builder
	for _, token := range tokens {
		result.WriteString(e.tokenStyle(token.Type).Render(token.Value))
	}
	return result.String()
}

// insertCursor inserts the cursor character into the rendered line
func (e *SQLEditor) insertCursor(line string, tokens []Token) string {
	var result strings.Builder
	charIdx := 0

	cursorStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Background).
		Background(e.Theme.Cursor)

	for _, token := range tokens {
		style := e.tokenStyle(token.Type)
		for _, ch := range token.Value {
			if charIdx == e.cursorCol {
				result.WriteString(cursorStyle.Render(string(ch)))
			} else {
				result.WriteString(style.Render(string(ch)))
			}
			charIdx++
		}
	}

	// Cursor at end of line
	if e.cursorCol >= charIdx {
		result.WriteString(cursorStyle.Render(" "))
	}

	return result.String()
}
