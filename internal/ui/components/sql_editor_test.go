package components

import (
	"testing"

	"github.com/rebelice/sqlfold/internal/ui/theme"
)

const foldableSQL = "SELECT (\n  SELECT 1\n) x\nFROM t"

func newTestEditor() *SQLEditor {
	return NewSQLEditor(theme.DefaultTheme())
}

func TestSetContent_DetectsRegions(t *testing.T) {
	e := newTestEditor()
	e.SetContent(foldableSQL)

	if got := len(e.Folds().Regions()); got != 1 {
		t.Errorf("expected 1 fold region, got %d", got)
	}
}

func TestToggleFoldAtCursor(t *testing.T) {
	e := newTestEditor()
	e.SetContent(foldableSQL)
	e.MoveCursorToDocStart()

	r := e.ToggleFoldAtCursor()
	if r == nil {
		t.Fatal("expected a region at the cursor line")
	}
	if !r.Collapsed {
		t.Error("region should be collapsed")
	}
	if !e.Folds().IsLineHidden(1) {
		t.Error("line 1 should be hidden")
	}

	if r := e.ToggleFoldAtCursor(); r == nil || r.Collapsed {
		t.Error("second toggle should expand the region")
	}
}

func TestToggleFoldAtCursor_NoRegion(t *testing.T) {
	e := newTestEditor()
	e.SetContent(foldableSQL)
	e.MoveCursorToDocEnd()

	if r := e.ToggleFoldAtCursor(); r != nil {
		t.Errorf("no region starts at the last line, got %v", r)
	}
}

func TestCursorSkipsHiddenLines(t *testing.T) {
	e := newTestEditor()
	e.SetContent(foldableSQL)
	e.MoveCursorToDocStart()
	e.ToggleFoldAtCursor()

	// lines 1 and 2 are hidden, the next visible line is 3
	e.MoveCursorDown()
	if e.CursorLine() != 3 {
		t.Errorf("cursor should skip hidden lines, got line %d", e.CursorLine())
	}

	e.MoveCursorUp()
	if e.CursorLine() != 0 {
		t.Errorf("cursor should return to the header line, got %d", e.CursorLine())
	}
}

func TestEdit_RefreshesRegions(t *testing.T) {
	e := newTestEditor()
	e.SetContent("SELECT (SELECT 1) x")

	if got := len(e.Folds().Regions()); got != 0 {
		t.Fatalf("single-line subquery should not fold, got %d regions", got)
	}

	// split the line after the opening paren: the subquery now spans
	// two lines and becomes foldable
	e.MoveCursorToDocStart()
	for i := 0; i < 8; i++ {
		e.MoveCursorRight()
	}
	e.InsertNewline()

	if got := len(e.Folds().Regions()); got != 1 {
		t.Errorf("expected 1 region after edit, got %d", got)
	}
}

func TestFoldAll_MovesCursorOutOfHiddenSpan(t *testing.T) {
	e := newTestEditor()
	e.SetContent(foldableSQL)
	e.MoveCursorToDocStart()
	e.MoveCursorDown() // line 1, inside the region

	e.FoldAll()
	if e.Folds().IsLineHidden(e.CursorLine()) {
		t.Errorf("cursor must not rest on a hidden line, got line %d", e.CursorLine())
	}
}

func TestFoldSummary(t *testing.T) {
	e := newTestEditor()
	e.SetContent(foldableSQL)

	if e.FoldSummary() == "" {
		t.Error("expected a fold summary for foldable content")
	}

	e.Clear()
	if e.FoldSummary() != "" {
		t.Error("expected empty summary after Clear")
	}
}
