package fold

import (
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

const scenarioSubquery = "SELECT (\n  SELECT 1\n) x"

type span struct {
	typ        RegionType
	start, end int
}

func spansOf(regions []*Region) []span {
	var out []span
	for _, r := range regions {
		out = append(out, span{r.Type, r.StartLine, r.EndLine})
	}
	return out
}

func TestDetectRegions_AllDetectors(t *testing.T) {
	sql := strings.Join([]string{
		"/*",
		" setup",
		"*/",
		"SELECT (",
		"  SELECT CASE",
		"    WHEN a THEN 1",
		"  END",
		") x",
	}, "\n")

	m := NewManager()
	regions := m.DetectRegions(sql, false)

	want := []span{
		{BlockComment, 0, 2},
		{ParenSubquery, 3, 7},
		{CaseEnd, 4, 6},
	}
	if !reflect.DeepEqual(spansOf(regions), want) {
		t.Errorf("regions = %v, want %v", spansOf(regions), want)
	}
}

func TestDetectRegions_Idempotent(t *testing.T) {
	sql := "SELECT * FROM (\n  SELECT a FROM t WHERE x IN (\n    SELECT y\n  )\n) s"
	m := NewManager()

	first := spansOf(m.DetectRegions(sql, true))
	second := spansOf(m.DetectRegions(sql, true))

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated forced detection differs: %v vs %v", first, second)
	}
}

func TestDetectRegions_FingerprintCache(t *testing.T) {
	m := NewManager()
	first := m.DetectRegions(scenarioSubquery, false)
	second := m.DetectRegions(scenarioSubquery, false)

	if len(first) == 0 || len(second) == 0 {
		t.Fatal("expected regions from both calls")
	}
	if first[0] != second[0] {
		t.Error("unchanged content should return the cached regions")
	}

	forced := m.DetectRegions(scenarioSubquery, true)
	if len(forced) > 0 && forced[0] == first[0] {
		t.Error("force should rebuild regions")
	}
}

// randomNestedSQL builds randomly nested subqueries; siblings land on
// separate lines so region spans never partially overlap
func randomNestedSQL(r *rand.Rand, depth int) string {
	if depth == 0 || r.Intn(4) == 0 {
		return "SELECT " + strconv.Itoa(r.Intn(100))
	}
	n := 1 + r.Intn(2)
	var parts []string
	for i := 0; i < n; i++ {
		parts = append(parts, "(\n"+randomNestedSQL(r, depth-1)+"\n)")
	}
	return "SELECT x FROM t WHERE a IN " + strings.Join(parts, "\nAND b IN ")
}

func TestDetectRegions_ContainmentInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	m := NewManager()

	for i := 0; i < 200; i++ {
		sql := randomNestedSQL(r, 4)
		regions := m.DetectRegions(sql, true)

		for a := 0; a < len(regions); a++ {
			for b := a + 1; b < len(regions); b++ {
				ra, rb := regions[a], regions[b]
				disjoint := ra.EndLine < rb.StartLine || rb.EndLine < ra.StartLine
				aInB := rb.StartLine <= ra.StartLine && ra.EndLine <= rb.EndLine
				bInA := ra.StartLine <= rb.StartLine && rb.EndLine <= ra.EndLine
				if !disjoint && !aInB && !bInA {
					t.Fatalf("iteration %d: regions %d-%d and %d-%d partially overlap\nsql:\n%s",
						i, ra.StartLine, ra.EndLine, rb.StartLine, rb.EndLine, sql)
				}
			}
		}
	}
}

func TestDetectRegions_SortOrder(t *testing.T) {
	sql := "SELECT ( SELECT ( SELECT 1\n )\n) x"
	m := NewManager()
	regions := m.DetectRegions(sql, false)

	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	// same start line: outer (larger) region sorts first
	if regions[0].EndLine != 2 || regions[1].EndLine != 1 {
		t.Errorf("expected ends [2 1], got [%d %d]", regions[0].EndLine, regions[1].EndLine)
	}
}

func TestRegionAtLine_Innermost(t *testing.T) {
	m := NewManager()
	m.DetectRegions("SELECT ( SELECT ( SELECT 1\n )\n) x", false)

	r := m.RegionAtLine(0)
	if r == nil {
		t.Fatal("expected a region at line 0")
	}
	if r.EndLine != 1 {
		t.Errorf("expected the innermost region (end 1), got end %d", r.EndLine)
	}
	if m.RegionAtLine(5) != nil {
		t.Error("expected nil for a line with no region start")
	}
}

func TestRegionsContainingLine(t *testing.T) {
	sql := "SELECT * FROM (\n  SELECT a FROM t WHERE x IN (\n    SELECT y\n  )\n) s"
	m := NewManager()
	m.DetectRegions(sql, false)

	if got := len(m.RegionsContainingLine(2)); got != 2 {
		t.Errorf("line 2 should be inside 2 regions, got %d", got)
	}
	if got := len(m.RegionsContainingLine(4)); got != 1 {
		t.Errorf("line 4 should be inside 1 region, got %d", got)
	}
}

func TestToggleFold(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)

	r := m.ToggleFold(0)
	if r == nil {
		t.Fatal("expected a region at line 0")
	}
	if !r.Collapsed {
		t.Error("region should be collapsed after toggle")
	}

	r = m.ToggleFold(0)
	if r == nil || r.Collapsed {
		t.Error("region should be expanded after second toggle")
	}

	if m.ToggleFold(1) != nil {
		t.Error("no region starts at line 1, toggle should return nil")
	}
}

func TestIsLineHidden(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)
	m.ToggleFold(0)

	tests := []struct {
		line   int
		hidden bool
	}{
		{0, false}, // header stays visible
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		if got := m.IsLineHidden(tt.line); got != tt.hidden {
			t.Errorf("IsLineHidden(%d) = %v, want %v", tt.line, got, tt.hidden)
		}
	}
}

func TestFoldAllUnfoldAll(t *testing.T) {
	sql := "SELECT (\n SELECT 1\n) a, (\nSELECT 2\n) b"
	m := NewManager()
	m.DetectRegions(sql, false)

	m.FoldAll()
	for _, r := range m.Regions() {
		if !r.Collapsed {
			t.Errorf("region %s should be collapsed", r.ID)
		}
	}

	m.UnfoldAll()
	for _, r := range m.Regions() {
		if r.Collapsed {
			t.Errorf("region %s should be expanded", r.ID)
		}
	}

	// UnfoldAll clears the persistent set: a forced re-detection must
	// not resurrect collapsed state
	m.FoldAll()
	m.UnfoldAll()
	for _, r := range m.DetectRegions(sql, true) {
		if r.Collapsed {
			t.Errorf("region %s should stay expanded after UnfoldAll", r.ID)
		}
	}
}

func TestCollapsedStateSurvivesEdit(t *testing.T) {
	before := scenarioSubquery + "\n-- note"
	after := scenarioSubquery + "\n-- note, edited elsewhere"

	m := NewManager()
	m.DetectRegions(before, false)
	m.ToggleFold(0)

	regions := m.DetectRegions(after, false)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if !regions[0].Collapsed {
		t.Error("region with unchanged boundaries should keep its fold state")
	}
}

func TestCollapsedStateLostOnBoundaryShift(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)
	m.ToggleFold(0)

	// a blank line above shifts the span, changing region identity
	regions := m.DetectRegions("\n"+scenarioSubquery, false)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].Collapsed {
		t.Error("shifted region has a new identity and should be expanded")
	}
}

func TestVisibleLines(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)
	m.ToggleFold(0)

	got := m.VisibleLines(5)
	want := []int{0, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VisibleLines = %v, want %v", got, want)
	}
}

func TestFoldMarkers(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)
	m.ToggleFold(0)

	markers := m.FoldMarkers()
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	mk := markers[0]
	if mk.Line != 0 || mk.EndLine != 2 || !mk.Collapsed || mk.Type != ParenSubquery {
		t.Errorf("unexpected marker: %+v", mk)
	}
	if mk.Preview != "SELECT (" {
		t.Errorf("expected preview %q, got %q", "SELECT (", mk.Preview)
	}
}

func TestPreview_Truncation(t *testing.T) {
	long := "SELECT a, b, c, d, e, f, g, h, i, j, k FROM (\nSELECT 1\n) x"
	m := NewManager()
	regions := m.DetectRegions(long, false)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	p := regions[0].Preview
	if !strings.HasSuffix(p, "…") {
		t.Errorf("long preview should end with ellipsis, got %q", p)
	}
	if got := len([]rune(p)); got != 38 {
		t.Errorf("expected 37 runes + ellipsis, got %d runes", got)
	}
}

func TestApplyFolds_NoRegions(t *testing.T) {
	text := "SELECT 1\nFROM t"
	m := NewManager()
	m.DetectRegions(text, false)

	display, lineMap := m.ApplyFolds(text)
	if display != text {
		t.Errorf("display = %q, want original text", display)
	}
	if !reflect.DeepEqual(lineMap, []int{0, 1}) {
		t.Errorf("lineMap = %v, want identity", lineMap)
	}
}

func TestApplyFolds_NoneCollapsed(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)

	display, lineMap := m.ApplyFolds(scenarioSubquery)
	if display != scenarioSubquery {
		t.Errorf("display = %q, want original text", display)
	}
	if !reflect.DeepEqual(lineMap, []int{0, 1, 2}) {
		t.Errorf("lineMap = %v, want identity", lineMap)
	}
}

func TestApplyFolds_Collapsed(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)
	m.ToggleFold(0)

	display, lineMap := m.ApplyFolds(scenarioSubquery)
	want := "SELECT ( ⋯ (2 lines hidden)"
	if display != want {
		t.Errorf("display = %q, want %q", display, want)
	}
	if !reflect.DeepEqual(lineMap, []int{0}) {
		t.Errorf("lineMap = %v, want [0]", lineMap)
	}
}

func TestApplyFolds_InnerFoldOnly(t *testing.T) {
	sql := "SELECT * FROM (\n  SELECT a FROM t WHERE x IN (\n    SELECT y\n  )\n) s"
	m := NewManager()
	m.DetectRegions(sql, false)
	m.ToggleFold(1)

	display, lineMap := m.ApplyFolds(sql)
	lines := strings.Split(display, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 display lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "⋯ (2 lines hidden)") {
		t.Errorf("inner header should carry the indicator, got %q", lines[1])
	}
	if !reflect.DeepEqual(lineMap, []int{0, 1, 4}) {
		t.Errorf("lineMap = %v, want [0 1 4]", lineMap)
	}
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.DetectRegions(scenarioSubquery, false)
	m.ToggleFold(0)

	m.Clear()
	if len(m.Regions()) != 0 {
		t.Error("Clear should drop all regions")
	}
	if m.IsLineHidden(1) {
		t.Error("no line should be hidden after Clear")
	}
	for _, r := range m.DetectRegions(scenarioSubquery, true) {
		if r.Collapsed {
			t.Error("Clear should drop the persistent collapsed set")
		}
	}
}

func TestRegionID_Stability(t *testing.T) {
	a := regionID(2, 7, ParenSubquery)
	b := regionID(2, 7, ParenSubquery)
	if a != b {
		t.Errorf("same span and type should share an id: %q vs %q", a, b)
	}
	if regionID(2, 8, ParenSubquery) == a {
		t.Error("a boundary shift must change the id")
	}
	if regionID(2, 7, CaseEnd) == a {
		t.Error("a different type must change the id")
	}
}
