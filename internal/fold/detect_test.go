package fold

import (
	"strings"
	"testing"
)

func TestDetectParens_Subquery(t *testing.T) {
	regions := detectParens("SELECT (\n  SELECT 1\n) x")

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Type != ParenSubquery {
		t.Errorf("expected ParenSubquery, got %v", r.Type)
	}
	if r.StartLine != 0 || r.EndLine != 2 {
		t.Errorf("expected span 0-2, got %d-%d", r.StartLine, r.EndLine)
	}
	if r.StartCol != 7 {
		t.Errorf("expected StartCol 7, got %d", r.StartCol)
	}
	if r.EndCol != 0 {
		t.Errorf("expected EndCol 0, got %d", r.EndCol)
	}
}

func TestDetectParens_SingleLineSubquery(t *testing.T) {
	regions := detectParens("SELECT (SELECT 1) x")
	if len(regions) != 0 {
		t.Errorf("single-line subquery should not fold, got %d regions", len(regions))
	}
}

func TestDetectParens_NonSubquery(t *testing.T) {
	regions := detectParens("WHERE a IN (\n  1, 2, 3\n)")
	if len(regions) != 0 {
		t.Errorf("plain grouping parens should not fold, got %d regions", len(regions))
	}
}

func TestDetectParens_CaseInsensitive(t *testing.T) {
	regions := detectParens("SELECT (\n  select 1\n) x")
	if len(regions) != 1 {
		t.Errorf("lowercase select should match, got %d regions", len(regions))
	}
}

func TestDetectParens_Nested(t *testing.T) {
	sql := "SELECT * FROM (\n  SELECT a FROM t WHERE x IN (\n    SELECT y FROM u\n  )\n) s"
	regions := detectParens(sql)

	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	// the closing order is inner first
	if regions[0].StartLine != 1 || regions[0].EndLine != 3 {
		t.Errorf("inner region should span 1-3, got %d-%d", regions[0].StartLine, regions[0].EndLine)
	}
	if regions[1].StartLine != 0 || regions[1].EndLine != 4 {
		t.Errorf("outer region should span 0-4, got %d-%d", regions[1].StartLine, regions[1].EndLine)
	}
}

func TestDetectParens_InsideString(t *testing.T) {
	regions := detectParens("SELECT '(\n  SELECT 1\n)' x")
	if len(regions) != 0 {
		t.Errorf("parens inside string literal should not fold, got %d regions", len(regions))
	}
}

func TestDetectParens_InsideComment(t *testing.T) {
	regions := detectParens("SELECT 1 /* (\n SELECT 2\n) */")
	if len(regions) != 0 {
		t.Errorf("parens inside block comment should not fold, got %d regions", len(regions))
	}
}

func TestDetectParens_UnmatchedClose(t *testing.T) {
	regions := detectParens(") x (\nSELECT 1")
	if len(regions) != 0 {
		t.Errorf("unmatched tokens should be ignored, got %d regions", len(regions))
	}
}

func TestDetectCase_Simple(t *testing.T) {
	regions := detectKeywordBlocks(strings.Split("CASE\n WHEN a THEN 1\nEND", "\n"), "CASE", CaseEnd)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Type != CaseEnd {
		t.Errorf("expected CaseEnd, got %v", r.Type)
	}
	if r.StartLine != 0 || r.EndLine != 2 {
		t.Errorf("expected span 0-2, got %d-%d", r.StartLine, r.EndLine)
	}
}

func TestDetectCase_SingleLine(t *testing.T) {
	regions := detectKeywordBlocks([]string{"CASE WHEN a THEN 1 END"}, "CASE", CaseEnd)
	if len(regions) != 0 {
		t.Errorf("single-line CASE should not fold, got %d regions", len(regions))
	}
}

func TestDetectCase_Nested(t *testing.T) {
	lines := strings.Split("CASE\n WHEN a THEN CASE\n  WHEN b THEN 1\n END\nEND", "\n")
	regions := detectKeywordBlocks(lines, "CASE", CaseEnd)

	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].StartLine != 1 || regions[0].EndLine != 3 {
		t.Errorf("inner region should span 1-3, got %d-%d", regions[0].StartLine, regions[0].EndLine)
	}
	if regions[1].StartLine != 0 || regions[1].EndLine != 4 {
		t.Errorf("outer region should span 0-4, got %d-%d", regions[1].StartLine, regions[1].EndLine)
	}
}

func TestDetectCase_WordBoundary(t *testing.T) {
	lines := strings.Split("SELECT showcase\nFROM trend", "\n")
	regions := detectKeywordBlocks(lines, "CASE", CaseEnd)
	if len(regions) != 0 {
		t.Errorf("substrings must not match keywords, got %d regions", len(regions))
	}
}

func TestDetectCase_EndControlBlocksExcluded(t *testing.T) {
	for _, suffix := range []string{"IF", "LOOP", "WHILE", "FOR"} {
		lines := strings.Split("CASE\n WHEN a THEN 1\nEND "+suffix+";\nEND", "\n")
		regions := detectKeywordBlocks(lines, "CASE", CaseEnd)
		if len(regions) != 1 {
			t.Fatalf("END %s: expected 1 region, got %d", suffix, len(regions))
		}
		if regions[0].EndLine != 3 {
			t.Errorf("END %s should be skipped, region should close at line 3, got %d", suffix, regions[0].EndLine)
		}
	}
}

func TestDetectCase_LineCommentGuard(t *testing.T) {
	lines := strings.Split("CASE\n WHEN a THEN 1 -- not the END\nEND", "\n")
	regions := detectKeywordBlocks(lines, "CASE", CaseEnd)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].EndLine != 2 {
		t.Errorf("END in line comment should be skipped, got end %d", regions[0].EndLine)
	}
}

func TestDetectCase_OpenBlockCommentGuard(t *testing.T) {
	lines := strings.Split("CASE /* disabled END\n WHEN a THEN 1\nEND", "\n")
	regions := detectKeywordBlocks(lines, "CASE", CaseEnd)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].EndLine != 2 {
		t.Errorf("END after unterminated /* should be skipped, got end %d", regions[0].EndLine)
	}
}

func TestDetectBegin_Simple(t *testing.T) {
	lines := strings.Split("BEGIN\n UPDATE t SET a = 1;\nEND", "\n")
	regions := detectKeywordBlocks(lines, "BEGIN", BeginEnd)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].Type != BeginEnd {
		t.Errorf("expected BeginEnd, got %v", regions[0].Type)
	}
	if regions[0].StartLine != 0 || regions[0].EndLine != 2 {
		t.Errorf("expected span 0-2, got %d-%d", regions[0].StartLine, regions[0].EndLine)
	}
}

func TestDetectBegin_CaseEndOnSameLine(t *testing.T) {
	// the END on line 1 closes the same-line CASE, not the open BEGIN
	lines := strings.Split("BEGIN\n x := CASE WHEN a THEN 1 END;\nEND", "\n")
	regions := detectKeywordBlocks(lines, "BEGIN", BeginEnd)

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].EndLine != 2 {
		t.Errorf("BEGIN should close at line 2, got %d", regions[0].EndLine)
	}
}

func TestDetectBlockComments_MultiLine(t *testing.T) {
	regions := detectBlockComments(strings.Split("/*\n header\n*/", "\n"))

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Type != BlockComment {
		t.Errorf("expected BlockComment, got %v", r.Type)
	}
	if r.StartLine != 0 || r.EndLine != 2 {
		t.Errorf("expected span 0-2, got %d-%d", r.StartLine, r.EndLine)
	}
}

func TestDetectBlockComments_TwoLines(t *testing.T) {
	regions := detectBlockComments(strings.Split("/* short\n*/", "\n"))
	if len(regions) != 0 {
		t.Errorf("a comment closing on the next line should not fold, got %d regions", len(regions))
	}
}

func TestDetectBlockComments_SingleLine(t *testing.T) {
	regions := detectBlockComments([]string{"SELECT 1 /* note */"})
	if len(regions) != 0 {
		t.Errorf("single-line comment should not fold, got %d regions", len(regions))
	}
}

func TestDetectBlockComments_Unterminated(t *testing.T) {
	regions := detectBlockComments(strings.Split("/*\n never\n closed", "\n"))
	if len(regions) != 0 {
		t.Errorf("unterminated comment should contribute no region, got %d", len(regions))
	}
}
