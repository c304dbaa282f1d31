package fold

import (
	"fmt"
	"strings"
)

// RegionType identifies the kind of construct a fold region covers
type RegionType int

const (
	ParenSubquery RegionType = iota
	CaseEnd
	BeginEnd
	BlockComment
)

// String returns the canonical name of the region type
func (t RegionType) String() string {
	switch t {
	case ParenSubquery:
		return "subquery"
	case CaseEnd:
		return "case"
	case BeginEnd:
		return "begin"
	case BlockComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Region represents one foldable span of the document.
// StartLine and EndLine are 0-indexed and inclusive; StartCol and EndCol
// are the column offsets of the opening and closing tokens.
type Region struct {
	ID        string
	Type      RegionType
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
	Collapsed bool
	Preview   string
}

// Lines returns the number of lines the region spans beyond its header
func (r *Region) Lines() int {
	return r.EndLine - r.StartLine
}

// Contains reports whether the given line falls within the region
func (r *Region) Contains(line int) bool {
	return r.StartLine <= line && line <= r.EndLine
}

func newRegion(typ RegionType, startLine, endLine, startCol, endCol int) *Region {
	return &Region{
		ID:        regionID(startLine, endLine, typ),
		Type:      typ,
		StartLine: startLine,
		EndLine:   endLine,
		StartCol:  startCol,
		EndCol:    endCol,
	}
}

// regionID derives a stable identity from the span and type. Two passes
// that find an identical span of the same type produce the same id; a
// one-line boundary shift changes it.
func regionID(startLine, endLine int, typ RegionType) string {
	return fmt.Sprintf("%d:%d:%s", startLine, endLine, typ)
}

const (
	previewLimit = 40
	previewWidth = 37
)

// buildPreview derives the display preview from the region's first line:
// trimmed, truncated to previewWidth runes plus an ellipsis when the
// trimmed line exceeds previewLimit runes.
func buildPreview(firstLine string) string {
	trimmed := strings.TrimSpace(firstLine)
	runes := []rune(trimmed)
	if len(runes) > previewLimit {
		return string(runes[:previewWidth]) + "…"
	}
	return trimmed
}
