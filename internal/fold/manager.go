// Package fold implements the code-folding engine for the SQL editor:
// detection of foldable regions (parenthesized subqueries, CASE…END,
// BEGIN…END blocks and block comments), per-buffer fold state keyed by
// stable region identity, and the line-visibility projection used to
// render a shortened view of the document.
//
// Everything here is synchronous and best effort: malformed or partially
// typed SQL never produces an error, only fewer (or no) fold regions.
// Each editor buffer owns exactly one Manager; instances are not safe
// for concurrent use and calls must not be reentered.
package fold

import (
	"fmt"
	"sort"
	"strings"
)

// Marker is the per-region projection consumed by gutter rendering
type Marker struct {
	Line      int
	EndLine   int
	Collapsed bool
	Type      RegionType
	Preview   string
}

// Manager owns the current fold regions of one editor buffer. Regions
// are rebuilt wholesale on every detection pass; the collapsed identity
// set persists across passes, so a region whose boundaries survive an
// edit keeps its fold state while one whose lines shift loses it.
type Manager struct {
	regions     []*Region
	collapsed   map[string]bool
	fingerprint string
}

// NewManager creates an empty fold manager
func NewManager() *Manager {
	return &Manager{collapsed: make(map[string]bool)}
}

// DetectRegions runs all detectors over the text and returns the
// assembled regions, sorted outer-before-inner. A cheap content
// fingerprint skips recomputation when the editor calls this on every
// keystroke with unchanged content; force bypasses the cache.
func (m *Manager) DetectRegions(text string, force bool) []*Region {
	fp := contentFingerprint(text)
	if !force && fp == m.fingerprint && len(m.regions) > 0 {
		return m.regions
	}
	m.fingerprint = fp

	lines := strings.Split(text, "\n")

	var regions []*Region
	regions = append(regions, detectParens(text)...)
	regions = append(regions, detectKeywordBlocks(lines, "CASE", CaseEnd)...)
	regions = append(regions, detectKeywordBlocks(lines, "BEGIN", BeginEnd)...)
	regions = append(regions, detectBlockComments(lines)...)

	// larger (outer) regions before smaller (inner) ones sharing a
	// start line
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].StartLine != regions[j].StartLine {
			return regions[i].StartLine < regions[j].StartLine
		}
		return regions[i].EndLine > regions[j].EndLine
	})

	for _, r := range regions {
		if m.collapsed[r.ID] {
			r.Collapsed = true
		}
		r.Preview = buildPreview(lines[r.StartLine])
	}

	m.regions = regions
	return regions
}

// Regions returns the regions from the last detection pass
func (m *Manager) Regions() []*Region {
	return m.regions
}

// RegionAtLine returns the innermost region starting at the given line,
// or nil if none starts there
func (m *Manager) RegionAtLine(line int) *Region {
	var best *Region
	for _, r := range m.regions {
		if r.StartLine != line {
			continue
		}
		if best == nil || r.Lines() < best.Lines() {
			best = r
		}
	}
	return best
}

// RegionsContainingLine returns all regions whose span includes the line
func (m *Manager) RegionsContainingLine(line int) []*Region {
	var out []*Region
	for _, r := range m.regions {
		if r.Contains(line) {
			out = append(out, r)
		}
	}
	return out
}

// ToggleFold flips the collapsed state of the innermost region starting
// at the given line and returns it, or nil if no region starts there
func (m *Manager) ToggleFold(line int) *Region {
	r := m.RegionAtLine(line)
	if r == nil {
		return nil
	}
	r.Collapsed = !r.Collapsed
	if r.Collapsed {
		m.collapsed[r.ID] = true
	} else {
		delete(m.collapsed, r.ID)
	}
	return r
}

// FoldAll collapses every current region
func (m *Manager) FoldAll() {
	for _, r := range m.regions {
		r.Collapsed = true
		m.collapsed[r.ID] = true
	}
}

// UnfoldAll expands every region and clears the persistent collapsed set
func (m *Manager) UnfoldAll() {
	for _, r := range m.regions {
		r.Collapsed = false
	}
	m.collapsed = make(map[string]bool)
}

// IsLineHidden reports whether the line is hidden by a collapsed region.
// The header line of a collapsed region is never hidden, only interior
// and final lines.
func (m *Manager) IsLineHidden(line int) bool {
	for _, r := range m.regions {
		if r.Collapsed && r.StartLine < line && line <= r.EndLine {
			return true
		}
	}
	return false
}

// VisibleLines returns the original line indices that remain visible
func (m *Manager) VisibleLines(totalLines int) []int {
	visible := make([]int, 0, totalLines)
	for i := 0; i < totalLines; i++ {
		if !m.IsLineHidden(i) {
			visible = append(visible, i)
		}
	}
	return visible
}

// FoldMarkers returns the gutter projection for every current region
func (m *Manager) FoldMarkers() []Marker {
	markers := make([]Marker, 0, len(m.regions))
	for _, r := range m.regions {
		markers = append(markers, Marker{
			Line:      r.StartLine,
			EndLine:   r.EndLine,
			Collapsed: r.Collapsed,
			Type:      r.Type,
			Preview:   r.Preview,
		})
	}
	return markers
}

// ApplyFolds produces the folded display text and a line map translating
// each display line back to its original line index, so click/selection
// coordinates in the shortened view map to true document coordinates.
// The header line of each collapsed region gets a hidden-count indicator
// appended. With no regions the text is returned unchanged with an
// identity map.
func (m *Manager) ApplyFolds(text string) (string, []int) {
	lines := strings.Split(text, "\n")

	if len(m.regions) == 0 {
		lineMap := make([]int, len(lines))
		for i := range lineMap {
			lineMap[i] = i
		}
		return text, lineMap
	}

	var out []string
	var lineMap []int
	for i, line := range lines {
		if m.IsLineHidden(i) {
			continue
		}
		if r := m.collapsedHeaderAt(i); r != nil {
			line += fmt.Sprintf(" ⋯ (%d lines hidden)", r.Lines())
		}
		out = append(out, line)
		lineMap = append(lineMap, i)
	}
	return strings.Join(out, "\n"), lineMap
}

// collapsedHeaderAt returns the outermost collapsed region starting at
// the line; regions are sorted outer first, so the first match wins
func (m *Manager) collapsedHeaderAt(line int) *Region {
	for _, r := range m.regions {
		if r.StartLine == line && r.Collapsed {
			return r
		}
	}
	return nil
}

// Clear drops both the detected regions and the persistent collapsed set
func (m *Manager) Clear() {
	m.regions = nil
	m.collapsed = make(map[string]bool)
	m.fingerprint = ""
}

// contentFingerprint is a cheap non-cryptographic digest: length plus
// the first and last 100 characters. Good enough to skip redundant
// re-detection between keystrokes that did not change content.
func contentFingerprint(text string) string {
	head := text
	if len(head) > 100 {
		head = head[:100]
	}
	tail := text
	if len(tail) > 100 {
		tail = tail[len(tail)-100:]
	}
	return fmt.Sprintf("%d:%s:%s", len(text), head, tail)
}
