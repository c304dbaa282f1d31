package fold

import "strings"

// subqueryLookahead bounds how far past an opening paren we look for a
// SELECT keyword when classifying it as a subquery
const subqueryLookahead = 20

// detectParens finds multi-line parenthesized subqueries. It is the only
// detector driven by the string/comment aware scanner, so parens inside
// literals and comments never match. Parens are matched with an explicit
// stack; stack discipline guarantees true nesting of the emitted regions.
func detectParens(text string) []*Region {
	type openParen struct {
		line, col int
		subquery  bool
	}

	var stack []openParen
	var regions []*Region

	s := newScanner(text)
	for {
		ch, code, ok := s.next()
		if !ok {
			break
		}
		if !code {
			continue
		}
		switch ch {
		case '(':
			stack = append(stack, openParen{
				line:     s.chLine,
				col:      s.chCol,
				subquery: looksLikeSubquery(text, s.pos),
			})
		case ')':
			if len(stack) == 0 {
				// unmatched close, ignore
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			// only multi-line subqueries fold; plain grouping parens
			// and single-line subqueries would flood the gutter
			if top.subquery && s.chLine > top.line {
				regions = append(regions, newRegion(ParenSubquery, top.line, s.chLine, top.col, s.chCol))
			}
		}
	}
	return regions
}

// looksLikeSubquery reports whether the text following an opening paren
// starts with SELECT, skipping leading whitespace within the lookahead
// window
func looksLikeSubquery(text string, from int) bool {
	i := from
	limit := from + subqueryLookahead
	for i < len(text) && i < limit {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		break
	}
	if i+6 > len(text) {
		return false
	}
	return strings.EqualFold(text[i:i+6], "SELECT")
}

// detectKeywordBlocks finds CASE…END or BEGIN…END blocks with a
// line-oriented scan and a LIFO stack of open keywords. END tokens that
// terminate control blocks (END IF/LOOP/WHILE/FOR) are skipped, as are
// tokens masked by a same-line comment. The comment guard is a textual
// heuristic, not a full comment-state tracker: a keyword inside a
// multi-line block comment can still be picked up.
func detectKeywordBlocks(lines []string, keyword string, typ RegionType) []*Region {
	type openBlock struct {
		line, col int
	}

	var stack []openBlock
	var regions []*Region

	for ln, line := range lines {
		for col := 0; col < len(line); col++ {
			switch {
			case wordAt(line, col, keyword):
				if !commentMasked(line, col) {
					stack = append(stack, openBlock{line: ln, col: col})
				}
				col += len(keyword) - 1

			case wordAt(line, col, "END"):
				if commentMasked(line, col) || endsControlBlock(line, col) {
					col += 2
					continue
				}
				// an END on a line that re-opened a CASE belongs to
				// that CASE, not to an open BEGIN
				if typ == BeginEnd && caseOwnsEnd(line, col) {
					col += 2
					continue
				}
				if len(stack) > 0 {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					if ln > top.line {
						regions = append(regions, newRegion(typ, top.line, ln, top.col, col))
					}
				}
				col += 2
			}
		}
	}
	return regions
}

// detectBlockComments finds multi-line /* */ comments with a per-line
// scan. A comment opened and closed on the same line is not foldable; an
// open comment that never closes contributes no region.
func detectBlockComments(lines []string) []*Region {
	var regions []*Region

	open := false
	var openLine, openCol int

	for ln, line := range lines {
		if !open {
			idx := strings.Index(line, "/*")
			if idx < 0 {
				continue
			}
			if strings.Contains(line[idx+2:], "*/") {
				continue
			}
			open = true
			openLine, openCol = ln, idx
		} else {
			idx := strings.Index(line, "*/")
			if idx < 0 {
				continue
			}
			if ln > openLine+1 {
				regions = append(regions, newRegion(BlockComment, openLine, ln, openCol, idx))
			}
			open = false
		}
	}
	return regions
}

// wordAt reports whether the keyword occupies line[col:] on a word
// boundary, case-insensitively
func wordAt(line string, col int, word string) bool {
	if col+len(word) > len(line) {
		return false
	}
	if !strings.EqualFold(line[col:col+len(word)], word) {
		return false
	}
	if col > 0 && isWordChar(line[col-1]) {
		return false
	}
	if col+len(word) < len(line) && isWordChar(line[col+len(word)]) {
		return false
	}
	return true
}

// commentMasked reports whether a token at the given column is preceded
// on the same line by -- or by a /* with no closing */ before it
func commentMasked(line string, col int) bool {
	prefix := line[:col]
	if strings.Contains(prefix, "--") {
		return true
	}
	if o := strings.LastIndex(prefix, "/*"); o >= 0 && !strings.Contains(prefix[o:], "*/") {
		return true
	}
	return false
}

// endsControlBlock reports whether an END at the given column is the
// terminator of a control block (END IF, END LOOP, END WHILE, END FOR)
// rather than of a CASE or BEGIN block
func endsControlBlock(line string, col int) bool {
	i := col + 3
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	for _, kw := range [...]string{"IF", "LOOP", "WHILE", "FOR"} {
		if wordAt(line, i, kw) {
			return true
		}
	}
	return false
}

// caseOwnsEnd reports whether the line text before the END contains a
// CASE token with no intervening END, in which case the END closes that
// CASE rather than an open BEGIN. Best effort: true disambiguation would
// need statement-level parsing.
func caseOwnsEnd(line string, endCol int) bool {
	lastCase, lastEnd := -1, -1
	for col := 0; col < endCol; col++ {
		if wordAt(line, col, "CASE") && !commentMasked(line, col) {
			lastCase = col
			col += 3
		} else if wordAt(line, col, "END") && !commentMasked(line, col) {
			lastEnd = col
			col += 2
		}
	}
	return lastCase >= 0 && lastCase > lastEnd
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
