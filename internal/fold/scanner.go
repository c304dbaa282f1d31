package fold

// scanner walks text one character at a time, tracking line/column
// position and whether the current character sits inside a string
// literal, a line comment (--) or a block comment (/* */). Structural
// characters inside any of those states must not be matched by callers.
//
// Unterminated strings and comments simply run to end of input; that is
// expected for partially typed SQL and is not an error.
type scanner struct {
	text string
	pos  int

	line int
	col  int

	// position of the character most recently returned by next
	chLine int
	chCol  int

	stringDelim    byte // 0 when outside a string
	inLineComment  bool
	inBlockComment bool
}

func newScanner(text string) *scanner {
	return &scanner{text: text}
}

// next consumes the next character and reports whether it is structural
// code (outside strings and comments). Two-character sequences that flip
// state (--, /*, */, backslash escapes) are consumed together; the first
// character is the one returned. chLine/chCol refer to the returned
// character. The third result is false once input is exhausted.
func (s *scanner) next() (byte, bool, bool) {
	if s.pos >= len(s.text) {
		return 0, false, false
	}
	s.chLine, s.chCol = s.line, s.col
	ch := s.advance()

	switch {
	case s.inLineComment:
		if ch == '\n' {
			s.inLineComment = false
		}
		return ch, false, true

	case s.inBlockComment:
		if ch == '*' && s.peek() == '/' {
			s.advance()
			s.inBlockComment = false
		}
		return ch, false, true

	case s.stringDelim != 0:
		if ch == '\\' {
			if s.pos < len(s.text) {
				s.advance()
			}
		} else if ch == s.stringDelim {
			s.stringDelim = 0
		}
		return ch, false, true
	}

	switch {
	case ch == '\'' || ch == '"' || ch == '`':
		s.stringDelim = ch
		return ch, false, true
	case ch == '-' && s.peek() == '-':
		s.advance()
		s.inLineComment = true
		return ch, false, true
	case ch == '/' && s.peek() == '*':
		s.advance()
		s.inBlockComment = true
		return ch, false, true
	}
	return ch, true, true
}

// advance consumes one byte, updating line/column counters
func (s *scanner) advance() byte {
	ch := s.text[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.text) {
		return 0
	}
	return s.text[s.pos]
}
