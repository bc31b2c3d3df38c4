package pylang

import "strings"

// Tokenize scans the whole source up front. Indentation is resolved here:
// each deeper logical line pushes INDENT, each return to a shallower level
// pops matching DEDENTs, so the parser never counts spaces itself.
func Tokenize(source string) []Token {
	var out []Token
	indents := []int{0}

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1

		indent, rest := measureIndent(raw)
		if strings.TrimSpace(rest) == "" || strings.HasPrefix(strings.TrimSpace(rest), "#") {
			continue // blank and comment-only lines do not affect indentation
		}

		if indent > indents[len(indents)-1] {
			indents = append(indents, indent)
			out = append(out, Token{Type: INDENT, Line: lineNo, Col: 1})
		}
		for indent < indents[len(indents)-1] {
			indents = indents[:len(indents)-1]
			out = append(out, Token{Type: DEDENT, Line: lineNo, Col: 1})
		}

		out = append(out, scanLine(rest, lineNo, indent+1)...)
		out = append(out, Token{Type: NEWLINE, Line: lineNo, Col: len(raw) + 1})
	}

	for len(indents) > 1 {
		indents = indents[:len(indents)-1]
		out = append(out, Token{Type: DEDENT, Line: len(lines), Col: 1})
	}
	out = append(out, Token{Type: EOF, Line: len(lines), Col: 1})
	return out
}

// measureIndent counts leading whitespace, tabs expanding to 4 columns.
func measureIndent(line string) (int, string) {
	indent := 0
	i := 0
	for i < len(line) {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			indent += 4
		default:
			return indent, line[i:]
		}
		i++
	}
	return indent, ""
}

func scanLine(s string, line, startCol int) []Token {
	var out []Token
	pos := 0
	col := startCol

	for pos < len(s) {
		ch := s[pos]

		switch {
		case ch == ' ' || ch == '\t':
			pos++
			col++

		case ch == '#':
			return out // rest of line is a comment

		case isDigit(ch) || (ch == '.' && pos+1 < len(s) && isDigit(s[pos+1])):
			start := pos
			for pos < len(s) && (isDigit(s[pos]) || s[pos] == '.') {
				pos++
			}
			out = append(out, Token{Type: NUMBER, Lexeme: s[start:pos], Line: line, Col: col})
			col += pos - start

		case ch == '"' || ch == '\'':
			lit, width := scanString(s[pos:])
			out = append(out, Token{Type: STRING, Lexeme: lit, Line: line, Col: col})
			pos += width
			col += width

		case isIdentStart(ch):
			start := pos
			for pos < len(s) && isIdentPart(s[pos]) {
				pos++
			}
			word := s[start:pos]
			typ := IDENT
			if keywords[word] {
				typ = KEYWORD
			}
			out = append(out, Token{Type: typ, Lexeme: word, Line: line, Col: col})
			col += pos - start

		default:
			matched := false
			for _, p := range puncts {
				if strings.HasPrefix(s[pos:], p) {
					out = append(out, Token{Type: PUNCT, Lexeme: p, Line: line, Col: col})
					pos += len(p)
					col += len(p)
					matched = true
					break
				}
			}
			if !matched {
				out = append(out, Token{Type: ILLEGAL, Lexeme: string(ch), Line: line, Col: col})
				pos++
				col++
			}
		}
	}
	return out
}

// scanString returns the unquoted literal and the source width consumed.
func scanString(s string) (string, int) {
	quote := s[0]
	var b strings.Builder
	i := 1
	for i < len(s) && s[i] != quote {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(unescape(s[i]))
			i++
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	if i < len(s) {
		i++ // closing quote
	}
	return b.String(), i
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isIdentStart(ch byte) bool { return ch == '_' || isAlpha(ch) }
func isIdentPart(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
