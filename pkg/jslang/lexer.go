package jslang

import "strings"

type Lexer struct {
	input    string
	length   int
	position int
	line     int
	column   int
}

func NewLexer(s string) *Lexer {
	return &Lexer{input: s, length: len(s), line: 1, column: 1}
}

// NextToken returns the next token, skipping whitespace and both comment
// forms.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.position >= l.length {
		return Token{Type: EOF, Line: l.line, Col: l.column}
	}

	line, col := l.line, l.column
	ch := l.input[l.position]

	switch {
	case isDigit(ch) || (ch == '.' && l.position+1 < l.length && isDigit(l.input[l.position+1])):
		return l.scanNumber(line, col)

	case ch == '"' || ch == '\'':
		return l.scanString(ch, line, col)

	case isIdentStart(ch):
		start := l.position
		for l.position < l.length && isIdentPart(l.input[l.position]) {
			l.advance(1)
		}
		word := l.input[start:l.position]
		typ := IDENT
		if keywords[word] {
			typ = KEYWORD
		}
		return Token{Type: typ, Lexeme: word, Line: line, Col: col}
	}

	rest := l.input[l.position:]
	for _, p := range puncts {
		if strings.HasPrefix(rest, p) {
			l.advance(len(p))
			return Token{Type: PUNCT, Lexeme: p, Line: line, Col: col}
		}
	}

	l.advance(1)
	return Token{Type: ILLEGAL, Lexeme: string(ch), Line: line, Col: col}
}

func (l *Lexer) scanNumber(line, col int) Token {
	start := l.position
	for l.position < l.length && (isDigit(l.input[l.position]) || l.input[l.position] == '.') {
		l.advance(1)
	}
	// exponent part
	if l.position < l.length && (l.input[l.position] == 'e' || l.input[l.position] == 'E') {
		save := l.position
		l.advance(1)
		if l.position < l.length && (l.input[l.position] == '+' || l.input[l.position] == '-') {
			l.advance(1)
		}
		if l.position < l.length && isDigit(l.input[l.position]) {
			for l.position < l.length && isDigit(l.input[l.position]) {
				l.advance(1)
			}
		} else {
			l.position = save
		}
	}
	return Token{Type: NUMBER, Lexeme: l.input[start:l.position], Line: line, Col: col}
}

func (l *Lexer) scanString(quote byte, line, col int) Token {
	l.advance(1)
	var b strings.Builder
	for l.position < l.length && l.input[l.position] != quote {
		ch := l.input[l.position]
		if ch == '\\' && l.position+1 < l.length {
			l.advance(1)
			b.WriteByte(unescape(l.input[l.position]))
			l.advance(1)
			continue
		}
		b.WriteByte(ch)
		l.advance(1)
	}
	if l.position < l.length {
		l.advance(1) // closing quote
	}
	return Token{Type: STRING, Lexeme: b.String(), Line: line, Col: col}
}

func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		ch := l.input[l.position]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance(1)

		case ch == '/' && l.position+1 < l.length && l.input[l.position+1] == '/':
			for l.position < l.length && l.input[l.position] != '\n' {
				l.advance(1)
			}

		case ch == '/' && l.position+1 < l.length && l.input[l.position+1] == '*':
			l.advance(2)
			for l.position+1 < l.length {
				if l.input[l.position] == '*' && l.input[l.position+1] == '/' {
					l.advance(2)
					break
				}
				l.advance(1)
			}

		default:
			return
		}
	}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.position >= l.length {
			break
		}
		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position++
	}
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isIdentStart(ch byte) bool { return ch == '_' || ch == '$' || isAlpha(ch) }
func isIdentPart(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
