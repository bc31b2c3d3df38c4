package jslang

import "fmt"

type TokenType int

const (
	EOF TokenType = iota

	IDENT  // identifier
	NUMBER // numeric literal
	STRING // string literal

	KEYWORD // var let const function class new return if else while do for break continue true false null undefined this
	PUNCT   // operators and delimiters

	ILLEGAL
)

type Token struct {
	Type   TokenType
	Lexeme string // actual source text, quotes stripped for strings
	Line   int
	Col    int
}

var keywords = map[string]bool{
	"var": true, "let": true, "const": true,
	"function": true, "class": true, "new": true,
	"return": true, "if": true, "else": true,
	"while": true, "do": true, "for": true,
	"break": true, "continue": true,
	"true": true, "false": true,
	"null": true, "undefined": true,
	"this": true,
}

// puncts is ordered longest first so the scanner always takes the
// longest match.
var puncts = []string{
	"===", "!==", "<<=", ">>=", "**",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "=>",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "~", "?", ":",
	"(", ")", "{", "}", "[", "]", ",", ";", ".", "&", "|", "^",
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %q", t.Line, t.Col, t.Lexeme)
}
