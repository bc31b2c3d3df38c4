package pylang

import "fmt"

type TokenType int

const (
	EOF TokenType = iota

	NEWLINE // logical line end
	INDENT  // block opens
	DEDENT  // block closes

	IDENT
	NUMBER
	STRING

	KEYWORD
	PUNCT

	ILLEGAL
)

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

var keywords = map[string]bool{
	"def": true, "class": true, "return": true,
	"if": true, "elif": true, "else": true,
	"while": true, "for": true, "in": true,
	"break": true, "continue": true, "pass": true,
	"and": true, "or": true, "not": true,
	"True": true, "False": true, "None": true,
}

// puncts is ordered longest first so the scanner always takes the
// longest match.
var puncts = []string{
	"**=", "//=",
	"**", "//", "==", "!=", "<=", ">=",
	"+=", "-=", "*=", "/=", "%=",
	"+", "-", "*", "/", "%", "=", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ".",
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %q", t.Line, t.Col, t.Lexeme)
}
