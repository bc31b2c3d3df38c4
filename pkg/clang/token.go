package clang

import "fmt"

type TokenType int

const (
	EOF TokenType = iota

	IDENT
	NUMBER
	CHAR   // character literal, already decoded
	STRING // string literal, quotes stripped

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
	"int": true, "float": true, "double": true, "char": true,
	"long": true, "short": true, "void": true, "unsigned": true,
	"struct": true, "sizeof": true, "return": true,
	"if": true, "else": true, "while": true, "do": true, "for": true,
	"break": true, "continue": true, "NULL": true,
}

// typeKeywords are the keywords that can start a declaration.
var typeKeywords = map[string]bool{
	"int": true, "float": true, "double": true, "char": true,
	"long": true, "short": true, "void": true, "unsigned": true,
	"struct": true,
}

// puncts is ordered longest first so the scanner always takes the
// longest match.
var puncts = []string{
	"<<=", ">>=",
	"->", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "~", "?", ":",
	"(", ")", "{", "}", "[", "]", ",", ";", ".", "&", "|", "^",
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %q", t.Line, t.Col, t.Lexeme)
}
