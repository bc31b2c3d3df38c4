// Package pylang parses the supported Python subset into the shared syntax
// tree. Indentation handling lives in the tokenizer; the parser consumes
// INDENT/DEDENT pairs like braces. for-in loops are desugared into counted
// loops over a hidden iterable binding so the evaluator needs no iterator
// protocol.
package pylang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
)

type Parser struct {
	toks []Token
	pos  int
}

func Parse(source string) (*ast.Node, error) {
	p := &Parser{toks: Tokenize(source)}

	program := &ast.Node{Kind: ast.KindProgram, Line: 1}
	for p.cur().Type != EOF {
		if p.cur().Type == NEWLINE {
			p.advance()
			continue
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		program.Body = append(program.Body, stmt)
	}
	return program, nil
}

func (p *Parser) cur() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return Token{Type: EOF}
}

func (p *Parser) advance() { p.pos++ }

func (p *Parser) at(lexeme string) bool {
	t := p.cur()
	return (t.Type == PUNCT || t.Type == KEYWORD) && t.Lexeme == lexeme
}

func (p *Parser) eat(lexeme string) bool {
	if p.at(lexeme) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(lexeme string) error {
	if !p.eat(lexeme) {
		return p.errf("expected %q, found %q", lexeme, p.cur().Lexeme)
	}
	return nil
}

func (p *Parser) expectType(t TokenType, what string) error {
	if p.cur().Type != t {
		return p.errf("expected %s, found %q", what, p.cur().Lexeme)
	}
	p.advance()
	return nil
}

func (p *Parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.cur().Line, fmt.Sprintf(format, args...))
}

func (p *Parser) statement() (*ast.Node, error) {
	tok := p.cur()

	switch {
	case p.at("def"):
		return p.funcDecl()

	case p.at("class"):
		return p.classDecl()

	case p.at("return"):
		p.advance()
		n := &ast.Node{Kind: ast.KindReturn, Line: tok.Line, Col: tok.Col}
		if p.cur().Type != NEWLINE && p.cur().Type != EOF {
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			n.Left = expr
		}
		p.endLine()
		return n, nil

	case p.at("pass"):
		p.advance()
		p.endLine()
		return &ast.Node{Kind: ast.KindEmpty, Line: tok.Line, Col: tok.Col}, nil

	case p.at("break"):
		p.advance()
		p.endLine()
		return &ast.Node{Kind: ast.KindBreak, Line: tok.Line, Col: tok.Col}, nil

	case p.at("continue"):
		p.advance()
		p.endLine()
		return &ast.Node{Kind: ast.KindContinue, Line: tok.Line, Col: tok.Col}, nil

	case p.at("if"):
		return p.ifStmt()

	case p.at("while"):
		return p.whileStmt()

	case p.at("for"):
		return p.forStmt()

	default:
		return p.simpleStmt()
	}
}

// simpleStmt is an assignment or a bare expression ending the line.
func (p *Parser) simpleStmt() (*ast.Node, error) {
	tok := p.cur()

	left, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.cur().Type == PUNCT && assignOps[p.cur().Lexeme] {
		op := p.cur().Lexeme
		p.advance()
		right, err := p.expression()
		if err != nil {
			return nil, err
		}
		p.endLine()

		// a fresh name at statement level is a declaration in this scope
		if op == "=" && left.Kind == ast.KindIdent {
			return &ast.Node{
				Kind: ast.KindVarDecl, Line: tok.Line, Col: tok.Col,
				Name: left.Name, Right: right,
			}, nil
		}
		assign := &ast.Node{
			Kind: ast.KindAssign, Line: tok.Line, Col: tok.Col,
			Op: op, Left: left, Right: right,
		}
		return &ast.Node{Kind: ast.KindExprStmt, Line: tok.Line, Col: tok.Col, Left: assign}, nil
	}

	p.endLine()
	return &ast.Node{Kind: ast.KindExprStmt, Line: tok.Line, Col: tok.Col, Left: left}, nil
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "//=": true, "**=": true,
}

func (p *Parser) endLine() {
	for p.cur().Type == NEWLINE {
		p.advance()
	}
}

func (p *Parser) funcDecl() (*ast.Node, error) {
	tok := p.cur()
	p.advance() // def

	if p.cur().Type != IDENT {
		return nil, p.errf("expected function name")
	}
	name := p.cur().Lexeme
	p.advance()

	if err := p.expect("("); err != nil {
		return nil, err
	}
	var params []string
	for !p.at(")") && p.cur().Type != EOF {
		if p.cur().Type != IDENT {
			return nil, p.errf("expected parameter name, found %q", p.cur().Lexeme)
		}
		params = append(params, p.cur().Lexeme)
		p.advance()
		if !p.eat(",") {
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind: ast.KindFuncDecl, Line: tok.Line, Col: tok.Col,
		Name: name, Params: params, Body: body,
	}, nil
}

func (p *Parser) classDecl() (*ast.Node, error) {
	tok := p.cur()
	p.advance() // class

	if p.cur().Type != IDENT {
		return nil, p.errf("expected class name")
	}
	n := &ast.Node{Kind: ast.KindClassDecl, Line: tok.Line, Col: tok.Col, Name: p.cur().Lexeme}
	p.advance()

	// base-class list is accepted and ignored
	if p.eat("(") {
		for !p.at(")") && p.cur().Type != EOF {
			p.advance()
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
	}

	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	for _, m := range body {
		if m.Kind == ast.KindFuncDecl {
			n.Body = append(n.Body, m)
		}
	}
	return n, nil
}

// suite parses ": NEWLINE INDENT stmts DEDENT" or an inline ": stmt".
func (p *Parser) suite() ([]*ast.Node, error) {
	if err := p.expect(":"); err != nil {
		return nil, err
	}

	if p.cur().Type != NEWLINE {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		return []*ast.Node{stmt}, nil
	}
	p.endLine()

	if err := p.expectType(INDENT, "an indented block"); err != nil {
		return nil, err
	}
	var body []*ast.Node
	for p.cur().Type != DEDENT && p.cur().Type != EOF {
		if p.cur().Type == NEWLINE {
			p.advance()
			continue
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if p.cur().Type == DEDENT {
		p.advance()
	}
	return body, nil
}

func (p *Parser) ifStmt() (*ast.Node, error) {
	tok := p.cur()
	p.advance() // if / elif

	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.KindIf, Line: tok.Line, Col: tok.Col, Test: test, Body: body}

	switch {
	case p.at("elif"):
		alt, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		n.Alt = alt

	case p.at("else"):
		etok := p.cur()
		p.advance()
		altBody, err := p.suite()
		if err != nil {
			return nil, err
		}
		n.Alt = &ast.Node{Kind: ast.KindBlock, Line: etok.Line, Col: etok.Col, Body: altBody}
	}
	return n, nil
}

func (p *Parser) whileStmt() (*ast.Node, error) {
	tok := p.cur()
	p.advance() // while

	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindWhile, Line: tok.Line, Col: tok.Col, Test: test, Body: body}, nil
}

// forStmt desugars "for name in expr:" into a counted loop. The iterable is
// evaluated once into a hidden binding; hidden names carry Line 0 so they
// never surface as recorded steps, and the recorder filters them from
// variable snapshots.
func (p *Parser) forStmt() (*ast.Node, error) {
	tok := p.cur()
	p.advance() // for

	if p.cur().Type != IDENT {
		return nil, p.errf("expected loop variable name")
	}
	loopVar := p.cur().Lexeme
	p.advance()

	if err := p.expect("in"); err != nil {
		return nil, err
	}
	iter, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}

	itName := fmt.Sprintf("__it_l%d", tok.Line)
	ixName := fmt.Sprintf("__ix_l%d", tok.Line)

	ident := func(name string) *ast.Node {
		return &ast.Node{Kind: ast.KindIdent, Name: name}
	}

	loop := &ast.Node{
		Kind: ast.KindFor, Line: tok.Line, Col: tok.Col,
		Init: &ast.Node{Kind: ast.KindVarDecl, Name: ixName,
			Right: &ast.Node{Kind: ast.KindNumber, Num: 0, IsInt: true}},
		Test: &ast.Node{Kind: ast.KindBinary, Op: "<",
			Left:  ident(ixName),
			Right: &ast.Node{Kind: ast.KindMember, Object: ident(itName), Name: "length"}},
		Update: &ast.Node{Kind: ast.KindUpdate, Op: "++", Prefix: true, Left: ident(ixName)},
	}
	loop.Body = append([]*ast.Node{{
		Kind: ast.KindVarDecl, Name: loopVar,
		Right: &ast.Node{Kind: ast.KindMember, Object: ident(itName),
			Property: ident(ixName), Computed: true},
	}}, body...)

	return &ast.Node{
		Kind: ast.KindBlock, Line: tok.Line, Col: tok.Col,
		Body: []*ast.Node{
			{Kind: ast.KindVarDecl, Name: itName, Right: iter},
			loop,
		},
	}, nil
}

// --- expressions ---

func (p *Parser) expression() (*ast.Node, error) {
	return p.orExpr()
}

func (p *Parser) orExpr() (*ast.Node, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.at("or") {
		tok := p.cur()
		p.advance()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindLogical, Line: tok.Line, Col: tok.Col,
			Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) andExpr() (*ast.Node, error) {
	left, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	for p.at("and") {
		tok := p.cur()
		p.advance()
		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindLogical, Line: tok.Line, Col: tok.Col,
			Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) notExpr() (*ast.Node, error) {
	if p.at("not") {
		tok := p.cur()
		p.advance()
		operand, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindUnary, Line: tok.Line, Col: tok.Col,
			Op: "!", Left: operand}, nil
	}
	return p.comparison()
}

var compareOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (p *Parser) comparison() (*ast.Node, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == PUNCT && compareOps[p.cur().Lexeme] {
		tok := p.cur()
		op := tok.Lexeme
		p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
			Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) additive() (*ast.Node, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.at("+") || p.at("-") {
		tok := p.cur()
		op := tok.Lexeme
		p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
			Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) multiplicative() (*ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.at("*") || p.at("/") || p.at("//") || p.at("%") {
		tok := p.cur()
		op := tok.Lexeme
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
			Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (*ast.Node, error) {
	if p.at("-") || p.at("+") {
		tok := p.cur()
		op := tok.Lexeme
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindUnary, Line: tok.Line, Col: tok.Col,
			Op: op, Left: operand}, nil
	}
	return p.power()
}

// power is right associative and binds tighter than unary on its left.
func (p *Parser) power() (*ast.Node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.at("**") {
		tok := p.cur()
		p.advance()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
			Op: "**", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *Parser) postfix() (*ast.Node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at("."):
			tok := p.cur()
			p.advance()
			if p.cur().Type != IDENT {
				return nil, p.errf("expected attribute name after '.'")
			}
			n = &ast.Node{Kind: ast.KindMember, Line: tok.Line, Col: tok.Col,
				Object: n, Name: p.cur().Lexeme}
			p.advance()

		case p.at("["):
			tok := p.cur()
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			n = &ast.Node{Kind: ast.KindMember, Line: tok.Line, Col: tok.Col,
				Object: n, Property: idx, Computed: true}

		case p.at("("):
			tok := p.cur()
			p.advance()
			args := []*ast.Node{}
			for !p.at(")") && p.cur().Type != EOF {
				a, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if !p.eat(",") {
					break
				}
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			n = &ast.Node{Kind: ast.KindCall, Line: tok.Line, Col: tok.Col,
				Callee: n, Args: args}

		default:
			return n, nil
		}
	}
}

func (p *Parser) primary() (*ast.Node, error) {
	tok := p.cur()

	switch tok.Type {
	case NUMBER:
		num, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errf("bad number literal %q", tok.Lexeme)
		}
		p.advance()
		return &ast.Node{Kind: ast.KindNumber, Line: tok.Line, Col: tok.Col,
			Num: num, IsInt: !strings.Contains(tok.Lexeme, ".")}, nil

	case STRING:
		p.advance()
		return &ast.Node{Kind: ast.KindString, Line: tok.Line, Col: tok.Col, Str: tok.Lexeme}, nil

	case IDENT:
		p.advance()
		return &ast.Node{Kind: ast.KindIdent, Line: tok.Line, Col: tok.Col, Name: tok.Lexeme}, nil

	case KEYWORD:
		switch tok.Lexeme {
		case "True", "False":
			p.advance()
			return &ast.Node{Kind: ast.KindBool, Line: tok.Line, Col: tok.Col,
				BoolV: tok.Lexeme == "True"}, nil
		case "None":
			p.advance()
			return &ast.Node{Kind: ast.KindNull, Line: tok.Line, Col: tok.Col}, nil
		}
		return nil, p.errf("unexpected keyword %q", tok.Lexeme)

	case PUNCT:
		switch tok.Lexeme {
		case "(":
			p.advance()
			inner, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return inner, nil

		case "[":
			p.advance()
			n := &ast.Node{Kind: ast.KindArrayLit, Line: tok.Line, Col: tok.Col}
			for !p.at("]") && p.cur().Type != EOF {
				el, err := p.expression()
				if err != nil {
					return nil, err
				}
				n.Args = append(n.Args, el)
				if !p.eat(",") {
					break
				}
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			return n, nil

		case "{":
			p.advance()
			n := &ast.Node{Kind: ast.KindObjectLit, Line: tok.Line, Col: tok.Col}
			for !p.at("}") && p.cur().Type != EOF {
				var key string
				switch p.cur().Type {
				case STRING, IDENT, NUMBER:
					key = p.cur().Lexeme
				default:
					return nil, p.errf("expected dict key, found %q", p.cur().Lexeme)
				}
				p.advance()
				if err := p.expect(":"); err != nil {
					return nil, err
				}
				val, err := p.expression()
				if err != nil {
					return nil, err
				}
				n.Props = append(n.Props, ast.Prop{Key: key, Value: val})
				if !p.eat(",") {
					break
				}
			}
			if err := p.expect("}"); err != nil {
				return nil, err
			}
			return n, nil
		}
	}

	return nil, p.errf("unexpected token %q", tok.Lexeme)
}
