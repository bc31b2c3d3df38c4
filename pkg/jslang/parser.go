// Package jslang parses the supported JavaScript subset into the shared
// syntax tree. The parser is a hand-written recursive-descent parser with
// precedence climbing for binary operators.
package jslang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
)

type Parser struct {
	lex *Lexer
	cur Token
	nxt Token
}

// Parse tokenizes and parses a full program.
func Parse(source string) (*ast.Node, error) {
	p := &Parser{lex: NewLexer(source)}
	p.cur = p.lex.NextToken()
	p.nxt = p.lex.NextToken()

	program := &ast.Node{Kind: ast.KindProgram, Line: 1}
	for p.cur.Type != EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		program.Body = append(program.Body, stmt)
	}
	return program, nil
}

func (p *Parser) advance() {
	p.cur = p.nxt
	p.nxt = p.lex.NextToken()
}

func (p *Parser) at(lexeme string) bool {
	return (p.cur.Type == PUNCT || p.cur.Type == KEYWORD) && p.cur.Lexeme == lexeme
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
		return fmt.Errorf("line %d: expected %q, found %q", p.cur.Line, lexeme, p.cur.Lexeme)
	}
	return nil
}

func (p *Parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.cur.Line, fmt.Sprintf(format, args...))
}

func (p *Parser) statement() (*ast.Node, error) {
	tok := p.cur

	switch {
	case p.at("var") || p.at("let") || p.at("const"):
		return p.varDecl()

	case p.at("function"):
		return p.funcDecl()

	case p.at("class"):
		return p.classDecl()

	case p.at("return"):
		p.advance()
		n := &ast.Node{Kind: ast.KindReturn, Line: tok.Line, Col: tok.Col}
		if !p.at(";") && !p.at("}") && p.cur.Type != EOF {
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			n.Left = expr
		}
		p.eat(";")
		return n, nil

	case p.at("break"):
		p.advance()
		p.eat(";")
		return &ast.Node{Kind: ast.KindBreak, Line: tok.Line, Col: tok.Col}, nil

	case p.at("continue"):
		p.advance()
		p.eat(";")
		return &ast.Node{Kind: ast.KindContinue, Line: tok.Line, Col: tok.Col}, nil

	case p.at("if"):
		return p.ifStmt()

	case p.at("while"):
		return p.whileStmt()

	case p.at("do"):
		return p.doWhileStmt()

	case p.at("for"):
		return p.forStmt()

	case p.at("{"):
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindBlock, Line: tok.Line, Col: tok.Col, Body: body}, nil

	case p.at(";"):
		p.advance()
		return &ast.Node{Kind: ast.KindEmpty, Line: tok.Line, Col: tok.Col}, nil

	default:
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		p.eat(";")
		return &ast.Node{Kind: ast.KindExprStmt, Line: tok.Line, Col: tok.Col, Left: expr}, nil
	}
}

func (p *Parser) varDecl() (*ast.Node, error) {
	tok := p.cur
	p.advance() // var / let / const

	if p.cur.Type != IDENT {
		return nil, p.errf("expected variable name after %q", tok.Lexeme)
	}
	n := &ast.Node{Kind: ast.KindVarDecl, Line: tok.Line, Col: tok.Col, Name: p.cur.Lexeme}
	p.advance()

	if p.eat("=") {
		init, err := p.assignment()
		if err != nil {
			return nil, err
		}
		n.Right = init
	}
	p.eat(";")
	return n, nil
}

func (p *Parser) funcDecl() (*ast.Node, error) {
	tok := p.cur
	p.advance() // function

	if p.cur.Type != IDENT {
		return nil, p.errf("expected function name")
	}
	name := p.cur.Lexeme
	p.advance()

	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind: ast.KindFuncDecl, Line: tok.Line, Col: tok.Col,
		Name: name, Params: params, Body: body,
	}, nil
}

func (p *Parser) classDecl() (*ast.Node, error) {
	tok := p.cur
	p.advance() // class

	if p.cur.Type != IDENT {
		return nil, p.errf("expected class name")
	}
	n := &ast.Node{Kind: ast.KindClassDecl, Line: tok.Line, Col: tok.Col, Name: p.cur.Lexeme}
	p.advance()

	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at("}") && p.cur.Type != EOF {
		if p.eat(";") {
			continue
		}
		// method: name(params) { body }
		if p.cur.Type != IDENT && p.cur.Lexeme != "constructor" {
			return nil, p.errf("expected method name, found %q", p.cur.Lexeme)
		}
		mtok := p.cur
		mname := p.cur.Lexeme
		p.advance()

		params, err := p.paramList()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		n.Body = append(n.Body, &ast.Node{
			Kind: ast.KindFuncDecl, Line: mtok.Line, Col: mtok.Col,
			Name: mname, Params: params, Body: body,
		})
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) paramList() ([]string, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var params []string
	for !p.at(")") && p.cur.Type != EOF {
		if p.cur.Type != IDENT {
			return nil, p.errf("expected parameter name, found %q", p.cur.Lexeme)
		}
		params = append(params, p.cur.Lexeme)
		p.advance()
		if !p.eat(",") {
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}

// block parses { stmt* } and returns the statement list.
func (p *Parser) block() ([]*ast.Node, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var body []*ast.Node
	for !p.at("}") && p.cur.Type != EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return body, nil
}

// bodyOrStmt accepts either a braced block or a single statement.
func (p *Parser) bodyOrStmt() ([]*ast.Node, error) {
	if p.at("{") {
		return p.block()
	}
	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	return []*ast.Node{stmt}, nil
}

func (p *Parser) ifStmt() (*ast.Node, error) {
	tok := p.cur
	p.advance() // if

	if err := p.expect("("); err != nil {
		return nil, err
	}
	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.bodyOrStmt()
	if err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.KindIf, Line: tok.Line, Col: tok.Col, Test: test, Body: body}

	if p.eat("else") {
		if p.at("if") {
			alt, err := p.ifStmt()
			if err != nil {
				return nil, err
			}
			n.Alt = alt
		} else {
			etok := p.cur
			altBody, err := p.bodyOrStmt()
			if err != nil {
				return nil, err
			}
			n.Alt = &ast.Node{Kind: ast.KindBlock, Line: etok.Line, Col: etok.Col, Body: altBody}
		}
	}
	return n, nil
}

func (p *Parser) whileStmt() (*ast.Node, error) {
	tok := p.cur
	p.advance() // while

	if err := p.expect("("); err != nil {
		return nil, err
	}
	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.bodyOrStmt()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindWhile, Line: tok.Line, Col: tok.Col, Test: test, Body: body}, nil
}

func (p *Parser) doWhileStmt() (*ast.Node, error) {
	tok := p.cur
	p.advance() // do

	body, err := p.bodyOrStmt()
	if err != nil {
		return nil, err
	}
	if err := p.expect("while"); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	p.eat(";")
	return &ast.Node{Kind: ast.KindDoWhile, Line: tok.Line, Col: tok.Col, Test: test, Body: body}, nil
}

func (p *Parser) forStmt() (*ast.Node, error) {
	tok := p.cur
	p.advance() // for

	if err := p.expect("("); err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.KindFor, Line: tok.Line, Col: tok.Col}

	if !p.at(";") {
		if p.at("var") || p.at("let") || p.at("const") {
			init, err := p.varDecl() // consumes the trailing ;
			if err != nil {
				return nil, err
			}
			n.Init = init
		} else {
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			n.Init = &ast.Node{Kind: ast.KindExprStmt, Line: expr.Line, Left: expr}
			if err := p.expect(";"); err != nil {
				return nil, err
			}
		}
	} else {
		p.advance()
	}

	if !p.at(";") {
		test, err := p.expression()
		if err != nil {
			return nil, err
		}
		n.Test = test
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}

	if !p.at(")") {
		update, err := p.expression()
		if err != nil {
			return nil, err
		}
		n.Update = update
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	body, err := p.bodyOrStmt()
	if err != nil {
		return nil, err
	}
	n.Body = body
	return n, nil
}

// --- expressions ---

func (p *Parser) expression() (*ast.Node, error) {
	return p.assignment()
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func (p *Parser) assignment() (*ast.Node, error) {
	left, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == PUNCT && assignOps[p.cur.Lexeme] {
		op := p.cur.Lexeme
		tok := p.cur
		p.advance()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		return &ast.Node{
			Kind: ast.KindAssign, Line: tok.Line, Col: tok.Col,
			Op: op, Left: left, Right: right,
		}, nil
	}
	return left, nil
}

func (p *Parser) ternary() (*ast.Node, error) {
	test, err := p.binaryExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.eat("?") {
		return test, nil
	}
	cons, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	alt, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind: ast.KindTernary, Line: test.Line, Col: test.Col,
		Test: test, Cons: cons, Alt: alt,
	}, nil
}

// binary operator precedence, higher binds tighter
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func (p *Parser) binaryExpr(minPrec int) (*ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == PUNCT {
		op := p.cur.Lexeme
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			break
		}
		tok := p.cur
		p.advance()
		right, err := p.binaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		kind := ast.KindBinary
		if op == "&&" || op == "||" {
			kind = ast.KindLogical
		}
		left = &ast.Node{
			Kind: kind, Line: tok.Line, Col: tok.Col,
			Op: op, Left: left, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) unary() (*ast.Node, error) {
	tok := p.cur

	if p.at("-") || p.at("+") || p.at("!") || p.at("~") {
		op := tok.Lexeme
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindUnary, Line: tok.Line, Col: tok.Col, Op: op, Left: operand}, nil
	}

	if p.at("++") || p.at("--") {
		op := tok.Lexeme
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{
			Kind: ast.KindUpdate, Line: tok.Line, Col: tok.Col,
			Op: op, Left: operand, Prefix: true,
		}, nil
	}

	if p.at("new") {
		p.advance()
		callee, err := p.primary()
		if err != nil {
			return nil, err
		}
		args := []*ast.Node{}
		if p.at("(") {
			args, err = p.argList()
			if err != nil {
				return nil, err
			}
		}
		n := &ast.Node{Kind: ast.KindNew, Line: tok.Line, Col: tok.Col, Callee: callee, Args: args}
		return p.postfixChain(n)
	}

	return p.postfix()
}

func (p *Parser) postfix() (*ast.Node, error) {
	operand, err := p.primary()
	if err != nil {
		return nil, err
	}
	operand, err = p.postfixChain(operand)
	if err != nil {
		return nil, err
	}
	if p.at("++") || p.at("--") {
		op := p.cur.Lexeme
		tok := p.cur
		p.advance()
		return &ast.Node{
			Kind: ast.KindUpdate, Line: tok.Line, Col: tok.Col,
			Op: op, Left: operand, Prefix: false,
		}, nil
	}
	return operand, nil
}

// postfixChain applies member access, computed index and call suffixes.
func (p *Parser) postfixChain(n *ast.Node) (*ast.Node, error) {
	for {
		switch {
		case p.at("."):
			tok := p.cur
			p.advance()
			if p.cur.Type != IDENT && p.cur.Type != KEYWORD {
				return nil, p.errf("expected property name after '.'")
			}
			n = &ast.Node{
				Kind: ast.KindMember, Line: tok.Line, Col: tok.Col,
				Object: n, Name: p.cur.Lexeme,
			}
			p.advance()

		case p.at("["):
			tok := p.cur
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			n = &ast.Node{
				Kind: ast.KindMember, Line: tok.Line, Col: tok.Col,
				Object: n, Property: idx, Computed: true,
			}

		case p.at("("):
			tok := p.cur
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			n = &ast.Node{
				Kind: ast.KindCall, Line: tok.Line, Col: tok.Col,
				Callee: n, Args: args,
			}

		default:
			return n, nil
		}
	}
}

func (p *Parser) argList() ([]*ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	args := []*ast.Node{}
	for !p.at(")") && p.cur.Type != EOF {
		a, err := p.assignment()
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
	return args, nil
}

func (p *Parser) primary() (*ast.Node, error) {
	tok := p.cur

	switch tok.Type {
	case NUMBER:
		num, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errf("bad number literal %q", tok.Lexeme)
		}
		isInt := !strings.ContainsAny(tok.Lexeme, ".eE")
		p.advance()
		return &ast.Node{Kind: ast.KindNumber, Line: tok.Line, Col: tok.Col, Num: num, IsInt: isInt}, nil

	case STRING:
		p.advance()
		return &ast.Node{Kind: ast.KindString, Line: tok.Line, Col: tok.Col, Str: tok.Lexeme}, nil

	case IDENT:
		p.advance()
		return &ast.Node{Kind: ast.KindIdent, Line: tok.Line, Col: tok.Col, Name: tok.Lexeme}, nil

	case KEYWORD:
		switch tok.Lexeme {
		case "true", "false":
			p.advance()
			return &ast.Node{Kind: ast.KindBool, Line: tok.Line, Col: tok.Col, BoolV: tok.Lexeme == "true"}, nil
		case "null":
			p.advance()
			return &ast.Node{Kind: ast.KindNull, Line: tok.Line, Col: tok.Col}, nil
		case "undefined":
			p.advance()
			return &ast.Node{Kind: ast.KindUndefined, Line: tok.Line, Col: tok.Col}, nil
		case "this":
			p.advance()
			return &ast.Node{Kind: ast.KindIdent, Line: tok.Line, Col: tok.Col, Name: "this"}, nil
		case "function":
			return p.funcExpr()
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
			for !p.at("]") && p.cur.Type != EOF {
				el, err := p.assignment()
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
			return p.objectLit()
		}
	}

	return nil, p.errf("unexpected token %q", tok.Lexeme)
}

func (p *Parser) funcExpr() (*ast.Node, error) {
	tok := p.cur
	p.advance() // function

	name := ""
	if p.cur.Type == IDENT {
		name = p.cur.Lexeme
		p.advance()
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind: ast.KindFuncExpr, Line: tok.Line, Col: tok.Col,
		Name: name, Params: params, Body: body,
	}, nil
}

func (p *Parser) objectLit() (*ast.Node, error) {
	tok := p.cur
	p.advance() // {

	n := &ast.Node{Kind: ast.KindObjectLit, Line: tok.Line, Col: tok.Col}
	for !p.at("}") && p.cur.Type != EOF {
		var key string
		switch p.cur.Type {
		case IDENT, KEYWORD, STRING:
			key = p.cur.Lexeme
		case NUMBER:
			key = p.cur.Lexeme
		default:
			return nil, p.errf("expected property key, found %q", p.cur.Lexeme)
		}
		p.advance()

		if err := p.expect(":"); err != nil {
			return nil, err
		}
		val, err := p.assignment()
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
