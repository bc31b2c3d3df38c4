// Package clang parses the supported C subset into the shared syntax tree.
// Pointer syntax is desugared at parse time into runtime-call nodes
// (__deref, __addr, __arrow, __index and their assignment forms), so the
// evaluator sees only calls and the arena resolves every address.
package clang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
)

type Parser struct {
	lex *Lexer
	cur Token
	nxt Token
}

// Parse tokenizes and parses a full translation unit.
func Parse(source string) (*ast.Node, error) {
	p := &Parser{lex: NewLexer(source)}
	p.cur = p.lex.NextToken()
	p.nxt = p.lex.NextToken()

	program := &ast.Node{Kind: ast.KindProgram, Line: 1}
	for p.cur.Type != EOF {
		decl, err := p.topLevel()
		if err != nil {
			return nil, err
		}
		if decl != nil {
			program.Body = append(program.Body, decl)
		}
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

func (p *Parser) nxtIs(lexeme string) bool {
	return (p.nxt.Type == PUNCT || p.nxt.Type == KEYWORD) && p.nxt.Lexeme == lexeme
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

func (p *Parser) atType() bool {
	return p.cur.Type == KEYWORD && typeKeywords[p.cur.Lexeme]
}

// topLevel parses a struct definition, a function definition or a global
// declaration.
func (p *Parser) topLevel() (*ast.Node, error) {
	if !p.atType() {
		return nil, p.errf("expected a declaration, found %q", p.cur.Lexeme)
	}

	tok := p.cur
	var typ string

	if p.at("struct") {
		p.advance()
		if p.cur.Type != IDENT {
			return nil, p.errf("expected struct tag")
		}
		name := p.cur.Lexeme
		p.advance()
		if p.at("{") {
			return p.structDef(tok, name)
		}
		typ = "struct " + name
		for p.at("*") {
			typ += "*"
			p.advance()
		}
	} else {
		var err error
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Type != IDENT {
		return nil, p.errf("expected a name after type %q", typ)
	}
	name := p.cur.Lexeme
	p.advance()

	if p.at("(") {
		return p.funcDef(tok, typ, name)
	}
	return p.finishDecl(tok, typ, name)
}

func (p *Parser) structDef(tok Token, name string) (*ast.Node, error) {
	n := &ast.Node{Kind: ast.KindStructDef, Line: tok.Line, Col: tok.Col, Name: name}

	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at("}") && p.cur.Type != EOF {
		ftyp, err := p.parseType()
		if err != nil {
			return nil, err
		}
		for {
			if p.cur.Type != IDENT {
				return nil, p.errf("expected field name in struct %s", name)
			}
			n.Fields = append(n.Fields, ast.Field{Name: p.cur.Lexeme, Type: ftyp})
			p.advance()
			if !p.eat(",") {
				break
			}
			// a second declarator may carry its own stars
			for p.at("*") {
				p.advance()
			}
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	return n, nil
}

// parseType reads a base type plus pointer stars into one string, e.g.
// "int", "char*", "struct Node*".
func (p *Parser) parseType() (string, error) {
	if !p.atType() {
		return "", p.errf("expected a type, found %q", p.cur.Lexeme)
	}

	base := p.cur.Lexeme
	p.advance()

	switch base {
	case "struct":
		if p.cur.Type != IDENT {
			return "", p.errf("expected struct tag")
		}
		base = "struct " + p.cur.Lexeme
		p.advance()
	case "unsigned", "long", "short":
		// two-word forms collapse to the second word's width
		if p.cur.Type == KEYWORD && typeKeywords[p.cur.Lexeme] && p.cur.Lexeme != "struct" {
			if base == "unsigned" {
				base = p.cur.Lexeme
			}
			p.advance()
		}
	}

	for p.at("*") {
		base += "*"
		p.advance()
	}
	return base, nil
}

func (p *Parser) funcDef(tok Token, retType, name string) (*ast.Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}

	var params, paramTypes []string
	if p.at("void") && p.nxtIs(")") {
		p.advance()
	}
	for !p.at(")") && p.cur.Type != EOF {
		ptyp, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != IDENT {
			return nil, p.errf("expected parameter name")
		}
		pname := p.cur.Lexeme
		p.advance()

		// "int a[]" is pointer decay
		if p.eat("[") {
			if p.cur.Type == NUMBER {
				p.advance()
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			ptyp += "*"
		}

		params = append(params, pname)
		paramTypes = append(paramTypes, ptyp)
		if !p.eat(",") {
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind: ast.KindFuncDecl, Line: tok.Line, Col: tok.Col,
		Name: name, CType: retType,
		Params: params, ParamTypes: paramTypes, Body: body,
	}, nil
}

// finishDecl completes a declaration whose type and first name were already
// consumed. Multiple declarators on one line become a Block of CDecls.
func (p *Parser) finishDecl(tok Token, typ, name string) (*ast.Node, error) {
	first, err := p.declarator(tok, typ, name)
	if err != nil {
		return nil, err
	}
	if p.at(";") {
		p.advance()
		return first, nil
	}

	decls := []*ast.Node{first}
	for p.eat(",") {
		dtyp := strings.TrimRight(typ, "*")
		for p.at("*") {
			dtyp += "*"
			p.advance()
		}
		if p.cur.Type != IDENT {
			return nil, p.errf("expected a name in declaration")
		}
		dname := p.cur.Lexeme
		p.advance()
		d, err := p.declarator(tok, dtyp, dname)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindBlock, Line: tok.Line, Col: tok.Col, Body: decls}, nil
}

// declarator parses the optional array size and initializer of one declared
// name.
func (p *Parser) declarator(tok Token, typ, name string) (*ast.Node, error) {
	n := &ast.Node{Kind: ast.KindCDecl, Line: tok.Line, Col: tok.Col, Name: name, CType: typ}

	if p.eat("[") {
		if p.cur.Type != NUMBER {
			return nil, p.errf("expected array size for %q", name)
		}
		size, err := strconv.Atoi(p.cur.Lexeme)
		if err != nil || size <= 0 {
			return nil, p.errf("bad array size %q", p.cur.Lexeme)
		}
		n.ArraySize = size
		p.advance()
		if err := p.expect("]"); err != nil {
			return nil, err
		}
	}

	if p.eat("=") {
		if p.at("{") {
			init, err := p.initList()
			if err != nil {
				return nil, err
			}
			n.Right = init
		} else {
			init, err := p.assignment()
			if err != nil {
				return nil, err
			}
			n.Right = init
		}
	}
	return n, nil
}

func (p *Parser) initList() (*ast.Node, error) {
	tok := p.cur
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	n := &ast.Node{Kind: ast.KindArrayLit, Line: tok.Line, Col: tok.Col}
	for !p.at("}") && p.cur.Type != EOF {
		el, err := p.assignment()
		if err != nil {
			return nil, err
		}
		n.Args = append(n.Args, el)
		if !p.eat(",") {
			break
		}
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return n, nil
}

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

func (p *Parser) statement() (*ast.Node, error) {
	tok := p.cur

	switch {
	case p.atType():
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != IDENT {
			return nil, p.errf("expected a name after type %q", typ)
		}
		name := p.cur.Lexeme
		p.advance()
		return p.finishDecl(tok, typ, name)

	case p.at("return"):
		p.advance()
		n := &ast.Node{Kind: ast.KindReturn, Line: tok.Line, Col: tok.Col}
		if !p.at(";") {
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			n.Left = expr
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return n, nil

	case p.at("break"):
		p.advance()
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindBreak, Line: tok.Line, Col: tok.Col}, nil

	case p.at("continue"):
		p.advance()
		if err := p.expect(";"); err != nil {
			return nil, err
		}
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
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindExprStmt, Line: tok.Line, Col: tok.Col, Left: expr}, nil
	}
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
	if err := p.expect(";"); err != nil {
		return nil, err
	}
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
		if p.atType() {
			ttok := p.cur
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if p.cur.Type != IDENT {
				return nil, p.errf("expected a name after type %q", typ)
			}
			name := p.cur.Lexeme
			p.advance()
			init, err := p.declarator(ttok, typ, name)
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
		}
	}
	if err := p.expect(";"); err != nil {
		return nil, err
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

// runtimeCall builds the call-shaped node the evaluator's C runtime layer
// dispatches on.
func runtimeCall(name string, line, col int, args ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind: ast.KindCall, Line: line, Col: col,
		Callee: &ast.Node{Kind: ast.KindIdent, Line: line, Col: col, Name: name},
		Args:   args,
	}
}

func strArg(s string, line int) *ast.Node {
	return &ast.Node{Kind: ast.KindString, Line: line, Str: s}
}

func (p *Parser) expression() (*ast.Node, error) {
	return p.assignment()
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// assignment rewrites writes through desugared lvalues into the matching
// assignment runtime call. Compound operators expand to read-op-write.
func (p *Parser) assignment() (*ast.Node, error) {
	left, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != PUNCT || !assignOps[p.cur.Lexeme] {
		return left, nil
	}

	op := p.cur.Lexeme
	tok := p.cur
	p.advance()
	right, err := p.assignment()
	if err != nil {
		return nil, err
	}

	if rt := runtimeTarget(left); rt != "" {
		if op != "=" {
			right = &ast.Node{
				Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
				Op: strings.TrimSuffix(op, "="), Left: left, Right: right,
			}
		}
		switch rt {
		case "__deref":
			return runtimeCall("__deref_assign", tok.Line, tok.Col, left.Args[0], right), nil
		case "__index":
			return runtimeCall("__index_assign", tok.Line, tok.Col, left.Args[0], left.Args[1], right), nil
		case "__arrow":
			return runtimeCall("__arrow_assign", tok.Line, tok.Col, left.Args[0], left.Args[1], right), nil
		}
	}

	return &ast.Node{
		Kind: ast.KindAssign, Line: tok.Line, Col: tok.Col,
		Op: op, Left: left, Right: right,
	}, nil
}

// runtimeTarget reports which desugared read form an lvalue is, if any.
func runtimeTarget(n *ast.Node) string {
	if n.Kind != ast.KindCall || n.Callee == nil || n.Callee.Kind != ast.KindIdent {
		return ""
	}
	switch n.Callee.Name {
	case "__deref", "__index", "__arrow":
		return n.Callee.Name
	}
	return ""
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

var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
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

	switch {
	case p.at("*"):
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return runtimeCall("__deref", tok.Line, tok.Col, operand), nil

	case p.at("&"):
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		// &a[i] is pointer arithmetic, &x needs the variable's slot
		if runtimeTarget(operand) == "__index" {
			return &ast.Node{
				Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
				Op: "+", Left: operand.Args[0], Right: operand.Args[1],
			}, nil
		}
		return runtimeCall("__addr", tok.Line, tok.Col, operand), nil

	case p.at("-") || p.at("+") || p.at("!") || p.at("~"):
		op := tok.Lexeme
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindUnary, Line: tok.Line, Col: tok.Col, Op: op, Left: operand}, nil

	case p.at("++") || p.at("--"):
		op := tok.Lexeme
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if rewritten := rewriteUpdate(operand, op, tok, true); rewritten != nil {
			return rewritten, nil
		}
		return &ast.Node{
			Kind: ast.KindUpdate, Line: tok.Line, Col: tok.Col,
			Op: op, Left: operand, Prefix: true,
		}, nil

	case p.at("sizeof"):
		return p.sizeofExpr()

	case p.at("(") && p.nxt.Type == KEYWORD && typeKeywords[p.nxt.Lexeme]:
		return p.castExpr()
	}

	return p.postfix()
}

func (p *Parser) sizeofExpr() (*ast.Node, error) {
	tok := p.cur
	p.advance() // sizeof

	if err := p.expect("("); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	if sz := ctypes.SizeOf(typ); sz > 0 {
		return &ast.Node{Kind: ast.KindNumber, Line: tok.Line, Col: tok.Col,
			Num: float64(sz), IsInt: true}, nil
	}
	// struct sizes resolve at run time against the registered layout
	return runtimeCall("__sizeof", tok.Line, tok.Col, strArg(typ, tok.Line)), nil
}

// castExpr parses "(type) expr". A cast directly around malloc, calloc or
// realloc instead annotates the allocation with its element type, which
// fixes the new block's cell layout.
func (p *Parser) castExpr() (*ast.Node, error) {
	tok := p.cur
	p.advance() // (

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}

	if operand.Kind == ast.KindCall && operand.Callee.Kind == ast.KindIdent {
		switch operand.Callee.Name {
		case "malloc", "calloc", "realloc":
			operand.CType = typ
			return operand, nil
		}
	}
	return runtimeCall("__cast", tok.Line, tok.Col, strArg(typ, tok.Line), operand), nil
}

// rewriteUpdate turns ++/-- on a desugared lvalue into the matching
// read-op-write assignment call. Returns nil when the operand is a plain
// name, which the evaluator updates directly.
func rewriteUpdate(operand *ast.Node, op string, tok Token, prefix bool) *ast.Node {
	rt := runtimeTarget(operand)
	if rt == "" {
		return nil
	}
	binOp := "+"
	if op == "--" {
		binOp = "-"
	}
	one := &ast.Node{Kind: ast.KindNumber, Line: tok.Line, Num: 1, IsInt: true}
	sum := &ast.Node{
		Kind: ast.KindBinary, Line: tok.Line, Col: tok.Col,
		Op: binOp, Left: operand, Right: one,
	}
	switch rt {
	case "__deref":
		return runtimeCall("__deref_assign", tok.Line, tok.Col, operand.Args[0], sum)
	case "__index":
		return runtimeCall("__index_assign", tok.Line, tok.Col, operand.Args[0], operand.Args[1], sum)
	case "__arrow":
		return runtimeCall("__arrow_assign", tok.Line, tok.Col, operand.Args[0], operand.Args[1], sum)
	}
	return nil
}

func (p *Parser) postfix() (*ast.Node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at("->"):
			tok := p.cur
			p.advance()
			if p.cur.Type != IDENT {
				return nil, p.errf("expected field name after '->'")
			}
			n = runtimeCall("__arrow", tok.Line, tok.Col, n, strArg(p.cur.Lexeme, tok.Line))
			p.advance()

		case p.at("."):
			tok := p.cur
			p.advance()
			if p.cur.Type != IDENT {
				return nil, p.errf("expected field name after '.'")
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
			n = runtimeCall("__index", tok.Line, tok.Col, n, idx)

		case p.at("("):
			tok := p.cur
			p.advance()
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
			n = &ast.Node{
				Kind: ast.KindCall, Line: tok.Line, Col: tok.Col,
				Callee: n, Args: args,
			}

		case p.at("++") || p.at("--"):
			tok := p.cur
			op := tok.Lexeme
			p.advance()
			if rewritten := rewriteUpdate(n, op, tok, false); rewritten != nil {
				return rewritten, nil
			}
			return &ast.Node{
				Kind: ast.KindUpdate, Line: tok.Line, Col: tok.Col,
				Op: op, Left: n, Prefix: false,
			}, nil

		default:
			return n, nil
		}
	}
}

func (p *Parser) primary() (*ast.Node, error) {
	tok := p.cur

	switch tok.Type {
	case NUMBER:
		num, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errf("bad number literal %q", tok.Lexeme)
		}
		p.advance()
		return &ast.Node{Kind: ast.KindNumber, Line: tok.Line, Col: tok.Col,
			Num: num, IsInt: !strings.Contains(tok.Lexeme, ".")}, nil

	case CHAR:
		p.advance()
		code := 0
		if tok.Lexeme != "" {
			code = int(tok.Lexeme[0])
		}
		return &ast.Node{Kind: ast.KindNumber, Line: tok.Line, Col: tok.Col,
			Num: float64(code), IsInt: true}, nil

	case STRING:
		p.advance()
		return &ast.Node{Kind: ast.KindString, Line: tok.Line, Col: tok.Col, Str: tok.Lexeme}, nil

	case IDENT:
		p.advance()
		return &ast.Node{Kind: ast.KindIdent, Line: tok.Line, Col: tok.Col, Name: tok.Lexeme}, nil

	case KEYWORD:
		if tok.Lexeme == "NULL" {
			p.advance()
			return &ast.Node{Kind: ast.KindNull, Line: tok.Line, Col: tok.Col}, nil
		}
		if tok.Lexeme == "sizeof" {
			return p.sizeofExpr()
		}
		return nil, p.errf("unexpected keyword %q", tok.Lexeme)

	case PUNCT:
		if tok.Lexeme == "(" {
			p.advance()
			inner, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}

	return nil, p.errf("unexpected token %q", tok.Lexeme)
}
