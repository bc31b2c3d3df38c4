package pylang_test

import (
	"strings"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/pylang"
)

func parse(t *testing.T, source string) *ast.Node {
	t.Helper()
	prog, err := pylang.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func TestTokenizeIndentation(t *testing.T) {
	toks := pylang.Tokenize(`if x:
    a = 1
    b = 2
c = 3`)

	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Type {
		case pylang.INDENT:
			indents++
		case pylang.DEDENT:
			dedents++
		}
	}
	if indents != 1 || dedents != 1 {
		t.Errorf("expected one INDENT and one DEDENT, got %d/%d", indents, dedents)
	}
}

func TestTokenizeNestedDedents(t *testing.T) {
	toks := pylang.Tokenize(`if a:
    if b:
        x = 1
y = 2`)

	dedents := 0
	for _, tok := range toks {
		if tok.Type == pylang.DEDENT {
			dedents++
		}
	}
	if dedents != 2 {
		t.Errorf("returning two levels must emit two DEDENTs, got %d", dedents)
	}
}

func TestBlankAndCommentLinesIgnored(t *testing.T) {
	prog := parse(t, `a = 1

# a comment
b = 2`)

	if len(prog.Body) != 2 {
		t.Errorf("expected 2 statements, got %d", len(prog.Body))
	}
}

func TestBareAssignmentDeclares(t *testing.T) {
	prog := parse(t, "x = 5")

	decl := prog.Body[0]
	if decl.Kind != ast.KindVarDecl || decl.Name != "x" {
		t.Errorf("bare name assignment should declare, got %v %q", decl.Kind, decl.Name)
	}
}

func TestAttributeAssignmentDoesNotDeclare(t *testing.T) {
	prog := parse(t, "self.x = 5")

	stmt := prog.Body[0]
	if stmt.Kind != ast.KindExprStmt || stmt.Left.Kind != ast.KindAssign {
		t.Errorf("attribute writes must stay assignments, got %v", stmt.Kind)
	}
}

func TestForDesugarsToCountedLoop(t *testing.T) {
	prog := parse(t, `for item in items:
    total = item`)

	wrapper := prog.Body[0]
	if wrapper.Kind != ast.KindBlock || len(wrapper.Body) != 2 {
		t.Fatalf("expected a two-part wrapper block, got %v", wrapper.Kind)
	}

	hidden := wrapper.Body[0]
	if hidden.Kind != ast.KindVarDecl || !strings.HasPrefix(hidden.Name, "__it") {
		t.Fatalf("iterable must bind to a hidden name, got %q", hidden.Name)
	}
	if hidden.Line != 0 {
		t.Errorf("hidden bindings carry line 0, got %d", hidden.Line)
	}

	loop := wrapper.Body[1]
	if loop.Kind != ast.KindFor {
		t.Fatalf("expected a counted loop, got %v", loop.Kind)
	}
	if loop.Init == nil || !strings.HasPrefix(loop.Init.Name, "__ix") {
		t.Error("loop counter must be a hidden binding")
	}
	if loop.Test == nil || loop.Test.Op != "<" {
		t.Error("loop test must compare against the iterable length")
	}

	first := loop.Body[0]
	if first.Kind != ast.KindVarDecl || first.Name != "item" {
		t.Errorf("body must rebind the loop variable first, got %+v", first)
	}
}

func TestElifBecomesNestedIf(t *testing.T) {
	prog := parse(t, `if a:
    x = 1
elif b:
    x = 2
else:
    x = 3`)

	outer := prog.Body[0]
	if outer.Kind != ast.KindIf {
		t.Fatalf("expected an if, got %v", outer.Kind)
	}
	inner := outer.Alt
	if inner == nil || inner.Kind != ast.KindIf {
		t.Fatalf("elif must nest as the alternative, got %v", inner)
	}
	if inner.Alt == nil || inner.Alt.Kind != ast.KindBlock {
		t.Error("final else must hang off the innermost if")
	}
}

func TestBooleanOperatorsMapToLogicalNodes(t *testing.T) {
	prog := parse(t, "ok = a and b or not c")

	or := prog.Body[0].Right
	if or.Kind != ast.KindLogical || or.Op != "||" {
		t.Fatalf("or should map to ||, got %v %q", or.Kind, or.Op)
	}
	if or.Left.Kind != ast.KindLogical || or.Left.Op != "&&" {
		t.Errorf("and should map to &&, got %q", or.Left.Op)
	}
	if or.Right.Kind != ast.KindUnary || or.Right.Op != "!" {
		t.Errorf("not should map to !, got %q", or.Right.Op)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog := parse(t, "x = 2 ** 3 ** 2")

	outer := prog.Body[0].Right
	if outer.Op != "**" {
		t.Fatalf("expected **, got %q", outer.Op)
	}
	if outer.Left.Num != 2 {
		t.Errorf("unexpected base %v", outer.Left.Num)
	}
	if outer.Right.Op != "**" {
		t.Error("** must group to the right")
	}
}

func TestInlineSuite(t *testing.T) {
	prog := parse(t, "if x: y = 1")

	stmt := prog.Body[0]
	if stmt.Kind != ast.KindIf || len(stmt.Body) != 1 {
		t.Errorf("inline suite should parse as a one-statement body, got %+v", stmt)
	}
}

func TestClassCollectsMethods(t *testing.T) {
	prog := parse(t, `class A:
    def __init__(self):
        self.n = 0

    def get(self):
        return self.n`)

	cls := prog.Body[0]
	if cls.Kind != ast.KindClassDecl || cls.Name != "A" {
		t.Fatalf("unexpected class node %v %q", cls.Kind, cls.Name)
	}
	if len(cls.Body) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Body))
	}
	if cls.Body[0].Name != "__init__" || cls.Body[1].Name != "get" {
		t.Errorf("unexpected methods %q %q", cls.Body[0].Name, cls.Body[1].Name)
	}
}

func TestDictAndListLiterals(t *testing.T) {
	prog := parse(t, `d = {"a": 1, "b": 2}
xs = [1, 2, 3]`)

	d := prog.Body[0].Right
	if d.Kind != ast.KindObjectLit || len(d.Props) != 2 {
		t.Errorf("unexpected dict literal %+v", d)
	}
	xs := prog.Body[1].Right
	if xs.Kind != ast.KindArrayLit || len(xs.Args) != 3 {
		t.Errorf("unexpected list literal %+v", xs)
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	_, err := pylang.Parse("x = 1\ny = *")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line, got %v", err)
	}
}
