package clang_test

import (
	"strings"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/clang"
)

// mainBody parses the source and returns the statement list of main.
func mainBody(t *testing.T, source string) []*ast.Node {
	t.Helper()
	prog, err := clang.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, d := range prog.Body {
		if d.Kind == ast.KindFuncDecl && d.Name == "main" {
			return d.Body
		}
	}
	t.Fatal("no main function in parsed program")
	return nil
}

// callName returns the callee name of a runtime-call node, or "".
func callName(n *ast.Node) string {
	if n == nil || n.Kind != ast.KindCall || n.Callee == nil || n.Callee.Kind != ast.KindIdent {
		return ""
	}
	return n.Callee.Name
}

func TestStructDefinition(t *testing.T) {
	prog, err := clang.Parse(`struct Node {
    int value;
    struct Node *next;
};

int main() { return 0; }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	def := prog.Body[0]
	if def.Kind != ast.KindStructDef || def.Name != "Node" {
		t.Fatalf("expected struct Node, got %v %q", def.Kind, def.Name)
	}
	if len(def.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(def.Fields))
	}
	if def.Fields[0].Type != "int" || def.Fields[0].Name != "value" {
		t.Errorf("unexpected first field %+v", def.Fields[0])
	}
	if def.Fields[1].Type != "struct Node*" || def.Fields[1].Name != "next" {
		t.Errorf("unexpected second field %+v", def.Fields[1])
	}
}

func TestCastAnnotatesAllocation(t *testing.T) {
	body := mainBody(t, `int main() {
    int *p = (int*)malloc(8);
    return 0;
}`)

	decl := body[0]
	if decl.Kind != ast.KindCDecl || decl.CType != "int*" {
		t.Fatalf("expected an int* declaration, got %v %q", decl.Kind, decl.CType)
	}
	if callName(decl.Right) != "malloc" {
		t.Fatalf("initializer should stay a malloc call, got %q", callName(decl.Right))
	}
	if decl.Right.CType != "int*" {
		t.Errorf("cast must annotate the allocation, got %q", decl.Right.CType)
	}
}

func TestPointerWritesDesugar(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		call string
		args int
	}{
		{"deref write", "*p = 5;", "__deref_assign", 2},
		{"index write", "p[1] = 5;", "__index_assign", 3},
		{"arrow write", "p->x = 5;", "__arrow_assign", 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := mainBody(t, "int main() {\n    "+test.stmt+"\n    return 0;\n}")
			expr := body[0].Left
			if callName(expr) != test.call {
				t.Fatalf("expected %s, got %q", test.call, callName(expr))
			}
			if len(expr.Args) != test.args {
				t.Errorf("expected %d args, got %d", test.args, len(expr.Args))
			}
		})
	}
}

func TestCompoundAssignExpandsToReadOpWrite(t *testing.T) {
	body := mainBody(t, `int main() {
    *p += 3;
    return 0;
}`)

	expr := body[0].Left
	if callName(expr) != "__deref_assign" {
		t.Fatalf("expected __deref_assign, got %q", callName(expr))
	}
	rhs := expr.Args[1]
	if rhs.Kind != ast.KindBinary || rhs.Op != "+" {
		t.Fatalf("expected an expanded + on the right, got %v %q", rhs.Kind, rhs.Op)
	}
	if callName(rhs.Left) != "__deref" {
		t.Errorf("expanded form must re-read through __deref, got %q", callName(rhs.Left))
	}
}

func TestAddressOfForms(t *testing.T) {
	body := mainBody(t, `int main() {
    f(&x);
    g(&a[2]);
    return 0;
}`)

	plain := body[0].Left.Args[0]
	if callName(plain) != "__addr" {
		t.Errorf("&x should desugar to __addr, got %q", callName(plain))
	}

	elem := body[1].Left.Args[0]
	if elem.Kind != ast.KindBinary || elem.Op != "+" {
		t.Errorf("&a[2] should become pointer arithmetic, got %v %q", elem.Kind, elem.Op)
	}
}

func TestSizeof(t *testing.T) {
	body := mainBody(t, `int main() {
    int a = sizeof(int);
    int b = sizeof(struct Node);
    return 0;
}`)

	known := body[0].Right
	if known.Kind != ast.KindNumber || known.Num != 4 {
		t.Errorf("sizeof(int) should fold to 4, got %v", known.Num)
	}

	deferred := body[1].Right
	if callName(deferred) != "__sizeof" {
		t.Fatalf("struct sizeof must defer to runtime, got %q", callName(deferred))
	}
	if deferred.Args[0].Str != "struct Node" {
		t.Errorf("unexpected type argument %q", deferred.Args[0].Str)
	}
}

func TestFunctionParamTypes(t *testing.T) {
	prog, err := clang.Parse(`int add(int a, char *s, int xs[]) {
    return a;
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	fn := prog.Body[0]
	if fn.Kind != ast.KindFuncDecl || fn.Name != "add" || fn.CType != "int" {
		t.Fatalf("unexpected function node %+v", fn)
	}
	wantParams := []string{"a", "s", "xs"}
	wantTypes := []string{"int", "char*", "int*"}
	for i := range wantParams {
		if fn.Params[i] != wantParams[i] {
			t.Errorf("param %d = %q, want %q", i, fn.Params[i], wantParams[i])
		}
		if fn.ParamTypes[i] != wantTypes[i] {
			t.Errorf("param type %d = %q, want %q", i, fn.ParamTypes[i], wantTypes[i])
		}
	}
}

func TestMultipleDeclarators(t *testing.T) {
	body := mainBody(t, `int main() {
    int a, b = 2, *c;
    return 0;
}`)

	group := body[0]
	if group.Kind != ast.KindBlock || len(group.Body) != 3 {
		t.Fatalf("expected a 3-declaration group, got %v", group.Kind)
	}
	if group.Body[0].CType != "int" || group.Body[0].Right != nil {
		t.Errorf("unexpected first declarator %+v", group.Body[0])
	}
	if group.Body[1].Right == nil {
		t.Error("second declarator must keep its initializer")
	}
	if group.Body[2].CType != "int*" {
		t.Errorf("third declarator should be int*, got %q", group.Body[2].CType)
	}
}

func TestArrayDeclarationWithInitList(t *testing.T) {
	body := mainBody(t, `int main() {
    int arr[3] = {1, 2, 3};
    return 0;
}`)

	decl := body[0]
	if decl.ArraySize != 3 {
		t.Errorf("expected array size 3, got %d", decl.ArraySize)
	}
	if decl.Right == nil || decl.Right.Kind != ast.KindArrayLit || len(decl.Right.Args) != 3 {
		t.Error("initializer list must parse as an array literal")
	}
}

func TestCharLiteralIsCode(t *testing.T) {
	body := mainBody(t, `int main() {
    char c = 'A';
    return 0;
}`)

	if got := body[0].Right; got.Kind != ast.KindNumber || got.Num != 65 {
		t.Errorf("expected character code 65, got %v", got.Num)
	}
}

func TestPreprocessorLinesIgnored(t *testing.T) {
	_, err := clang.Parse(`#include <stdio.h>
#define UNUSED 1

int main() { return 0; }`)
	if err != nil {
		t.Errorf("preprocessor lines must be skipped: %v", err)
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	_, err := clang.Parse(`int main() {
    int x = ;
    return 0;
}`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line, got %v", err)
	}
}
