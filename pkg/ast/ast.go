// Package ast defines the syntax-tree shape shared by all three front ends.
// The evaluator dispatches on Kind only; it never inspects language-specific
// syntax, so every front end must normalize into these nodes.
package ast

import "fmt"

type Kind int

const (
	KindProgram Kind = iota

	// literals
	KindNumber
	KindString
	KindBool
	KindNull
	KindUndefined

	// names and access
	KindIdent
	KindMember // Object.Property, Computed for a[i]

	// expressions
	KindBinary
	KindLogical
	KindUnary
	KindUpdate // ++ / --, Prefix flag
	KindAssign // Op "=" or compound "+=", ...
	KindTernary
	KindCall
	KindNew
	KindArrayLit
	KindObjectLit
	KindFuncExpr

	// statements
	KindExprStmt
	KindVarDecl
	KindFuncDecl
	KindClassDecl
	KindReturn
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindBreak
	KindContinue
	KindBlock
	KindEmpty

	// C-only
	KindStructDef
	KindCDecl // typed declaration, possibly an array
)

// Prop is one key/value pair of an object literal.
type Prop struct {
	Key   string
	Value *Node
}

// Field is one declared struct member (C mode).
type Field struct {
	Name string
	Type string
}

// Node is the shared tagged-union node. Which fields are meaningful depends
// on Kind; unused fields stay zero. Line is 1-based and always set for
// statements so the recorder can attribute steps.
type Node struct {
	Kind Kind
	Line int
	Col  int

	// literal payloads
	Num    float64
	IsInt  bool
	Str    string
	BoolV  bool

	Name string // identifier, function/class/struct name, member property
	Op   string // operator text for Binary/Logical/Unary/Update/Assign

	Left  *Node // Binary/Logical/Assign target or lhs
	Right *Node

	Test *Node // If/While/DoWhile/For/Ternary condition
	Cons *Node // Ternary consequent
	Alt  *Node // Ternary alternate / If else-branch (Block)

	Init   *Node // For initializer
	Update *Node // For update expression

	Callee   *Node   // Call/New target
	Args     []*Node // Call/New arguments, ArrayLit elements
	Object   *Node   // Member object
	Property *Node   // Member property when Computed
	Computed bool
	Prefix   bool // Update operator position

	Params     []string // FuncDecl/FuncExpr parameter names
	ParamTypes []string // C mode: declared parameter types, parallel to Params
	Body       []*Node  // Program/Block/Func bodies, ClassDecl methods

	Props  []Prop  // ObjectLit
	Fields []Field // StructDef

	CType     string // declared C type ("int", "char*", "struct Point", ...)
	ArraySize int    // CDecl fixed array length, 0 when scalar
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindNames = [...]string{
	"Program", "Number", "String", "Bool", "Null", "Undefined",
	"Ident", "Member",
	"Binary", "Logical", "Unary", "Update", "Assign", "Ternary",
	"Call", "New", "ArrayLit", "ObjectLit", "FuncExpr",
	"ExprStmt", "VarDecl", "FuncDecl", "ClassDecl", "Return",
	"If", "While", "DoWhile", "For", "Break", "Continue", "Block", "Empty",
	"StructDef", "CDecl",
}

// IsStatement reports whether nodes of this kind are recorded as steps.
func (k Kind) IsStatement() bool {
	switch k {
	case KindExprStmt, KindVarDecl, KindReturn, KindIf, KindWhile,
		KindDoWhile, KindFor, KindBreak, KindContinue, KindCDecl:
		return true
	default:
		return false
	}
}
