package exec

import (
	"fmt"
	"strconv"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/cmem"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
)

type Tag int

const (
	TagUndefined Tag = iota
	TagNull
	TagBool
	TagInt
	TagFloat
	TagString
	TagArray
	TagObject
	TagFunc
	TagClass
	TagBuiltin
	TagPointer
	TagStructDef
)

// Value is the universal runtime carrier. The Tag selects which payload
// field is meaningful; reference kinds (Array, Object) share their payload
// pointer, which is what makes the recorder's identity-keyed clone work.
type Value struct {
	Tag  Tag
	Bool bool
	Int  int64
	Num  float64
	Str  string

	Arr     *Array
	Obj     *Object
	Fn      *Function
	Class   *Class
	Builtin *Builtin
	Ptr     cmem.Pointer
	SDef    *ctypes.StructDef
}

// Array is a mutable list value.
type Array struct {
	Elems []Value
}

// Object is a mutable record. TypeName tags class/struct instances for
// method dispatch; Keys preserves insertion order for display.
type Object struct {
	TypeName string
	Keys     []string
	Entries  map[string]Value
}

// Function is a user-defined function or method.
type Function struct {
	Name       string
	Params     []string
	ParamTypes []string // declared C parameter types, empty otherwise
	Body       []*ast.Node
	Line       int
	Env        *Scope // closure environment captured at declaration
}

// Class is a user type: a constructor plus a method table keyed by name.
type Class struct {
	Name    string
	Methods map[string]*Function
}

// Builtin is a host-implemented function.
type Builtin struct {
	Name string
	Call func(x *Ctx, args []Value, line int) (Value, error)
}

var (
	undefined = Value{Tag: TagUndefined}
	null      = Value{Tag: TagNull}
)

func boolVal(b bool) Value  { return Value{Tag: TagBool, Bool: b} }
func intVal(n int64) Value  { return Value{Tag: TagInt, Int: n} }
func strVal(s string) Value { return Value{Tag: TagString, Str: s} }
func arrVal(a *Array) Value { return Value{Tag: TagArray, Arr: a} }
func objVal(o *Object) Value { return Value{Tag: TagObject, Obj: o} }
func fnVal(f *Function) Value { return Value{Tag: TagFunc, Fn: f} }
func classVal(c *Class) Value { return Value{Tag: TagClass, Class: c} }
func floatVal(f float64) Value { return Value{Tag: TagFloat, Num: f} }
func ptrVal(p cmem.Pointer) Value { return Value{Tag: TagPointer, Ptr: p} }

// NewObject creates an empty object with an optional type tag.
func NewObject(typeName string) *Object {
	return &Object{TypeName: typeName, Entries: make(map[string]Value)}
}

// Set writes a key, appending to the order list on first insert.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.Entries[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Entries[key] = v
}

// Get reads a key, returning the undefined sentinel when absent.
func (o *Object) Get(key string) Value {
	if v, ok := o.Entries[key]; ok {
		return v
	}
	return undefined
}

// asFloat widens any numeric value for arithmetic.
func (v Value) asFloat() float64 {
	switch v.Tag {
	case TagInt:
		return float64(v.Int)
	case TagFloat:
		return v.Num
	case TagBool:
		if v.Bool {
			return 1
		}
		return 0
	case TagString:
		f, _ := strconv.ParseFloat(v.Str, 64)
		return f
	case TagPointer:
		return float64(v.Ptr.Addr)
	default:
		return 0
	}
}

func (v Value) isNumeric() bool {
	return v.Tag == TagInt || v.Tag == TagFloat || v.Tag == TagBool
}

// truthy follows the emulated languages' shared coercion rules.
func (v Value) truthy() bool {
	switch v.Tag {
	case TagBool:
		return v.Bool
	case TagInt:
		return v.Int != 0
	case TagFloat:
		return v.Num != 0
	case TagString:
		return v.Str != ""
	case TagNull, TagUndefined:
		return false
	case TagArray:
		return true
	case TagObject:
		return true
	case TagPointer:
		return !v.Ptr.Null()
	default:
		return true
	}
}

// TypeName is the display type shown next to each recorded variable.
func (v Value) TypeName() string {
	switch v.Tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBool:
		return "boolean"
	case TagInt, TagFloat:
		return "number"
	case TagString:
		return "string"
	case TagArray:
		return "array"
	case TagObject:
		if v.Obj.TypeName != "" {
			return v.Obj.TypeName
		}
		return "object"
	case TagFunc:
		return "function"
	case TagClass:
		return "class"
	case TagBuiltin:
		return "function"
	case TagPointer:
		if v.Ptr.Elem != "" {
			return v.Ptr.Elem + "*"
		}
		return "pointer"
	case TagStructDef:
		return "struct"
	default:
		return "unknown"
	}
}

// Display renders the value the way the console does.
func (v Value) Display() string {
	switch v.Tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBool:
		return strconv.FormatBool(v.Bool)
	case TagInt:
		return strconv.FormatInt(v.Int, 10)
	case TagFloat:
		return formatFloat(v.Num)
	case TagString:
		return v.Str
	case TagArray:
		s := "["
		for i, e := range v.Arr.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.Display()
		}
		return s + "]"
	case TagObject:
		s := "{"
		for i, k := range v.Obj.Keys {
			if i > 0 {
				s += ", "
			}
			s += k + ": " + v.Obj.Entries[k].Display()
		}
		return s + "}"
	case TagFunc:
		return "function " + v.Fn.Name
	case TagClass:
		return "class " + v.Class.Name
	case TagBuiltin:
		return "function " + v.Builtin.Name
	case TagPointer:
		if v.Ptr.Null() {
			return "NULL"
		}
		return fmt.Sprintf("0x%X", v.Ptr.Addr)
	case TagStructDef:
		return "struct " + v.SDef.Name
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// valuesEqual implements loose equality across numeric tags and strict
// identity for reference kinds.
func valuesEqual(a, b Value) bool {
	if a.isNumeric() && b.isNumeric() {
		return a.asFloat() == b.asFloat()
	}
	switch {
	case a.Tag == TagString && b.Tag == TagString:
		return a.Str == b.Str
	case a.Tag == TagPointer && b.Tag == TagPointer:
		return a.Ptr.Addr == b.Ptr.Addr
	case a.Tag == TagPointer && (b.Tag == TagNull || b.Tag == TagInt):
		return a.Ptr.Addr == int(b.asFloat())
	case (a.Tag == TagNull || a.Tag == TagInt) && b.Tag == TagPointer:
		return b.Ptr.Addr == int(a.asFloat())
	case a.Tag == TagNull || a.Tag == TagUndefined:
		return b.Tag == TagNull || b.Tag == TagUndefined
	case a.Tag == TagArray && b.Tag == TagArray:
		return a.Arr == b.Arr
	case a.Tag == TagObject && b.Tag == TagObject:
		return a.Obj == b.Obj
	default:
		return false
	}
}
