package exec

import (
	"fmt"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/cmem"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
)

// installCBuiltins exists for symmetry with the other modes; the C runtime
// calls are dispatched by name in cRuntimeCall because several of them need
// raw argument nodes (address-of operates on names, not values).
func (x *Ctx) installCBuiltins() {}

// cRuntimeCall intercepts the call-shaped nodes the C parser produces when
// desugaring pointer syntax, plus the libc subset. Returns handled=false
// for ordinary user-function calls.
func (x *Ctx) cRuntimeCall(n *ast.Node, sc *Scope) (Value, bool, error) {
	name := n.Callee.Name
	switch name {
	case "__deref", "__deref_assign", "__addr", "__arrow", "__arrow_assign",
		"__index", "__index_assign", "__sizeof", "__cast",
		"malloc", "calloc", "realloc", "free", "printf", "scanf":
	default:
		return undefined, false, nil
	}

	v, err := x.runCCall(name, n, sc)
	return v, true, err
}

func (x *Ctx) runCCall(name string, n *ast.Node, sc *Scope) (Value, error) {
	switch name {
	case "__addr":
		return x.addressOf(n.Args[0], sc)

	case "__deref":
		p, err := x.evalPointer(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		return x.readCell(p, 0)

	case "__deref_assign":
		p, err := x.evalPointer(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		v, err := x.evalExpr(n.Args[1], sc)
		if err != nil {
			return undefined, err
		}
		return v, x.writeCell(p, 0, v)

	case "__index":
		p, err := x.evalPointer(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		idx, err := x.evalExpr(n.Args[1], sc)
		if err != nil {
			return undefined, err
		}
		return x.readCell(p, int(idx.asFloat())*p.ElemSize)

	case "__index_assign":
		p, err := x.evalPointer(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		idx, err := x.evalExpr(n.Args[1], sc)
		if err != nil {
			return undefined, err
		}
		v, err := x.evalExpr(n.Args[2], sc)
		if err != nil {
			return undefined, err
		}
		return v, x.writeCell(p, int(idx.asFloat())*p.ElemSize, v)

	case "__arrow":
		sv, err := x.structAt(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		field := n.Args[1].Str
		got, err := sv.Get(field)
		if err != nil {
			return undefined, err
		}
		return anyToValue(got), nil

	case "__arrow_assign":
		sv, err := x.structAt(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		field := n.Args[1].Str
		v, err := x.evalExpr(n.Args[2], sc)
		if err != nil {
			return undefined, err
		}
		return v, sv.Set(field, valueToAny(v))

	case "__sizeof":
		typ := structName(n.Args[0].Str)
		if def, ok := x.structs[typ]; ok {
			return intVal(int64(def.Size)), nil
		}
		if sz := ctypes.SizeOf(n.Args[0].Str); sz > 0 {
			return intVal(int64(sz)), nil
		}
		return undefined, fmt.Errorf("sizeof: unknown type %q", n.Args[0].Str)

	case "__cast":
		return x.castValue(n.Args[0].Str, n.Args[1], sc)

	case "malloc", "calloc":
		return x.allocCall(name, n, sc)

	case "realloc":
		p, err := x.evalPointer(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		size, err := x.evalExpr(n.Args[1], sc)
		if err != nil {
			return undefined, err
		}
		addr, err := x.arena.Realloc(p.Addr, int(size.asFloat()), n.Line)
		if err != nil {
			return undefined, err
		}
		return ptrVal(cmem.Pointer{Addr: addr, Elem: p.Elem, ElemSize: p.ElemSize}), nil

	case "free":
		v, err := x.evalExpr(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		if v.Tag != TagPointer && v.Tag != TagNull && !(v.Tag == TagInt && v.Int == 0) {
			return undefined, fmt.Errorf("free: argument is not a pointer")
		}
		addr := 0
		if v.Tag == TagPointer {
			addr = v.Ptr.Addr
		}
		return undefined, x.arena.Free(addr, n.Line)

	case "printf":
		return x.printfCall(n, sc)

	case "scanf":
		return x.scanfCall(n, sc)
	}
	return undefined, fmt.Errorf("unknown runtime call %q", name)
}

// allocCall handles malloc and calloc. The parser annotates the call node
// with the surrounding cast type (if any), which fixes the element layout
// of the new block; uncast allocations default to int cells.
func (x *Ctx) allocCall(name string, n *ast.Node, sc *Scope) (Value, error) {
	elemType, elemSize := "int", 4
	if n.CType != "" {
		elemType = strings.TrimSuffix(n.CType, "*")
		elemType = strings.TrimSpace(elemType)
		elemSize = x.cTypeSize(elemType)
	}

	size := 0
	switch name {
	case "malloc":
		v, err := x.evalExpr(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		size = int(v.asFloat())
	case "calloc":
		cnt, err := x.evalExpr(n.Args[0], sc)
		if err != nil {
			return undefined, err
		}
		sz, err := x.evalExpr(n.Args[1], sc)
		if err != nil {
			return undefined, err
		}
		size = int(cnt.asFloat()) * int(sz.asFloat())
	}

	addr := x.arena.Malloc(size, elemType, elemSize, n.Line)
	if addr == 0 {
		return ptrVal(cmem.Pointer{}), nil
	}
	return ptrVal(cmem.Pointer{Addr: addr, Elem: elemType, ElemSize: elemSize}), nil
}

func (x *Ctx) printfCall(n *ast.Node, sc *Scope) (Value, error) {
	if len(n.Args) == 0 {
		return intVal(0), nil
	}
	format, err := x.evalExpr(n.Args[0], sc)
	if err != nil {
		return undefined, err
	}
	rest := make([]any, 0, len(n.Args)-1)
	for _, a := range n.Args[1:] {
		v, err := x.evalExpr(a, sc)
		if err != nil {
			return undefined, err
		}
		if v.Tag == TagPointer {
			rest = append(rest, int64(v.Ptr.Addr))
			continue
		}
		rest = append(rest, valueToAny(v))
	}
	out, err := ctypes.Printf(format.Str, rest)
	if err != nil {
		return undefined, err
	}
	x.emit(strings.TrimSuffix(out, "\n"))
	return intVal(int64(len(out))), nil
}

// scanfCall consumes from the run's stdin string, writing each converted
// value through the matching pointer argument.
func (x *Ctx) scanfCall(n *ast.Node, sc *Scope) (Value, error) {
	if len(n.Args) == 0 {
		return intVal(0), nil
	}
	format, err := x.evalExpr(n.Args[0], sc)
	if err != nil {
		return undefined, err
	}
	vals, rest, err := ctypes.Scanf(format.Str, x.stdin)
	x.stdin = rest
	if err != nil && len(vals) == 0 {
		return intVal(0), nil
	}
	for i, raw := range vals {
		if i+1 >= len(n.Args) {
			break
		}
		p, perr := x.evalPointer(n.Args[i+1], sc)
		if perr != nil {
			return undefined, perr
		}
		if werr := x.writeCell(p, 0, anyToValue(raw)); werr != nil {
			return undefined, werr
		}
	}
	return intVal(int64(len(vals))), nil
}

// addressOf resolves &name to the variable's stack address.
func (x *Ctx) addressOf(target *ast.Node, sc *Scope) (Value, error) {
	if target.Kind != ast.KindIdent {
		return undefined, fmt.Errorf("cannot take the address of this expression")
	}
	addr, ok := x.arena.AddressOf(target.Name)
	if !ok {
		return undefined, fmt.Errorf("cannot take address of %q: no storage", target.Name)
	}
	typ := x.cVarType(target.Name)
	return ptrVal(cmem.Pointer{Addr: addr, Elem: typ, ElemSize: x.cTypeSize(typ)}), nil
}

func (x *Ctx) evalPointer(n *ast.Node, sc *Scope) (cmem.Pointer, error) {
	v, err := x.evalExpr(n, sc)
	if err != nil {
		return cmem.Pointer{}, err
	}
	switch v.Tag {
	case TagPointer:
		return v.Ptr, nil
	case TagNull:
		return cmem.Pointer{}, nil
	case TagInt:
		return cmem.Pointer{Addr: int(v.Int), Elem: "int", ElemSize: 4}, nil
	default:
		return cmem.Pointer{}, fmt.Errorf("expected a pointer, got %s", v.TypeName())
	}
}

// readCell loads a value cell through a pointer, surfacing memory faults.
func (x *Ctx) readCell(p cmem.Pointer, byteOff int) (Value, error) {
	if p.Null() {
		return undefined, fmt.Errorf("%w: NULL pointer dereference", cmem.ErrSegfault)
	}
	raw, err := x.arena.Read(p.Addr, byteOff)
	if err != nil {
		return undefined, err
	}
	return anyToValue(raw), nil
}

// writeCell stores through a pointer, coercing to the pointee's width and
// mirroring named stack variables back into the scope for display.
func (x *Ctx) writeCell(p cmem.Pointer, byteOff int, v Value) error {
	if p.Null() {
		return fmt.Errorf("%w: NULL pointer dereference", cmem.ErrSegfault)
	}
	coerced := x.coerceC(p.Elem, v)
	if err := x.arena.Write(p.Addr, byteOff, coerced); err != nil {
		return err
	}
	x.syncNamedVar(p.Addr + byteOff)
	return nil
}

// syncNamedVar keeps the scope's display copy of a stack variable in step
// with its arena cell after a write through a pointer.
func (x *Ctx) syncNamedVar(addr int) {
	for _, f := range x.arena.Frames() {
		for name, base := range f.Vars {
			if base == addr {
				if raw, err := x.arena.Read(addr, 0); err == nil {
					x.currentScopeForDisplay().Assign(name, anyToValue(raw))
				}
				return
			}
		}
	}
}

// structAt materializes the struct instance a pointer refers to, creating a
// zeroed instance on first touch of a fresh heap cell.
func (x *Ctx) structAt(node *ast.Node, sc *Scope) (*ctypes.StructVal, error) {
	p, err := x.evalPointer(node, sc)
	if err != nil {
		return nil, err
	}
	if p.Null() {
		return nil, fmt.Errorf("%w: NULL pointer dereference", cmem.ErrSegfault)
	}
	raw, err := x.arena.Read(p.Addr, 0)
	if err != nil {
		return nil, err
	}
	if sv, ok := raw.(*ctypes.StructVal); ok {
		return sv, nil
	}
	def, ok := x.structs[structName(p.Elem)]
	if !ok {
		return nil, fmt.Errorf("unknown struct type %q", p.Elem)
	}
	sv := ctypes.NewStructVal(def)
	if err := x.arena.Write(p.Addr, 0, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

func (x *Ctx) castValue(typ string, node *ast.Node, sc *Scope) (Value, error) {
	v, err := x.evalExpr(node, sc)
	if err != nil {
		return undefined, err
	}
	if strings.HasSuffix(typ, "*") {
		elem := strings.TrimSpace(strings.TrimSuffix(typ, "*"))
		switch v.Tag {
		case TagPointer:
			return ptrVal(cmem.Pointer{Addr: v.Ptr.Addr, Elem: elem, ElemSize: x.cTypeSize(elem)}), nil
		case TagInt:
			return ptrVal(cmem.Pointer{Addr: int(v.Int), Elem: elem, ElemSize: x.cTypeSize(elem)}), nil
		default:
			return v, nil
		}
	}
	return x.coerceC(typ, v), nil
}

// execCDecl runs a C declaration: stack storage is reserved and the initial
// value (or a zero default) lands in both the arena and the scope.
func (x *Ctx) execCDecl(n *ast.Node, sc *Scope) error {
	typ := n.CType

	// fixed-size array: one block of ArraySize elements
	if n.ArraySize > 0 {
		elemSize := x.cTypeSize(typ)
		addr := x.arena.AllocLocal(n.Name, n.ArraySize*elemSize, typ, elemSize, n.Line)
		p := cmem.Pointer{Addr: addr, Elem: typ, ElemSize: elemSize}
		if n.Right != nil && n.Right.Kind == ast.KindArrayLit {
			for i, el := range n.Right.Args {
				v, err := x.evalExpr(el, sc)
				if err != nil {
					return err
				}
				if i >= n.ArraySize {
					return fmt.Errorf("%w: %d initializers for array of %d",
						cmem.ErrOverflow, len(n.Right.Args), n.ArraySize)
				}
				if err := x.arena.Write(addr, i*elemSize, x.coerceC(typ, v)); err != nil {
					return err
				}
			}
		}
		sc.Declare(n.Name, ptrVal(p))
		return nil
	}

	var init Value
	if n.Right != nil {
		v, err := x.evalExpr(n.Right, sc)
		if err != nil {
			return err
		}
		init = v
	} else if strings.HasSuffix(typ, "*") {
		init = ptrVal(cmem.Pointer{})
	} else if strings.HasPrefix(typ, "struct ") {
		def, ok := x.structs[structName(typ)]
		if !ok {
			return fmt.Errorf("unknown struct type %q", typ)
		}
		init = structValValue(ctypes.NewStructVal(def))
	} else {
		init = anyToValue(ctypes.Default(typ))
	}

	x.declareCVar(sc, n.Name, typ, init, n.Line)
	return nil
}

// assignCVar writes a named C variable, applying the declared type's width
// rule and mirroring the value into its arena slot.
func (x *Ctx) assignCVar(name string, v Value, sc *Scope) error {
	typ := x.cVarType(name)
	coerced := x.coerceC(typ, v)
	sc.Assign(name, coerced)
	if addr, ok := x.arena.AddressOf(name); ok {
		return x.arena.Write(addr, 0, coerced)
	}
	return nil
}

// coerceC applies C width rules to numeric values; non-numerics pass
// through unchanged.
func (x *Ctx) coerceC(typ string, v Value) Value {
	switch v.Tag {
	case TagInt, TagFloat, TagBool:
		return anyToValue(ctypes.Coerce(typ, v.asFloat()))
	default:
		return v
	}
}

// cVarType finds the declared type of a stack variable, innermost frame
// first.
func (x *Ctx) cVarType(name string) string {
	for i := len(x.arena.Frames()) - 1; i >= 0; i-- {
		f := x.arena.Frames()[i]
		if t, ok := f.Types[name]; ok {
			return t
		}
	}
	return "int"
}

func (x *Ctx) cTypeSize(typ string) int {
	if sz := ctypes.SizeOf(typ); sz > 0 {
		return sz
	}
	if def, ok := x.structs[structName(typ)]; ok {
		return def.Size
	}
	return 8
}

// anyToValue lifts an arena cell or scanf result into a runtime value.
func anyToValue(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return intVal(0)
	case Value:
		return v
	case int64:
		return intVal(v)
	case int:
		return intVal(int64(v))
	case float64:
		return floatVal(v)
	case string:
		return strVal(v)
	case bool:
		return boolVal(v)
	case *ctypes.StructVal:
		return structValValue(v)
	case cmem.Pointer:
		return ptrVal(v)
	default:
		return undefined
	}
}

// valueToAny unwraps a runtime value for storage in arena cells or for the
// printf argument list.
func valueToAny(v Value) any {
	switch v.Tag {
	case TagInt:
		return v.Int
	case TagFloat:
		return v.Num
	case TagString:
		return v.Str
	case TagBool:
		return v.Bool
	case TagPointer:
		return v.Ptr
	case TagObject:
		return v.Obj
	default:
		return nil
	}
}

// structValValue displays a struct instance as a tagged record so the
// variable panel can show its fields while __arrow keeps offset-accurate
// access.
func structValValue(sv *ctypes.StructVal) Value {
	o := NewObject(sv.Def.Name)
	for _, f := range sv.Def.Fields {
		o.Set(f.Name, anyToValue(sv.Values[f.Name]))
	}
	return objVal(o)
}
