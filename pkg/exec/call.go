package exec

import (
	"fmt"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
)

// evalCall resolves the callee (runtime call, user function, method or
// builtin), evaluates arguments eagerly left to right, and invokes.
func (x *Ctx) evalCall(n *ast.Node, sc *Scope) (Value, error) {
	// C runtime calls produced by the parser's pointer desugaring need the
	// raw argument nodes (address-of works on names, not values)
	if n.Callee.Kind == ast.KindIdent && x.arena != nil {
		if v, handled, err := x.cRuntimeCall(n, sc); handled {
			return v, err
		}
	}

	if n.Callee.Kind == ast.KindMember {
		return x.evalMethodCall(n, sc)
	}

	callee, err := x.evalExpr(n.Callee, sc)
	if err != nil {
		return undefined, err
	}
	args, err := x.evalArgs(n.Args, sc)
	if err != nil {
		return undefined, err
	}

	switch callee.Tag {
	case TagFunc:
		return x.callFunction(callee.Fn, args, n.Line)
	case TagBuiltin:
		return callee.Builtin.Call(x, args, n.Line)
	case TagClass:
		// calling a class name is instantiation (Python style)
		return x.instantiate(callee.Class, args, n.Line)
	default:
		name := "<expression>"
		if n.Callee.Kind == ast.KindIdent {
			name = n.Callee.Name
		}
		return undefined, fmt.Errorf("%q is not a function", name)
	}
}

func (x *Ctx) evalArgs(nodes []*ast.Node, sc *Scope) ([]Value, error) {
	args := make([]Value, 0, len(nodes))
	for _, a := range nodes {
		v, err := x.evalExpr(a, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// callFunction pushes a frame, binds parameters positionally (extras
// ignored, missing bound to undefined), runs the body and pops the frame.
func (x *Ctx) callFunction(fn *Function, args []Value, line int) (Value, error) {
	local := NewScope(fn.Env)
	frame := &Frame{
		ID:       x.nextFrameID,
		Function: fn.Name,
		Line:     line,
		Scope:    local,
	}
	x.nextFrameID++
	if err := x.stack.Push(frame); err != nil {
		return undefined, err
	}

	if x.arena != nil {
		x.arena.PushFrame(fn.Name)
	}

	for i, p := range fn.Params {
		v := undefined
		if i < len(args) {
			v = args[i]
		}
		if x.arena != nil {
			typ := "int"
			if i < len(fn.ParamTypes) && fn.ParamTypes[i] != "" {
				typ = fn.ParamTypes[i]
			}
			x.declareCVar(local, p, typ, v, line)
		} else {
			local.Declare(p, v)
		}
	}

	sig, err := x.execBlock(fn.Body, local)

	if x.arena != nil {
		x.arena.PopFrame()
	}
	x.stack.Pop()

	if err != nil {
		return undefined, err
	}
	if sig.Kind == SigReturn {
		return sig.Val, nil
	}
	return undefined, nil
}

// evalMethodCall handles obj.method(...) including console.log, array
// methods, and class-method dispatch through the instance's type tag.
func (x *Ctx) evalMethodCall(n *ast.Node, sc *Scope) (Value, error) {
	member := n.Callee

	// console.log / console.error write to the captured output
	if member.Object.Kind == ast.KindIdent && member.Object.Name == "console" {
		args, err := x.evalArgs(n.Args, sc)
		if err != nil {
			return undefined, err
		}
		parts := ""
		for i, a := range args {
			if i > 0 {
				parts += " "
			}
			parts += a.Display()
		}
		x.emit(parts)
		return undefined, nil
	}

	objV, err := x.evalExpr(member.Object, sc)
	if err != nil {
		return undefined, err
	}
	args, err := x.evalArgs(n.Args, sc)
	if err != nil {
		return undefined, err
	}

	switch objV.Tag {
	case TagArray:
		return x.arrayMethod(objV.Arr, member.Name, args)

	case TagObject:
		// own properties that hold functions win over class methods
		if fv := objV.Obj.Get(member.Name); fv.Tag == TagFunc {
			return x.callBound(fv.Fn, objV, args, n.Line)
		}
		if objV.Obj.TypeName != "" {
			if c, ok := x.classes[objV.Obj.TypeName]; ok {
				if m, ok := c.Methods[member.Name]; ok {
					return x.callBound(m, objV, args, n.Line)
				}
			}
		}
		return undefined, fmt.Errorf("%s has no method %q", objV.TypeName(), member.Name)

	case TagString:
		return stringMethod(objV.Str, member.Name, args)

	default:
		return undefined, fmt.Errorf("cannot call method %q on %s", member.Name, objV.TypeName())
	}
}

// callBound invokes a method with the receiver bound: `this` for JS and C
// structs, an explicit leading `self` parameter for Python.
func (x *Ctx) callBound(fn *Function, recv Value, args []Value, line int) (Value, error) {
	if x.lang == LangPython {
		return x.callFunction(fn, append([]Value{recv}, args...), line)
	}
	local := NewScope(fn.Env)
	local.Declare("this", recv)
	bound := &Function{
		Name:   fn.Name,
		Params: fn.Params,
		Body:   fn.Body,
		Line:   fn.Line,
		Env:    local,
	}
	return x.callFunction(bound, args, line)
}

// evalNew locates the user type's constructor and runs it against a fresh
// instance tagged with the type name for later method dispatch.
func (x *Ctx) evalNew(n *ast.Node, sc *Scope) (Value, error) {
	if n.Callee.Kind != ast.KindIdent {
		return undefined, fmt.Errorf("new requires a class name")
	}
	cv := sc.Lookup(n.Callee.Name)
	if cv.Tag != TagClass {
		return undefined, fmt.Errorf("%q is not a class", n.Callee.Name)
	}
	args, err := x.evalArgs(n.Args, sc)
	if err != nil {
		return undefined, err
	}
	return x.instantiate(cv.Class, args, n.Line)
}

func (x *Ctx) instantiate(c *Class, args []Value, line int) (Value, error) {
	inst := objVal(NewObject(c.Name))
	ctor := c.Methods["constructor"]
	if ctor == nil {
		ctor = c.Methods["__init__"]
	}
	if ctor != nil {
		if _, err := x.callBound(ctor, inst, args, line); err != nil {
			return undefined, err
		}
	}
	return inst, nil
}

func (x *Ctx) arrayMethod(arr *Array, name string, args []Value) (Value, error) {
	switch name {
	case "push", "append":
		arr.Elems = append(arr.Elems, args...)
		return intVal(int64(len(arr.Elems))), nil
	case "pop":
		if len(arr.Elems) == 0 {
			return undefined, nil
		}
		last := arr.Elems[len(arr.Elems)-1]
		arr.Elems = arr.Elems[:len(arr.Elems)-1]
		return last, nil
	case "shift":
		if len(arr.Elems) == 0 {
			return undefined, nil
		}
		first := arr.Elems[0]
		arr.Elems = arr.Elems[1:]
		return first, nil
	case "unshift":
		arr.Elems = append(append([]Value{}, args...), arr.Elems...)
		return intVal(int64(len(arr.Elems))), nil
	case "indexOf", "index":
		for i, e := range arr.Elems {
			if len(args) > 0 && valuesEqual(e, args[0]) {
				return intVal(int64(i)), nil
			}
		}
		return intVal(-1), nil
	default:
		return undefined, fmt.Errorf("array has no method %q", name)
	}
}

func stringMethod(s, name string, args []Value) (Value, error) {
	switch name {
	case "charAt":
		idx := 0
		if len(args) > 0 {
			idx = int(args[0].asFloat())
		}
		if idx < 0 || idx >= len(s) {
			return strVal(""), nil
		}
		return strVal(string(s[idx])), nil
	case "toUpperCase", "upper":
		return strVal(strings.ToUpper(s)), nil
	case "toLowerCase", "lower":
		return strVal(strings.ToLower(s)), nil
	default:
		return undefined, fmt.Errorf("string has no method %q", name)
	}
}

// declareCVar allocates stack storage for a C local and mirrors the value
// into both the scope (for display) and the arena (for pointers).
func (x *Ctx) declareCVar(sc *Scope, name, typ string, v Value, line int) {
	size := ctypes.SizeOf(typ)
	if size == 0 {
		if def, ok := x.structs[structName(typ)]; ok {
			size = def.Size
		} else {
			size = 8
		}
	}
	elemSize := size
	addr := x.arena.AllocLocal(name, size, typ, elemSize, line)
	coerced := x.coerceC(typ, v)
	_ = x.arena.Write(addr, 0, coerced)
	sc.Declare(name, coerced)
}

func structName(typ string) string {
	return strings.TrimPrefix(typ, "struct ")
}
