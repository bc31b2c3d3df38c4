package exec

import (
	"fmt"
	"math"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
)

func (x *Ctx) evalExpr(n *ast.Node, sc *Scope) (Value, error) {
	if n == nil {
		return undefined, nil
	}

	switch n.Kind {
	case ast.KindNumber:
		if n.IsInt {
			return intVal(int64(n.Num)), nil
		}
		return floatVal(n.Num), nil

	case ast.KindString:
		return strVal(n.Str), nil

	case ast.KindBool:
		return boolVal(n.BoolV), nil

	case ast.KindNull:
		return null, nil

	case ast.KindUndefined:
		return undefined, nil

	case ast.KindIdent:
		return sc.Lookup(n.Name), nil

	case ast.KindArrayLit:
		arr := &Array{Elems: make([]Value, 0, len(n.Args))}
		for _, el := range n.Args {
			v, err := x.evalExpr(el, sc)
			if err != nil {
				return undefined, err
			}
			arr.Elems = append(arr.Elems, v)
		}
		return arrVal(arr), nil

	case ast.KindObjectLit:
		obj := NewObject("")
		for _, p := range n.Props {
			v, err := x.evalExpr(p.Value, sc)
			if err != nil {
				return undefined, err
			}
			obj.Set(p.Key, v)
		}
		return objVal(obj), nil

	case ast.KindFuncExpr:
		return fnVal(&Function{
			Name:   n.Name,
			Params: n.Params,
			Body:   n.Body,
			Line:   n.Line,
			Env:    sc,
		}), nil

	case ast.KindLogical:
		left, err := x.evalExpr(n.Left, sc)
		if err != nil {
			return undefined, err
		}
		switch n.Op {
		case "&&":
			if !left.truthy() {
				return left, nil
			}
			return x.evalExpr(n.Right, sc)
		case "||":
			if left.truthy() {
				return left, nil
			}
			return x.evalExpr(n.Right, sc)
		default:
			return undefined, fmt.Errorf("unknown logical operator %q", n.Op)
		}

	case ast.KindBinary:
		left, err := x.evalExpr(n.Left, sc)
		if err != nil {
			return undefined, err
		}
		right, err := x.evalExpr(n.Right, sc)
		if err != nil {
			return undefined, err
		}
		return x.binaryOp(n.Op, left, right)

	case ast.KindUnary:
		v, err := x.evalExpr(n.Left, sc)
		if err != nil {
			return undefined, err
		}
		switch n.Op {
		case "-":
			if v.Tag == TagInt {
				return intVal(-v.Int), nil
			}
			return floatVal(-v.asFloat()), nil
		case "+":
			if v.Tag == TagInt {
				return v, nil
			}
			return floatVal(v.asFloat()), nil
		case "!":
			return boolVal(!v.truthy()), nil
		case "~":
			return intVal(^int64(v.asFloat())), nil
		default:
			return undefined, fmt.Errorf("unknown unary operator %q", n.Op)
		}

	case ast.KindUpdate:
		old, err := x.evalExpr(n.Left, sc)
		if err != nil {
			return undefined, err
		}
		delta := 1.0
		if n.Op == "--" {
			delta = -1
		}
		var next Value
		if old.Tag == TagInt {
			next = intVal(old.Int + int64(delta))
		} else {
			next = floatVal(old.asFloat() + delta)
		}
		if err := x.assignTo(n.Left, next, sc); err != nil {
			return undefined, err
		}
		if n.Prefix {
			return next, nil
		}
		return old, nil

	case ast.KindAssign:
		return x.evalAssign(n, sc)

	case ast.KindTernary:
		test, err := x.evalExpr(n.Test, sc)
		if err != nil {
			return undefined, err
		}
		if test.truthy() {
			return x.evalExpr(n.Cons, sc)
		}
		return x.evalExpr(n.Alt, sc)

	case ast.KindCall:
		return x.evalCall(n, sc)

	case ast.KindNew:
		return x.evalNew(n, sc)

	case ast.KindMember:
		return x.evalMember(n, sc)

	default:
		return undefined, fmt.Errorf("cannot evaluate %s node as an expression", n.Kind)
	}
}

// evalAssign handles plain and compound assignment as read-modify-write.
func (x *Ctx) evalAssign(n *ast.Node, sc *Scope) (Value, error) {
	rhs, err := x.evalExpr(n.Right, sc)
	if err != nil {
		return undefined, err
	}
	if n.Op != "=" {
		// "+=" and friends: read, apply the bare operator, write back
		cur, err := x.evalExpr(n.Left, sc)
		if err != nil {
			return undefined, err
		}
		rhs, err = x.binaryOp(n.Op[:len(n.Op)-1], cur, rhs)
		if err != nil {
			return undefined, err
		}
	}
	if err := x.assignTo(n.Left, rhs, sc); err != nil {
		return undefined, err
	}
	return rhs, nil
}

// assignTo writes a value through an lvalue expression.
func (x *Ctx) assignTo(target *ast.Node, v Value, sc *Scope) error {
	switch target.Kind {
	case ast.KindIdent:
		if x.arena != nil {
			return x.assignCVar(target.Name, v, sc)
		}
		sc.Assign(target.Name, v)
		return nil

	case ast.KindMember:
		objV, err := x.evalExpr(target.Object, sc)
		if err != nil {
			return err
		}
		if target.Computed {
			idxV, err := x.evalExpr(target.Property, sc)
			if err != nil {
				return err
			}
			switch objV.Tag {
			case TagArray:
				idx := int(idxV.asFloat())
				if idx < 0 {
					return fmt.Errorf("index %d out of range", idx)
				}
				for len(objV.Arr.Elems) <= idx {
					objV.Arr.Elems = append(objV.Arr.Elems, undefined)
				}
				objV.Arr.Elems[idx] = v
				return nil
			case TagObject:
				objV.Obj.Set(idxV.Display(), v)
				return nil
			default:
				return fmt.Errorf("cannot index into %s", objV.TypeName())
			}
		}
		if objV.Tag != TagObject {
			return fmt.Errorf("cannot set property %q on %s", target.Name, objV.TypeName())
		}
		objV.Obj.Set(target.Name, v)
		return nil

	default:
		return fmt.Errorf("invalid assignment target: %s", target.Kind)
	}
}

func (x *Ctx) evalMember(n *ast.Node, sc *Scope) (Value, error) {
	objV, err := x.evalExpr(n.Object, sc)
	if err != nil {
		return undefined, err
	}

	if n.Computed {
		idxV, err := x.evalExpr(n.Property, sc)
		if err != nil {
			return undefined, err
		}
		switch objV.Tag {
		case TagArray:
			idx := int(idxV.asFloat())
			if idx < 0 || idx >= len(objV.Arr.Elems) {
				return undefined, nil
			}
			return objV.Arr.Elems[idx], nil
		case TagObject:
			return objV.Obj.Get(idxV.Display()), nil
		case TagString:
			idx := int(idxV.asFloat())
			if idx < 0 || idx >= len(objV.Str) {
				return undefined, nil
			}
			return strVal(string(objV.Str[idx])), nil
		default:
			return undefined, fmt.Errorf("cannot index into %s", objV.TypeName())
		}
	}

	switch objV.Tag {
	case TagArray:
		if n.Name == "length" {
			return intVal(int64(len(objV.Arr.Elems))), nil
		}
	case TagString:
		if n.Name == "length" {
			return intVal(int64(len(objV.Str))), nil
		}
	case TagObject:
		return objV.Obj.Get(n.Name), nil
	case TagNull, TagUndefined:
		return undefined, fmt.Errorf("cannot read property %q of %s", n.Name, objV.TypeName())
	}
	return undefined, nil
}

// binaryOp applies a binary operator. Python mode consults the installed
// operator shim first; C integer division keeps C semantics.
func (x *Ctx) binaryOp(op string, a, b Value) (Value, error) {
	if x.py != nil {
		if v, handled, err := x.py.binary(op, a, b); handled {
			return v, err
		}
	}

	switch op {
	case "+":
		if a.Tag == TagString || b.Tag == TagString {
			return strVal(a.Display() + b.Display()), nil
		}
		if a.Tag == TagArray && b.Tag == TagArray {
			joined := &Array{Elems: append(append([]Value{}, a.Arr.Elems...), b.Arr.Elems...)}
			return arrVal(joined), nil
		}
		if a.Tag == TagPointer {
			return ptrVal(a.Ptr.Add(int(b.asFloat()))), nil
		}
		if a.Tag == TagInt && b.Tag == TagInt {
			return intVal(a.Int + b.Int), nil
		}
		return floatVal(a.asFloat() + b.asFloat()), nil

	case "-":
		if a.Tag == TagPointer {
			if b.Tag == TagPointer {
				if a.Ptr.ElemSize > 0 {
					return intVal(int64((a.Ptr.Addr - b.Ptr.Addr) / a.Ptr.ElemSize)), nil
				}
				return intVal(int64(a.Ptr.Addr - b.Ptr.Addr)), nil
			}
			return ptrVal(a.Ptr.Add(-int(b.asFloat()))), nil
		}
		if a.Tag == TagInt && b.Tag == TagInt {
			return intVal(a.Int - b.Int), nil
		}
		return floatVal(a.asFloat() - b.asFloat()), nil

	case "*":
		if a.Tag == TagInt && b.Tag == TagInt {
			return intVal(a.Int * b.Int), nil
		}
		return floatVal(a.asFloat() * b.asFloat()), nil

	case "/":
		if x.lang == LangC && a.Tag == TagInt && b.Tag == TagInt {
			if b.Int == 0 {
				return undefined, fmt.Errorf("division by zero")
			}
			return intVal(a.Int / b.Int), nil
		}
		denom := b.asFloat()
		if denom == 0 {
			if x.lang == LangC {
				return undefined, fmt.Errorf("division by zero")
			}
			return floatVal(math.Inf(int(math.Copysign(1, a.asFloat())))), nil
		}
		return floatVal(a.asFloat() / denom), nil

	case "%":
		if a.Tag == TagInt && b.Tag == TagInt {
			if b.Int == 0 {
				return undefined, fmt.Errorf("modulo by zero")
			}
			return intVal(a.Int % b.Int), nil
		}
		return floatVal(math.Mod(a.asFloat(), b.asFloat())), nil

	case "==", "===":
		return boolVal(valuesEqual(a, b)), nil
	case "!=", "!==":
		return boolVal(!valuesEqual(a, b)), nil

	case "<", "<=", ">", ">=":
		if a.Tag == TagString && b.Tag == TagString {
			return boolVal(compareOrdered(op, stringCompare(a.Str, b.Str))), nil
		}
		af, bf := a.asFloat(), b.asFloat()
		switch {
		case af < bf:
			return boolVal(compareOrdered(op, -1)), nil
		case af > bf:
			return boolVal(compareOrdered(op, 1)), nil
		default:
			return boolVal(compareOrdered(op, 0)), nil
		}

	case "&":
		return intVal(int64(a.asFloat()) & int64(b.asFloat())), nil
	case "|":
		return intVal(int64(a.asFloat()) | int64(b.asFloat())), nil
	case "^":
		return intVal(int64(a.asFloat()) ^ int64(b.asFloat())), nil
	case "<<":
		return intVal(int64(a.asFloat()) << uint(b.asFloat())), nil
	case ">>":
		return intVal(int64(a.asFloat()) >> uint(b.asFloat())), nil

	default:
		return undefined, fmt.Errorf("unknown operator %q", op)
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}
