package exec

import "strings"

// installConsole binds the JS console object. Only the output methods are
// modeled; everything funnels into the captured output list.
func (x *Ctx) installConsole() {
	console := NewObject("Console")
	x.global.Declare("console", objVal(console))

	x.global.Declare("Math", objVal(mathObject()))
}

func mathObject() *Object {
	m := NewObject("Math")
	m.Set("PI", floatVal(3.141592653589793))
	m.Set("E", floatVal(2.718281828459045))
	return m
}

// installPyBuiltins binds the Python-mode builtin functions. They are
// TagBuiltin values living in the global scope, filtered out of snapshots.
func (x *Ctx) installPyBuiltins() {
	declare := func(name string, fn func(x *Ctx, args []Value, line int) (Value, error)) {
		x.global.Declare(name, Value{Tag: TagBuiltin, Builtin: &Builtin{Name: name, Call: fn}})
	}

	declare("print", func(x *Ctx, args []Value, line int) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = pyDisplay(a)
		}
		x.emit(strings.Join(parts, " "))
		return null, nil
	})

	declare("len", func(x *Ctx, args []Value, line int) (Value, error) {
		if len(args) == 0 {
			return intVal(0), nil
		}
		switch args[0].Tag {
		case TagString:
			return intVal(int64(len(args[0].Str))), nil
		case TagArray:
			return intVal(int64(len(args[0].Arr.Elems))), nil
		case TagObject:
			return intVal(int64(len(args[0].Obj.Keys))), nil
		default:
			return intVal(0), nil
		}
	})

	declare("range", func(x *Ctx, args []Value, line int) (Value, error) {
		start, stop, step := int64(0), int64(0), int64(1)
		switch len(args) {
		case 1:
			stop = int64(args[0].asFloat())
		case 2:
			start, stop = int64(args[0].asFloat()), int64(args[1].asFloat())
		default:
			if len(args) >= 3 {
				start, stop, step = int64(args[0].asFloat()), int64(args[1].asFloat()), int64(args[2].asFloat())
			}
		}
		arr := &Array{}
		if step > 0 {
			for i := start; i < stop; i += step {
				arr.Elems = append(arr.Elems, intVal(i))
			}
		} else if step < 0 {
			for i := start; i > stop; i += step {
				arr.Elems = append(arr.Elems, intVal(i))
			}
		}
		return arrVal(arr), nil
	})

	declare("str", func(x *Ctx, args []Value, line int) (Value, error) {
		if len(args) == 0 {
			return strVal(""), nil
		}
		return strVal(pyDisplay(args[0])), nil
	})

	declare("int", func(x *Ctx, args []Value, line int) (Value, error) {
		if len(args) == 0 {
			return intVal(0), nil
		}
		return intVal(int64(args[0].asFloat())), nil
	})

	declare("float", func(x *Ctx, args []Value, line int) (Value, error) {
		if len(args) == 0 {
			return floatVal(0), nil
		}
		return floatVal(args[0].asFloat()), nil
	})

	declare("abs", func(x *Ctx, args []Value, line int) (Value, error) {
		if len(args) == 0 {
			return intVal(0), nil
		}
		v := args[0]
		if v.Tag == TagInt {
			if v.Int < 0 {
				return intVal(-v.Int), nil
			}
			return v, nil
		}
		f := v.asFloat()
		if f < 0 {
			f = -f
		}
		return floatVal(f), nil
	})
}

// pyDisplay differs from the shared display only for booleans and None.
func pyDisplay(v Value) string {
	switch v.Tag {
	case TagBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case TagNull, TagUndefined:
		return "None"
	default:
		return v.Display()
	}
}
