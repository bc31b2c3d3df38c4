package exec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/cmem"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/trace"
)

// recordStep snapshots program state for one recordable statement. Snapshots
// are taken at write time: every value is deep-cloned and the call stack is
// copied by value, so later mutation of live state can never retroactively
// change a recorded step. This is what makes backward scrubbing safe.
func (x *Ctx) recordStep(n *ast.Node) error {
	if !recordable(n) {
		return nil
	}
	if len(x.steps) >= x.maxSteps {
		return fmt.Errorf("%w (exceeded %d steps)", ErrMaxSteps, x.maxSteps)
	}

	if f := x.stack.Top(); f != nil {
		f.Line = n.Line
	}

	scope := x.currentScopeForDisplay()
	step := trace.Step{
		StepIndex:    len(x.steps),
		NodeID:       fmt.Sprintf("node-%d", x.nextNodeID),
		LineNumber:   n.Line,
		Code:         x.sourceLine(n.Line),
		Variables:    x.collectVariables(scope),
		CallStack:    x.snapshotCallStack(),
		IsBreakpoint: x.breakpoints[n.Line],
	}
	x.nextNodeID++
	if x.arena != nil {
		step.Memory = x.snapshotMemory()
	}
	x.steps = append(x.steps, step)
	return nil
}

// recordable filters front-end artifact nodes: blocks, empties and nodes
// without a source line produce no step of their own.
func recordable(n *ast.Node) bool {
	if n == nil || n.Line <= 0 {
		return false
	}
	return n.Kind.IsStatement()
}

// currentScopeForDisplay is the innermost scope visible right now: the top
// frame's scope during a call, the global scope otherwise.
func (x *Ctx) currentScopeForDisplay() *Scope {
	if f := x.stack.Top(); f != nil && f.Scope != nil {
		return f.Scope
	}
	return x.global
}

// collectVariables walks the whole scope chain once, innermost first. The
// nearest declaration wins per name; internal and builtin names are
// filtered out.
func (x *Ctx) collectVariables(scope *Scope) []trace.Variable {
	seenNames := make(map[string]bool)
	vars := []trace.Variable{}
	for sc := scope; sc != nil; sc = sc.parent {
		names := make([]string, 0, len(sc.vars))
		for name := range sc.vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if seenNames[name] || hiddenName(name) {
				continue
			}
			v := sc.vars[name]
			if v.Tag == TagBuiltin || v.Tag == TagClass || v.Tag == TagStructDef {
				continue
			}
			seenNames[name] = true
			vars = append(vars, trace.Variable{
				Name:  name,
				Value: cloneDisplay(v, make(map[any]any)),
				Type:  v.TypeName(),
			})
		}
	}
	return vars
}

func hiddenName(name string) bool {
	return strings.HasPrefix(name, "__") || name == "this" || name == "console"
}

// snapshotCallStack copies every active frame by value, including a display
// copy of the frame's own bindings.
func (x *Ctx) snapshotCallStack() []trace.FrameSnapshot {
	frames := x.stack.Frames()
	out := make([]trace.FrameSnapshot, 0, len(frames))
	for _, f := range frames {
		snap := trace.FrameSnapshot{
			ID:       f.ID,
			Function: f.Function,
			Line:     f.Line,
		}
		if f.Scope != nil {
			names := make([]string, 0, len(f.Scope.vars))
			for name := range f.Scope.vars {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if hiddenName(name) {
					continue
				}
				v := f.Scope.vars[name]
				if v.Tag == TagBuiltin || v.Tag == TagFunc || v.Tag == TagClass {
					continue
				}
				snap.Locals = append(snap.Locals, trace.Variable{
					Name:  name,
					Value: cloneDisplay(v, make(map[any]any)),
					Type:  v.TypeName(),
				})
			}
		}
		out = append(out, snap)
	}
	return out
}

// cloneDisplay deep-clones a value into its JSON-friendly display form.
// The visited map is keyed by the original container's identity, so
// self-referential structures clone to a finite copy whose internal
// references point back into the clone.
func cloneDisplay(v Value, visited map[any]any) any {
	switch v.Tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return nil
	case TagBool:
		return v.Bool
	case TagInt:
		return v.Int
	case TagFloat:
		return v.Num
	case TagString:
		return v.Str
	case TagArray:
		if c, ok := visited[v.Arr]; ok {
			return c
		}
		out := make([]any, len(v.Arr.Elems))
		visited[v.Arr] = out
		for i, e := range v.Arr.Elems {
			out[i] = cloneDisplay(e, visited)
		}
		return out
	case TagObject:
		if c, ok := visited[v.Obj]; ok {
			return c
		}
		out := make(map[string]any, len(v.Obj.Entries)+1)
		visited[v.Obj] = out
		if v.Obj.TypeName != "" {
			out["__type"] = v.Obj.TypeName
		}
		for _, k := range v.Obj.Keys {
			out[k] = cloneDisplay(v.Obj.Entries[k], visited)
		}
		return out
	case TagFunc:
		return "function " + v.Fn.Name
	case TagBuiltin:
		return "function " + v.Builtin.Name
	case TagPointer:
		return v.Display()
	default:
		return v.Display()
	}
}

// snapshotMemory projects the arena into the step's memory view.
func (x *Ctx) snapshotMemory() *trace.MemorySnapshot {
	snap := &trace.MemorySnapshot{}
	for _, b := range x.arena.HeapBlocks() {
		cells := make([]any, len(b.Cells))
		for i, c := range b.Cells {
			cells[i] = displayCell(c)
		}
		snap.Heap = append(snap.Heap, trace.HeapBlock{
			Address:   b.Address,
			Size:      b.Size,
			Cells:     cells,
			Freed:     b.Freed,
			AllocLine: b.AllocLine,
			FreeLine:  b.FreeLine,
			ElemType:  b.ElemType,
			OnStack:   b.OnStack,
		})
	}
	for _, f := range x.arena.Frames() {
		vars := make(map[string]int, len(f.Vars))
		for name, addr := range f.Vars {
			vars[name] = addr
		}
		snap.Stack = append(snap.Stack, trace.StackRegion{
			Function: f.Function,
			Base:     f.Base,
			Vars:     vars,
		})
	}
	snap.HeapUsed = x.arena.HeapUsed()
	snap.StackUsed = x.arena.StackUsed()
	snap.AllocCount, snap.FreeCount = x.arena.Counts()
	return snap
}

func displayCell(c any) any {
	switch v := c.(type) {
	case nil:
		return int64(0)
	case Value:
		return cloneDisplay(v, make(map[any]any))
	case *ctypes.StructVal:
		return cloneDisplay(structValValue(v), make(map[any]any))
	case cmem.Pointer:
		return ptrVal(v).Display()
	default:
		return v
	}
}
