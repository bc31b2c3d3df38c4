// Package exec is the execution core: it runs a parsed program under strict
// step and call-depth bounds and records a deterministic, replayable trace
// of every statement. One Ctx owns its scope tree, call stack and (in C
// mode) memory arena exclusively for the lifetime of a run; nothing is
// shared across runs.
package exec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/clang"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/cmem"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/jslang"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/pylang"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/trace"
)

const (
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangC          = "c"
)

const (
	DefaultMaxSteps = 10000
	DefaultMaxDepth = 100
)

var (
	ErrMaxSteps        = errors.New("possible infinite loop detected")
	ErrUnknownLanguage = errors.New("unknown language")
)

// Ctx is one run's execution context. All counters (step index, frame ids,
// node ids) are per-run, never package-wide, so concurrent runs cannot leak
// identifiers into each other.
type Ctx struct {
	lang        string
	srcLines    []string
	breakpoints map[int]bool

	maxSteps int
	maxDepth int
	stdin    string

	global *Scope
	stack  *CallStack

	steps  []trace.Step
	output []string

	nextFrameID int
	nextNodeID  int

	// method tables for class/struct dispatch, keyed by type name
	classes map[string]*Class

	// C mode only
	arena   *cmem.Arena
	structs map[string]*ctypes.StructDef

	// Python mode only: operator/builtin shim
	py *pyRuntime
}

// Option configures a run, following the teacher-style functional options.
type Option func(*Ctx)

// WithMaxSteps overrides the recorded-step budget.
func WithMaxSteps(n int) Option {
	return func(x *Ctx) {
		if n > 0 {
			x.maxSteps = n
		}
	}
}

// WithMaxDepth overrides the call-stack depth bound.
func WithMaxDepth(n int) Option {
	return func(x *Ctx) {
		if n > 0 {
			x.maxDepth = n
		}
	}
}

// WithStdin provides the input string consumed by scanf.
func WithStdin(s string) Option {
	return func(x *Ctx) { x.stdin = s }
}

// Execute parses and runs source in the given language and returns the
// trace. It never returns a Go error: parse failures yield an empty errored
// trace and runtime faults yield a trace retaining every step recorded
// before the fault. Identical inputs produce identical traces.
func Execute(source, lang string, breakpointLines []int, opts ...Option) *trace.Trace {
	program, err := parseFor(lang, source)
	if err != nil {
		return trace.Errored(nil, nil, err.Error())
	}

	x := &Ctx{
		lang:        lang,
		srcLines:    strings.Split(source, "\n"),
		breakpoints: make(map[int]bool, len(breakpointLines)),
		maxSteps:    DefaultMaxSteps,
		maxDepth:    DefaultMaxDepth,
		global:      NewScope(nil),
	}
	for _, ln := range breakpointLines {
		x.breakpoints[ln] = true
	}
	for _, o := range opts {
		o(x)
	}
	x.stack = NewCallStack(x.maxDepth)

	switch lang {
	case LangJavaScript:
		x.installConsole()
	case LangPython:
		x.py = newPyRuntime()
		x.installPyBuiltins()
	case LangC:
		x.arena = cmem.NewArena()
		x.structs = make(map[string]*ctypes.StructDef)
		x.installCBuiltins()
	}

	if err := x.run(program); err != nil {
		return trace.Errored(x.steps, x.output, err.Error())
	}
	return trace.Completed(x.steps, x.output)
}

func parseFor(lang, source string) (*ast.Node, error) {
	switch lang {
	case LangJavaScript:
		return jslang.Parse(source)
	case LangPython:
		return pylang.Parse(source)
	case LangC:
		return clang.Parse(source)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
}

// run executes the program body. C programs run through main(); the other
// languages execute top-level statements in order after hoisting function
// and class declarations.
func (x *Ctx) run(program *ast.Node) error {
	if x.lang == LangC {
		return x.runC(program)
	}

	// hoist declarations so calls can appear before definitions
	for _, n := range program.Body {
		switch n.Kind {
		case ast.KindFuncDecl:
			x.global.Declare(n.Name, fnVal(&Function{
				Name:   n.Name,
				Params: n.Params,
				Body:   n.Body,
				Line:   n.Line,
				Env:    x.global,
			}))
		case ast.KindClassDecl:
			c := x.buildClass(n)
			x.registerClass(c)
			x.global.Declare(n.Name, classVal(c))
		}
	}

	for _, n := range program.Body {
		if n.Kind == ast.KindFuncDecl || n.Kind == ast.KindClassDecl {
			continue
		}
		sig, err := x.execStmt(n, x.global)
		if err != nil {
			return err
		}
		if sig.Kind != SigNormal {
			// stray return/break at top level stops execution quietly
			return nil
		}
	}
	return nil
}

func (x *Ctx) runC(program *ast.Node) error {
	haveGlobals := false
	for _, n := range program.Body {
		switch n.Kind {
		case ast.KindCDecl:
			if !haveGlobals {
				x.arena.PushFrame("globals")
				haveGlobals = true
			}
			if err := x.execCDecl(n, x.global); err != nil {
				return err
			}
		case ast.KindStructDef:
			fields := make([]ctypes.FieldDef, 0, len(n.Fields))
			for _, f := range n.Fields {
				fields = append(fields, ctypes.FieldDef{Name: f.Name, Type: f.Type})
			}
			x.structs[n.Name] = ctypes.NewStructDef(n.Name, fields)
		case ast.KindFuncDecl:
			x.global.Declare(n.Name, fnVal(&Function{
				Name:       n.Name,
				Params:     n.Params,
				ParamTypes: n.ParamTypes,
				Body:       n.Body,
				Line:       n.Line,
				Env:        x.global,
			}))
		}
	}

	mainFn := x.global.Lookup("main")
	if mainFn.Tag != TagFunc {
		return errors.New("no main function defined")
	}
	_, err := x.callFunction(mainFn.Fn, nil, mainFn.Fn.Line)
	return err
}

// registerClass records the method table so instances tagged with the class
// name can dispatch method calls.
func (x *Ctx) registerClass(c *Class) {
	if x.classes == nil {
		x.classes = make(map[string]*Class)
	}
	x.classes[c.Name] = c
}

func (x *Ctx) buildClass(n *ast.Node) *Class {
	c := &Class{Name: n.Name, Methods: make(map[string]*Function)}
	for _, m := range n.Body {
		if m.Kind == ast.KindFuncDecl {
			c.Methods[m.Name] = &Function{
				Name:   m.Name,
				Params: m.Params,
				Body:   m.Body,
				Line:   m.Line,
				Env:    x.global,
			}
		}
	}
	return c
}

// emit appends console output, attributing it to the step being executed.
func (x *Ctx) emit(text string) {
	x.output = append(x.output, text)
	if len(x.steps) > 0 {
		last := &x.steps[len(x.steps)-1]
		if last.Output != "" {
			last.Output += "\n" + text
		} else {
			last.Output = text
		}
	}
}

func (x *Ctx) sourceLine(line int) string {
	if line >= 1 && line <= len(x.srcLines) {
		return strings.TrimSpace(x.srcLines[line-1])
	}
	return ""
}
