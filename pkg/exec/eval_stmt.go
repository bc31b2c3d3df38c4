package exec

import (
	"fmt"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ast"
)

// execStmt records a step for the statement, then dispatches on its kind.
// Every branch must propagate a non-normal Signal unchanged; swallowing one
// would break return/break/continue.
func (x *Ctx) execStmt(n *ast.Node, sc *Scope) (Signal, error) {
	if err := x.recordStep(n); err != nil {
		return normal, err
	}

	switch n.Kind {
	case ast.KindEmpty, ast.KindStructDef:
		return normal, nil

	case ast.KindBlock:
		return x.execBlock(n.Body, sc)

	case ast.KindExprStmt:
		_, err := x.evalExpr(n.Left, sc)
		return normal, err

	case ast.KindVarDecl:
		v := undefined
		if n.Right != nil {
			var err error
			v, err = x.evalExpr(n.Right, sc)
			if err != nil {
				return normal, err
			}
		}
		sc.Declare(n.Name, v)
		return normal, nil

	case ast.KindCDecl:
		return normal, x.execCDecl(n, sc)

	case ast.KindFuncDecl:
		sc.Declare(n.Name, fnVal(&Function{
			Name:       n.Name,
			Params:     n.Params,
			ParamTypes: n.ParamTypes,
			Body:       n.Body,
			Line:       n.Line,
			Env:        sc,
		}))
		return normal, nil

	case ast.KindClassDecl:
		c := x.buildClass(n)
		x.registerClass(c)
		sc.Declare(n.Name, classVal(c))
		return normal, nil

	case ast.KindReturn:
		v := undefined
		if n.Left != nil {
			var err error
			v, err = x.evalExpr(n.Left, sc)
			if err != nil {
				return normal, err
			}
		}
		return returnSig(v), nil

	case ast.KindBreak:
		return Signal{Kind: SigBreak}, nil

	case ast.KindContinue:
		return Signal{Kind: SigContinue}, nil

	case ast.KindIf:
		test, err := x.evalExpr(n.Test, sc)
		if err != nil {
			return normal, err
		}
		// exactly one branch is walked; the untaken branch records nothing
		if test.truthy() {
			return x.execBlock(n.Body, sc)
		}
		if n.Alt != nil {
			return x.execStmt(n.Alt, sc)
		}
		return normal, nil

	case ast.KindWhile:
		return x.execWhile(n, sc)

	case ast.KindDoWhile:
		return x.execDoWhile(n, sc)

	case ast.KindFor:
		return x.execFor(n, sc)

	default:
		return normal, fmt.Errorf("cannot execute %s node as a statement", n.Kind)
	}
}

// execBlock runs statements in order, sharing the given scope, and
// re-propagates the first non-normal signal.
func (x *Ctx) execBlock(stmts []*ast.Node, sc *Scope) (Signal, error) {
	for _, s := range stmts {
		sig, err := x.execStmt(s, sc)
		if err != nil {
			return normal, err
		}
		if sig.Kind != SigNormal {
			return sig, nil
		}
	}
	return normal, nil
}

// execWhile shares the enclosing scope across iterations (a deliberate
// simplification: there is no per-iteration scope) and re-records a step at
// every test re-evaluation, so the step budget bounds the loop.
func (x *Ctx) execWhile(n *ast.Node, sc *Scope) (Signal, error) {
	first := true
	for {
		if !first {
			if err := x.recordStep(n); err != nil {
				return normal, err
			}
		}
		first = false

		test, err := x.evalExpr(n.Test, sc)
		if err != nil {
			return normal, err
		}
		if !test.truthy() {
			return normal, nil
		}

		sig, err := x.execBlock(n.Body, sc)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigReturn:
			return sig, nil
		}
	}
}

func (x *Ctx) execDoWhile(n *ast.Node, sc *Scope) (Signal, error) {
	first := true
	for {
		if !first {
			if err := x.recordStep(n); err != nil {
				return normal, err
			}
		}
		first = false

		sig, err := x.execBlock(n.Body, sc)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigReturn:
			return sig, nil
		}

		test, err := x.evalExpr(n.Test, sc)
		if err != nil {
			return normal, err
		}
		if !test.truthy() {
			return normal, nil
		}
	}
}

func (x *Ctx) execFor(n *ast.Node, sc *Scope) (Signal, error) {
	// the initializer shares the loop statement's step (already recorded)
	if n.Init != nil {
		switch n.Init.Kind {
		case ast.KindExprStmt:
			if _, err := x.evalExpr(n.Init.Left, sc); err != nil {
				return normal, err
			}
		case ast.KindCDecl:
			if err := x.execCDecl(n.Init, sc); err != nil {
				return normal, err
			}
		case ast.KindVarDecl:
			v := undefined
			if n.Init.Right != nil {
				var err error
				v, err = x.evalExpr(n.Init.Right, sc)
				if err != nil {
					return normal, err
				}
			}
			sc.Declare(n.Init.Name, v)
		default:
			if _, err := x.evalExpr(n.Init, sc); err != nil {
				return normal, err
			}
		}
	}

	first := true
	for {
		if !first {
			if err := x.recordStep(n); err != nil {
				return normal, err
			}
		}
		first = false

		if n.Test != nil {
			test, err := x.evalExpr(n.Test, sc)
			if err != nil {
				return normal, err
			}
			if !test.truthy() {
				return normal, nil
			}
		}

		sig, err := x.execBlock(n.Body, sc)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigReturn:
			return sig, nil
		}

		if n.Update != nil {
			if _, err := x.evalExpr(n.Update, sc); err != nil {
				return normal, err
			}
		}
	}
}
