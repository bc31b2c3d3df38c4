package exec

import (
	"fmt"
	"math"
)

// pyRuntime is the operator shim installed only in Python mode. The shared
// evaluator consults it before falling back to the default operator rules,
// so Python's arithmetic differences live here instead of leaking into the
// evaluator's dispatch.
type pyRuntime struct{}

func newPyRuntime() *pyRuntime {
	return &pyRuntime{}
}

// binary handles the operators whose Python semantics differ: true
// division, floor division, sign-of-divisor modulo and exponentiation.
// Everything else falls through to the shared rules.
func (p *pyRuntime) binary(op string, a, b Value) (Value, bool, error) {
	switch op {
	case "/":
		denom := b.asFloat()
		if denom == 0 {
			return undefined, true, fmt.Errorf("division by zero")
		}
		return floatVal(a.asFloat() / denom), true, nil

	case "//":
		denom := b.asFloat()
		if denom == 0 {
			return undefined, true, fmt.Errorf("division by zero")
		}
		q := math.Floor(a.asFloat() / denom)
		if a.Tag == TagInt && b.Tag == TagInt {
			return intVal(int64(q)), true, nil
		}
		return floatVal(q), true, nil

	case "%":
		denom := b.asFloat()
		if denom == 0 {
			return undefined, true, fmt.Errorf("modulo by zero")
		}
		// Python keeps the divisor's sign
		m := math.Mod(a.asFloat(), denom)
		if m != 0 && (m < 0) != (denom < 0) {
			m += denom
		}
		if a.Tag == TagInt && b.Tag == TagInt {
			return intVal(int64(m)), true, nil
		}
		return floatVal(m), true, nil

	case "**":
		r := math.Pow(a.asFloat(), b.asFloat())
		if a.Tag == TagInt && b.Tag == TagInt && b.asFloat() >= 0 && r == math.Trunc(r) {
			return intVal(int64(r)), true, nil
		}
		return floatVal(r), true, nil

	default:
		return undefined, false, nil
	}
}
