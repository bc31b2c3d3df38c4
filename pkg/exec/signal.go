package exec

// SignalKind says how a statement finished. Every statement evaluator
// returns a Signal and every enclosing construct checks it, which replaces
// native unwinding for return, break and continue.
type SignalKind int

const (
	SigNormal SignalKind = iota
	SigReturn
	SigBreak
	SigContinue
)

// Signal threads non-local control flow out of nested statements.
type Signal struct {
	Kind SignalKind
	Val  Value // the returned value when Kind == SigReturn
}

var normal = Signal{Kind: SigNormal}

func returnSig(v Value) Signal { return Signal{Kind: SigReturn, Val: v} }
