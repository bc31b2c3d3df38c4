// Package trace holds the frozen trace value consumed by the debugger UI.
// Field names in the JSON encoding are part of the external contract and
// must not change.
package trace

import "encoding/json"

// Variable is one visible binding at the moment a step was recorded.
type Variable struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// FrameSnapshot is a by-value copy of one active call frame.
type FrameSnapshot struct {
	ID       int        `json:"id"`
	Function string     `json:"functionName"`
	Line     int        `json:"line"`
	Locals   []Variable `json:"locals,omitempty"`
}

// HeapBlock is the display form of one tracked memory block (C mode).
type HeapBlock struct {
	Address   int    `json:"address"`
	Size      int    `json:"size"`
	Cells     []any  `json:"cells"`
	Freed     bool   `json:"freed"`
	AllocLine int    `json:"allocLine"`
	FreeLine  int    `json:"freeLine,omitempty"`
	ElemType  string `json:"elemType"`
	OnStack   bool   `json:"onStack"`
}

// StackRegion is the display form of one memory stack frame (C mode).
type StackRegion struct {
	Function string         `json:"functionName"`
	Base     int            `json:"base"`
	Vars     map[string]int `json:"vars"` // name -> address
}

// MemorySnapshot is the C-mode memory view baked into a step.
type MemorySnapshot struct {
	Heap       []HeapBlock   `json:"heap"`
	Stack      []StackRegion `json:"stack"`
	HeapUsed   int           `json:"heapUsed"`
	StackUsed  int           `json:"stackUsed"`
	AllocCount int           `json:"allocCount"`
	FreeCount  int           `json:"freeCount"`
}

// Step is one recorded snapshot of program state. Immutable once appended:
// every value inside is a deep copy of live state.
type Step struct {
	StepIndex    int             `json:"stepIndex"`
	NodeID       string          `json:"nodeId"`
	LineNumber   int             `json:"lineNumber"`
	Code         string          `json:"code"`
	Variables    []Variable      `json:"variables"`
	CallStack    []FrameSnapshot `json:"callStack"`
	IsBreakpoint bool            `json:"isBreakpoint"`
	Output       string          `json:"output,omitempty"`
	Error        string          `json:"error,omitempty"`
	Memory       *MemorySnapshot `json:"memory,omitempty"`
}

// Trace is the ordered result of one run.
type Trace struct {
	Steps        []Step   `json:"steps"`
	TotalSteps   int      `json:"totalSteps"`
	HasError     bool     `json:"hasError"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
	Output       []string `json:"output"`
}

// Errored builds the trace for a run that failed before or during execution,
// retaining whatever steps were recorded first.
func Errored(steps []Step, output []string, msg string) *Trace {
	if steps == nil {
		steps = []Step{}
	}
	if output == nil {
		output = []string{}
	}
	return &Trace{
		Steps:        steps,
		TotalSteps:   len(steps),
		HasError:     true,
		ErrorMessage: msg,
		Output:       output,
	}
}

// Completed builds the trace for a successful run.
func Completed(steps []Step, output []string) *Trace {
	if steps == nil {
		steps = []Step{}
	}
	if output == nil {
		output = []string{}
	}
	return &Trace{
		Steps:      steps,
		TotalSteps: len(steps),
		Output:     output,
	}
}

// MarshalJSON keeps Steps and Output non-null even when empty.
func (t *Trace) MarshalJSON() ([]byte, error) {
	type alias Trace
	a := (*alias)(t)
	if a.Steps == nil {
		a.Steps = []Step{}
	}
	if a.Output == nil {
		a.Output = []string{}
	}
	return json.Marshal(a)
}
