package exec_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/exec"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/trace"
)

func findVar(step trace.Step, name string) (trace.Variable, bool) {
	for _, v := range step.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return trace.Variable{}, false
}

func lastStep(t *testing.T, tr *trace.Trace) trace.Step {
	t.Helper()
	if len(tr.Steps) == 0 {
		t.Fatal("trace has no steps")
	}
	return tr.Steps[len(tr.Steps)-1]
}

func TestFibonacciTrace(t *testing.T) {
	source := `function fib(n) {
  if (n <= 1) {
    return n;
  }
  return fib(n - 1) + fib(n - 2);
}
var result = fib(5);
console.log(result);`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"5"}) {
		t.Errorf("expected output [5], got %v", tr.Output)
	}
	if tr.TotalSteps != len(tr.Steps) {
		t.Errorf("TotalSteps %d does not match %d steps", tr.TotalSteps, len(tr.Steps))
	}
	for _, s := range tr.Steps {
		if len(s.CallStack) > 5 {
			t.Errorf("step %d: call stack depth %d exceeds 5", s.StepIndex, len(s.CallStack))
		}
	}

	v, ok := findVar(lastStep(t, tr), "result")
	if !ok {
		t.Fatal("result not visible in the last step")
	}
	if v.Value != int64(5) {
		t.Errorf("expected result 5, got %v", v.Value)
	}
	if v.Type != "number" {
		t.Errorf("expected type number, got %s", v.Type)
	}
}

func TestDeterministicReplay(t *testing.T) {
	source := `var xs = [3, 1, 2];
xs.push(4);
var total = 0;
for (var i = 0; i < xs.length; i++) {
  total += xs[i];
}
console.log(total);`

	first := exec.Execute(source, exec.LangJavaScript, nil)
	second := exec.Execute(source, exec.LangJavaScript, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs of the same source produced different traces")
	}
	if first.HasError {
		t.Fatalf("unexpected error: %s", first.ErrorMessage)
	}
	if !reflect.DeepEqual(first.Output, []string{"10"}) {
		t.Errorf("expected output [10], got %v", first.Output)
	}
}

func TestStepBudget(t *testing.T) {
	tr := exec.Execute("while (true) {}", exec.LangJavaScript, nil, exec.WithMaxSteps(50))

	if !tr.HasError {
		t.Fatal("expected the step budget to fire")
	}
	if !strings.Contains(tr.ErrorMessage, "possible infinite loop") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
	if len(tr.Steps) != 50 {
		t.Errorf("expected exactly 50 recorded steps, got %d", len(tr.Steps))
	}
}

func TestCallDepthBound(t *testing.T) {
	source := `function boom() {
  return boom();
}
boom();`

	tr := exec.Execute(source, exec.LangJavaScript, nil, exec.WithMaxDepth(10))

	if !tr.HasError {
		t.Fatal("expected unbounded recursion to fail")
	}
	if !strings.Contains(tr.ErrorMessage, "maximum call stack") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}

func TestBreakpointsMarked(t *testing.T) {
	source := `var a = 1;
var b = 2;
var c = a + b;`

	tr := exec.Execute(source, exec.LangJavaScript, []int{2})

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	for _, s := range tr.Steps {
		want := s.LineNumber == 2
		if s.IsBreakpoint != want {
			t.Errorf("line %d: IsBreakpoint = %v", s.LineNumber, s.IsBreakpoint)
		}
	}
}

// Steps must be write-time snapshots: mutating an array after a step was
// recorded may not change what the step shows.
func TestSnapshotImmutability(t *testing.T) {
	source := `var arr = [1, 2, 3];
arr.push(4);
console.log(arr.length);`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}

	var pushStep *trace.Step
	for i := range tr.Steps {
		if tr.Steps[i].LineNumber == 2 {
			pushStep = &tr.Steps[i]
		}
	}
	if pushStep == nil {
		t.Fatal("no step recorded for line 2")
	}
	v, ok := findVar(*pushStep, "arr")
	if !ok {
		t.Fatal("arr not visible at line 2")
	}
	elems, ok := v.Value.([]any)
	if !ok {
		t.Fatalf("expected a slice snapshot, got %T", v.Value)
	}
	if len(elems) != 3 {
		t.Errorf("step recorded before push must show 3 elements, got %d", len(elems))
	}
}

func TestScopeIsolation(t *testing.T) {
	source := `var x = 1;
function f() {
  var x = 2;
  return x;
}
var y = f();`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	last := lastStep(t, tr)
	if v, ok := findVar(last, "x"); !ok || v.Value != int64(1) {
		t.Errorf("global x should still be 1, got %v", v.Value)
	}
	if v, ok := findVar(last, "y"); !ok || v.Value != int64(2) {
		t.Errorf("y should be 2, got %v", v.Value)
	}
}

func TestImplicitGlobalAssignment(t *testing.T) {
	source := `function f() {
  leaked = 7;
}
f();
console.log(leaked);`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"7"}) {
		t.Errorf("expected output [7], got %v", tr.Output)
	}
}

func TestParseErrorYieldsErroredTrace(t *testing.T) {
	tr := exec.Execute("var = ;", exec.LangJavaScript, nil)

	if !tr.HasError {
		t.Fatal("expected a parse error")
	}
	if len(tr.Steps) != 0 {
		t.Errorf("parse failures must record no steps, got %d", len(tr.Steps))
	}
	if tr.Steps == nil || tr.Output == nil {
		t.Error("errored traces must keep non-nil slices")
	}
}

func TestUnknownLanguage(t *testing.T) {
	tr := exec.Execute("x = 1", "cobol", nil)

	if !tr.HasError {
		t.Fatal("expected an unknown-language error")
	}
	if !strings.Contains(tr.ErrorMessage, "unknown language") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}

func TestOutputAttachedToStep(t *testing.T) {
	source := `var msg = "hi";
console.log(msg);`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	last := lastStep(t, tr)
	if last.Output != "hi" {
		t.Errorf("expected the log line attached to its step, got %q", last.Output)
	}
}

func TestCycleSafeSnapshot(t *testing.T) {
	source := `var o = {name: "root"};
o.self = o;
var done = true;`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	last := lastStep(t, tr)
	v, ok := findVar(last, "o")
	if !ok {
		t.Fatal("o not visible")
	}
	m, ok := v.Value.(map[string]any)
	if !ok {
		t.Fatalf("expected a map snapshot, got %T", v.Value)
	}
	inner, ok := m["self"].(map[string]any)
	if !ok {
		t.Fatal("self-reference missing from snapshot")
	}
	if !sameMap(m, inner) {
		t.Error("self-reference must point back into the clone")
	}
}

func sameMap(a, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestClassMethods(t *testing.T) {
	source := `class Counter {
  constructor(start) {
    this.count = start;
  }
  inc() {
    this.count = this.count + 1;
    return this.count;
  }
}
var c = new Counter(3);
c.inc();
console.log(c.inc());`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"5"}) {
		t.Errorf("expected output [5], got %v", tr.Output)
	}
}

func TestTernaryAndLogical(t *testing.T) {
	source := `var a = 5;
var kind = a > 3 ? "big" : "small";
var both = a > 0 && a < 10;
console.log(kind, both);`

	tr := exec.Execute(source, exec.LangJavaScript, nil)

	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"big true"}) {
		t.Errorf("unexpected output %v", tr.Output)
	}
}
