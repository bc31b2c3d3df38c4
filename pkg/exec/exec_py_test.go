package exec_test

import (
	"reflect"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/exec"
)

func runPy(t *testing.T, source string) []string {
	t.Helper()
	tr := exec.Execute(source, exec.LangPython, nil)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	return tr.Output
}

func TestPythonArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		output []string
	}{
		{"true division", "print(7 / 2)", []string{"3.5"}},
		{"floor division", "print(7 // 2)", []string{"3"}},
		{"negative floor division", "print(-7 // 2)", []string{"-4"}},
		{"modulo keeps divisor sign", "print(-7 % 3)", []string{"2"}},
		{"power", "print(2 ** 8)", []string{"256"}},
		{"float power", "print(2 ** 0.5)", []string{"1.4142135623730951"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := runPy(t, test.source)
			if !reflect.DeepEqual(got, test.output) {
				t.Errorf("expected %v, got %v", test.output, got)
			}
		})
	}
}

func TestPythonForRange(t *testing.T) {
	source := `total = 0
for i in range(5):
    total = total + i
print(total)`

	got := runPy(t, source)
	if !reflect.DeepEqual(got, []string{"10"}) {
		t.Errorf("expected [10], got %v", got)
	}
}

func TestPythonForOverList(t *testing.T) {
	source := `words = ["a", "b", "c"]
out = ""
for w in words:
    out = out + w
print(out)`

	got := runPy(t, source)
	if !reflect.DeepEqual(got, []string{"abc"}) {
		t.Errorf("expected [abc], got %v", got)
	}
}

func TestPythonElifChain(t *testing.T) {
	source := `x = 7
if x > 10:
    print("big")
elif x > 5:
    print("mid")
else:
    print("small")`

	got := runPy(t, source)
	if !reflect.DeepEqual(got, []string{"mid"}) {
		t.Errorf("expected [mid], got %v", got)
	}
}

func TestPythonClass(t *testing.T) {
	source := `class Counter:
    def __init__(self, start):
        self.count = start

    def inc(self):
        self.count = self.count + 1
        return self.count

c = Counter(3)
c.inc()
print(c.inc())`

	got := runPy(t, source)
	if !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("expected [5], got %v", got)
	}
}

func TestPythonBuiltins(t *testing.T) {
	source := `xs = [5, 2, 9]
print(len(xs))
print(str(1.5) + "!")
print(int("42") + 1)
print(abs(-3))`

	got := runPy(t, source)
	want := []string{"3", "1.5!", "43", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPythonBoolAndNoneDisplay(t *testing.T) {
	source := `print(True)
print(False)
print(None)`

	got := runPy(t, source)
	if !reflect.DeepEqual(got, []string{"True", "False", "None"}) {
		t.Errorf("unexpected output %v", got)
	}
}

func TestPythonDivisionByZero(t *testing.T) {
	tr := exec.Execute("print(1 / 0)", exec.LangPython, nil)
	if !tr.HasError {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestPythonWhileWithBreak(t *testing.T) {
	source := `n = 0
while True:
    n = n + 1
    if n == 4:
        break
print(n)`

	got := runPy(t, source)
	if !reflect.DeepEqual(got, []string{"4"}) {
		t.Errorf("expected [4], got %v", got)
	}
}

func TestPythonHiddenLoopStateFiltered(t *testing.T) {
	source := `for i in range(3):
    pass
print("done")`

	tr := exec.Execute(source, exec.LangPython, nil)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	for _, s := range tr.Steps {
		for _, v := range s.Variables {
			if len(v.Name) >= 2 && v.Name[:2] == "__" {
				t.Errorf("hidden binding %q leaked into step %d", v.Name, s.StepIndex)
			}
		}
	}
}
