package exec_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/exec"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/trace"
)

func runC(t *testing.T, source string, opts ...exec.Option) *trace.Trace {
	t.Helper()
	return exec.Execute(source, exec.LangC, nil, opts...)
}

func TestCMallocAndPointers(t *testing.T) {
	source := `#include <stdio.h>
#include <stdlib.h>

int main() {
    int *p = (int*)malloc(2 * sizeof(int));
    p[0] = 10;
    p[1] = 20;
    printf("%d\n", p[0] + p[1]);
    free(p);
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"30"}) {
		t.Errorf("expected [30], got %v", tr.Output)
	}
}

func TestCUseAfterFree(t *testing.T) {
	source := `int main() {
    int *p = (int*)malloc(4);
    free(p);
    int x = *p;
    return 0;
}`

	tr := runC(t, source)
	if !tr.HasError {
		t.Fatal("expected a use-after-free fault")
	}
	if !strings.Contains(tr.ErrorMessage, "use after free") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
	if len(tr.Steps) == 0 {
		t.Error("steps recorded before the fault must be retained")
	}
}

func TestCDoubleFree(t *testing.T) {
	source := `int main() {
    int *p = (int*)malloc(4);
    free(p);
    free(p);
    return 0;
}`

	tr := runC(t, source)
	if !tr.HasError {
		t.Fatal("expected a double-free fault")
	}
	if !strings.Contains(tr.ErrorMessage, "double free") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}

func TestCFreeNullIsNoop(t *testing.T) {
	source := `int main() {
    int *p = NULL;
    free(p);
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Errorf("free(NULL) must not fault: %s", tr.ErrorMessage)
	}
}

func TestCNullDeref(t *testing.T) {
	source := `int main() {
    int *p = NULL;
    *p = 5;
    return 0;
}`

	tr := runC(t, source)
	if !tr.HasError {
		t.Fatal("expected a segmentation fault")
	}
	if !strings.Contains(tr.ErrorMessage, "segmentation fault") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}

func TestCArrayOverflow(t *testing.T) {
	source := `int main() {
    int arr[2];
    arr[5] = 1;
    return 0;
}`

	tr := runC(t, source)
	if !tr.HasError {
		t.Fatal("expected a buffer-overflow fault")
	}
	if !strings.Contains(tr.ErrorMessage, "buffer overflow") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}

func TestCStructArrowAccess(t *testing.T) {
	source := `#include <stdlib.h>

struct Point {
    int x;
    int y;
};

int main() {
    struct Point *p = (struct Point*)malloc(sizeof(struct Point));
    p->x = 3;
    p->y = 4;
    printf("%d\n", p->x * p->x + p->y * p->y);
    free(p);
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"25"}) {
		t.Errorf("expected [25], got %v", tr.Output)
	}
}

func TestCScanfReadsStdin(t *testing.T) {
	source := `int main() {
    int a;
    scanf("%d", &a);
    printf("%d\n", a * 2);
    return 0;
}`

	tr := runC(t, source, exec.WithStdin("21"))
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"42"}) {
		t.Errorf("expected [42], got %v", tr.Output)
	}
}

func TestCIntWidthWraps(t *testing.T) {
	source := `int main() {
    int big = 2147483647;
    big = big + 1;
    printf("%d\n", big);
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"-2147483648"}) {
		t.Errorf("expected wraparound to -2147483648, got %v", tr.Output)
	}
}

func TestCIntegerDivision(t *testing.T) {
	source := `int main() {
    printf("%d\n", 7 / 2);
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"3"}) {
		t.Errorf("expected [3], got %v", tr.Output)
	}
}

func TestCMemorySnapshotPresent(t *testing.T) {
	source := `int main() {
    int *p = (int*)malloc(8);
    free(p);
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	last := tr.Steps[len(tr.Steps)-1]
	if last.Memory == nil {
		t.Fatal("C steps must carry a memory snapshot")
	}
	if last.Memory.AllocCount != 1 || last.Memory.FreeCount != 1 {
		t.Errorf("expected 1 alloc and 1 free, got %d/%d",
			last.Memory.AllocCount, last.Memory.FreeCount)
	}
	foundFreed := false
	for _, b := range last.Memory.Heap {
		if b.Freed {
			foundFreed = true
		}
	}
	if !foundFreed {
		t.Error("freed block must stay visible in the snapshot")
	}
}

func TestCNoMainFunction(t *testing.T) {
	tr := runC(t, "int helper() { return 1; }")
	if !tr.HasError {
		t.Fatal("expected an error for a missing main")
	}
	if !strings.Contains(tr.ErrorMessage, "no main function") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}

func TestCFunctionCallWithTypedParams(t *testing.T) {
	source := `int add(int a, int b) {
    return a + b;
}

int main() {
    printf("%d\n", add(2, 3));
    return 0;
}`

	tr := runC(t, source)
	if tr.HasError {
		t.Fatalf("unexpected error: %s", tr.ErrorMessage)
	}
	if !reflect.DeepEqual(tr.Output, []string{"5"}) {
		t.Errorf("expected [5], got %v", tr.Output)
	}
}

func TestCDanglingStackPointer(t *testing.T) {
	source := `int *escape() {
    int local = 9;
    return &local;
}

int main() {
    int *p = escape();
    int x = *p;
    return 0;
}`

	tr := runC(t, source)
	if !tr.HasError {
		t.Fatal("expected a fault reading a dead stack slot")
	}
	if !strings.Contains(tr.ErrorMessage, "use after free") {
		t.Errorf("unexpected error message: %s", tr.ErrorMessage)
	}
}
