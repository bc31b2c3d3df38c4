package ctypes_test

import (
	"reflect"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/ctypes"
)

func TestPrintfDirectives(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"plain int", "%d", []any{int64(42)}, "42"},
		{"width pads left", "%5d", []any{int64(3)}, "    3"},
		{"zero pad", "%05d", []any{int64(3)}, "00003"},
		{"left align", "%-5d|", []any{int64(3)}, "3    |"},
		{"float default precision", "%f", []any{2.5}, "2.500000"},
		{"float precision", "%.2f", []any{3.14159}, "3.14"},
		{"unsigned of negative", "%u", []any{int64(-1)}, "4294967295"},
		{"hex", "%x", []any{int64(255)}, "ff"},
		{"upper hex", "%X", []any{int64(255)}, "FF"},
		{"octal", "%o", []any{int64(8)}, "10"},
		{"char from code", "%c", []any{int64(65)}, "A"},
		{"char from string", "%c", []any{"hi"}, "h"},
		{"string", "%s", []any{"abc"}, "abc"},
		{"escaped percent", "100%%", nil, "100%"},
		{"mixed literals", "x=%d y=%d", []any{int64(1), int64(2)}, "x=1 y=2"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ctypes.Printf(test.format, test.args)
			if err != nil {
				t.Fatalf("printf failed: %v", err)
			}
			if got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestPrintfMissingArgument(t *testing.T) {
	if _, err := ctypes.Printf("%d %d", []any{int64(1)}); err == nil {
		t.Error("expected an error for a missing argument")
	}
}

func TestScanf(t *testing.T) {
	vals, rest, err := ctypes.Scanf("%d %d", "10 20 trailing")
	if err != nil {
		t.Fatalf("scanf failed: %v", err)
	}
	if !reflect.DeepEqual(vals, []any{int64(10), int64(20)}) {
		t.Errorf("expected [10 20], got %v", vals)
	}
	if rest != " trailing" {
		t.Errorf("unexpected remainder %q", rest)
	}
}

func TestScanfMixedDirectives(t *testing.T) {
	vals, _, err := ctypes.Scanf("%s %f %c", "word 1.5 x")
	if err != nil {
		t.Fatalf("scanf failed: %v", err)
	}
	want := []any{"word", 1.5, int64('x')}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("expected %v, got %v", want, vals)
	}
}

func TestScanfExhaustedInput(t *testing.T) {
	if _, _, err := ctypes.Scanf("%d", "   "); err == nil {
		t.Error("expected an error on exhausted input")
	}
}

func TestClamps(t *testing.T) {
	if got := ctypes.ClampInt(2147483648); got != -2147483648 {
		t.Errorf("int overflow should wrap, got %d", got)
	}
	if got := ctypes.ClampInt(-2147483649); got != 2147483647 {
		t.Errorf("int underflow should wrap, got %d", got)
	}
	if got := ctypes.ClampChar(300); got != 44 {
		t.Errorf("char keeps the low byte, got %d", got)
	}
	if got := ctypes.ClampFloat(0.1); got == 0.1 {
		t.Error("float must lose double precision")
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		typ  string
		in   float64
		want any
	}{
		{"int", 5.9, int64(5)},
		{"char", 321, int64(65)},
		{"double", 0.25, 0.25},
		{"long", 1 << 40, int64(1 << 40)},
		{"int*", 4096, int64(4096)},
	}
	for _, test := range tests {
		if got := ctypes.Coerce(test.typ, test.in); got != test.want {
			t.Errorf("Coerce(%s, %v) = %v, want %v", test.typ, test.in, got, test.want)
		}
	}
}

func TestSizeOf(t *testing.T) {
	tests := []struct {
		typ  string
		want int
	}{
		{"char", 1},
		{"short", 2},
		{"int", 4},
		{"float", 4},
		{"double", 8},
		{"long", 8},
		{"int*", 8},
		{"struct Node*", 8},
		{"struct Node", 0},
	}
	for _, test := range tests {
		if got := ctypes.SizeOf(test.typ); got != test.want {
			t.Errorf("SizeOf(%s) = %d, want %d", test.typ, got, test.want)
		}
	}
}

func TestStructLayout(t *testing.T) {
	def := ctypes.NewStructDef("Point", []ctypes.FieldDef{
		{Name: "x", Type: "int"},
		{Name: "y", Type: "float"},
	})

	if def.Size != 8 {
		t.Errorf("expected size 8, got %d", def.Size)
	}
	if off, ok := def.OffsetOf("y"); !ok || off != 4 {
		t.Errorf("OffsetOf(y) = %d, want 4", off)
	}
	if _, ok := def.OffsetOf("z"); ok {
		t.Error("unknown field must not resolve")
	}
}

func TestStructValWidthRules(t *testing.T) {
	def := ctypes.NewStructDef("S", []ctypes.FieldDef{
		{Name: "n", Type: "int"},
		{Name: "c", Type: "char"},
	})
	v := ctypes.NewStructVal(def)

	if got, _ := v.Get("n"); got != int64(0) {
		t.Errorf("fields start zeroed, got %v", got)
	}
	if err := v.Set("n", int64(2147483648)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := v.Get("n"); got != int64(-2147483648) {
		t.Errorf("int field must wrap, got %v", got)
	}
	if err := v.Set("c", int64(321)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := v.Get("c"); got != int64(65) {
		t.Errorf("char field keeps the low byte, got %v", got)
	}
	if err := v.Set("missing", int64(1)); err == nil {
		t.Error("expected an error for an unknown member")
	}

	clone := v.Clone()
	if err := clone.Set("n", int64(1)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := v.Get("n"); got != int64(-2147483648) {
		t.Error("clone writes must not reach the original")
	}
}
