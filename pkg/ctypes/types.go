// Package ctypes models C's value layer for the visualizer: width-accurate
// primitives, sequential struct layout and the printf/scanf directive
// grammar. Widths are enforced on every write so the recorded value always
// matches what a real C program would hold.
package ctypes

import (
	"math"
	"strings"
)

// SizeOf returns the storage size of a C type name. Pointers of any pointee
// type are 8 bytes. Unknown (struct) types return 0; callers resolve those
// against a StructDef at runtime.
func SizeOf(typ string) int {
	typ = strings.TrimSpace(typ)
	if strings.HasSuffix(typ, "*") {
		return 8
	}
	switch typ {
	case "char", "unsigned char", "signed char":
		return 1
	case "int", "unsigned int", "unsigned", "float", "signed int":
		return 4
	case "double", "long", "long int", "unsigned long", "long long":
		return 8
	case "short", "unsigned short":
		return 2
	case "void":
		return 1
	default:
		return 0
	}
}

// ClampInt truncates to the 32-bit int range, wrapping like a real int.
func ClampInt(v float64) int64 {
	return int64(int32(int64(v)))
}

// ClampLong truncates to 64-bit.
func ClampLong(v float64) int64 {
	return int64(v)
}

// ClampFloat rounds to single precision, so the visualizer shows the value a
// C float actually stores.
func ClampFloat(v float64) float64 {
	return float64(float32(v))
}

// ClampChar keeps the low byte.
func ClampChar(v int64) int64 {
	return int64(byte(v))
}

// Coerce applies the width rule of typ to a numeric value.
func Coerce(typ string, v float64) any {
	if strings.HasSuffix(strings.TrimSpace(typ), "*") {
		return int64(v)
	}
	switch typ {
	case "char", "unsigned char", "signed char":
		return ClampChar(int64(v))
	case "int", "unsigned int", "unsigned", "signed int", "short", "unsigned short":
		return ClampInt(v)
	case "long", "long int", "long long", "unsigned long":
		return ClampLong(v)
	case "float":
		return ClampFloat(v)
	case "double":
		return v
	default:
		return v
	}
}

// Default returns the zero value a declaration of typ starts with.
func Default(typ string) any {
	switch typ {
	case "float", "double":
		return float64(0)
	default:
		return int64(0)
	}
}

// IsFloatType reports whether typ stores a floating-point value.
func IsFloatType(typ string) bool {
	return typ == "float" || typ == "double"
}

// NaNToZero guards conversions of non-numeric input.
func NaNToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
