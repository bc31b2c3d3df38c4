package ctypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Printf composes the output of a C printf call. The format string is walked
// directive by directive; each unescaped %-directive consumes one argument
// and applies width / precision / zero-pad / left-align rules for its
// specifier (d, i, u, f, e, c, s, x, X, o, p).
func Printf(format string, args []any) (string, error) {
	var sb strings.Builder
	argi := 0

	next := func() (any, error) {
		if argi >= len(args) {
			return nil, fmt.Errorf("printf: missing argument for directive %d", argi+1)
		}
		v := args[argi]
		argi++
		return v, nil
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			sb.WriteByte('%')
			break
		}
		if format[i] == '%' {
			sb.WriteByte('%')
			continue
		}

		leftAlign := false
		zeroPad := false
		for i < len(format) && (format[i] == '-' || format[i] == '0') {
			if format[i] == '-' {
				leftAlign = true
			} else {
				zeroPad = true
			}
			i++
		}
		width := 0
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		prec := -1
		if i < len(format) && format[i] == '.' {
			i++
			prec = 0
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				prec = prec*10 + int(format[i]-'0')
				i++
			}
		}
		if i >= len(format) {
			return "", fmt.Errorf("printf: truncated directive")
		}
		spec := format[i]

		arg, err := next()
		if err != nil {
			return "", err
		}
		piece, err := formatDirective(spec, arg, width, prec, leftAlign, zeroPad)
		if err != nil {
			return "", err
		}
		sb.WriteString(piece)
	}
	return sb.String(), nil
}

func formatDirective(spec byte, arg any, width, prec int, leftAlign, zeroPad bool) (string, error) {
	goSpec := func(verb string) string {
		var b strings.Builder
		b.WriteByte('%')
		if leftAlign {
			b.WriteByte('-')
		}
		if zeroPad && !leftAlign {
			b.WriteByte('0')
		}
		if width > 0 {
			b.WriteString(strconv.Itoa(width))
		}
		if prec >= 0 {
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(prec))
		}
		b.WriteString(verb)
		return b.String()
	}

	switch spec {
	case 'd', 'i':
		return fmt.Sprintf(goSpec("d"), ToInt64(arg)), nil
	case 'u':
		return fmt.Sprintf(goSpec("d"), uint32(ToInt64(arg))), nil
	case 'f':
		// Go's %f also defaults to 6 digits of precision, matching C.
		return fmt.Sprintf(goSpec("f"), ToFloat64(arg)), nil
	case 'e':
		return fmt.Sprintf(goSpec("e"), ToFloat64(arg)), nil
	case 'c':
		switch v := arg.(type) {
		case string:
			if v == "" {
				return fmt.Sprintf(goSpec("c"), 0), nil
			}
			return fmt.Sprintf(goSpec("c"), rune(v[0])), nil
		default:
			return fmt.Sprintf(goSpec("c"), rune(ToInt64(arg))), nil
		}
	case 's':
		return fmt.Sprintf(goSpec("s"), ToString(arg)), nil
	case 'x':
		return fmt.Sprintf(goSpec("x"), ToInt64(arg)), nil
	case 'X':
		return fmt.Sprintf(goSpec("X"), ToInt64(arg)), nil
	case 'o':
		return fmt.Sprintf(goSpec("o"), ToInt64(arg)), nil
	case 'p':
		return fmt.Sprintf("0x%X", ToInt64(arg)), nil
	default:
		return "", fmt.Errorf("printf: unsupported specifier %%%c", spec)
	}
}

// ToInt64 converts a runtime argument to an integer for formatting.
func ToInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	default:
		return 0
	}
}

// ToFloat64 converts a runtime argument to a float for formatting.
func ToFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f
	default:
		return 0
	}
}

// ToString converts a runtime argument to its display string.
func ToString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case nil:
		return "(null)"
	default:
		return fmt.Sprintf("%v", n)
	}
}
