package ctypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Scanf walks a C scanf format string, consuming characters from input into
// typed values. Whitespace in the format skips any run of whitespace in the
// input; %c reads the next character verbatim, every other directive skips
// leading whitespace first. The parsed values and the unconsumed remainder
// of the input are returned, so consecutive calls can share one stdin
// string.
func Scanf(format, input string) (vals []any, rest string, err error) {
	in := input
	skipWS := func() {
		in = strings.TrimLeft(in, " \t\r\n")
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == ' ' || c == '\t' || c == '\n' {
			skipWS()
			continue
		}
		if c != '%' {
			// literal characters must match, leniently skipping mismatches
			if len(in) > 0 && in[0] == c {
				in = in[1:]
			}
			continue
		}
		i++
		if i >= len(format) {
			break
		}
		if format[i] == '%' {
			if len(in) > 0 && in[0] == '%' {
				in = in[1:]
			}
			continue
		}

		width := 0
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) {
			break
		}

		switch format[i] {
		case 'd', 'i', 'u':
			skipWS()
			tok := takeWhile(in, width, func(b byte, first bool) bool {
				return b >= '0' && b <= '9' || (first && (b == '-' || b == '+'))
			})
			if tok == "" {
				return vals, in, fmt.Errorf("scanf: expected integer")
			}
			n, perr := strconv.ParseInt(tok, 10, 64)
			if perr != nil {
				return vals, in, fmt.Errorf("scanf: bad integer %q", tok)
			}
			vals = append(vals, ClampInt(float64(n)))
			in = in[len(tok):]
		case 'f', 'e', 'g':
			skipWS()
			tok := takeWhile(in, width, func(b byte, first bool) bool {
				return b >= '0' && b <= '9' || b == '.' || b == 'e' || b == 'E' ||
					b == '-' || b == '+'
			})
			if tok == "" {
				return vals, in, fmt.Errorf("scanf: expected number")
			}
			f, perr := strconv.ParseFloat(tok, 64)
			if perr != nil {
				return vals, in, fmt.Errorf("scanf: bad number %q", tok)
			}
			vals = append(vals, f)
			in = in[len(tok):]
		case 'c':
			if len(in) == 0 {
				return vals, in, fmt.Errorf("scanf: input exhausted")
			}
			vals = append(vals, int64(in[0]))
			in = in[1:]
		case 's':
			skipWS()
			tok := takeWhile(in, width, func(b byte, first bool) bool {
				return b != ' ' && b != '\t' && b != '\r' && b != '\n'
			})
			if tok == "" {
				return vals, in, fmt.Errorf("scanf: input exhausted")
			}
			vals = append(vals, tok)
			in = in[len(tok):]
		case 'x', 'X':
			skipWS()
			tok := takeWhile(in, width, func(b byte, first bool) bool {
				return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
			})
			if tok == "" {
				return vals, in, fmt.Errorf("scanf: expected hex integer")
			}
			n, perr := strconv.ParseInt(tok, 16, 64)
			if perr != nil {
				return vals, in, fmt.Errorf("scanf: bad hex %q", tok)
			}
			vals = append(vals, n)
			in = in[len(tok):]
		default:
			return vals, in, fmt.Errorf("scanf: unsupported specifier %%%c", format[i])
		}
	}
	return vals, in, nil
}

func takeWhile(s string, limit int, keep func(b byte, first bool) bool) string {
	n := 0
	for n < len(s) && keep(s[n], n == 0) {
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return s[:n]
}
