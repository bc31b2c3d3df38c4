// Package color provides the ANSI helpers used by the trace listing.
// Color is disabled automatically under NO_COLOR or a dumb terminal.
package color

import (
	"fmt"
	"os"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"

	BrightRed = "\033[91m"
)

var colorEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		colorEnabled = false
	}
}

func isTerminal() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

func Colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return color + text + Reset
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func Error(message string) string {
	if !colorEnabled {
		return "Error: " + message
	}
	return BrightRedText("Error: ") + message
}

func Success(message string) string {
	if !colorEnabled {
		return message
	}
	return GreenText(message)
}

// Position renders a line:col pair; col 0 prints the line alone.
func Position(line, col int) string {
	pos := fmt.Sprintf("%d:%d", line, col)
	if col == 0 {
		pos = fmt.Sprintf("L%d", line)
	}
	if !colorEnabled {
		return pos
	}
	return CyanText(pos)
}

// Code dims a source snippet.
func Code(code string) string {
	if !colorEnabled {
		return code
	}
	return GrayText(code)
}
