// Package display provides terminal colour and table helpers on top of
// fatih/color.
//
// fatih/color already honours NO_COLOR (https://no-color.org/) and turns
// itself off when stdout is not a terminal. FORCE_COLOR turns it back on.
package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color.NoColor = true
		return
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		color.NoColor = false
	}
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	color.NoColor = !b
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return !color.NoColor
}

func paint(text string, attrs ...color.Attribute) string {
	return color.New(attrs...).Sprint(text)
}

// Bold returns text rendered in bold.
func Bold(text string) string { return paint(text, color.Bold) }

// Dim returns text rendered in dim/faint.
func Dim(text string) string { return paint(text, color.Faint) }

// Green returns text rendered in green.
func Green(text string) string { return paint(text, color.FgGreen) }

// Yellow returns text rendered in yellow.
func Yellow(text string) string { return paint(text, color.FgYellow) }

// Red returns text rendered in red.
func Red(text string) string { return paint(text, color.FgRed) }

// Cyan returns text rendered in cyan.
func Cyan(text string) string { return paint(text, color.FgCyan) }

// Gray returns text rendered in gray (bright black).
func Gray(text string) string { return paint(text, color.FgHiBlack) }

// Accent returns text rendered in the accent color (cyan + bold).
// Used for the "next prayer" highlight.
func Accent(text string) string { return paint(text, color.Bold, color.FgCyan) }

// Boldf formats and bolds a string.
func Boldf(format string, a ...interface{}) string {
	return Bold(fmt.Sprintf(format, a...))
}
