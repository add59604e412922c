// Package output provides the CLI's colored terminal output helpers.
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// SeparatorWidth is the width of separator lines.
const SeparatorWidth = 60

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
)

// SetNoColor disables colored output globally.
func SetNoColor(noColor bool) {
	color.NoColor = noColor
}

// Separator returns a separator line of the default width.
func Separator() string {
	return strings.Repeat("─", SeparatorWidth)
}

// Bold prints a bold line.
func Bold(format string, args ...interface{}) {
	bold.Printf(format+"\n", args...)
}

// Success prints a green success line.
func Success(format string, args ...interface{}) {
	green.Printf("✓ "+format+"\n", args...)
}

// Warn prints a yellow warning line.
func Warn(format string, args ...interface{}) {
	yellow.Printf("! "+format+"\n", args...)
}

// Error prints a red error line.
func Error(format string, args ...interface{}) {
	red.Printf("✗ "+format+"\n", args...)
}

// Info prints a cyan informational line.
func Info(format string, args ...interface{}) {
	cyan.Printf(format+"\n", args...)
}

// Field prints an aligned label/value pair.
func Field(label, format string, args ...interface{}) {
	fmt.Printf("%-14s %s\n", label+":", fmt.Sprintf(format, args...))
}
