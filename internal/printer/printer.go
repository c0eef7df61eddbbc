package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	// Color definitions
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a success message in green
func Success(format string, a ...any) {
	green.Printf(format, a...)
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow
func Warning(format string, a ...any) {
	yellow.Printf(format, a...)
}

// Error prints an error message in red to stderr
func Error(format string, a ...any) {
	red.Fprintf(os.Stderr, format, a...)
}

// Prompt prints the console prompt with emphasis
func Prompt(format string, a ...any) {
	cyan.Printf(format, a...)
}
