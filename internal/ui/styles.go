package ui

import "fmt"

// ANSI256 color codes used by the CLI output.
const (
	colorOK    = 71  // green
	colorErr   = 167 // red
	colorMuted = 245 // medium gray
)

var noColor bool

// OK returns s colored green for healthy or successful statuses.
func OK(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorOK, s)
}

// Err returns s colored red for failures.
func Err(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorErr, s)
}

// Muted returns s in a dim gray used for secondary detail.
func Muted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
