package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI output.
var (
	// Tasks: cyan
	colorTask = color.New(color.FgCyan)

	// External calendar events: magenta
	colorEvent = color.New(color.FgMagenta)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Done tasks and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Stats: green
	colorStats = color.New(color.FgGreen)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatTask(s string) string {
	return colorTask.Sprint(s)
}

func formatEvent(s string) string {
	return colorEvent.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}
