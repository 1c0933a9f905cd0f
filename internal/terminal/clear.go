// Package terminal provides small terminal helpers for interactive prompts.
package terminal

import (
	"os"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// Width returns the width of stdout, or 80 when it is not a terminal.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// linesFor returns how many terminal rows textLength characters occupy at
// the given width, plus the row the cursor moved to when Enter was pressed.
func linesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	lines := (textLength + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	return lines + 1
}

// ClearPreviousLines clears a prompt and the answer typed after it, e.g. a
// DSN that should not stay visible in the scrollback.
func ClearPreviousLines(textLength int) {
	n := linesFor(textLength, Width())
	cursor.StartOfLine()
	cursor.ClearLine()
	cursor.ClearLinesUp(n - 1)
}
