// Package terminal wraps the few terminal operations the CLI needs: hidden
// password entry, clearing echoed prompts and hiding the cursor while a live
// view is on screen.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// Width returns the terminal width, or 80 when stdout is not a terminal.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// LinesFor returns how many rows text of the given length occupies at width.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	n := int(math.Ceil(float64(textLength) / float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

// ClearPreviousLines erases the rows used by textLength characters of
// already-submitted input, plus the empty row left by Enter.
func ClearPreviousLines(textLength int) {
	cursor.ClearLinesUp(LinesFor(textLength, Width()))
	cursor.StartOfLine()
	cursor.ClearLine()
}

// ReadSecret prompts for a value without echo. When stdin is not a terminal
// the first line of input is used, so secrets can be piped in.
func ReadSecret(prompt string) (string, error) {
	if !IsInteractive() {
		return readLine(os.Stdin)
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	ClearPreviousLines(len(prompt))
	return strings.TrimSpace(string(b)), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// HideCursor hides the cursor and returns a function restoring it.
func HideCursor() func() {
	cursor.Hide()
	return cursor.Show
}
