package termpix

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Fallback geometry when the terminal size cannot be queried.
const (
	DefaultTermRows = 24
	DefaultTermCols = 80
)

const (
	cursorHide = "\x1b[?25l"
	cursorShow = "\x1b[?25h"
)

// cursorUp returns the escape that moves the cursor up n lines.
func cursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\x1b[%dA", n)
}

// TerminalSize returns the terminal geometry in character cells, falling
// back to 80x24 when stdout is not a terminal or the query fails.
func TerminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return DefaultTermCols, DefaultTermRows
	}
	return cols, rows
}

// EchoState is an opaque handle for restoring terminal input settings.
// Callers pass it back to Restore without inspecting it.
type EchoState struct {
	fd    int
	state *term.State
}

// DisableEcho switches the controlling terminal to raw input so keypresses
// during animation playback are neither echoed nor line-buffered. Returns
// nil state when stdin is not a terminal; Restore on a nil state is a no-op.
func DisableEcho() (*EchoState, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to disable terminal echo: %w", err)
	}
	return &EchoState{fd: fd, state: state}, nil
}

// Restore puts the terminal back into the state captured by DisableEcho.
func (s *EchoState) Restore() error {
	if s == nil || s.state == nil {
		return nil
	}
	return term.Restore(s.fd, s.state)
}
