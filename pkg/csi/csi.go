/*
Package csi provides CSI (Control Sequence Introducer) queries for terminal
geometry: character cell size and text area size in pixels.
*/
package csi

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// QueryTimeout is how long a query waits for the terminal to answer.
const QueryTimeout = 100 * time.Millisecond

// QueryCellSize queries the character cell size in pixels using CSI 16t.
// Falls back to deriving it from the text area size when the terminal does
// not answer 16t.
func QueryCellSize() (width, height int, ok bool) {
	// Response: CSI 6 ; height ; width t
	if w, h, ok := query("\x1b[16t", "[6;"); ok {
		return w, h, true
	}

	pw, ph, ok := QueryTextAreaSize()
	if !ok {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	width, height = pw/cols, ph/rows
	// Sanity window for plausible font sizes.
	if width < 4 || width > 50 || height < 4 || height > 50 {
		return 0, 0, false
	}
	return width, height, true
}

// QueryTextAreaSize queries the text area size in pixels using CSI 14t.
func QueryTextAreaSize() (width, height int, ok bool) {
	// Response: CSI 4 ; height ; width t
	return query("\x1b[14t", "[4;")
}

// Supported reports whether this terminal is likely to answer CSI queries.
func Supported() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "Apple_Terminal", "vscode":
		// Both ship with CSI geometry queries disabled or incomplete.
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// query sends a CSI request to the controlling terminal and parses a
// "marker height ; width t" response.
func query(request, marker string) (width, height int, ok bool) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return 0, 0, false
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(wrapTmuxPassthrough(request)); err != nil {
		return 0, 0, false
	}

	responseChan := make(chan [2]int, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := tty.Read(buf)
		if err == nil && n > 0 {
			if w, h, ok := parseSizeResponse(string(buf[:n]), marker); ok {
				responseChan <- [2]int{w, h}
				return
			}
		}
		responseChan <- [2]int{0, 0}
	}()

	select {
	case result := <-responseChan:
		return result[0], result[1], result[0] > 0 && result[1] > 0
	case <-time.After(QueryTimeout):
		return 0, 0, false
	}
}

// parseSizeResponse extracts height and width from a CSI size report.
func parseSizeResponse(response, marker string) (width, height int, ok bool) {
	idx := strings.Index(response, marker)
	if idx == -1 {
		return 0, 0, false
	}
	parts := strings.Split(response[idx:], ";")
	if len(parts) < 3 {
		return 0, 0, false
	}
	fmt.Sscanf(parts[1], "%d", &height)
	fmt.Sscanf(parts[2], "%dt", &width)
	return width, height, width > 0 && height > 0
}

func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// wrapTmuxPassthrough wraps an escape sequence for tmux passthrough; every
// ESC in the payload must be doubled.
func wrapTmuxPassthrough(output string) string {
	if !inTmux() || !strings.HasPrefix(output, "\x1b") {
		return output
	}
	return "\x1bPtmux;\x1b" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
}
