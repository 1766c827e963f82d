package termpix

import (
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// DetectProtocol picks the best protocol for the current terminal. Graphics
// protocols win over Sixel, and half-blocks are the universal fallback, so
// this never returns Unsupported in practice.
func DetectProtocol() Protocol {
	switch {
	case KittySupported():
		return Kitty
	case ITerm2Supported():
		return ITerm2
	case SixelSupported():
		return Sixel
	default:
		return Halfblocks
	}
}

// KittySupported checks if the current terminal speaks the Kitty graphics
// protocol.
func KittySupported() bool {
	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty"):
		return true
	case os.Getenv("TERM_PROGRAM") == "ghostty":
		return true
	case os.Getenv("TERM_PROGRAM") == "WezTerm":
		return true
	case strings.Contains(os.Getenv("TERMINFO"), "Ghostty"):
		// Ghostty under tmux only leaks through TERMINFO.
		return true
	}

	// Kitty query: a graphics terminal answers with our image id.
	resp, ok := queryTerminal("\x1b_Gi=42,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\")
	return ok && strings.Contains(resp, "i=42")
}

// ITerm2Supported checks if the iTerm2 inline images protocol is available.
func ITerm2Supported() bool {
	switch {
	case os.Getenv("TERM_PROGRAM") == "iTerm.app":
		return true
	case os.Getenv("ITERM_SESSION_ID") != "":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("LC_TERMINAL")), "iterm"):
		return true
	case os.Getenv("TERM_PROGRAM") == "WezTerm":
		return true
	case os.Getenv("TERM_PROGRAM") == "mintty":
		return true
	case os.Getenv("TERM_PROGRAM") == "WarpTerminal":
		return true
	}

	resp, ok := queryTerminal("\x1b]1337;ReportCellSize\x07")
	return ok && strings.Contains(resp, "1337")
}

// SixelSupported checks if the Sixel raster protocol is available.
func SixelSupported() bool {
	termEnv := os.Getenv("TERM")
	switch {
	case strings.Contains(termEnv, "sixel"):
		return true
	case strings.Contains(termEnv, "mlterm"):
		return true
	case strings.Contains(termEnv, "foot"):
		return true
	case strings.Contains(termEnv, "yaft"):
		return true
	case strings.Contains(termEnv, "xterm") && os.Getenv("XTERM_VERSION") != "":
		// xterm must be started with -ti 340.
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "mintty" {
		return true
	}

	// Primary Device Attributes: capability 4 means Sixel.
	resp, ok := queryTerminal("\x1b[c")
	return ok && (strings.Contains(resp, ";4;") || strings.Contains(resp, ";4c"))
}

// TruecolorSupported checks if the terminal renders 24-bit SGR colors,
// which the half-block renderer depends on.
func TruecolorSupported() bool {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "ghostty", "vscode":
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "truecolor") ||
		strings.Contains(os.Getenv("TERM"), "direct")
}

// queryTerminal writes an escape query to the controlling terminal and
// returns whatever arrives within the timeout. ok is false when there is no
// usable tty or nothing came back.
func queryTerminal(query string) (string, bool) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return "", false
	}
	defer tty.Close()

	if !term.IsTerminal(int(tty.Fd())) {
		return "", false
	}

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return "", false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(WrapTmuxPassthrough(query)); err != nil {
		return "", false
	}

	responseChan := make(chan string, 1)
	go func() {
		buf := make([]byte, 256)
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			responseChan <- ""
			return
		}
		responseChan <- string(buf[:n])
	}()

	select {
	case resp := <-responseChan:
		return resp, resp != ""
	case <-time.After(100 * time.Millisecond):
		return "", false
	}
}
