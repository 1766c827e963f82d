package termpix

import (
	"os"
	"os/exec"
	"strings"
	"sync"
)

var (
	tmuxPassthroughEnabled bool
	tmuxPassthroughOnce    sync.Once
)

// InTmux checks if we are running inside tmux (or screen, which uses the
// same passthrough framing).
func InTmux() bool {
	return os.Getenv("TMUX") != "" ||
		os.Getenv("TERM_PROGRAM") == "tmux" ||
		os.Getenv("TERM_PROGRAM") == "screen"
}

// EnableTmuxPassthrough asks tmux to pass graphics escapes through to the
// outer terminal. Without allow-passthrough the sequences are swallowed.
func EnableTmuxPassthrough() bool {
	tmuxPassthroughOnce.Do(func() {
		if !InTmux() {
			return
		}
		// -p scopes the option to the current pane.
		cmd := exec.Command("tmux", "set", "-p", "allow-passthrough", "on")
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Run(); err == nil {
			tmuxPassthroughEnabled = true
		}
	})
	return tmuxPassthroughEnabled
}

// WrapTmuxPassthrough wraps an escape sequence for tmux passthrough when
// needed. Every ESC inside the payload must be doubled.
func WrapTmuxPassthrough(output string) string {
	if !InTmux() || !strings.HasPrefix(output, "\x1b") {
		return output
	}
	return "\x1bPtmux;\x1b" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
}
