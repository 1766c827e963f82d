package termpix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInTmux(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM_PROGRAM", "")
	assert.False(t, InTmux())

	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	assert.True(t, InTmux())

	t.Setenv("TMUX", "")
	t.Setenv("TERM_PROGRAM", "screen")
	assert.True(t, InTmux())
}

func TestWrapTmuxPassthrough(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	t.Setenv("TERM_PROGRAM", "")

	wrapped := WrapTmuxPassthrough("\x1b_Ga=d\x1b\\")
	assert.Equal(t, "\x1bPtmux;\x1b\x1b\x1b_Ga=d\x1b\x1b\\\x1b\\", wrapped)

	// Non-escape payloads pass through untouched.
	assert.Equal(t, "plain text", WrapTmuxPassthrough("plain text"))
}

func TestWrapTmuxPassthroughOutsideTmux(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM_PROGRAM", "")

	seq := "\x1b_Ga=d\x1b\\"
	assert.Equal(t, seq, WrapTmuxPassthrough(seq))
}
