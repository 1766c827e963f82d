package csi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSizeResponse(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		marker     string
		wantWidth  int
		wantHeight int
		wantOK     bool
	}{
		{"cell size report", "\x1b[6;16;8t", "[6;", 8, 16, true},
		{"text area report", "\x1b[4;768;1024t", "[4;", 1024, 768, true},
		{"leading noise", "xx\x1b[6;20;10t", "[6;", 10, 20, true},
		{"wrong marker", "\x1b[4;768;1024t", "[6;", 0, 0, false},
		{"truncated", "\x1b[6;16", "[6;", 0, 0, false},
		{"zero dimensions", "\x1b[6;0;0t", "[6;", 0, 0, false},
		{"empty", "", "[6;", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := parseSizeResponse(tt.response, tt.marker)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantWidth, w)
				assert.Equal(t, tt.wantHeight, h)
			}
		})
	}
}

func TestWrapTmuxPassthrough(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	t.Setenv("TERM_PROGRAM", "")
	assert.Equal(t, "\x1bPtmux;\x1b\x1b\x1b[16t\x1b\\", wrapTmuxPassthrough("\x1b[16t"))

	t.Setenv("TMUX", "")
	assert.Equal(t, "\x1b[16t", wrapTmuxPassthrough("\x1b[16t"))
}
