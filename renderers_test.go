package termpix

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRenderer(t *testing.T) {
	tests := []struct {
		protocol Protocol
	}{
		{Kitty},
		{ITerm2},
		{Sixel},
		{Halfblocks},
	}

	for _, tt := range tests {
		t.Run(tt.protocol.String(), func(t *testing.T) {
			r, err := GetRenderer(tt.protocol)
			require.NoError(t, err)
			assert.Equal(t, tt.protocol, r.Protocol())
		})
	}

	_, err := GetRenderer(Unsupported)
	assert.Error(t, err)
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestHalfblocksRendererRender(t *testing.T) {
	r := &HalfblocksRenderer{}
	img := solidImage(4, 4, color.NRGBA{R: 255, A: 255})

	out, err := r.Render(img, RenderOptions{ScaleMode: ScaleNone})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "\x1b[48;2;255;0;0m")
	assert.Contains(t, out, "\x1b[38;2;255;0;0m▄")
	assert.Equal(t, 2, r.lastLines)
}

func TestHalfblocksRendererScalesToCells(t *testing.T) {
	r := &HalfblocksRenderer{}
	img := solidImage(100, 100, color.NRGBA{B: 255, A: 255})

	out, err := r.Render(img, RenderOptions{
		Width:         10,
		Height:        10,
		ScaleMode:     ScaleFit,
		Interpolation: InterpNearest,
	})
	require.NoError(t, err)

	// 10x10 cells is a 10x20 pixel budget; a square image lands at
	// 10x10 pixels, which is 5 terminal lines.
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestHalfblocksRendererExactResize(t *testing.T) {
	r := &HalfblocksRenderer{}
	img := solidImage(100, 50, color.NRGBA{G: 255, A: 255})

	out, err := r.Render(img, RenderOptions{
		Width:         8,
		Height:        4,
		ScaleMode:     ScaleExact,
		Interpolation: InterpNearest,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "\n"), "exact mode ignores aspect ratio")
}

func TestTargetCellsExplicit(t *testing.T) {
	cols, rows := targetCells(RenderOptions{Width: 42, Height: 13})
	assert.Equal(t, 42, cols)
	assert.Equal(t, 13, rows)
}

func TestFontSizeFallback(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("TERM_PROGRAM", "")
	w, h := fontSizeFallback()
	assert.Equal(t, 7, w)
	assert.Equal(t, 14, h)

	t.Setenv("TERM_PROGRAM", "iTerm.app")
	w, h = fontSizeFallback()
	assert.Equal(t, 8, w)
	assert.Equal(t, 16, h)
}
