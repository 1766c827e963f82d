package termpix

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasByteSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    uint32
		want    int
		wantErr bool
	}{
		{"small", 4, 4, 64, false},
		{"single pixel", 1, 1, 4, false},
		{"max dimension", 16384, 1, 16384 * 4, false},
		{"zero width", 0, 10, 0, true},
		{"zero height", 10, 0, 0, true},
		{"width over limit", 16385, 1, 0, true},
		{"height over limit", 1, 16385, 0, true},
		{"pixel count over limit", 16384, 16384, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanvasByteSize(tt.w, tt.h)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDimensions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCanvasZeroInitialized(t *testing.T) {
	c, err := NewCanvas(3, 3)
	require.NoError(t, err)

	for y := uint32(0); y < 3; y++ {
		for x := uint32(0); x < 3; x++ {
			r, g, b, a, ok := c.At(x, y)
			require.True(t, ok)
			assert.Zero(t, r)
			assert.Zero(t, g)
			assert.Zero(t, b)
			assert.Zero(t, a, "fresh canvas must be transparent")
		}
	}
}

func TestCanvasAtSetBounds(t *testing.T) {
	c, err := NewCanvas(2, 2)
	require.NoError(t, err)

	assert.True(t, c.Set(1, 1, 10, 20, 30, 255))
	r, g, b, a, ok := c.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, [4]uint8{10, 20, 30, 255}, [4]uint8{r, g, b, a})

	// Out of bounds is reported, never a panic.
	assert.False(t, c.Set(2, 0, 1, 1, 1, 1))
	assert.False(t, c.Set(0, 2, 1, 1, 1, 1))
	_, _, _, _, ok = c.At(2, 0)
	assert.False(t, ok)
	_, _, _, _, ok = c.At(0, 2)
	assert.False(t, ok)
}

func TestCanvasCloneIsIndependent(t *testing.T) {
	c, err := NewCanvas(2, 2)
	require.NoError(t, err)
	c.Set(0, 0, 255, 0, 0, 255)

	dup := c.Clone()
	c.Set(0, 0, 0, 255, 0, 255)

	r, g, _, _, ok := dup.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(255), r, "clone must not see later writes")
	assert.Equal(t, uint8(0), g)
}

func TestCanvasClear(t *testing.T) {
	c, err := NewCanvas(2, 2)
	require.NoError(t, err)
	c.Set(1, 0, 9, 9, 9, 9)

	c.Clear()

	_, _, _, a, ok := c.At(1, 0)
	require.True(t, ok)
	assert.Zero(t, a)
}

func TestCanvasFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{G: 128, A: 64})

	c, err := CanvasFromImage(img)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.Width)
	assert.Equal(t, uint32(2), c.Height)

	r, _, _, a, ok := c.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), a)

	_, g, _, a, ok := c.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, uint8(128), g, "straight alpha must survive the conversion")
	assert.Equal(t, uint8(64), a)
}

func TestCanvasFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	img.SetNRGBA(5, 5, color.NRGBA{B: 200, A: 255})

	c, err := CanvasFromImage(img)
	require.NoError(t, err)

	_, _, b, _, ok := c.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(200), b)
}

func TestCanvasImageSharesPixels(t *testing.T) {
	c, err := NewCanvas(2, 2)
	require.NoError(t, err)

	img := c.Image()
	img.SetNRGBA(0, 1, color.NRGBA{R: 42, A: 255})

	r, _, _, _, ok := c.At(0, 1)
	require.True(t, ok)
	assert.Equal(t, uint8(42), r)
}
