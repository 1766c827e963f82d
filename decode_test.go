package termpix

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"gif87", []byte("GIF87a rest"), "gif"},
		{"gif89", []byte("GIF89a rest"), "gif"},
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), "png"},
		{"jpeg", []byte("\xff\xd8\xff\xe0rest"), "jpeg"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"bmp", []byte("BMxxxx"), "bmp"},
		{"tiff little endian", []byte("II*\x00xxxx"), "tiff"},
		{"tiff big endian", []byte("MM\x00*xxxx"), "tiff"},
		{"unknown", []byte("nonsense"), ""},
		{"short", []byte("GI"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffFormat(tt.data))
		})
	}
}

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeStatic(t *testing.T) {
	data := encodePNG(t, 3, 2, color.NRGBA{R: 255, A: 255})

	c, format, err := DecodeStatic(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, uint32(3), c.Width)
	assert.Equal(t, uint32(2), c.Height)

	r, _, _, a, ok := c.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), a)
}

func TestDecodeStaticGarbage(t *testing.T) {
	_, _, err := DecodeStatic([]byte("not an image at all"))
	assert.Error(t, err)
}

// encodeTestGIF builds a 4x4 animation: a red full frame, then a 2x2 green
// patch at (1,1) with background disposal.
func encodeTestGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	}

	frame0 := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	// index 0 (red) everywhere is the zero value

	frame1 := image.NewPaletted(image.Rect(1, 1, 3, 3), pal)
	for i := range frame1.Pix {
		frame1.Pix[i] = 1
	}

	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{frame0, frame1},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground},
		Config: image.Config{
			ColorModel: pal,
			Width:      4,
			Height:     4,
		},
	})
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeGIFAnimation(t *testing.T) {
	anim, err := DecodeGIFAnimation(encodeTestGIF(t))
	require.NoError(t, err)
	require.Len(t, anim.Frames, 2)
	assert.False(t, anim.Truncated)

	// Frame 0: solid red at full canvas size.
	f0 := anim.Frames[0]
	assert.Equal(t, uint32(4), f0.Width)
	assert.Equal(t, uint32(4), f0.Height)
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, pixelAt(t, f0, 0, 0))

	// Frame 1: green patch composited over the red base.
	f1 := anim.Frames[1]
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, pixelAt(t, f1, 0, 0))
	assert.Equal(t, [4]uint8{0, 255, 0, 255}, pixelAt(t, f1, 1, 1))
	assert.Equal(t, [4]uint8{0, 255, 0, 255}, pixelAt(t, f1, 2, 2))
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, pixelAt(t, f1, 3, 3))
}

func TestDecodeGIFAnimationNotAGIF(t *testing.T) {
	_, err := DecodeGIFAnimation(encodePNG(t, 2, 2, color.NRGBA{A: 255}))
	assert.Error(t, err)
}

func TestIdentify(t *testing.T) {
	t.Run("static png", func(t *testing.T) {
		info, err := Identify(encodePNG(t, 5, 7, color.NRGBA{A: 255}))
		require.NoError(t, err)
		assert.Equal(t, "png", info.Format)
		assert.Equal(t, 5, info.Width)
		assert.Equal(t, 7, info.Height)
		assert.Equal(t, 1, info.Frames)
		assert.False(t, info.Animated)
		assert.Equal(t, "png 5x7", info.String())
	})

	t.Run("animated gif", func(t *testing.T) {
		info, err := Identify(encodeTestGIF(t))
		require.NoError(t, err)
		assert.Equal(t, "gif", info.Format)
		assert.Equal(t, 2, info.Frames)
		assert.True(t, info.Animated)
		assert.Equal(t, "gif 4x4 (2 frames)", info.String())
	})
}
