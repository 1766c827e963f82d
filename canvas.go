package termpix

import (
	"image"
	"image/draw"
)

// Canvas size limits. A canvas larger than this is almost certainly a
// corrupt or hostile input rather than a real picture.
const (
	MaxCanvasDim    = 16384
	MaxCanvasPixels = 100_000_000

	bytesPerPixel = 4
)

// Canvas is a straight-alpha RGBA8888 pixel buffer, row-major with a stride
// of Width*4 bytes. The zero-filled buffer is fully transparent black.
type Canvas struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// CanvasByteSize returns the buffer size in bytes needed for a w x h canvas.
// It rejects zero or over-limit dimensions and any size whose byte count
// would overflow.
func CanvasByteSize(w, h uint32) (int, error) {
	if w == 0 || h == 0 || w > MaxCanvasDim || h > MaxCanvasDim {
		return 0, ErrInvalidDimensions
	}
	pixels := uint64(w) * uint64(h)
	if pixels > MaxCanvasPixels {
		return 0, ErrInvalidDimensions
	}
	byteCount := pixels * bytesPerPixel
	if byteCount/bytesPerPixel != pixels {
		return 0, ErrInvalidDimensions
	}
	return int(byteCount), nil
}

// NewCanvas allocates a zeroed (transparent black) canvas.
func NewCanvas(w, h uint32) (*Canvas, error) {
	size, err := CanvasByteSize(w, h)
	if err != nil {
		return nil, err
	}
	return &Canvas{
		Width:  w,
		Height: h,
		Pix:    make([]byte, size),
	}, nil
}

// At returns the pixel at (x, y). ok is false when the coordinate is outside
// the canvas; it never panics.
func (c *Canvas) At(x, y uint32) (r, g, b, a uint8, ok bool) {
	if x >= c.Width || y >= c.Height {
		return 0, 0, 0, 0, false
	}
	i := (int(y)*int(c.Width) + int(x)) * bytesPerPixel
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2], c.Pix[i+3], true
}

// Set writes the pixel at (x, y) and reports whether the coordinate was
// inside the canvas.
func (c *Canvas) Set(x, y uint32, r, g, b, a uint8) bool {
	if x >= c.Width || y >= c.Height {
		return false
	}
	i := (int(y)*int(c.Width) + int(x)) * bytesPerPixel
	c.Pix[i] = r
	c.Pix[i+1] = g
	c.Pix[i+2] = b
	c.Pix[i+3] = a
	return true
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	pix := make([]byte, len(c.Pix))
	copy(pix, c.Pix)
	return &Canvas{Width: c.Width, Height: c.Height, Pix: pix}
}

// Clear resets every pixel to transparent black.
func (c *Canvas) Clear() {
	clear(c.Pix)
}

// Image wraps the canvas buffer as an *image.NRGBA without copying. The
// returned image shares pixel memory with the canvas.
func (c *Canvas) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    c.Pix,
		Stride: int(c.Width) * bytesPerPixel,
		Rect:   image.Rect(0, 0, int(c.Width), int(c.Height)),
	}
}

// CanvasFromImage converts any image.Image into a canvas, un-premultiplying
// as needed. Grayscale, paletted and RGB sources all land as RGBA8888.
func CanvasFromImage(img image.Image) (*Canvas, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	c, err := NewCanvas(uint32(w), uint32(h))
	if err != nil {
		return nil, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == w*bytesPerPixel && bounds.Min == (image.Point{}) {
		copy(c.Pix, nrgba.Pix[:len(c.Pix)])
		return c, nil
	}

	draw.Draw(c.Image(), image.Rect(0, 0, w, h), img, bounds.Min, draw.Src)
	return c, nil
}
