package termpix

import (
	"fmt"
	"image/color"
)

// MaxAnimationFrames caps how many frames an animation may carry through the
// pipeline. Longer animations are truncated, not rejected.
const MaxAnimationFrames = 200

// DisposeMethod controls how the accumulator canvas is treated after a
// frame's snapshot has been taken.
type DisposeMethod int

const (
	// DisposeNone leaves the canvas as-is for the next frame.
	DisposeNone DisposeMethod = iota
	// DisposeBackground clears the frame region to transparent black
	// before the next frame.
	DisposeBackground
	// DisposePrevious restores the canvas content that the frame region
	// held before this frame was applied.
	DisposePrevious
)

// BlendMethod controls how frame pixels combine with the canvas.
type BlendMethod int

const (
	// BlendSource overwrites canvas pixels, transparent ones included.
	BlendSource BlendMethod = iota
	// BlendOver alpha-composites frame pixels over the canvas.
	BlendOver
)

// Region is a frame's placement rectangle on the logical screen.
type Region struct {
	X, Y          uint32
	Width, Height uint32
}

// FrameUpdate describes one animation frame to composite. Exactly one of
// Pixels (straight-alpha RGBA, Width*Height*4 bytes) or Indexed (one palette
// index per pixel) must be set.
type FrameUpdate struct {
	Region Region

	Pixels []byte

	Indexed []byte
	Palette color.Palette
	// TransparentIndex marks the palette slot treated as fully
	// transparent; such pixels are skipped outright, they never clear the
	// canvas underneath. -1 disables the check.
	TransparentIndex int

	Dispose DisposeMethod
	Blend   BlendMethod
}

// Compositor reconstructs full frames from partial animation updates. It
// owns an accumulator canvas sized to the logical screen and, once a frame
// asks for DisposePrevious, a backup canvas of the same size.
type Compositor struct {
	canvas *Canvas
	backup *Canvas
}

// NewCompositor creates a compositor with a transparent accumulator canvas.
func NewCompositor(width, height uint32) (*Compositor, error) {
	c, err := NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	return &Compositor{canvas: c}, nil
}

// Canvas exposes the accumulator for inspection. Callers must not mutate it
// between frames.
func (fc *Compositor) Canvas() *Canvas {
	return fc.canvas
}

// CompositeFrame applies one frame and returns a deep copy of the resulting
// full canvas. The accumulator is then disposed per the frame's method, so
// the returned snapshot stays valid across later frames.
func (fc *Compositor) CompositeFrame(f *FrameUpdate) (*Canvas, error) {
	if err := fc.checkRegion(f.Region); err != nil {
		return nil, err
	}

	if f.Dispose == DisposePrevious {
		if fc.backup == nil {
			b, err := NewCanvas(fc.canvas.Width, fc.canvas.Height)
			if err != nil {
				return nil, err
			}
			fc.backup = b
		}
		copy(fc.backup.Pix, fc.canvas.Pix)
	}

	switch {
	case f.Indexed != nil:
		if err := fc.applyIndexed(f); err != nil {
			return nil, err
		}
	case f.Pixels != nil:
		if err := fc.applyRGBA(f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("frame has no pixel data")
	}

	out := fc.canvas.Clone()

	switch f.Dispose {
	case DisposeBackground:
		fc.clearRegion(f.Region)
	case DisposePrevious:
		copy(fc.canvas.Pix, fc.backup.Pix)
	}

	return out, nil
}

func (fc *Compositor) checkRegion(r Region) error {
	if r.Width == 0 || r.Height == 0 {
		return fmt.Errorf("%w: empty region", ErrRegionOutOfBounds)
	}
	right := uint64(r.X) + uint64(r.Width)
	bottom := uint64(r.Y) + uint64(r.Height)
	if right > uint64(fc.canvas.Width) || bottom > uint64(fc.canvas.Height) {
		return fmt.Errorf("%w: %dx%d+%d+%d on %dx%d canvas",
			ErrRegionOutOfBounds, r.Width, r.Height, r.X, r.Y,
			fc.canvas.Width, fc.canvas.Height)
	}
	return nil
}

func (fc *Compositor) applyRGBA(f *FrameUpdate) error {
	r := f.Region
	need := int(r.Width) * int(r.Height) * bytesPerPixel
	if len(f.Pixels) < need {
		return fmt.Errorf("frame pixel buffer has %d bytes, need %d", len(f.Pixels), need)
	}

	stride := int(fc.canvas.Width) * bytesPerPixel
	for row := 0; row < int(r.Height); row++ {
		src := f.Pixels[row*int(r.Width)*bytesPerPixel:]
		dst := fc.canvas.Pix[(int(r.Y)+row)*stride+int(r.X)*bytesPerPixel:]
		if f.Blend == BlendSource {
			copy(dst[:int(r.Width)*bytesPerPixel], src[:int(r.Width)*bytesPerPixel])
			continue
		}
		for col := 0; col < int(r.Width); col++ {
			si := col * bytesPerPixel
			di := col * bytesPerPixel
			blendOverPixel(dst[di:di+4:di+4], src[si], src[si+1], src[si+2], src[si+3])
		}
	}
	return nil
}

func (fc *Compositor) applyIndexed(f *FrameUpdate) error {
	r := f.Region
	need := int(r.Width) * int(r.Height)
	if len(f.Indexed) < need {
		return fmt.Errorf("frame index buffer has %d entries, need %d", len(f.Indexed), need)
	}

	stride := int(fc.canvas.Width) * bytesPerPixel
	for row := 0; row < int(r.Height); row++ {
		for col := 0; col < int(r.Width); col++ {
			idx := int(f.Indexed[row*int(r.Width)+col])
			if f.TransparentIndex >= 0 && idx == f.TransparentIndex {
				continue
			}
			if idx >= len(f.Palette) {
				return fmt.Errorf("palette index %d out of range (%d colors)", idx, len(f.Palette))
			}
			cr, cg, cb, ca := paletteNRGBA(f.Palette[idx])
			di := (int(r.Y)+row)*stride + (int(r.X)+col)*bytesPerPixel
			dst := fc.canvas.Pix[di : di+4 : di+4]
			if f.Blend == BlendSource {
				dst[0], dst[1], dst[2], dst[3] = cr, cg, cb, ca
			} else {
				blendOverPixel(dst, cr, cg, cb, ca)
			}
		}
	}
	return nil
}

// blendOverPixel composites a straight-alpha source pixel over dst in place.
func blendOverPixel(dst []byte, sr, sg, sb, sa uint8) {
	if sa == 255 {
		dst[0], dst[1], dst[2], dst[3] = sr, sg, sb, sa
		return
	}
	if sa == 0 {
		return
	}
	da := uint32(dst[3])
	srcA := uint32(sa)
	dstContrib := da * (255 - srcA) / 255
	outA := srcA + dstContrib
	if outA == 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	dst[0] = uint8((uint32(sr)*srcA + uint32(dst[0])*dstContrib) / outA)
	dst[1] = uint8((uint32(sg)*srcA + uint32(dst[1])*dstContrib) / outA)
	dst[2] = uint8((uint32(sb)*srcA + uint32(dst[2])*dstContrib) / outA)
	dst[3] = uint8(outA)
}

func (fc *Compositor) clearRegion(r Region) {
	stride := int(fc.canvas.Width) * bytesPerPixel
	rowBytes := int(r.Width) * bytesPerPixel
	for row := 0; row < int(r.Height); row++ {
		off := (int(r.Y)+row)*stride + int(r.X)*bytesPerPixel
		clear(fc.canvas.Pix[off : off+rowBytes])
	}
}

// paletteNRGBA converts a palette entry to straight-alpha channels.
func paletteNRGBA(c color.Color) (r, g, b, a uint8) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B, n.A
}

// ClampFrameCount limits an animation's frame count to MaxAnimationFrames
// and reports whether truncation happened.
func ClampFrameCount(n int) (int, bool) {
	if n > MaxAnimationFrames {
		return MaxAnimationFrames, true
	}
	return n, false
}
