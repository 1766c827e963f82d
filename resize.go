package termpix

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Interpolation selects the resampling kernel used when scaling.
type Interpolation int

const (
	// InterpLanczos is the default quality setting. x/image has no
	// Lanczos kernel, Catmull-Rom is its closest match.
	InterpLanczos Interpolation = iota
	// InterpBilinear trades sharpness for speed.
	InterpBilinear
	// InterpNearest is the fastest and blockiest.
	InterpNearest
	// InterpCubic uses the Catmull-Rom cubic kernel.
	InterpCubic
)

// ParseInterpolation maps a CLI flag value to an Interpolation.
func ParseInterpolation(name string) (Interpolation, bool) {
	switch name {
	case "lanczos", "":
		return InterpLanczos, true
	case "bilinear":
		return InterpBilinear, true
	case "nearest":
		return InterpNearest, true
	case "cubic":
		return InterpCubic, true
	default:
		return InterpLanczos, false
	}
}

func (i Interpolation) String() string {
	switch i {
	case InterpBilinear:
		return "bilinear"
	case InterpNearest:
		return "nearest"
	case InterpCubic:
		return "cubic"
	default:
		return "lanczos"
	}
}

func (i Interpolation) scaler() xdraw.Scaler {
	switch i {
	case InterpBilinear:
		return xdraw.BiLinear
	case InterpNearest:
		return xdraw.NearestNeighbor
	default:
		return xdraw.CatmullRom
	}
}

// ScaleImage resamples img to width x height pixels.
func ScaleImage(img image.Image, width, height int, interp Interpolation) image.Image {
	if img == nil || width <= 0 || height <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ScaleCanvas resamples a canvas to the given pixel dimensions.
func ScaleCanvas(c *Canvas, width, height int, interp Interpolation) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if int(c.Width) == width && int(c.Height) == height {
		return c, nil
	}
	return CanvasFromImage(ScaleImage(c.Image(), width, height, interp))
}

// FitPixelSize computes target pixel dimensions that fit srcW x srcH inside
// a cols x rows character grid while preserving aspect ratio. Half-block
// cells hold one pixel column and two pixel rows, so the vertical pixel
// budget is rows*2. The result always has an even height so no pixel row is
// dropped at render time.
func FitPixelSize(srcW, srcH, cols, rows int) (w, h int) {
	if srcW <= 0 || srcH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	maxW := cols
	maxH := rows * 2

	ratioW := float64(maxW) / float64(srcW)
	ratioH := float64(maxH) / float64(srcH)
	ratio := min(ratioW, ratioH)

	w = int(float64(srcW) * ratio)
	h = int(float64(srcH) * ratio)
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	if h%2 != 0 {
		h--
	}
	return w, h
}
