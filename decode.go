package termpix

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SniffFormat identifies an image container from its magic bytes. Returns
// "" when the signature is unknown; image.Decode may still handle it.
func SniffFormat(data []byte) string {
	switch {
	case len(data) >= 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "gif"
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "jpeg"
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp"
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return "tiff"
	default:
		return ""
	}
}

// DecodeStatic decodes a single image into a canvas.
func DecodeStatic(data []byte) (*Canvas, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	c, err := CanvasFromImage(img)
	if err != nil {
		return nil, "", err
	}
	return c, format, nil
}

// Animation is a decoded, fully composited frame sequence.
type Animation struct {
	Frames []*Canvas
	// Truncated reports that the source had more than MaxAnimationFrames
	// frames and the tail was dropped.
	Truncated bool
}

// DecodeGIFAnimation decodes an animated GIF, running every frame through
// the compositor so partial-region frames, disposal methods and transparency
// come out as full independent canvases.
func DecodeGIFAnimation(data []byte) (*Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode GIF: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	fc, err := NewCompositor(uint32(width), uint32(height))
	if err != nil {
		return nil, err
	}

	count, truncated := ClampFrameCount(len(g.Image))
	anim := &Animation{
		Frames:    make([]*Canvas, 0, count),
		Truncated: truncated,
	}

	for i := 0; i < count; i++ {
		update, err := gifFrameUpdate(g, i)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		canvas, err := fc.CompositeFrame(update)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		anim.Frames = append(anim.Frames, canvas)
	}
	return anim, nil
}

// gifFrameUpdate translates one decoded GIF frame into a compositor update.
func gifFrameUpdate(g *gif.GIF, i int) (*FrameUpdate, error) {
	frame := g.Image[i]
	b := frame.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrRegionOutOfBounds
	}

	indexed := frame.Pix
	if frame.Stride != b.Dx() {
		indexed = make([]byte, b.Dx()*b.Dy())
		for y := 0; y < b.Dy(); y++ {
			copy(indexed[y*b.Dx():(y+1)*b.Dx()], frame.Pix[y*frame.Stride:y*frame.Stride+b.Dx()])
		}
	}

	return &FrameUpdate{
		Region: Region{
			X:      uint32(b.Min.X),
			Y:      uint32(b.Min.Y),
			Width:  uint32(b.Dx()),
			Height: uint32(b.Dy()),
		},
		Indexed:          indexed,
		Palette:          frame.Palette,
		TransparentIndex: gifTransparentIndex(frame),
		Dispose:          gifDispose(g, i),
		Blend:            BlendSource,
	}, nil
}

// gifTransparentIndex finds the palette slot the decoder marked fully
// transparent, or -1.
func gifTransparentIndex(frame *image.Paletted) int {
	for idx, c := range frame.Palette {
		if _, _, _, a := c.RGBA(); a == 0 {
			return idx
		}
	}
	return -1
}

func gifDispose(g *gif.GIF, i int) DisposeMethod {
	if i >= len(g.Disposal) {
		return DisposeNone
	}
	switch g.Disposal[i] {
	case gif.DisposalBackground:
		return DisposeBackground
	case gif.DisposalPrevious:
		return DisposePrevious
	default:
		return DisposeNone
	}
}

// ImageInfo is the metadata surface behind the CLI's --info mode.
type ImageInfo struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Frames   int    `json:"frames"`
	Animated bool   `json:"animated"`
}

// Identify reports format, dimensions and frame count without decoding
// pixel data beyond what the container headers require.
func Identify(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to identify image: %w", err)
	}
	info := &ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Frames: 1,
	}
	if format == "gif" {
		if g, err := gif.DecodeAll(bytes.NewReader(data)); err == nil {
			info.Frames = len(g.Image)
			info.Animated = len(g.Image) > 1
		}
	}
	return info, nil
}

// String formats metadata the way the CLI prints it in plain mode.
func (i *ImageInfo) String() string {
	if i.Animated {
		return fmt.Sprintf("%s %dx%d (%d frames)", i.Format, i.Width, i.Height, i.Frames)
	}
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}
