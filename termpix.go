package termpix

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sync/atomic"
)

// Image is a terminal image with a fluent API for configuration.
type Image struct {
	data   []byte
	source image.Image
	path   string

	width         int
	height        int
	protocol      Protocol
	scaleMode     ScaleMode
	interpolation Interpolation
	dither        bool

	renderer Renderer
}

// New creates a new Image from a decoded image.Image.
func New(img image.Image) *Image {
	if img == nil {
		return nil
	}
	return &Image{
		source:    img,
		protocol:  Auto,
		scaleMode: ScaleFit,
	}
}

// Open creates a new Image from a file path. The file is read through the
// size-capped pipeline immediately so errors surface before rendering.
func Open(path string) (*Image, error) {
	data, err := ReadImageFile(path)
	if err != nil {
		return nil, err
	}
	return &Image{
		data:      data,
		path:      path,
		protocol:  Auto,
		scaleMode: ScaleFit,
	}, nil
}

// From creates a new Image from an io.Reader, subject to the same size cap
// as file input.
func From(r io.Reader) (*Image, error) {
	if r == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	data, err := readCapped(r)
	if err != nil {
		return nil, err
	}
	return &Image{
		data:      data,
		protocol:  Auto,
		scaleMode: ScaleFit,
	}, nil
}

// FromStdin creates a new Image from piped standard input.
func FromStdin() (*Image, error) {
	data, err := ReadImageStdin()
	if err != nil {
		return nil, err
	}
	return &Image{
		data:      data,
		protocol:  Auto,
		scaleMode: ScaleFit,
	}, nil
}

// Width sets the target width in character cells.
func (i *Image) Width(w int) *Image {
	if w < 0 {
		w = 0
	}
	i.width = w
	return i
}

// Height sets the target height in character cells.
func (i *Image) Height(h int) *Image {
	if h < 0 {
		h = 0
	}
	i.height = h
	return i
}

// Protocol sets the rendering protocol to use.
func (i *Image) Protocol(p Protocol) *Image {
	i.protocol = p
	i.renderer = nil // drop cached renderer
	return i
}

// Scale sets the scaling mode.
func (i *Image) Scale(mode ScaleMode) *Image {
	i.scaleMode = mode
	return i
}

// Interpolation sets the resampling kernel used when scaling.
func (i *Image) Interpolation(interp Interpolation) *Image {
	i.interpolation = interp
	return i
}

// Dither enables color-reduction dithering (Sixel output mainly).
func (i *Image) Dither(d bool) *Image {
	i.dither = d
	return i
}

// Render generates the escape sequence string for the image.
func (i *Image) Render() (string, error) {
	img, err := i.decode()
	if err != nil {
		return "", err
	}
	renderer, err := i.getRenderer()
	if err != nil {
		return "", err
	}
	return renderer.Render(img, i.buildRenderOptions())
}

// Print outputs the image to stdout.
func (i *Image) Print() error {
	img, err := i.decode()
	if err != nil {
		return err
	}
	renderer, err := i.getRenderer()
	if err != nil {
		return err
	}
	return renderer.Print(img, i.buildRenderOptions())
}

// Clear removes the image from the terminal.
func (i *Image) Clear() error {
	renderer, err := i.getRenderer()
	if err != nil {
		return err
	}
	return renderer.Clear()
}

// Info returns metadata for the underlying image data.
func (i *Image) Info() (*ImageInfo, error) {
	if i.data == nil {
		if i.source == nil {
			return nil, fmt.Errorf("no image source configured")
		}
		b := i.source.Bounds()
		return &ImageInfo{Format: "raw", Width: b.Dx(), Height: b.Dy(), Frames: 1}, nil
	}
	return Identify(i.data)
}

// Animated reports whether the source is a multi-frame GIF.
func (i *Image) Animated() bool {
	if i.data == nil || SniffFormat(i.data) != "gif" {
		return false
	}
	info, err := Identify(i.data)
	return err == nil && info.Animated
}

// Animate decodes the full frame sequence, pre-renders it at the configured
// cell size and plays it until cancel fires. Only half-block playback is
// supported; graphics protocols have no portable in-place redraw.
func (i *Image) Animate(fps int, cancel *atomic.Bool) error {
	anim, err := i.loadAnimation()
	if err != nil {
		return err
	}

	cols, rows := targetCells(i.buildRenderOptions())
	frames := make([]*Canvas, len(anim.Frames))
	for idx, c := range anim.Frames {
		w, h := FitPixelSize(int(c.Width), int(c.Height), cols, rows)
		scaled, err := ScaleCanvas(c, w, h, i.interpolation)
		if err != nil {
			return fmt.Errorf("failed to scale frame %d: %w", idx, err)
		}
		frames[idx] = scaled
	}

	echo, err := DisableEcho()
	if err != nil {
		return err
	}

	player, err := NewPlayer(frames, PlayerOptions{
		FPS:    fps,
		Cancel: cancel,
		Echo:   echo,
	})
	if err != nil {
		echo.Restore()
		return err
	}
	return player.Play()
}

// loadAnimation decodes the GIF frame sequence behind this image.
func (i *Image) loadAnimation() (*Animation, error) {
	if i.data == nil {
		return nil, fmt.Errorf("animation requires encoded image data")
	}
	if SniffFormat(i.data) != "gif" {
		return nil, fmt.Errorf("animation is only supported for GIF input")
	}
	return DecodeGIFAnimation(i.data)
}

// decode resolves the configured source to a decoded image.
func (i *Image) decode() (image.Image, error) {
	if i.source != nil {
		return i.source, nil
	}
	if i.data == nil {
		return nil, fmt.Errorf("no image source configured")
	}
	img, _, err := image.Decode(bytes.NewReader(i.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	i.source = img
	return img, nil
}

func (i *Image) getRenderer() (Renderer, error) {
	if i.renderer != nil {
		return i.renderer, nil
	}
	renderer, err := GetRenderer(i.protocol)
	if err != nil {
		return nil, err
	}
	i.renderer = renderer
	return renderer, nil
}

func (i *Image) buildRenderOptions() RenderOptions {
	return RenderOptions{
		Width:         i.width,
		Height:        i.height,
		ScaleMode:     i.scaleMode,
		Interpolation: i.interpolation,
		Dither:        i.dither,
	}
}

// Convenience functions for quick rendering.

// Render renders an image with default settings.
func Render(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image cannot be nil")
	}
	return New(img).Render()
}

// RenderFile renders an image file with default settings.
func RenderFile(path string) (string, error) {
	img, err := Open(path)
	if err != nil {
		return "", err
	}
	return img.Render()
}

// PrintFile prints an image file with default settings.
func PrintFile(path string) error {
	img, err := Open(path)
	if err != nil {
		return err
	}
	return img.Print()
}
