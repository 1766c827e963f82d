package termpix

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
)

// SixelOptions contains Sixel-specific rendering options.
type SixelOptions struct {
	// Colors is the palette size, clamped to [2, 256]. Sixel encoding is
	// slow, smaller palettes help a lot.
	Colors int

	// OptimizePalette runs median-cut quantization with error-diffusion
	// dithering before encoding.
	OptimizePalette bool

	// CustomPalette overrides quantization entirely.
	CustomPalette color.Palette
}

// SixelRenderer implements the Renderer interface for the DEC Sixel
// protocol.
type SixelRenderer struct {
	lastLines int // lines occupied by the last image, for Clear
}

// Protocol returns the protocol type.
func (r *SixelRenderer) Protocol() Protocol {
	return Sixel
}

// Render generates the escape sequence for displaying the image.
func (r *SixelRenderer) Render(img image.Image, opts RenderOptions) (string, error) {
	processed := scaleForPixels(img, opts)

	colors := 100
	if opts.SixelOpts != nil && opts.SixelOpts.Colors > 0 {
		colors = opts.SixelOpts.Colors
		if colors > 256 {
			colors = 256
		}
		if colors < 2 {
			colors = 2
		}
	}

	quantized := false
	if opts.SixelOpts != nil {
		switch {
		case opts.SixelOpts.CustomPalette != nil:
			processed = ditherWithPalette(processed, opts.SixelOpts.CustomPalette)
			quantized = true
		case opts.SixelOpts.OptimizePalette:
			processed = optimizePalette(processed, colors)
			quantized = true
		}
	}
	if opts.Dither && !quantized {
		processed = optimizePalette(processed, colors)
		quantized = true
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Colors = colors
	if quantized {
		enc.Dither = false
	}

	if err := enc.Encode(processed); err != nil {
		return "", fmt.Errorf("failed to encode sixel: %w", err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("sixel encoding produced empty output")
	}

	_, fontH := terminalFontSize()
	if fontH > 0 {
		r.lastLines = (processed.Bounds().Dy() + fontH - 1) / fontH
	}

	return WrapTmuxPassthrough(buf.String()), nil
}

// Print outputs the image directly to stdout.
func (r *SixelRenderer) Print(img image.Image, opts RenderOptions) error {
	out, err := r.Render(img, opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out)
	return err
}

// Clear blanks the lines the last image occupied.
func (r *SixelRenderer) Clear() error {
	if r.lastLines <= 0 {
		return nil
	}
	var seq bytes.Buffer
	seq.WriteString(cursorUp(r.lastLines))
	for i := 0; i < r.lastLines; i++ {
		seq.WriteString("\x1b[2K")
		if i < r.lastLines-1 {
			seq.WriteString("\x1b[B")
		}
	}
	seq.WriteString("\r")
	_, err := os.Stdout.WriteString(WrapTmuxPassthrough(seq.String()))
	return err
}

// optimizePalette quantizes with median cut and dithers with Stucki.
func optimizePalette(img image.Image, colors int) image.Image {
	quantizer := median.Quantizer(colors)
	pal := quantizer.Palette(img).ColorPalette()
	return ditherWithPalette(img, pal)
}

// ditherWithPalette applies Stucki error diffusion against a fixed palette.
func ditherWithPalette(img image.Image, pal color.Palette) image.Image {
	if len(pal) == 0 {
		return img
	}
	d := dither.NewDitherer(pal)
	d.Matrix = dither.Stucki
	return d.Dither(img)
}
