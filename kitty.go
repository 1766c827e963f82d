package termpix

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
)

// kittyChunkSize is the maximum payload per graphics escape. The protocol
// requires chunking above 4096 bytes of base64 data.
const kittyChunkSize = 4096

// KittyRenderer implements the Renderer interface for the Kitty graphics
// protocol (Kitty, Ghostty, WezTerm).
type KittyRenderer struct{}

// Protocol returns the protocol type.
func (r *KittyRenderer) Protocol() Protocol {
	return Kitty
}

// Render generates the escape sequence for displaying the image. The image
// is shipped as base64 PNG (f=100) in transmit-and-display mode (a=T).
func (r *KittyRenderer) Render(img image.Image, opts RenderOptions) (string, error) {
	scaled := scaleForPixels(img, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	var sb strings.Builder
	first := true
	for len(payload) > 0 {
		chunk := payload
		if len(chunk) > kittyChunkSize {
			chunk = payload[:kittyChunkSize]
		}
		payload = payload[len(chunk):]

		more := 0
		if len(payload) > 0 {
			more = 1
		}

		var ctrl string
		if first {
			ctrl = fmt.Sprintf("a=T,f=100,m=%d", more)
			first = false
		} else {
			ctrl = fmt.Sprintf("m=%d", more)
		}
		sb.WriteString(WrapTmuxPassthrough(fmt.Sprintf("\x1b_G%s;%s\x1b\\", ctrl, chunk)))
	}
	sb.WriteString("\n")

	return sb.String(), nil
}

// Print outputs the image directly to stdout.
func (r *KittyRenderer) Print(img image.Image, opts RenderOptions) error {
	out, err := r.Render(img, opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out)
	return err
}

// Clear deletes all visible images placed by the graphics protocol.
func (r *KittyRenderer) Clear() error {
	_, err := os.Stdout.WriteString(WrapTmuxPassthrough("\x1b_Ga=d\x1b\\"))
	return err
}

// scaleForPixels resizes for pixel-addressed protocols, converting the cell
// target into pixels with the terminal's font size.
func scaleForPixels(img image.Image, opts RenderOptions) image.Image {
	if opts.ScaleMode == ScaleNone {
		return img
	}
	cols, rows := targetCells(opts)
	fontW, fontH := terminalFontSize()
	maxW, maxH := cols*fontW, rows*fontH

	b := img.Bounds()
	if opts.ScaleMode == ScaleExact && opts.Width > 0 && opts.Height > 0 {
		return ScaleImage(img, maxW, maxH, opts.Interpolation)
	}
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	ratioW := float64(maxW) / float64(b.Dx())
	ratioH := float64(maxH) / float64(b.Dy())
	ratio := min(ratioW, ratioH)
	return ScaleImage(img, int(float64(b.Dx())*ratio), int(float64(b.Dy())*ratio), opts.Interpolation)
}
