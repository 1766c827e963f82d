package termpix

import (
	"image"
	"os"
	"strconv"
	"strings"
)

// Half-block rendering packs two pixel rows into one terminal line: the cell
// background carries the top pixel and a colored lower-half-block glyph
// carries the bottom pixel.
const (
	halfBlockGlyph = "▄"

	ansiReset = "\x1b[0m"

	// Transparent cells drop back to the terminal's own colors. The
	// background form also resets so a stale truecolor background cannot
	// leak into the cell.
	ansiBGTransparent = "\x1b[0;39;49m"
	ansiFGTransparent = "\x1b[0m "

	// AlphaOpaqueMin is the threshold below which a pixel renders as
	// transparent. There is no partial blending against the terminal.
	AlphaOpaqueMin = 128
)

// maxCellBytes is the worst case per column: a truecolor background escape
// (19 bytes) plus a truecolor foreground escape with the half-block glyph
// (19+3 bytes).
const maxCellBytes = 41

// maxLineTailBytes covers the trailing reset and newline.
const maxLineTailBytes = len(ansiReset) + 1

// MaxLineBytes returns an upper bound on the encoded size of one rendered
// line for the given canvas width.
func MaxLineBytes(width int) int {
	if width < 0 {
		return 0
	}
	return width*maxCellBytes + maxLineTailBytes
}

// appendSGRColor appends ESC[<sel>;2;R;G;Bm. sel is "48" for background,
// "38" for foreground.
func appendSGRColor(dst []byte, sel string, r, g, b uint8) []byte {
	dst = append(dst, 0x1b, '[')
	dst = append(dst, sel...)
	dst = append(dst, ';', '2', ';')
	dst = strconv.AppendUint(dst, uint64(r), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(g), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(b), 10)
	dst = append(dst, 'm')
	return dst
}

// appendLinePixels encodes one terminal line covering pixel rows yTop and
// yTop+1 into dst.
func appendLinePixels(dst []byte, c *Canvas, yTop uint32) []byte {
	w := int(c.Width)
	topOff := int(yTop) * w * bytesPerPixel
	botOff := topOff + w*bytesPerPixel

	for x := 0; x < w; x++ {
		ti := topOff + x*bytesPerPixel
		bi := botOff + x*bytesPerPixel

		if c.Pix[ti+3] < AlphaOpaqueMin {
			dst = append(dst, ansiBGTransparent...)
		} else {
			dst = appendSGRColor(dst, "48", c.Pix[ti], c.Pix[ti+1], c.Pix[ti+2])
		}

		if c.Pix[bi+3] < AlphaOpaqueMin {
			dst = append(dst, ansiFGTransparent...)
		} else {
			dst = appendSGRColor(dst, "38", c.Pix[bi], c.Pix[bi+1], c.Pix[bi+2])
			dst = append(dst, halfBlockGlyph...)
		}
	}

	dst = append(dst, ansiReset...)
	dst = append(dst, '\n')
	return dst
}

// checkRowPair validates that yTop addresses the top row of a renderable
// pair.
func checkRowPair(c *Canvas, yTop int) error {
	if yTop < 0 || yTop%2 != 0 || yTop+1 >= int(c.Height) {
		return ErrInvalidRow
	}
	return nil
}

// RenderLineTo renders the line for pixel rows yTop and yTop+1 into buf and
// returns the number of bytes written. If buf cannot hold the line it
// returns ErrLineBufferTooSmall and leaves buf untouched; size the buffer
// with MaxLineBytes to avoid that. Rendering a line twice from the same
// canvas yields identical bytes.
func RenderLineTo(buf []byte, c *Canvas, yTop int) (int, error) {
	if err := checkRowPair(c, yTop); err != nil {
		return 0, err
	}
	line := appendLinePixels(nil, c, uint32(yTop))
	if len(line) > len(buf) {
		return 0, ErrLineBufferTooSmall
	}
	copy(buf, line)
	return len(line), nil
}

// RenderLine renders the line for pixel rows yTop and yTop+1.
func RenderLine(c *Canvas, yTop int) (string, error) {
	if err := checkRowPair(c, yTop); err != nil {
		return "", err
	}
	return string(appendLinePixels(make([]byte, 0, MaxLineBytes(int(c.Width))), c, uint32(yTop))), nil
}

// RenderCanvas renders the whole canvas as floor(height/2) terminal lines.
// A trailing odd pixel row is dropped. A canvas shorter than two rows has
// nothing to show and returns ErrEmptyResult.
func RenderCanvas(c *Canvas) (string, error) {
	if c.Height < 2 {
		return "", ErrEmptyResult
	}
	lines := int(c.Height) / 2

	var sb strings.Builder
	sb.Grow(lines * MaxLineBytes(int(c.Width)))

	buf := make([]byte, 0, MaxLineBytes(int(c.Width)))
	for i := 0; i < lines; i++ {
		buf = appendLinePixels(buf[:0], c, uint32(i*2))
		sb.Write(buf)
	}
	return sb.String(), nil
}

// LineCount returns the number of terminal lines RenderCanvas will produce.
func LineCount(c *Canvas) int {
	return int(c.Height) / 2
}

// HalfblocksRenderer adapts the half-block engine to the Renderer interface.
// It works in any truecolor terminal and is the universal fallback protocol.
type HalfblocksRenderer struct {
	lastLines int // lines written by the last Render, for Clear
}

// Protocol returns the protocol type.
func (r *HalfblocksRenderer) Protocol() Protocol {
	return Halfblocks
}

// Render scales the image to the cell target and encodes it as half-block
// lines.
func (r *HalfblocksRenderer) Render(img image.Image, opts RenderOptions) (string, error) {
	scaled := scaleForCells(img, opts)
	c, err := CanvasFromImage(scaled)
	if err != nil {
		return "", err
	}
	out, err := RenderCanvas(c)
	if err != nil {
		return "", err
	}
	r.lastLines = LineCount(c)
	return out, nil
}

// Print outputs the image directly to stdout.
func (r *HalfblocksRenderer) Print(img image.Image, opts RenderOptions) error {
	out, err := r.Render(img, opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out)
	return err
}

// Clear blanks the area the last Render occupied and moves the cursor back.
func (r *HalfblocksRenderer) Clear() error {
	lines := r.lastLines
	if lines <= 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(cursorUp(lines))
	for i := 0; i < lines; i++ {
		sb.WriteString("\x1b[2K")
		if i < lines-1 {
			sb.WriteString("\x1b[B")
		}
	}
	sb.WriteString("\r")
	_, err := os.Stdout.WriteString(sb.String())
	return err
}
