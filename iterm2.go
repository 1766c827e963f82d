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

// iterm2ChunkSize is the multipart threshold; iTerm2 accepts single File=
// payloads up to 256KB.
const iterm2ChunkSize = 0x40000

// ITerm2Renderer implements the Renderer interface for the iTerm2 inline
// images protocol (OSC 1337).
type ITerm2Renderer struct{}

// Protocol returns the protocol type.
func (r *ITerm2Renderer) Protocol() Protocol {
	return ITerm2
}

// Render generates the escape sequence for displaying the image. PNG keeps
// the alpha channel, which JPEG would flatten.
func (r *ITerm2Renderer) Render(img image.Image, opts RenderOptions) (string, error) {
	scaled := scaleForPixels(img, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	data := buf.Bytes()

	bounds := scaled.Bounds()
	params := strings.Join([]string{
		"inline=1",
		fmt.Sprintf("size=%d", len(data)),
		fmt.Sprintf("width=%dpx", bounds.Dx()),
		fmt.Sprintf("height=%dpx", bounds.Dy()),
		"preserveAspectRatio=1",
	}, ";")

	var sb strings.Builder
	if len(data) > iterm2ChunkSize {
		// Multipart transfer: MultipartFile, FilePart*, FileEnd.
		sb.WriteString(WrapTmuxPassthrough(fmt.Sprintf("\x1b]1337;MultipartFile=%s:%s\x07",
			params, base64.StdEncoding.EncodeToString(data[:iterm2ChunkSize]))))
		rest := data[iterm2ChunkSize:]
		for i := 0; i < len(rest); i += iterm2ChunkSize {
			chunk := rest[i:min(i+iterm2ChunkSize, len(rest))]
			sb.WriteString(WrapTmuxPassthrough(fmt.Sprintf("\x1b]1337;FilePart:%s\x07",
				base64.StdEncoding.EncodeToString(chunk))))
		}
		sb.WriteString(WrapTmuxPassthrough("\x1b]1337;FileEnd\x07"))
	} else {
		sb.WriteString(WrapTmuxPassthrough(fmt.Sprintf("\x1b]1337;File=%s:%s\x07",
			params, base64.StdEncoding.EncodeToString(data))))
	}
	sb.WriteString("\n")

	return sb.String(), nil
}

// Print outputs the image directly to stdout.
func (r *ITerm2Renderer) Print(img image.Image, opts RenderOptions) error {
	out, err := r.Render(img, opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out)
	return err
}

// Clear scrubs the screen; iTerm2 has no per-image delete like Kitty.
func (r *ITerm2Renderer) Clear() error {
	_, err := os.Stdout.WriteString(WrapTmuxPassthrough("\x1b[2J\x1b[H"))
	return err
}
