package termpix

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/termpix/termpix/pkg/csi"
)

// ScaleMode defines how images are scaled to the target area.
type ScaleMode int

const (
	// ScaleFit fits the image within bounds while maintaining aspect ratio.
	ScaleFit ScaleMode = iota
	// ScaleExact resizes to the requested dimensions exactly.
	ScaleExact
	// ScaleNone performs no scaling.
	ScaleNone
)

// RenderOptions carries the settings shared by all protocol renderers.
type RenderOptions struct {
	// Width and Height are in character cells; zero means derive from the
	// terminal size.
	Width  int
	Height int

	ScaleMode     ScaleMode
	Interpolation Interpolation

	// Dither reduces colors before encoding; mainly useful for Sixel.
	Dither bool

	SixelOpts *SixelOptions
}

// Renderer is the interface every protocol implementation satisfies.
type Renderer interface {
	// Render generates the escape sequence for displaying the image.
	Render(img image.Image, opts RenderOptions) (string, error)

	// Print outputs the image directly to stdout.
	Print(img image.Image, opts RenderOptions) error

	// Clear removes the image from the terminal.
	Clear() error

	// Protocol returns the protocol type.
	Protocol() Protocol
}

// GetRenderer returns a renderer for the specified protocol.
func GetRenderer(protocol Protocol) (Renderer, error) {
	switch protocol {
	case Auto:
		return GetRenderer(DetectProtocol())
	case Kitty:
		return &KittyRenderer{}, nil
	case ITerm2:
		return &ITerm2Renderer{}, nil
	case Sixel:
		return &SixelRenderer{}, nil
	case Halfblocks:
		return &HalfblocksRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", protocol)
	}
}

// targetCells resolves the requested cell geometry, falling back to the
// terminal size minus one row so the shell prompt keeps a line.
func targetCells(opts RenderOptions) (cols, rows int) {
	cols, rows = opts.Width, opts.Height
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	termCols, termRows := TerminalSize()
	if cols == 0 {
		cols = termCols
	}
	if rows == 0 {
		rows = termRows - 1
		if rows < 1 {
			rows = 1
		}
	}
	return cols, rows
}

// scaleForCells resizes img in pixel space for a cols x rows cell target
// using the half-block 1:2 cell aspect.
func scaleForCells(img image.Image, opts RenderOptions) image.Image {
	if opts.ScaleMode == ScaleNone {
		return img
	}
	cols, rows := targetCells(opts)
	b := img.Bounds()

	var w, h int
	if opts.ScaleMode == ScaleExact && opts.Width > 0 && opts.Height > 0 {
		w, h = cols, rows*2
	} else {
		w, h = FitPixelSize(b.Dx(), b.Dy(), cols, rows)
	}
	if w <= 0 || h <= 0 {
		return img
	}
	return ScaleImage(img, w, h, opts.Interpolation)
}

var (
	fontSizeOnce sync.Once
	cachedFontW  int
	cachedFontH  int
)

// terminalFontSize returns the character cell size in pixels, queried once
// per process via CSI 16t with per-terminal fallbacks.
func terminalFontSize() (width, height int) {
	fontSizeOnce.Do(func() {
		if w, h, ok := csi.QueryCellSize(); ok {
			cachedFontW, cachedFontH = w, h
			return
		}
		cachedFontW, cachedFontH = fontSizeFallback()
	})
	return cachedFontW, cachedFontH
}

// fontSizeFallback guesses cell size from the terminal type.
func fontSizeFallback() (width, height int) {
	termEnv := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case termProgram == "vscode":
		return 7, 14
	case termProgram == "iTerm.app":
		return 8, 16
	case termProgram == "WezTerm":
		return 8, 18
	case termProgram == "Alacritty":
		return 7, 15
	case strings.Contains(termProgram, "kitty"):
		return 8, 16
	case strings.Contains(termEnv, "xterm"):
		return 7, 14
	default:
		return 8, 16
	}
}
