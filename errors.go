package termpix

import "errors"

var (
	// ErrInvalidDimensions is returned when canvas dimensions are zero or
	// exceed MaxCanvasDim / MaxCanvasPixels.
	ErrInvalidDimensions = errors.New("invalid canvas dimensions")

	// ErrInvalidRow is returned when a line render is requested for a row
	// index that is odd or has no row below it.
	ErrInvalidRow = errors.New("invalid row index")

	// ErrLineBufferTooSmall is returned when a caller-supplied line buffer
	// cannot hold the rendered line. The buffer is left untouched.
	ErrLineBufferTooSmall = errors.New("line buffer too small")

	// ErrRegionOutOfBounds is returned when a frame region extends past the
	// compositor canvas.
	ErrRegionOutOfBounds = errors.New("frame region out of canvas bounds")

	// ErrEmptyResult is returned when a canvas is too small to produce any
	// output lines.
	ErrEmptyResult = errors.New("canvas too small to render")

	// ErrFileTooLarge is returned when an input file exceeds MaxImageFileSize.
	ErrFileTooLarge = errors.New("image file too large")

	// ErrEmptyInput is returned when an input file or stream contains no data.
	ErrEmptyInput = errors.New("empty image input")

	// ErrStdinIsTerminal is returned when image data is expected on stdin but
	// stdin is an interactive terminal.
	ErrStdinIsTerminal = errors.New("stdin is a terminal, expected image data")

	// ErrNoFrames is returned when an animation contains no usable frames.
	ErrNoFrames = errors.New("animation has no frames")
)
