/*
Package termpix renders images and GIF animations in terminal emulators.

It speaks the Kitty graphics protocol, iTerm2 inline images and Sixel, and
falls back to a truecolor half-block renderer that works in any modern
terminal. The half-block engine packs two pixel rows into each terminal
line: the cell background carries the top pixel and a colored ▄ glyph
carries the bottom one.

Basic usage:

	// Simple one-liner
	termpix.PrintFile("image.png")

	// With configuration
	img, err := termpix.Open("image.png")
	if err != nil {
	    log.Fatal(err)
	}
	err = img.Width(80).Height(24).Print()

Fluent API:

	rendered, err := termpix.Open("image.png").
	    Width(100).
	    Height(50).
	    Protocol(termpix.Halfblocks).
	    Interpolation(termpix.InterpBilinear).
	    Render()

Animated GIFs are decoded through a frame compositor that reconstructs full
frames from partial updates (region placement, disposal methods, palette
transparency) and played in place:

	var stop atomic.Bool
	img, _ := termpix.Open("animation.gif")
	img.Animate(termpix.DefaultFPS, &stop)

Protocol detection:

	protocol := termpix.DetectProtocol()
	if termpix.KittySupported() {
	    fmt.Println("Kitty graphics protocol available")
	}

Graphics escapes are wrapped for tmux passthrough automatically when running
inside tmux or screen.
*/
package termpix
