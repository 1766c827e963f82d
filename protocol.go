package termpix

// Protocol identifies a terminal graphics protocol.
type Protocol int

const (
	// Auto picks the best protocol the terminal supports.
	Auto Protocol = iota
	// Kitty is the Kitty graphics protocol (also Ghostty, WezTerm).
	Kitty
	// ITerm2 is the iTerm2 inline images protocol (OSC 1337).
	ITerm2
	// Sixel is the DEC Sixel raster protocol.
	Sixel
	// Halfblocks renders with truecolor ANSI half-block characters and
	// works in any truecolor terminal.
	Halfblocks
	// Unsupported means no protocol could be detected.
	Unsupported
)

func (p Protocol) String() string {
	switch p {
	case Auto:
		return "auto"
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm2"
	case Sixel:
		return "sixel"
	case Halfblocks:
		return "halfblocks"
	default:
		return "unsupported"
	}
}
