package termpix

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

// Animation frame rate bounds. Terminals repaint whole frames of escape
// codes, so rates above 15 fps only produce tearing.
const (
	MinFPS     = 1
	MaxFPS     = 15
	DefaultFPS = 15
)

// PlayerOptions configures animation playback.
type PlayerOptions struct {
	// FPS is clamped to [MinFPS, MaxFPS]; zero means DefaultFPS.
	FPS int

	// Output defaults to os.Stdout.
	Output io.Writer

	// Cancel is polled at every frame boundary. Playback loops forever
	// when nil.
	Cancel *atomic.Bool

	// StatusLine, when non-empty, is printed under every frame.
	StatusLine string

	// Echo is the terminal state to restore during cleanup. May be nil.
	Echo *EchoState
}

// Player plays a pre-rendered animation in place, redrawing over the
// previous frame with cursor movement.
type Player struct {
	frames []string
	lines  int
	opts   PlayerOptions
}

// NewPlayer renders every frame up front so playback never stalls on escape
// sequence generation. If any frame fails to render the whole construction
// fails and nothing is retained.
func NewPlayer(frames []*Canvas, opts PlayerOptions) (*Player, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if opts.FPS == 0 {
		opts.FPS = DefaultFPS
	}
	if opts.FPS < MinFPS {
		opts.FPS = MinFPS
	}
	if opts.FPS > MaxFPS {
		opts.FPS = MaxFPS
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	rendered := make([]string, len(frames))
	lines := 0
	for i, c := range frames {
		out, err := RenderCanvas(c)
		if err != nil {
			return nil, fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		rendered[i] = out
		if n := LineCount(c); n > lines {
			lines = n
		}
	}

	return &Player{frames: rendered, lines: lines, opts: opts}, nil
}

// FrameCount returns the number of frames in the loop.
func (p *Player) FrameCount() int {
	return len(p.frames)
}

// Play loops the animation until the cancel flag is set. The cursor is
// hidden for the duration and restored on every exit path, including a
// cancellation that fires before the first frame.
func (p *Player) Play() error {
	out := p.opts.Output

	defer func() {
		io.WriteString(out, cursorShow)
		io.WriteString(out, ansiReset)
		p.opts.Echo.Restore()
	}()

	if _, err := io.WriteString(out, cursorHide); err != nil {
		return err
	}

	delay := time.Duration(1_000_000/p.opts.FPS) * time.Microsecond
	redraw := p.lines
	if p.opts.StatusLine != "" {
		redraw++
	}

	first := true
	for {
		for _, frame := range p.frames {
			if p.cancelled() {
				return nil
			}
			if !first {
				if _, err := io.WriteString(out, cursorUp(redraw)); err != nil {
					return err
				}
			}
			first = false
			if _, err := io.WriteString(out, frame); err != nil {
				return err
			}
			if p.opts.StatusLine != "" {
				if _, err := fmt.Fprintf(out, "%s%s\n", ansiReset, p.opts.StatusLine); err != nil {
					return err
				}
			}
			time.Sleep(delay)
		}
	}
}

func (p *Player) cancelled() bool {
	return p.opts.Cancel != nil && p.opts.Cancel.Load()
}
