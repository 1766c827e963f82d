package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/termpix/termpix"
)

var (
	verbose       bool
	animate       bool
	fps           int
	width         int
	height        int
	fit           bool
	resize        bool
	interpolation string
	forceANSI     bool
	showInfo      bool
	asJSON        bool
)

func init() {
	log.SetHandler(clihander.Default)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.Flags().BoolVarP(&animate, "animate", "a", false, "Play GIF animations")
	rootCmd.Flags().IntVar(&fps, "fps", termpix.DefaultFPS, "Animation frame rate (1-15)")
	rootCmd.Flags().IntVarP(&width, "width", "w", 0, "Target width in character cells")
	rootCmd.Flags().IntVarP(&height, "height", "H", 0, "Target height in character cells")
	rootCmd.Flags().BoolVarP(&fit, "fit", "f", false, "Fit to terminal, preserving aspect ratio (default)")
	rootCmd.Flags().BoolVarP(&resize, "resize", "r", false, "Resize to exact dimensions, ignoring aspect ratio")
	rootCmd.Flags().StringVarP(&interpolation, "interpolation", "i", "lanczos", "Scaling kernel: lanczos|bilinear|nearest|cubic")
	rootCmd.Flags().BoolVar(&forceANSI, "force-ansi", false, "Force half-block ANSI output, skip protocol detection")
	rootCmd.Flags().BoolVar(&showInfo, "info", false, "Print image metadata instead of rendering")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Print metadata as JSON (implies --info)")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "termpix [flags] [FILE]",
	Short: "Display images and GIF animations in your terminal",
	Long: `Display images in your terminal using the best protocol it supports
(Kitty graphics, iTerm2 inline images, Sixel) with a truecolor half-block
fallback that works everywhere. Reads FILE, or stdin when FILE is missing
or "-".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		img, err := openInput(args)
		if err != nil {
			return err
		}

		if asJSON {
			showInfo = true
		}
		if showInfo {
			return printInfo(img)
		}

		interp, ok := termpix.ParseInterpolation(interpolation)
		if !ok {
			return fmt.Errorf("unknown interpolation %q", interpolation)
		}
		img.Interpolation(interp)

		if width > 0 {
			img.Width(width)
		}
		if height > 0 {
			img.Height(height)
		}
		if fit && resize {
			return fmt.Errorf("--fit and --resize are mutually exclusive")
		}
		if resize {
			img.Scale(termpix.ScaleExact)
		} else {
			// --fit is the default behavior.
			img.Scale(termpix.ScaleFit)
		}
		if forceANSI {
			img.Protocol(termpix.Halfblocks)
		}

		if animate {
			return playAnimation(img)
		}

		if verbose {
			// DetectProtocol may probe the tty, only pay for it when asked.
			log.Debugf("rendering via %s", renderProtocol())
		}
		return img.Print()
	},
}

func openInput(args []string) (*termpix.Image, error) {
	if len(args) == 0 || args[0] == "-" {
		log.Debug("reading image from stdin")
		return termpix.FromStdin()
	}
	return termpix.Open(args[0])
}

func renderProtocol() termpix.Protocol {
	if forceANSI {
		return termpix.Halfblocks
	}
	return termpix.DetectProtocol()
}

func printInfo(img *termpix.Image) error {
	info, err := img.Info()
	if err != nil {
		return err
	}
	if asJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(info)
	return nil
}

func playAnimation(img *termpix.Image) error {
	if !img.Animated() {
		log.Debug("input is not animated, rendering a single frame")
		return img.Print()
	}

	if fps < termpix.MinFPS || fps > termpix.MaxFPS {
		return fmt.Errorf("fps must be between %d and %d", termpix.MinFPS, termpix.MaxFPS)
	}

	if info, err := img.Info(); err == nil && info.Frames > termpix.MaxAnimationFrames {
		log.Warnf("animation has %d frames, playing the first %d", info.Frames, termpix.MaxAnimationFrames)
	}

	var stop atomic.Bool
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		stop.Store(true)
	}()

	log.Debugf("playing animation at %d fps, Ctrl-C to stop", fps)
	return img.Animate(fps, &stop)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
