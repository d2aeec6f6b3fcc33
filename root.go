package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/olivier-w/wavescope/internal/config"
)

var (
	cfgFile string
	verbose bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "wavescope [file]",
	Short: "Waveform viewer and player for audio files",
	Long: `wavescope draws the amplitude envelope of an audio recording and keeps a
playback cursor moving across it.

Without a subcommand it opens the terminal player. Given a directory or a
playlist it queues every playable file; without any argument it starts a file
browser in the current directory.

Examples:
  wavescope song.flac
  wavescope render song.mp3 -o song.svg --at 42
  wavescope envelope song.wav --points 200 --json
  wavescope watch song.ogg --width 400`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              runPlayer,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.wavescope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(envelopeCmd)
	rootCmd.AddCommand(watchCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	setLogOutput(os.Stderr)

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	slog.Debug("loaded config", "path", cfg.Path(), "width", cfg.Width, "height", cfg.Height, "smoothing", cfg.Smoothing)
	return nil
}

func setLogOutput(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
