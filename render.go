package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivier-w/wavescope/internal/analysis"
	"github.com/olivier-w/wavescope/internal/cursor"
	"github.com/olivier-w/wavescope/internal/svgpath"
)

var (
	renderOutput    string
	renderPoints    int
	renderHeight    float64
	renderSmoothing float64
	renderAt        float64
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Write the waveform of FILE as an SVG image",
	Long: `Decode FILE, downsample it and write an SVG document whose waveform is
clipped over a played and a remaining rectangle.

The number of points defaults to the configured width divided by the
smoothing. With --at the image shows the cursor as if playback were at that
many seconds.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default: stdout)")
	renderCmd.Flags().IntVar(&renderPoints, "points", 0, "number of envelope points (default: width/smoothing from config)")
	renderCmd.Flags().Float64Var(&renderHeight, "height", 0, "image height (default from config)")
	renderCmd.Flags().Float64Var(&renderSmoothing, "smoothing", 0, "distance between points (default from config)")
	renderCmd.Flags().Float64Var(&renderAt, "at", 0, "draw the cursor at this playback time in seconds")
}

func renderOptions(cmd *cobra.Command) analysis.Options {
	opts := analysis.Options{
		DataPoints: cfg.DataPoints(),
		Height:     float64(cfg.Height),
		Smoothing:  cfg.Smoothing,
	}
	if cmd.Flags().Changed("points") {
		opts.DataPoints = renderPoints
	}
	if cmd.Flags().Changed("height") {
		opts.Height = renderHeight
	}
	if cmd.Flags().Changed("smoothing") {
		opts.Smoothing = renderSmoothing
	}
	return opts
}

func runRender(cmd *cobra.Command, args []string) error {
	res, err := analysis.File(args[0], renderOptions(cmd))
	if err != nil {
		return err
	}

	doc := svgpath.Document{Path: res.Path}
	if cmd.Flags().Changed("at") {
		state := cursor.State{
			Position: time.Duration(renderAt * float64(time.Second)),
			Duration: res.Audio.Duration,
		}
		if ov, ok := cursor.Compute(state, res.Path.Width()); ok {
			doc.Overlay = &ov
		} else {
			slog.Warn("cursor position unavailable, rendering without progress", "at", renderAt)
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if renderOutput != "" && renderOutput != "-" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := doc.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	slog.Info("rendered waveform",
		"file", args[0],
		"points", len(res.Envelope),
		"width", res.Path.Width(),
		"height", res.Path.Height(),
		"bytes", n)
	return nil
}
