package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/olivier-w/wavescope/internal/cursor"
	"github.com/olivier-w/wavescope/internal/decode"
	"github.com/olivier-w/wavescope/internal/player"
)

var (
	watchWidth    float64
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Play FILE without a UI and log the cursor overlay",
	Long: `Play FILE on the default audio device and log every cursor overlay the
tracker emits, until playback ends or the command is interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64Var(&watchWidth, "width", 0, "rendered waveform width (default from config)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "polling interval (default from config refresh_ms)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	width := float64(cfg.Width)
	if cmd.Flags().Changed("width") {
		width = watchWidth
	}
	interval := cfg.RefreshInterval()
	if watchInterval > 0 {
		interval = watchInterval
	}

	a, err := decode.File(args[0])
	if err != nil {
		return err
	}
	p, err := player.New(a, cfg.Volume)
	if err != nil {
		return err
	}
	defer p.Close()

	session := uuid.NewString()
	meta := player.ReadMetadata(args[0])
	log := slog.With("session", session)
	log.Info("watching", "title", meta.Title, "duration", p.Duration(), "width", width, "interval", interval)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-p.Done():
			log.Info("playback finished")
			cancel()
		case <-ctx.Done():
		}
	}()

	cursor.New(p, width).Run(ctx, interval, func(ov cursor.Overlay) {
		log.Info("cursor",
			"position", p.Position(),
			"offset", ov.Offset,
			"played", ov.PlayedWidth,
			"remaining_x", ov.RemainingX,
			"remaining", ov.RemainingWidth)
	})
	return nil
}
