package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/olivier-w/wavescope/internal/decode"
	"github.com/olivier-w/wavescope/internal/media"
	"github.com/olivier-w/wavescope/internal/queue"
	"github.com/olivier-w/wavescope/internal/ui"
)

func runPlayer(cmd *cobra.Command, args []string) error {
	closeLog := redirectLogs()
	defer closeLog()

	opts := ui.Options{Volume: cfg.Volume, Refresh: cfg.RefreshInterval()}

	var model tea.Model
	if len(args) == 0 {
		startup := newStartupModel(opts)
		if err := startup.browser.Err(); err != nil {
			return err
		}
		model = startup
	} else {
		q, err := buildQueue(args[0])
		if err != nil {
			return err
		}
		model = ui.New(q, opts)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

// redirectLogs moves logging off the terminal while the TUI owns it.
func redirectLogs() func() {
	path := cfg.LogPath()
	if path == "" {
		setLogOutput(io.Discard)
		return func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		setLogOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		setLogOutput(io.Discard)
		return func() {}
	}
	setLogOutput(f)
	return func() {
		setLogOutput(os.Stderr)
		f.Close()
	}
}

// buildQueue turns a command line argument into a play queue. A directory
// queues its audio files, a playlist queues its local entries, and a single
// file queues its siblings starting at that file.
func buildQueue(arg string) (*queue.Queue, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		paths, err := media.ScanDir(arg)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("%s contains no playable files (supported: %s)", arg, media.SupportedExtsList())
		}
		return queue.FromPaths(paths), nil
	}

	ext := strings.ToLower(filepath.Ext(arg))
	if media.IsPlaylistExt(ext) {
		entries, err := media.ReadPlaylist(arg)
		if err != nil {
			return nil, err
		}
		entries = media.Playable(entries)
		if len(entries) == 0 {
			return nil, fmt.Errorf("playlist %s contains no playable entries", arg)
		}
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		q := queue.FromPaths(paths)
		for i, e := range entries {
			if e.Title != "" {
				q.Track(i).Title = e.Title
			}
		}
		return q, nil
	}

	if !media.IsSupportedExt(ext) {
		return nil, fmt.Errorf("%w: %s (supported: %s)", decode.ErrUnsupportedFormat, ext, media.SupportedExtsList())
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return nil, err
	}
	siblings, err := media.ScanDir(filepath.Dir(abs))
	if err != nil || len(siblings) == 0 {
		slog.Debug("queueing single file", "path", abs, "err", err)
		return queue.FromPaths([]string{abs}), nil
	}
	q := queue.FromPaths(siblings)
	if i := q.IndexOf(abs); i >= 0 {
		q.SetCurrentIndex(i)
	}
	return q, nil
}
