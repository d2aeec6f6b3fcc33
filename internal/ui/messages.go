package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavescope/internal/analysis"
	"github.com/olivier-w/wavescope/internal/player"
)

// Every message tied to a load carries the generation it was issued under.
// Handlers drop anything from an older generation, which is how a tracking
// loop or analysis for a previous file gets superseded.

type tickMsg struct {
	gen uint64
}

type playbackEndedMsg struct {
	gen uint64
}

type loadedMsg struct {
	gen      uint64
	trackID  string
	result   *analysis.Result
	playback playback
	meta     player.Metadata
	err      error
}

type reshapedMsg struct {
	gen    uint64
	cols   int
	rows   int
	result *analysis.Result
	err    error
}

// BrowserSelectedMsg is emitted by an embedded browser when a file is picked.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is emitted by an embedded browser when the user quits.
type BrowserCancelledMsg struct{}

func tickCmd(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func checkDone(p playback, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{gen: gen}
	}
}
