package ui

import (
	"time"

	"github.com/olivier-w/wavescope/internal/cursor"
	"github.com/olivier-w/wavescope/internal/player"
)

// playback is the slice of *player.Player the model drives. The cursor
// tracker samples it through cursor.Clock.
type playback interface {
	cursor.Clock
	Start()
	Done() <-chan struct{}
	Restart()
	TogglePause()
	Paused() bool
	Seek(delta time.Duration)
	SeekTo(target time.Duration, resume bool) error
	Volume() float64
	AdjustVolume(delta float64)
	Close()
}

var _ playback = (*player.Player)(nil)
