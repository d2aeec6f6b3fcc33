package player

import (
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/wavescope/internal/decode"
)

// Player plays a decoded recording through the default audio device.
// It satisfies cursor.Clock.
type Player struct {
	pcm       *pcmReader
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	duration  time.Duration
	volume    float64
	paused    bool
	started   bool
	done      chan struct{}
	stopMon   chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New starts playing a at the given volume.
func New(a *decode.Audio, volume float64) (*Player, error) {
	p, err := Open(a, volume)
	if err != nil {
		return nil, err
	}
	p.Start()
	return p, nil
}

// Open prepares a for playback without producing any sound. The Player stays
// paused until Start is called.
func Open(a *decode.Audio, volume float64) (*Player, error) {
	if a == nil || a.Frames() == 0 {
		return nil, errors.New("nothing to play")
	}

	ctx, err := initOto()
	if err != nil {
		return nil, err
	}

	p := &Player{
		pcm:      &pcmReader{data: encodePCM(a.Buffer, a.SampleRate)},
		otoCtx:   ctx,
		duration: a.Duration,
		volume:   clampVolume(volume),
		paused:   true,
		done:     make(chan struct{}),
		stopMon:  make(chan struct{}),
	}

	p.otoPlayer = ctx.NewPlayer(p.pcm)
	p.otoPlayer.SetVolume(p.volume)

	return p, nil
}

// Start begins playback and end-of-stream monitoring. Later calls, and calls
// after Close, do nothing.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.started {
		return
	}
	p.started = true
	p.playLocked()
	go p.monitor(p.done)
}

func (p *Player) monitor(done chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.closed || p.done != done {
			p.mu.Unlock()
			return
		}
		finished := !p.paused && p.pcm.Pos() >= p.pcm.Len() && p.bufferedLocked() == 0
		if finished {
			p.closeDoneLocked()
		}
		p.mu.Unlock()

		if finished {
			return
		}
	}
}

// closeDoneLocked releases anything waiting on Done. The channel may already
// be closed by the monitor.
func (p *Player) closeDoneLocked() {
	if p.done == nil {
		return
	}
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

// Done returns a channel that closes when playback reaches the end or the
// Player is closed.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart seeks to the beginning and resumes playback. Done returns a fresh
// channel afterwards.
func (p *Player) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.pcm.SetPos(0)
	p.resetOutputLocked(true)
	p.done = make(chan struct{})
	go p.monitor(p.done)
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.playLocked()
	} else {
		p.pauseLocked()
	}
}

func (p *Player) pauseLocked() {
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.paused = true
}

func (p *Player) playLocked() {
	if p.otoPlayer != nil {
		p.otoPlayer.Play()
	}
	p.paused = false
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns how much audio has actually been played, excluding what
// is still queued in the output buffer.
func (p *Player) Position() time.Duration {
	if p.pcm == nil {
		return 0
	}
	p.mu.Lock()
	played := p.pcm.Pos() - p.bufferedLocked()
	p.mu.Unlock()

	if played < 0 {
		played = 0
	}
	return time.Duration(float64(played) / bytesPerSec * float64(time.Second))
}

func (p *Player) bufferedLocked() int64 {
	if p.otoPlayer == nil {
		return 0
	}
	return int64(p.otoPlayer.BufferedSize())
}

// Duration returns the total duration of the recording.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) {
	resume := !p.Paused()
	_ = p.SeekTo(p.Position()+delta, resume)
}

// SeekTo jumps to target, clamped to the recording. Playback resumes only
// when resume is true.
func (p *Player) SeekTo(target time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.pcm == nil {
		return errors.New("player closed")
	}

	p.pcm.SetPos(clampSeekByteOffset(target, bytesPerSec, p.pcm.Len(), playbackFrameSize))
	p.resetOutputLocked(resume)
	return nil
}

// resetOutputLocked recreates the oto player so queued audio from before a
// seek is dropped.
func (p *Player) resetOutputLocked(resume bool) {
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.otoCtx != nil {
		p.otoPlayer = p.otoCtx.NewPlayer(p.pcm)
		p.otoPlayer.SetVolume(p.volume)
	}
	if resume {
		p.playLocked()
	} else {
		p.paused = true
	}
}

func clampSeekByteOffset(target time.Duration, bytesPerSec, length, frameSize int64) int64 {
	pos := int64(target.Seconds() * float64(bytesPerSec))
	if pos < 0 {
		pos = 0
	}
	if pos > length {
		pos = length
	}
	return pos - pos%frameSize
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(v)
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Close stops playback and releases resources. It is safe to call twice.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.stopMon != nil {
		close(p.stopMon)
	}
	p.closeDoneLocked()
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
}
