// Package cursor keeps a playback cursor in step with a playback clock.
//
// There is no push notification when playback time advances, so the cursor
// is recomputed by polling the clock on a fixed cadence. Each tick is
// independent: it reads the latest position and duration and maps them onto
// the target width.
package cursor

import (
	"context"
	"math"
	"sync"
	"time"
)

// DefaultInterval polls roughly once per display refresh.
const DefaultInterval = time.Second / 60

// Clock reports playback progress. A non-positive Duration means the length
// is not known yet.
type Clock interface {
	Position() time.Duration
	Duration() time.Duration
}

// State is a single sample of a Clock.
type State struct {
	Position time.Duration
	Duration time.Duration
}

// Sample reads the current state of c.
func Sample(c Clock) State {
	return State{Position: c.Position(), Duration: c.Duration()}
}

// Overlay is the cursor offset together with the two rectangles that color
// the played and remaining parts of the waveform.
type Overlay struct {
	Offset         float64
	PlayedWidth    float64
	RemainingX     float64
	RemainingWidth float64
}

// OverlayAt builds the overlay for an offset within width.
func OverlayAt(offset, width float64) Overlay {
	return Overlay{
		Offset:         offset,
		PlayedWidth:    offset,
		RemainingX:     offset,
		RemainingWidth: width - offset,
	}
}

// Compute maps state onto width. It reports false when the state cannot
// produce a finite offset (unknown duration, negative position, no width);
// callers should then leave the cursor where it was.
func Compute(state State, width float64) (Overlay, bool) {
	if state.Duration <= 0 || state.Position < 0 || !(width > 0) || math.IsInf(width, 0) {
		return Overlay{}, false
	}
	offset := state.Position.Seconds() / state.Duration.Seconds() * width
	if offset > width {
		offset = width
	}
	return OverlayAt(offset, width), true
}

// Tracker polls a Clock for one playback session. It only remembers the last
// emitted overlay, which is used to skip redundant emissions.
type Tracker struct {
	clock Clock

	mu      sync.Mutex
	width   float64
	last    Overlay
	hasLast bool
	stale   bool
}

// New returns a Tracker mapping clock onto width.
func New(clock Clock, width float64) *Tracker {
	return &Tracker{clock: clock, width: width}
}

// Tick samples the clock once. It returns false when nothing should be
// emitted: the state is not usable yet, or the offset has not moved since
// the last emission.
func (t *Tracker) Tick() (Overlay, bool) {
	state := Sample(t.clock)

	t.mu.Lock()
	defer t.mu.Unlock()

	ov, ok := Compute(state, t.width)
	if !ok {
		return Overlay{}, false
	}
	if t.hasLast && !t.stale && ov == t.last {
		return Overlay{}, false
	}
	t.last = ov
	t.hasLast = true
	t.stale = false
	return ov, true
}

// Last returns the most recently emitted overlay.
func (t *Tracker) Last() (Overlay, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.hasLast
}

// Width returns the current target width.
func (t *Tracker) Width() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// SetWidth changes the target width. The next usable tick always emits.
func (t *Tracker) SetWidth(width float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if width == t.width {
		return
	}
	t.width = width
	t.stale = true
}

// Run calls Tick every interval and passes emitted overlays to emit until ctx
// is cancelled. Reaching the end of the track does not stop the loop, since
// playback may be restarted or seeked backwards.
func (t *Tracker) Run(ctx context.Context, interval time.Duration, emit func(Overlay)) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if ov, ok := t.Tick(); ok {
		emit(ov)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ov, ok := t.Tick(); ok {
				emit(ov)
			}
		}
	}
}

// FractionAt converts a pointer position x within a rendered width into a
// fraction of the total width in [0, 1]. Both arguments use the same unit
// (pixels, terminal cells); the result is unitless.
func FractionAt(x, renderedWidth float64) float64 {
	if !(renderedWidth > 0) {
		return 0
	}
	return clamp01(x / renderedWidth)
}

// SeekTarget converts a fraction of the total width (not a pixel offset) into
// a playback position.
func SeekTarget(fraction float64, duration time.Duration) time.Duration {
	if duration <= 0 {
		return 0
	}
	return time.Duration(clamp01(fraction) * float64(duration))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
