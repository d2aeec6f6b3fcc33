package queue

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TrackState represents the analysis/playback state of a track.
type TrackState int

const (
	Ready TrackState = iota
	Loading
	Playing
	Done
	Failed
)

// Track represents a single file in the queue.
type Track struct {
	ID    string
	Title string
	Path  string
	State TrackState
}

// Queue manages an ordered list of tracks for next/previous navigation.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	tracks  []Track
	current int
}

// New creates a Queue from the given tracks.
func New(tracks []Track) *Queue {
	return &Queue{tracks: tracks}
}

// FromPaths builds a Queue with one Ready track per path. Each track gets a
// fresh ID so stale analysis results can be told apart from current ones.
func FromPaths(paths []string) *Queue {
	tracks := make([]Track, len(paths))
	for i, p := range paths {
		tracks[i] = Track{
			ID:    uuid.NewString(),
			Title: strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Path:  p,
			State: Ready,
		}
	}
	return New(tracks)
}

// Current returns a pointer to the current track, or nil if empty.
func (q *Queue) Current() *Track {
	return q.Track(q.current)
}

// Advance moves the current index forward by one. Returns false if already at end.
func (q *Queue) Advance() bool {
	if q.current+1 >= len(q.tracks) {
		return false
	}
	q.current++
	return true
}

// Previous moves the current index back by one. Returns false if already at start.
func (q *Queue) Previous() bool {
	if q.current <= 0 {
		return false
	}
	q.current--
	return true
}

// Len returns the total number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetCurrentIndex sets the current track index directly.
func (q *Queue) SetCurrentIndex(i int) {
	if i >= 0 && i < len(q.tracks) {
		q.current = i
	}
}

// IndexOf returns the index of the track with the given path, or -1.
func (q *Queue) IndexOf(path string) int {
	for i := range q.tracks {
		if q.tracks[i].Path == path {
			return i
		}
	}
	return -1
}

// SetTrackState sets the state of the track at the given index.
func (q *Queue) SetTrackState(i int, state TrackState) {
	if i >= 0 && i < len(q.tracks) {
		q.tracks[i].State = state
	}
}

// Track returns a pointer to the track at the given index, or nil if out of range.
func (q *Queue) Track(i int) *Track {
	if i < 0 || i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}
