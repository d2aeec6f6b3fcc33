// Package decode reads a whole audio file into per-channel float samples.
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olivier-w/wavescope/internal/waveform"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDecodeFailure     = errors.New("decode failed")
)

// Audio is a fully decoded recording.
type Audio struct {
	Buffer     waveform.SampleBuffer
	SampleRate int
	Duration   time.Duration
	Format     string
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int { return a.Buffer.Len() }

// Channels returns the channel count.
func (a *Audio) Channels() int { return len(a.Buffer.Channels) }

// File detects the format by extension and decodes the whole file.
func File(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Reader(f, filepath.Ext(path))
}

// Reader decodes r as the format named by ext (".mp3", ".wav", ".flac",
// ".ogg", ".aif", ".aiff").
func Reader(r io.ReadSeeker, ext string) (*Audio, error) {
	ext = strings.ToLower(ext)

	var (
		a   *Audio
		err error
	)
	switch ext {
	case ".mp3":
		a, err = decodeMP3(r)
	case ".wav":
		a, err = decodeWAV(r)
	case ".flac":
		a, err = decodeFLAC(r)
	case ".ogg":
		a, err = decodeOGG(r)
	case ".aif", ".aiff":
		a, err = decodeAIFF(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, strings.TrimPrefix(ext, "."), err)
	}
	if a.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", ErrDecodeFailure, a.SampleRate)
	}
	a.Format = strings.TrimPrefix(ext, ".")
	a.Duration = time.Duration(a.Frames()) * time.Second / time.Duration(a.SampleRate)
	return a, nil
}

func fromInterleaved(samples []float32, channels, sampleRate int) (*Audio, error) {
	buf, err := waveform.FromInterleaved(samples, channels)
	if err != nil {
		return nil, err
	}
	return &Audio{Buffer: buf, SampleRate: sampleRate}, nil
}

func clampUnit(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
