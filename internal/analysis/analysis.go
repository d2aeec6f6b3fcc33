// Package analysis runs one load of a recording through the waveform
// pipeline: decode, downsample, then generate the path.
package analysis

import (
	"log/slog"
	"time"

	"github.com/olivier-w/wavescope/internal/decode"
	"github.com/olivier-w/wavescope/internal/svgpath"
	"github.com/olivier-w/wavescope/internal/waveform"
)

// Options controls the shape of the generated path.
type Options struct {
	DataPoints int
	Height     float64
	Smoothing  float64
}

// Result is everything derived from one recording.
type Result struct {
	Audio    *decode.Audio
	Envelope waveform.Envelope
	Path     svgpath.Path
}

// File decodes path and analyzes it.
func File(path string, opts Options) (*Result, error) {
	start := time.Now()
	a, err := decode.File(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("decoded audio data",
		"path", path,
		"format", a.Format,
		"channels", a.Channels(),
		"frames", a.Frames(),
		"elapsed", time.Since(start))

	return Audio(a, opts)
}

// Audio analyzes already decoded audio.
func Audio(a *decode.Audio, opts Options) (*Result, error) {
	start := time.Now()
	env, err := waveform.Downsample(a.Buffer, opts.DataPoints)
	if err != nil {
		return nil, err
	}
	slog.Debug("computed waveform", "points", len(env), "elapsed", time.Since(start))

	start = time.Now()
	p, err := svgpath.Generate(env, opts.Height, opts.Smoothing)
	if err != nil {
		return nil, err
	}
	slog.Debug("computed SVG path", "commands", len(p.Commands), "elapsed", time.Since(start))

	return &Result{Audio: a, Envelope: env, Path: p}, nil
}
