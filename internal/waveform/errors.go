package waveform

import "errors"

var (
	ErrInsufficientSamples = errors.New("waveform: buffer has no samples")
	ErrChannelMismatch     = errors.New("waveform: channels differ in length")
	ErrInvalidDataPoints   = errors.New("waveform: data points must be positive")
	ErrInvalidWindowSize   = errors.New("waveform: more data points than samples per channel")
	ErrInvalidChannelCount = errors.New("waveform: channel count must be positive")
)
