// Package waveform reduces decoded audio to a fixed-length amplitude envelope.
package waveform

import (
	"fmt"
	"math"
)

// SampleBuffer holds decoded audio as one slice per channel. All channels
// must have the same length and samples are expected in [-1, 1].
type SampleBuffer struct {
	Channels [][]float32
}

// Len returns the number of samples per channel.
func (b SampleBuffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Envelope is a sequence of per-window average absolute amplitudes.
type Envelope []float64

// Downsample averages buf into dataPoints windows. For every sample index the
// absolute values of all channels are averaged, then each window averages
// those combined values.
//
// The window size is round(N / dataPoints). The last window absorbs any
// samples left past dataPoints*windowSize; windows starting past the end of
// the buffer stay at zero. The result is never normalized.
//
// Strict fixed-size windowing would instead leave a short final window at
// zero and ignore every sample past dataPoints*windowSize. Folding the tail
// into the last window keeps the end of the recording visible.
func Downsample(buf SampleBuffer, dataPoints int) (Envelope, error) {
	if err := validate(buf); err != nil {
		return nil, err
	}
	if dataPoints <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDataPoints, dataPoints)
	}

	n := buf.Len()
	if dataPoints > n {
		return nil, fmt.Errorf("%w: %d points for %d samples", ErrInvalidWindowSize, dataPoints, n)
	}

	window := int(math.Round(float64(n) / float64(dataPoints)))
	env := make(Envelope, dataPoints)
	for i := range dataPoints {
		start := i * window
		if start >= n {
			break
		}
		end := start + window
		if end > n || i == dataPoints-1 {
			end = n
		}

		var sum float64
		for j := start; j < end; j++ {
			sum += buf.combined(j)
		}
		env[i] = sum / float64(end-start)
	}
	return env, nil
}

// combined returns the mean absolute value of sample j across channels.
func (b SampleBuffer) combined(j int) float64 {
	if len(b.Channels) == 1 {
		return math.Abs(float64(b.Channels[0][j]))
	}
	var sum float64
	for _, ch := range b.Channels {
		sum += math.Abs(float64(ch[j]))
	}
	return sum / float64(len(b.Channels))
}

func validate(buf SampleBuffer) error {
	if len(buf.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInsufficientSamples)
	}
	n := len(buf.Channels[0])
	if n == 0 {
		return fmt.Errorf("%w: empty channel", ErrInsufficientSamples)
	}
	for c, ch := range buf.Channels[1:] {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelMismatch, c+1, len(ch), n)
		}
	}
	return nil
}

// Peak returns the largest value in env, or 0 for an empty envelope.
func Peak(env Envelope) float64 {
	var peak float64
	for _, v := range env {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// FromInterleaved splits interleaved frames into a SampleBuffer. Trailing
// samples that do not form a whole frame are dropped.
func FromInterleaved(samples []float32, channels int) (SampleBuffer, error) {
	if channels <= 0 {
		return SampleBuffer{}, fmt.Errorf("%w: got %d", ErrInvalidChannelCount, channels)
	}
	frames := len(samples) / channels
	if frames == 0 {
		return SampleBuffer{}, fmt.Errorf("%w: %d samples for %d channels", ErrInsufficientSamples, len(samples), channels)
	}

	buf := SampleBuffer{Channels: make([][]float32, channels)}
	for c := range channels {
		buf.Channels[c] = make([]float32, frames)
	}
	for f := range frames {
		base := f * channels
		for c := range channels {
			buf.Channels[c][f] = samples[base+c]
		}
	}
	return buf, nil
}
