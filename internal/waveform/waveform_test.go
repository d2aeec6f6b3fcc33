package waveform

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func alternating(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

func noise(seed uint64, n int) []float32 {
	r := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]float32, n)
	for i := range out {
		out[i] = r.Float32()*2 - 1
	}
	return out
}

func TestDownsampleAlternatingStereo(t *testing.T) {
	buf := SampleBuffer{Channels: [][]float32{alternating(1000), alternating(1000)}}

	env, err := Downsample(buf, 10)
	if err != nil {
		t.Fatalf("Downsample() error = %v", err)
	}
	if len(env) != 10 {
		t.Fatalf("expected 10 points, got %d", len(env))
	}
	for i, v := range env {
		if v != 1.0 {
			t.Fatalf("point %d: expected 1.0, got %v", i, v)
		}
	}
}

func TestDownsampleLengthAndSign(t *testing.T) {
	buf := SampleBuffer{Channels: [][]float32{noise(1, 4410), noise(2, 4410)}}
	for _, points := range []int{1, 7, 100, 441, 4410} {
		env, err := Downsample(buf, points)
		if err != nil {
			t.Fatalf("Downsample(%d) error = %v", points, err)
		}
		if len(env) != points {
			t.Fatalf("Downsample(%d) returned %d points", points, len(env))
		}
		for i, v := range env {
			if v < 0 {
				t.Fatalf("Downsample(%d) point %d is negative: %v", points, i, v)
			}
		}
	}
}

func TestDownsampleSilence(t *testing.T) {
	buf := SampleBuffer{Channels: [][]float32{make([]float32, 500), make([]float32, 500)}}

	env, err := Downsample(buf, 25)
	if err != nil {
		t.Fatalf("Downsample() error = %v", err)
	}
	for i, v := range env {
		if v != 0 {
			t.Fatalf("point %d: expected silence, got %v", i, v)
		}
	}
}

func TestDownsampleIsDeterministic(t *testing.T) {
	buf := SampleBuffer{Channels: [][]float32{noise(7, 9999), noise(8, 9999), noise(9, 9999)}}

	a, err := Downsample(buf, 123)
	if err != nil {
		t.Fatalf("Downsample() error = %v", err)
	}
	b, err := Downsample(buf, 123)
	if err != nil {
		t.Fatalf("Downsample() error = %v", err)
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("point %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDownsampleAveragesAbsoluteValues(t *testing.T) {
	tests := []struct {
		name     string
		channels [][]float32
		want     float64
	}{
		{
			name:     "mono",
			channels: [][]float32{{-0.5, -0.5, -0.5, -0.5}},
			want:     0.5,
		},
		{
			name:     "opposite stereo does not cancel",
			channels: [][]float32{{1, 1, 1, 1}, {-1, -1, -1, -1}},
			want:     1,
		},
		{
			name:     "three channels",
			channels: [][]float32{{1, 1, 1, 1}, {0, 0, 0, 0}, {-0.5, -0.5, -0.5, -0.5}},
			want:     0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Downsample(SampleBuffer{Channels: tt.channels}, 2)
			if err != nil {
				t.Fatalf("Downsample() error = %v", err)
			}
			for i, v := range env {
				if v != tt.want {
					t.Fatalf("point %d: expected %v, got %v", i, tt.want, v)
				}
			}
		})
	}
}

func TestDownsampleRoundedWindowLeavesTrailingZeros(t *testing.T) {
	ones := make([]float32, 15)
	for i := range ones {
		ones[i] = 1
	}

	// round(15/10) = 2: windows 0-6 are full, 7 holds one sample, 8 and 9 are past the end.
	env, err := Downsample(SampleBuffer{Channels: [][]float32{ones}}, 10)
	if err != nil {
		t.Fatalf("Downsample() error = %v", err)
	}
	want := []float64{1, 1, 1, 1, 1, 1, 1, 1, 0, 0}
	for i := range want {
		if env[i] != want[i] {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], env[i])
		}
	}
}

func TestDownsampleLastWindowAbsorbsRemainder(t *testing.T) {
	ramp := make([]float32, 14)
	for i := range ramp {
		ramp[i] = float32(i) / 16
	}

	// round(14/10) = 1: the last window spans samples 9-13.
	env, err := Downsample(SampleBuffer{Channels: [][]float32{ramp}}, 10)
	if err != nil {
		t.Fatalf("Downsample() error = %v", err)
	}
	if got := env[8]; got != 8.0/16 {
		t.Fatalf("point 8: expected %v, got %v", 8.0/16, got)
	}
	if got := env[9]; got != 11.0/16 {
		t.Fatalf("point 9: expected %v, got %v", 11.0/16, got)
	}
}

func TestDownsampleErrors(t *testing.T) {
	tests := []struct {
		name   string
		buf    SampleBuffer
		points int
		want   error
	}{
		{"no channels", SampleBuffer{}, 1, ErrInsufficientSamples},
		{"empty channel", SampleBuffer{Channels: [][]float32{{}}}, 1, ErrInsufficientSamples},
		{"mismatched channels", SampleBuffer{Channels: [][]float32{{1, 2}, {1}}}, 1, ErrChannelMismatch},
		{"zero points", SampleBuffer{Channels: [][]float32{{1, 2}}}, 0, ErrInvalidDataPoints},
		{"negative points", SampleBuffer{Channels: [][]float32{{1, 2}}}, -3, ErrInvalidDataPoints},
		{"more points than samples", SampleBuffer{Channels: [][]float32{{1, 2, 3}}}, 4, ErrInvalidWindowSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Downsample(tt.buf, tt.points)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if env != nil {
				t.Fatalf("expected no partial result, got %v", env)
			}
		})
	}
}

func TestPeak(t *testing.T) {
	if got := Peak(nil); got != 0 {
		t.Fatalf("expected 0 for empty envelope, got %v", got)
	}
	if got := Peak(Envelope{0.1, 0.7, 0.3}); got != 0.7 {
		t.Fatalf("expected 0.7, got %v", got)
	}
}

func TestFromInterleaved(t *testing.T) {
	buf, err := FromInterleaved([]float32{0.1, -0.1, 0.2, -0.2, 0.3}, 2)
	if err != nil {
		t.Fatalf("FromInterleaved() error = %v", err)
	}
	if len(buf.Channels) != 2 || buf.Len() != 2 {
		t.Fatalf("expected 2x2 buffer, got %d channels of %d", len(buf.Channels), buf.Len())
	}
	if buf.Channels[0][1] != 0.2 || buf.Channels[1][1] != -0.2 {
		t.Fatalf("unexpected deinterleave: %v", buf.Channels)
	}

	if _, err := FromInterleaved([]float32{1}, 0); !errors.Is(err, ErrInvalidChannelCount) {
		t.Fatalf("expected ErrInvalidChannelCount, got %v", err)
	}
	if _, err := FromInterleaved([]float32{1}, 2); !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples, got %v", err)
	}
}
