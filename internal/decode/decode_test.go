package decode

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, sampleRate, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestFileDecodesStereoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	data := make([]int, 0, 1600)
	for range 800 {
		data = append(data, 16384, -32768)
	}
	writeWAV(t, path, 8000, 2, data)

	a, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if a.Format != "wav" {
		t.Fatalf("expected format wav, got %q", a.Format)
	}
	if a.Channels() != 2 || a.Frames() != 800 {
		t.Fatalf("expected 2x800, got %dx%d", a.Channels(), a.Frames())
	}
	if a.SampleRate != 8000 {
		t.Fatalf("expected 8000 Hz, got %d", a.SampleRate)
	}
	if a.Duration != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %v", a.Duration)
	}
	if got := a.Buffer.Channels[0][10]; got != 0.5 {
		t.Fatalf("expected left 0.5, got %v", got)
	}
	if got := a.Buffer.Channels[1][10]; got != -1 {
		t.Fatalf("expected right -1, got %v", got)
	}
}

func TestFileDecodesMonoAIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create aiff: %v", err)
	}
	data := make([]int, 0, 400)
	for i := range 400 {
		if i%2 == 0 {
			data = append(data, 16384)
		} else {
			data = append(data, -16384)
		}
	}
	enc := aiff.NewEncoder(f, 8000, 16, 1)
	if err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatalf("write aiff: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close aiff: %v", err)
	}
	f.Close()

	a, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if a.Format != "aiff" || a.Channels() != 1 || a.Frames() != 400 {
		t.Fatalf("unexpected audio: format=%q channels=%d frames=%d", a.Format, a.Channels(), a.Frames())
	}
	if a.Duration != 50*time.Millisecond {
		t.Fatalf("expected 50ms, got %v", a.Duration)
	}
	if a.Buffer.Channels[0][0] != 0.5 || a.Buffer.Channels[0][1] != -0.5 {
		t.Fatalf("unexpected samples %v", a.Buffer.Channels[0][:2])
	}
}

func TestFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := File(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReaderWrapsDecodeFailures(t *testing.T) {
	for _, ext := range []string{".mp3", ".wav", ".flac", ".ogg", ".aiff"} {
		t.Run(ext, func(t *testing.T) {
			_, err := Reader(bytes.NewReader(nil), ext)
			if !errors.Is(err, ErrDecodeFailure) {
				t.Fatalf("expected ErrDecodeFailure, got %v", err)
			}
		})
	}
}

func TestIntToFloat(t *testing.T) {
	tests := []struct {
		name      string
		bitDepth  int
		unsigned8 bool
		data      []int
		want      []float32
	}{
		{"8-bit unsigned", 8, true, []int{0, 128, 192}, []float32{-1, 0, 0.5}},
		{"8-bit signed", 8, false, []int{-128, 0, 64}, []float32{-1, 0, 0.5}},
		{"16-bit", 16, false, []int{-32768, 0, 16384}, []float32{-1, 0, 0.5}},
		{"24-bit", 24, false, []int{-8388608, 4194304}, []float32{-1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intToFloat(&audio.IntBuffer{Data: tt.data}, tt.bitDepth, tt.unsigned8)
			if err != nil {
				t.Fatalf("intToFloat() error = %v", err)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("sample %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}

	if _, err := intToFloat(&audio.IntBuffer{Data: []int{1}}, 12, false); err == nil {
		t.Fatal("expected error for 12-bit audio")
	}
}
