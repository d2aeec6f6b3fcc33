package player

import (
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/olivier-w/wavescope/internal/waveform"
)

func TestClampSeekByteOffsetClampsAndAligns(t *testing.T) {
	got := clampSeekByteOffset(3900*time.Millisecond, 10, 10, 4)
	if got != 8 {
		t.Fatalf("expected clamped aligned seek offset 8, got %d", got)
	}

	got = clampSeekByteOffset(-1*time.Second, 10, 100, 4)
	if got != 0 {
		t.Fatalf("expected negative seek to clamp to 0, got %d", got)
	}
}

func TestStartPlaysOnceAndSignalsEnd(t *testing.T) {
	p := &Player{
		pcm:     &pcmReader{},
		paused:  true,
		done:    make(chan struct{}),
		stopMon: make(chan struct{}),
	}
	p.Start()
	p.Start()
	if p.Paused() {
		t.Fatal("expected Start to resume playback")
	}

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected Done to close once the stream is drained")
	}
	p.Close()
}

func TestCloseReleasesDoneWaiters(t *testing.T) {
	p := &Player{
		pcm:     &pcmReader{data: make([]byte, bytesPerSec)},
		done:    make(chan struct{}),
		stopMon: make(chan struct{}),
	}
	done := p.Done()

	released := make(chan struct{})
	go func() {
		<-done
		close(released)
	}()

	p.Close()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("expected Done to unblock after Close")
	}

	p.Start()
	if p.started {
		t.Fatal("expected Start after Close to do nothing")
	}
}

func TestSeekToClampsAndAlignsToFrameBoundary(t *testing.T) {
	p := &Player{pcm: &pcmReader{data: make([]byte, bytesPerSec*4+2)}}

	if err := p.SeekTo(10*time.Second, false); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if got := p.pcm.Pos(); got != bytesPerSec*4 {
		t.Fatalf("expected position %d, got %d", bytesPerSec*4, got)
	}
	if !p.paused {
		t.Fatal("expected paused state after non-resuming seek")
	}
	if got := p.Position(); got != 4*time.Second {
		t.Fatalf("expected 4s, got %v", got)
	}

	if err := p.SeekTo(1500*time.Millisecond, true); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if got := p.Position(); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", got)
	}
	if p.paused {
		t.Fatal("expected resumed state")
	}
}

func TestPlayerCloseIsIdempotent(t *testing.T) {
	p := &Player{pcm: &pcmReader{}, stopMon: make(chan struct{})}
	p.Close()
	p.Close()

	if err := p.SeekTo(time.Second, true); err == nil {
		t.Fatal("expected seek on closed player to fail")
	}
}

func TestZeroPlayerReportsZeroPosition(t *testing.T) {
	p := new(Player)
	if got := p.Position(); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestAdjustVolumeClamps(t *testing.T) {
	p := &Player{volume: 0.95}
	p.AdjustVolume(0.1)
	if p.Volume() != 1 {
		t.Fatalf("expected volume 1, got %v", p.Volume())
	}
	p.AdjustVolume(-2)
	if p.Volume() != 0 {
		t.Fatalf("expected volume 0, got %v", p.Volume())
	}
}

func frameAt(raw []byte, i int) (int16, int16) {
	off := i * playbackFrameSize
	return int16(binary.LittleEndian.Uint16(raw[off:])), int16(binary.LittleEndian.Uint16(raw[off+2:]))
}

func TestEncodePCMPassthroughStereo(t *testing.T) {
	buf := waveform.SampleBuffer{Channels: [][]float32{{1, 0}, {-1, 0.5}}}
	raw := encodePCM(buf, playbackSampleRate)
	if len(raw) != 2*playbackFrameSize {
		t.Fatalf("expected 2 frames, got %d bytes", len(raw))
	}
	l, r := frameAt(raw, 0)
	if l != 32767 || r != -32767 {
		t.Fatalf("unexpected first frame %d/%d", l, r)
	}
	l, r = frameAt(raw, 1)
	if l != 0 || r != 16383 {
		t.Fatalf("unexpected second frame %d/%d", l, r)
	}
}

func TestEncodePCMDuplicatesMonoAndResamples(t *testing.T) {
	mono := make([]float32, 24000)
	for i := range mono {
		mono[i] = 0.5
	}
	raw := encodePCM(waveform.SampleBuffer{Channels: [][]float32{mono}}, 24000)
	if got := len(raw) / playbackFrameSize; got != 48000 {
		t.Fatalf("expected 48000 frames, got %d", got)
	}
	for _, i := range []int{0, 1, 24001, 47999} {
		l, r := frameAt(raw, i)
		if l != r || l != 16383 {
			t.Fatalf("frame %d: expected 16383/16383, got %d/%d", i, l, r)
		}
	}
}

func TestPCMReaderReadsToEOF(t *testing.T) {
	r := &pcmReader{data: []byte{1, 2, 3}}
	buf := make([]byte, 2)
	if n, err := r.Read(buf); n != 2 || err != nil {
		t.Fatalf("first read = %d, %v", n, err)
	}
	if n, err := r.Read(buf); n != 1 || err != nil {
		t.Fatalf("second read = %d, %v", n, err)
	}
	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}
