package player

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/olivier-w/wavescope/internal/waveform"
)

const (
	playbackSampleRate     = 48000
	playbackChannels       = 2
	playbackBytesPerSample = 2
	playbackFrameSize      = playbackChannels * playbackBytesPerSample
	bytesPerSec            = playbackSampleRate * playbackFrameSize
)

// encodePCM renders buf as 48 kHz stereo s16le. Mono is duplicated to both
// sides; channels past the second are not played. Other sample rates are
// linearly interpolated.
func encodePCM(buf waveform.SampleBuffer, srcRate int) []byte {
	frames := int64(buf.Len())
	if frames == 0 || srcRate <= 0 {
		return nil
	}
	left := buf.Channels[0]
	right := left
	if len(buf.Channels) > 1 {
		right = buf.Channels[1]
	}

	outFrames := frames * playbackSampleRate / int64(srcRate)
	if outFrames == 0 {
		outFrames = 1
	}
	raw := make([]byte, outFrames*playbackFrameSize)

	for o := range outFrames {
		var l, r float32
		if srcRate == playbackSampleRate {
			l, r = left[o], right[o]
		} else {
			pos := o * int64(srcRate)
			i0 := pos / playbackSampleRate
			i1 := i0 + 1
			if i1 >= frames {
				i1 = frames - 1
			}
			frac := float32(pos%playbackSampleRate) / playbackSampleRate
			l = left[i0] + (left[i1]-left[i0])*frac
			r = right[i0] + (right[i1]-right[i0])*frac
		}
		off := o * playbackFrameSize
		binary.LittleEndian.PutUint16(raw[off:], uint16(toInt16(l)))
		binary.LittleEndian.PutUint16(raw[off+2:], uint16(toInt16(r)))
	}
	return raw
}

func toInt16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}

// pcmReader serves encoded PCM to oto and tracks how much has been consumed.
type pcmReader struct {
	data []byte
	pos  int64
	mu   sync.Mutex
}

func (r *pcmReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += int64(n)
	return n, nil
}

func (r *pcmReader) Pos() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

func (r *pcmReader) SetPos(pos int64) {
	r.mu.Lock()
	r.pos = pos
	r.mu.Unlock()
}

func (r *pcmReader) Len() int64 {
	return int64(len(r.data))
}
