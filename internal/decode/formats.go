package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/olivier-w/wavescope/internal/waveform"
)

// go-mp3 always produces 16-bit little-endian stereo.
const mp3Channels = 2

func decodeMP3(r io.ReadSeeker) (*Audio, error) {
	trim, err := readMP3Trim(r)
	if err != nil {
		return nil, err
	}
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768.0
	}
	return fromInterleaved(trim.apply(samples, mp3Channels), mp3Channels, dec.SampleRate())
}

func decodeWAV(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	if buf.Format == nil {
		return nil, errors.New("missing WAV format")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	samples, err := intToFloat(buf, bitDepth, true)
	if err != nil {
		return nil, err
	}
	return fromInterleaved(samples, buf.Format.NumChannels, buf.Format.SampleRate)
}

// intToFloat scales integer PCM into [-1, 1]. 8-bit WAV is unsigned, 8-bit
// AIFF is signed.
func intToFloat(buf *audio.IntBuffer, bitDepth int, unsigned8 bool) ([]float32, error) {
	out := make([]float32, len(buf.Data))
	switch bitDepth {
	case 8:
		offset := 0
		if unsigned8 {
			offset = 128
		}
		for i, v := range buf.Data {
			out[i] = clampUnit(float32(v-offset) / 128.0)
		}
	case 16, 24, 32:
		scale := float32(int64(1) << (bitDepth - 1))
		for i, v := range buf.Data {
			out[i] = clampUnit(float32(v) / scale)
		}
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	return out, nil
}

// aiffChunkFrames is how many frames are read per PCMBuffer call.
const aiffChunkFrames = 4096

func decodeAIFF(r io.ReadSeeker) (*Audio, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid AIFF file")
	}
	dec.ReadInfo()
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, errors.New("missing AIFF format")
	}

	chunk := &audio.IntBuffer{
		Data:   make([]int, aiffChunkFrames*format.NumChannels),
		Format: format,
	}
	var data []int
	for {
		n, err := dec.PCMBuffer(chunk)
		data = append(data, chunk.Data[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading AIFF PCM data: %w", err)
		}
		if n == 0 || err != nil {
			break
		}
	}

	samples, err := intToFloat(&audio.IntBuffer{Data: data}, int(dec.BitDepth), false)
	if err != nil {
		return nil, err
	}
	return fromInterleaved(samples, format.NumChannels, format.SampleRate)
}

func decodeFLAC(r io.Reader) (*Audio, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	if channels == 0 {
		return nil, errors.New("FLAC stream has no channels")
	}
	if info.BitsPerSample == 0 || info.BitsPerSample > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", info.BitsPerSample)
	}
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	buf := waveform.SampleBuffer{Channels: make([][]float32, channels)}
	for c := range channels {
		buf.Channels[c] = make([]float32, 0, info.NSamples)
	}
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for c := range channels {
			for _, s := range frame.Subframes[c].Samples {
				buf.Channels[c] = append(buf.Channels[c], clampUnit(float32(s)/scale))
			}
		}
	}
	if buf.Len() == 0 {
		return nil, waveform.ErrInsufficientSamples
	}
	return &Audio{Buffer: buf, SampleRate: int(info.SampleRate)}, nil
}

func decodeOGG(r io.Reader) (*Audio, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	for i, s := range samples {
		samples[i] = clampUnit(s)
	}
	return fromInterleaved(samples, format.Channels, format.SampleRate)
}
