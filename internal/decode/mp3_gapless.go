package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// mp3DecoderDelay is the fixed synthesis delay of a layer III decoder, in
// frames, added on top of the encoder delay stored in the LAME tag.
const mp3DecoderDelay = 529

// mp3Trim is how many frames of encoder priming and padding surround the
// real audio in an MP3 stream.
type mp3Trim struct {
	start int
	end   int
}

// readMP3Trim reads the LAME gapless info from the Xing/Info frame of r. It
// returns a zero trim when the stream carries none and leaves r positioned
// where it was.
func readMP3Trim(r io.ReadSeeker) (mp3Trim, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return mp3Trim{}, err
	}
	defer func() {
		_, _ = r.Seek(pos, io.SeekStart)
	}()

	frameOffset, err := firstMP3FrameOffset(r)
	if err != nil {
		return mp3Trim{}, nil
	}
	if _, err := r.Seek(frameOffset, io.SeekStart); err != nil {
		return mp3Trim{}, err
	}

	head := make([]byte, 4)
	if _, err := io.ReadFull(r, head); err != nil {
		return mp3Trim{}, nil
	}
	h, err := parseMP3FrameHeader(head)
	if err != nil {
		return mp3Trim{}, nil
	}

	if _, err := r.Seek(frameOffset+int64(4+h.crcBytes+h.sideInfoBytes), io.SeekStart); err != nil {
		return mp3Trim{}, err
	}
	buf := make([]byte, 256)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return mp3Trim{}, nil
	}

	trim, _ := parseLAMETrim(buf[:n])
	return trim, nil
}

// firstMP3FrameOffset skips a leading ID3v2 tag.
func firstMP3FrameOffset(r io.ReadSeeker) (int64, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}
	if n < 10 {
		return 0, io.EOF
	}

	if bytes.Equal(header[:3], []byte("ID3")) {
		size := synchsafeUint32(header[6:10])
		footer := 0
		if header[5]&0x10 != 0 {
			footer = 10
		}
		return int64(10 + size + footer), nil
	}
	return 0, nil
}

func synchsafeUint32(b []byte) int {
	return int(b[0]&0x7f)<<21 | int(b[1]&0x7f)<<14 | int(b[2]&0x7f)<<7 | int(b[3]&0x7f)
}

type mp3FrameHeader struct {
	crcBytes      int
	sideInfoBytes int
}

var errNotLayer3 = errors.New("not an MPEG layer III frame")

func parseMP3FrameHeader(b []byte) (mp3FrameHeader, error) {
	if len(b) < 4 {
		return mp3FrameHeader{}, errNotLayer3
	}
	h := binary.BigEndian.Uint32(b)
	if h>>21 != 0x7ff {
		return mp3FrameHeader{}, errNotLayer3
	}

	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	unprotected := (h >> 16) & 0x1
	mode := (h >> 6) & 0x3

	// version 01 is reserved
	if layer != 0x1 || version == 0x1 {
		return mp3FrameHeader{}, errNotLayer3
	}

	mpeg1 := version == 0x3
	mono := mode == 0x3

	var side int
	switch {
	case mpeg1 && mono:
		side = 17
	case mpeg1:
		side = 32
	case mono:
		side = 9
	default:
		side = 17
	}

	crc := 0
	if unprotected == 0 {
		crc = 2
	}
	return mp3FrameHeader{crcBytes: crc, sideInfoBytes: side}, nil
}

// parseLAMETrim reads encoder delay and padding from a Xing/Info tag.
func parseLAMETrim(b []byte) (mp3Trim, bool) {
	if len(b) < 8 {
		return mp3Trim{}, false
	}
	if tag := string(b[:4]); tag != "Xing" && tag != "Info" {
		return mp3Trim{}, false
	}

	flags := binary.BigEndian.Uint32(b[4:8])
	offset := 8
	if flags&0x1 != 0 { // frame count
		offset += 4
	}
	if flags&0x2 != 0 { // byte count
		offset += 4
	}
	if flags&0x4 != 0 { // seek table
		offset += 100
	}
	if flags&0x8 != 0 { // quality
		offset += 4
	}
	if len(b) < offset+24 {
		return mp3Trim{}, false
	}

	dp := b[offset+21 : offset+24]
	delay := int(dp[0])<<4 | int(dp[1]>>4)
	padding := int(dp[1]&0x0f)<<8 | int(dp[2])
	if delay == 0 && padding == 0 {
		return mp3Trim{}, false
	}
	return mp3Trim{
		start: delay + mp3DecoderDelay,
		end:   max(padding-mp3DecoderDelay, 0),
	}, true
}

// apply drops the trimmed frames from interleaved samples. Streams shorter
// than the trim are returned unchanged.
func (t mp3Trim) apply(samples []float32, channels int) []float32 {
	start, end := t.start*channels, t.end*channels
	if start+end >= len(samples) {
		return samples
	}
	return samples[start : len(samples)-end]
}
