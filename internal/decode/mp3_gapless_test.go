package decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// lameTag builds an Info tag with only the frame count flag set and the
// given encoder delay and padding.
func lameTag(delay, padding int) []byte {
	b := make([]byte, 8+4+24)
	copy(b, "Info")
	binary.BigEndian.PutUint32(b[4:8], 0x1)
	dp := b[12+21:]
	dp[0] = byte(delay >> 4)
	dp[1] = byte(delay&0x0f)<<4 | byte(padding>>8)
	dp[2] = byte(padding)
	return b
}

func TestParseLAMETrim(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		want  mp3Trim
		found bool
	}{
		{"typical lame", lameTag(576, 1600), mp3Trim{start: 576 + 529, end: 1600 - 529}, true},
		{"padding below decoder delay", lameTag(576, 100), mp3Trim{start: 576 + 529, end: 0}, true},
		{"no delay or padding", lameTag(0, 0), mp3Trim{}, false},
		{"wrong tag", append([]byte("Nope"), lameTag(576, 1600)[4:]...), mp3Trim{}, false},
		{"short", []byte("Info"), mp3Trim{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLAMETrim(tt.in)
			if ok != tt.found || got != tt.want {
				t.Fatalf("parseLAMETrim() = (%+v, %v), want (%+v, %v)", got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestParseMP3FrameHeader(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    mp3FrameHeader
		wantErr bool
	}{
		{"mpeg1 stereo unprotected", []byte{0xFF, 0xFB, 0x90, 0x00}, mp3FrameHeader{sideInfoBytes: 32}, false},
		{"mpeg1 mono", []byte{0xFF, 0xFB, 0x90, 0xC0}, mp3FrameHeader{sideInfoBytes: 17}, false},
		{"mpeg1 stereo with crc", []byte{0xFF, 0xFA, 0x90, 0x00}, mp3FrameHeader{crcBytes: 2, sideInfoBytes: 32}, false},
		{"mpeg2 mono", []byte{0xFF, 0xF3, 0x90, 0xC0}, mp3FrameHeader{sideInfoBytes: 9}, false},
		{"no sync", []byte{0x00, 0x00, 0x00, 0x00}, mp3FrameHeader{}, true},
		{"layer ii", []byte{0xFF, 0xFD, 0x90, 0x00}, mp3FrameHeader{}, true},
		{"short", []byte{0xFF}, mp3FrameHeader{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMP3FrameHeader(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMP3FrameHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("parseMP3FrameHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadMP3TrimSkipsID3AndRestoresPosition(t *testing.T) {
	var b bytes.Buffer
	// ID3v2 header with a 20 byte body
	b.Write([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 20})
	b.Write(make([]byte, 20))
	b.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	b.Write(make([]byte, 32))
	b.Write(lameTag(576, 1600))

	r := bytes.NewReader(b.Bytes())
	if _, err := r.Seek(7, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	trim, err := readMP3Trim(r)
	if err != nil {
		t.Fatalf("readMP3Trim() error = %v", err)
	}
	if want := (mp3Trim{start: 1105, end: 1071}); trim != want {
		t.Fatalf("readMP3Trim() = %+v, want %+v", trim, want)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 7 {
		t.Fatalf("expected reader restored to 7, got %d", pos)
	}
}

func TestReadMP3TrimAbsent(t *testing.T) {
	r := bytes.NewReader([]byte("not an mp3 stream at all"))
	trim, err := readMP3Trim(r)
	if err != nil {
		t.Fatalf("readMP3Trim() error = %v", err)
	}
	if trim != (mp3Trim{}) {
		t.Fatalf("expected zero trim, got %+v", trim)
	}
}

func TestMP3TrimApply(t *testing.T) {
	samples := []float32{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}

	got := mp3Trim{start: 1, end: 2}.apply(samples, 2)
	if len(got) != 4 || got[0] != 1 || got[3] != 2 {
		t.Fatalf("unexpected trimmed samples %v", got)
	}

	if got := (mp3Trim{start: 3, end: 3}).apply(samples, 2); len(got) != len(samples) {
		t.Fatalf("expected oversized trim to be ignored, got %d samples", len(got))
	}
}
