package player

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds song information shown above the waveform.
type Metadata struct {
	Title  string `json:"title" yaml:"title"`
	Artist string `json:"artist,omitempty" yaml:"artist,omitempty"`
	Album  string `json:"album,omitempty" yaml:"album,omitempty"`
}

// ReadMetadata reads ID3v2 tags from MP3 files, falling back to the
// filename for everything else or when the title tag is empty.
func ReadMetadata(path string) Metadata {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if m, ok := readID3(path); ok {
			return m
		}
	}
	return Metadata{Title: TitleFromPath(path)}
}

func readID3(path string) (Metadata, bool) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}, false
	}
	defer tag.Close()

	m := Metadata{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}
	return m, m.Title != ""
}

// TitleFromPath returns the file name without directory or extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
