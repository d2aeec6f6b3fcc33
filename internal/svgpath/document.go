package svgpath

import (
	"bufio"
	"fmt"
	"io"

	"github.com/olivier-w/wavescope/internal/cursor"
)

const (
	defaultPlayedColor    = "#FF5F1F"
	defaultRemainingColor = "#888888"
)

// Document is a standalone SVG image of a waveform. The path is used as a
// clip region over two rectangles, #progress and #remaining, so the played
// part of the silhouette can be colored differently.
type Document struct {
	Path           Path
	Overlay        *cursor.Overlay
	PlayedColor    string
	RemainingColor string
}

// WriteTo writes the SVG markup to w.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	played, remaining := d.PlayedColor, d.RemainingColor
	if played == "" {
		played = defaultPlayedColor
	}
	if remaining == "" {
		remaining = defaultRemainingColor
	}

	width := formatCoord(d.Path.Width())
	height := formatCoord(d.Path.Height())

	overlay := cursor.Overlay{RemainingWidth: d.Path.Width()}
	if d.Overlay != nil {
		overlay = *d.Overlay
	}

	cw := &countingWriter{w: bufio.NewWriter(w)}
	fmt.Fprintf(cw, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\">\n", width, height, width, height)
	fmt.Fprintf(cw, "  <defs>\n    <clipPath id=\"waveform\">\n      <path d=\"%s\"/>\n    </clipPath>\n  </defs>\n", d.Path.String())
	fmt.Fprintf(cw, "  <g clip-path=\"url(#waveform)\">\n")
	fmt.Fprintf(cw, "    <rect id=\"progress\" x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"%s\"/>\n",
		formatCoord(overlay.PlayedWidth), height, played)
	fmt.Fprintf(cw, "    <rect id=\"remaining\" x=\"%s\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"%s\"/>\n",
		formatCoord(overlay.RemainingX), formatCoord(overlay.RemainingWidth), height, remaining)
	fmt.Fprintf(cw, "  </g>\n</svg>\n")

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
