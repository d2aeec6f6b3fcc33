// Package svgpath turns an amplitude envelope into a closed, filled SVG path.
package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olivier-w/wavescope/internal/waveform"
)

var (
	ErrInvalidSmoothing = errors.New("svgpath: smoothing must be positive and finite")
	ErrInvalidHeight    = errors.New("svgpath: height must be finite and not negative")
)

// Op identifies a path drawing instruction.
type Op byte

const (
	MoveTo       Op = 'M'
	LineTo       Op = 'L'
	VerticalTo   Op = 'V'
	HorizontalTo Op = 'H'
	Close        Op = 'Z'
)

// Command is a single drawing instruction. X is unused by VerticalTo, Y by
// HorizontalTo, and both by Close.
type Command struct {
	Op Op
	X  float64
	Y  float64
}

// Point is a vertex of the silhouette.
type Point struct {
	X float64
	Y float64
}

// Path is a single closed contour in a top-origin coordinate space.
type Path struct {
	Commands []Command
	width    float64
	height   float64
}

// Generate maps env onto a silhouette of the given height. Each point is
// placed smoothing units after the previous one and scaled so the envelope
// peak touches y=0. A silent envelope produces a flat line at y=height.
func Generate(env waveform.Envelope, height, smoothing float64) (Path, error) {
	if !(smoothing > 0) || math.IsInf(smoothing, 0) {
		return Path{}, fmt.Errorf("%w: got %v", ErrInvalidSmoothing, smoothing)
	}
	if !(height >= 0) || math.IsInf(height, 0) {
		return Path{}, fmt.Errorf("%w: got %v", ErrInvalidHeight, height)
	}

	peak := waveform.Peak(env)
	cmds := make([]Command, 0, len(env)+4)
	cmds = append(cmds, Command{Op: MoveTo, X: 0, Y: height})
	for i, v := range env {
		var amp float64
		if peak > 0 {
			amp = v / peak
		}
		cmds = append(cmds, Command{Op: LineTo, X: float64(i) * smoothing, Y: (1 - amp) * height})
	}
	cmds = append(cmds,
		Command{Op: VerticalTo, Y: height},
		Command{Op: HorizontalTo, X: 0},
		Command{Op: Close},
	)

	return Path{
		Commands: cmds,
		width:    float64(len(env)) * smoothing,
		height:   height,
	}, nil
}

// Width returns the horizontal extent of the coordinate space.
func (p Path) Width() float64 { return p.width }

// Height returns the baseline of the coordinate space.
func (p Path) Height() float64 { return p.height }

// Points returns the envelope vertices in order, one per LineTo.
func (p Path) Points() []Point {
	pts := make([]Point, 0, len(p.Commands))
	for _, c := range p.Commands {
		if c.Op == LineTo {
			pts = append(pts, Point{X: c.X, Y: c.Y})
		}
	}
	return pts
}

// String renders the path as SVG path data, e.g. "M 0 100 L 0 0 V 100 H 0 Z".
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		switch c.Op {
		case MoveTo, LineTo:
			b.WriteByte(' ')
			b.WriteString(formatCoord(c.X))
			b.WriteByte(' ')
			b.WriteString(formatCoord(c.Y))
		case VerticalTo:
			b.WriteByte(' ')
			b.WriteString(formatCoord(c.Y))
		case HorizontalTo:
			b.WriteByte(' ')
			b.WriteString(formatCoord(c.X))
		}
	}
	return b.String()
}

func formatCoord(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
