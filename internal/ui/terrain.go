package ui

import (
	"math"
	"strings"

	"github.com/olivier-w/wavescope/internal/svgpath"
)

// blocks indexed by eighths of a cell filled from the bottom.
var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	terrainFPS       = 60
	terrainFrequency = 6.0
	terrainDamping   = 0.8
)

// terrain rasterizes a path into rows of block characters, one column per
// envelope point. The path is expected to be generated with smoothing 1 and
// height rows*8 so a y coordinate maps directly onto eighths of a cell.
type terrain struct {
	rows    int
	targets []float64
	springs springField
}

func newTerrain() terrain {
	return terrain{springs: newSpringField(terrainFPS, terrainFrequency, terrainDamping)}
}

// setPath retargets the columns. Existing column heights are kept and
// animate toward the new silhouette.
func (t *terrain) setPath(p svgpath.Path) {
	pts := p.Points()
	t.rows = int(p.Height()) / 8
	t.targets = make([]float64, len(pts))
	for i, pt := range pts {
		t.targets[i] = p.Height() - pt.Y
	}
	t.springs.resize(len(pts))
}

// step advances the animation one frame and reports whether any column is
// still moving.
func (t *terrain) step() bool {
	moving := false
	for i, target := range t.targets {
		if math.Abs(t.springs.step(i, target)-target) > 0.05 {
			moving = true
		}
	}
	return moving
}

func (t terrain) cols() int { return len(t.targets) }

func (t terrain) level(i int) int {
	if i >= len(t.springs.pos) {
		return 0
	}
	lv := int(math.Round(t.springs.pos[i]))
	return max(0, min(lv, t.rows*8))
}

// grid returns the unstyled rows, top row first.
func (t terrain) grid() [][]rune {
	out := make([][]rune, t.rows)
	for r := range out {
		row := make([]rune, t.cols())
		floor := (t.rows - 1 - r) * 8
		for c := range row {
			fill := max(0, min(t.level(c)-floor, 8))
			row[c] = blocks[fill]
		}
		out[r] = row
	}
	return out
}

// view renders the grid split at the cursor column. Columns left of the
// cursor are played, the cursor column is highlighted, and the rest are
// remaining. Without a cursor everything renders as remaining.
func (t terrain) view(overlayOffset float64, hasCursor bool) string {
	if t.rows == 0 || t.cols() == 0 {
		return ""
	}
	cur := -1
	if hasCursor {
		cur = int(overlayOffset)
	}

	var b strings.Builder
	for r, row := range t.grid() {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		switch {
		case cur < 0:
			b.WriteString(remainingStyle.Render(string(row)))
		case cur >= len(row):
			b.WriteString(playedStyle.Render(string(row)))
		default:
			cell := row[cur]
			if cell == ' ' {
				cell = '│'
			}
			b.WriteString(playedStyle.Render(string(row[:cur])))
			b.WriteString(cursorStyle.Render(string(cell)))
			b.WriteString(remainingStyle.Render(string(row[cur+1:])))
		}
	}
	return b.String()
}
