package ui

import (
	"fmt"
	"time"

	"github.com/olivier-w/wavescope/internal/util"
)

func renderTimes(elapsed, total time.Duration) string {
	return timeStyle.Render(fmt.Sprintf("%s / %s", util.FormatDuration(elapsed), util.FormatDuration(total)))
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}
