package ui

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// truncateRunesHelper truncates s to maxWidth display cells, appending suffix
// when it cuts.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// fitLine truncates then pads s to exactly width cells.
func fitLine(s string, width int) string {
	return padRight(truncateRunesHelper(s, width, "…"), width)
}

// formatSize renders a byte count in binary units, e.g. "1.5 MiB".
func formatSize(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(n))
}
