package tui

import "github.com/mattn/go-runewidth"

// truncateWithEllipsis trims s to maxWidth terminal cells.
func truncateWithEllipsis(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
