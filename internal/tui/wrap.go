// Package tui provides the Bubble Tea session interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps plain text to the given display width, measuring
// rune widths so wide characters do not overflow the line.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out strings.Builder
	lineWidth := 0
	for i, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		if i == 0 {
			out.WriteString(word)
			lineWidth = wordWidth
			continue
		}
		if lineWidth+1+wordWidth > width && lineWidth > 0 {
			out.WriteRune('\n')
			out.WriteString(word)
			lineWidth = wordWidth
			continue
		}
		out.WriteRune(' ')
		out.WriteString(word)
		lineWidth += 1 + wordWidth
	}
	return out.String()
}
