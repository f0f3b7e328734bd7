package geom

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// charWidthRatio is the average glyph advance relative to the font size.
const charWidthRatio = 0.55

// TextWidth estimates the rendered width of text at fontSize.
// Wide (east asian) characters count as two cells.
func TextWidth(text string, fontSize float64) float64 {
	return float64(runewidth.StringWidth(text)) * fontSize * charWidthRatio
}

// WrapText greedily packs the words of text into lines whose estimated width
// does not exceed maxWidth. A single word wider than maxWidth gets a line of
// its own. A non-positive maxWidth returns the text as one line.
func WrapText(text string, fontSize, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if TextWidth(candidate, fontSize) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
