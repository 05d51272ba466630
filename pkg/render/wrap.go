package render

import (
	"strings"

	"golang.org/x/image/font"
)

// Wrap splits text into lines whose rendered pixel width does not exceed
// maxWidth when drawn with face. Words are accumulated greedily; a word is
// pushed to a new line when appending it would overflow the current one.
// A single word wider than maxWidth is emitted alone on its own line,
// unsplit. The result is deterministic for a fixed (text, face, maxWidth).
func Wrap(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current []string

	for _, word := range words {
		candidate := strings.Join(append(current, word), " ")
		if measureWidth(face, candidate) <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	return lines
}

// measureWidth returns the rendered pixel width of s in face, rounded up.
func measureWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// lineHeight returns the pixel height of one text line in face.
func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// ascent returns the baseline offset from the top of a text line in face.
func ascent(face font.Face) float64 {
	return float64(face.Metrics().Ascent.Ceil())
}
