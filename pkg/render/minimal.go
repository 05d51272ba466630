package render

import "github.com/fogleman/gg"

// Minimal template geometry.
const (
	minimalMargin       = 50 // px inset for the accent bars and text column
	minimalBarThickness = 8  // px accent bar thickness
	minimalTitleOffset  = 80 // px below the top margin where the title starts
)

// drawMinimal renders the minimal template: a white canvas with thin accent
// bars near the top and bottom and left-aligned text between them.
func (r *Renderer) drawMinimal(dc *gg.Context, fs faceSet, title, subtitle string) {
	w := float64(r.cfg.Width)
	h := float64(r.cfg.Height)

	dc.SetColor(r.colors.white)
	dc.Clear()

	dc.SetColor(r.colors.burntOrange)
	dc.DrawRectangle(minimalMargin, minimalMargin, w-2*minimalMargin, minimalBarThickness)
	dc.Fill()

	dc.SetColor(r.colors.lightOrange)
	dc.DrawRectangle(minimalMargin, h-minimalMargin-minimalBarThickness, w-2*minimalMargin, minimalBarThickness)
	dc.Fill()

	maxTextWidth := r.cfg.Width - 2*minimalMargin

	dc.SetFontFace(fs.title)
	dc.SetColor(r.colors.darkGray)
	y := float64(minimalMargin + minimalTitleOffset)
	for _, line := range Wrap(title, fs.title, maxTextWidth) {
		drawText(dc, fs.title, line, minimalMargin, y)
		y += float64(lineHeight(fs.title) + titleLineGap)
	}

	if subtitle == "" {
		return
	}

	dc.SetFontFace(fs.subtitle)
	dc.SetColor(r.colors.burntOrange)
	y += subtitleBlockGap
	for _, line := range Wrap(subtitle, fs.subtitle, maxTextWidth) {
		drawText(dc, fs.subtitle, line, minimalMargin, y)
		y += float64(lineHeight(fs.subtitle) + subtitleLineGap)
	}
}
