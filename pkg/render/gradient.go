package render

import "github.com/fogleman/gg"

// Gradient template geometry.
const (
	gradientTextMargin   = 100 // px subtracted from the content width
	gradientTitleLift    = 50  // px the centered title block is shifted upward
	gradientOutline      = 2   // px diagonal outline offset
	gradientOverlayAlpha = 180 // white overlay alpha out of 255
)

// Gradient endpoints: burnt orange at the top blending to cream at the
// bottom, per scanline.
var (
	gradientTop    = [3]float64{204, 85, 0}
	gradientBottom = [3]float64{255, 248, 220}
)

// drawGradient renders the gradient template: a vertical burnt-orange to
// cream blend under a translucent white overlay, with the title vertically
// centered and outlined for contrast.
func (r *Renderer) drawGradient(dc *gg.Context, fs faceSet, title, subtitle string) {
	w := float64(r.cfg.Width)
	h := float64(r.cfg.Height)

	// Per-scanline linear blend by row fraction.
	dc.SetLineWidth(1)
	for row := 0; row < r.cfg.Height; row++ {
		ratio := float64(row) / h
		dc.SetRGB255(
			int(gradientTop[0]*(1-ratio)+gradientBottom[0]*ratio),
			int(gradientTop[1]*(1-ratio)+gradientBottom[1]*ratio),
			int(gradientTop[2]*(1-ratio)+gradientBottom[2]*ratio),
		)
		y := float64(row) + 0.5
		dc.DrawLine(0, y, w, y)
		dc.Stroke()
	}

	// Semi-transparent white overlay, flattened over the opaque gradient.
	dc.SetRGBA255(255, 255, 255, gradientOverlayAlpha)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	maxTextWidth := r.cfg.Width - gradientTextMargin
	titleLines := Wrap(title, fs.title, maxTextWidth)

	// Vertical centering from the summed line heights, then lifted.
	totalTextHeight := len(titleLines) * lineHeight(fs.title)
	y := (h-float64(totalTextHeight))/2 - gradientTitleLift

	dc.SetFontFace(fs.title)
	for _, line := range titleLines {
		lineWidth := float64(measureWidth(fs.title, line))
		x := (w - lineWidth) / 2

		// Four-direction outline beneath the fill for contrast.
		dc.SetColor(r.colors.white)
		for _, offset := range [][2]float64{{gradientOutline, gradientOutline}, {-gradientOutline, gradientOutline}, {gradientOutline, -gradientOutline}, {-gradientOutline, -gradientOutline}} {
			drawText(dc, fs.title, line, x+offset[0], y+offset[1])
		}
		dc.SetColor(r.colors.burntOrange)
		drawText(dc, fs.title, line, x, y)

		y += float64(lineHeight(fs.title) + titleLineGap)
	}

	if subtitle == "" {
		return
	}

	dc.SetFontFace(fs.subtitle)
	dc.SetColor(r.colors.darkOrange)
	y += subtitleBlockGap
	for _, line := range Wrap(subtitle, fs.subtitle, maxTextWidth) {
		lineWidth := float64(measureWidth(fs.subtitle, line))
		drawText(dc, fs.subtitle, line, (w-lineWidth)/2, y)
		y += float64(lineHeight(fs.subtitle) + subtitleLineGap)
	}
}
