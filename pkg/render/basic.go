package render

import "github.com/fogleman/gg"

// Basic template geometry.
const (
	basicTitleOffset   = 100 // px below the header bar where the title starts
	basicTextMargin    = 100 // px subtracted (with the accent) from the content width
	basicShadowOffset  = 2   // px drop-shadow offset, both axes
	titleLineGap       = 20  // px added between title lines
	subtitleLineGap    = 15  // px added between subtitle lines
	subtitleBlockGap   = 30  // px between the title block and the subtitle block
	headerHeightDenom  = 6   // header bar is height/6
	footerHeightDenom  = 8   // footer bar is height/8
	accentWidthDenom   = 20  // accent bar is width/20
)

// drawBasic renders the basic template: configured background, primary
// header bar, dark-orange footer bar, light-orange left accent, and
// center-aligned shadowed title text.
func (r *Renderer) drawBasic(dc *gg.Context, fs faceSet, title, subtitle string) {
	w := float64(r.cfg.Width)
	h := float64(r.cfg.Height)

	dc.SetColor(r.colors.background)
	dc.Clear()

	// Footer rounds up so the bottom eighth is never short a row on heights
	// that do not divide evenly.
	headerHeight := float64(r.cfg.Height / headerHeightDenom)
	footerHeight := float64((r.cfg.Height + footerHeightDenom - 1) / footerHeightDenom)
	accentWidth := float64(r.cfg.Width / accentWidthDenom)

	dc.SetColor(r.colors.primary)
	dc.DrawRectangle(0, 0, w, headerHeight)
	dc.Fill()

	dc.SetColor(r.colors.darkOrange)
	dc.DrawRectangle(0, h-footerHeight, w, footerHeight)
	dc.Fill()

	dc.SetColor(r.colors.lightOrange)
	dc.DrawRectangle(0, headerHeight, accentWidth, h-headerHeight-footerHeight)
	dc.Fill()

	maxTextWidth := r.cfg.Width - (int(accentWidth) + basicTextMargin)

	dc.SetFontFace(fs.title)
	y := headerHeight + basicTitleOffset
	for _, line := range Wrap(title, fs.title, maxTextWidth) {
		lineWidth := float64(measureWidth(fs.title, line))
		x := accentWidth + (w-accentWidth-lineWidth)/2

		// Shadow first, then the line itself on top.
		dc.SetColor(r.colors.darkOrange)
		drawText(dc, fs.title, line, x+basicShadowOffset, y+basicShadowOffset)
		dc.SetColor(r.colors.text)
		drawText(dc, fs.title, line, x, y)

		y += float64(lineHeight(fs.title) + titleLineGap)
	}

	if subtitle == "" {
		return
	}

	dc.SetFontFace(fs.subtitle)
	dc.SetColor(r.colors.darkGray)
	y += subtitleBlockGap
	for _, line := range Wrap(subtitle, fs.subtitle, maxTextWidth) {
		lineWidth := float64(measureWidth(fs.subtitle, line))
		x := accentWidth + (w-accentWidth-lineWidth)/2
		drawText(dc, fs.subtitle, line, x, y)
		y += float64(lineHeight(fs.subtitle) + subtitleLineGap)
	}
}
