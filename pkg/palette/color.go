// Package palette extracts usable brand colors from photographs.
//
// Given a decoded image, the package produces a dominant color, an average
// color, an N-color palette ordered by prevalence, and brightness-adjusted
// derivatives, each in three representations (RGB triple, hex string, and a
// CSS-style rgba overlay string).
//
// Extraction never aborts a pipeline: decode failures surface as
// EXTRACTION_FAILED errors, and the OrFallback helpers substitute the
// documented brand ColorSet instead.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/emberpost/emberpost/pkg/errors"
)

// Color is an immutable RGB triple with channels in [0, 255].
type Color struct {
	R, G, B uint8
}

// RGBA implements the image/color.Color interface so a Color can be passed
// directly to drawing primitives.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the lowercase hex representation, e.g. "#cc5500".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Overlay returns a CSS-style rgba string with the given opacity, e.g.
// "rgba(204, 85, 0, 0.7)". The opacity is printed as supplied, unrounded.
func (c Color) Overlay(opacity float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, opacity)
}

// AdjustBrightness multiplies each channel by factor, truncating toward zero
// and clamping to [0, 255]. A factor of 0.7 darkens, 1.3 lightens, 1.0 is
// the identity.
func (c Color) AdjustBrightness(factor float64) Color {
	return Color{
		R: clampChannel(float64(c.R) * factor),
		G: clampChannel(float64(c.G) * factor),
		B: clampChannel(float64(c.B) * factor),
	}
}

// clampChannel truncates v toward zero and clamps it to [0, 255].
func clampChannel(v float64) uint8 {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// FromColor converts any image/color.Color to a Color, discarding alpha.
func FromColor(c color.Color) Color {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return Color{R: rgba.R, G: rgba.G, B: rgba.B}
}

// ParseHex parses a 6-digit hex color string. The leading '#' is optional
// and parsing is case-insensitive.
func ParseHex(s string) (Color, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return Color{}, err
	}
	hex := strings.TrimPrefix(s, "#")

	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(hex), "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color: %q", s)
	}
	return Color{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// Intended for package-level brand constants.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
