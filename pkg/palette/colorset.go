package palette

// Overlay opacities used by ExtractAll for each swatch role. These match the
// values emitted by the original extraction output consumed downstream.
const (
	opacityDominant = 0.7
	opacityAverage  = 0.7
	opacityPalette  = 0.7
	opacityDarker   = 0.8
	opacityLighter  = 0.6
)

// Brightness factors for the derivative colors of the dominant color.
const (
	darkerFactor  = 0.7
	lighterFactor = 1.3
)

// Brand colors used for the fallback ColorSet when extraction fails.
var (
	brandBurntOrange = Color{R: 204, G: 85, B: 0}    // #cc5500
	brandDarkOrange  = Color{R: 166, G: 68, B: 0}    // #a64400
	brandLightOrange = Color{R: 255, G: 106, B: 19}  // #ff6a13
	brandCream       = Color{R: 255, G: 248, B: 220} // #fff8dc
	brandDarkGray    = Color{R: 44, G: 44, B: 44}    // #2c2c2c
)

// Swatch bundles a color with its three serialized representations.
type Swatch struct {
	Color Color  `json:"-"`
	RGB   [3]int `json:"rgb"`
	Hex   string `json:"hex"`
	RGBA  string `json:"rgba"`
}

// NewSwatch builds a Swatch for c using the given overlay opacity.
func NewSwatch(c Color, opacity float64) Swatch {
	return Swatch{
		Color: c,
		RGB:   [3]int{int(c.R), int(c.G), int(c.B)},
		Hex:   c.Hex(),
		RGBA:  c.Overlay(opacity),
	}
}

// ColorSet is the complete output of palette extraction.
type ColorSet struct {
	Dominant Swatch   `json:"dominant"`
	Average  Swatch   `json:"average"`
	Darker   Swatch   `json:"darker"`
	Lighter  Swatch   `json:"lighter"`
	Palette  []Swatch `json:"palette"`
}

// newColorSet assembles a ColorSet from raw extracted colors, deriving the
// darker/lighter variants of the dominant color.
func newColorSet(dominant, average Color, paletteColors []Color) ColorSet {
	swatches := make([]Swatch, len(paletteColors))
	for i, c := range paletteColors {
		swatches[i] = NewSwatch(c, opacityPalette)
	}
	return ColorSet{
		Dominant: NewSwatch(dominant, opacityDominant),
		Average:  NewSwatch(average, opacityAverage),
		Darker:   NewSwatch(dominant.AdjustBrightness(darkerFactor), opacityDarker),
		Lighter:  NewSwatch(dominant.AdjustBrightness(lighterFactor), opacityLighter),
		Palette:  swatches,
	}
}

// Fallback returns the documented brand ColorSet substituted when extraction
// fails: a burnt-orange dominant color with the cream average and the five
// brand palette entries.
func Fallback() ColorSet {
	return newColorSet(brandBurntOrange, brandCream, []Color{
		brandBurntOrange,
		brandDarkOrange,
		brandLightOrange,
		brandCream,
		brandDarkGray,
	})
}
