package palette

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"

	"github.com/emberpost/emberpost/pkg/errors"
)

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestAverageSolid(t *testing.T) {
	var e Extractor
	img := solidImage(200, 150, color.RGBA{R: 204, G: 85, B: 0, A: 255})

	got := e.Average(img)
	want := Color{R: 204, G: 85, B: 0}
	if got != want {
		t.Errorf("Average(solid) = %v, want %v", got, want)
	}
}

func TestAverageCheckerboard(t *testing.T) {
	var e Extractor

	// Alternating black and white pixels mean to 127 per channel with floor
	// division.
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}

	got := e.Average(img)
	want := Color{R: 127, G: 127, B: 127}
	if got != want {
		t.Errorf("Average(checkerboard) = %v, want %v", got, want)
	}
}

func TestDominantSolid(t *testing.T) {
	var e Extractor
	img := solidImage(64, 64, color.RGBA{R: 10, G: 200, B: 30, A: 255})

	got := e.Dominant(img, 1)
	want := Color{R: 10, G: 200, B: 30}
	if got != want {
		t.Errorf("Dominant(solid) = %v, want %v", got, want)
	}
}

func TestDominantDeterministic(t *testing.T) {
	var e Extractor

	// Two color regions; repeated runs must agree exactly.
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if y < 48 {
				img.SetRGBA(x, y, color.RGBA{R: 200, G: 40, B: 10, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 10, G: 40, B: 200, A: 255})
			}
		}
	}

	first := e.Dominant(img, 2)
	for i := 0; i < 5; i++ {
		if got := e.Dominant(img, 2); got != first {
			t.Fatalf("Dominant run %d = %v, want %v (must be deterministic)", i, got, first)
		}
	}
}

func TestPaletteNoDuplicates(t *testing.T) {
	var e Extractor
	img := solidImage(64, 64, color.RGBA{R: 120, G: 60, B: 30, A: 255})

	colors := e.Palette(img, 5, 1)
	if len(colors) == 0 {
		t.Fatal("Palette returned no colors")
	}
	seen := make(map[Color]bool)
	for _, c := range colors {
		if seen[c] {
			t.Errorf("Palette contains duplicate color %v", c)
		}
		seen[c] = true
	}
	if len(colors) > 5 {
		t.Errorf("Palette returned %d colors, want at most 5", len(colors))
	}
}

func TestExtractAllDerivatives(t *testing.T) {
	var e Extractor
	img := solidImage(80, 80, color.RGBA{R: 204, G: 85, B: 0, A: 255})

	cs := e.ExtractAll(img)
	dominant := cs.Dominant.Color

	if got, want := cs.Darker.Color, dominant.AdjustBrightness(0.7); got != want {
		t.Errorf("Darker = %v, want AdjustBrightness(dominant, 0.7) = %v", got, want)
	}
	if got, want := cs.Lighter.Color, dominant.AdjustBrightness(1.3); got != want {
		t.Errorf("Lighter = %v, want AdjustBrightness(dominant, 1.3) = %v", got, want)
	}
	if len(cs.Palette) == 0 || len(cs.Palette) > DefaultPaletteSize {
		t.Errorf("Palette has %d entries, want 1..%d", len(cs.Palette), DefaultPaletteSize)
	}
}

func TestExtractBytes(t *testing.T) {
	data := encodePNG(t, solidImage(50, 50, color.RGBA{R: 0, G: 128, B: 255, A: 255}))

	cs, err := ExtractBytes(data)
	if err != nil {
		t.Fatalf("ExtractBytes error = %v", err)
	}
	if cs.Dominant.Hex == "" {
		t.Error("Dominant.Hex is empty")
	}
}

func TestExtractBytesUndecodable(t *testing.T) {
	_, err := ExtractBytes([]byte("definitely not an image"))
	if err == nil {
		t.Fatal("ExtractBytes(garbage) = nil error, want EXTRACTION_FAILED")
	}
	if !errors.Is(err, errors.ErrCodeExtractionFailed) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeExtractionFailed)
	}
}

func TestExtractBytesOrFallback(t *testing.T) {
	cs := ExtractBytesOrFallback([]byte{0x00, 0x01, 0x02})

	if cs.Dominant.Hex != "#cc5500" {
		t.Errorf("fallback dominant = %q, want #cc5500", cs.Dominant.Hex)
	}
	if !reflect.DeepEqual(cs, Fallback()) {
		t.Error("ExtractBytesOrFallback(garbage) != Fallback()")
	}
}

func TestExtractFileOrFallbackMissing(t *testing.T) {
	cs := ExtractFileOrFallback("/nonexistent/photo.jpg")
	if cs.Dominant.Hex != "#cc5500" {
		t.Errorf("fallback dominant = %q, want #cc5500", cs.Dominant.Hex)
	}
}

func TestFallback(t *testing.T) {
	cs := Fallback()

	if cs.Dominant.Hex != "#cc5500" {
		t.Errorf("Dominant.Hex = %q, want #cc5500", cs.Dominant.Hex)
	}
	if got, want := cs.Darker.Color, (Color{R: 142, G: 59, B: 0}); got != want {
		t.Errorf("Darker = %v, want %v", got, want)
	}
	if got, want := cs.Lighter.Color, (Color{R: 255, G: 110, B: 0}); got != want {
		t.Errorf("Lighter = %v, want %v", got, want)
	}
	if len(cs.Palette) != 5 {
		t.Errorf("Palette length = %d, want 5", len(cs.Palette))
	}
	if cs.Average.Hex != "#fff8dc" {
		t.Errorf("Average.Hex = %q, want #fff8dc", cs.Average.Hex)
	}
}
