// Package fonts resolves a bold sans-serif font for text rendering.
//
// Resolution probes a fixed ordered list of platform font paths, then asks
// the system font index, and finally degrades to a built-in fixed-size
// bitmap face. Resolution never fails: callers always get usable faces, at
// worst with approximate pixel metrics.
//
// The parsed TrueType font is immutable and cached per path. Faces minted
// from it are not: a truetype face mutates rasterizer and glyph-cache
// state on every draw, so callers mint one face per rendering goroutine
// via Font.Face instead of sharing a face across goroutines.
package fonts

import (
	"os"
	"sync"

	findfont "github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/emberpost/emberpost/pkg/errors"
)

// probePaths is the ordered list of candidate font files. The first path
// that exists and parses wins.
var probePaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"C:\\Windows\\Fonts\\Arial.ttf",
}

// findfontNames are queried against the system font index when none of the
// probe paths resolve.
var findfontNames = []string{
	"DejaVuSans-Bold.ttf",
	"LiberationSans-Bold.ttf",
	"Arial Bold.ttf",
}

// parseCache caches parsed fonts per path. Parsed fonts are read-only and
// safe to share; faces minted from them are not.
var (
	parseMu    sync.Mutex
	parseCache = map[string]*truetype.Font{}
)

// Font is a resolved font source. A Font with no parsed TrueType data
// falls back to the built-in bitmap face.
type Font struct {
	ttf *truetype.Font
}

// Find resolves a bold sans-serif font by probing known paths and then the
// system font index. It never fails; when nothing resolves the returned
// Font mints the built-in fixed-size bitmap face, whose metrics ignore
// size.
func Find() *Font {
	for _, path := range probePaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if f, err := LoadPath(path); err == nil {
			return f
		}
	}

	for _, name := range findfontNames {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		if f, err := LoadPath(path); err == nil {
			return f
		}
	}

	return &Font{}
}

// LoadPath parses the TrueType font at path. Parses are cached per path.
func LoadPath(path string) (*Font, error) {
	parseMu.Lock()
	defer parseMu.Unlock()
	if parsed, ok := parseCache[path]; ok {
		return &Font{ttf: parsed}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontUnavailable, err, "cannot read font file: %s", path)
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontUnavailable, err, "cannot parse font file: %s", path)
	}

	parseCache[path] = parsed
	return &Font{ttf: parsed}, nil
}

// Face mints a fresh face at the given pixel size. Faces hold mutable
// glyph state, so each goroutine that draws text needs its own; minting
// one is cheap next to rasterizing a canvas.
func (f *Font) Face(size float64) font.Face {
	if f == nil || f.ttf == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f.ttf, &truetype.Options{Size: size})
}
