package palette

import (
	"bytes"
	"image"
	"math"
	"os"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/emberpost/emberpost/pkg/errors"
)

// Defaults used by ExtractAll.
const (
	// DefaultPaletteSize is the number of palette colors ExtractAll requests.
	DefaultPaletteSize = 5

	// DefaultQuality is the sampling step ExtractAll uses. Quality q samples
	// every q-th pixel; 1 is densest (and slowest).
	DefaultQuality = 10

	// averageThumbSize bounds the downsample used for the average color.
	averageThumbSize = 100
)

// Method selects the quantization algorithm used for dominant color and
// palette extraction.
type Method int

const (
	// MethodDominant uses the dominantcolor weighted quantizer. It is
	// deterministic for a fixed (image, quality) pair and is the default.
	MethodDominant Method = iota

	// MethodKMeans clusters sampled pixels with k-means. Results are close to
	// MethodDominant on most photos but depend on random initialization, so
	// it is opt-in.
	MethodKMeans
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	default:
		return "dominant"
	}
}

// Extractor derives colors from decoded images. The zero value uses the
// deterministic dominant-color quantizer with the default palette size and
// sampling quality, and is ready to use.
type Extractor struct {
	Method  Method
	Count   int // palette size for ExtractAll; 0 means DefaultPaletteSize
	Quality int // sampling step for ExtractAll; 0 means DefaultQuality
}

func (e *Extractor) count() int {
	if e.Count > 0 {
		return e.Count
	}
	return DefaultPaletteSize
}

func (e *Extractor) quality() int {
	if e.Quality > 0 {
		return e.Quality
	}
	return DefaultQuality
}

// Dominant returns the single most prominent color of img. Quality controls
// the sampling step before quantization: larger values are faster but
// coarser, never more accurate.
func (e *Extractor) Dominant(img image.Image, quality int) Color {
	sampled := sample(img, quality)
	if e.Method == MethodKMeans {
		if p := e.kmeansPalette(sampled, 1); len(p) > 0 {
			return p[0]
		}
	}
	return FromColor(dominantcolor.Find(sampled))
}

// Palette returns up to count representative colors ordered by descending
// prevalence. Duplicate colors are removed, so fewer than count entries may
// be returned.
func (e *Extractor) Palette(img image.Image, count, quality int) []Color {
	if count <= 0 {
		return nil
	}
	sampled := sample(img, quality)
	if e.Method == MethodKMeans {
		if p := e.kmeansPalette(sampled, count); len(p) > 0 {
			return p
		}
		// Empty k-means result (e.g. fully transparent input) falls through
		// to the dominant-color quantizer.
	}
	return dominantPalette(sampled, count)
}

// Average computes the unweighted per-channel mean over a thumbnail of at
// most 100x100 pixels. Channel means use floor division.
func (e *Extractor) Average(img image.Image) Color {
	thumb := imaging.Fit(img, averageThumbSize, averageThumbSize, imaging.Box)

	var sumR, sumG, sumB uint64
	n := len(thumb.Pix) / 4
	if n == 0 {
		return Color{}
	}
	for i := 0; i < len(thumb.Pix); i += 4 {
		sumR += uint64(thumb.Pix[i])
		sumG += uint64(thumb.Pix[i+1])
		sumB += uint64(thumb.Pix[i+2])
	}
	return Color{
		R: uint8(sumR / uint64(n)),
		G: uint8(sumG / uint64(n)),
		B: uint8(sumB / uint64(n)),
	}
}

// ExtractAll computes the full ColorSet for img: dominant and average
// colors, a palette of Count entries sampled at Quality, and the
// darker/lighter derivatives of the dominant color.
func (e *Extractor) ExtractAll(img image.Image) ColorSet {
	dominant := e.Dominant(img, e.quality())
	average := e.Average(img)
	colors := e.Palette(img, e.count(), e.quality())
	return newColorSet(dominant, average, colors)
}

// Bytes decodes raw image bytes and extracts the full ColorSet.
// Undecodable input yields an EXTRACTION_FAILED error wrapping the
// UNREADABLE_IMAGE cause.
func (e *Extractor) Bytes(b []byte) (ColorSet, error) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		cause := errors.Wrap(errors.ErrCodeUnreadableImage, err, "bytes are not a decodable raster image")
		return ColorSet{}, errors.Wrap(errors.ErrCodeExtractionFailed, cause, "palette extraction failed")
	}
	return e.ExtractAll(img), nil
}

// File reads and decodes an image file and extracts the full ColorSet.
// The image is auto-oriented from EXIF metadata before sampling.
func (e *Extractor) File(path string) (ColorSet, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if os.IsNotExist(err) {
			cause := errors.Wrap(errors.ErrCodeFileNotFound, err, "image file not found: %s", path)
			return ColorSet{}, errors.Wrap(errors.ErrCodeExtractionFailed, cause, "palette extraction failed for %s", path)
		}
		cause := errors.Wrap(errors.ErrCodeUnreadableImage, err, "cannot decode image: %s", path)
		return ColorSet{}, errors.Wrap(errors.ErrCodeExtractionFailed, cause, "palette extraction failed for %s", path)
	}
	return e.ExtractAll(img), nil
}

// ExtractBytes extracts the full ColorSet from raw image bytes using the
// default extractor.
func ExtractBytes(b []byte) (ColorSet, error) {
	var e Extractor
	return e.Bytes(b)
}

// ExtractFile extracts the full ColorSet from an image file using the
// default extractor.
func ExtractFile(path string) (ColorSet, error) {
	var e Extractor
	return e.File(path)
}

// ExtractBytesOrFallback is like ExtractBytes but recovers from any failure
// by substituting the documented brand ColorSet.
func ExtractBytesOrFallback(b []byte) ColorSet {
	cs, err := ExtractBytes(b)
	if err != nil {
		return Fallback()
	}
	return cs
}

// ExtractFileOrFallback is like ExtractFile but recovers from any failure by
// substituting the documented brand ColorSet.
func ExtractFileOrFallback(path string) ColorSet {
	cs, err := ExtractFile(path)
	if err != nil {
		return Fallback()
	}
	return cs
}

// sample returns img reduced to every step-th pixel in both dimensions.
// Steps below 2 return img unchanged.
func sample(img image.Image, step int) image.Image {
	if step < 2 {
		return img
	}
	b := img.Bounds()
	w := (b.Dx() + step - 1) / step
	h := (b.Dy() + step - 1) / step
	if w < 1 || h < 1 {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, img.At(b.Min.X+x*step, b.Min.Y+y*step))
		}
	}
	return out
}

// dominantPalette extracts up to count colors via the dominantcolor weighted
// quantizer, ordered by descending weight with exact duplicates removed.
func dominantPalette(img image.Image, count int) []Color {
	candidates := dominantcolor.FindWeight(img, max(count*4, count+2))
	if len(candidates) == 0 {
		return nil
	}

	// Stable sort keeps candidate order deterministic for equal weights.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight > candidates[j].Weight
	})

	seen := make(map[Color]bool, len(candidates))
	out := make([]Color, 0, count)
	for _, cand := range candidates {
		c := Color{R: cand.RGBA.R, G: cand.RGBA.G, B: cand.RGBA.B}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) == count {
			break
		}
	}
	return out
}

// kmeansNearDupThreshold is the CIE-Lab distance below which two k-means
// cluster centers count as the same palette entry.
const kmeansNearDupThreshold = 0.02

// kmeansPalette clusters sampled pixels and returns up to count cluster
// centers ordered by cluster population, filtering near-duplicate centers.
func (e *Extractor) kmeansPalette(img image.Image, count int) []Color {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Subsample to keep partitioning tractable on large inputs.
	const maxSamples = 12000
	step := 1
	if w*h > maxSamples {
		step = int(math.Sqrt(float64(w*h)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(w*h, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	k := min(max(count*2, count+1), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return nil
	}

	// Most populous clusters first.
	sort.SliceStable(cc, func(i, j int) bool {
		return len(cc[i].Observations) > len(cc[j].Observations)
	})

	var picked []colorful.Color
	out := make([]Color, 0, count)
	for _, cluster := range cc {
		if len(cluster.Center) < 3 {
			continue
		}
		col := colorful.Color{
			R: cluster.Center[0],
			G: cluster.Center[1],
			B: cluster.Center[2],
		}.Clamped()

		dup := false
		for _, p := range picked {
			if col.DistanceLab(p) < kmeansNearDupThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		picked = append(picked, col)

		r, g, bb := col.RGB255()
		out = append(out, Color{R: r, G: g, B: bb})
		if len(out) == count {
			break
		}
	}
	return out
}
