package render

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/emberpost/emberpost/pkg/errors"
	"github.com/emberpost/emberpost/pkg/fonts"
	"github.com/emberpost/emberpost/pkg/palette"
)

// jpegQuality is the encoder quality for lossy output.
const jpegQuality = 95

// brandColors holds every color a template can reach, resolved from hex
// once per Renderer.
type brandColors struct {
	primary     palette.Color
	background  palette.Color
	text        palette.Color
	burntOrange palette.Color
	darkOrange  palette.Color
	lightOrange palette.Color
	cream       palette.Color
	darkGray    palette.Color
	white       palette.Color
}

// Renderer renders promotional images under a fixed Config. A Renderer is
// immutable after construction and safe for concurrent use; each Render
// call owns its own canvas and mints its own font faces, since truetype
// faces carry mutable glyph state and must not be shared across
// goroutines.
type Renderer struct {
	cfg    Config
	colors brandColors
	font   *fonts.Font
	logger *log.Logger
}

// faceSet holds the faces one Render call draws with.
type faceSet struct {
	title    font.Face
	subtitle font.Face
}

// NewRenderer validates cfg, resolves its colors, and resolves the font.
// Font resolution degrades to a bitmap face rather than failing.
func NewRenderer(cfg Config, logger *log.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	colors, err := resolveColors(cfg)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		cfg:    cfg,
		colors: colors,
		font:   fonts.Find(),
		logger: logger,
	}, nil
}

// resolveColors parses the configured and brand hex colors. Validate has
// already vetted the configurable three, so parse errors here are internal.
func resolveColors(cfg Config) (brandColors, error) {
	var bc brandColors
	for _, entry := range []struct {
		dst *palette.Color
		hex string
	}{
		{&bc.primary, cfg.PrimaryColor},
		{&bc.background, cfg.BackgroundColor},
		{&bc.text, cfg.TextColor},
		{&bc.burntOrange, BurntOrange},
		{&bc.darkOrange, DarkOrange},
		{&bc.lightOrange, LightOrange},
		{&bc.cream, Cream},
		{&bc.darkGray, DarkGray},
		{&bc.white, White},
	} {
		c, err := palette.ParseHex(entry.hex)
		if err != nil {
			return brandColors{}, err
		}
		*entry.dst = c
	}
	return bc, nil
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render draws title and subtitle under the given template and writes the
// flattened raster to the configured output directory, returning the
// resolved output path. An empty subtitle suppresses the subtitle block
// entirely. The output format is chosen by filename extension: JPEG for
// .jpg/.jpeg, PNG otherwise.
//
// The image is rendered fully in memory and written in one step, so no
// partial file is ever left at the output path.
func (r *Renderer) Render(tpl Template, title, subtitle, filename string) (string, error) {
	if err := errors.ValidateOutputFilename(filename); err != nil {
		return "", err
	}

	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)
	fs := faceSet{
		title:    r.font.Face(float64(r.cfg.FontTitleSize)),
		subtitle: r.font.Face(float64(r.cfg.FontSubtitleSize)),
	}
	switch tpl {
	case TemplateGradient:
		r.drawGradient(dc, fs, title, subtitle)
	case TemplateMinimal:
		r.drawMinimal(dc, fs, title, subtitle)
	default:
		r.drawBasic(dc, fs, title, subtitle)
	}

	path := filepath.Join(r.cfg.OutputDir, filename)
	if err := r.write(dc, path); err != nil {
		return "", err
	}

	r.logger.Debug("rendered image", "template", tpl.String(), "path", path)
	return path, nil
}

// write encodes the canvas into an in-memory buffer, then commits it with a
// temp-file rename so the output path never holds a partial image.
func (r *Renderer) write(dc *gg.Context, path string) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, dc.Image())
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "cannot encode image for %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "cannot create output directory %s", dir)
	}

	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "cannot write output file %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "cannot write output file %s", path)
	}
	return nil
}

// drawText draws s with its top-left corner at (x, y) in the current fill
// color. gg positions strings by baseline, so the face ascent is added.
func drawText(dc *gg.Context, face font.Face, s string, x, y float64) {
	dc.DrawString(s, x, y+ascent(face))
}
