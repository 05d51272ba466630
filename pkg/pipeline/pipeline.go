// Package pipeline runs the palette → render flow for one or many posts.
//
// A Post describes a single promotional image: title, optional subtitle,
// template, output filename, and optionally a local photo whose extracted
// colors brand the render. The Runner executes posts sequentially and
// collects per-post failures without aborting the batch, so one bad entry
// never sinks the rest.
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, logger)
//	posts, err := pipeline.LoadPosts("posts.json")
//	if err != nil {
//	    return err
//	}
//	result := runner.RunBatch(ctx, posts)
//	logger.Infof("%d succeeded, %d failed", result.Succeeded, result.Failed)
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/emberpost/emberpost/pkg/cache"
	"github.com/emberpost/emberpost/pkg/errors"
	"github.com/emberpost/emberpost/pkg/palette"
	"github.com/emberpost/emberpost/pkg/render"
)

// Post is one batch entry. Template may be empty (defaults to basic) and
// Output may be empty (a filename is derived from the post's position).
// Image, when set, points to a local photo whose dominant color replaces
// the configured primary color for this post, with its darker derivative as
// the background accent; extraction failures fall back to the brand palette
// rather than failing the post.
type Post struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Template string `json:"template,omitempty"`
	Output   string `json:"output,omitempty"`
	Image    string `json:"image,omitempty"`
}

// LoadPosts reads a JSON array of posts from path.
func LoadPosts(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "posts file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read posts file: %s", path)
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "posts file must be a JSON array of posts: %s", path)
	}
	return posts, nil
}

// Result summarizes a batch run.
type Result struct {
	Succeeded int
	Failed    int
	Paths     []string // output paths of successful renders, in post order
	Errors    []error  // per-post failures, in post order
	Elapsed   time.Duration
}

// Runner executes posts against a fixed render configuration.
type Runner struct {
	cfg    render.Config
	logger *log.Logger
	cache  cache.Cache
}

// NewRunner creates a Runner. A nil logger falls back to the default.
// Palette caching is off until WithCache is called.
func NewRunner(cfg render.Config, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cfg: cfg, logger: logger, cache: cache.NewNullCache()}
}

// WithCache enables palette caching and returns the runner for chaining.
// Extracted color sets are keyed by the photo's path, size, and mtime, so
// edits to a photo invalidate its entry.
func (r *Runner) WithCache(c cache.Cache) *Runner {
	if c != nil {
		r.cache = c
	}
	return r
}

// Run renders a single post and returns the output path. When the post
// names a source photo, its palette is extracted first (with the brand
// fallback on failure) and the post's colors are branded from it.
func (r *Runner) Run(ctx context.Context, post Post) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tpl, err := render.ParseTemplate(post.Template)
	if err != nil {
		return "", err
	}

	cfg := r.cfg
	if post.Image != "" {
		cs := r.extractColors(ctx, post.Image)
		cfg.PrimaryColor = cs.Dominant.Hex
		cfg.BackgroundColor = cs.Darker.Hex
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	renderer, err := render.NewRenderer(cfg, r.logger)
	if err != nil {
		return "", err
	}

	output := post.Output
	if output == "" {
		output = "blog_image.png"
	}
	return renderer.Render(tpl, post.Title, post.Subtitle, output)
}

// RunBatch renders every post, collecting failures instead of aborting.
// Context cancellation stops the batch between posts; posts not reached
// count as failed with the cancellation error.
func (r *Runner) RunBatch(ctx context.Context, posts []Post) Result {
	start := time.Now()
	var result Result

	for i, post := range posts {
		if err := ctx.Err(); err != nil {
			result.Failed += len(posts) - i
			result.Errors = append(result.Errors, err)
			break
		}

		p := post
		if p.Output == "" {
			p.Output = fmt.Sprintf("blog_post_%d.png", i+1)
		}

		r.logger.Infof("[%d/%d] %s", i+1, len(posts), truncateTitle(p.Title))
		path, err := r.Run(ctx, p)
		if err != nil {
			r.logger.Error("post failed", "title", truncateTitle(p.Title), "err", errors.UserMessage(err))
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("post %d (%s): %w", i+1, truncateTitle(p.Title), err))
			continue
		}

		r.logger.Info("created", "path", path)
		result.Succeeded++
		result.Paths = append(result.Paths, path)
	}

	result.Elapsed = time.Since(start)
	return result
}

// extractColors returns the photo's color set, consulting the cache first.
// Every failure path falls back to the brand colors so a bad photo never
// fails the post.
func (r *Runner) extractColors(ctx context.Context, imagePath string) palette.ColorSet {
	key, ok := r.paletteKey(imagePath)
	if ok {
		if data, found, err := r.cache.Get(ctx, key); err == nil && found {
			var cs palette.ColorSet
			if json.Unmarshal(data, &cs) == nil {
				r.logger.Debug("palette cache hit", "image", imagePath)
				return cs
			}
		}
	}

	cs, err := palette.ExtractFile(imagePath)
	if err != nil {
		r.logger.Warn("palette extraction failed, using brand colors", "image", imagePath, "err", errors.UserMessage(err))
		return palette.Fallback()
	}

	if ok {
		if data, err := json.Marshal(cs); err == nil {
			if err := r.cache.Set(ctx, key, data, 0); err != nil {
				r.logger.Debug("palette cache write failed", "image", imagePath, "err", err)
			}
		}
	}
	return cs
}

// paletteKey builds a cache key from the photo's identity. The second
// return is false when the file cannot be stat'd, which disables caching
// for this extraction.
func (r *Runner) paletteKey(imagePath string) (string, bool) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return "", false
	}
	return cache.Key("palette", imagePath, info.Size(), info.ModTime().UnixNano()), true
}

// truncateTitle bounds titles for log lines.
func truncateTitle(title string) string {
	const maxLen = 50
	if len(title) <= maxLen {
		return title
	}
	return title[:maxLen] + "..."
}
