package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/emberpost/emberpost/pkg/cache"
	"github.com/emberpost/emberpost/pkg/errors"
	"github.com/emberpost/emberpost/pkg/palette"
	"github.com/emberpost/emberpost/pkg/render"
)

func testConfig(t *testing.T) render.Config {
	t.Helper()
	cfg := render.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	// Small canvases keep the batch tests fast.
	cfg.Width = 300
	cfg.Height = 200
	return cfg
}

func writePosts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPosts(t *testing.T) {
	path := writePosts(t, `[
		{"title": "First Post", "subtitle": "sub", "template": "gradient", "output": "first.png"},
		{"title": "Second Post"}
	]`)

	posts, err := LoadPosts(path)
	if err != nil {
		t.Fatalf("LoadPosts error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Template != "gradient" || posts[0].Output != "first.png" {
		t.Errorf("posts[0] = %+v, want gradient/first.png", posts[0])
	}
	if posts[1].Subtitle != "" || posts[1].Template != "" {
		t.Errorf("posts[1] optional fields not empty: %+v", posts[1])
	}
}

func TestLoadPostsMissing(t *testing.T) {
	_, err := LoadPosts(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadPostsMalformed(t *testing.T) {
	path := writePosts(t, `{"title": "not an array"}`)
	_, err := LoadPosts(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestRunSinglePost(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil)

	path, err := runner.Run(context.Background(), Post{
		Title:    "A Single Post",
		Subtitle: "with a subtitle",
		Template: "minimal",
		Output:   "single.png",
	})
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestRunUnknownTemplate(t *testing.T) {
	runner := NewRunner(testConfig(t), nil)

	_, err := runner.Run(context.Background(), Post{Title: "Bad", Template: "fancy"})
	if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTemplate)
	}
}

func TestRunMissingImageFallsBack(t *testing.T) {
	// A post pointing at a missing photo still renders, branded with the
	// fallback palette.
	runner := NewRunner(testConfig(t), nil)

	path, err := runner.Run(context.Background(), Post{
		Title:  "Fallback Colors",
		Image:  "/nonexistent/photo.jpg",
		Output: "fallback.png",
	})
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestRunBatchCollectsFailures(t *testing.T) {
	runner := NewRunner(testConfig(t), nil)

	posts := []Post{
		{Title: "Good One", Output: "one.png"},
		{Title: "Broken", Template: "fancy"},
		{Title: "Good Two", Template: "gradient", Output: "two.png"},
	}

	result := runner.RunBatch(context.Background(), posts)
	if result.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", result.Succeeded)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(result.Paths) != 2 {
		t.Errorf("len(Paths) = %d, want 2", len(result.Paths))
	}
	if len(result.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want 1", len(result.Errors))
	}
}

func TestRunBatchDefaultOutputNames(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, nil)

	result := runner.RunBatch(context.Background(), []Post{
		{Title: "No Output Name"},
		{Title: "Also Nameless"},
	})
	if result.Failed != 0 {
		t.Fatalf("Failed = %d, want 0 (errors: %v)", result.Failed, result.Errors)
	}

	for i := 1; i <= 2; i++ {
		path := filepath.Join(cfg.OutputDir, "blog_post_"+string(rune('0'+i))+".png")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("derived output %s missing: %v", path, err)
		}
	}
}

func writeTestPhoto(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		switch i % 4 {
		case 0:
			img.Pix[i] = 180 // R
		case 3:
			img.Pix[i] = 255 // A
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunBrandsBackgroundWithDarkerSwatch(t *testing.T) {
	// A photo-branded post paints the canvas with the darker derivative of
	// the photo's dominant color, and the header with the dominant itself.
	runner := NewRunner(testConfig(t), nil)

	photo := writeTestPhoto(t)
	cs, err := palette.ExtractFile(photo)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}

	out, err := runner.Run(context.Background(), Post{
		Title:  "Branded Colors",
		Image:  photo,
		Output: "branded_colors.png",
	})
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}

	// (295, 40) sits right of the accent bar and below the header on the
	// 300x200 canvas, clear of any text.
	bg := color.RGBAModel.Convert(img.At(295, 40)).(color.RGBA)
	want := cs.Darker.RGB
	if int(bg.R) != want[0] || int(bg.G) != want[1] || int(bg.B) != want[2] {
		t.Errorf("background pixel = (%d,%d,%d), want darker swatch %v", bg.R, bg.G, bg.B, want)
	}

	// Header row, center column.
	hd := color.RGBAModel.Convert(img.At(150, 5)).(color.RGBA)
	wantHd := cs.Dominant.RGB
	if int(hd.R) != wantHd[0] || int(hd.G) != wantHd[1] || int(hd.B) != wantHd[2] {
		t.Errorf("header pixel = (%d,%d,%d), want dominant swatch %v", hd.R, hd.G, hd.B, wantHd)
	}
}

func TestRunCachesExtractedPalette(t *testing.T) {
	cacheDir := t.TempDir()
	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(testConfig(t), nil).WithCache(fc)

	photo := writeTestPhoto(t)
	post := Post{Title: "Branded", Image: photo, Output: "branded.png"}

	if _, err := runner.Run(context.Background(), post); err != nil {
		t.Fatalf("first Run error = %v", err)
	}
	entries := countCacheEntries(t, cacheDir)
	if entries != 1 {
		t.Fatalf("cache entries after first run = %d, want 1", entries)
	}

	// The second run for the same unchanged photo reuses the entry.
	if _, err := runner.Run(context.Background(), post); err != nil {
		t.Fatalf("second Run error = %v", err)
	}
	if got := countCacheEntries(t, cacheDir); got != 1 {
		t.Errorf("cache entries after second run = %d, want 1", got)
	}
}

func countCacheEntries(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return count
}

func TestRunBatchCancelled(t *testing.T) {
	runner := NewRunner(testConfig(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := runner.RunBatch(ctx, []Post{{Title: "A"}, {Title: "B"}})
	if result.Succeeded != 0 {
		t.Errorf("Succeeded = %d, want 0 after cancellation", result.Succeeded)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2 (all posts unreached)", result.Failed)
	}
}
