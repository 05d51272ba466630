package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/emberpost/emberpost/pkg/cache"
	"github.com/emberpost/emberpost/pkg/errors"
	"github.com/emberpost/emberpost/pkg/pipeline"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	config    string // path to a JSON or TOML config file
	outputDir string // output directory override
	cacheDir  string // palette cache directory, empty disables caching
	watch     bool   // re-run whenever the posts file changes
}

// newBatchCmd creates the batch command for rendering a whole posts file.
func newBatchCmd() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch POSTS_FILE",
		Short: "Render images for every post in a JSON posts file",
		Long: `Render images for every post in a JSON posts file.

The file must contain a JSON array of posts with at least a title each.
Posts may set their own template, subtitle, output filename, and source
photo for palette extraction. Failed posts are reported individually
and do not stop the rest of the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "path to configuration file (JSON or TOML)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "output directory override")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache extracted palettes in this directory")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "watch the posts file and re-render on change")

	return cmd
}

// runBatch executes the posts file once, or repeatedly in watch mode.
func runBatch(ctx context.Context, postsPath string, opts *batchOpts) error {
	cfg, err := loadRenderConfig(opts.config, "", opts.outputDir)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cfg, loggerFromContext(ctx))
	if opts.cacheDir != "" {
		fc, err := cache.NewFileCache(opts.cacheDir)
		if err != nil {
			return err
		}
		defer fc.Close()
		runner.WithCache(fc)
	}

	if !opts.watch {
		result, err := executeBatch(ctx, runner, postsPath)
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			return errors.New(errors.ErrCodeInternal, "%d of %d posts failed", result.Failed, result.Succeeded+result.Failed)
		}
		return nil
	}

	return watchBatch(ctx, runner, postsPath)
}

// executeBatch loads the posts file, runs every post, and prints a summary.
func executeBatch(ctx context.Context, runner *pipeline.Runner, postsPath string) (pipeline.Result, error) {
	posts, err := pipeline.LoadPosts(postsPath)
	if err != nil {
		return pipeline.Result{}, err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d posts", len(posts)))
	spinner.Start()

	result := runner.RunBatch(ctx, posts)

	if spinner.Cancelled() {
		spinner.StopWithError("Batch cancelled")
	} else if result.Failed > 0 {
		spinner.StopWithError("Batch finished with failures")
	} else {
		spinner.StopWithSuccess("Batch complete")
	}

	fmt.Println(StyleTitle.Render("Batch summary"))
	printKeyValue("Succeeded", strconv.Itoa(result.Succeeded))
	printKeyValue("Failed", strconv.Itoa(result.Failed))
	printKeyValue("Elapsed", result.Elapsed.Round(time.Millisecond).String())
	for _, path := range result.Paths {
		printFile(path)
	}
	for _, perr := range result.Errors {
		printError("%s", errors.UserMessage(perr))
	}
	printNewline()

	return result, nil
}

// watchBatch renders the posts file, then re-renders on every change until
// the context is cancelled. The watch is on the parent directory because
// editors typically replace the file rather than write it in place.
func watchBatch(ctx context.Context, runner *pipeline.Runner, postsPath string) error {
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to start file watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(postsPath)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to watch directory: %s", dir)
	}

	if _, err := executeBatch(ctx, runner, postsPath); err != nil {
		printError("%s", errors.UserMessage(err))
	}
	logger.Info("watching for changes", "file", postsPath)

	target, _ := filepath.Abs(postsPath)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Info("posts file changed, re-rendering", "file", postsPath)
			if _, err := executeBatch(ctx, runner, postsPath); err != nil {
				printError("%s", errors.UserMessage(err))
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", werr)
		}
	}
}
