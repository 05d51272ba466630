package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberpost/emberpost/pkg/errors"
	"github.com/emberpost/emberpost/pkg/pipeline"
	"github.com/emberpost/emberpost/pkg/render"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	subtitle  string // optional subtitle text
	template  string // template style: basic, gradient, or minimal
	output    string // output filename within the output directory
	config    string // path to a JSON or TOML config file
	size      string // canvas size as WIDTHxHEIGHT
	format    string // output format: png or jpeg
	formatSet bool   // whether --format was given explicitly
	image     string // local photo used as the palette source
	outputDir string // output directory override
}

// newGenerateCmd creates the generate command for rendering a single image.
//
// Default settings:
//   - template: basic
//   - size: from config (1200x630 by default)
//   - format: png
func newGenerateCmd() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate TITLE",
		Short: "Render a single branded blog post image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formatSet = cmd.Flags().Changed("format")
			return runGenerate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.subtitle, "subtitle", "s", "", "subtitle text (optional)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "basic", "template style: basic, gradient, minimal")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output filename (default derived from format)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "path to configuration file (JSON or TOML)")
	cmd.Flags().StringVar(&opts.size, "size", "", "canvas size as WIDTHxHEIGHT (e.g. 1200x630)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "png", "output format: png or jpeg (must match --output's extension when both are given)")
	cmd.Flags().StringVar(&opts.image, "image", "", "photo to extract brand colors from")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "output directory override")

	return cmd
}

// loadRenderConfig builds the effective config from file, environment, and
// flag overrides, in that precedence order.
func loadRenderConfig(configPath, size, outputDir string) (render.Config, error) {
	cfg := render.DefaultConfig()
	if configPath != "" {
		loaded, err := render.LoadConfig(configPath)
		if err != nil {
			return render.Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if size != "" {
		w, h, err := parseSize(size)
		if err != nil {
			return render.Config{}, err
		}
		cfg.Width = w
		cfg.Height = h
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return cfg, nil
}

// parseSize parses a WIDTHxHEIGHT string such as "1200x630".
func parseSize(s string) (width, height int, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (use WIDTHxHEIGHT, e.g. 1200x630)", s)
	}
	width, werr := strconv.Atoi(parts[0])
	height, herr := strconv.Atoi(parts[1])
	if werr != nil || herr != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (use WIDTHxHEIGHT, e.g. 1200x630)", s)
	}
	return width, height, nil
}

// validateFormat checks that the format is either "png" or "jpeg".
func validateFormat(format string) error {
	if format != "png" && format != "jpeg" {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png' or 'jpeg')", format)
	}
	return nil
}

// defaultFilename derives the output filename from the requested format.
func defaultFilename(format string) string {
	if format == "jpeg" {
		return "blog_image.jpg"
	}
	return "blog_image.png"
}

// resolveOutput derives the final output filename. The encoder is chosen
// by extension, so when both --output and --format are given explicitly
// they must agree rather than letting the format flag be silently ignored.
func resolveOutput(output, format string, formatSet bool) (string, error) {
	if output == "" {
		return defaultFilename(format), nil
	}
	if !formatSet {
		return output, nil
	}
	ext := strings.ToLower(filepath.Ext(output))
	isJPEG := ext == ".jpg" || ext == ".jpeg"
	if (format == "jpeg") != isJPEG {
		return "", errors.New(errors.ErrCodeInvalidFormat, "output %q conflicts with format %q (the filename extension picks the encoder)", output, format)
	}
	return output, nil
}

// runGenerate renders one image from the resolved config and flags.
func runGenerate(ctx context.Context, title string, opts *generateOpts) error {
	logger := loggerFromContext(ctx)

	if err := validateFormat(opts.format); err != nil {
		return err
	}

	cfg, err := loadRenderConfig(opts.config, opts.size, opts.outputDir)
	if err != nil {
		return err
	}

	output, err := resolveOutput(opts.output, opts.format, opts.formatSet)
	if err != nil {
		return err
	}

	logger.Debug("generating image", "template", opts.template, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))

	prog := newProgress(logger)
	spinner := newSpinner(fmt.Sprintf("Rendering %s template", opts.template))
	spinner.Start()

	runner := pipeline.NewRunner(cfg, logger)
	path, err := runner.Run(ctx, pipeline.Post{
		Title:    title,
		Subtitle: opts.subtitle,
		Template: opts.template,
		Output:   output,
		Image:    opts.image,
	})
	if err != nil {
		spinner.StopWithError("Image generation failed")
		return err
	}

	spinner.StopWithSuccess("Image created")
	printFile(path)
	prog.done("Generated 1 image")
	return nil
}
