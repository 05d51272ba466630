package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberpost/emberpost/pkg/errors"
	"github.com/emberpost/emberpost/pkg/palette"
)

// colorsOpts holds the command-line flags for the colors command.
type colorsOpts struct {
	count   int    // number of palette colors to extract
	quality int    // pixel sampling step, 1 is exhaustive
	method  string // extraction method: dominant or kmeans
}

// newColorsCmd creates the colors command for inspecting a photo's palette.
func newColorsCmd() *cobra.Command {
	var opts colorsOpts

	cmd := &cobra.Command{
		Use:   "colors IMAGE",
		Short: "Extract the brand color set from a photo",
		Long: `Extract the brand color set from a photo and print it as JSON.

The color set contains the dominant color, the average color, darker
and lighter variants of the dominant color, and a small palette of the
most representative colors. The same set drives the generate and batch
commands when a post names a source photo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColors(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", palette.DefaultPaletteSize, "number of palette colors")
	cmd.Flags().IntVar(&opts.quality, "quality", palette.DefaultQuality, "sampling step (1 samples every pixel)")
	cmd.Flags().StringVar(&opts.method, "method", "dominant", "extraction method: dominant, kmeans")

	return cmd
}

// parseMethod maps the --method flag onto an extraction method.
func parseMethod(s string) (palette.Method, error) {
	switch s {
	case "", "dominant":
		return palette.MethodDominant, nil
	case "kmeans":
		return palette.MethodKMeans, nil
	default:
		return palette.MethodDominant, errors.New(errors.ErrCodeInvalidInput, "invalid method: %s (must be 'dominant' or 'kmeans')", s)
	}
}

// runColors extracts the color set from the image and prints it as
// indented JSON. Extraction failures fall back to the brand colors so
// the command always produces a usable set.
func runColors(ctx context.Context, imagePath string, opts *colorsOpts) error {
	logger := loggerFromContext(ctx)

	method, err := parseMethod(opts.method)
	if err != nil {
		return err
	}

	spinner := newSpinner(fmt.Sprintf("Extracting colors from %s", imagePath))
	spinner.Start()

	extractor := palette.Extractor{Method: method, Count: opts.count, Quality: opts.quality}
	cs, err := extractor.File(imagePath)
	if err != nil {
		spinner.StopWithError("Extraction failed, using brand fallback")
		logger.Warn("color extraction failed", "image", imagePath, "error", err)
		printWarning("%s", errors.UserMessage(err))
		cs = palette.Fallback()
	} else {
		spinner.StopWithSuccess("Colors extracted")
	}

	out, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode color set")
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
