package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDimensions validates canvas dimensions for a render call.
// Width and height must both be positive; zero or negative values are
// rejected before any drawing begins.
func ValidateDimensions(width, height int) error {
	if width <= 0 {
		return New(ErrCodeInvalidDimensions, "width must be positive, got %d", width)
	}
	if height <= 0 {
		return New(ErrCodeInvalidDimensions, "height must be positive, got %d", height)
	}
	return nil
}

// hexColorRegex matches a 6-digit hex color with optional leading '#'.
var hexColorRegex = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// ValidateHexColor validates a 6-digit hex color string such as "#cc5500".
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", s)
	}
	return nil
}

// ValidateOpacity validates an overlay opacity value, which must lie in [0, 1].
func ValidateOpacity(opacity float64) error {
	if opacity < 0 || opacity > 1 {
		return New(ErrCodeInvalidInput, "opacity must be in [0, 1], got %g", opacity)
	}
	return nil
}

// ValidateOutputFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components,
// since the render engine joins it onto the configured output directory.
func ValidateOutputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "output filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "output filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidInput, "output filename cannot contain path traversal sequences (..)")
	}

	// Check for control characters and null bytes
	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output filename contains invalid control characters")
		}
	}

	const maxFilenameLength = 255
	if len(filename) > maxFilenameLength {
		return New(ErrCodeInvalidInput, "output filename too long (max %d characters)", maxFilenameLength)
	}

	return nil
}
