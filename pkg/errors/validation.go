package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxLabelLength bounds entity labels accepted at ingestion time.
const maxLabelLength = 256

// ValidateLabel validates an entity label as it arrives from CSV or the API.
//
// The rules are conservative:
//   - No empty labels
//   - No control characters (including null bytes)
//   - Maximum length of 256 bytes
//
// Labels are otherwise compared byte for byte; no trimming or case folding
// happens here.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateValue checks that a relationship value is a finite number.
func ValidateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "value must be a finite number")
	}
	return nil
}

// filenameRegex matches download filenames offered to browsers.
var filenameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateFilename validates a download filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain '..'")
	}

	if !filenameRegex.MatchString(filename) {
		return New(ErrCodeInvalidFilename, "invalid filename: %q", filename)
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor checks that c is a hex color usable in both SVG and raster output.
func ValidateColor(c string) error {
	if !hexColorRegex.MatchString(c) {
		return New(ErrCodeInvalidPalette, "invalid color %q (want #rgb or #rrggbb)", c)
	}
	return nil
}
