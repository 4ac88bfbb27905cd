package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// imageExtensions is the set of image file extensions the decoders accept.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ValidateImagePath validates that a path points to a supported image format.
// It rejects empty paths, paths with control characters, and unknown extensions.
func ValidateImagePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "image path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "image path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return New(ErrCodeInvalidPath, "missing image format for %q", path)
	}
	if !imageExtensions[ext] {
		return New(ErrCodeUnsupported, "unsupported image format %q", ext)
	}

	return nil
}

// ValidateOwnerName validates a brick owner display name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters (save format display limit)
func ValidateOwnerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOwner, "owner name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidOwner, "owner name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOwner, "owner name contains invalid control characters")
		}
	}

	return nil
}

// ValidateStudSize validates the brick stud size multiplier.
// A stud spans 10 internal units, and the output format caps procedural
// bricks at 500 units per axis, so sizes that cannot fit a single
// unmerged tile are rejected up front.
func ValidateStudSize(size int) error {
	if size < 1 {
		return New(ErrCodeInvalidInput, "stud size must be at least 1, got %d", size)
	}
	if size*5 > 500 {
		return New(ErrCodeInvalidInput, "stud size %d exceeds the maximum brick footprint", size)
	}
	return nil
}
