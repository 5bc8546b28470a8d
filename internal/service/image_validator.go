package service

import (
	"strings"

	"dealership/internal/errors"
)

// maxImageSize is the upload cap: 10 MiB.
const maxImageSize = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// ImageValidator validates uploaded image files before they reach the object
// store. Validation is pure: no I/O, rejected files never touch the store.
type ImageValidator struct{}

// NewImageValidator creates a new image validator.
func NewImageValidator() *ImageValidator {
	return &ImageValidator{}
}

// ValidateImage checks the declared size, filename extension, and content type.
func (v *ImageValidator) ValidateImage(filename string, size int64, contentType string) error {
	if size <= 0 {
		return errors.ErrEmptyFile
	}

	if size > maxImageSize {
		return errors.ErrFileTooLarge
	}

	ext := fileExtension(filename)
	if !allowedExtensions[strings.ToLower(ext)] {
		return errors.ErrInvalidFileType
	}

	if !strings.HasPrefix(contentType, "image/") {
		return errors.ErrNotAnImage
	}

	return nil
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return ""
	}
	return filename[idx+1:]
}
