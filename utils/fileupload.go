package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxSwatchFileSize is 10MB in bytes
	MaxSwatchFileSize = 10 * 1024 * 1024
)

// allowedSwatchFormats are the image formats accepted for swatch and artwork
// uploads
var allowedSwatchFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateSwatchFile validates the uploaded swatch image format and size
func ValidateSwatchFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxSwatchFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxSwatchFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedSwatchFormats[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG and JPEG files are allowed",
		}
	}

	return nil
}

// SwatchContentType returns the MIME type for an accepted swatch filename
func SwatchContentType(filename string) string {
	if contentType, ok := allowedSwatchFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return contentType
	}
	return "application/octet-stream"
}
