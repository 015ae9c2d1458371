// Package upload validates and stores blog featured images.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// AllowedExtensions is the image extension allow-list, lower-case without dot.
var AllowedExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

var (
	ErrExtensionNotAllowed = errors.New("image must be one of: jpg, jpeg, png, gif, webp")
	ErrNotAnImage          = errors.New("uploaded file is not an image")
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrTooLarge            = errors.New("uploaded file is too large")
)

// Storage persists a payload under dir and returns its relative path.
type Storage interface {
	Store(ctx context.Context, dir, name string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, relPath string) error
}

// Extension returns the lower-case extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// Check validates an image upload against the allow-list, the size limit
// and its sniffed content type. It returns the detected MIME type.
func Check(filename string, data []byte, maxBytes int64) (string, error) {
	if !allowed(Extension(filename)) {
		return "", ErrExtensionNotAllowed
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotAnImage
	}
	return mtype.String(), nil
}

// FileName builds a collision-resistant file name keeping the extension.
func FileName(original string) string {
	return uuid.NewString() + "." + Extension(original)
}

func allowed(ext string) bool {
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
