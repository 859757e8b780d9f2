package utils

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var imageExt = regexp.MustCompile(`(?i)\.(webp|png|jpe?g)$`)

// ImageID turns a gallery filename into the identifier the API expects.
func ImageID(filename string) string {
	return imageExt.ReplaceAllString(strings.TrimSpace(filename), "")
}

func FileNameFromCd(cd string) string {
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	fn := strings.TrimSpace(params["filename"])
	fn = strings.ReplaceAll(fn, string(os.PathSeparator), "_")
	return fn
}

// SanitizeFilename keeps only the base name and drops anything that could
// escape the download directory.
func SanitizeFilename(filename, fallback string) string {
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	if filename == "." || filename == "/" || filename == ".." || filename == "" {
		return fallback
	}
	filename = strings.Join(strings.Fields(filename), "-")
	filename = strings.TrimLeft(filename, ".")
	if filename == "" {
		return fallback
	}
	return filename
}

var ErrOutsideDir = errors.New("path escapes download directory")

// PathWithin joins name onto dir and returns the absolute result, refusing
// anything that would resolve to dir itself or somewhere above it.
func PathWithin(dir, name string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, name)

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", err
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideDir, name)
	}
	return target, nil
}

func NewRequestID() string {
	return uuid.NewString()
}
