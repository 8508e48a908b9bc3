// Package thumbs normalizes arbitrary input images into upload-ready
// thumbnails.
package thumbs

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// Upload thumbnails are a fixed 1280×720 baseline JPEG.
const (
	thumbWidth  = 1280
	thumbHeight = 720
	jpegQuality = 90
)

// Prepare normalizes the image at path into a 1280×720 JPEG, overwriting
// path in place. An empty path or a missing file yields ("", nil): no
// thumbnail, not an error. A decode or write failure deletes whatever was
// written and returns ("", err) so the caller can log the degradation;
// it must never abort the pipeline.
func Prepare(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		discard(path)
		return "", fmt.Errorf("decode thumbnail %s: %w", path, err)
	}

	thumb := imaging.Resize(img, thumbWidth, thumbHeight, imaging.Lanczos)

	// Encode explicitly as JPEG: the input path keeps whatever extension
	// the transport gave it, which imaging.Save would use to pick a format.
	out, err := os.Create(path)
	if err != nil {
		discard(path)
		return "", fmt.Errorf("write thumbnail %s: %w", path, err)
	}
	if err := imaging.Encode(out, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		_ = out.Close()
		discard(path)
		return "", fmt.Errorf("encode thumbnail %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		discard(path)
		return "", fmt.Errorf("write thumbnail %s: %w", path, err)
	}
	return path, nil
}

// discard removes a partial or unusable artifact. Best-effort.
func discard(path string) {
	_ = os.Remove(path)
}
