package naming

import (
	"path/filepath"
	"strings"
)

var unsafeReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"\x00", "",
)

// sanitize strips path separators and NULs so a template cannot produce a
// name that escapes the working directories.
func sanitize(name string) string {
	return strings.TrimSpace(unsafeReplacer.Replace(name))
}

// TargetFilename builds the final upload filename from a resolved template:
// the sanitized resolved name plus the original file's extension, or
// defaultExt when the original has none (e.g. ".mp4" for video).
func TargetFilename(resolved, originalName, defaultExt string) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = defaultExt
	}
	return sanitize(resolved) + ext
}
