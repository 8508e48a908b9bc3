package pipeline

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// removeAll best-effort deletes every non-empty path. Individual failures
// are logged and swallowed; cleanup never propagates an error.
func removeAll(log zerolog.Logger, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("cleanup: remove failed")
		}
	}
}
