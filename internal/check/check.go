// Package check provides system diagnostics (the check command) and
// pre-daemon validation (Preflight) for ffmpeg, working directories,
// and the preferences database.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/renamaster/internal/config"
	"github.com/backmassage/renamaster/internal/ffmpeg"
	"github.com/backmassage/renamaster/internal/prefs"
)

// Sentinel errors returned by Preflight when a required dependency is broken.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found on PATH")
	ErrDirNotWritable = errors.New("working directory not writable")
	ErrPrefsDB        = errors.New("preferences database unusable")
)

// RunCheck runs the interactive diagnostic flow: it reports ffmpeg
// availability and version, whether the working directories can be
// created and written, and whether the preferences database opens.
// This is informational only and does not stop on failure.
func RunCheck(cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("=== system check ===")

	checkFfmpeg(log)
	checkDirectories(cfg, log)
	checkPrefsDB(cfg, log)
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log zerolog.Logger) {
	path, err := ffmpeg.Available()
	if err != nil {
		log.Error().Msg("ffmpeg not found on PATH")
		return
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn().Err(err).Msg("ffmpeg found but -version failed")
		return
	}
	version := strings.TrimSpace(string(out))
	if idx := strings.Index(version, "\n"); idx > 0 {
		version = version[:idx]
	}
	log.Info().Str("path", path).Str("version", version).Msg("ffmpeg ok")
}

// checkDirectories verifies the data, downloads, and metadata directories
// can be created and written to.
func checkDirectories(cfg *config.Config, log zerolog.Logger) {
	if err := cfg.EnsureDirectories(); err != nil {
		log.Error().Err(err).Msg("could not create working directories")
		return
	}
	for _, dir := range []string{cfg.DataDir, cfg.DownloadsDir, cfg.MetadataDir} {
		if err := probeWritable(dir); err != nil {
			log.Error().Str("dir", dir).Err(err).Msg("directory not writable")
			continue
		}
		log.Info().Str("dir", dir).Msg("directory ok")
	}
}

// checkPrefsDB opens the preferences database and reports the set of
// known per-chat fields.
func checkPrefsDB(cfg *config.Config, log zerolog.Logger) {
	store, err := prefs.Open(cfg.PrefsDBPath())
	if err != nil {
		log.Error().Err(err).Msg("preferences database failed to open")
		return
	}
	defer store.Close()
	if err := store.Ping(context.Background()); err != nil {
		log.Error().Err(err).Msg("preferences database unreachable")
		return
	}
	log.Info().
		Str("path", cfg.PrefsDBPath()).
		Strs("fields", prefs.FieldNames()).
		Msg("preferences database ok")
}

// Preflight is the pre-daemon validation: ffmpeg must be on PATH, the
// working directories must be creatable and writable, and the
// preferences database must open. Returns a wrapped sentinel error on
// the first failure so callers can report exactly what is broken.
func Preflight(cfg *config.Config) error {
	if _, err := ffmpeg.Available(); err != nil {
		return ErrFfmpegNotFound
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("%w: %v", ErrDirNotWritable, err)
	}
	for _, dir := range []string{cfg.DataDir, cfg.DownloadsDir, cfg.MetadataDir} {
		if err := probeWritable(dir); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDirNotWritable, dir, err)
		}
	}
	store, err := prefs.Open(cfg.PrefsDBPath())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrefsDB, err)
	}
	defer store.Close()
	if err := store.Ping(context.Background()); err != nil {
		return fmt.Errorf("%w: %v", ErrPrefsDB, err)
	}
	return nil
}

// probeWritable creates and removes a temp file in dir to confirm write access.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".writecheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
