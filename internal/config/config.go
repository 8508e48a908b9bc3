// Package config holds runtime configuration: defaults, TOML file loading,
// validation, and working-directory creation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config holds all daemon settings. Populated by [Default] and then
// overlaid by [Load] from a TOML file.
type Config struct {
	// DataDir holds daemon state: the preference database and the
	// single-instance lock.
	DataDir string `toml:"data_dir"`

	// DownloadsDir and MetadataDir are the two working directories for
	// transient job artifacts, created on demand.
	DownloadsDir string `toml:"downloads_dir"`
	MetadataDir  string `toml:"metadata_dir"`

	// DownloadTimeoutSeconds and UploadTimeoutSeconds bound each transfer
	// call so a stalled transport produces a typed timeout instead of a
	// hung job.
	DownloadTimeoutSeconds int `toml:"download_timeout_seconds"`
	UploadTimeoutSeconds   int `toml:"upload_timeout_seconds"`

	// LogLevel is a zerolog level string. LogFile, when set, receives a
	// JSON copy of every event.
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// MetricsBind exposes Prometheus metrics on the given address when
	// non-empty (e.g. "127.0.0.1:9417"). Empty disables the listener.
	MetricsBind string `toml:"metrics_bind"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		DataDir:                "data",
		DownloadsDir:           "downloads",
		MetadataDir:            "metadata",
		DownloadTimeoutSeconds: 1200,
		UploadTimeoutSeconds:   1200,
		LogLevel:               "info",
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned and a sample is written for the operator to edit.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if writeErr := os.WriteFile(path, []byte(sampleConfig), 0o644); writeErr == nil {
			return cfg, nil
		}
		// Could not seed a sample; still run on defaults.
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks for nonsensical settings.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.DownloadsDir == "" || c.MetadataDir == "" {
		return errors.New("downloads_dir and metadata_dir must not be empty")
	}
	if c.DownloadsDir == c.MetadataDir {
		return errors.New("downloads_dir and metadata_dir must differ")
	}
	if c.DownloadTimeoutSeconds <= 0 || c.UploadTimeoutSeconds <= 0 {
		return errors.New("transfer timeouts must be positive")
	}
	return nil
}

// EnsureDirectories creates the data and working directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.DownloadsDir, c.MetadataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PrefsDBPath returns the location of the per-chat preference database.
func (c *Config) PrefsDBPath() string {
	return filepath.Join(c.DataDir, "prefs.db")
}

// LockPath returns the location of the single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "renamaster.lock")
}

// DownloadTimeout returns the per-download deadline.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutSeconds) * time.Second
}

// UploadTimeout returns the per-upload-attempt deadline.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutSeconds) * time.Second
}
