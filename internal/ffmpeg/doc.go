// Package ffmpeg drives the external muxer for stream-copy metadata
// rewrites: it builds the tag-injection argument list, executes ffmpeg with
// captured stderr, and reports availability for preflight checks.
package ffmpeg
