package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
)

// binary is the muxer looked up on PATH. Variable so tests can point it at
// a stub.
var binary = "ffmpeg"

// Available reports whether the muxer binary can be found, returning its
// resolved path. Used by startup preflight and the check command.
func Available() (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", &ToolError{Op: "locate " + binary, Err: err}
	}
	return path, nil
}

// Rewrite stream-copies src into dst with tags stamped as container
// metadata. The payload is never re-encoded and all original streams are
// mapped. A missing binary or non-zero exit is a hard error carrying the
// captured stderr; callers decide whether that is fatal.
//
// The context is passed through to the process; no deadline is imposed
// here.
func Rewrite(ctx context.Context, src, dst string, tags Tags) error {
	path, err := Available()
	if err != nil {
		return err
	}

	args := buildArgs(src, dst, tags)
	cmd := exec.CommandContext(ctx, path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ToolError{
			Op:     "rewrite " + src,
			Err:    err,
			Stderr: stderr.String(),
		}
	}
	return nil
}
