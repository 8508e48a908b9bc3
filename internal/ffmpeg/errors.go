package ffmpeg

// ToolError wraps a muxer failure: a missing binary or a non-zero exit with
// whatever diagnostics the process wrote to stderr.
type ToolError struct {
	Op     string
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return e.Op + ": " + e.Err.Error() + ": " + e.Stderr
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ToolError) Unwrap() error { return e.Err }
