package ffmpeg

// Tags holds the six container metadata fields written during a rewrite.
// Empty values are written as empty tags, matching the muxer's behavior of
// clearing any previous value.
type Tags struct {
	Title      string
	Artist     string
	Author     string
	VideoTitle string // per-stream: every video stream's title
	AudioTitle string // per-stream: every audio stream's title
	Subtitle   string // per-stream: every subtitle stream's title
}

// buildArgs constructs the complete argument slice (binary excluded) for a
// stream-copy rewrite of src into dst. All original streams are mapped and
// the encoded payload is copied untouched; only container-level tags change.
func buildArgs(src, dst string, tags Tags) []string {
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", src,
		"-metadata", "title=" + tags.Title,
		"-metadata", "artist=" + tags.Artist,
		"-metadata", "author=" + tags.Author,
		"-metadata:s:v", "title=" + tags.VideoTitle,
		"-metadata:s:a", "title=" + tags.AudioTitle,
		"-metadata:s:s", "title=" + tags.Subtitle,
		"-map", "0",
		"-c", "copy",
		"-loglevel", "error",
		dst,
	}
}
