// Package prefs stores per-user rename preferences: the naming template,
// upload caption, custom thumbnail, and the six container metadata tags.
// All lookups are absent-tolerant; an unset value is ("", nil), never an
// error.
package prefs

import "context"

// Store is the preference lookup surface the pipeline depends on. Keys are
// transport user or chat ids (the template and tags are per-user, caption
// and thumbnail per-chat, but the storage does not care).
type Store interface {
	// FormatTemplate returns the naming template, or "" when the user has
	// never configured one.
	FormatTemplate(ctx context.Context, id int64) (string, error)

	// Caption returns the upload caption override for a chat.
	Caption(ctx context.Context, id int64) (string, error)

	// ThumbFileID returns the transport file id of a custom thumbnail.
	ThumbFileID(ctx context.Context, id int64) (string, error)

	// The six container metadata tags.
	Title(ctx context.Context, id int64) (string, error)
	Artist(ctx context.Context, id int64) (string, error)
	Author(ctx context.Context, id int64) (string, error)
	VideoTitle(ctx context.Context, id int64) (string, error)
	AudioTitle(ctx context.Context, id int64) (string, error)
	Subtitle(ctx context.Context, id int64) (string, error)
}
