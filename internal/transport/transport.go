// Package transport defines the narrow contract the chat transport must
// satisfy: the inbound event model, file transfer primitives with progress
// reporting, message primitives for user-visible status, and the
// rate-limit/timeout error taxonomy shared by all of them.
package transport

import "context"

// MediaKind classifies an inbound file.
type MediaKind string

const (
	KindDocument MediaKind = "document"
	KindVideo    MediaKind = "video"
	KindAudio    MediaKind = "audio"
)

// DefaultExt is the extension applied when the original filename has none.
func (k MediaKind) DefaultExt() string {
	if k == KindVideo {
		return ".mp4"
	}
	return ".mp3"
}

// InboundFile describes one received media attachment. Immutable once
// received. ID is transport-assigned and keys deduplication.
type InboundFile struct {
	ID          string
	DisplayName string
	ByteSize    int64
	Kind        MediaKind
	// DurationSeconds is the transport-reported duration; 0 when absent
	// or unknown. See mediainfo.ReliableDuration before believing it.
	DurationSeconds int
	// ThumbFileID references the media's embedded thumbnail, when the
	// transport extracted one. Empty otherwise.
	ThumbFileID string
}

// Event is one inbound media message.
type Event struct {
	File    InboundFile
	UserID  int64
	ChatID  int64
	Caption string
}

// Progress reports transferred vs total bytes during a file transfer.
type Progress func(transferred, total int64)

// StatusMessage is a user-visible status message that can be edited in
// place as the job advances, then deleted.
type StatusMessage interface {
	Edit(ctx context.Context, text string) error
	Delete(ctx context.Context) error
}

// Client is the transport surface the pipeline drives. Implementations
// return [RateLimitError] when the transport demands a wait and
// [TimeoutError] when a bounded transfer exceeds its deadline.
type Client interface {
	// DownloadFile fetches the event's media to dest and returns the
	// local path written.
	DownloadFile(ctx context.Context, ev Event, dest string, progress Progress) (string, error)

	// DownloadByID fetches an auxiliary file (e.g. a thumbnail) by its
	// transport file id into the working directory, returning the local
	// path. An unknown id is an error.
	DownloadByID(ctx context.Context, fileID string) (string, error)

	// SendVideo uploads path to the chat with the given caption and
	// optional thumbnail path (empty = none).
	SendVideo(ctx context.Context, chatID int64, path, caption, thumbPath string, progress Progress) error

	// Reply posts a new status message in the event's chat.
	Reply(ctx context.Context, ev Event, text string) (StatusMessage, error)
}
