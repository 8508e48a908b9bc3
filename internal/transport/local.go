package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Local is a file-drop transport for running the pipeline without a chat
// backend: files placed in <root>/inbox become events, uploads land in
// <root>/outbox. A sidecar "<name>.caption" next to an inbox file supplies
// the event caption. Meant for local operation and end-to-end testing.
type Local struct {
	inbox  string
	outbox string
	poll   time.Duration
	log    zerolog.Logger
}

// NewLocal creates the inbox and outbox under root.
func NewLocal(root string, log zerolog.Logger) (*Local, error) {
	l := &Local{
		inbox:  filepath.Join(root, "inbox"),
		outbox: filepath.Join(root, "outbox"),
		poll:   2 * time.Second,
		log:    log.With().Str("component", "local-transport").Logger(),
	}
	for _, dir := range []string{l.inbox, l.outbox} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return l, nil
}

// Events polls the inbox and emits one event per newly seen file. The
// channel closes when ctx is cancelled.
func (l *Local) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		seen := make(map[string]bool)
		ticker := time.NewTicker(l.poll)
		defer ticker.Stop()
		for {
			l.scan(ctx, seen, out)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (l *Local) scan(ctx context.Context, seen map[string]bool, out chan<- Event) {
	entries, err := os.ReadDir(l.inbox)
	if err != nil {
		l.log.Warn().Err(err).Msg("inbox scan failed")
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || seen[name] || strings.HasSuffix(name, ".caption") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		seen[name] = true

		ev := Event{
			File: InboundFile{
				ID:          name,
				DisplayName: name,
				ByteSize:    info.Size(),
				Kind:        kindForName(name),
			},
			UserID:  1,
			ChatID:  1,
			Caption: l.readCaption(name),
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// readCaption returns the contents of the sidecar caption file, if any.
func (l *Local) readCaption(name string) string {
	data, err := os.ReadFile(filepath.Join(l.inbox, name+".caption"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// kindForName classifies by extension the way a chat backend would by MIME.
func kindForName(name string) MediaKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mkv", ".avi", ".mov", ".webm":
		return KindVideo
	case ".mp3", ".flac", ".m4a", ".ogg", ".wav":
		return KindAudio
	}
	return KindDocument
}

// DownloadFile copies the inbox file to dest, reporting copy progress.
func (l *Local) DownloadFile(ctx context.Context, ev Event, dest string, progress Progress) (string, error) {
	src := filepath.Join(l.inbox, ev.File.ID)
	if err := copyFile(ctx, src, dest, ev.File.ByteSize, progress); err != nil {
		return "", err
	}
	return dest, nil
}

// DownloadByID treats the id as an inbox-relative name and copies it next
// to the inbox under a temp name. Used for custom thumbnails.
func (l *Local) DownloadByID(ctx context.Context, fileID string) (string, error) {
	src := filepath.Join(l.inbox, filepath.Base(fileID))
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("unknown file id %q: %w", fileID, err)
	}
	dest := filepath.Join(os.TempDir(), fmt.Sprintf("renamaster-thumb-%d%s", time.Now().UnixNano(), filepath.Ext(src)))
	if err := copyFile(ctx, src, dest, 0, nil); err != nil {
		return "", err
	}
	return dest, nil
}

// SendVideo places the file in the outbox under its final name and writes
// the caption as a sidecar. The thumbnail, when present, lands alongside.
func (l *Local) SendVideo(ctx context.Context, chatID int64, path, caption, thumbPath string, progress Progress) error {
	dest := filepath.Join(l.outbox, filepath.Base(path))
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := copyFile(ctx, path, dest, info.Size(), progress); err != nil {
		return err
	}
	if caption != "" {
		if err := os.WriteFile(dest+".caption", []byte(caption+"\n"), 0o644); err != nil {
			l.log.Warn().Err(err).Msg("caption sidecar write failed")
		}
	}
	if thumbPath != "" {
		thumbDest := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".thumb.jpg"
		if err := copyFile(ctx, thumbPath, thumbDest, 0, nil); err != nil {
			l.log.Warn().Err(err).Msg("thumbnail copy failed")
		}
	}
	l.log.Info().Str("dest", dest).Msg("delivered to outbox")
	return nil
}

// Reply returns a status message that surfaces edits through the log.
func (l *Local) Reply(ctx context.Context, ev Event, text string) (StatusMessage, error) {
	msg := &logStatus{log: l.log.With().Str("file_id", ev.File.ID).Logger()}
	msg.log.Info().Str("status", text).Msg("status")
	return msg, nil
}

type logStatus struct {
	log zerolog.Logger
}

func (m *logStatus) Edit(ctx context.Context, text string) error {
	m.log.Info().Str("status", text).Msg("status")
	return nil
}

func (m *logStatus) Delete(ctx context.Context) error { return nil }

// copyFile streams src to dest in chunks, honoring ctx between chunks and
// invoking progress with running totals. total may be 0 when unknown.
func copyFile(ctx context.Context, src, dest string, total int64, progress Progress) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	var done int64
	buf := make([]byte, 256*1024)
	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			os.Remove(dest)
			return err
		}
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				os.Remove(dest)
				return writeErr
			}
			done += int64(n)
			if progress != nil {
				progress(done, total)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			out.Close()
			os.Remove(dest)
			return readErr
		}
	}
	return out.Close()
}

var _ Client = (*Local)(nil)
