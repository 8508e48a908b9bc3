package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/renamaster/internal/config"
	"github.com/backmassage/renamaster/internal/ffmpeg"
	"github.com/backmassage/renamaster/internal/transport"
)

// --- fake transport ---

type fakeStatus struct {
	mu      sync.Mutex
	edits   []string
	deleted bool
}

func (m *fakeStatus) Edit(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, text)
	return nil
}

func (m *fakeStatus) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = true
	return nil
}

type fakeClient struct {
	mu sync.Mutex

	// Errors popped in order before transfers succeed.
	downloadErrs []error
	uploadErrs   []error

	downloadCalls int
	uploadCalls   int

	uploadedPath    string
	uploadedCaption string
	uploadedThumb   string

	replies []string
	status  *fakeStatus

	// byID maps auxiliary file ids to content; downloads land in dir.
	byID map[string]string
	dir  string
}

func newFakeClient(dir string) *fakeClient {
	return &fakeClient{status: &fakeStatus{}, byID: map[string]string{}, dir: dir}
}

func (c *fakeClient) DownloadFile(_ context.Context, _ transport.Event, dest string, progress transport.Progress) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.downloadCalls++
	if len(c.downloadErrs) > 0 {
		err := c.downloadErrs[0]
		c.downloadErrs = c.downloadErrs[1:]
		return "", err
	}
	if err := os.WriteFile(dest, []byte("media payload"), 0o644); err != nil {
		return "", err
	}
	if progress != nil {
		progress(13, 13)
	}
	return dest, nil
}

func (c *fakeClient) DownloadByID(_ context.Context, fileID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	content, ok := c.byID[fileID]
	if !ok {
		return "", &transport.TimeoutError{Op: "download " + fileID}
	}
	path := filepath.Join(c.dir, fileID+".jpg")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (c *fakeClient) SendVideo(_ context.Context, _ int64, path, caption, thumbPath string, _ transport.Progress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploadCalls++
	if len(c.uploadErrs) > 0 {
		err := c.uploadErrs[0]
		c.uploadErrs = c.uploadErrs[1:]
		return err
	}
	c.uploadedPath = path
	c.uploadedCaption = caption
	c.uploadedThumb = thumbPath
	return nil
}

func (c *fakeClient) Reply(_ context.Context, _ transport.Event, text string) (transport.StatusMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, text)
	return c.status, nil
}

// --- fake preference store ---

type fakeStore struct {
	template string
	caption  string
	thumbID  string
	tags     ffmpeg.Tags

	templateErr error
}

func (s *fakeStore) FormatTemplate(context.Context, int64) (string, error) {
	return s.template, s.templateErr
}
func (s *fakeStore) Caption(context.Context, int64) (string, error)     { return s.caption, nil }
func (s *fakeStore) ThumbFileID(context.Context, int64) (string, error) { return s.thumbID, nil }
func (s *fakeStore) Title(context.Context, int64) (string, error)       { return s.tags.Title, nil }
func (s *fakeStore) Artist(context.Context, int64) (string, error)      { return s.tags.Artist, nil }
func (s *fakeStore) Author(context.Context, int64) (string, error)      { return s.tags.Author, nil }
func (s *fakeStore) VideoTitle(context.Context, int64) (string, error) {
	return s.tags.VideoTitle, nil
}
func (s *fakeStore) AudioTitle(context.Context, int64) (string, error) {
	return s.tags.AudioTitle, nil
}
func (s *fakeStore) Subtitle(context.Context, int64) (string, error) { return s.tags.Subtitle, nil }

// --- runner fixture ---

type fixture struct {
	runner *Runner
	client *fakeClient
	store  *fakeStore
	cfg    *config.Config
	sleeps []time.Duration
}

// newFixture builds a runner with instant sleeps, a copying muxer stub, and
// an identity thumbnail preparer, all under a temp directory.
func newFixture(t *testing.T, store *fakeStore) *fixture {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.DataDir = filepath.Join(base, "data")
	cfg.DownloadsDir = filepath.Join(base, "downloads")
	cfg.MetadataDir = filepath.Join(base, "metadata")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	client := newFakeClient(base)
	f := &fixture{client: client, store: store, cfg: &cfg}

	f.runner = &Runner{
		cfg:    &cfg,
		log:    zerolog.Nop(),
		client: client,
		store:  store,
		dedup:  NewDedup(DebounceWindow),
		sleep: func(_ context.Context, d time.Duration) {
			f.sleeps = append(f.sleeps, d)
		},
		rewrite: func(_ context.Context, src, dst string, _ ffmpeg.Tags) error {
			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}
			return os.WriteFile(dst, data, 0o644)
		},
		prepare: func(path string) (string, error) { return path, nil },
	}
	return f
}

func videoEvent(id, name, caption string) transport.Event {
	return transport.Event{
		File: transport.InboundFile{
			ID:          id,
			DisplayName: name,
			ByteSize:    50 * 1024 * 1024,
			Kind:        transport.KindVideo,
		},
		UserID:  100,
		ChatID:  200,
		Caption: caption,
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
