package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/renamaster/internal/config"
	"github.com/backmassage/renamaster/internal/transport"
)

// stubClient satisfies transport.Client for events that never reach the
// transfer stages.
type stubClient struct{}

func (stubClient) DownloadFile(context.Context, transport.Event, string, transport.Progress) (string, error) {
	return "", errors.New("not reachable in this test")
}

func (stubClient) DownloadByID(context.Context, string) (string, error) {
	return "", errors.New("not reachable in this test")
}

func (stubClient) SendVideo(context.Context, int64, string, string, string, transport.Progress) error {
	return errors.New("not reachable in this test")
}

func (stubClient) Reply(context.Context, transport.Event, string) (transport.StatusMessage, error) {
	return nil, nil
}

// emptyStore has no template for any sender, so every event terminates
// before touching the transport transfer surface.
type emptyStore struct{}

func (emptyStore) FormatTemplate(context.Context, int64) (string, error) { return "", nil }
func (emptyStore) Caption(context.Context, int64) (string, error)        { return "", nil }
func (emptyStore) ThumbFileID(context.Context, int64) (string, error)    { return "", nil }
func (emptyStore) Title(context.Context, int64) (string, error)          { return "", nil }
func (emptyStore) Artist(context.Context, int64) (string, error)         { return "", nil }
func (emptyStore) Author(context.Context, int64) (string, error)         { return "", nil }
func (emptyStore) VideoTitle(context.Context, int64) (string, error)     { return "", nil }
func (emptyStore) AudioTitle(context.Context, int64) (string, error)     { return "", nil }
func (emptyStore) Subtitle(context.Context, int64) (string, error)       { return "", nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(base, "data")
	cfg.DownloadsDir = filepath.Join(base, "downloads")
	cfg.MetadataDir = filepath.Join(base, "metadata")
	return &cfg
}

func TestNewRejectsSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	first, err := New(cfg, log, stubClient{}, emptyStore{})
	if err != nil {
		t.Fatalf("first instance: %v", err)
	}
	defer first.Close()

	if _, err := New(cfg, log, stubClient{}, emptyStore{}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second instance error = %v, want ErrAlreadyRunning", err)
	}
}

func TestLockReleasedOnClose(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	first, err := New(cfg, log, stubClient{}, emptyStore{})
	if err != nil {
		t.Fatalf("first instance: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(cfg, log, stubClient{}, emptyStore{})
	if err != nil {
		t.Fatalf("relock after close: %v", err)
	}
	second.Close()
}

func TestRunDrainsEventsAndStops(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, zerolog.Nop(), stubClient{}, emptyStore{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Close()

	events := make(chan transport.Event, 3)
	for i := 0; i < 3; i++ {
		events <- transport.Event{
			File:   transport.InboundFile{ID: "file-" + string(rune('a'+i)), DisplayName: "x.mkv", Kind: transport.KindVideo},
			UserID: int64(i + 1),
			ChatID: int64(i + 1),
		}
	}
	close(events)

	if err := d.Run(context.Background(), events); err != nil {
		t.Fatalf("run: %v", err)
	}

	stats := d.Stats()
	if stats.Received != 3 || stats.NoTemplate != 3 {
		t.Errorf("stats = %+v, want 3 received / 3 without template", stats)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, zerolog.Nop(), stubClient{}, emptyStore{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan transport.Event)

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, events) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
