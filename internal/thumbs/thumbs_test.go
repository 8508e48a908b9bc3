package thumbs

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeImage(t *testing.T, path string, w, h int, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestPrepare_ResizesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.jpg")
	writeImage(t, path, 320, 240, func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, nil)
	})

	got, err := Prepare(path)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if got != path {
		t.Fatalf("got %q, want %q", got, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
}

func TestPrepare_PNGInputBecomesJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.png")
	writeImage(t, path, 64, 64, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})

	got, err := Prepare(path)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if got == "" {
		t.Fatal("got no thumbnail")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer f.Close()
	if _, format, err := image.DecodeConfig(f); err != nil || format != "jpeg" {
		t.Errorf("format = %q (err %v), want jpeg", format, err)
	}
}

func TestPrepare_AbsentInputs(t *testing.T) {
	if got, err := Prepare(""); got != "" || err != nil {
		t.Errorf("empty path: got (%q, %v), want (\"\", nil)", got, err)
	}
	missing := filepath.Join(t.TempDir(), "nope.jpg")
	if got, err := Prepare(missing); got != "" || err != nil {
		t.Errorf("missing file: got (%q, %v), want (\"\", nil)", got, err)
	}
}

func TestPrepare_CorruptImageDeleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Prepare(path)
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if err == nil {
		t.Error("want a degradation error for corrupt input")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("corrupt artifact still on disk: %v", statErr)
	}
}
