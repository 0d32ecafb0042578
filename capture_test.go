package offcanvas

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{64, 0, 0, 128})
	src.SetRGBA(1, 0, color.RGBA{10, 20, 30, 255})
	dst := unpremultiply(src)
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{127, 0, 0, 128}) {
		t.Errorf("half alpha = %v", got)
	}
	if got := dst.NRGBAAt(1, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("opaque = %v", got)
	}
}

func TestWriteCapturePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	path, err := WriteCapture(dir, "", "first frame", img, now)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "20240506_070809_first_frame.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 3 || decoded.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", decoded.Bounds())
	}
}

func TestWriteCaptureWebP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path, err := WriteCapture(t.TempDir(), "webp", "w", img, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".webp" {
		t.Errorf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, _, err := DecodeImage(f); err != nil {
		t.Errorf("written webp does not decode: %v", err)
	}
}

func TestWriteCaptureUnknownFormat(t *testing.T) {
	_, err := WriteCapture(t.TempDir(), "gif", "x", image.NewRGBA(image.Rect(0, 0, 1, 1)), time.Now())
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}
