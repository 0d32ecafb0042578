package offcanvas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// WriteCapture writes a premultiplied surface snapshot to dir as
// "<stamp>_<label>.<format>" and returns the path. format is "png" (default)
// or "webp".
func WriteCapture(dir, format, label string, img *image.RGBA, now time.Time) (string, error) {
	if format == "" {
		format = "png"
	}
	encode, err := captureEncoder(format)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("offcanvas: capture: mkdir %s: %w", dir, err)
	}

	stamp := now.Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stamp, sanitizeLabel(label), format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("offcanvas: capture: create %s: %w", path, err)
	}
	if err := encode(f, unpremultiply(img)); err != nil {
		f.Close()
		return "", fmt.Errorf("offcanvas: capture: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	Logger().Info("surface captured", "path", path)
	return path, nil
}

func captureEncoder(format string) (func(io.Writer, image.Image) error, error) {
	switch format {
	case "png":
		return png.Encode, nil
	case "webp":
		return func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, nil
	default:
		return nil, fmt.Errorf("offcanvas: capture format %q: %w", format, ErrUnknownFormat)
	}
}

// unpremultiply converts premultiplied RGBA to straight-alpha NRGBA.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+4*w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			r, g, bl, a := row[i], row[i+1], row[i+2], row[i+3]
			if a > 0 && a < 255 {
				r = uint8(min(int(r)*255/int(a), 255))
				g = uint8(min(int(g)*255/int(a), 255))
				bl = uint8(min(int(bl)*255/int(a), 255))
			}
			out[i], out[i+1], out[i+2], out[i+3] = r, g, bl, a
		}
	}
	return dst
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
