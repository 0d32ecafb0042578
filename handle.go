package offcanvas

import (
	"fmt"
	"image"
	"io"
	"os"

	// Decoders available to DecodeImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
)

// Handle names a bitmap held in the drawing worker's image cache. Handles are
// random UUIDs and are never reused.
type Handle string

// NewHandle returns a fresh handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// DecodeImage decodes a PNG, JPEG, GIF, BMP, WebP or TGA bitmap.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("offcanvas: decode image: %w", err)
	}
	return img, format, nil
}

// LoadImageFile decodes the bitmap at path.
func LoadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("offcanvas: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
