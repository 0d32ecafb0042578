package offcanvas

import (
	"image"

	"golang.org/x/image/draw"
)

// ImageCache holds uploaded bitmaps on the draw worker for the lifetime of the
// session, until they are explicitly unloaded. Bitmaps are converted to
// premultiplied RGBA once on upload.
type ImageCache struct {
	images map[Handle]*image.RGBA
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[Handle]*image.RGBA)}
}

// Store adds or replaces the bitmap for h.
func (c *ImageCache) Store(h Handle, img image.Image) {
	c.images[h] = toRGBA(img)
}

// Lookup implements ImageLookup.
func (c *ImageCache) Lookup(h Handle) (image.Image, bool) {
	img, ok := c.images[h]
	if !ok {
		return nil, false
	}
	return img, true
}

// Delete drops the bitmap for h. Unknown handles are ignored.
func (c *ImageCache) Delete(h Handle) {
	delete(c.images, h)
}

// Len returns the number of cached bitmaps.
func (c *ImageCache) Len() int { return len(c.images) }

// toRGBA returns img as a zero-origin *image.RGBA, copying unless it already
// is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
