package offcanvas

import "image"

// Canvas is a painter's-algorithm 2D drawing surface in the style of an HTML
// canvas. Coordinates passed to drawing calls are transformed by the current
// matrix. Save and Restore push and pop the matrix, alpha and filter.
//
// A Canvas is handed to the draw worker at setup and is only used from the
// worker goroutine afterwards.
type Canvas interface {
	// Resize reallocates the backing store. Contents are discarded.
	Resize(d Dims) error
	Dims() Dims

	SetTransform(m Affine)
	Transform() Affine
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)

	// ClearRect makes the rectangle fully transparent.
	ClearRect(x, y, w, h float64)
	SetAlpha(a float64)
	SetFilter(f string)

	// Rect and Ellipse replace the current path. Fill and Stroke keep it.
	Rect(x, y, w, h float64)
	Ellipse(cx, cy, rx, ry float64)
	Fill(p Paint) error
	Stroke(color string, width float64) error

	// DrawImage scales img into the rectangle.
	DrawImage(img image.Image, x, y, w, h float64) error
	// FillText draws s at (x, y) with a font size in canvas units. A positive
	// maxWidth compresses the run to fit.
	FillText(st TextStyle, size, x, y, maxWidth float64) error

	// Snapshot copies the backing store.
	Snapshot() *image.RGBA
}
