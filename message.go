package offcanvas

import (
	"image"
	"time"
)

// MessageKind identifies a message on the render channel.
type MessageKind uint8

const (
	KindSetup MessageKind = iota
	KindResize
	KindRender
	KindLoadImage
	KindUnloadImage
	KindCapture
)

var kindNames = [...]string{"setup", "resize", "render", "load-image", "unload-image", "capture"}

func (k MessageKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Message is sent from the main side to the draw worker.
type Message interface {
	Kind() MessageKind
}

// Setup hands the drawing surface to the worker. It must precede every other
// control message.
type Setup struct {
	Surface Canvas
	Dims    Dims
	DPR     float64
}

// ResizeSurface asks the worker to resize the backing store.
type ResizeSurface struct {
	Dims Dims
	DPR  float64
}

// Render carries one encoded frame. Size is the logical canvas size cleared
// before drawing.
type Render struct {
	Size  Size
	Frame *Frame
}

// LoadImage uploads a bitmap into the worker cache under ID.
type LoadImage struct {
	ID     Handle
	Bitmap image.Image
}

// UnloadImage removes a bitmap from the worker cache.
type UnloadImage struct {
	ID Handle
}

// Capture asks the worker to write the current surface to disk.
type Capture struct {
	Label string
}

func (Setup) Kind() MessageKind         { return KindSetup }
func (ResizeSurface) Kind() MessageKind { return KindResize }
func (Render) Kind() MessageKind        { return KindRender }
func (LoadImage) Kind() MessageKind     { return KindLoadImage }
func (UnloadImage) Kind() MessageKind   { return KindUnloadImage }
func (Capture) Kind() MessageKind       { return KindCapture }

// Ready acknowledges a processed control message. Elapsed is the time the
// worker spent on it.
type Ready struct {
	Kind    MessageKind
	Elapsed time.Duration
}
