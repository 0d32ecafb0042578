package offcanvas

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Presenter is implemented by canvases that publish their contents somewhere
// after each completed render, e.g. to a window's front buffer.
type Presenter interface {
	Present()
}

// WorkerOptions configures a draw worker.
type WorkerOptions struct {
	PoolGrow      int
	Rendering     Rendering
	CaptureDir    string
	CaptureFormat string // "png" or "webp"
	Debug         bool
}

// Worker executes render channel messages against one surface. Everything it
// owns (surface, image cache, node pool) is touched only by its goroutine.
type Worker struct {
	ch      *Channel
	opts    WorkerOptions
	pool    *NodePool
	surface Surface
	images  *ImageCache
	errs    chan error

	rendered atomic.Int64
	drawTime atomic.Int64
}

// NewWorker returns a worker reading from ch. Call Run to start it.
func NewWorker(ch *Channel, opts WorkerOptions) *Worker {
	pool := NewNodePool(opts.PoolGrow)
	pool.Debug = opts.Debug
	return &Worker{
		ch:     ch,
		opts:   opts,
		pool:   pool,
		images: NewImageCache(),
		errs:   make(chan error, 16),
	}
}

// Errors reports dropped messages and drawing failures. Errors are discarded
// when nobody reads them.
func (w *Worker) Errors() <-chan error { return w.errs }

// Rendered returns the number of frames drawn.
func (w *Worker) Rendered() int64 { return w.rendered.Load() }

// LastDrawTime returns how long the last render took on the worker.
func (w *Worker) LastDrawTime() time.Duration { return time.Duration(w.drawTime.Load()) }

// Run processes messages until ctx is done or the channel is closed. An
// in-flight render is finished but not acknowledged after cancellation.
func (w *Worker) Run(ctx context.Context) error {
	Logger().Info("draw worker started")
	defer Logger().Info("draw worker stopped", "rendered", w.rendered.Load())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.ch.Done():
			return nil
		case m := <-w.ch.Control():
			w.control(ctx, m)
		case m := <-w.ch.Assets():
			w.asset(m)
		}
	}
}

func (w *Worker) control(ctx context.Context, m Message) {
	start := time.Now()
	var err error
	switch m := m.(type) {
	case Setup:
		err = w.setup(m)
	case ResizeSurface:
		_, err = w.surface.Resize(m.Dims, m.DPR)
	case Render:
		err = w.render(m)
	case Capture:
		err = w.capture(m.Label)
	default:
		err = fmt.Errorf("offcanvas: unexpected control message %v", m.Kind())
	}
	if err != nil {
		w.report(fmt.Errorf("%v: %w", m.Kind(), err))
	}
	if m.Kind() == KindCapture {
		return
	}
	if ctx.Err() != nil {
		return
	}
	w.ch.Ack(ctx, Ready{Kind: m.Kind(), Elapsed: time.Since(start)})
}

func (w *Worker) setup(m Setup) error {
	if m.Surface == nil {
		return fmt.Errorf("offcanvas: setup without surface")
	}
	if r, ok := m.Surface.(interface{ SetRendering(Rendering) }); ok {
		r.SetRendering(w.opts.Rendering)
	}
	return w.surface.Setup(m.Surface, m.Dims, m.DPR)
}

func (w *Worker) render(m Render) error {
	if m.Frame == nil {
		return ErrNilFrame
	}
	defer w.ch.Recycle(m.Frame)
	if !w.surface.Ready() {
		return ErrNotSetup
	}
	start := time.Now()
	tree := m.Frame.Decode(w.pool)
	w.surface.Clear(m.Size)
	var err error
	if tree != nil {
		err = Draw(w.surface.Canvas(), tree, w.images)
		w.pool.Release(tree)
	}
	if p, ok := w.surface.Canvas().(Presenter); ok {
		p.Present()
	}
	w.rendered.Add(1)
	w.drawTime.Store(int64(time.Since(start)))
	if w.opts.Debug {
		Logger().Debug("frame drawn",
			"nodes", m.Frame.Len(),
			"draw", time.Since(start),
			"pool_allocated", w.pool.Allocated())
	}
	return err
}

func (w *Worker) asset(m Message) {
	switch m := m.(type) {
	case LoadImage:
		if m.Bitmap == nil {
			w.report(fmt.Errorf("offcanvas: load-image %s without bitmap", m.ID))
			return
		}
		w.images.Store(m.ID, m.Bitmap)
		Logger().Debug("image loaded", "id", string(m.ID), "cached", w.images.Len())
	case UnloadImage:
		w.images.Delete(m.ID)
	default:
		w.report(fmt.Errorf("offcanvas: unexpected asset message %v", m.Kind()))
	}
}

func (w *Worker) capture(label string) error {
	if !w.surface.Ready() {
		return ErrNotSetup
	}
	_, err := WriteCapture(w.opts.CaptureDir, w.opts.CaptureFormat, label, w.surface.Canvas().Snapshot(), time.Now())
	return err
}

func (w *Worker) report(err error) {
	Logger().Error("draw worker", "err", err)
	select {
	case w.errs <- err:
	default:
	}
}
