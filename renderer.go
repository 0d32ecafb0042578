package offcanvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"golang.org/x/sync/errgroup"
)

// Host is the element a renderer draws into.
type Host interface {
	// Box returns the element's current width and height in CSS-like units.
	Box() (w, h float64)
	DevicePixelRatio() float64
	// NewSurface returns the canvas handed to the draw worker. The worker
	// owns it from then on.
	NewSurface() Canvas
}

// Renderer drives one surface from the main tick loop: it paces renders,
// tracks host resizes and zoom, builds snapshots of the scene and ships them
// to a draw worker running on its own goroutine.
//
// All methods must be called from the tick loop goroutine.
type Renderer struct {
	cfg     *Config
	src     SceneSource
	surface Entity
	host    Host

	pool    *NodePool
	builder *Builder
	pacer   *Pacer
	ch      *Channel
	worker  *Worker
	group   *errgroup.Group
	cancel  context.CancelFunc
	stats   *Stats

	size    Size
	zoom    float64
	dpr     float64
	debug   bool
	closed  bool
	pending FrameRecord
	sentAt  time.Time
	lastOp  time.Duration
	onReady func(Ready)

	now func() time.Time
}

// NewRenderer starts a draw worker for the surface entity and sends it the
// host's canvas. The surface entity must carry a Transform; its Size is kept
// in sync with the logical canvas size. A nil cfg uses DefaultConfig.
func NewRenderer(ctx context.Context, cfg *Config, src SceneSource, surface Entity, host Host) (*Renderer, error) {
	t, ok := src.Transform(surface)
	if !ok {
		panic(fmt.Sprintf("offcanvas: surface entity %d has no Transform", surface))
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	stats, err := NewStats(cfg.Stats.Window, cfg.Stats.CSV)
	if err != nil {
		return nil, err
	}

	pool := NewNodePool(cfg.Pool.Grow)
	pool.Debug = cfg.Debug
	r := &Renderer{
		cfg:     cfg,
		src:     src,
		surface: surface,
		host:    host,
		pool:    pool,
		builder: NewBuilder(src, pool),
		pacer:   NewPacer(cfg.Interval()),
		ch:      NewChannel(cfg.Queue.Depth),
		stats:   stats,
		zoom:    1,
		debug:   cfg.Debug,
		now:     time.Now,
	}
	r.worker = NewWorker(r.ch, cfg.WorkerOptions())

	ctx, r.cancel = context.WithCancel(ctx)
	r.group, ctx = errgroup.WithContext(ctx)
	r.group.Go(func() error { return r.worker.Run(ctx) })

	w, h := host.Box()
	r.dpr = host.DevicePixelRatio()
	r.size = Size{W: cfg.Width, H: cfg.Width * aspect(w, h)}
	r.pacer.Observe(Size{w, h}, r.zoom)
	t.Size[0], t.Size[1] = r.size.W, r.size.H

	if err := r.ch.Setup(host.NewSurface(), BackingDims(r.size, r.dpr), r.dpr); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("offcanvas: setup: %w", err)
	}
	r.pacer.Hold()
	Logger().Info("renderer started",
		"surface", uint64(surface),
		"width", r.size.W, "height", r.size.H,
		"dpr", r.dpr, "interval", r.pacer.Interval())
	return r, nil
}

// aspect returns h/w, or 1 for a degenerate box.
func aspect(w, h float64) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return h / w
}

// Update runs one tick: it consumes worker acknowledgements, reacts to host
// resizes and dispatches a render when the pacer allows it.
func (r *Renderer) Update(elapsed time.Duration) {
	if r.closed {
		return
	}
	r.drainAcks()
	r.observeHost()
	if r.pacer.Tick(elapsed) == Proceed {
		r.dispatch()
	}
}

func (r *Renderer) drainAcks() {
	for {
		rd, ok := r.ch.Poll()
		if !ok {
			return
		}
		r.lastOp = rd.Elapsed
		switch rd.Kind {
		case KindSetup:
			r.pacer.Acknowledge()
		case KindRender:
			r.pacer.Acknowledge()
			r.recordFrame(rd)
		}
		if r.onReady != nil {
			r.onReady(rd)
		}
	}
}

func (r *Renderer) observeHost() {
	w, h := r.host.Box()
	dpr := r.host.DevicePixelRatio()
	rs, changed := r.pacer.Observe(Size{w, h}, r.zoom)
	if !changed && dpr == r.dpr {
		return
	}
	if changed && rs.ZoomChanged() && rs.LastZoom > 0 {
		r.size.W *= rs.LastZoom / rs.Zoom
	}
	r.size.H = r.size.W * aspect(w, h)
	r.dpr = dpr
	if t, ok := r.src.Transform(r.surface); ok {
		t.Size[0], t.Size[1] = r.size.W, r.size.H
	}
	if err := r.ch.Resize(BackingDims(r.size, dpr), dpr); err != nil {
		r.fail(fmt.Errorf("offcanvas: resize: %w", err))
		return
	}
	Logger().Debug("surface resize requested", "width", r.size.W, "height", r.size.H, "zoom", r.zoom)
}

func (r *Renderer) dispatch() {
	start := r.now()
	root := r.builder.BuildFrame(r.surface)
	built := r.now()
	err := r.ch.Render(r.size, root)
	encoded := r.now()
	if r.debug {
		debugCheckTree(root, 1)
	}
	r.builder.Release(root)
	if r.debug {
		r.debugCheckPool()
	}
	if err != nil {
		// The pacer stays due, so the next tick retries.
		r.fail(fmt.Errorf("offcanvas: render: %w", err))
		return
	}
	r.pacer.Dispatched()
	r.sentAt = start
	r.pending = FrameRecord{
		Nodes:    r.builder.Nodes(),
		BuildMs:  ms(built.Sub(start)),
		EncodeMs: ms(encoded.Sub(built)),
	}
}

func (r *Renderer) recordFrame(rd Ready) {
	rec := r.pending
	rec.WorkerMs = ms(rd.Elapsed)
	rec.RoundTripMs = ms(r.now().Sub(r.sentAt))
	rec.PoolAllocated = r.pool.Allocated()
	if err := r.stats.Add(rec); err != nil {
		r.fail(err)
	}
	if r.debug {
		r.debugLog(rec)
	}
}

func (r *Renderer) fail(err error) {
	Logger().Warn("renderer", "err", err)
	select {
	case r.worker.errs <- err:
	default:
	}
}

// Err returns the errors reported since the last call, joined, or nil.
func (r *Renderer) Err() error {
	var errs []error
	for {
		select {
		case err := <-r.worker.Errors():
			errs = append(errs, err)
		default:
			return errors.Join(errs...)
		}
	}
}

// SetZoom sets the zoom factor. The logical width shrinks as zoom grows; the
// change is applied on the next Update.
func (r *Renderer) SetZoom(z float64) {
	if z > 0 {
		r.zoom = z
	}
}

// Zoom returns the zoom factor.
func (r *Renderer) Zoom() float64 { return r.zoom }

// Config returns the renderer configuration.
func (r *Renderer) Config() *Config { return r.cfg }

// Size returns the logical canvas size.
func (r *Renderer) Size() Size { return r.size }

// LoadImage uploads img to the worker and returns its handle for use in
// image materials.
func (r *Renderer) LoadImage(img image.Image) (Handle, error) {
	h := NewHandle()
	if err := r.ch.LoadImage(h, img); err != nil {
		return "", fmt.Errorf("offcanvas: load image: %w", err)
	}
	return h, nil
}

// UnloadImage drops an uploaded image from the worker cache.
func (r *Renderer) UnloadImage(h Handle) error {
	return r.ch.UnloadImage(h)
}

// Capture asks the worker to write the surface to the capture directory.
func (r *Renderer) Capture(label string) error {
	return r.ch.Capture(label)
}

// OnReady registers a callback invoked from Update for every acknowledgement.
func (r *Renderer) OnReady(fn func(Ready)) { r.onReady = fn }

// LastOpTime returns how long the worker spent on the last acknowledged
// control message.
func (r *Renderer) LastOpTime() time.Duration { return r.lastOp }

// Stats summarizes recent frames.
func (r *Renderer) Stats() StatsSummary { return r.stats.Summary() }

// Rendered returns the number of frames the worker has drawn.
func (r *Renderer) Rendered() int64 { return r.worker.Rendered() }

// SetDebugMode enables per-frame timing logs and pool checks.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
	r.pool.Debug = enabled
}

// Close stops the worker. An in-flight render is abandoned without an
// acknowledgement. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.ch.Close()
	r.cancel()
	err := r.group.Wait()
	if serr := r.stats.Close(); serr != nil {
		err = errors.Join(err, serr)
	}
	Logger().Info("renderer stopped", "frames", r.stats.Frames())
	return err
}
