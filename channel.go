package offcanvas

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
)

// DefaultQueueDepth is the control queue capacity used when none is given.
const DefaultQueueDepth = 8

// Channel connects the main tick loop to one draw worker. Control messages
// (setup, resize, render, capture) are delivered in send order. Image uploads
// travel on a separate queue and are not ordered relative to renders.
//
// Sends never block: a full queue returns ErrQueueFull.
type Channel struct {
	ctrl   chan Message
	assets chan Message
	acks   chan Ready
	frames chan *Frame

	done      chan struct{}
	closeOnce sync.Once

	framesMade atomic.Int32
}

// NewChannel returns a channel whose control queue holds depth messages.
func NewChannel(depth int) *Channel {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Channel{
		ctrl:   make(chan Message, depth),
		assets: make(chan Message, depth*4),
		acks:   make(chan Ready, depth+1),
		frames: make(chan *Frame, depth+1),
		done:   make(chan struct{}),
	}
}

func (c *Channel) send(q chan Message, m Message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case q <- m:
		return nil
	default:
		return ErrQueueFull
	}
}

// --- main side ---

// Setup transfers the drawing surface.
func (c *Channel) Setup(surface Canvas, d Dims, dpr float64) error {
	return c.send(c.ctrl, Setup{Surface: surface, Dims: d, DPR: dpr})
}

// Resize requests a backing store resize.
func (c *Channel) Resize(d Dims, dpr float64) error {
	return c.send(c.ctrl, ResizeSurface{Dims: d, DPR: dpr})
}

// Render encodes the tree and queues it. The tree is fully copied before
// Render returns, so the caller may release it right away.
func (c *Channel) Render(size Size, root *RenderNode) error {
	f := c.frame()
	f.Encode(root)
	if err := c.send(c.ctrl, Render{Size: size, Frame: f}); err != nil {
		c.Recycle(f)
		return err
	}
	return nil
}

// Capture asks the worker to write the surface to disk.
func (c *Channel) Capture(label string) error {
	return c.send(c.ctrl, Capture{Label: label})
}

// LoadImage uploads a bitmap under id.
func (c *Channel) LoadImage(id Handle, img image.Image) error {
	return c.send(c.assets, LoadImage{ID: id, Bitmap: img})
}

// UnloadImage removes a bitmap from the worker cache.
func (c *Channel) UnloadImage(id Handle) error {
	return c.send(c.assets, UnloadImage{ID: id})
}

// Poll returns the next acknowledgement without blocking.
func (c *Channel) Poll() (Ready, bool) {
	select {
	case r := <-c.acks:
		return r, true
	default:
		return Ready{}, false
	}
}

// FramesAllocated returns how many frame buffers were ever created.
func (c *Channel) FramesAllocated() int { return int(c.framesMade.Load()) }

func (c *Channel) frame() *Frame {
	select {
	case f := <-c.frames:
		return f
	default:
		c.framesMade.Add(1)
		return new(Frame)
	}
}

// --- worker side ---

// Control returns the ordered control queue.
func (c *Channel) Control() <-chan Message { return c.ctrl }

// Assets returns the image upload queue.
func (c *Channel) Assets() <-chan Message { return c.assets }

// Done is closed by Close.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Ack posts an acknowledgement. It blocks until the main side has room, the
// context ends, or the channel is closed.
func (c *Channel) Ack(ctx context.Context, r Ready) {
	select {
	case c.acks <- r:
	case <-ctx.Done():
	case <-c.done:
	}
}

// Recycle returns a frame buffer for reuse. Surplus buffers are dropped.
func (c *Channel) Recycle(f *Frame) {
	if f == nil {
		return
	}
	select {
	case c.frames <- f:
	default:
	}
}

// Close stops further sends. Queued messages are abandoned.
func (c *Channel) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
