package display

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/offcanvas"
)

// Surface is the canvas handed to the draw worker. The worker draws into the
// embedded GGCanvas; Present copies the finished frame into a front buffer
// that the ebiten Draw callback uploads.
type Surface struct {
	*offcanvas.GGCanvas

	mu    sync.Mutex
	front []byte
	dims  offcanvas.Dims
	seq   uint64
}

// NewSurface returns a surface with an initial backing store of d.
func NewSurface(d offcanvas.Dims, fonts *offcanvas.Fonts) (*Surface, error) {
	c, err := offcanvas.NewGGCanvas(d, fonts)
	if err != nil {
		return nil, err
	}
	return &Surface{GGCanvas: c}, nil
}

// Present publishes the current pixels. Called on the worker goroutine.
func (s *Surface) Present() {
	px := s.Pixels()
	s.mu.Lock()
	s.front = append(s.front[:0], px...)
	s.dims = s.Dims()
	s.seq++
	s.mu.Unlock()
}

// Frame copies the latest presented frame into dst when it is newer than
// seq. It returns the frame's dimensions and sequence number.
func (s *Surface) Frame(dst []byte, seq uint64) ([]byte, offcanvas.Dims, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		return dst, s.dims, seq
	}
	return append(dst[:0], s.front...), s.dims, s.seq
}

// upload keeps img in sync with the latest presented frame, reallocating it
// when the backing store size changed.
type upload struct {
	img *ebiten.Image
	buf []byte
	seq uint64
}

func (u *upload) sync(s *Surface) *ebiten.Image {
	buf, d, seq := s.Frame(u.buf, u.seq)
	u.buf = buf
	if seq == u.seq || d.W == 0 || d.H == 0 {
		return u.img
	}
	u.seq = seq
	if u.img == nil || u.img.Bounds().Dx() != d.W || u.img.Bounds().Dy() != d.H {
		if u.img != nil {
			u.img.Deallocate()
		}
		u.img = ebiten.NewImage(d.W, d.H)
	}
	// gg keeps premultiplied RGBA, which is what WritePixels expects.
	u.img.WritePixels(u.buf)
	return u.img
}
