package display

import (
	"sync"

	"github.com/phanxgames/offcanvas"
)

// Window is the offcanvas.Host of an ebiten window. Its box is the outside
// size ebiten passes to Layout.
type Window struct {
	mu      sync.Mutex
	w, h    float64
	dpr     float64
	surface *Surface
}

// NewWindow returns a host of the given initial size drawing into surface.
func NewWindow(w, h float64, surface *Surface) *Window {
	return &Window{w: w, h: h, dpr: 1, surface: surface}
}

func (w *Window) Box() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w, w.h
}

func (w *Window) DevicePixelRatio() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dpr
}

func (w *Window) NewSurface() offcanvas.Canvas { return w.surface }

// SetBox records a new outside size and device scale factor.
func (w *Window) SetBox(width, height, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	w.mu.Lock()
	w.w, w.h, w.dpr = width, height, dpr
	w.mu.Unlock()
}
