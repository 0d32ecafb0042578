package offcanvas

import (
	"fmt"
	"math"
)

// BackingDims returns the pixel dimensions of a backing store for a logical
// size at the given device pixel ratio.
func BackingDims(s Size, dpr float64) Dims {
	return Dims{
		W: max(1, int(math.Round(s.W*dpr))),
		H: max(1, int(math.Round(s.H*dpr))),
	}
}

// Surface owns a canvas on the draw worker and keeps its backing store and
// base transform consistent: one logical unit is dpr pixels, +y points up
// and the origin is the center of the store.
type Surface struct {
	canvas   Canvas
	dims     Dims
	dpr      float64
	base     Affine
	reallocs int
}

// Ready reports whether Setup has run.
func (s *Surface) Ready() bool { return s.canvas != nil }

// Canvas returns the underlying canvas.
func (s *Surface) Canvas() Canvas { return s.canvas }

// Dims returns the backing store dimensions.
func (s *Surface) Dims() Dims { return s.dims }

// DPR returns the device pixel ratio.
func (s *Surface) DPR() float64 { return s.dpr }

// Base returns the base transform.
func (s *Surface) Base() Affine { return s.base }

// Reallocations returns how many times the backing store was allocated.
func (s *Surface) Reallocations() int { return s.reallocs }

// Setup adopts c and sizes it.
func (s *Surface) Setup(c Canvas, d Dims, dpr float64) error {
	s.canvas = c
	s.dims = Dims{}
	return s.apply(d, dpr)
}

// Resize resizes the backing store. Identical dimensions and ratio are a
// no-op and report false.
func (s *Surface) Resize(d Dims, dpr float64) (bool, error) {
	if s.canvas == nil {
		return false, ErrNotSetup
	}
	if d == s.dims && dpr == s.dpr {
		return false, nil
	}
	return true, s.apply(d, dpr)
}

func (s *Surface) apply(d Dims, dpr float64) error {
	if d.W <= 0 || d.H <= 0 || dpr <= 0 {
		return fmt.Errorf("offcanvas: invalid surface %dx%d at dpr %v", d.W, d.H, dpr)
	}
	if d != s.dims {
		if err := s.canvas.Resize(d); err != nil {
			return fmt.Errorf("offcanvas: resize surface: %w", err)
		}
		s.reallocs++
		Logger().Info("surface allocated", "w", d.W, "h", d.H, "dpr", dpr)
	}
	s.dims = d
	s.dpr = dpr
	s.base = SurfaceAffine(d, dpr)
	s.canvas.SetTransform(s.base)
	return nil
}

// Clear resets the transform and clears the logical rectangle of size sz
// centered on the origin.
func (s *Surface) Clear(sz Size) {
	s.canvas.SetTransform(s.base)
	s.canvas.ClearRect(-sz.W/2, -sz.H/2, sz.W, sz.H)
}

// ToLogical maps a backing store pixel to logical coordinates.
func (s *Surface) ToLogical(px, py float64) (float64, float64) {
	return s.base.Invert().Apply(px, py)
}
