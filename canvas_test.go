package offcanvas

import (
	"fmt"
	"image"
	"strings"
	"sync"
)

// recCanvas records canvas calls as strings.
type recCanvas struct {
	mu      sync.Mutex
	dims    Dims
	m       Affine
	stack   []Affine
	ops     []string
	resizes int
}

func newRecCanvas() *recCanvas {
	return &recCanvas{m: IdentityAffine}
}

func (c *recCanvas) rec(format string, args ...any) {
	c.mu.Lock()
	c.ops = append(c.ops, fmt.Sprintf(format, args...))
	c.mu.Unlock()
}

// Ops returns a copy of the recorded calls.
func (c *recCanvas) Ops() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

// Reset drops recorded calls.
func (c *recCanvas) Reset() {
	c.mu.Lock()
	c.ops = c.ops[:0]
	c.mu.Unlock()
}

// Joined returns the recorded calls joined by spaces.
func (c *recCanvas) Joined() string { return strings.Join(c.Ops(), " ") }

func (c *recCanvas) Resize(d Dims) error {
	c.mu.Lock()
	c.dims = d
	c.resizes++
	c.mu.Unlock()
	return nil
}

func (c *recCanvas) resizeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resizes
}

func (c *recCanvas) Dims() Dims {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

func (c *recCanvas) SetTransform(m Affine) { c.m = m }
func (c *recCanvas) Transform() Affine     { return c.m }

func (c *recCanvas) Save() {
	c.stack = append(c.stack, c.m)
	c.rec("save")
}

func (c *recCanvas) Restore() {
	if n := len(c.stack); n > 0 {
		c.m = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
	c.rec("restore")
}

func (c *recCanvas) Translate(x, y float64) {
	c.m = c.m.Translate(x, y)
	c.rec("translate(%g,%g)", x, y)
}

func (c *recCanvas) Rotate(a float64) {
	c.m = c.m.Rotate(a)
	c.rec("rotate(%g)", a)
}

func (c *recCanvas) Scale(sx, sy float64) {
	c.m = c.m.Scale(sx, sy)
	c.rec("scale(%g,%g)", sx, sy)
}

func (c *recCanvas) ClearRect(x, y, w, h float64) { c.rec("clear(%g,%g,%g,%g)", x, y, w, h) }
func (c *recCanvas) SetAlpha(a float64)           { c.rec("alpha(%g)", a) }
func (c *recCanvas) SetFilter(f string)           { c.rec("filter(%s)", f) }
func (c *recCanvas) Rect(x, y, w, h float64)      { c.rec("rect(%g,%g,%g,%g)", x, y, w, h) }
func (c *recCanvas) Ellipse(cx, cy, rx, ry float64) {
	c.rec("ellipse(%g,%g,%g,%g)", cx, cy, rx, ry)
}

func (c *recCanvas) Fill(p Paint) error {
	switch p.Kind {
	case MaterialColor:
		c.rec("fill(%s)", p.Color)
	case MaterialGradient:
		c.rec("fill(gradient)")
	default:
		c.rec("fill(?)")
	}
	return nil
}

func (c *recCanvas) Stroke(color string, width float64) error {
	c.rec("stroke(%s,%g)", color, width)
	return nil
}

func (c *recCanvas) DrawImage(img image.Image, x, y, w, h float64) error {
	c.rec("image(%dx%d,%g,%g,%g,%g)", img.Bounds().Dx(), img.Bounds().Dy(), x, y, w, h)
	return nil
}

func (c *recCanvas) FillText(st TextStyle, size, x, y, maxWidth float64) error {
	c.rec("text(%s,%s,%g,%g)", st.Value, st.Font, size, maxWidth)
	return nil
}

func (c *recCanvas) Snapshot() *image.RGBA {
	d := c.Dims()
	return image.NewRGBA(image.Rect(0, 0, d.W, d.H))
}
