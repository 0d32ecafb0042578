package offcanvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

type ggState struct {
	m       Affine
	alpha   float64
	opacity float64
	filter  string
}

// GGCanvas is a software Canvas backed by a gg drawing context. Paths and
// text go through gg's matrix; DrawImage resamples through the full matrix
// itself with x/image/draw.
type GGCanvas struct {
	dc        *gg.Context
	dims      Dims
	st        ggState
	stack     []ggState
	rendering Rendering
	fonts     *Fonts
}

// NewGGCanvas returns a canvas of the given dimensions. fonts may be nil, in
// which case the built-in families are loaded.
func NewGGCanvas(d Dims, fonts *Fonts) (*GGCanvas, error) {
	if fonts == nil {
		var err error
		if fonts, err = NewFonts(); err != nil {
			return nil, err
		}
	}
	c := &GGCanvas{
		st:    ggState{m: IdentityAffine, alpha: 1, opacity: 1},
		fonts: fonts,
	}
	if err := c.Resize(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Context exposes the underlying gg context.
func (c *GGCanvas) Context() *gg.Context { return c.dc }

// Pixels returns the live premultiplied RGBA backing store. It is only valid
// until the next Resize.
func (c *GGCanvas) Pixels() []byte { return c.dc.ResizeTarget().Data() }

// SetRendering selects the image resampling mode.
func (c *GGCanvas) SetRendering(r Rendering) { c.rendering = r }

// Close releases the gg context.
func (c *GGCanvas) Close() error { return c.dc.Close() }

func (c *GGCanvas) Resize(d Dims) error {
	if d.W <= 0 || d.H <= 0 {
		return fmt.Errorf("offcanvas: invalid canvas size %dx%d", d.W, d.H)
	}
	if c.dc == nil {
		c.dc = gg.NewContext(d.W, d.H)
	} else if err := c.dc.Resize(d.W, d.H); err != nil {
		return err
	}
	c.dims = d
	return nil
}

func (c *GGCanvas) Dims() Dims { return c.dims }

func (c *GGCanvas) SetTransform(m Affine) { c.st.m = m }
func (c *GGCanvas) Transform() Affine     { return c.st.m }

func (c *GGCanvas) Save() { c.stack = append(c.stack, c.st) }

func (c *GGCanvas) Restore() {
	if n := len(c.stack); n > 0 {
		c.st = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

func (c *GGCanvas) Translate(x, y float64) { c.st.m = c.st.m.Translate(x, y) }
func (c *GGCanvas) Rotate(angle float64)   { c.st.m = c.st.m.Rotate(angle) }
func (c *GGCanvas) Scale(sx, sy float64)   { c.st.m = c.st.m.Scale(sx, sy) }

func (c *GGCanvas) SetAlpha(a float64) { c.st.alpha = clamp01(a) }

// SetFilter understands "none" and "opacity(x)" with x a number or
// percentage. Other filters are ignored.
func (c *GGCanvas) SetFilter(f string) {
	if f == c.st.filter {
		return
	}
	c.st.filter = f
	c.st.opacity = 1
	f = strings.TrimSpace(f)
	if f == "" || f == "none" {
		return
	}
	if op, ok := parseOpacity(f); ok {
		c.st.opacity = op
		return
	}
	Logger().Debug("unsupported filter ignored", "filter", f)
}

func parseOpacity(f string) (float64, bool) {
	arg, ok := strings.CutPrefix(f, "opacity(")
	if !ok {
		return 0, false
	}
	arg, ok = strings.CutSuffix(arg, ")")
	if !ok {
		return 0, false
	}
	arg = strings.TrimSpace(arg)
	scale := 1.0
	if p, pct := strings.CutSuffix(arg, "%"); pct {
		arg, scale = p, 100
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(v / scale), true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func (c *GGCanvas) effectiveAlpha() float64 { return c.st.alpha * c.st.opacity }

func toMatrix(m Affine) gg.Matrix {
	return gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]}
}

// ClearRect clears the device-space bounding box of the transformed rectangle.
func (c *GGCanvas) ClearRect(x, y, w, h float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		dx, dy := c.st.m.Apply(p[0], p[1])
		minX, maxX = math.Min(minX, dx), math.Max(maxX, dx)
		minY, maxY = math.Min(minY, dy), math.Max(maxY, dy)
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).
		Intersect(image.Rect(0, 0, c.dims.W, c.dims.H))
	if r.Empty() {
		return
	}
	pix := c.Pixels()
	stride := 4 * c.dims.W
	for py := r.Min.Y; py < r.Max.Y; py++ {
		clear(pix[py*stride+4*r.Min.X : py*stride+4*r.Max.X])
	}
}

func (c *GGCanvas) Rect(x, y, w, h float64) {
	c.dc.ClearPath()
	c.dc.SetTransform(toMatrix(c.st.m))
	c.dc.DrawRectangle(x, y, w, h)
}

func (c *GGCanvas) Ellipse(cx, cy, rx, ry float64) {
	c.dc.ClearPath()
	c.dc.SetTransform(toMatrix(c.st.m))
	c.dc.DrawEllipse(cx, cy, rx, ry)
}

func (c *GGCanvas) Fill(p Paint) error {
	a := c.effectiveAlpha()
	switch p.Kind {
	case MaterialColor:
		c.dc.SetFillBrush(gg.Solid(ggColor(p.Color, a)))
	case MaterialGradient:
		g := p.Gradient
		// gg evaluates gradients in device space.
		x0, y0 := c.st.m.Apply(g.X0, g.Y0)
		x1, y1 := c.st.m.Apply(g.X1, g.Y1)
		br := gg.NewLinearGradientBrush(x0, y0, x1, y1)
		for _, s := range g.Stops {
			br.AddColorStop(s.Offset, ggColor(s.Color, a))
		}
		c.dc.SetFillBrush(br)
	default:
		return nil
	}
	return c.dc.FillPreserve()
}

func (c *GGCanvas) Stroke(col string, width float64) error {
	c.dc.SetStrokeBrush(gg.Solid(ggColor(col, c.effectiveAlpha())))
	c.dc.SetLineWidth(width)
	return c.dc.StrokePreserve()
}

// target returns an image.RGBA view sharing the pixmap memory.
func (c *GGCanvas) target() *image.RGBA {
	return &image.RGBA{
		Pix:    c.Pixels(),
		Stride: 4 * c.dims.W,
		Rect:   image.Rect(0, 0, c.dims.W, c.dims.H),
	}
}

func (c *GGCanvas) DrawImage(img image.Image, x, y, w, h float64) error {
	b := img.Bounds()
	if b.Empty() || w == 0 || h == 0 {
		return nil
	}
	local := IdentityAffine.
		Translate(x, y).
		Scale(w/float64(b.Dx()), h/float64(b.Dy())).
		Translate(-float64(b.Min.X), -float64(b.Min.Y))
	m := c.st.m.Multiply(local)
	s2d := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}

	var interp xdraw.Transformer = xdraw.NearestNeighbor
	if c.rendering == RenderingSmooth {
		interp = xdraw.BiLinear
	}
	var opts *xdraw.Options
	if a := c.effectiveAlpha(); a < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(a * 0xffff)})}
	}
	interp.Transform(c.target(), s2d, img, b, xdraw.Over, opts)
	return nil
}

// FillText draws through the current matrix, so text follows rotation and
// scale like any other shape. Oversized runs under maxWidth are drawn with a
// proportionally smaller face.
func (c *GGCanvas) FillText(st TextStyle, size, x, y, maxWidth float64) error {
	if st.Value == "" || size <= 0 {
		return nil
	}
	c.dc.ClearPath()
	c.dc.SetTransform(toMatrix(c.st.m))
	face := c.fonts.Face(st.Font, size)
	c.dc.SetFont(face)
	w, _ := c.dc.MeasureString(st.Value)
	if maxWidth > 0 && w > maxWidth {
		face = c.fonts.Face(st.Font, size*maxWidth/w)
		c.dc.SetFont(face)
		w, _ = c.dc.MeasureString(st.Value)
	}
	col := ggColor(st.Color, c.effectiveAlpha())
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
	met := face.Metrics()
	c.dc.DrawString(st.Value, x-w*st.Align.anchor(), y+st.Baseline.baseline(met.Ascent, met.Descent))
	return nil
}

func (c *GGCanvas) Snapshot() *image.RGBA {
	return c.dc.ResizeTarget().ToImage()
}
