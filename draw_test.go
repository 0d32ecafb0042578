package offcanvas

import (
	"image"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(p *NodePool, kind ShapeKind, w, h float64) *RenderNode {
	n := p.Acquire()
	n.Kind = kind
	n.Visible = true
	n.Alpha = 1
	n.Filter = "none"
	n.BorderColor = "none"
	n.Size = mgl64.Vec2{w, h}
	return n
}

func TestDrawRectangleSequence(t *testing.T) {
	p := NewNodePool(4)
	n := leaf(p, ShapeRectangle, 20, 10)
	n.Pos = mgl64.Vec2{5, 6}
	n.Angle = 0.5
	n.Fill = MaterialColor
	n.Color = "red"
	n.BorderColor = "black"
	n.BorderWidth = 2

	c := newRecCanvas()
	require.NoError(t, Draw(c, n, nil))

	want := "save translate(5,6) rotate(0.5) save scale(1,-1) filter(none) alpha(1) " +
		"rect(-10,-5,20,10) fill(red) stroke(black,2) restore restore"
	assert.Equal(t, want, c.Joined())
}

func TestDrawEllipseNoBorder(t *testing.T) {
	p := NewNodePool(4)
	n := leaf(p, ShapeEllipse, 8, 4)
	n.Fill = MaterialColor
	n.Color = "blue"
	n.BorderWidth = 3 // color "none" still suppresses the stroke

	c := newRecCanvas()
	require.NoError(t, Draw(c, n, nil))
	ops := c.Joined()
	assert.Contains(t, ops, "ellipse(0,0,4,2) fill(blue)")
	assert.NotContains(t, ops, "stroke")
}

func TestDrawNoMaterialNoFill(t *testing.T) {
	p := NewNodePool(4)
	n := leaf(p, ShapeRectangle, 8, 4)
	n.BorderColor = "green"
	n.BorderWidth = 1

	c := newRecCanvas()
	require.NoError(t, Draw(c, n, nil))
	ops := c.Joined()
	assert.NotContains(t, ops, "fill")
	assert.Contains(t, ops, "stroke(green,1)")
}

func TestDrawInvisibleSkipsSubtree(t *testing.T) {
	p := NewNodePool(4)
	parent := leaf(p, ShapeRectangle, 1, 1)
	parent.Visible = false
	child := leaf(p, ShapeEllipse, 1, 1)
	parent.Children = append(parent.Children, child)

	c := newRecCanvas()
	require.NoError(t, Draw(c, parent, nil))
	assert.Empty(t, c.Ops())
}

func TestDrawChildrenInOrderInsideParent(t *testing.T) {
	p := NewNodePool(4)
	root := leaf(p, ShapeNone, 0, 0)
	a := leaf(p, ShapeEllipse, 2, 2)
	b := leaf(p, ShapeRectangle, 2, 2)
	root.Children = append(root.Children, a, b)

	c := newRecCanvas()
	require.NoError(t, Draw(c, root, nil))
	ops := c.Joined()
	ie := strings.Index(ops, "ellipse")
	ir := strings.Index(ops, "rect")
	require.True(t, ie >= 0 && ir >= 0, ops)
	assert.Less(t, ie, ir)
	// Children are drawn after the parent's inner restore, before its outer one.
	assert.True(t, strings.HasSuffix(ops, "restore restore"), ops)
	assert.Equal(t, 0, len(c.stack))
}

type mapLookup map[Handle]image.Image

func (m mapLookup) Lookup(h Handle) (image.Image, bool) {
	img, ok := m[h]
	return img, ok
}

func TestDrawImageFrames(t *testing.T) {
	p := NewNodePool(4)
	n := leaf(p, ShapeImage, 10, 20)
	n.Fill = MaterialImages
	n.Images = append(n.Images,
		ImageSource{Handle: "a"},
		ImageSource{Handle: "b"},
		ImageSource{Inline: image.NewRGBA(image.Rect(0, 0, 3, 3))},
	)
	lookup := mapLookup{"a": image.NewRGBA(image.Rect(0, 0, 1, 1))}

	c := newRecCanvas()
	require.NoError(t, Draw(c, n, lookup))
	assert.Contains(t, c.Joined(), "image(1x1,-5,-10,10,20)")

	// Frame 1 is not loaded: nothing drawn, no error.
	c.Reset()
	n.Frame = 1
	require.NoError(t, Draw(c, n, lookup))
	assert.NotContains(t, c.Joined(), "image(")

	// Frame 2 travels inline.
	c.Reset()
	n.Frame = 2
	require.NoError(t, Draw(c, n, lookup))
	assert.Contains(t, c.Joined(), "image(3x3")

	// Out of range.
	c.Reset()
	n.Frame = 7
	require.NoError(t, Draw(c, n, lookup))
	assert.NotContains(t, c.Joined(), "image(")
}

func TestDrawText(t *testing.T) {
	p := NewNodePool(4)
	n := leaf(p, ShapeText, 120, 16)
	n.HasText = true
	n.Text = TextStyle{Value: "score", Font: "sans-serif", Color: "black"}

	c := newRecCanvas()
	require.NoError(t, Draw(c, n, nil))
	assert.Contains(t, c.Joined(), "text(score,sans-serif,16,0)")

	c.Reset()
	n.Text.StrictWidth = true
	require.NoError(t, Draw(c, n, nil))
	assert.Contains(t, c.Joined(), "text(score,sans-serif,16,120)")
}

func TestDrawTextWithoutPayload(t *testing.T) {
	p := NewNodePool(4)
	n := leaf(p, ShapeText, 10, 10)
	c := newRecCanvas()
	require.NoError(t, Draw(c, n, nil))
	assert.NotContains(t, c.Joined(), "text(")
}

func TestImageCache(t *testing.T) {
	cache := NewImageCache()
	src := image.NewNRGBA(image.Rect(2, 2, 6, 5))
	cache.Store("h", src)
	img, ok := cache.Lookup("h")
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, 1, cache.Len())

	cache.Delete("h")
	_, ok = cache.Lookup("h")
	assert.False(t, ok)
}
