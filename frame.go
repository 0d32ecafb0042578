package offcanvas

import "github.com/go-gl/mathgl/mgl64"

// frameNode is one flattened node. Variable-length data lives in the frame's
// shared tables and is referenced by offset and length.
type frameNode struct {
	kind        ShapeKind
	visible     bool
	alpha       float64
	filter      string
	fill        MaterialKind
	color       string
	x0, y0      float64
	x1, y1      float64
	stopOff     int32
	stopLen     int32
	imageOff    int32
	imageLen    int32
	frame       int
	borderColor string
	borderWidth float64
	size        mgl64.Vec2
	pos         mgl64.Vec2
	angle       float64
	text        TextStyle
	hasText     bool
	children    int32
}

// Frame is a self-contained, flat copy of a render tree in pre-order. It is
// what crosses from the main side to the draw worker; nothing in it refers to
// builder-owned memory. Strings are shared, which is safe because Go strings
// are immutable. Inline bitmaps are shared by reference and must not be
// mutated after they are attached to a material.
type Frame struct {
	nodes  []frameNode
	stops  []GradientStop
	images []ImageSource
}

// Len returns the number of encoded nodes.
func (f *Frame) Len() int { return len(f.nodes) }

// Encode replaces the frame contents with the tree rooted at root.
func (f *Frame) Encode(root *RenderNode) {
	f.nodes = f.nodes[:0]
	f.stops = f.stops[:0]
	f.images = f.images[:0]
	if root != nil {
		f.encode(root)
	}
}

func (f *Frame) encode(n *RenderNode) {
	f.nodes = append(f.nodes, frameNode{
		kind:        n.Kind,
		visible:     n.Visible,
		alpha:       n.Alpha,
		filter:      n.Filter,
		fill:        n.Fill,
		color:       n.Color,
		x0:          n.Gradient.X0,
		y0:          n.Gradient.Y0,
		x1:          n.Gradient.X1,
		y1:          n.Gradient.Y1,
		stopOff:     int32(len(f.stops)),
		stopLen:     int32(len(n.Gradient.Stops)),
		imageOff:    int32(len(f.images)),
		imageLen:    int32(len(n.Images)),
		frame:       n.Frame,
		borderColor: n.BorderColor,
		borderWidth: n.BorderWidth,
		size:        n.Size,
		pos:         n.Pos,
		angle:       n.Angle,
		text:        n.Text,
		hasText:     n.HasText,
		children:    int32(len(n.Children)),
	})
	f.stops = append(f.stops, n.Gradient.Stops...)
	f.images = append(f.images, n.Images...)
	for _, ch := range n.Children {
		f.encode(ch)
	}
}

// Decode rebuilds the tree from pool. It returns nil for an empty frame.
// The caller releases the tree to the same pool.
func (f *Frame) Decode(pool *NodePool) *RenderNode {
	if len(f.nodes) == 0 {
		return nil
	}
	n, _ := f.decode(pool, 0)
	return n
}

func (f *Frame) decode(pool *NodePool, i int) (*RenderNode, int) {
	src := &f.nodes[i]
	n := pool.Acquire()
	n.Kind = src.kind
	n.Visible = src.visible
	n.Alpha = src.alpha
	n.Filter = src.filter
	n.Fill = src.fill
	n.Color = src.color
	n.Gradient.X0, n.Gradient.Y0 = src.x0, src.y0
	n.Gradient.X1, n.Gradient.Y1 = src.x1, src.y1
	n.Gradient.Stops = append(n.Gradient.Stops, f.stops[src.stopOff:src.stopOff+src.stopLen]...)
	n.Images = append(n.Images, f.images[src.imageOff:src.imageOff+src.imageLen]...)
	n.Frame = src.frame
	n.BorderColor = src.borderColor
	n.BorderWidth = src.borderWidth
	n.Size = src.size
	n.Pos = src.pos
	n.Angle = src.angle
	n.Text = src.text
	n.HasText = src.hasText

	next := i + 1
	for c := int32(0); c < src.children; c++ {
		var ch *RenderNode
		ch, next = f.decode(pool, next)
		n.Children = append(n.Children, ch)
	}
	return n, next
}
