package offcanvas

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"
)

// ImageSource is a resolved image frame: either a cache handle or, for
// bitmaps that were never uploaded, the bitmap itself.
type ImageSource struct {
	Handle Handle
	Inline image.Image
}

// TextStyle is a text payload with its styling resolved to concrete values.
type TextStyle struct {
	Value       string
	Font        string
	Color       string
	StrictWidth bool
	Align       TextAlign
	Baseline    TextBaseline
}

// --- RenderNode ---

// RenderNode is a value snapshot of one sprite for one frame. Nodes are owned
// by a NodePool and are only valid between Acquire and Release.
type RenderNode struct {
	Kind    ShapeKind
	Visible bool
	Alpha   float64
	Filter  string
	ZIndex  int

	// Fill
	Fill     MaterialKind
	Color    string
	Gradient Gradient
	Images   []ImageSource
	Frame    int

	BorderColor string
	BorderWidth float64

	Size  mgl64.Vec2
	Pos   mgl64.Vec2
	Angle float64

	Text    TextStyle
	HasText bool

	Children []*RenderNode

	index int32
	inUse bool
}

// reset zeroes the value fields while keeping slice capacity. Image entries
// are cleared so pooled nodes do not keep inline bitmaps alive.
func (n *RenderNode) reset() {
	clear(n.Images)
	images := n.Images[:0]
	children := n.Children[:0]
	stops := n.Gradient.Stops[:0]
	idx := n.index
	*n = RenderNode{index: idx}
	n.Images = images
	n.Children = children
	n.Gradient.Stops = stops
}

// Paint returns the fill of the node as a Canvas paint.
func (n *RenderNode) Paint() Paint {
	return Paint{Kind: n.Fill, Color: n.Color, Gradient: n.Gradient}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *RenderNode) Count() int {
	c := 1
	for _, ch := range n.Children {
		c += ch.Count()
	}
	return c
}

// Walk visits n and its descendants in pre-order.
func (n *RenderNode) Walk(fn func(*RenderNode)) {
	fn(n)
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}
