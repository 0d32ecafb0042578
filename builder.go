package offcanvas

import (
	"image"
	"reflect"
)

const (
	defaultFont      = "sans-serif"
	defaultTextColor = "black"

	maxWarnedImages = 256
)

// Builder turns the current state of a SceneSource into a RenderNode tree.
// Every field is copied, so the tree stays valid while the scene keeps
// changing. A Builder is used from the main tick loop only.
type Builder struct {
	pool   *NodePool
	src    SceneSource
	levels [][]Entity // per-depth child buffers, reused across frames
	warned map[image.Image]struct{}

	nodes int
}

// NewBuilder returns a builder reading src and allocating from pool.
func NewBuilder(src SceneSource, pool *NodePool) *Builder {
	return &Builder{
		pool:   pool,
		src:    src,
		warned: make(map[image.Image]struct{}),
	}
}

// BuildSnapshot builds a tree whose children are the renderable children of
// root. When root has a Transform and a Sprite they are copied into the root
// node; otherwise the root is a visible, opaque group.
func (b *Builder) BuildSnapshot(root Entity) *RenderNode {
	n := b.newRoot(root)
	level := b.level(0)
	level = b.src.AppendChildren(level, root)
	b.levels[0] = level
	b.addChildren(n, level, 0, 1)
	return n
}

// BuildFrame builds a tree from every top-level entity except the surface
// entity, which becomes the root node as in BuildSnapshot.
func (b *Builder) BuildFrame(surface Entity) *RenderNode {
	n := b.newRoot(surface)
	level := b.level(0)
	level = b.src.AppendRoots(level)
	b.levels[0] = level
	b.addChildren(n, level, surface, 1)
	return n
}

// Release returns a tree built by this builder to its pool.
func (b *Builder) Release(root *RenderNode) {
	b.pool.Release(root)
}

// Nodes returns the node count of the last built tree, root included.
func (b *Builder) Nodes() int { return b.nodes }

func (b *Builder) newRoot(e Entity) *RenderNode {
	b.nodes = 1
	n := b.pool.Acquire()
	t, hasT := b.src.Transform(e)
	s, hasS := b.src.Sprite(e)
	if hasT && hasS {
		b.copyEntity(n, e, t, s)
		return n
	}
	n.Visible = true
	n.Alpha = 1
	return n
}

// level returns the emptied entity buffer for depth d.
func (b *Builder) level(d int) []Entity {
	for len(b.levels) <= d {
		b.levels = append(b.levels, nil)
	}
	return b.levels[d][:0]
}

// addChildren appends nodes for the qualifying entities to parent, recurses
// into each, then orders parent's children by z-index.
func (b *Builder) addChildren(parent *RenderNode, entities []Entity, skip Entity, depth int) {
	for _, e := range entities {
		if e == skip {
			continue
		}
		t, ok := b.src.Transform(e)
		if !ok {
			continue
		}
		s, ok := b.src.Sprite(e)
		if !ok {
			continue
		}
		n := b.pool.Acquire()
		b.nodes++
		b.copyEntity(n, e, t, s)
		parent.Children = append(parent.Children, n)

		level := b.level(depth)
		level = b.src.AppendChildren(level, e)
		b.levels[depth] = level
		b.addChildren(n, level, skip, depth+1)
	}
	sortByZ(parent.Children)
}

// sortByZ is a stable insertion sort by ZIndex. Sibling lists are short and
// usually already ordered, so this is O(n) in the common case.
func sortByZ(nodes []*RenderNode) {
	for i := 1; i < len(nodes); i++ {
		key := nodes[i]
		j := i - 1
		for j >= 0 && nodes[j].ZIndex > key.ZIndex {
			nodes[j+1] = nodes[j]
			j--
		}
		nodes[j+1] = key
	}
}

func (b *Builder) copyEntity(n *RenderNode, e Entity, t *Transform, s *Sprite) {
	n.Kind = s.Kind
	n.Visible = s.Visible
	n.Alpha = s.Alpha
	n.Filter = s.Filter
	n.ZIndex = s.ZIndex
	n.BorderColor = s.BorderColor
	n.BorderWidth = s.BorderWidth
	n.Frame = s.Frame
	n.Size = t.Size
	n.Pos = t.Pos
	n.Angle = t.Angle

	m := &s.Material
	switch m.Kind {
	case MaterialColor:
		n.Fill = MaterialColor
		n.Color = m.Color
	case MaterialGradient:
		n.Fill = MaterialGradient
		stops := append(n.Gradient.Stops[:0], m.Gradient.Stops...)
		n.Gradient = m.Gradient
		n.Gradient.Stops = stops
	case MaterialImages:
		n.Fill = MaterialImages
		for _, ref := range m.Images {
			if ref.Uploaded() {
				n.Images = append(n.Images, ImageSource{Handle: ref.Handle})
				continue
			}
			b.warnInline(e, ref.Image)
			n.Images = append(n.Images, ImageSource{Inline: ref.Image})
		}
	}

	if s.Kind == ShapeText {
		if txt, ok := b.src.Text(e); ok {
			n.HasText = true
			n.Text = resolveText(txt.Value, m)
		}
	}
}

// warnInline logs once per bitmap that is being copied into frames. The set
// is reset when full so it cannot pin an unbounded number of images.
func (b *Builder) warnInline(e Entity, img image.Image) {
	if img == nil || !reflect.TypeOf(img).Comparable() {
		return
	}
	if _, seen := b.warned[img]; seen {
		return
	}
	if len(b.warned) >= maxWarnedImages {
		clear(b.warned)
	}
	b.warned[img] = struct{}{}
	Logger().Warn("image material was not uploaded, drawing inline", "entity", uint64(e))
}

func resolveText(value string, m *Material) TextStyle {
	st := TextStyle{Value: value, Font: defaultFont, Color: defaultTextColor}
	if m.Kind != MaterialText {
		return st
	}
	if m.Text.Font != "" {
		st.Font = m.Text.Font
	}
	if m.Text.Color != "" {
		st.Color = m.Text.Color
	}
	st.StrictWidth = m.Text.StrictWidth
	st.Align = m.Text.Align
	st.Baseline = m.Text.Baseline
	return st
}
