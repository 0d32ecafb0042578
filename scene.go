package offcanvas

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// SceneSource is the read side of an entity/component store. The builder only
// reads through it. Append methods append to dst and return it so callers can
// reuse buffers across frames.
type SceneSource interface {
	// AppendRoots appends the top-level entities in insertion order.
	AppendRoots(dst []Entity) []Entity
	// AppendChildren appends the direct children of e in insertion order.
	AppendChildren(dst []Entity, e Entity) []Entity
	Transform(e Entity) (*Transform, bool)
	Sprite(e Entity) (*Sprite, bool)
	Text(e Entity) (*Text, bool)
}

// ParentSource is implemented by stores that can walk up the hierarchy.
type ParentSource interface {
	Parent(e Entity) (Entity, bool)
}

// --- Graph ---

// Graph is a minimal map-backed entity store. It is enough to drive a
// Renderer without an ECS; the ecs package provides adapters for real ones.
type Graph struct {
	next       Entity
	roots      []Entity
	children   map[Entity][]Entity
	parents    map[Entity]Entity
	transforms map[Entity]*Transform
	sprites    map[Entity]*Sprite
	texts      map[Entity]*Text
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		children:   make(map[Entity][]Entity),
		parents:    make(map[Entity]Entity),
		transforms: make(map[Entity]*Transform),
		sprites:    make(map[Entity]*Sprite),
		texts:      make(map[Entity]*Text),
	}
}

// Spawn creates an entity under parent, or at the top level when parent is 0.
func (g *Graph) Spawn(parent Entity) Entity {
	g.next++
	e := g.next
	if parent == 0 {
		g.roots = append(g.roots, e)
	} else {
		g.children[parent] = append(g.children[parent], e)
		g.parents[e] = parent
	}
	return e
}

// SetTransform attaches a transform and returns the stored pointer.
func (g *Graph) SetTransform(e Entity, t Transform) *Transform {
	p := &t
	g.transforms[e] = p
	return p
}

// SetSprite attaches a sprite and returns the stored pointer.
func (g *Graph) SetSprite(e Entity, s Sprite) *Sprite {
	p := &s
	g.sprites[e] = p
	return p
}

// SetText attaches a text payload and returns the stored pointer.
func (g *Graph) SetText(e Entity, value string) *Text {
	p := &Text{Value: value}
	g.texts[e] = p
	return p
}

// Remove deletes e and its subtree.
func (g *Graph) Remove(e Entity) {
	for _, ch := range slices.Clone(g.children[e]) {
		g.Remove(ch)
	}
	if p, ok := g.parents[e]; ok {
		g.children[p] = slices.DeleteFunc(g.children[p], func(x Entity) bool { return x == e })
	} else {
		g.roots = slices.DeleteFunc(g.roots, func(x Entity) bool { return x == e })
	}
	delete(g.children, e)
	delete(g.parents, e)
	delete(g.transforms, e)
	delete(g.sprites, e)
	delete(g.texts, e)
}

func (g *Graph) AppendRoots(dst []Entity) []Entity {
	return append(dst, g.roots...)
}

func (g *Graph) AppendChildren(dst []Entity, e Entity) []Entity {
	return append(dst, g.children[e]...)
}

func (g *Graph) Transform(e Entity) (*Transform, bool) {
	t, ok := g.transforms[e]
	return t, ok
}

func (g *Graph) Sprite(e Entity) (*Sprite, bool) {
	s, ok := g.sprites[e]
	return s, ok
}

func (g *Graph) Text(e Entity) (*Text, bool) {
	t, ok := g.texts[e]
	return t, ok
}

func (g *Graph) Parent(e Entity) (Entity, bool) {
	p, ok := g.parents[e]
	return p, ok
}

// Each calls fn for every entity with a transform.
func (g *Graph) Each(fn func(Entity, *Transform)) {
	for e, t := range g.transforms {
		fn(e, t)
	}
}

// --- Global pose ---

// GlobalMatrix composes the local transforms from the top-level ancestor down
// to e. Entities without a transform contribute the identity.
func GlobalMatrix[S interface {
	SceneSource
	ParentSource
}](src S, e Entity) Affine {
	m := IdentityAffine
	for cur, ok := e, true; ok; cur, ok = src.Parent(cur) {
		if t, has := src.Transform(cur); has {
			local := IdentityAffine.Translate(t.Pos[0], t.Pos[1]).Rotate(t.Angle)
			m = local.Multiply(m)
		}
	}
	return m
}

// GlobalPose returns the position and angle of e in top-level coordinates.
func GlobalPose[S interface {
	SceneSource
	ParentSource
}](src S, e Entity) Pose {
	m := GlobalMatrix(src, e)
	x, y := m.Apply(0, 0)
	var angle float64
	for cur, ok := e, true; ok; cur, ok = src.Parent(cur) {
		if t, has := src.Transform(cur); has {
			angle += t.Angle
		}
	}
	return Pose{Pos: mgl64.Vec2{x, y}, Angle: angle}
}
