package ecs

import (
	"slices"

	"github.com/phanxgames/offcanvas"

	ark "github.com/mlange-42/ark/ecs"
)

// arkNode is the ark component holding an entity's key and tree links.
type arkNode struct {
	Key      offcanvas.Entity
	Parent   offcanvas.Entity
	Children []offcanvas.Entity
}

// Ark is a scene source backed by an ark world. Ark entities are addressed
// through stable offcanvas keys, since ark entity handles are opaque.
type Ark struct {
	world *ark.World

	spawn      *ark.Map2[offcanvas.Transform, arkNode]
	nodes      *ark.Map[arkNode]
	transforms *ark.Map[offcanvas.Transform]
	sprites    *ark.Map[offcanvas.Sprite]
	texts      *ark.Map[offcanvas.Text]
	moving     *ark.Filter1[offcanvas.Transform]

	ids   map[offcanvas.Entity]ark.Entity
	roots []offcanvas.Entity
	next  offcanvas.Entity
}

// NewArk wraps world.
func NewArk(world *ark.World) *Ark {
	return &Ark{
		world:      world,
		spawn:      ark.NewMap2[offcanvas.Transform, arkNode](world),
		nodes:      ark.NewMap[arkNode](world),
		transforms: ark.NewMap[offcanvas.Transform](world),
		sprites:    ark.NewMap[offcanvas.Sprite](world),
		texts:      ark.NewMap[offcanvas.Text](world),
		moving:     ark.NewFilter1[offcanvas.Transform](world),
		ids:        make(map[offcanvas.Entity]ark.Entity),
	}
}

// World returns the wrapped world.
func (a *Ark) World() *ark.World { return a.world }

// Entity returns the ark entity for key.
func (a *Ark) Entity(key offcanvas.Entity) (ark.Entity, bool) {
	e, ok := a.ids[key]
	return e, ok && a.world.Alive(e)
}

// Spawn creates an entity with a Transform under parent, or at the top level
// when parent is 0.
func (a *Ark) Spawn(parent offcanvas.Entity, t offcanvas.Transform) offcanvas.Entity {
	a.next++
	key := a.next
	n := arkNode{Key: key}
	if pe, ok := a.Entity(parent); ok {
		n.Parent = parent
		pn := a.nodes.Get(pe)
		pn.Children = append(pn.Children, key)
	} else {
		a.roots = append(a.roots, key)
	}
	a.ids[key] = a.spawn.NewEntity(&t, &n)
	return key
}

// SetSprite attaches or replaces the Sprite of key.
func (a *Ark) SetSprite(key offcanvas.Entity, s offcanvas.Sprite) *offcanvas.Sprite {
	e, ok := a.Entity(key)
	if !ok {
		return nil
	}
	if a.sprites.Has(e) {
		*a.sprites.Get(e) = s
	} else {
		a.sprites.Add(e, &s)
	}
	return a.sprites.Get(e)
}

// SetText attaches or replaces the Text of key.
func (a *Ark) SetText(key offcanvas.Entity, value string) *offcanvas.Text {
	e, ok := a.Entity(key)
	if !ok {
		return nil
	}
	txt := offcanvas.Text{Value: value}
	if a.texts.Has(e) {
		*a.texts.Get(e) = txt
	} else {
		a.texts.Add(e, &txt)
	}
	return a.texts.Get(e)
}

// Remove deletes key and its descendants.
func (a *Ark) Remove(key offcanvas.Entity) {
	e, ok := a.Entity(key)
	if !ok {
		return
	}
	n := a.nodes.Get(e)
	isKey := func(k offcanvas.Entity) bool { return k == key }
	if pe, ok := a.Entity(n.Parent); ok {
		pn := a.nodes.Get(pe)
		pn.Children = slices.DeleteFunc(pn.Children, isKey)
	} else {
		a.roots = slices.DeleteFunc(a.roots, isKey)
	}
	a.removeTree(key)
}

func (a *Ark) removeTree(key offcanvas.Entity) {
	e, ok := a.Entity(key)
	if !ok {
		return
	}
	for _, c := range slices.Clone(a.nodes.Get(e).Children) {
		a.removeTree(c)
	}
	a.world.RemoveEntity(e)
	delete(a.ids, key)
}

func (a *Ark) AppendRoots(dst []offcanvas.Entity) []offcanvas.Entity {
	return append(dst, a.roots...)
}

func (a *Ark) AppendChildren(dst []offcanvas.Entity, key offcanvas.Entity) []offcanvas.Entity {
	e, ok := a.Entity(key)
	if !ok {
		return dst
	}
	return append(dst, a.nodes.Get(e).Children...)
}

func (a *Ark) Transform(key offcanvas.Entity) (*offcanvas.Transform, bool) {
	return lookup(a, key, a.transforms)
}

func (a *Ark) Sprite(key offcanvas.Entity) (*offcanvas.Sprite, bool) {
	return lookup(a, key, a.sprites)
}

func (a *Ark) Text(key offcanvas.Entity) (*offcanvas.Text, bool) {
	return lookup(a, key, a.texts)
}

func (a *Ark) Parent(key offcanvas.Entity) (offcanvas.Entity, bool) {
	e, ok := a.Entity(key)
	if !ok {
		return 0, false
	}
	p := a.nodes.Get(e).Parent
	return p, p != 0
}

func lookup[T any](a *Ark, key offcanvas.Entity, m *ark.Map[T]) (*T, bool) {
	e, ok := a.Entity(key)
	if !ok || !m.Has(e) {
		return nil, false
	}
	return m.Get(e), true
}

// IntegrateTransforms advances every Transform by dt milliseconds.
func (a *Ark) IntegrateTransforms(dt, speed float64) {
	query := a.moving.Query()
	for query.Next() {
		query.Get().Integrate(dt, speed)
	}
}
