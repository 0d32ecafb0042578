package ecs

import (
	"slices"

	"github.com/phanxgames/offcanvas"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Components understood by the Donburi adapter.
var (
	Transform = donburi.NewComponentType[offcanvas.Transform]()
	Sprite    = donburi.NewComponentType[offcanvas.Sprite]()
	Text      = donburi.NewComponentType[offcanvas.Text]()
	Hierarchy = donburi.NewComponentType[HierarchyData]()
)

// HierarchyData links an entity into the scene tree. Children are kept in
// insertion order.
type HierarchyData struct {
	Parent   donburi.Entity
	Children []donburi.Entity
}

// ReadyEventType is the donburi event type for renderer acknowledgements.
var ReadyEventType = events.NewEventType[offcanvas.Ready]()

// PublishReady returns a callback for [offcanvas.Renderer.OnReady] that
// publishes every acknowledgement to ReadyEventType in world.
func PublishReady(world donburi.World) func(offcanvas.Ready) {
	return func(r offcanvas.Ready) {
		ReadyEventType.Publish(world, r)
	}
}

// Donburi is a scene source backed by a donburi world.
type Donburi struct {
	world donburi.World
	roots []donburi.Entity
}

// NewDonburi wraps world.
func NewDonburi(world donburi.World) *Donburi {
	return &Donburi{world: world}
}

// World returns the wrapped world.
func (d *Donburi) World() donburi.World { return d.world }

// Spawn creates an entity with a Transform under parent, or at the top level
// when parent is 0.
func (d *Donburi) Spawn(parent offcanvas.Entity, t offcanvas.Transform) offcanvas.Entity {
	e := d.world.Create(Transform, Hierarchy)
	entry := d.world.Entry(e)
	Transform.SetValue(entry, t)

	p := donburi.Entity(parent)
	if parent != 0 && d.world.Valid(p) {
		Hierarchy.Get(entry).Parent = p
		h := Hierarchy.Get(d.world.Entry(p))
		h.Children = append(h.Children, e)
	} else {
		d.roots = append(d.roots, e)
	}
	return offcanvas.Entity(e)
}

// SetSprite attaches or replaces the Sprite of e.
func (d *Donburi) SetSprite(e offcanvas.Entity, s offcanvas.Sprite) *offcanvas.Sprite {
	entry := d.world.Entry(donburi.Entity(e))
	if !entry.HasComponent(Sprite) {
		entry.AddComponent(Sprite)
	}
	Sprite.SetValue(entry, s)
	return Sprite.Get(entry)
}

// SetText attaches or replaces the Text of e.
func (d *Donburi) SetText(e offcanvas.Entity, value string) *offcanvas.Text {
	entry := d.world.Entry(donburi.Entity(e))
	if !entry.HasComponent(Text) {
		entry.AddComponent(Text)
	}
	Text.SetValue(entry, offcanvas.Text{Value: value})
	return Text.Get(entry)
}

// Remove deletes e and its descendants.
func (d *Donburi) Remove(e offcanvas.Entity) {
	de := donburi.Entity(e)
	if !d.world.Valid(de) {
		return
	}
	h := Hierarchy.Get(d.world.Entry(de))
	if h.Parent != donburi.Null && d.world.Valid(h.Parent) {
		ph := Hierarchy.Get(d.world.Entry(h.Parent))
		ph.Children = slices.DeleteFunc(ph.Children, func(c donburi.Entity) bool { return c == de })
	} else {
		d.roots = slices.DeleteFunc(d.roots, func(c donburi.Entity) bool { return c == de })
	}
	d.removeTree(de)
}

func (d *Donburi) removeTree(e donburi.Entity) {
	for _, c := range Hierarchy.Get(d.world.Entry(e)).Children {
		if d.world.Valid(c) {
			d.removeTree(c)
		}
	}
	d.world.Remove(e)
}

func (d *Donburi) entry(e offcanvas.Entity) (*donburi.Entry, bool) {
	de := donburi.Entity(e)
	if e == 0 || !d.world.Valid(de) {
		return nil, false
	}
	return d.world.Entry(de), true
}

func (d *Donburi) AppendRoots(dst []offcanvas.Entity) []offcanvas.Entity {
	for _, e := range d.roots {
		dst = append(dst, offcanvas.Entity(e))
	}
	return dst
}

func (d *Donburi) AppendChildren(dst []offcanvas.Entity, e offcanvas.Entity) []offcanvas.Entity {
	entry, ok := d.entry(e)
	if !ok {
		return dst
	}
	for _, c := range Hierarchy.Get(entry).Children {
		dst = append(dst, offcanvas.Entity(c))
	}
	return dst
}

func (d *Donburi) Transform(e offcanvas.Entity) (*offcanvas.Transform, bool) {
	return get(d, e, Transform)
}

func (d *Donburi) Sprite(e offcanvas.Entity) (*offcanvas.Sprite, bool) {
	return get(d, e, Sprite)
}

func (d *Donburi) Text(e offcanvas.Entity) (*offcanvas.Text, bool) {
	return get(d, e, Text)
}

func (d *Donburi) Parent(e offcanvas.Entity) (offcanvas.Entity, bool) {
	entry, ok := d.entry(e)
	if !ok {
		return 0, false
	}
	p := Hierarchy.Get(entry).Parent
	if p == donburi.Null {
		return 0, false
	}
	return offcanvas.Entity(p), true
}

func get[T any](d *Donburi, e offcanvas.Entity, c *donburi.ComponentType[T]) (*T, bool) {
	entry, ok := d.entry(e)
	if !ok || !entry.HasComponent(c) {
		return nil, false
	}
	return c.Get(entry), true
}

var transformQuery = donburi.NewQuery(filter.Contains(Transform))

// IntegrateTransforms advances every Transform in world by dt milliseconds.
func IntegrateTransforms(world donburi.World, dt, speed float64) {
	transformQuery.Each(world, func(entry *donburi.Entry) {
		Transform.Get(entry).Integrate(dt, speed)
	})
}
