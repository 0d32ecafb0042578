package offcanvas

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of a Transform or Sprite at
// once. Create one with the Tween* constructors and call Update(dt) each
// tick; values are written straight into the component, so the next snapshot
// picks them up.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64

	src    SceneSource
	entity Entity

	Done bool
}

// Bind stops the group as soon as e loses its Transform in src, e.g. after
// the entity was removed. It returns g.
func (g *TweenGroup) Bind(src SceneSource, e Entity) *TweenGroup {
	g.src, g.entity = src, e
	return g
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.src != nil {
		if _, ok := g.src.Transform(g.entity); !ok {
			g.Done = true
			return
		}
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates t.Pos to (toX, toY).
func TweenPosition(t *Transform, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&t.Pos[0], toX, duration, fn)
	g.add(&t.Pos[1], toY, duration, fn)
	return g
}

// TweenSize animates t.Size to (toW, toH).
func TweenSize(t *Transform, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&t.Size[0], toW, duration, fn)
	g.add(&t.Size[1], toH, duration, fn)
	return g
}

// TweenAngle animates t.Angle, in radians.
func TweenAngle(t *Transform, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&t.Angle, to, duration, fn)
	return g
}

// TweenAlpha animates s.Alpha.
func TweenAlpha(s *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&s.Alpha, to, duration, fn)
	return g
}

// TweenBorderWidth animates s.BorderWidth.
func TweenBorderWidth(s *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&s.BorderWidth, to, duration, fn)
	return g
}
