package offcanvas

import (
	"image"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// spawnSprite adds a renderable entity with the given z-index.
func spawnSprite(g *Graph, parent Entity, kind ShapeKind, z int) Entity {
	e := g.Spawn(parent)
	g.SetTransform(e, NewTransform(mgl64.Vec2{10, 10}, mgl64.Vec2{}))
	s := NewSprite(kind, ColorMaterial("red"))
	s.ZIndex = z
	g.SetSprite(e, s)
	return e
}

func newTestScene() (*Graph, Entity) {
	g := NewGraph()
	surface := g.Spawn(0)
	g.SetTransform(surface, NewTransform(mgl64.Vec2{1000, 750}, mgl64.Vec2{}))
	return g, surface
}

func zOrder(n *RenderNode) []int {
	var out []int
	for _, ch := range n.Children {
		out = append(out, ch.ZIndex)
	}
	return out
}

func TestBuildSnapshotZOrder(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	for _, z := range []int{3, 1, 2} {
		spawnSprite(g, root, ShapeRectangle, z)
	}
	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	got := zOrder(tree)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestBuildSnapshotStableTies(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	var ids []Entity
	for i := 0; i < 4; i++ {
		e := spawnSprite(g, root, ShapeRectangle, 0)
		ids = append(ids, e)
		tr, _ := g.Transform(e)
		tr.Pos = mgl64.Vec2{float64(i), 0}
	}
	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	for i, ch := range tree.Children {
		if ch.Pos.X() != float64(i) {
			t.Errorf("child %d has pos %v, insertion order not kept", i, ch.Pos)
		}
	}
}

func TestBuildSnapshotTextAndEllipse(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	text := spawnSprite(g, root, ShapeText, 5)
	g.SetText(text, "hi")
	spawnSprite(g, root, ShapeEllipse, -1)

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	if len(tree.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(tree.Children))
	}
	if tree.Children[0].Kind != ShapeEllipse || tree.Children[1].Kind != ShapeText {
		t.Errorf("order = [%v %v], want [ellipse text]", tree.Children[0].Kind, tree.Children[1].Kind)
	}
	txt := tree.Children[1]
	if !txt.HasText || txt.Text.Value != "hi" {
		t.Fatalf("text = %+v", txt.Text)
	}
	if txt.Text.Font != "sans-serif" || txt.Text.Color != "black" ||
		txt.Text.StrictWidth || txt.Text.Align != TextAlignCenter || txt.Text.Baseline != TextBaselineMiddle {
		t.Errorf("text defaults = %+v", txt.Text)
	}
}

func TestBuildSkipsNonQualifying(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	// Transform only: skipped along with its subtree.
	bare := g.Spawn(root)
	g.SetTransform(bare, NewTransform(mgl64.Vec2{1, 1}, mgl64.Vec2{}))
	spawnSprite(g, bare, ShapeRectangle, 0)
	// Sprite only.
	noT := g.Spawn(root)
	g.SetSprite(noT, NewSprite(ShapeRectangle, Material{}))
	kept := spawnSprite(g, root, ShapeRectangle, 0)
	spawnSprite(g, kept, ShapeEllipse, 0)

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	if got := tree.Count(); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if b.Nodes() != 3 {
		t.Errorf("Nodes = %d, want 3", b.Nodes())
	}
}

func TestBuildFrameExcludesSurface(t *testing.T) {
	g, surface := newTestScene()
	g.SetSprite(surface, NewSprite(ShapeRectangle, ColorMaterial("white")))
	spawnSprite(g, 0, ShapeRectangle, 0)
	spawnSprite(g, 0, ShapeEllipse, 0)

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildFrame(surface)
	defer b.Release(tree)

	if len(tree.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(tree.Children))
	}
	if !tree.Visible || tree.Alpha != 1 {
		t.Errorf("root = visible %v alpha %v", tree.Visible, tree.Alpha)
	}
	// The surface sprite becomes the root and spans the canvas.
	if tree.Kind != ShapeRectangle || tree.Color != "white" || tree.Size != (mgl64.Vec2{1000, 750}) {
		t.Errorf("root = %v %q size %v, want white rectangle 1000x750", tree.Kind, tree.Color, tree.Size)
	}
}

func TestBuildSnapshotCopiesRoot(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	tr := g.SetTransform(root, NewTransform(mgl64.Vec2{50, 40}, mgl64.Vec2{7, 9}))
	tr.Angle = 0.5
	rs := g.SetSprite(root, NewSprite(ShapeRectangle, ColorMaterial("red")))
	rs.BorderColor = "blue"
	rs.BorderWidth = 2
	spawnSprite(g, root, ShapeEllipse, 0)

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	if tree.Kind != ShapeRectangle || tree.Fill != MaterialColor || tree.Color != "red" {
		t.Errorf("root fill = %v %v %q, want red rectangle", tree.Kind, tree.Fill, tree.Color)
	}
	if tree.Size != (mgl64.Vec2{50, 40}) || tree.Pos != (mgl64.Vec2{7, 9}) || tree.Angle != 0.5 {
		t.Errorf("root transform = size %v pos %v angle %v", tree.Size, tree.Pos, tree.Angle)
	}
	if tree.BorderColor != "blue" || tree.BorderWidth != 2 {
		t.Errorf("root border = %q %v", tree.BorderColor, tree.BorderWidth)
	}
	if len(tree.Children) != 1 || b.Nodes() != 2 {
		t.Errorf("children = %d nodes = %d, want 1 and 2", len(tree.Children), b.Nodes())
	}
}

func TestInvisibleRootSuppressesFrame(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	g.SetTransform(root, NewTransform(mgl64.Vec2{50, 40}, mgl64.Vec2{}))
	rs := g.SetSprite(root, NewSprite(ShapeRectangle, ColorMaterial("red")))
	rs.Visible = false
	spawnSprite(g, root, ShapeRectangle, 0)

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	if tree.Visible {
		t.Fatal("root copied as visible")
	}
	c := newRecCanvas()
	if err := Draw(c, tree, nil); err != nil {
		t.Fatal(err)
	}
	if ops := c.Ops(); len(ops) != 0 {
		t.Errorf("invisible root drew %v", ops)
	}
}

func TestInlineImageWarnsOncePerImage(t *testing.T) {
	buf := captureLogs(t)
	g, _ := newTestScene()
	root := g.Spawn(0)
	raw := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 3; i++ {
		e := g.Spawn(root)
		g.SetTransform(e, NewTransform(mgl64.Vec2{4, 4}, mgl64.Vec2{}))
		g.SetSprite(e, NewSprite(ShapeImage, ImageMaterial(ImageRef{Image: raw})))
	}

	b := NewBuilder(g, NewNodePool(8))
	for i := 0; i < 2; i++ {
		b.Release(b.BuildSnapshot(root))
	}
	if n := strings.Count(buf.String(), "was not uploaded"); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}

	for i := 0; i < maxWarnedImages+10; i++ {
		b.warnInline(root, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	}
	if len(b.warned) > maxWarnedImages {
		t.Errorf("warned set holds %d images, limit %d", len(b.warned), maxWarnedImages)
	}
}

func TestBuildCopiesValues(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	e := g.Spawn(root)
	tr := g.SetTransform(e, NewTransform(mgl64.Vec2{4, 5}, mgl64.Vec2{1, 2}))
	s := g.SetSprite(e, NewSprite(ShapeRectangle, GradientMaterial(Gradient{
		X1:    1,
		Stops: []GradientStop{{0, "red"}, {1, "blue"}},
	})))

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	tr.Pos[0] = 100
	s.Material.Gradient.Stops[0].Color = "green"
	s.Visible = false

	n := tree.Children[0]
	if n.Pos.X() != 1 || !n.Visible {
		t.Errorf("node aliased scene state: pos %v visible %v", n.Pos, n.Visible)
	}
	if n.Gradient.Stops[0].Color != "red" {
		t.Errorf("gradient stops aliased: %v", n.Gradient.Stops)
	}
}

func TestBuildImageResolution(t *testing.T) {
	g, _ := newTestScene()
	root := g.Spawn(0)
	e := g.Spawn(root)
	g.SetTransform(e, NewTransform(mgl64.Vec2{4, 4}, mgl64.Vec2{}))
	raw := image.NewRGBA(image.Rect(0, 0, 2, 2))
	g.SetSprite(e, NewSprite(ShapeImage, ImageMaterial(ImageRef{Handle: "abc"}, ImageRef{Image: raw})))

	b := NewBuilder(g, NewNodePool(8))
	tree := b.BuildSnapshot(root)
	defer b.Release(tree)

	imgs := tree.Children[0].Images
	if len(imgs) != 2 {
		t.Fatalf("images = %d, want 2", len(imgs))
	}
	if imgs[0].Handle != "abc" || imgs[0].Inline != nil {
		t.Errorf("image 0 = %+v", imgs[0])
	}
	if imgs[1].Handle != "" || imgs[1].Inline != raw {
		t.Errorf("image 1 = %+v", imgs[1])
	}
}

func TestBuildReleaseBalancesPool(t *testing.T) {
	g, surface := newTestScene()
	parent := spawnSprite(g, 0, ShapeRectangle, 0)
	for i := 0; i < 20; i++ {
		spawnSprite(g, parent, ShapeEllipse, i%3)
	}
	pool := NewNodePool(8)
	b := NewBuilder(g, pool)

	tree := b.BuildFrame(surface)
	if pool.InUse() != 22 {
		t.Errorf("InUse = %d, want 22", pool.InUse())
	}
	b.Release(tree)
	if pool.InUse() != 0 {
		t.Errorf("InUse after release = %d, want 0", pool.InUse())
	}
	allocated := pool.Allocated()
	for i := 0; i < 10; i++ {
		b.Release(b.BuildFrame(surface))
	}
	if pool.Allocated() != allocated {
		t.Errorf("pool grew in steady state: %d -> %d", allocated, pool.Allocated())
	}
}

func TestSortByZ(t *testing.T) {
	mk := func(zs ...int) []*RenderNode {
		out := make([]*RenderNode, len(zs))
		for i, z := range zs {
			out[i] = &RenderNode{ZIndex: z, index: int32(i)}
		}
		return out
	}
	nodes := mk(2, -1, 2, 0, -1)
	sortByZ(nodes)
	wantZ := []int{-1, -1, 0, 2, 2}
	wantIdx := []int32{1, 4, 3, 0, 2}
	for i, n := range nodes {
		if n.ZIndex != wantZ[i] || n.index != wantIdx[i] {
			t.Errorf("pos %d = z%d idx%d, want z%d idx%d", i, n.ZIndex, n.index, wantZ[i], wantIdx[i])
		}
	}
}
