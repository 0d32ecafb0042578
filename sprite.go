package offcanvas

// Sprite is the visual component of a renderable entity.
type Sprite struct {
	Kind        ShapeKind
	Material    Material
	Visible     bool
	Filter      string // CSS filter, "none" or "" for no filter
	Alpha       float64
	BorderColor string // "none" disables the border
	BorderWidth float64
	ZIndex      int
	Frame       int // current image frame for ShapeImage
}

// NewSprite returns a visible, opaque sprite without a border.
func NewSprite(kind ShapeKind, m Material) Sprite {
	return Sprite{
		Kind:        kind,
		Material:    m,
		Visible:     true,
		Filter:      "none",
		Alpha:       1,
		BorderColor: "none",
	}
}

// Text is the payload of a ShapeText sprite.
type Text struct {
	Value string
}

// GotoFrame selects an image frame. Out of range frames are ignored.
func (s *Sprite) GotoFrame(i int) {
	if i < 0 || i >= len(s.Material.Images) {
		return
	}
	s.Frame = i
}

// ImageAnimation cycles a sprite through its image frames.
type ImageAnimation struct {
	Delay   float64 // milliseconds per frame
	Playing bool

	acc float64
}

// NewImageAnimation returns a playing animation.
func NewImageAnimation(delayMs float64) *ImageAnimation {
	return &ImageAnimation{Delay: delayMs, Playing: true}
}

// Update advances the animation by dt milliseconds and writes the frame
// index to s. Frames wrap around.
func (a *ImageAnimation) Update(dt float64, s *Sprite) {
	n := len(s.Material.Images)
	if !a.Playing || n < 2 || a.Delay <= 0 {
		return
	}
	a.acc += dt
	for a.acc >= a.Delay {
		a.acc -= a.Delay
		s.Frame = (s.Frame + 1) % n
	}
}

// Stop pauses the animation on the current frame.
func (a *ImageAnimation) Stop() {
	a.Playing = false
	a.acc = 0
}
