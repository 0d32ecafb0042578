package offcanvas

// Entity identifies an entity in the external scene store. The zero value is
// never a valid entity.
type Entity uint64

// ShapeKind selects what a sprite paints.
type ShapeKind uint8

const (
	ShapeNone      ShapeKind = iota // group node, paints nothing itself
	ShapeRectangle                  // axis-aligned rectangle centered on the position
	ShapeEllipse                    // ellipse inscribed in the size box
	ShapeImage                      // one frame of an image material
	ShapeText                       // text run from the entity's Text component
)

var shapeNames = [...]string{"none", "rectangle", "ellipse", "image", "text"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return "unknown"
}

// TextAlign controls horizontal placement of text relative to its position.
// The zero value centers text.
type TextAlign uint8

const (
	TextAlignCenter TextAlign = iota // center on the position (default)
	TextAlignLeft                    // start at the position
	TextAlignRight                   // end at the position
)

// anchor returns the horizontal anchor in [0, 1].
func (a TextAlign) anchor() float64 {
	switch a {
	case TextAlignLeft:
		return 0
	case TextAlignRight:
		return 1
	default:
		return 0.5
	}
}

// TextBaseline controls vertical placement of text relative to its position.
// The zero value centers the line box.
type TextBaseline uint8

const (
	TextBaselineMiddle     TextBaseline = iota // middle of the line box (default)
	TextBaselineTop                            // top of the line box
	TextBaselineBottom                         // bottom of the line box
	TextBaselineAlphabetic                     // glyph baseline
)

// baseline returns the offset from the anchor point to the glyph baseline in
// a y-down frame, given the face's ascent and descent.
func (b TextBaseline) baseline(ascent, descent float64) float64 {
	switch b {
	case TextBaselineTop:
		return ascent
	case TextBaselineBottom:
		return -descent
	case TextBaselineAlphabetic:
		return 0
	default:
		return (ascent - descent) / 2
	}
}

// Rendering selects how bitmaps are resampled when scaled.
type Rendering uint8

const (
	RenderingCrisp  Rendering = iota // nearest neighbour, also "pixelated"
	RenderingSmooth                  // bilinear
)

// ParseRendering maps a CSS image-rendering keyword to a Rendering.
// Unknown keywords fall back to RenderingCrisp.
func ParseRendering(s string) Rendering {
	switch s {
	case "smooth", "auto", "high-quality":
		return RenderingSmooth
	default:
		return RenderingCrisp
	}
}

// Dims is a pixel size of a backing store.
type Dims struct {
	W, H int
}

// Size is a logical size in canvas units.
type Size struct {
	W, H float64
}
