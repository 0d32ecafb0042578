package offcanvas

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// MaterialKind selects how a sprite is painted.
type MaterialKind uint8

const (
	MaterialNone     MaterialKind = iota // nothing is filled
	MaterialColor                        // solid CSS color
	MaterialGradient                     // linear gradient
	MaterialImages                       // ordered image frames
	MaterialText                         // text styling for ShapeText sprites
)

// GradientStop is one color stop of a linear gradient.
type GradientStop struct {
	Offset float64
	Color  string
}

// Gradient is a linear gradient between two points in sprite-local units.
type Gradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []GradientStop
}

// ImageRef points at one image frame. Handle is set for bitmaps uploaded to the
// drawing worker; Image is set for bitmaps that have not been uploaded.
type ImageRef struct {
	Handle Handle
	Image  image.Image
}

// Uploaded reports whether the reference resolves through the worker cache.
func (r ImageRef) Uploaded() bool { return r.Handle != "" }

// TextOptions styles a ShapeText sprite. Empty strings take the defaults:
// font "sans-serif" and color "black".
type TextOptions struct {
	Font        string
	Color       string
	StrictWidth bool
	Align       TextAlign
	Baseline    TextBaseline
}

// Material is the paint of a sprite. Exactly one payload matching Kind is used.
type Material struct {
	Kind     MaterialKind
	Color    string
	Gradient Gradient
	Images   []ImageRef
	Text     TextOptions
}

// ColorMaterial returns a solid color material.
func ColorMaterial(css string) Material {
	return Material{Kind: MaterialColor, Color: css}
}

// GradientMaterial returns a linear gradient material.
func GradientMaterial(g Gradient) Material {
	return Material{Kind: MaterialGradient, Gradient: g}
}

// ImageMaterial returns an image material with the given frames.
func ImageMaterial(frames ...ImageRef) Material {
	return Material{Kind: MaterialImages, Images: frames}
}

// HandleMaterial is a convenience for image materials built only from handles.
func HandleMaterial(handles ...Handle) Material {
	refs := make([]ImageRef, len(handles))
	for i, h := range handles {
		refs[i] = ImageRef{Handle: h}
	}
	return Material{Kind: MaterialImages, Images: refs}
}

// TextMaterial returns a text styling material.
func TextMaterial(opts TextOptions) Material {
	return Material{Kind: MaterialText, Text: opts}
}

// Paint is the fill of a shape as seen by a Canvas.
type Paint struct {
	Kind     MaterialKind
	Color    string
	Gradient Gradient
}

// --- CSS colors ---

// ParseColor resolves a CSS color: a named color, "transparent", or a hex
// color in #rgb, #rgba, #rrggbb or #rrggbbaa form.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		switch len(s) {
		case 4, 5, 7, 9:
		default:
			return color.NRGBA{}, fmt.Errorf("offcanvas: bad hex color %q", s)
		}
		for _, r := range s[1:] {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
				return color.NRGBA{}, fmt.Errorf("offcanvas: bad hex color %q", s)
			}
		}
		c := gg.Hex(s)
		return color.NRGBA{
			R: uint8(c.R*255 + 0.5),
			G: uint8(c.G*255 + 0.5),
			B: uint8(c.B*255 + 0.5),
			A: uint8(c.A*255 + 0.5),
		}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("offcanvas: unknown color %q", s)
}

// ggColor resolves a CSS color to a gg color with alpha scaled by a.
// Unparseable colors resolve to transparent.
func ggColor(s string, a float64) gg.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return gg.Transparent
	}
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255 * a,
	}
}
