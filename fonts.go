package offcanvas

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type faceKey struct {
	family string
	size   float64
}

// Fonts maps CSS font families to font sources and caches sized faces.
// The generic families sans-serif, serif, monospace and bold are backed by
// the Go fonts; other families fall back to sans-serif until registered.
type Fonts struct {
	mu      sync.Mutex
	sources map[string]*text.FontSource
	faces   map[faceKey]text.Face
}

// NewFonts returns a registry with the built-in families.
func NewFonts() (*Fonts, error) {
	f := &Fonts{
		sources: make(map[string]*text.FontSource),
		faces:   make(map[faceKey]text.Face),
	}
	builtin := []struct {
		names []string
		ttf   []byte
	}{
		{[]string{"sans-serif", "serif", "system-ui"}, goregular.TTF},
		{[]string{"monospace"}, gomono.TTF},
		{[]string{"bold"}, gobold.TTF},
	}
	for _, b := range builtin {
		src, err := text.NewFontSource(b.ttf)
		if err != nil {
			return nil, fmt.Errorf("offcanvas: load builtin font: %w", err)
		}
		for _, name := range b.names {
			f.sources[name] = src
		}
	}
	return f, nil
}

// Register adds a TrueType or OpenType font under a family name.
func (f *Fonts) Register(family string, data []byte) error {
	src, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("offcanvas: register font %q: %w", family, err)
	}
	f.mu.Lock()
	f.sources[normalizeFamily(family)] = src
	f.mu.Unlock()
	return nil
}

// Face returns a face of the given family at size pixels. Sizes are rounded
// to half pixels to bound the cache.
func (f *Fonts) Face(family string, size float64) text.Face {
	family = normalizeFamily(family)
	size = math.Max(1, math.Round(size*2)/2)

	f.mu.Lock()
	defer f.mu.Unlock()
	src, ok := f.sources[family]
	if !ok {
		family = "sans-serif"
		src = f.sources[family]
	}
	key := faceKey{family, size}
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := src.Face(size)
	f.faces[key] = face
	return face
}

// normalizeFamily takes the first family of a CSS font-family list.
func normalizeFamily(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	return strings.ToLower(s)
}
