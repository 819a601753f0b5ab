// Package material resolves symbolic material names and property bags into
// shaded materials, and loads the textures they sample.
package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind enumerates the shading models.
type Kind uint8

const (
	Unsupported Kind = iota
	Basic
	Lambert
	Phong
	Standard
	Physical
	Toon
	Normal
	Depth
)

var kindNames = map[Kind]string{
	Basic:    "basic",
	Lambert:  "lambert",
	Phong:    "phong",
	Standard: "standard",
	Physical: "physical",
	Toon:     "toon",
	Normal:   "normal",
	Depth:    "depth",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unsupported"
}

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{Basic, Lambert, Phong, Standard, Physical, Toon, Normal, Depth}
}

// ParseKind resolves a material name case-insensitively, accepting forms such
// as "phong", "MeshPhongMaterial" and "mesh_phong".
func ParseKind(name string) Kind {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "", "-", "", " ", "").Replace(n)
	n = strings.TrimPrefix(n, "mesh")
	n = strings.TrimSuffix(n, "material")
	for k, s := range kindNames {
		if s == n {
			return k
		}
	}
	return Unsupported
}

// Channel is a property a material kind actually exposes.
type Channel uint16

const (
	ChanColor Channel = 1 << iota
	ChanEmissive
	ChanSpecular
	ChanShininess
	ChanRoughness
	ChanMetalness
	ChanClearcoat
	ChanMap
)

var kindChannels = map[Kind]Channel{
	Basic:    ChanColor | ChanMap,
	Lambert:  ChanColor | ChanEmissive | ChanMap,
	Phong:    ChanColor | ChanEmissive | ChanSpecular | ChanShininess | ChanMap,
	Standard: ChanColor | ChanEmissive | ChanRoughness | ChanMetalness | ChanMap,
	Physical: ChanColor | ChanEmissive | ChanRoughness | ChanMetalness | ChanClearcoat | ChanMap,
	Toon:     ChanColor | ChanEmissive | ChanMap,
}

// Channels returns the set of properties kind k exposes.
func (k Kind) Channels() Channel {
	return kindChannels[k]
}

// Side selects which faces are drawn.
type Side uint8

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// ParseSide maps "front", "back" and "double"; anything else is FrontSide.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "back", "backside":
		return BackSide
	case "double", "doubleside":
		return DoubleSide
	default:
		return FrontSide
	}
}

// Props is the property bag handed to New. Nil fields keep the kind's default.
type Props struct {
	Color     *colorful.Color
	Emissive  *colorful.Color
	Specular  *colorful.Color
	Roughness *float32
	Metalness *float32
	Shininess *float32
	Clearcoat *float32
	Opacity   *float32
	Map       *Texture

	Side        Side
	FlatShading bool
}

// Material is a resolved material. Its fields may be changed afterwards
// through tweak bindings; the kind never changes.
type Material struct {
	Kind Kind

	Color     colorful.Color
	Emissive  colorful.Color
	Specular  colorful.Color
	Roughness float32
	Metalness float32
	Shininess float32
	Clearcoat float32
	Opacity   float32
	Map       *Texture

	Side        Side
	FlatShading bool
}

// ErrUnsupported is wrapped by every *UnsupportedError.
var ErrUnsupported = errors.New("unsupported material")

// UnsupportedError reports a material name with no matching Kind.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("material %q is not supported, using %s", e.Name, Basic)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// Neutral is the color of the fallback material.
var Neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// Default returns the flat material used for unknown names.
func Default() *Material {
	m := defaults(Basic)
	m.Color = Neutral
	return m
}

func defaults(k Kind) *Material {
	return &Material{
		Kind:      k,
		Color:     colorful.Color{R: 1, G: 1, B: 1},
		Specular:  colorful.Color{R: 0x11 / 255.0, G: 0x11 / 255.0, B: 0x11 / 255.0},
		Roughness: 1,
		Shininess: 30,
		Opacity:   1,
	}
}

// New resolves name into a material and applies the properties that kind
// exposes; the rest of p is ignored. An unknown name yields Default together
// with an *UnsupportedError.
func New(name string, p Props) (*Material, error) {
	k := ParseKind(name)
	if k == Unsupported {
		return Default(), &UnsupportedError{Name: name}
	}

	m := defaults(k)
	m.Side = p.Side
	m.FlatShading = p.FlatShading
	if p.Opacity != nil {
		m.Opacity = clamp01(*p.Opacity)
	}
	if m.Has(ChanColor) && p.Color != nil {
		m.Color = *p.Color
	}
	if m.Has(ChanEmissive) && p.Emissive != nil {
		m.Emissive = *p.Emissive
	}
	if m.Has(ChanSpecular) && p.Specular != nil {
		m.Specular = *p.Specular
	}
	if m.Has(ChanShininess) && p.Shininess != nil {
		m.Shininess = max(*p.Shininess, 0)
	}
	if m.Has(ChanRoughness) && p.Roughness != nil {
		m.Roughness = clamp01(*p.Roughness)
	}
	if m.Has(ChanMetalness) && p.Metalness != nil {
		m.Metalness = clamp01(*p.Metalness)
	}
	if m.Has(ChanClearcoat) && p.Clearcoat != nil {
		m.Clearcoat = clamp01(*p.Clearcoat)
	}
	if m.Has(ChanMap) {
		m.Map = p.Map
	}
	return m, nil
}

// Has reports whether the material's kind exposes channel c.
func (m *Material) Has(c Channel) bool {
	return m.Kind.Channels()&c == c
}

func clamp01(x float32) float32 {
	return min(max(x, 0), 1)
}
