package compose

import (
	"errors"
	"fmt"

	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/scene"
	"github.com/user/sceneforge/internal/tweak"
)

// GeometryConfig names a shape and its ordered constructor arguments.
type GeometryConfig struct {
	Type string    `yaml:"type"`
	Args []float32 `yaml:"args,omitempty"`
}

// TextureConfig describes a texture map.
type TextureConfig struct {
	Path string `yaml:"path"`
	// Wrap is "repeat", "mirror" or "clamp" (default) for both axes.
	Wrap string `yaml:"wrap,omitempty"`
	// Repeat is the repeat count along u and v; zero means 1.
	Repeat [2]float32 `yaml:"repeat,omitempty"`
	// Filter is "linear" (default) or "nearest".
	Filter string `yaml:"filter,omitempty"`
}

// MaterialConfig is a material name plus its property bag. Nil fields keep
// the material kind's defaults and are not exposed on the panel.
type MaterialConfig struct {
	Type        string          `yaml:"type"`
	Color       *scene.HexColor `yaml:"color,omitempty"`
	Emissive    *scene.HexColor `yaml:"emissive,omitempty"`
	Specular    *scene.HexColor `yaml:"specular,omitempty"`
	Roughness   *float32        `yaml:"roughness,omitempty"`
	Metalness   *float32        `yaml:"metalness,omitempty"`
	Shininess   *float32        `yaml:"shininess,omitempty"`
	Clearcoat   *float32        `yaml:"clearcoat,omitempty"`
	Opacity     *float32        `yaml:"opacity,omitempty"`
	Side        string          `yaml:"side,omitempty"`
	FlatShading bool            `yaml:"flatShading,omitempty"`
	Map         *TextureConfig  `yaml:"map,omitempty"`
}

// ObjectConfig describes one mesh.
type ObjectConfig struct {
	Name     string         `yaml:"name"`
	Geometry GeometryConfig `yaml:"geometry"`
	Material MaterialConfig `yaml:"material"`
	Position mgl32.Vec3     `yaml:"position,omitempty"`
	// Rotation is in radians.
	Rotation mgl32.Vec3 `yaml:"rotation,omitempty"`
	// Scale of zero means 1 on every axis.
	Scale mgl32.Vec3 `yaml:"scale,omitempty"`
	// CastShadow and ReceiveShadow default to true.
	CastShadow    *bool `yaml:"castShadow,omitempty"`
	ReceiveShadow *bool `yaml:"receiveShadow,omitempty"`
	// Tweak adds a panel folder for the object.
	Tweak bool `yaml:"tweak,omitempty"`
}

var (
	unitRange     = tweak.Range{Min: 0, Max: 1, Step: 0.01}
	positionRange = tweak.Range{Min: -20, Max: 20, Step: 0.01}
	angleRange    = tweak.Range{Min: -math.Pi, Max: math.Pi, Step: 0.01}
)

// ConfigureObject builds a mesh from cfg and adds it under the scene root.
// The returned node is always usable; a non-nil error reports unsupported
// geometry or material names that were replaced by defaults, or a texture
// that could not be loaded.
func ConfigureObject(svc Services, sc *scene.Scene, cfg ObjectConfig) (*scene.Node, error) {
	var warnings []error

	g, err := geometry.New(cfg.Geometry.Type, cfg.Geometry.Args...)
	if err != nil {
		warnings = append(warnings, err)
	}
	m, err := newMaterial(svc, cfg.Material)
	if err != nil {
		warnings = append(warnings, err)
	}

	n := scene.NewMesh(cfg.Name, g, m)
	n.Position = cfg.Position
	n.Rotation = cfg.Rotation
	if cfg.Scale != (mgl32.Vec3{}) {
		n.Scale = cfg.Scale
	}
	n.CastShadow = boolOr(cfg.CastShadow, true)
	n.ReceiveShadow = boolOr(cfg.ReceiveShadow, true)
	sc.Add(n)

	if p := svc.panel(cfg.Tweak); p != nil {
		name := cfg.Name
		if name == "" {
			name = fmt.Sprintf("Object %d", tweak.CountFolders(p, "Object ")+1)
		}
		bindObject(p.AddFolder(name), n, cfg.Material)
	}

	err = errors.Join(warnings...)
	for _, w := range warnings {
		svc.log().Warn("configure object", "name", cfg.Name, "warning", w)
	}
	return n, err
}

func newMaterial(svc Services, cfg MaterialConfig) (*material.Material, error) {
	props := material.Props{
		Roughness:   cfg.Roughness,
		Metalness:   cfg.Metalness,
		Shininess:   cfg.Shininess,
		Clearcoat:   cfg.Clearcoat,
		Opacity:     cfg.Opacity,
		Side:        material.ParseSide(cfg.Side),
		FlatShading: cfg.FlatShading,
	}
	if cfg.Color != nil {
		props.Color = &cfg.Color.Color
	}
	if cfg.Emissive != nil {
		props.Emissive = &cfg.Emissive.Color
	}
	if cfg.Specular != nil {
		props.Specular = &cfg.Specular.Color
	}

	var warnings []error
	if cfg.Map != nil && svc.Textures != nil {
		wrap := material.ParseWrap(cfg.Map.Wrap)
		tex, err := svc.Textures.Load(cfg.Map.Path, material.TextureOptions{
			WrapS:   wrap,
			WrapT:   wrap,
			RepeatX: cfg.Map.Repeat[0],
			RepeatY: cfg.Map.Repeat[1],
			Filter:  material.ParseFilter(cfg.Map.Filter),
		})
		if err != nil {
			warnings = append(warnings, err)
		} else {
			props.Map = tex
		}
	}

	m, err := material.New(cfg.Type, props)
	if err != nil {
		warnings = append(warnings, err)
	}
	return m, errors.Join(warnings...)
}

// bindObject exposes transform sliders and the material channels that both
// exist on the resolved material and were given in the descriptor.
func bindObject(f tweak.Folder, n *scene.Node, cfg MaterialConfig) {
	f.AddNumber("position.x", &n.Position[0], positionRange)
	f.AddNumber("position.y", &n.Position[1], positionRange)
	f.AddNumber("position.z", &n.Position[2], positionRange)
	f.AddNumber("rotation.x", &n.Rotation[0], angleRange)
	f.AddNumber("rotation.y", &n.Rotation[1], angleRange)
	f.AddNumber("rotation.z", &n.Rotation[2], angleRange)

	m := n.Mesh.Material
	if m.Has(material.ChanColor) && cfg.Color != nil {
		f.AddColor("color", &m.Color)
	}
	if m.Has(material.ChanEmissive) && cfg.Emissive != nil {
		f.AddColor("emissive", &m.Emissive)
	}
	if m.Has(material.ChanSpecular) && cfg.Specular != nil {
		f.AddColor("specular", &m.Specular)
	}
	if m.Has(material.ChanShininess) && cfg.Shininess != nil {
		f.AddNumber("shininess", &m.Shininess, tweak.Range{Min: 0, Max: 200, Step: 1})
	}
	if m.Has(material.ChanRoughness) && cfg.Roughness != nil {
		f.AddNumber("roughness", &m.Roughness, unitRange)
	}
	if m.Has(material.ChanMetalness) && cfg.Metalness != nil {
		f.AddNumber("metalness", &m.Metalness, unitRange)
	}
	if m.Has(material.ChanClearcoat) && cfg.Clearcoat != nil {
		f.AddNumber("clearcoat", &m.Clearcoat, unitRange)
	}
}
