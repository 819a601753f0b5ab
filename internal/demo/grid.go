package demo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/scene"
)

// GridConfig describes an animated height-field of unit boxes. Unset
// fields take the defaults noted per field; an explicit zero wave
// parameter is kept.
type GridConfig struct {
	// Size is the number of cells per side; default 16.
	Size int `yaml:"size,omitempty"`
	// Amplitude of the wave; default 1.
	Amplitude *float64 `yaml:"amplitude,omitempty"`
	// Frequency in radians per second; default 1.
	Frequency *float64 `yaml:"frequency,omitempty"`
	// Wavelength scales the per-cell phase; default 0.1.
	Wavelength *float64               `yaml:"wavelength,omitempty"`
	Material   compose.MaterialConfig `yaml:"material"`
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func (c GridConfig) withDefaults() GridConfig {
	if c.Size <= 0 {
		c.Size = 16
	}
	if c.Material.Type == "" {
		c.Material.Type = "standard"
	}
	return c
}

// Cell is one lattice position. Rank is its 1-based creation index.
type Cell struct {
	X, Y int
	Rank int
	Name string
}

// CellName is the node name of the box at (x, y).
func CellName(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// Grid is a square lattice centered on the origin. Cells are ordered by X
// and then Y, both running over [-Size/2, Size-Size/2).
type Grid struct {
	Config GridConfig
	Cells  []Cell

	// Resolved wave parameters.
	Amplitude, Frequency, Wavelength float64
}

// NewGrid lays out the lattice for cfg.
func NewGrid(cfg GridConfig) *Grid {
	cfg = cfg.withDefaults()
	g := &Grid{
		Config:     cfg,
		Cells:      make([]Cell, 0, cfg.Size*cfg.Size),
		Amplitude:  orDefault(cfg.Amplitude, 1),
		Frequency:  orDefault(cfg.Frequency, 1),
		Wavelength: orDefault(cfg.Wavelength, 0.1),
	}
	half := cfg.Size / 2
	for x := -half; x < cfg.Size-half; x++ {
		for y := -half; y < cfg.Size-half; y++ {
			g.Cells = append(g.Cells, Cell{X: x, Y: y, Rank: len(g.Cells) + 1, Name: CellName(x, y)})
		}
	}
	return g
}

// Offset is the vertical offset of c at time t seconds.
func (g *Grid) Offset(c Cell, t float64) float64 {
	i := float64(c.Rank)
	r := float64(len(g.Cells)) - i + 1
	phase := (float64(c.X) + r/16) * (float64(c.Y) + i*-0.4)
	return g.Amplitude * math.Sin(t*g.Frequency+phase*g.Wavelength)
}

// Heights returns the offsets of all cells at time t, in cell order.
func (g *Grid) Heights(t float64) []float64 {
	out := make([]float64, len(g.Cells))
	for k, c := range g.Cells {
		out[k] = g.Offset(c, t)
	}
	return out
}

// Populate adds one unit box per cell at its t=0 height and returns the
// boxes in cell order.
func (g *Grid) Populate(svc compose.Services, sc *scene.Scene) ([]*scene.Node, error) {
	nodes := make([]*scene.Node, len(g.Cells))
	var warn error
	for k, c := range g.Cells {
		n, err := compose.ConfigureObject(svc, sc, compose.ObjectConfig{
			Name:     c.Name,
			Geometry: compose.GeometryConfig{Type: "box", Args: []float32{1, 1, 1}},
			Material: g.Config.Material,
			Position: mgl32.Vec3{float32(c.X), float32(g.Offset(c, 0)), float32(c.Y)},
		})
		// Every cell shares one material config, so one warning covers all.
		if err != nil && warn == nil {
			warn = err
		}
		nodes[k] = n
	}
	if warn != nil {
		return nodes, fmt.Errorf("grid cells: %w", warn)
	}
	return nodes, nil
}

func gridScene() *File {
	return &File{
		Name: "grid",
		Camera: CameraConfig{
			FOV: 55,
			Rig: &compose.RigConfig{
				Position: mgl32.Vec3{0, 0, 26},
				Rotation: mgl32.Vec3{-0.6, 0.785, 0},
			},
		},
		Fog: &compose.FogConfig{Color: *scene.Hex(0x0b0b14), Density: ptr[float32](0.02)},
		Lights: &compose.LightsConfig{
			Ambient: compose.AmbientConfig{Intensity: 0.25},
			Points: []compose.PointLightConfig{
				{Position: mgl32.Vec3{0, 10, 0}, Intensity: ptr[float32](1.5), Distance: 40},
				{Position: mgl32.Vec3{-8, 4, 8}, Color: scene.Hex(0x88aaff), Intensity: ptr[float32](0.8), Distance: 30},
			},
		},
		Grid: &GridConfig{
			Size: 16,
			Material: compose.MaterialConfig{
				Type:      "standard",
				Color:     scene.Hex(0x3a86ff),
				Roughness: ptr[float32](0.4),
				Metalness: ptr[float32](0.1),
			},
		},
	}
}

var buildGrid = builder(gridScene())
