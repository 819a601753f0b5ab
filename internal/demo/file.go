package demo

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/scene"
)

// CameraConfig describes the perspective camera of a scene file.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees; 0 means 55.
	FOV float32 `yaml:"fov,omitempty"`
	// Near and Far default to 0.1 and 1000.
	Near float32 `yaml:"near,omitempty"`
	Far  float32 `yaml:"far,omitempty"`
	// Position places a camera without a rig.
	Position mgl32.Vec3 `yaml:"position,omitempty"`
	// Rig nests the camera in yaw/pitch groups; it overrides Position.
	Rig *compose.RigConfig `yaml:"rig,omitempty"`
	// LookAt turns the camera toward a world point after placement.
	LookAt *mgl32.Vec3 `yaml:"lookAt,omitempty"`
}

// File is a declarative scene description.
type File struct {
	Name       string                 `yaml:"name"`
	Camera     CameraConfig           `yaml:"camera"`
	Background *scene.HexColor        `yaml:"background,omitempty"`
	Fog        *compose.FogConfig     `yaml:"fog,omitempty"`
	Lights     *compose.LightsConfig  `yaml:"lights,omitempty"`
	Objects    []compose.ObjectConfig `yaml:"objects,omitempty"`
	Spins      []Spin                 `yaml:"spins,omitempty"`
	Grid       *GridConfig            `yaml:"grid,omitempty"`
}

// Load reads a scene file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode scene file %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f as YAML.
func Save(path string, f *File) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode scene file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode scene file: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	return nil
}

// FromFile loads a scene file and builds it.
func FromFile(path string, svc compose.Services, opts Options) (*Demo, []error, error) {
	f, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	return f.Build(svc, opts)
}

// Build populates a scene from f. Unsupported geometry or material names
// and missing textures do not fail the build; they are returned as
// warnings next to the demo.
func (f *File) Build(svc compose.Services, opts Options) (*Demo, []error, error) {
	sc := scene.New()
	var warnings []error

	if f.Background != nil {
		sc.Background = f.Background.Color
	}
	if f.Fog != nil {
		compose.ConfigureFog(svc, sc, *f.Fog)
	}
	if f.Lights != nil {
		lights := *f.Lights
		if lights.ShadowMapSize == 0 {
			lights.ShadowMapSize = opts.ShadowMapSize
		}
		compose.ConfigureLights(svc, sc, lights)
	}
	for _, o := range f.Objects {
		if _, err := compose.ConfigureObject(svc, sc, o); err != nil {
			warnings = append(warnings, err)
		}
	}

	var grid *Grid
	var cells []*scene.Node
	if f.Grid != nil {
		grid = NewGrid(*f.Grid)
		var err error
		cells, err = grid.Populate(svc, sc)
		if err != nil {
			warnings = append(warnings, err)
		}
	}

	cam, rig := f.Camera.build(svc, sc, opts)

	a, err := newAnimator(sc, f.Spins)
	if err != nil {
		return nil, warnings, fmt.Errorf("build %s: %w", f.Name, err)
	}
	a.grid = grid
	a.cells = cells

	name := f.Name
	if name == "" {
		name = "scene"
	}
	return &Demo{Name: name, Scene: sc, Camera: cam, Rig: rig, animator: a}, warnings, nil
}

func (c CameraConfig) build(svc compose.Services, sc *scene.Scene, opts Options) (*scene.Node, *compose.Rig) {
	fov, near, far := c.FOV, c.Near, c.Far
	if fov <= 0 {
		fov = 55
	}
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = 1000
	}
	cam := scene.NewCamera("camera", fov, opts.aspect(), near, far)

	var rig *compose.Rig
	if c.Rig != nil {
		rig = compose.ConfigureCameraRig(svc, sc, cam, *c.Rig)
	} else {
		cam.Position = c.Position
		sc.Add(cam)
	}
	if c.LookAt != nil {
		cam.LookAt(*c.LookAt)
	}
	return cam, rig
}

// builder adapts a static scene description to the registry. Build
// warnings are already logged by the configurators.
func builder(f *File) Builder {
	return func(svc compose.Services, opts Options) (*Demo, error) {
		d, _, err := f.Build(svc, opts)
		return d, err
	}
}
