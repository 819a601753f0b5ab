// Package demo assembles the bundled scenes and their animations.
package demo

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/anim"
	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/config"
	"github.com/user/sceneforge/internal/scene"
)

// ErrUnknownDemo is returned by Build for names not in the registry.
var ErrUnknownDemo = errors.New("unknown demo")

// Options carry the settings a scene needs at build time.
type Options struct {
	// Aspect is the initial camera aspect ratio.
	Aspect float32
	// ShadowMapSize is the default point light shadow resolution.
	ShadowMapSize int
}

// OptionsFromSettings derives build options from runtime settings.
func OptionsFromSettings(s config.Settings) Options {
	o := Options{ShadowMapSize: s.ShadowMapSize}
	if s.Width > 0 && s.Height > 0 {
		o.Aspect = float32(s.Width) / float32(s.Height)
	}
	return o
}

func (o Options) aspect() float32 {
	if o.Aspect <= 0 {
		return 16.0 / 9.0
	}
	return o.Aspect
}

// Demo is a populated scene, the camera to render it from and the
// animation that drives it.
type Demo struct {
	Name   string
	Scene  *scene.Scene
	Camera *scene.Node
	// Rig is set when the camera sits inside a yaw/pitch rig.
	Rig *compose.Rig

	animator *animator
}

// Loop returns an idle animation loop for the demo. render is called after
// every frame and may be nil.
func (d *Demo) Loop(render func() error, interval time.Duration) *anim.Loop[State] {
	a := d.animator
	if a == nil {
		a = &animator{}
	}
	l := anim.NewLoop(State{}, a.step, a.apply, render)
	l.Interval = interval
	return l
}

// Builder populates a demo.
type Builder func(svc compose.Services, opts Options) (*Demo, error)

var registry = map[string]Builder{
	"static":  buildStatic,
	"lit":     buildLit,
	"panel":   buildPanel,
	"factory": buildFactory,
	"grid":    buildGrid,
}

// Names lists the registered demos in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build populates the demo registered under name.
func Build(name string, svc compose.Services, opts Options) (*Demo, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("build demo %q: %w", name, ErrUnknownDemo)
	}
	d, err := b(svc, opts)
	if err != nil {
		return nil, fmt.Errorf("build demo %q: %w", name, err)
	}
	return d, nil
}

// State is the animation state of a demo.
type State struct {
	// Frame counts the frames stepped so far.
	Frame int
	// Time is the elapsed time in seconds of the last frame.
	Time float64
	// Heights holds the grid cell offsets, in cell order.
	Heights []float64
}

// Spin rotates a named node by Rate radians every frame.
type Spin struct {
	Name string     `yaml:"name"`
	Rate mgl32.Vec3 `yaml:"rate"`
}

type spinTarget struct {
	node *scene.Node
	rate mgl32.Vec3
}

// animator advances the spins and the height-field of a demo.
type animator struct {
	spins []spinTarget
	grid  *Grid
	cells []*scene.Node

	applied int
}

func newAnimator(sc *scene.Scene, spins []Spin) (*animator, error) {
	a := &animator{}
	for _, s := range spins {
		n := sc.FindByName(s.Name)
		if n == nil {
			return nil, fmt.Errorf("spin %q: no such node", s.Name)
		}
		a.spins = append(a.spins, spinTarget{node: n, rate: s.Rate})
	}
	return a, nil
}

// step is pure: it only derives the next state.
func (a *animator) step(prev State, elapsed float64) State {
	next := State{Frame: prev.Frame + 1, Time: elapsed}
	if a.grid != nil {
		next.Heights = a.grid.Heights(elapsed)
	}
	return next
}

// apply writes s to the scene. Spins advance by the frames elapsed since
// the last applied state, so rotations set from a panel are kept.
func (a *animator) apply(s State) {
	frames := float32(s.Frame - a.applied)
	a.applied = s.Frame
	for _, sp := range a.spins {
		sp.node.Rotation = sp.node.Rotation.Add(sp.rate.Mul(frames))
	}
	for i, h := range s.Heights {
		if i < len(a.cells) {
			a.cells[i].Position[1] = float32(h)
		}
	}
}
