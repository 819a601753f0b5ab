// Package tweak defines live debug panels: folders of numeric and color
// controls that write through to the fields they are bound to.
package tweak

import (
	math "github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
)

// Range bounds a numeric control. A zero Step means continuous.
type Range struct {
	Min, Max, Step float32
}

// Clamp snaps v to a multiple of Step and limits it to the range.
func (r Range) Clamp(v float32) float32 {
	if r.Step > 0 {
		v = math.Floor(v/r.Step+0.5) * r.Step
	}
	if r.Max > r.Min {
		v = min(max(v, r.Min), r.Max)
	}
	return v
}

// Control is a single bound widget.
type Control interface {
	Label() string
	// OnChange registers fn to run after every write through the control.
	OnChange(fn func())
}

// Folder groups controls under a name.
type Folder interface {
	Name() string
	AddNumber(label string, target *float32, r Range) Control
	AddColor(label string, target *colorful.Color) Control
	Controls() []Control
}

// Panel owns folders.
type Panel interface {
	AddFolder(name string) Folder
	Folders() []Folder
}

// SyncFunc runs fn while nothing else reads the bound targets. Panels call
// it around every write.
type SyncFunc func(fn func())

func direct(fn func()) { fn() }

// Listeners is the change callback list shared by control implementations.
type Listeners struct {
	fns []func()
}

// Add registers fn. Nil is ignored.
func (l *Listeners) Add(fn func()) {
	if fn != nil {
		l.fns = append(l.fns, fn)
	}
}

// Fire runs every registered listener in registration order.
func (l *Listeners) Fire() {
	for _, fn := range l.fns {
		fn()
	}
}
