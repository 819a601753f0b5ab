package tweak

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Recorder is an in-memory Panel. It backs headless runs and lets tests
// drive controls the way a user would.
type Recorder struct {
	// Sync, when set, wraps every write made through a control.
	Sync SyncFunc

	folders []*RecordedFolder
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AddFolder(name string) Folder {
	f := &RecordedFolder{name: name, panel: r}
	r.folders = append(r.folders, f)
	return f
}

func (r *Recorder) Folders() []Folder {
	out := make([]Folder, len(r.folders))
	for i, f := range r.folders {
		out[i] = f
	}
	return out
}

// Folder returns the first folder with the given name, or nil.
func (r *Recorder) Folder(name string) *RecordedFolder {
	for _, f := range r.folders {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (r *Recorder) sync(fn func()) {
	if r.Sync != nil {
		r.Sync(fn)
		return
	}
	direct(fn)
}

// RecordedFolder is a Folder of a Recorder.
type RecordedFolder struct {
	name     string
	panel    *Recorder
	controls []Control
}

func (f *RecordedFolder) Name() string { return f.name }

func (f *RecordedFolder) AddNumber(label string, target *float32, r Range) Control {
	c := &Number{label: label, target: target, Range: r, panel: f.panel}
	f.controls = append(f.controls, c)
	return c
}

func (f *RecordedFolder) AddColor(label string, target *colorful.Color) Control {
	c := &Color{label: label, target: target, panel: f.panel}
	f.controls = append(f.controls, c)
	return c
}

func (f *RecordedFolder) Controls() []Control { return f.controls }

// Control returns the control with the given label, or nil.
func (f *RecordedFolder) Control(label string) Control {
	for _, c := range f.controls {
		if c.Label() == label {
			return c
		}
	}
	return nil
}

// Labels lists control labels in insertion order.
func (f *RecordedFolder) Labels() []string {
	out := make([]string, len(f.controls))
	for i, c := range f.controls {
		out[i] = c.Label()
	}
	return out
}

// Number is a recorded numeric control.
type Number struct {
	Range

	label     string
	target    *float32
	panel     *Recorder
	listeners Listeners
}

func (n *Number) Label() string      { return n.label }
func (n *Number) OnChange(fn func()) { n.listeners.Add(fn) }

// Value reads the bound field.
func (n *Number) Value() float32 { return *n.target }

// Set writes v, clamped to the range, and notifies listeners.
func (n *Number) Set(v float32) {
	n.panel.sync(func() {
		*n.target = n.Range.Clamp(v)
		n.listeners.Fire()
	})
}

// Color is a recorded color control.
type Color struct {
	label     string
	target    *colorful.Color
	panel     *Recorder
	listeners Listeners
}

func (c *Color) Label() string      { return c.label }
func (c *Color) OnChange(fn func()) { c.listeners.Add(fn) }

// Value reads the bound field.
func (c *Color) Value() colorful.Color { return *c.target }

// Set writes v and notifies listeners.
func (c *Color) Set(v colorful.Color) {
	c.panel.sync(func() {
		*c.target = v.Clamped()
		c.listeners.Fire()
	})
}

// CountFolders returns how many folders of p have names starting with prefix.
func CountFolders(p Panel, prefix string) int {
	n := 0
	for _, f := range p.Folders() {
		if strings.HasPrefix(f.Name(), prefix) {
			n++
		}
	}
	return n
}
