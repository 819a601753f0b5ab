package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/user/sceneforge/internal/scene"
	"github.com/user/sceneforge/internal/tweak"
)

// Panel is a tweak.Panel drawn as an accordion, one item per folder.
type Panel struct {
	// Sync wraps every write made through a control. The app points it at
	// the animation loop so edits never race a frame.
	Sync tweak.SyncFunc

	accordion *widget.Accordion
	folders   []*panelFolder
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	return &Panel{accordion: widget.NewAccordion()}
}

// Object is the canvas object to place in a window.
func (p *Panel) Object() fyne.CanvasObject { return p.accordion }

func (p *Panel) AddFolder(name string) tweak.Folder {
	f := &panelFolder{name: name, panel: p, box: container.NewVBox()}
	p.folders = append(p.folders, f)
	p.accordion.Append(widget.NewAccordionItem(name, f.box))
	return f
}

func (p *Panel) Folders() []tweak.Folder {
	out := make([]tweak.Folder, len(p.folders))
	for i, f := range p.folders {
		out[i] = f
	}
	return out
}

func (p *Panel) sync(fn func()) {
	if p.Sync != nil {
		p.Sync(fn)
		return
	}
	fn()
}

type panelFolder struct {
	name     string
	panel    *Panel
	box      *fyne.Container
	controls []tweak.Control
}

func (f *panelFolder) Name() string { return f.name }

func (f *panelFolder) Controls() []tweak.Control { return f.controls }

func (f *panelFolder) AddNumber(label string, target *float32, r tweak.Range) tweak.Control {
	s := widget.NewSlider(float64(r.Min), float64(r.Max))
	s.Step = float64(r.Step)
	s.Value = float64(r.Clamp(*target))
	c := &numberControl{
		label:  label,
		target: target,
		rng:    r,
		panel:  f.panel,
		slider: s,
		value:  widget.NewLabel(formatNumber(*target)),
	}
	s.OnChanged = func(v float64) { c.write(float32(v)) }

	f.controls = append(f.controls, c)
	f.box.Add(container.NewBorder(nil, nil, widget.NewLabel(label), c.value, s))
	return c
}

func (f *panelFolder) AddColor(label string, target *colorful.Color) tweak.Control {
	c := &colorControl{
		label:  label,
		target: target,
		panel:  f.panel,
		entry:  widget.NewEntry(),
		swatch: canvas.NewRectangle(toNRGBA(*target)),
	}
	c.swatch.SetMinSize(fyne.NewSize(24, 24))
	c.entry.SetText(target.Hex())
	c.entry.Validator = func(s string) error {
		_, err := scene.ParseColor(s)
		return err
	}
	c.entry.OnSubmitted = func(s string) {
		if v, err := scene.ParseColor(s); err == nil {
			c.write(v)
		}
	}

	f.controls = append(f.controls, c)
	f.box.Add(container.NewBorder(nil, nil, widget.NewLabel(label), c.swatch, c.entry))
	return c
}

// numberControl is a slider bound to a float32.
type numberControl struct {
	label  string
	target *float32
	rng    tweak.Range
	panel  *Panel

	slider    *widget.Slider
	value     *widget.Label
	listeners tweak.Listeners
}

func (c *numberControl) Label() string      { return c.label }
func (c *numberControl) OnChange(fn func()) { c.listeners.Add(fn) }

// Value reads the bound target.
func (c *numberControl) Value() float32 {
	var v float32
	c.panel.sync(func() { v = *c.target })
	return v
}

// Set moves the slider to v as if the user had dragged it.
func (c *numberControl) Set(v float32) {
	v = c.rng.Clamp(v)
	c.slider.Value = float64(v)
	c.slider.Refresh()
	c.write(v)
}

func (c *numberControl) write(v float32) {
	v = c.rng.Clamp(v)
	c.panel.sync(func() {
		*c.target = v
		c.listeners.Fire()
	})
	c.value.SetText(formatNumber(v))
}

// colorControl is a hex entry bound to a color.
type colorControl struct {
	label  string
	target *colorful.Color
	panel  *Panel

	entry     *widget.Entry
	swatch    *canvas.Rectangle
	listeners tweak.Listeners
}

func (c *colorControl) Label() string      { return c.label }
func (c *colorControl) OnChange(fn func()) { c.listeners.Add(fn) }

// Set writes v and mirrors it into the entry.
func (c *colorControl) Set(v colorful.Color) {
	c.entry.SetText(v.Hex())
	c.write(v)
}

func (c *colorControl) write(v colorful.Color) {
	c.panel.sync(func() {
		*c.target = v
		c.listeners.Fire()
	})
	c.swatch.FillColor = toNRGBA(v)
	c.swatch.Refresh()
}

func formatNumber(v float32) string {
	return fmt.Sprintf("%.3g", v)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
