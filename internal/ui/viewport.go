package ui

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/user/sceneforge/internal/debounce"
)

// Viewport shows rendered frames. Its size is read on demand; a burst of
// resizes collapses into one call of OnResize after the quiet period.
type Viewport struct {
	widget.BaseWidget

	// OnResize receives the settled size.
	OnResize func(fyne.Size)

	image    *canvas.Image
	debounce *debounce.Debouncer
}

// NewViewport shows img scaled to fit.
func NewViewport(img image.Image, quiet time.Duration) *Viewport {
	v := &Viewport{
		image:    canvas.NewImageFromImage(img),
		debounce: debounce.New(quiet),
	}
	v.image.FillMode = canvas.ImageFillContain
	v.image.ScaleMode = canvas.ImageScaleFastest
	v.ExtendBaseWidget(v)
	return v
}

func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.image)
}

// Resize lays out the widget now and schedules OnResize.
func (v *Viewport) Resize(size fyne.Size) {
	if size == v.Size() {
		return
	}
	v.BaseWidget.Resize(size)
	v.debounce.Trigger(func() {
		if v.OnResize != nil {
			v.OnResize(v.Size())
		}
	})
}

// SetMinSize bounds how small layouts may shrink the viewport.
func (v *Viewport) SetMinSize(size fyne.Size) {
	v.image.SetMinSize(size)
	v.Refresh()
}

// Show swaps in a new frame.
func (v *Viewport) Show(img image.Image) {
	v.image.Image = img
	v.image.Refresh()
}

// Close cancels a pending resize.
func (v *Viewport) Close() {
	v.debounce.Stop()
}

// fitRender returns the render resolution for a viewport of the given size:
// the viewport aspect ratio, no larger than maxW x maxH.
func fitRender(size fyne.Size, maxW, maxH int) (int, int) {
	if size.Width <= 0 || size.Height <= 0 || maxW <= 0 || maxH <= 0 {
		return maxW, maxH
	}
	aspect := size.Width / size.Height
	w := float32(maxW)
	h := w / aspect
	if h > float32(maxH) {
		h = float32(maxH)
		w = h * aspect
	}
	return max(int(w+0.5), 1), max(int(h+0.5), 1)
}

// displaySize caps the on-screen preview the way the render is capped.
func displaySize(w, h int, maxW, maxH float32) fyne.Size {
	aspect := float32(w) / float32(h)
	dw := maxW
	dh := dw / aspect
	if dh > maxH {
		dh = maxH
		dw = dh * aspect
	}
	return fyne.NewSize(dw, dh)
}
