// Package ui is the fyne front end: a live viewport next to the tweak panel.
package ui

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/user/sceneforge/internal/anim"
	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/config"
	"github.com/user/sceneforge/internal/demo"
	"github.com/user/sceneforge/internal/engine"
	"github.com/user/sceneforge/internal/material"
)

// logFilter drops the GLFW "Invalid scancode" noise fyne forwards to the
// standard logger for unmapped keys.
type logFilter struct {
	original io.Writer
}

func (f *logFilter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), "Invalid scancode") {
		return len(p), nil
	}
	return f.original.Write(p)
}

// Builder populates the demo shown by Run.
type Builder func(svc compose.Services, opts demo.Options) (*demo.Demo, error)

// Run opens the window, builds the demo against the panel and animates it
// until the window closes. It returns the render error that stopped the
// loop, if any.
func Run(build Builder, settings config.Settings, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	original := log.Writer()
	log.SetOutput(&logFilter{original: original})
	defer log.SetOutput(original)

	a := app.New()
	w := a.NewWindow("sceneforge")

	panel := NewPanel()
	svc := compose.Services{
		Panel:    panel,
		Textures: material.NewTextureLoader(settings.AssetDir),
		Logger:   logger,
	}
	d, err := build(svc, demo.OptionsFromSettings(settings))
	if err != nil {
		return err
	}

	v := newView(d, settings, logger)
	panel.Sync = v.loop.Do

	status := widget.NewLabel("idle")
	// onFrame runs inside the loop, so it must not call back into it.
	v.onFrame = func(fps float64, err error) {
		if err != nil {
			status.SetText(fmt.Sprintf("stopped: %v", err))
			return
		}
		status.SetText(fmt.Sprintf("running, %.1f fps", fps))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pause := widget.NewButton("Pause", nil)
	pause.OnTapped = func() {
		if v.loop.Status() == anim.Running {
			v.loop.Stop()
			pause.SetText("Resume")
			status.SetText("idle")
			return
		}
		v.loop.Start(ctx)
		pause.SetText("Pause")
	}

	outPath := widget.NewEntry()
	outPath.SetText(d.Name + ".png")
	save := widget.NewButton("Save PNG", func() {
		path := outPath.Text
		go func() {
			if err := v.save(path); err != nil {
				status.SetText(fmt.Sprintf("save: %v", err))
				return
			}
			status.SetText("saved " + path)
		}()
	})

	controls := container.NewVBox(
		widget.NewLabel(d.Name),
		container.NewHBox(pause, save),
		outPath,
		status,
		panel.Object(),
	)
	split := container.NewHSplit(container.NewVScroll(controls), v.viewport)
	split.SetOffset(0.3)
	w.SetContent(split)

	display := displaySize(settings.Width, settings.Height,
		float32(settings.MaxDisplayWidth), float32(settings.MaxDisplayHeight))
	w.Resize(fyne.NewSize(display.Width/0.7, display.Height))

	a.Lifecycle().SetOnStarted(func() {
		logger.Info("start animation", "demo", d.Name, "interval", settings.FrameInterval())
		v.loop.Start(ctx)
	})
	w.SetOnClosed(func() {
		v.viewport.Close()
		v.loop.Stop()
	})
	w.ShowAndRun()
	return v.loop.Err()
}

// view renders a demo into a double buffer shown by a Viewport.
type view struct {
	demo     *demo.Demo
	loop     *anim.Loop[demo.State]
	viewport *Viewport
	logger   *slog.Logger
	maxW     int
	maxH     int

	onFrame func(fps float64, err error)

	mu    sync.Mutex
	cfg   engine.RenderConfig
	back  *image.RGBA
	front *image.RGBA
	last  time.Time
}

func newView(d *demo.Demo, settings config.Settings, logger *slog.Logger) *view {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := engine.ConfigFromSettings(settings)
	v := &view{
		demo:   d,
		logger: logger,
		maxW:   settings.Width,
		maxH:   settings.Height,
		cfg:    cfg,
		front:  image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}
	v.viewport = NewViewport(v.front, settings.ResizeQuiet())
	v.viewport.OnResize = v.resize
	v.loop = d.Loop(v.render, settings.FrameInterval())
	return v
}

// render runs inside the loop, after the frame state was applied.
func (v *view) render() error {
	v.mu.Lock()
	cfg := v.cfg
	back := v.back
	v.mu.Unlock()
	if back == nil || back.Rect.Dx() != cfg.Width || back.Rect.Dy() != cfg.Height {
		back = image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	}

	err := engine.RenderInto(context.Background(), v.demo.Scene, v.demo.Camera, cfg, back, nil)
	if err != nil {
		v.logger.Error("render frame", "demo", v.demo.Name, "err", err)
		if v.onFrame != nil {
			v.onFrame(0, err)
		}
		return err
	}

	v.mu.Lock()
	v.back, v.front = v.front, back
	now := time.Now()
	var fps float64
	if !v.last.IsZero() {
		fps = 1 / now.Sub(v.last).Seconds()
	}
	v.last = now
	front := v.front
	v.mu.Unlock()

	v.viewport.Show(front)
	if v.onFrame != nil {
		v.onFrame(fps, nil)
	}
	return nil
}

// resize applies a settled viewport size: one aspect update for the camera
// and one render size update, serialized with frames.
func (v *view) resize(size fyne.Size) {
	w, h := fitRender(size, v.maxW, v.maxH)
	v.loop.Do(func() {
		v.demo.Camera.Camera.SetAspect(w, h)
		v.mu.Lock()
		v.cfg.Width, v.cfg.Height = w, h
		v.mu.Unlock()
	})
	v.logger.Debug("resize viewport", "width", size.Width, "height", size.Height, "render", fmt.Sprintf("%dx%d", w, h))
}

// save writes the last completed frame.
func (v *view) save(path string) error {
	v.mu.Lock()
	src := v.front
	img := image.NewRGBA(src.Rect)
	copy(img.Pix, src.Pix)
	v.mu.Unlock()
	return engine.SavePNG(path, img)
}
