package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/config"
	"github.com/user/sceneforge/internal/demo"
	"github.com/user/sceneforge/internal/engine"
	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/tweak"
	"github.com/user/sceneforge/internal/ui"
)

func main() {
	log.Println("sceneforge: starting main()")

	demoName := flag.String("demo", "static", "demo to show: "+strings.Join(demo.Names(), ", "))
	scenePath := flag.String("scene", "", "YAML scene file; overrides -demo")
	configPath := flag.String("config", "", "TOML settings file")
	mode := flag.String("mode", "preview", "settings preset: preview or final")
	headless := flag.Bool("headless", false, "render without UI and save PNG")
	output := flag.String("out", "output.png", "output PNG file for headless render")
	frames := flag.Int("frames", 1, "frames to advance before the headless snapshot")
	list := flag.Bool("list", false, "list demos and exit")
	verbose := flag.Bool("v", false, "debug logging")

	flag.Parse()
	log.Printf("flags: demo=%s scene=%s config=%s mode=%s headless=%v out=%s frames=%d\n",
		*demoName, *scenePath, *configPath, *mode, *headless, *output, *frames)

	if *list {
		for _, name := range demo.Names() {
			fmt.Println(name)
		}
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, err := loadSettings(*configPath, *mode)
	if err != nil {
		log.Println("settings error:", err)
		os.Exit(1)
	}

	build := builder(*demoName, *scenePath, logger)

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := renderHeadless(ctx, build, settings, *frames, *output, logger); err != nil {
			log.Println("headless render error:", err)
			os.Exit(1)
		}
		return
	}

	if err := ui.Run(build, settings, logger); err != nil {
		log.Println("ui error:", err)
		os.Exit(1)
	}
}

// loadSettings starts from the mode preset; a config file, when given,
// overrides the keys it sets.
func loadSettings(path, mode string) (config.Settings, error) {
	base := config.ForMode(mode)
	if path == "" {
		return base, base.Validate()
	}
	return config.LoadOver(path, base)
}

func builder(name, scenePath string, logger *slog.Logger) ui.Builder {
	if scenePath == "" {
		return func(svc compose.Services, opts demo.Options) (*demo.Demo, error) {
			return demo.Build(name, svc, opts)
		}
	}
	return func(svc compose.Services, opts demo.Options) (*demo.Demo, error) {
		d, warnings, err := demo.FromFile(scenePath, svc, opts)
		if err != nil {
			return nil, err
		}
		if len(warnings) > 0 {
			logger.Warn("scene loaded with warnings", "path", scenePath, "count", len(warnings), "err", errors.Join(warnings...))
		}
		return d, nil
	}
}

// renderHeadless builds against an in-memory panel, advances the
// animation and saves the last frame.
func renderHeadless(ctx context.Context, build ui.Builder, settings config.Settings, frames int, outPath string, logger *slog.Logger) error {
	svc := compose.Services{
		Panel:    tweak.NewRecorder(),
		Textures: material.NewTextureLoader(settings.AssetDir),
		Logger:   logger,
	}
	d, err := build(svc, demo.OptionsFromSettings(settings))
	if err != nil {
		return err
	}

	cfg := engine.ConfigFromSettings(settings)
	var last error
	frame := 0
	loop := d.Loop(func() error {
		frame++
		if frame < frames {
			return nil
		}
		img, err := engine.Render(ctx, d.Scene, d.Camera, cfg)
		if err != nil {
			return err
		}
		last = engine.SavePNG(outPath, img)
		return nil
	}, settings.FrameInterval())

	interval := settings.FrameInterval().Seconds()
	for i := 1; i <= max(frames, 1); i++ {
		if err := loop.Frame(float64(i) * interval); err != nil {
			return fmt.Errorf("render scene: %w", err)
		}
	}
	if last != nil {
		return fmt.Errorf("save png: %w", last)
	}
	logger.Info("saved frame", "path", outPath, "width", cfg.Width, "height", cfg.Height, "frames", max(frames, 1))
	return nil
}
