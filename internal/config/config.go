// Package config holds runtime settings for rendering and the UI.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// WorkersEnv overrides Settings.Workers when set to a positive integer.
const WorkersEnv = "SCENEFORGE_WORKERS"

// maxWorkers bounds the worker count taken from the environment.
const maxWorkers = 128

// Settings are the knobs shared by the interactive and headless front ends.
type Settings struct {
	// Width and Height are the render resolution in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// FPS is the animation tick rate.
	FPS int `toml:"fps"`
	// Samples is the number of jittered samples per pixel.
	Samples int `toml:"samples"`
	// Workers is the render goroutine count; 0 means one per CPU.
	Workers int `toml:"workers"`
	// MaxSteps bounds sphere-tracing iterations per ray.
	MaxSteps int `toml:"max_steps"`
	// ShadowMapSize is the default shadow resolution of point lights.
	ShadowMapSize int `toml:"shadow_map_size"`
	// ResizeQuietMS is the resize debounce period in milliseconds.
	ResizeQuietMS int `toml:"resize_quiet_ms"`
	// AssetDir is where texture names are resolved.
	AssetDir string `toml:"asset_dir"`
	// MaxDisplayWidth and MaxDisplayHeight cap the on-screen preview size.
	MaxDisplayWidth  float32 `toml:"max_display_width"`
	MaxDisplayHeight float32 `toml:"max_display_height"`
}

// Default returns the interactive preview settings.
func Default() Settings {
	return Settings{
		Width:            480,
		Height:           270,
		FPS:              30,
		Samples:          1,
		MaxSteps:         96,
		ShadowMapSize:    2048,
		ResizeQuietMS:    500,
		AssetDir:         "assets",
		MaxDisplayWidth:  1024,
		MaxDisplayHeight: 768,
	}
}

// ForMode returns defaults for "preview" or "final"; anything else is preview.
// The worker env override is applied.
func ForMode(mode string) Settings {
	s := Default()
	if mode == "final" {
		s.Width = 1920
		s.Height = 1080
		s.Samples = 4
		s.MaxSteps = 160
	}
	return s.withEnv()
}

// Load reads settings from a TOML file over Default. Missing keys keep their
// defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	return LoadOver(path, Default())
}

// LoadOver is Load starting from base instead of Default.
func LoadOver(path string, base Settings) (Settings, error) {
	s := base
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s.withEnv(), nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s.withEnv(), nil
}

// Save writes s as TOML.
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Validate rejects values no front end can work with.
func (s Settings) Validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution %dx%d must be positive", s.Width, s.Height))
	}
	if s.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", s.FPS))
	}
	if s.Samples <= 0 {
		errs = append(errs, fmt.Errorf("samples %d must be positive", s.Samples))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", s.Workers))
	}
	return errors.Join(errs...)
}

func (s Settings) withEnv() Settings {
	if v := os.Getenv(WorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxWorkers {
			s.Workers = n
		}
	}
	return s
}

// WorkerCount resolves Workers to a positive goroutine count.
func (s Settings) WorkerCount() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return max(runtime.NumCPU(), 1)
}

// FrameInterval is the animation tick period.
func (s Settings) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(s.FPS)
}

// ResizeQuiet is the resize debounce period.
func (s Settings) ResizeQuiet() time.Duration {
	return time.Duration(s.ResizeQuietMS) * time.Millisecond
}
