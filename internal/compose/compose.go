// Package compose turns declarative descriptors into scene graph nodes,
// optionally exposing their properties on a tweak panel.
package compose

import (
	"log/slog"

	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/tweak"
)

// Services are the collaborators the configurators use. Every field is
// optional: a nil Panel disables tweak folders, a nil Textures skips texture
// maps and a nil Logger logs to slog.Default.
type Services struct {
	Panel    tweak.Panel
	Textures *material.TextureLoader
	Logger   *slog.Logger
}

func (s Services) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// panel returns the panel when tweaking was requested and one is available.
func (s Services) panel(want bool) tweak.Panel {
	if !want {
		return nil
	}
	return s.Panel
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float32, def float32) float32 {
	if p == nil {
		return def
	}
	return *p
}
