// Package engine rasterizes a scene graph on the CPU by sphere tracing the
// distance functions of its geometries.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/config"
	"github.com/user/sceneforge/internal/scene"
)

// ErrNoCamera is returned when a render is requested without a camera node.
var ErrNoCamera = errors.New("render: camera node has no projection")

// RenderConfig defines internal render parameters.
type RenderConfig struct {
	Width   int
	Height  int
	Samples int
	// Workers is the goroutine count; 0 means one per CPU.
	Workers int
	// MaxSteps bounds sphere-tracing iterations per ray.
	MaxSteps int
}

// ConfigFromSettings derives a render configuration from runtime settings.
func ConfigFromSettings(s config.Settings) RenderConfig {
	return RenderConfig{
		Width:    s.Width,
		Height:   s.Height,
		Samples:  s.Samples,
		Workers:  s.WorkerCount(),
		MaxSteps: s.MaxSteps,
	}
}

func (cfg RenderConfig) withDefaults() RenderConfig {
	if cfg.Samples < 1 {
		cfg.Samples = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = max(runtime.NumCPU(), 1)
	}
	if cfg.MaxSteps < 1 {
		cfg.MaxSteps = 96
	}
	return cfg
}

// Render draws sc as seen from cam into a new image.
func Render(ctx context.Context, sc *scene.Scene, cam *scene.Node, cfg RenderConfig) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	if err := RenderInto(ctx, sc, cam, cfg, img, nil); err != nil {
		return nil, err
	}
	return img, nil
}

// RenderInto draws sc into img, which must match the configured size.
// If progress is not nil, it is called from worker goroutines as tiles
// complete and once more at the end. A cancelled ctx stops the remaining
// tiles and returns its error.
func RenderInto(ctx context.Context, sc *scene.Scene, camNode *scene.Node, cfg RenderConfig, img *image.RGBA, progress func()) error {
	if camNode == nil || camNode.Camera == nil {
		return ErrNoCamera
	}
	b := img.Bounds()
	if b.Dx() != cfg.Width || b.Dy() != cfg.Height || cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("render into %dx%d image: configured for %dx%d", b.Dx(), b.Dy(), cfg.Width, cfg.Height)
	}
	cfg = cfg.withDefaults()

	world := sceneToWorld(sc)
	lights := collectLights(sc)
	cam := newCamera(camNode, cfg)
	background := toRGB(sc.Background)
	var fogColor rgb
	var fogDensity float32
	if sc.Fog != nil {
		fogColor = toRGB(sc.Fog.Color)
		fogDensity = sc.Fog.Density
	}

	invW := 1 / float32(cfg.Width)
	invH := 1 / float32(cfg.Height)
	invSamples := 1 / float32(cfg.Samples)
	pix := img.Pix
	stride := img.Stride

	const tileSize = 32
	type tile struct {
		x0, y0, x1, y1 int
		seed           int64
	}
	numTilesX := (cfg.Width + tileSize - 1) / tileSize
	numTilesY := (cfg.Height + tileSize - 1) / tileSize
	totalTiles := numTilesX * numTilesY
	tiles := make(chan tile, totalTiles)
	for ty := 0; ty < cfg.Height; ty += tileSize {
		for tx := 0; tx < cfg.Width; tx += tileSize {
			tiles <- tile{
				x0:   tx,
				y0:   ty,
				x1:   min(tx+tileSize, cfg.Width),
				y1:   min(ty+tileSize, cfg.Height),
				seed: int64(ty*cfg.Width + tx),
			}
		}
	}
	close(tiles)

	var wg sync.WaitGroup
	var progressMu sync.Mutex
	var processed int
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := newRandSource(0)
			shader := &shadeContext{world: world, lights: lights, cam: cam, maxSteps: cfg.MaxSteps}
			var cands []candidate
			var rec hitRecord

			for t := range tiles {
				if ctx.Err() != nil {
					continue
				}
				rng.reseed(t.seed)
				for y := t.y0; y < t.y1; y++ {
					row := y * stride
					flipY := float32(cfg.Height - 1 - y)
					for x := t.x0; x < t.x1; x++ {
						var col rgb
						for s := 0; s < cfg.Samples; s++ {
							jx, jy := rng.offset(s, cfg.Samples)
							r := cam.getRay((float32(x)+jx)*invW, (flipY+jy)*invH)
							var c rgb
							c, cands = traceRay(r, cam, world, cands, shader, &rec, background, fogColor, fogDensity, cfg.MaxSteps)
							col = col.Add(c)
						}
						col = col.Mul(invSamples)
						idx := row + x*4
						pix[idx] = toByte(col[0])
						pix[idx+1] = toByte(col[1])
						pix[idx+2] = toByte(col[2])
						pix[idx+3] = 255
					}
				}

				if progress != nil {
					progressMu.Lock()
					processed++
					threshold := max(1, totalTiles/20)
					update := processed%threshold == 0 || processed == totalTiles
					progressMu.Unlock()
					if update {
						progress()
					}
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if progress != nil {
		progress()
	}
	return nil
}

// traceRay returns the color seen along r: the shaded surface blended
// toward the fog color, or the background when nothing is hit.
func traceRay(r ray, cam camera, world []object, cands []candidate, shader *shadeContext, rec *hitRecord,
	background, fogColor rgb, fogDensity float32, maxSteps int) (rgb, []candidate) {
	tMin, tMax := cam.clip(r)
	if tMax <= tMin {
		return background, cands
	}
	cands = gather(cands, world, r, tMin, tMax, nil)
	if len(cands) == 0 || !march(r, cands, tMin, tMax, maxSteps, rec) {
		return background, cands
	}
	c := shader.shade(r, rec)
	if fogDensity > 0 {
		c = mix(c, fogColor, fogFactor(fogDensity, rec.t*r.dir.Dot(cam.forward)))
	}
	return c, cands
}

// fogFactor is the exponential-squared fog amount at view depth z.
func fogFactor(density, z float32) float32 {
	dz := density * z
	return saturate(1 - math.Exp(-dz*dz))
}

func toByte(x float32) uint8 {
	return uint8(saturate(x)*255 + 0.5)
}

// project maps a world point to pixel coordinates. It reports false for
// points behind the camera.
func project(cam camera, cfg RenderConfig, p mgl32.Vec3) (float32, float32, bool) {
	d := p.Sub(cam.origin)
	z := d.Dot(cam.forward)
	if z <= 0 {
		return 0, 0, false
	}
	sx := d.Dot(cam.right) / (z * cam.halfWidth)
	sy := d.Dot(cam.up) / (z * cam.halfHeight)
	x := (sx + 1) / 2 * float32(cfg.Width)
	y := (1 - (sy+1)/2) * float32(cfg.Height)
	return x, y, true
}
