package engine

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/scene"
)

var testConfig = RenderConfig{Width: 48, Height: 48, Samples: 1, Workers: 2, MaxSteps: 128}

func mustMaterial(t *testing.T, name string, c uint32) *material.Material {
	t.Helper()
	col := scene.RGB(c)
	m, err := material.New(name, material.Props{Color: &col})
	require.NoError(t, err)
	return m
}

func frontCamera() *scene.Node {
	cam := scene.NewCamera("camera", 45, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	return cam
}

func pixelAt(t *testing.T, img *image.RGBA, cam *scene.Node, p mgl32.Vec3) [3]uint8 {
	t.Helper()
	x, y, ok := project(newCamera(cam, testConfig), testConfig, p)
	require.True(t, ok)
	c := img.RGBAAt(int(x), int(y))
	return [3]uint8{c.R, c.G, c.B}
}

func luminance(c [3]uint8) int {
	return int(c[0]) + int(c[1]) + int(c[2])
}

func TestRenderBasicSphere(t *testing.T) {
	sc := scene.New()
	sc.Background = scene.RGB(0x0000ff)
	sc.Add(scene.NewMesh("ball", geometry.MustNew("sphere", 1), mustMaterial(t, "basic", 0xff0000)))
	cam := frontCamera()

	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)

	assert.Equal(t, [3]uint8{255, 0, 0}, pixelAt(t, img, cam, mgl32.Vec3{0, 0, 0}))
	c := img.RGBAAt(0, 0)
	assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{c.R, c.G, c.B}, "corner shows background")
}

func TestRenderEmptySceneIsBackground(t *testing.T) {
	sc := scene.New()
	sc.Background = scene.RGB(0x336699)
	img, err := Render(context.Background(), sc, frontCamera(), testConfig)
	require.NoError(t, err)
	for _, p := range []image.Point{{0, 0}, {24, 24}, {47, 47}} {
		c := img.RGBAAt(p.X, p.Y)
		assert.Equal(t, [3]uint8{0x33, 0x66, 0x99}, [3]uint8{c.R, c.G, c.B})
	}
}

func TestRenderRespectsTransforms(t *testing.T) {
	sc := scene.New()
	box := scene.NewMesh("box", geometry.MustNew("box", 0.5, 0.5, 0.5), mustMaterial(t, "basic", 0x00ff00))
	box.Position = mgl32.Vec3{1.2, 0, 0}
	sc.Add(box)
	cam := frontCamera()

	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0, 255, 0}, pixelAt(t, img, cam, box.Position))
	assert.Equal(t, [3]uint8{0, 0, 0}, pixelAt(t, img, cam, mgl32.Vec3{0, 0, 0}))
}

func TestRenderHiddenMesh(t *testing.T) {
	sc := scene.New()
	n := scene.NewMesh("ball", geometry.MustNew("sphere", 1), mustMaterial(t, "basic", 0xffffff))
	n.Visible = false
	sc.Add(n)
	cam := frontCamera()
	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0, 0, 0}, pixelAt(t, img, cam, mgl32.Vec3{}))
}

func TestRenderLambertLighting(t *testing.T) {
	build := func(intensity float32) *scene.Scene {
		sc := scene.New()
		sc.Add(scene.NewMesh("ball", geometry.MustNew("sphere", 1), mustMaterial(t, "lambert", 0xffffff)))
		l := scene.NewPointLight("light", scene.RGB(0xffffff), intensity)
		l.Position = mgl32.Vec3{0, 0, 10}
		sc.Add(l)
		return sc
	}
	cam := frontCamera()

	dark, err := Render(context.Background(), build(0), cam, testConfig)
	require.NoError(t, err)
	lit, err := Render(context.Background(), build(0.5), cam, testConfig)
	require.NoError(t, err)

	assert.Equal(t, 0, luminance(pixelAt(t, dark, cam, mgl32.Vec3{})))
	c := pixelAt(t, lit, cam, mgl32.Vec3{})
	assert.InDelta(t, 128, int(c[0]), 3, "facing the light, lambert returns color*intensity")
}

func TestRenderAmbientOnly(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewMesh("ball", geometry.MustNew("sphere", 1), mustMaterial(t, "phong", 0xff0000)))
	sc.Add(scene.NewAmbientLight("ambient", scene.RGB(0xffffff), 0.5))
	cam := frontCamera()
	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	c := pixelAt(t, img, cam, mgl32.Vec3{})
	assert.InDelta(t, 128, int(c[0]), 2)
	assert.Equal(t, uint8(0), c[1])
}

func TestRenderShadows(t *testing.T) {
	build := func(cast bool) (*scene.Scene, *scene.Node) {
		sc := scene.New()
		ground := scene.NewMesh("ground", geometry.MustNew("plane", 10, 10), mustMaterial(t, "lambert", 0xffffff))
		ground.Rotation = mgl32.Vec3{-math.Pi / 2, 0, 0}
		ground.ReceiveShadow = true
		blocker := scene.NewMesh("blocker", geometry.MustNew("sphere", 0.75), mustMaterial(t, "lambert", 0xffffff))
		blocker.Position = mgl32.Vec3{0, 1.5, 0}
		blocker.CastShadow = cast
		light := scene.NewPointLight("light", scene.RGB(0xffffff), 1)
		light.Position = mgl32.Vec3{0, 5, 0}
		light.CastShadow = true
		light.Light.ShadowMapSize = 2048
		sc.Add(ground, blocker, light)

		cam := scene.NewCamera("camera", 50, 1, 0.1, 100)
		cam.Position = mgl32.Vec3{0, 6, 6}
		cam.LookAt(mgl32.Vec3{0, 0, 0})
		return sc, cam
	}

	sc, cam := build(true)
	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	under := pixelAt(t, img, cam, mgl32.Vec3{0, 0, 0.9})
	open := pixelAt(t, img, cam, mgl32.Vec3{1.5, 0, 1.5})
	assert.Less(t, luminance(under), 30, "the blocker shadows the ground below it")
	assert.Greater(t, luminance(open), 100)

	sc, cam = build(false)
	img, err = Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	assert.Greater(t, luminance(pixelAt(t, img, cam, mgl32.Vec3{0, 0, 0.9})), 300, "non-casting objects leave no shadow")
}

func TestRenderFog(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewMesh("ball", geometry.MustNew("sphere", 1), mustMaterial(t, "basic", 0xff0000)))
	sc.Fog = &scene.Fog{Color: scene.RGB(0x808080), Density: 5}
	sc.Background = sc.Fog.Color
	cam := frontCamera()
	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0x80, 0x80, 0x80}, pixelAt(t, img, cam, mgl32.Vec3{}))

	assert.Equal(t, float32(0), fogFactor(0, 100))
	assert.InDelta(t, 1-math.Exp(-1), fogFactor(0.5, 2), 1e-6)
}

func TestRenderNormalAndDepthMaterials(t *testing.T) {
	sc := scene.New()
	m, err := material.New("normal", material.Props{})
	require.NoError(t, err)
	sc.Add(scene.NewMesh("ball", geometry.MustNew("sphere", 1), m))
	cam := frontCamera()
	img, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	c := pixelAt(t, img, cam, mgl32.Vec3{})
	assert.InDelta(t, 128, int(c[0]), 3)
	assert.InDelta(t, 128, int(c[1]), 3)
	assert.InDelta(t, 255, int(c[2]), 2, "a surface facing the camera has normal +Z in view space")

	d, err := material.New("depth", material.Props{})
	require.NoError(t, err)
	sc.FindByName("ball").Mesh.Material = d
	img, err = Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	g := pixelAt(t, img, cam, mgl32.Vec3{})
	assert.Greater(t, int(g[0]), 240, "near surfaces are bright")
}

func TestRenderTexture(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0xff, 0, 0xff
	}
	f, err := os.Create(filepath.Join(dir, "green.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	tex, err := material.NewTextureLoader(dir).Load("green.png", material.TextureOptions{})
	require.NoError(t, err)
	white := scene.RGB(0xffffff)
	m, err := material.New("basic", material.Props{Color: &white, Map: tex})
	require.NoError(t, err)

	sc := scene.New()
	sc.Add(scene.NewMesh("ball", geometry.MustNew("sphere", 1), m))
	cam := frontCamera()
	out, err := Render(context.Background(), sc, cam, testConfig)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0, 255, 0}, pixelAt(t, out, cam, mgl32.Vec3{}))
}

func TestRenderDeterministic(t *testing.T) {
	sc := scene.New()
	sc.Add(scene.NewMesh("knot", geometry.MustNew("torusknot", 1, 0.3), mustMaterial(t, "toon", 0xffaa00)))
	sc.Add(scene.NewAmbientLight("ambient", scene.RGB(0xffffff), 0.3))
	l := scene.NewPointLight("light", scene.RGB(0xffffff), 1)
	l.Position = mgl32.Vec3{3, 3, 3}
	sc.Add(l)
	cfg := testConfig
	cfg.Samples = 3

	a, err := Render(context.Background(), sc, frontCamera(), cfg)
	require.NoError(t, err)
	cfg.Workers = 1
	b, err := Render(context.Background(), sc, frontCamera(), cfg)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRenderErrors(t *testing.T) {
	sc := scene.New()
	_, err := Render(context.Background(), sc, scene.NewGroup("notacamera"), testConfig)
	assert.ErrorIs(t, err, ErrNoCamera)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	err = RenderInto(context.Background(), sc, frontCamera(), testConfig, img, nil)
	assert.ErrorContains(t, err, "configured for 48x48")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Render(ctx, sc, frontCamera(), testConfig)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderProgress(t *testing.T) {
	var calls int
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	cfg := testConfig
	cfg.Workers = 1
	require.NoError(t, RenderInto(context.Background(), scene.New(), frontCamera(), cfg, img, func() { calls++ }))
	assert.GreaterOrEqual(t, calls, 2)
}

func TestPointLightAttenuation(t *testing.T) {
	l := pointLight{decay: 2}
	assert.Equal(t, float32(1), l.attenuation(100), "no range means no falloff")
	l.distance = 10
	assert.InDelta(t, 0.25, l.attenuation(5), 1e-6)
	assert.Equal(t, float32(0), l.attenuation(12))
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	require.NoError(t, SavePNG(path, img))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 2, cfg.Height)

	assert.Error(t, SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), img))
}
