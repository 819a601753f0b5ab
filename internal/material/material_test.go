package material

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewSupportedKinds(t *testing.T) {
	for _, k := range Kinds() {
		names := []string{
			k.String(),
			strings.ToUpper(k.String()),
			"Mesh" + strings.ToUpper(k.String()[:1]) + k.String()[1:] + "Material",
		}
		for _, name := range names {
			m, err := New(name, Props{})
			require.NoError(t, err, name)
			assert.Equal(t, k, m.Kind, name)
		}
	}
}

func TestNewUnsupportedFallsBack(t *testing.T) {
	m, err := New("holographic", Props{Color: &colorful.Color{R: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "holographic")

	assert.Equal(t, Basic, m.Kind)
	assert.Equal(t, Neutral, m.Color, "fallback ignores the supplied color")
}

func TestNewIgnoresForeignChannels(t *testing.T) {
	m, err := New("phong", Props{
		Roughness: ptr[float32](0.2),
		Metalness: ptr[float32](0.9),
		Shininess: ptr[float32](80),
	})
	require.NoError(t, err)
	assert.Equal(t, float32(1), m.Roughness)
	assert.Equal(t, float32(0), m.Metalness)
	assert.Equal(t, float32(80), m.Shininess)

	m, err = New("standard", Props{Roughness: ptr[float32](0.2), Shininess: ptr[float32](80)})
	require.NoError(t, err)
	assert.Equal(t, float32(0.2), m.Roughness)
	assert.Equal(t, float32(30), m.Shininess)
}

func TestNewClampsUnitRanges(t *testing.T) {
	m, err := New("physical", Props{Roughness: ptr[float32](3), Clearcoat: ptr[float32](-1)})
	require.NoError(t, err)
	assert.Equal(t, float32(1), m.Roughness)
	assert.Equal(t, float32(0), m.Clearcoat)
}

func TestChannels(t *testing.T) {
	tests := []struct {
		kind Kind
		has  Channel
		not  Channel
	}{
		{Basic, ChanColor, ChanEmissive},
		{Lambert, ChanEmissive, ChanRoughness},
		{Phong, ChanShininess | ChanSpecular, ChanMetalness},
		{Standard, ChanRoughness | ChanMetalness, ChanClearcoat},
		{Physical, ChanClearcoat, ChanShininess},
		{Normal, 0, ChanColor},
		{Depth, 0, ChanMap},
	}
	for _, tt := range tests {
		m, err := New(tt.kind.String(), Props{})
		require.NoError(t, err)
		if tt.has != 0 {
			assert.True(t, m.Has(tt.has), tt.kind.String())
		}
		assert.False(t, m.Has(tt.not), tt.kind.String())
	}
}

func TestParseSide(t *testing.T) {
	assert.Equal(t, DoubleSide, ParseSide("Double"))
	assert.Equal(t, BackSide, ParseSide("back"))
	assert.Equal(t, FrontSide, ParseSide(""))
}

func writePNG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func checker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func TestTextureLoader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "checker.png", checker())

	l := NewTextureLoader(dir)
	tex, err := l.Load("checker.png", TextureOptions{Filter: Nearest})
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, float32(1), tex.Options.RepeatX)

	// v = 0 is the bottom row.
	assert.Equal(t, colorful.Color{R: 0, G: 0, B: 1}, tex.Sample(0.25, 0.25))
	assert.Equal(t, colorful.Color{R: 1, G: 0, B: 0}, tex.Sample(0.25, 0.75))

	again, err := l.Load("checker.png", TextureOptions{WrapS: Repeat})
	require.NoError(t, err)
	assert.Same(t, tex.img, again.img, "decoded image is cached")
}

func TestTextureLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello texture"), 0o644))

	l := NewTextureLoader(dir)
	_, err := l.Load("notes.txt", TextureOptions{})
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = l.Load("missing.png", TextureOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTextureDownscale(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "big.png", image.NewRGBA(image.Rect(0, 0, 64, 32)))

	tex, err := NewTextureLoader(dir).Load("big.png", TextureOptions{MaxSize: 16})
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 8, h)
}

func TestWrap(t *testing.T) {
	assert.InDelta(t, 0.25, wrap(1.25, Repeat), 1e-6)
	assert.InDelta(t, 0.75, wrap(-0.25, Repeat), 1e-6)
	assert.InDelta(t, 0.75, wrap(1.25, MirroredRepeat), 1e-6)
	assert.InDelta(t, 0.9999, wrap(3, ClampToEdge), 1e-6)
	assert.InDelta(t, 0, wrap(-3, ClampToEdge), 1e-6)
}
