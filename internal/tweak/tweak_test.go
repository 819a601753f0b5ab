package tweak

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeClamp(t *testing.T) {
	r := Range{Min: 0, Max: 1, Step: 0.25}
	assert.Equal(t, float32(0), r.Clamp(-3))
	assert.Equal(t, float32(1), r.Clamp(3))
	assert.Equal(t, float32(0.5), r.Clamp(0.6))
	assert.Equal(t, float32(0.75), r.Clamp(0.7))

	assert.Equal(t, float32(42), Range{}.Clamp(42), "zero range passes through")
}

func TestRecorderNumberWritesThrough(t *testing.T) {
	rec := NewRecorder()
	var roughness float32 = 0.5
	var changes int

	f := rec.AddFolder("Object")
	c := f.AddNumber("roughness", &roughness, Range{Min: 0, Max: 1, Step: 0.01})
	c.OnChange(func() { changes++ })

	num := rec.Folder("Object").Control("roughness").(*Number)
	num.Set(0.2)
	assert.InDelta(t, 0.2, roughness, 1e-6)
	assert.Equal(t, 1, changes)

	num.Set(7)
	assert.Equal(t, float32(1), num.Value())
	assert.Equal(t, 2, changes)
}

func TestRecorderColorWritesThrough(t *testing.T) {
	rec := NewRecorder()
	var c colorful.Color
	var seen colorful.Color

	ctl := rec.AddFolder("Fog").AddColor("color", &c)
	ctl.OnChange(func() { seen = c })

	rec.Folder("Fog").Control("color").(*Color).Set(colorful.Color{R: 2, G: 0.5})
	assert.Equal(t, colorful.Color{R: 1, G: 0.5}, c)
	assert.Equal(t, c, seen)
}

func TestRecorderSync(t *testing.T) {
	rec := NewRecorder()
	var calls int
	rec.Sync = func(fn func()) {
		calls++
		fn()
	}
	var v float32
	rec.AddFolder("A").AddNumber("v", &v, Range{})
	rec.Folder("A").Control("v").(*Number).Set(3)
	assert.Equal(t, 1, calls)
	assert.Equal(t, float32(3), v)
}

func TestFolderLookup(t *testing.T) {
	rec := NewRecorder()
	rec.AddFolder("Light 1")
	rec.AddFolder("Fog")
	rec.AddFolder("Light 2")

	require.Len(t, rec.Folders(), 3)
	assert.Equal(t, 2, CountFolders(rec, "Light "))
	assert.Nil(t, rec.Folder("Camera"))

	var x float32
	f := rec.Folder("Fog")
	f.AddNumber("density", &x, Range{})
	assert.Equal(t, []string{"density"}, f.Labels())
	assert.Nil(t, f.Control("color"))
}
