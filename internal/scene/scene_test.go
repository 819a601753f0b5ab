package scene

import (
	"testing"

	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
)

func TestAddReparents(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")
	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Same(t, b, c.Parent())

	assert.True(t, b.Remove(c))
	assert.Nil(t, c.Parent())
	assert.False(t, b.Remove(c))
}

func TestSceneLookup(t *testing.T) {
	sc := New()
	box := NewMesh("mybox", geometry.Default(), material.Default())
	group := NewGroup("group")
	group.Add(box)
	sc.Add(group, NewAmbientLight("ambient", RGB(0xffffff), 0))

	assert.Same(t, box, sc.FindByName("mybox"))
	assert.Nil(t, sc.FindByName("missing"))
	assert.Equal(t, []*Node{box}, sc.Meshes())
	assert.Len(t, sc.Lights(), 1)

	group.Visible = false
	assert.Empty(t, sc.Meshes(), "hidden parents hide their subtree")

	assert.True(t, sc.Remove(group))
	assert.Nil(t, sc.FindByName("mybox"))
	assert.False(t, sc.Remove(sc.Root))
}

func TestTraverseOrder(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	a.Add(NewGroup("a1"))
	root.Add(a)
	root.Add(b)

	var names []string
	root.Traverse(func(n *Node) { names = append(names, n.Name) })
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
}

func TestWorldMatrix(t *testing.T) {
	parent := NewGroup("parent")
	parent.Position = mgl32.Vec3{1, 0, 0}
	parent.Rotation = mgl32.Vec3{0, math.Pi / 2, 0}
	child := NewGroup("child")
	child.Position = mgl32.Vec3{0, 0, 1}
	parent.Add(child)

	got := child.WorldPosition()
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-5), "got %v", got)
}

func TestScaleAppliesBeforeRotation(t *testing.T) {
	n := NewGroup("n")
	n.Scale = mgl32.Vec3{2, 1, 1}
	n.Rotation = mgl32.Vec3{0, 0, math.Pi / 2}
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, n.LocalMatrix())
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{0, 2, 0}, 1e-5), "got %v", p)
}

func TestLookAt(t *testing.T) {
	cam := NewCamera("camera", 55, 1, 0.1, 1000)
	cam.Position = mgl32.Vec3{1, 2, 5}
	target := mgl32.Vec3{0, 0.5, 0}
	cam.LookAt(target)

	forward := cam.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	want := target.Sub(cam.Position).Normalize()
	assert.True(t, forward.ApproxEqualThreshold(want, 1e-5), "forward %v want %v", forward, want)

	up := cam.WorldMatrix().Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assert.Greater(t, up.Y(), float32(0))
}

func TestLookAtInsideParent(t *testing.T) {
	parent := NewGroup("rig")
	parent.Position = mgl32.Vec3{0, 3, 0}
	parent.Rotation = mgl32.Vec3{0, 0.8, 0}
	cam := NewCamera("camera", 55, 1, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 4}
	parent.Add(cam)

	cam.LookAt(mgl32.Vec3{})
	forward := cam.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	want := mgl32.Vec3{}.Sub(cam.WorldPosition()).Normalize()
	assert.True(t, forward.ApproxEqualThreshold(want, 1e-4), "forward %v want %v", forward, want)
}

func TestEulerFromMatrixRoundTrip(t *testing.T) {
	for _, r := range []mgl32.Vec3{{0.3, -0.2, 1.1}, {-1, 0.5, 0}, {0, 0, 0}} {
		n := NewGroup("n")
		n.Rotation = r
		got := EulerFromMatrix(n.RotationMatrix())
		assert.True(t, got.ApproxEqualThreshold(r, 1e-5), "got %v want %v", got, r)
	}
}

func TestCameraSetAspect(t *testing.T) {
	n := NewCamera("camera", 55, 1, 0.1, 1000)
	n.Camera.SetAspect(1600, 900)
	assert.InDelta(t, 16.0/9.0, n.Camera.Aspect, 1e-6)
	n.Camera.SetAspect(0, 900)
	assert.InDelta(t, 16.0/9.0, n.Camera.Aspect, 1e-6)
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"#ff8800", "0xff8800", "ff8800", "#f80", " #FF8800 "} {
		c, err := ParseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, "#ff8800", c.Hex(), s)
	}
	_, err := ParseColor("chartreuse")
	assert.Error(t, err)
}

func TestHexColorYAML(t *testing.T) {
	var v struct {
		A HexColor  `yaml:"a"`
		B HexColor  `yaml:"b"`
		C *HexColor `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 0x00ff00\nb: '#0000ff'\n"), &v))
	assert.Equal(t, RGB(0x00ff00), v.A.Color)
	assert.Equal(t, RGB(0x0000ff), v.B.Color)
	assert.Nil(t, v.C)

	out, err := yaml.Marshal(v.A)
	require.NoError(t, err)
	assert.Equal(t, "'#00ff00'\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("a: nope\n"), &v))
}
