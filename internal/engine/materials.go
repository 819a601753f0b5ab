package engine

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/scene"
)

func toRGB(c colorful.Color) rgb {
	return rgb{float32(c.R), float32(c.G), float32(c.B)}
}

type pointLight struct {
	pos      mgl32.Vec3
	color    rgb
	distance float32
	decay    float32
	shadows  bool
	penumbra float32
}

type lightSet struct {
	ambient rgb
	points  []pointLight
}

func collectLights(sc *scene.Scene) lightSet {
	var ls lightSet
	for _, n := range sc.Lights() {
		l := n.Light
		if l == nil {
			continue
		}
		c := toRGB(l.Color).Mul(l.Intensity)
		switch n.Kind {
		case scene.KindAmbientLight:
			ls.ambient = ls.ambient.Add(c)
		case scene.KindPointLight:
			size := l.ShadowMapSize
			if size <= 0 {
				size = 512
			}
			ls.points = append(ls.points, pointLight{
				pos:      n.WorldPosition(),
				color:    c,
				distance: l.Distance,
				decay:    l.Decay,
				shadows:  n.CastShadow,
				penumbra: float32(size) / 256,
			})
		}
	}
	return ls
}

// attenuation is the falloff of a point light at distance d: none when the
// light has no range, otherwise pow(saturate(1 - d/range), decay).
func (l pointLight) attenuation(d float32) float32 {
	if l.distance <= 0 {
		return 1
	}
	return math.Pow(saturate(1-d/l.distance), l.decay)
}

// shadeContext is what a worker needs to shade one hit.
type shadeContext struct {
	world    []object
	lights   lightSet
	cam      camera
	maxSteps int
	buf      []candidate
}

// baseColor returns the material color, modulated by its texture map.
func baseColor(m *material.Material, o *object, rec *hitRecord) rgb {
	c := toRGB(m.Color)
	if m.Map == nil {
		return c
	}
	return mulVec(c, triplanar(m.Map, o, rec))
}

// triplanar samples tex with coordinates projected along the three local
// axes, weighted by the local normal.
func triplanar(tex *material.Texture, o *object, rec *hitRecord) rgb {
	p := o.local(rec.p)
	n := o.geom.Normal(p)
	size := 2 * o.geom.BoundingRadius()
	if size == 0 {
		size = 1
	}
	u := p.Mul(1 / size).Add(mgl32.Vec3{0.5, 0.5, 0.5})
	w := mgl32.Vec3{math.Abs(n.X()), math.Abs(n.Y()), math.Abs(n.Z())}
	w = w.Mul(1 / (w.X() + w.Y() + w.Z()))

	var out rgb
	if w.X() > 0 {
		out = out.Add(toRGB(tex.Sample(u.Z(), u.Y())).Mul(w.X()))
	}
	if w.Y() > 0 {
		out = out.Add(toRGB(tex.Sample(u.X(), u.Z())).Mul(w.Y()))
	}
	if w.Z() > 0 {
		out = out.Add(toRGB(tex.Sample(u.X(), u.Y())).Mul(w.Z()))
	}
	return out
}

// shade computes the color leaving rec toward the camera along r.
func (ctx *shadeContext) shade(r ray, rec *hitRecord) rgb {
	o := rec.obj
	m := o.mat
	n := rec.normal
	if m.Side != material.FrontSide && n.Dot(r.dir) > 0 {
		n = n.Mul(-1)
	}

	switch m.Kind {
	case material.Normal:
		vn := ctx.cam.view.Mul3x1(n).Normalize()
		return vn.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
	case material.Depth:
		near, far := ctx.cam.near, ctx.cam.far
		z := rec.t * r.dir.Dot(ctx.cam.forward)
		g := float32(1)
		if far > near {
			g = 1 - saturate((z-near)/(far-near))
		}
		return rgb{g, g, g}
	case material.Basic:
		return baseColor(m, o, rec)
	}

	base := baseColor(m, o, rec)
	viewDir := r.dir.Mul(-1)
	diffuseColor := base
	specColor := toRGB(m.Specular)
	shininess := m.Shininess
	switch m.Kind {
	case material.Standard, material.Physical:
		diffuseColor = base.Mul(1 - m.Metalness)
		specColor = mix(rgb{0.04, 0.04, 0.04}, base, m.Metalness)
		shininess = roughnessToShininess(m.Roughness)
	}

	out := mulVec(diffuseColor, ctx.lights.ambient)
	for _, l := range ctx.lights.points {
		toLight := l.pos.Sub(rec.p)
		dist := toLight.Len()
		if dist == 0 {
			continue
		}
		ld := toLight.Mul(1 / dist)
		nl := n.Dot(ld)
		if nl <= 0 && m.Kind != material.Toon {
			continue
		}
		radiance := l.color.Mul(l.attenuation(dist))
		if radiance == (rgb{}) {
			continue
		}
		if l.shadows && o.receiveShadow {
			var vis float32
			bias := n.Mul(2*hitEpsilon(rec.t) + 1e-3)
			vis, ctx.buf = softShadow(ctx.world, ctx.buf, rec.p.Add(bias), ld, dist, l.penumbra, ctx.maxSteps)
			if vis == 0 {
				continue
			}
			radiance = radiance.Mul(vis)
		}

		switch m.Kind {
		case material.Lambert:
			out = out.Add(mulVec(diffuseColor, radiance).Mul(nl))
		case material.Toon:
			out = out.Add(mulVec(diffuseColor, radiance).Mul(toonRamp(nl)))
		default:
			out = out.Add(mulVec(diffuseColor, radiance).Mul(nl))
			h := ld.Add(viewDir).Normalize()
			out = out.Add(mulVec(specColor, radiance).Mul(blinn(n, h, shininess) * nl))
			if m.Kind == material.Physical && m.Clearcoat > 0 {
				coat := blinn(n, h, roughnessToShininess(0.1)) * nl * m.Clearcoat * 0.04
				out = out.Add(radiance.Mul(coat))
			}
		}
	}
	return out.Add(toRGB(m.Emissive))
}

// blinn is the normalized Blinn-Phong specular lobe.
func blinn(n, h mgl32.Vec3, shininess float32) float32 {
	nh := max(n.Dot(h), 0)
	return math.Pow(nh, shininess) * (shininess + 2) / 8
}

func roughnessToShininess(roughness float32) float32 {
	a := max(roughness*roughness, 0.03)
	return clamp(2/(a*a)-2, 0, 2048)
}

// toonRamp is the two-tone diffuse ramp: 0.7 in shade, 1 where the light
// faces the surface.
func toonRamp(nl float32) float32 {
	const fw = 0.01
	return 0.7 + 0.3*smoothstep(0.7-fw, 0.7+fw, nl*0.5+0.5)
}
