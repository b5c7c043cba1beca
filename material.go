package g3d

// Side selects which triangle faces are drawn.
type Side int

const (
	// FrontSide draws counter-clockwise (outward) faces.
	FrontSide Side = iota
	// BackSide draws only inward faces.
	BackSide
	// DoubleSide draws both.
	DoubleSide
)

// Blending selects how a fragment combines with the color already drawn.
type Blending int

const (
	// NormalBlending is source-over alpha compositing.
	NormalBlending Blending = iota
	// AdditiveBlending adds alpha-weighted color; used for glows and clouds.
	AdditiveBlending
)

// MaterialBase holds the properties shared by every material.
type MaterialBase struct {
	Side        Side
	Transparent bool
	Opacity     float64
	Blending    Blending
	DepthTest   bool
	DepthWrite  bool
}

func defaultMaterialBase() MaterialBase {
	return MaterialBase{
		Opacity:    1,
		DepthTest:  true,
		DepthWrite: true,
	}
}

// Base returns the shared material properties.
func (m *MaterialBase) Base() *MaterialBase {
	return m
}

// isTransparent reports whether fragments must be drawn in the blended pass.
func (m *MaterialBase) isTransparent() bool {
	return m.Transparent || m.Opacity < 1 || m.Blending == AdditiveBlending
}

// Material decides the color of each fragment of a mesh or line.
type Material interface {
	Base() *MaterialBase
	shade(f *Fragment, env *lighting) RGBA
}

// Fragment carries the interpolated surface data of one pixel.
type Fragment struct {
	X, Y       int     // pixel coordinates
	Depth      float64 // distance from the camera
	WorldPos   Vec3
	Normal     Vec3 // world space, unit, facing the camera side drawn
	FaceNormal Vec3 // world space, unit
	UV         Vec2
	Attr       float64
	FrontFace  bool
}

// BasicMaterial is unlit: the fragment color is Color times the map texel.
type BasicMaterial struct {
	MaterialBase
	Color RGBA // sRGB
	Map   *Texture
}

// NewBasicMaterial creates an unlit material.
func NewBasicMaterial(color RGBA) *BasicMaterial {
	return &BasicMaterial{MaterialBase: defaultMaterialBase(), Color: color}
}

func (m *BasicMaterial) shade(f *Fragment, _ *lighting) RGBA {
	return albedo(m.Color, m.Map, f.UV, m.Opacity)
}

// StandardMaterial is diffuse-lit by the scene's lights.
type StandardMaterial struct {
	MaterialBase
	Color       RGBA // sRGB
	Map         *Texture
	Emissive    RGBA // sRGB, added after lighting
	FlatShading bool
}

// NewStandardMaterial creates a lit material.
func NewStandardMaterial(color RGBA) *StandardMaterial {
	return &StandardMaterial{MaterialBase: defaultMaterialBase(), Color: color, Emissive: Black}
}

func (m *StandardMaterial) shade(f *Fragment, env *lighting) RGBA {
	base := albedo(m.Color, m.Map, f.UV, m.Opacity)
	n := f.Normal
	if m.FlatShading {
		n = f.FaceNormal
		if !f.FrontFace {
			n = n.Neg()
		}
	}
	lit := base.Mul(env.irradiance(n))
	return lit.Add(m.Emissive.ToLinear())
}

// LineMaterial colors polylines.
type LineMaterial struct {
	MaterialBase
	Color RGBA // sRGB
}

// NewLineMaterial creates a solid line material.
func NewLineMaterial(color RGBA) *LineMaterial {
	return &LineMaterial{MaterialBase: defaultMaterialBase(), Color: color}
}

func (m *LineMaterial) shade(_ *Fragment, _ *lighting) RGBA {
	return m.Color.ToLinear().WithAlpha(m.Color.A * m.Opacity)
}

// FragmentFunc computes a linear-light fragment color.
type FragmentFunc func(f *Fragment) RGBA

// ShaderMaterial colors fragments with a Go function. The function runs on
// renderer worker goroutines, so it must only read state that the per-frame
// callback does not mutate during Render.
type ShaderMaterial struct {
	MaterialBase
	Fragment FragmentFunc
}

// NewShaderMaterial creates a material driven by fn.
func NewShaderMaterial(fn FragmentFunc) *ShaderMaterial {
	return &ShaderMaterial{MaterialBase: defaultMaterialBase(), Fragment: fn}
}

func (m *ShaderMaterial) shade(f *Fragment, _ *lighting) RGBA {
	if m.Fragment == nil {
		return White.WithAlpha(m.Opacity)
	}
	c := m.Fragment(f)
	c.A *= m.Opacity
	return c
}

// albedo returns the linear base color, modulated by the texture once it
// has loaded. A pending or failed texture leaves the plain color.
func albedo(color RGBA, tex *Texture, uv Vec2, opacity float64) RGBA {
	c := color.ToLinear()
	if tex != nil {
		if texel, ok := tex.Sample(uv); ok {
			c = RGBA{R: c.R * texel.R, G: c.G * texel.G, B: c.B * texel.B, A: c.A * texel.A}
		}
	}
	c.A *= opacity
	return c
}
