package g3d

// LightType identifies how a light contributes to shading.
type LightType int

const (
	// AmbientLight lights every surface equally.
	AmbientLight LightType = iota
	// DirectionalLight shines from its position toward the world origin.
	DirectionalLight
	// HemisphereLight fades from a sky color above to a ground color below.
	HemisphereLight
)

// Light holds the parameters of a light object. Colors are sRGB.
type Light struct {
	Type        LightType
	Color       RGBA
	GroundColor RGBA
	Intensity   float64
}

func newLight(l *Light) *Object {
	o := newObject(KindLight)
	o.Light = l
	return &o
}

// NewAmbientLight creates a light that brightens all surfaces uniformly.
func NewAmbientLight(color RGBA, intensity float64) *Object {
	return newLight(&Light{Type: AmbientLight, Color: color, Intensity: intensity})
}

// NewDirectionalLight creates a sun-like light. Set the returned object's
// Position to choose where the light shines from; it always points at the
// world origin.
func NewDirectionalLight(color RGBA, intensity float64) *Object {
	o := newLight(&Light{Type: DirectionalLight, Color: color, Intensity: intensity})
	o.Position = V3(0, 1, 0)
	return o
}

// NewHemisphereLight creates a sky/ground gradient light from above.
func NewHemisphereLight(sky, ground RGBA, intensity float64) *Object {
	o := newLight(&Light{Type: HemisphereLight, Color: sky, GroundColor: ground, Intensity: intensity})
	o.Position = V3(0, 1, 0)
	return o
}

// lighting is the per-frame light environment, in linear color.
type lighting struct {
	ambient     RGBA
	directional []directional
	hemisphere  []hemisphere
}

type directional struct {
	dir   Vec3 // unit vector from surface toward the light
	color RGBA
}

type hemisphere struct {
	up     Vec3
	sky    RGBA
	ground RGBA
}

func (env *lighting) add(o *Object) {
	l := o.Light
	c := l.Color.ToLinear().Scale(l.Intensity)
	switch l.Type {
	case AmbientLight:
		env.ambient = env.ambient.Add(c)
	case DirectionalLight:
		env.directional = append(env.directional, directional{
			dir:   o.matrixWorld.Position().Normalize(),
			color: c,
		})
	case HemisphereLight:
		env.hemisphere = append(env.hemisphere, hemisphere{
			up:     o.matrixWorld.Position().Normalize(),
			sky:    c,
			ground: l.GroundColor.ToLinear().Scale(l.Intensity),
		})
	}
}

// irradiance returns the diffuse light arriving at a surface with normal n.
func (env *lighting) irradiance(n Vec3) RGBA {
	out := env.ambient
	for _, h := range env.hemisphere {
		w := 0.5*n.Dot(h.up) + 0.5
		out = out.Add(h.ground.Lerp(h.sky, w))
	}
	for _, d := range env.directional {
		if ndl := n.Dot(d.dir); ndl > 0 {
			out = out.Add(d.color.Scale(ndl))
		}
	}
	return out
}
