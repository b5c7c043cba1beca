package g3d

import (
	"errors"
	"math"
	"sort"

	"github.com/gogpu/g3d/internal/parallel"
)

// ErrInvalidSize is returned when a viewport dimension is not positive.
var ErrInvalidSize = errors.New("g3d: invalid size")

// FrameStats describes the work done by the last Render.
type FrameStats struct {
	Objects   int // drawable objects submitted
	Triangles int // triangles that reached rasterization
	Culled    int // triangles rejected by face culling or clipping
	Lines     int // line segments that reached rasterization
	Bands     int
}

// Renderer rasterizes a scene into a Pixmap.
//
// Each Render clears the frame to the scene background, transforms and clips
// every visible mesh and line, then rasterizes bands of scanlines in
// parallel. Opaque primitives are drawn first (front to back), transparent
// objects afterwards (back to front). Output is deterministic regardless of
// the number of workers.
//
// Renderer is not safe for concurrent use; call Render from the per-frame
// callback.
type Renderer struct {
	opts   rendererOptions
	width  int
	height int

	pixmap *Pixmap
	depth  *DepthBuffer
	color  []float32 // linear RGBA accumulation, 4 per pixel

	bands []parallel.Band
	pool  *parallel.WorkerPool
	stats FrameStats
}

// NewRenderer creates a renderer with a width x height output.
// Sizes below 1 are raised to 1.
func NewRenderer(width, height int, opts ...RendererOption) *Renderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{
		opts: o,
		pool: parallel.NewWorkerPool(o.workers),
	}
	r.resize(max(1, width), max(1, height))
	return r
}

// Close stops the band workers. The renderer keeps working on the calling
// goroutine afterwards.
func (r *Renderer) Close() {
	r.pool.Close()
}

// SetSize resizes the output. It does not touch the scene or camera; pair it
// with PerspectiveCamera.SetViewport.
func (r *Renderer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}
	if width == r.width && height == r.height {
		return nil
	}
	r.resize(width, height)
	Logger().Info("renderer resized", "width", width, "height", height)
	return nil
}

func (r *Renderer) resize(width, height int) {
	r.width, r.height = width, height
	r.pixmap = NewPixmap(width, height)
	r.depth = NewDepthBuffer(width, height)
	r.color = make([]float32, width*height*4)
	r.bands = parallel.Bands(height, r.opts.bandHeight)
}

// Size returns the output dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Pixmap returns the output of the last Render. The pixmap is reused by the
// next Render and replaced by SetSize.
func (r *Renderer) Pixmap() *Pixmap {
	return r.pixmap
}

// Stats returns counters for the last Render.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// SetToneMapping changes the tone mapping operator.
func (r *Renderer) SetToneMapping(t ToneMapping) {
	r.opts.toneMapping = t
}

// ToneMapping returns the tone mapping operator.
func (r *Renderer) ToneMapping() ToneMapping {
	return r.opts.toneMapping
}

// SetOutputColorSpace changes the output encoding.
func (r *Renderer) SetOutputColorSpace(cs ColorSpace) {
	r.opts.outputSpace = cs
}

// SetExposure scales linear color before tone mapping.
func (r *Renderer) SetExposure(exposure float64) {
	if exposure > 0 {
		r.opts.exposure = exposure
	}
}

// drawable is an object prepared for rasterization.
type drawable struct {
	obj       *Object
	viewDepth float64
}

// Render draws scene from camera into the renderer's pixmap.
func (r *Renderer) Render(scene *Scene, camera *PerspectiveCamera) {
	scene.UpdateMatrixWorld()
	camera.UpdateMatrixWorld()

	view := camera.matrixWorld.Invert()
	viewProj := camera.projection.Multiply(view)

	env := &lighting{}
	var opaque, transparent []drawable
	scene.TraverseVisible(func(o *Object) {
		switch o.kind {
		case KindLight:
			env.add(o)
		case KindMesh, KindLine:
			if o.Geometry == nil || o.Material == nil {
				return
			}
			d := drawable{
				obj:       o,
				viewDepth: -view.TransformPoint(o.matrixWorld.Position()).Z,
			}
			if o.Material.Base().isTransparent() {
				transparent = append(transparent, d)
			} else {
				opaque = append(opaque, d)
			}
		}
	})

	sort.SliceStable(opaque, func(i, j int) bool { return opaque[i].viewDepth < opaque[j].viewDepth })
	sort.SliceStable(transparent, func(i, j int) bool { return transparent[i].viewDepth > transparent[j].viewDepth })

	r.stats = FrameStats{Objects: len(opaque) + len(transparent), Bands: len(r.bands)}
	setup := &primitiveSetup{
		width:    float64(r.width),
		height:   float64(r.height),
		viewProj: viewProj,
		stats:    &r.stats,
	}
	for _, d := range opaque {
		setup.object(d.obj)
	}
	for _, d := range transparent {
		setup.object(d.obj)
	}

	bins := make([][]int32, len(r.bands))
	for i, p := range setup.prims {
		y0, y1 := p.rows()
		first, last, ok := parallel.Span(r.bands, y0, y1)
		if !ok {
			continue
		}
		for b := first; b <= last; b++ {
			bins[b] = append(bins[b], int32(i))
		}
	}

	target := &frameTarget{
		width: r.width,
		color: r.color,
		depth: r.depth,
		env:   env,
		fog:   newFogParams(scene.Fog),
	}
	bg := scene.Background.ToLinear()

	r.pool.ForEach(len(r.bands), func(i int) {
		band := r.bands[i]
		target.clearRows(band.Y0, band.Y1, bg)
		for _, pi := range bins[i] {
			setup.prims[pi].rasterize(band, target)
		}
		r.resolveRows(band.Y0, band.Y1)
	})

	Logger().Debug("frame rendered",
		"objects", r.stats.Objects,
		"triangles", r.stats.Triangles,
		"culled", r.stats.Culled,
		"lines", r.stats.Lines)
}

// resolveRows tone maps rows [y0, y1) of the accumulation buffer into the
// output pixmap.
func (r *Renderer) resolveRows(y0, y1 int) {
	data := r.pixmap.data
	for i := y0 * r.width * 4; i < y1*r.width*4; i += 4 {
		c := RGBA{
			R: float64(r.color[i+0]),
			G: float64(r.color[i+1]),
			B: float64(r.color[i+2]),
			A: 1,
		}
		c = toneMap(c, r.opts.toneMapping, r.opts.exposure, r.opts.outputSpace)
		c.A = 1
		px := pack(c)
		copy(data[i:i+4], px[:])
	}
}

// frameTarget is the shared state band workers rasterize into. Each band
// only touches its own rows.
type frameTarget struct {
	width int
	color []float32
	depth *DepthBuffer
	env   *lighting
	fog   *fogParams
}

func (t *frameTarget) clearRows(y0, y1 int, c RGBA) {
	for i := y0 * t.width * 4; i < y1*t.width*4; i += 4 {
		t.color[i+0] = float32(c.R)
		t.color[i+1] = float32(c.G)
		t.color[i+2] = float32(c.B)
		t.color[i+3] = 1
	}
	t.depth.ClearRows(y0, y1)
}

// write blends a linear fragment color into pixel (x, y).
func (t *frameTarget) write(x, y int, c RGBA, base *MaterialBase) {
	i := (y*t.width + x) * 4
	switch {
	case !base.isTransparent():
		t.color[i+0] = float32(c.R)
		t.color[i+1] = float32(c.G)
		t.color[i+2] = float32(c.B)
	case base.Blending == AdditiveBlending:
		t.color[i+0] += float32(c.R * c.A)
		t.color[i+1] += float32(c.G * c.A)
		t.color[i+2] += float32(c.B * c.A)
	default:
		a := float32(c.A)
		t.color[i+0] = float32(c.R)*a + t.color[i+0]*(1-a)
		t.color[i+1] = float32(c.G)*a + t.color[i+1]*(1-a)
		t.color[i+2] = float32(c.B)*a + t.color[i+2]*(1-a)
	}
}

// fogParams is Fog with its color converted to linear.
type fogParams struct {
	fog   *Fog
	color RGBA
}

func newFogParams(f *Fog) *fogParams {
	if f == nil {
		return nil
	}
	return &fogParams{fog: f, color: f.Color.ToLinear()}
}

func (p *fogParams) apply(c RGBA, depth float64) RGBA {
	if p == nil {
		return c
	}
	a := c.A
	c = c.Lerp(p.color, p.fog.factor(depth))
	c.A = a
	return c
}

// isFinite reports whether every component is a finite number.
func isFinite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
