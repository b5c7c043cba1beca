package g3d

// RendererOption configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// Default: no tone mapping, sRGB output, GOMAXPROCS band workers
//	r := g3d.NewRenderer(800, 600)
//
//	// Filmic tone mapping on a single goroutine
//	r := g3d.NewRenderer(800, 600,
//	    g3d.WithToneMapping(g3d.ACESFilmicToneMapping),
//	    g3d.WithWorkers(1))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	toneMapping ToneMapping
	exposure    float64
	outputSpace ColorSpace
	workers     int
	bandHeight  int
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		toneMapping: NoToneMapping,
		exposure:    1,
		outputSpace: SRGBColorSpace,
		workers:     0, // GOMAXPROCS
		bandHeight:  0, // parallel.DefaultBandHeight
	}
}

// WithToneMapping selects the tone mapping operator.
func WithToneMapping(t ToneMapping) RendererOption {
	return func(o *rendererOptions) {
		o.toneMapping = t
	}
}

// WithExposure scales linear color before tone mapping.
func WithExposure(exposure float64) RendererOption {
	return func(o *rendererOptions) {
		if exposure > 0 {
			o.exposure = exposure
		}
	}
}

// WithOutputColorSpace selects the encoding of the output pixmap.
func WithOutputColorSpace(cs ColorSpace) RendererOption {
	return func(o *rendererOptions) {
		o.outputSpace = cs
	}
}

// WithWorkers sets the number of band workers. Values <= 0 use GOMAXPROCS;
// 1 renders on the calling goroutine.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithBandHeight sets the number of scanlines per parallel band.
func WithBandHeight(rows int) RendererOption {
	return func(o *rendererOptions) {
		o.bandHeight = rows
	}
}
