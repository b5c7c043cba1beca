// Package demo contains the self-contained scenes shown by g3ddemo.
//
// Each demo builds its own scene graph and camera, then mutates transforms
// once per frame in Update. Hosts (a window or the headless exporter) own
// the renderer and call into the demo through the Demo interface; optional
// capabilities such as wheel input or a text overlay are discovered with
// type assertions.
package demo

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/anim"
	"github.com/gogpu/g3d/config"
)

// ErrUnknownDemo is returned by New for names that were never registered.
var ErrUnknownDemo = errors.New("demo: unknown demo")

// Demo is a scene animated once per frame.
type Demo interface {
	// Name returns the registry name.
	Name() string
	// Scene returns the scene to render.
	Scene() *g3d.Scene
	// Camera returns the camera to render from.
	Camera() *g3d.PerspectiveCamera
	// Update advances the animation by one frame.
	Update(f anim.Frame)
	// Resize adapts the camera to a new viewport. The host resizes the
	// renderer itself.
	Resize(width, height int)
}

// WheelHandler is implemented by demos that react to the mouse wheel.
// dy follows the browser convention: positive when scrolling down.
type WheelHandler interface {
	Wheel(dx, dy float64)
}

// PointerHandler is implemented by demos that react to pointer drags.
type PointerHandler interface {
	Drag(dx, dy float64)
}

// Overlay is implemented by demos that show status text over the frame.
type Overlay interface {
	Overlay() []string
}

// RendererConfigurer is implemented by demos that need specific renderer
// settings, such as tone mapping.
type RendererConfigurer interface {
	RendererOptions() []g3d.RendererOption
}

// Env is what a demo constructor receives from its host.
type Env struct {
	Config *config.Config
	Loader *g3d.TextureLoader
	Width  int
	Height int
}

// Asset resolves an asset name against the configured assets directory.
// URLs and absolute paths are returned unchanged.
func (e Env) Asset(name string) string {
	if name == "" || strings.Contains(name, "://") || filepath.IsAbs(name) {
		return name
	}
	dir := ""
	if e.Config != nil {
		dir = e.Config.Assets
	}
	return filepath.Join(dir, name)
}

// load starts loading an asset, or returns nil when there is no loader or
// no asset name. Materials render their base color for a nil map.
func (e Env) load(name string) *g3d.Texture {
	if e.Loader == nil || name == "" {
		return nil
	}
	return e.Loader.Load(e.Asset(name))
}

func (e Env) aspect() float64 {
	if e.Width <= 0 || e.Height <= 0 {
		return 1
	}
	return float64(e.Width) / float64(e.Height)
}

func (e Env) config() *config.Config {
	if e.Config == nil {
		return config.Default()
	}
	return e.Config
}

// Constructor builds a demo.
type Constructor func(env Env) (Demo, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes a demo available to New. It panics on duplicate names.
func Register(name string, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("demo: Register called twice for " + name)
	}
	registry[name] = c
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the demo registered under name.
func New(name string, env Env) (Demo, error) {
	registryMu.RLock()
	c, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownDemo, name, strings.Join(Names(), ", "))
	}
	d, err := c(env)
	if err != nil {
		return nil, fmt.Errorf("demo %s: %w", name, err)
	}
	g3d.Logger().Info("demo created", "demo", name, "width", env.Width, "height", env.Height)
	return d, nil
}

func init() {
	Register("earth", NewEarth)
	Register("cube", NewCube)
	Register("tunnel", NewTunnel)
	Register("flight", NewFlight)
}

// orbitInput forwards pointer and wheel input to orbit controls.
type orbitInput struct {
	controls *g3d.OrbitControls
}

// Drag rotates the camera around its target.
func (o orbitInput) Drag(dx, dy float64) {
	o.controls.Rotate(dx, dy)
}

// Wheel zooms the camera.
func (o orbitInput) Wheel(_, dy float64) {
	o.controls.Zoom(dy)
}
