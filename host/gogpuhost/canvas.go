package gogpuhost

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/g3d"
)

// Errors returned by Canvas.
var (
	// ErrCanvasClosed is returned when drawing to a closed canvas.
	ErrCanvasClosed = errors.New("gogpuhost: canvas is closed")
	// ErrInvalidDrawContext is returned when the draw context is nil.
	ErrInvalidDrawContext = errors.New("gogpuhost: invalid draw context")
	// ErrInvalidRenderer is returned when the draw context has no texture
	// creator.
	ErrInvalidRenderer = errors.New("gogpuhost: draw context has no texture creator")
)

type textureDestroyer interface {
	Destroy()
}

// Canvas keeps a GPU texture in sync with a rendered pixmap and draws it to
// the window. The texture is created on first use, updated in place while the
// size stays the same and recreated when it changes.
//
// A Canvas is not safe for concurrent use. Use it from the draw callback.
type Canvas struct {
	texture gpucontext.Texture
	closed  bool
}

// Draw uploads pm and draws it at the top-left corner of dc.
func (c *Canvas) Draw(dc gpucontext.TextureDrawer, pm *g3d.Pixmap) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if dc == nil {
		return ErrInvalidDrawContext
	}

	w, h := pm.Width(), pm.Height()
	data := pm.Data()
	if c.texture != nil && c.texture.Width() == w && c.texture.Height() == h {
		if u, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(data); err != nil {
				return fmt.Errorf("gogpuhost: update texture: %w", err)
			}
			return dc.DrawTexture(c.texture, 0, 0)
		}
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return fmt.Errorf("gogpuhost: create texture: %w", err)
	}
	// The previous texture is no longer drawn once the new one exists.
	c.destroyTexture()
	c.texture = tex
	g3d.Logger().Debug("canvas texture created", "width", w, "height", h)

	return dc.DrawTexture(tex, 0, 0)
}

// Close destroys the texture. Further draws fail with ErrCanvasClosed.
// Close is idempotent.
func (c *Canvas) Close() {
	if c.closed {
		return
	}
	c.destroyTexture()
	c.closed = true
}

func (c *Canvas) destroyTexture() {
	if c.texture == nil {
		return
	}
	if d, ok := c.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	c.texture = nil
}
