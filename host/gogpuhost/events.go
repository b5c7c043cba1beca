package gogpuhost

import (
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/g3d/host"
)

// Events collects window input between frames and hands it to a session
// once per frame.
//
// Callbacks arrive on the UI thread while frames are drawn from the draw
// callback, so the collected state is guarded by a mutex.
type Events struct {
	mu      sync.Mutex
	x, y    float64
	pressed bool
	wheelX  float64
	wheelY  float64
	toggle  bool
	quit    bool

	input host.Input
}

// Attach registers the callbacks on src. Sources that deliver unified
// pointer events are preferred over plain mouse callbacks so that touch and
// pen drags work too.
func (e *Events) Attach(src gpucontext.EventSource) {
	if ps, ok := src.(gpucontext.PointerEventSource); ok {
		ps.OnPointer(e.pointer)
	} else {
		src.OnMouseMove(e.move)
		src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
			if b == gpucontext.MouseButtonLeft {
				e.button(x, y, true)
			}
		})
		src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
			if b == gpucontext.MouseButtonLeft {
				e.button(x, y, false)
			}
		})
	}
	src.OnScroll(e.scroll)
	src.OnKeyPress(e.key)
}

func (e *Events) pointer(ev gpucontext.PointerEvent) {
	if !ev.IsPrimary {
		return
	}
	switch ev.Type {
	case gpucontext.PointerDown, gpucontext.PointerUp, gpucontext.PointerMove:
		e.button(ev.X, ev.Y, ev.Buttons.HasLeft())
	case gpucontext.PointerCancel, gpucontext.PointerLeave:
		e.button(ev.X, ev.Y, false)
	}
}

func (e *Events) move(x, y float64) {
	e.mu.Lock()
	e.x, e.y = x, y
	e.mu.Unlock()
}

func (e *Events) button(x, y float64, pressed bool) {
	e.mu.Lock()
	e.x, e.y = x, y
	e.pressed = pressed
	e.mu.Unlock()
}

// scroll receives deltas that are already positive when scrolling down.
func (e *Events) scroll(dx, dy float64) {
	e.mu.Lock()
	e.wheelX += dx
	e.wheelY += dy
	e.mu.Unlock()
}

func (e *Events) key(k gpucontext.Key, _ gpucontext.Modifiers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch k {
	case gpucontext.KeyO:
		e.toggle = !e.toggle
	case gpucontext.KeyEscape:
		e.quit = true
	}
}

// Apply forwards the input collected since the last call to s: the pointer
// state and accumulated wheel movement go to the demo, O toggles the
// overlay. It reports whether Escape was pressed.
func (e *Events) Apply(s *host.Session) (quit bool) {
	e.mu.Lock()
	x, y, pressed := e.x, e.y, e.pressed
	dx, dy := e.wheelX, e.wheelY
	e.wheelX, e.wheelY = 0, 0
	toggle := e.toggle
	e.toggle = false
	quit = e.quit
	e.mu.Unlock()

	e.input.Pointer(s.Demo, x, y, pressed)
	e.input.Wheel(s.Demo, dx, dy)
	if toggle {
		s.ShowOverlay = !s.ShowOverlay
	}
	return quit
}
