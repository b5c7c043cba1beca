package host

import "github.com/gogpu/g3d/demo"

// Input turns polled pointer state into the demo's optional input handlers.
// The zero value is ready to use.
type Input struct {
	dragging     bool
	lastX, lastY float64
}

// Pointer reports the cursor position and button state for one frame. While
// the button stays pressed, movement is forwarded as a drag.
func (in *Input) Pointer(d demo.Demo, x, y float64, pressed bool) {
	if !pressed {
		in.dragging = false
		return
	}
	if in.dragging {
		dx, dy := x-in.lastX, y-in.lastY
		if h, ok := d.(demo.PointerHandler); ok && (dx != 0 || dy != 0) {
			h.Drag(dx, dy)
		}
	}
	in.dragging = true
	in.lastX, in.lastY = x, y
}

// Wheel forwards a wheel movement. dy is positive when scrolling down.
// Frames without movement are dropped.
func (in *Input) Wheel(d demo.Demo, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	if h, ok := d.(demo.WheelHandler); ok {
		h.Wheel(dx, dy)
	}
}

// WheelFromOffset converts a wheel offset that is positive when scrolling up
// or left, as reported by GLFW-style windowing libraries, into the
// scroll-down-positive deltas Wheel expects.
func WheelFromOffset(xoff, yoff float64) (dx, dy float64) {
	return -xoff, -yoff
}
