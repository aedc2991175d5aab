// Package controls maps keyboard and mouse input onto the fly camera.
package controls

import (
	"github.com/Faultbox/virtual-world/internal/engine/camera"
)

// Key is a logical key, independent of the windowing backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyF12
	KeyR
	keyCount
)

// Action is a bit set of requests for the application.
type Action uint8

const (
	ActionQuit Action = 1 << iota
	ActionCapture
	ActionReload
)

// Has reports whether a contains all bits of b.
func (a Action) Has(b Action) bool {
	return a&b == b
}

var movement = [...]struct {
	key Key
	dir camera.Direction
}{
	{KeyW, camera.Forward},
	{KeyS, camera.Backward},
	{KeyA, camera.Left},
	{KeyD, camera.Right},
}

// Controller accumulates input between frames and applies it to a camera.
type Controller struct {
	camera  *camera.Camera
	held    [keyCount]bool
	mouseDX float32
	mouseDY float32
	pending Action
}

// New creates a controller driving cam.
func New(cam *camera.Camera) *Controller {
	return &Controller{camera: cam}
}

// KeyDown records a press. Repeats from the OS are delivered as extra presses;
// discrete keys (arrows) act on every press, movement keys on every frame while held.
func (c *Controller) KeyDown(k Key) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	c.held[k] = true

	switch k {
	case KeyUp:
		c.camera.ProcessFovAdjust(-1)
	case KeyDown:
		c.camera.ProcessFovAdjust(1)
	case KeyRight:
		c.camera.ProcessSpeedAdjust(1)
	case KeyLeft:
		c.camera.ProcessSpeedAdjust(-1)
	case KeyEscape:
		c.pending |= ActionQuit
	case KeyF12:
		c.pending |= ActionCapture
	case KeyR:
		c.pending |= ActionReload
	}
}

// KeyUp records a release.
func (c *Controller) KeyUp(k Key) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	c.held[k] = false
}

// Held reports whether k is currently down.
func (c *Controller) Held(k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return c.held[k]
}

// MouseMotion accumulates relative mouse movement in pixels.
func (c *Controller) MouseMotion(dx, dy float32) {
	c.mouseDX += dx
	c.mouseDY += dy
}

// Quit requests application shutdown, e.g. on window close.
func (c *Controller) Quit() {
	c.pending |= ActionQuit
}

// Update applies mouse look and held movement keys for one frame and returns
// the actions requested since the previous Update.
func (c *Controller) Update() Action {
	if c.mouseDX != 0 || c.mouseDY != 0 {
		c.camera.UpdateAngles(c.mouseDX, c.mouseDY)
		c.mouseDX, c.mouseDY = 0, 0
	}

	for _, m := range movement {
		if c.held[m.key] {
			c.camera.ProcessMovement(m.dir)
		}
	}

	a := c.pending
	c.pending = 0
	return a
}
