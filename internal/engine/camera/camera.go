// Package camera provides the free-flying camera used by the water renderer.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit keeps pitch strictly inside (-π/2, π/2).
const pitchLimit = math32.Pi/2 - 0.01

// Speed and field of view bounds.
const (
	MinSpeed       = 0.001
	MaxSpeed       = 1.0
	SpeedIncrement = 0.005
	MinFOV         = 1.0
	MaxFOV         = 80.0
)

// Direction is a movement direction relative to the view.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Config holds the initial camera parameters.
type Config struct {
	Position    mgl32.Vec3
	FOV         float32 // Vertical field of view in degrees
	Speed       float32
	Sensitivity float32
	Near, Far   float32
}

// DefaultConfig returns the startup camera parameters.
func DefaultConfig() Config {
	return Config{
		Position:    mgl32.Vec3{0, 0, 3},
		FOV:         80,
		Speed:       0.01,
		Sensitivity: 0.005,
		Near:        0.1,
		Far:         60,
	}
}

// Camera is a Z-up fly camera driven by yaw and pitch.
type Camera struct {
	// Position is the eye position in world space.
	Position mgl32.Vec3

	// Orientation (radians). Yaw 0 looks along +Y, pitch > 0 looks up.
	Yaw   float32
	Pitch float32

	FOV         float32
	Speed       float32
	Sensitivity float32
	Near, Far   float32
	Aspect      float32

	forward mgl32.Vec3
	up      mgl32.Vec3
}

// New creates a camera for a viewport of the given size, looking along -Y.
func New(cfg Config, width, height int) *Camera {
	c := &Camera{
		Position:    cfg.Position,
		Yaw:         math32.Pi,
		FOV:         cfg.FOV,
		Speed:       cfg.Speed,
		Sensitivity: cfg.Sensitivity,
		Near:        cfg.Near,
		Far:         cfg.Far,
		Aspect:      1,
		up:          mgl32.Vec3{0, 0, 1},
	}
	c.SetAspect(width, height)
	c.updateForward()
	return c
}

// Forward returns the normalized view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.forward
}

// Up returns the fixed up vector.
func (c *Camera) Up() mgl32.Vec3 {
	return c.up
}

// SetAspect updates the aspect ratio from viewport dimensions.
func (c *Camera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// UpdateAngles applies a mouse delta to yaw and pitch.
func (c *Camera) UpdateAngles(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch += -dy * c.Sensitivity
	c.clampPitch()
	c.updateForward()
}

// InvertPitch mirrors the view direction about the horizontal plane.
// Calling it twice restores the original orientation.
func (c *Camera) InvertPitch() {
	c.Pitch = -c.Pitch
	c.clampPitch()
	c.updateForward()
}

// Snapshot is a saved camera height and pitch.
type Snapshot struct {
	c     *Camera
	z     float32
	pitch float32
}

// Restore puts the camera back exactly as it was when the snapshot was taken.
func (s Snapshot) Restore() {
	s.c.Position[2] = s.z
	s.c.Pitch = s.pitch
	s.c.updateForward()
}

// Mirror moves the camera to its mirror image below the plane z = waterHeight and
// inverts pitch. The returned snapshot restores the exact prior position and pitch.
func (c *Camera) Mirror(waterHeight float32) Snapshot {
	saved := Snapshot{c: c, z: c.Position[2], pitch: c.Pitch}

	distance := 2 * (c.Position[2] - waterHeight)
	c.Position[2] -= distance
	c.InvertPitch()

	return saved
}

// ViewMatrix returns the right-handed look-at matrix for the current state.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.forward), c.up)
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ProcessMovement translates the camera one speed step in the given direction.
func (c *Camera) ProcessMovement(dir Direction) {
	right := c.forward.Cross(c.up).Normalize()

	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.forward.Mul(c.Speed))
	case Backward:
		c.Position = c.Position.Sub(c.forward.Mul(c.Speed))
	case Left:
		c.Position = c.Position.Sub(right.Mul(c.Speed))
	case Right:
		c.Position = c.Position.Add(right.Mul(c.Speed))
	}
}

// ProcessSpeedAdjust changes speed by steps of SpeedIncrement.
func (c *Camera) ProcessSpeedAdjust(steps int) {
	c.Speed = clamp(c.Speed+float32(steps)*SpeedIncrement, MinSpeed, MaxSpeed)
}

// ProcessFovAdjust changes the field of view by whole degrees.
func (c *Camera) ProcessFovAdjust(degrees int) {
	c.FOV = clamp(c.FOV+float32(degrees), MinFOV, MaxFOV)
}

func (c *Camera) clampPitch() {
	c.Pitch = clamp(c.Pitch, -pitchLimit, pitchLimit)
}

func (c *Camera) updateForward() {
	sy, cy := math32.Sin(c.Yaw), math32.Cos(c.Yaw)
	sp, cp := math32.Sin(c.Pitch), math32.Cos(c.Pitch)
	c.forward = mgl32.Vec3{sy * cp, cy * cp, sp}.Normalize()
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
