package config

import (
	"errors"
	"fmt"
	"math"
)

// Field limits shared with the camera.
const (
	MinFOV = 1
	MaxFOV = 80
)

// Validate reports every setting that would make the world unrenderable.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}

	s := c.Scene
	if s.SizeX <= 0 || s.SizeY <= 0 {
		errs = append(errs, fmt.Errorf("scene: grid size %gx%g must be positive", s.SizeX, s.SizeY))
	}
	if s.ResolutionX < 2 || s.ResolutionY < 2 {
		errs = append(errs, fmt.Errorf("scene: resolution %dx%d must be at least 2x2", s.ResolutionX, s.ResolutionY))
	} else {
		restart := uint64(s.RestartIndex)
		if restart == 0 {
			restart = math.MaxUint32
		}
		if uint64(s.ResolutionX)*uint64(s.ResolutionY) >= restart {
			errs = append(errs, fmt.Errorf("scene: %dx%d vertices collide with restart index %d", s.ResolutionX, s.ResolutionY, restart))
		}
	}

	w := c.Water
	if w.ReflectionWidth <= 0 || w.ReflectionHeight <= 0 {
		errs = append(errs, fmt.Errorf("water: reflection size %dx%d must be positive", w.ReflectionWidth, w.ReflectionHeight))
	}
	if w.RefractionWidth <= 0 || w.RefractionHeight <= 0 {
		errs = append(errs, fmt.Errorf("water: refraction size %dx%d must be positive", w.RefractionWidth, w.RefractionHeight))
	}

	cam := c.Camera
	if cam.FOV < MinFOV || cam.FOV > MaxFOV {
		errs = append(errs, fmt.Errorf("camera: fov %g outside [%d, %d]", cam.FOV, MinFOV, MaxFOV))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("camera: clip range near=%g far=%g is invalid", cam.Near, cam.Far))
	}

	if c.Snow.Enabled && c.Snow.Count <= 0 {
		errs = append(errs, fmt.Errorf("snow: count %d must be positive when enabled", c.Snow.Count))
	}

	return errors.Join(errs...)
}
