// Package particles simulates the snow that falls around the camera.
package particles

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultGravity is the downward acceleration along Z in world units per second squared.
const DefaultGravity = -0.5

// Config describes a particle system.
type Config struct {
	Capacity      int        // Maximum live particles
	Gravity       float32    // Acceleration along Z
	GravityEffect float32    // 1 = fully affected, 0 = floats
	Life          float32    // Seconds a particle lives
	Spread        mgl32.Vec3 // Half extents of the spawn box around the origin
	Height        float32    // Spawn box offset above the origin
	Drift         float32    // Max horizontal speed at spawn
}

// DefaultConfig returns a light snowfall.
func DefaultConfig() Config {
	return Config{
		Capacity:      2000,
		Gravity:       DefaultGravity,
		GravityEffect: 0.3,
		Life:          6,
		Spread:        mgl32.Vec3{4, 4, 0.5},
		Height:        2,
		Drift:         0.05,
	}
}

// Particle is a single flake.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Spawned  float32
	Life     float32
	Scale    float32
}

// Alive reports whether the particle is still within its lifetime at now.
func (p *Particle) Alive(now float32) bool {
	return now-p.Spawned < p.Life
}

// System owns a fixed pool of particles. It does not allocate after New.
type System struct {
	cfg       Config
	particles []Particle
	rng       *rand.Rand
}

// New creates a system. A nil rng uses a randomly seeded source.
func New(cfg Config, rng *rand.Rand) *System {
	if cfg.Capacity < 0 {
		cfg.Capacity = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &System{
		cfg:       cfg,
		particles: make([]Particle, 0, cfg.Capacity),
		rng:       rng,
	}
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

// Cap returns the maximum number of live particles.
func (s *System) Cap() int {
	return cap(s.particles)
}

// Particles exposes the live particles. The slice is reused between frames.
func (s *System) Particles() []Particle {
	return s.particles
}

// Emit spawns up to n particles in the box above origin and returns how many were added.
func (s *System) Emit(origin mgl32.Vec3, now float32, n int) int {
	free := cap(s.particles) - len(s.particles)
	n = min(n, free)

	for i := 0; i < n; i++ {
		pos := mgl32.Vec3{
			origin[0] + s.spread(s.cfg.Spread[0]),
			origin[1] + s.spread(s.cfg.Spread[1]),
			origin[2] + s.cfg.Height + s.spread(s.cfg.Spread[2]),
		}
		vel := mgl32.Vec3{s.spread(s.cfg.Drift), s.spread(s.cfg.Drift), 0}
		s.particles = append(s.particles, Particle{
			Position: pos,
			Velocity: vel,
			Spawned:  now,
			Life:     s.cfg.Life,
			Scale:    0.5 + s.rng.Float32(),
		})
	}
	return n
}

// Update advances every particle by dt and drops the ones that expired at now.
func (s *System) Update(now, dt float32) {
	accel := s.cfg.Gravity * s.cfg.GravityEffect * dt

	live := s.particles[:0]
	for i := range s.particles {
		p := s.particles[i]
		p.Velocity[2] += accel
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		if p.Alive(now) {
			live = append(live, p)
		}
	}
	s.particles = live
}

// Positions writes x, y, z, scale for every live particle into buf, growing it
// only when its capacity is too small.
func (s *System) Positions(buf []float32) []float32 {
	need := len(s.particles) * 4
	if cap(buf) < need {
		buf = make([]float32, need)
	}
	buf = buf[:need]

	for i, p := range s.particles {
		buf[i*4] = p.Position[0]
		buf[i*4+1] = p.Position[1]
		buf[i*4+2] = p.Position[2]
		buf[i*4+3] = p.Scale
	}
	return buf
}

// Reset removes every particle.
func (s *System) Reset() {
	s.particles = s.particles[:0]
}

func (s *System) spread(half float32) float32 {
	if half == 0 {
		return 0
	}
	return (s.rng.Float32()*2 - 1) * math32.Abs(half)
}
