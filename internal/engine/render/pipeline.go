package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/engine/camera"
)

// DefaultDisabledClipHeight is far outside the scene bounds.
const DefaultDisabledClipHeight = 1000

var (
	// ErrTargetBound is reported when a pass tries to bind a surface while another is bound.
	ErrTargetBound = errors.New("another render target is already bound")

	errMissing = errors.New("missing pipeline component")
)

// Options tunes the pipeline.
type Options struct {
	WaterHeight        float32
	ClearColor         mgl32.Vec4
	DisabledClipHeight float32 // 0 selects DefaultDisabledClipHeight
}

// Targets are the surfaces the passes render into.
type Targets struct {
	Reflection Surface
	Refraction Surface
	Screen     Surface
}

// Scene lists the drawables. Extras are drawn last in the main pass.
type Scene struct {
	Terrain Drawable
	Water   Drawable
	Skybox  Drawable
	Extras  []Drawable
}

// Stats counts pipeline activity since creation.
type Stats struct {
	Frames       uint64
	DrawFailures uint64
	BindFailures uint64
}

type failureKey struct {
	pass Pass
	name string
}

// Pipeline renders reflection, refraction and main passes every frame.
type Pipeline struct {
	camera  *camera.Camera
	targets Targets
	scene   Scene
	opts    Options
	log     *zap.Logger

	bound  Surface
	frame  Frame
	failed map[failureKey]struct{}
	extras []string
	stats  Stats
}

// New creates a pipeline. All targets, the camera and the three core drawables are required.
func New(cam *camera.Camera, targets Targets, scene Scene, opts Options, log *zap.Logger) (*Pipeline, error) {
	switch {
	case cam == nil:
		return nil, fmt.Errorf("camera: %w", errMissing)
	case targets.Reflection == nil, targets.Refraction == nil, targets.Screen == nil:
		return nil, fmt.Errorf("render targets: %w", errMissing)
	case scene.Terrain == nil, scene.Water == nil, scene.Skybox == nil:
		return nil, fmt.Errorf("scene drawables: %w", errMissing)
	}
	if opts.DisabledClipHeight == 0 {
		opts.DisabledClipHeight = DefaultDisabledClipHeight
	}
	if log == nil {
		log = zap.NewNop()
	}

	// Names are built once so logging a failure never formats in the frame loop.
	extras := make([]string, len(scene.Extras))
	for i := range scene.Extras {
		extras[i] = fmt.Sprintf("extra[%d]", i)
	}

	return &Pipeline{
		camera:  cam,
		targets: targets,
		scene:   scene,
		opts:    opts,
		log:     log,
		failed:  make(map[failureKey]struct{}),
		extras:  extras,
	}, nil
}

// Options returns the active options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Stats returns counters since creation.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Render executes the three passes in order for the given time in seconds.
func (p *Pipeline) Render(time float32) {
	p.frame.Time = time
	p.reflectionPass()
	p.refractionPass()
	p.mainPass()
	p.stats.Frames++
}

// reflectionPass renders sky and terrain above the water from the mirrored camera.
func (p *Pipeline) reflectionPass() {
	saved := p.camera.Mirror(p.opts.WaterHeight)
	defer saved.Restore()

	unbind, ok := p.bind(PassReflection, p.targets.Reflection)
	if !ok {
		return
	}
	defer p.release(unbind)

	p.clear(p.targets.Reflection)
	p.begin(PassReflection, ReflectionClip(p.opts.WaterHeight))
	p.draw("skybox", p.scene.Skybox)
	p.draw("terrain", p.scene.Terrain)
}

// refractionPass renders the terrain below the water from the real camera.
func (p *Pipeline) refractionPass() {
	unbind, ok := p.bind(PassRefraction, p.targets.Refraction)
	if !ok {
		return
	}
	defer p.release(unbind)

	p.clear(p.targets.Refraction)
	p.begin(PassRefraction, RefractionClip(p.opts.WaterHeight))
	p.draw("terrain", p.scene.Terrain)
}

// mainPass composites the full scene and the water surface onto the screen.
func (p *Pipeline) mainPass() {
	unbind, ok := p.bind(PassMain, p.targets.Screen)
	if !ok {
		return
	}
	defer p.release(unbind)

	p.clear(p.targets.Screen)
	p.begin(PassMain, DisabledClip(p.opts.DisabledClipHeight))
	p.draw("terrain", p.scene.Terrain)
	p.draw("skybox", p.scene.Skybox)
	p.draw("water", p.scene.Water)
	for i, d := range p.scene.Extras {
		p.draw(p.extras[i], d)
	}
}

func (p *Pipeline) bind(pass Pass, s Surface) (func(), bool) {
	if p.bound != nil {
		p.stats.BindFailures++
		p.report(failureKey{pass: pass, name: "target"}, ErrTargetBound)
		return nil, false
	}
	p.bound = s
	return s.BindTarget(), true
}

func (p *Pipeline) release(unbind func()) {
	p.bound = nil
	unbind()
}

func (p *Pipeline) clear(s Surface) {
	c := p.opts.ClearColor
	s.Clear(c[0], c[1], c[2], c[3])
}

// begin snapshots the camera matrices for the pass.
func (p *Pipeline) begin(pass Pass, clip ClipPlane) {
	p.frame.Pass = pass
	p.frame.View = p.camera.ViewMatrix()
	p.frame.Projection = p.camera.ProjectionMatrix()
	p.frame.Eye = p.camera.Position
	p.frame.Clip = clip
}

func (p *Pipeline) draw(name string, d Drawable) {
	if d == nil {
		return
	}

	key := failureKey{pass: p.frame.Pass, name: name}
	if err := d.Draw(&p.frame); err != nil {
		p.stats.DrawFailures++
		p.report(key, err)
		return
	}

	if _, ok := p.failed[key]; ok {
		delete(p.failed, key)
		p.log.Info("drawable recovered",
			zap.Stringer("pass", key.pass),
			zap.String("drawable", key.name),
		)
	}
}

// report logs a failure at WARN the first time and at DEBUG while it persists.
func (p *Pipeline) report(key failureKey, err error) {
	fields := []zap.Field{
		zap.Stringer("pass", key.pass),
		zap.String("drawable", key.name),
		zap.Error(err),
	}
	if _, seen := p.failed[key]; seen {
		p.log.Debug("draw still failing", fields...)
		return
	}
	p.failed[key] = struct{}{}
	p.log.Warn("draw failed, continuing degraded", fields...)
}
