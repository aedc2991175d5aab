package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/virtual-world/internal/engine/camera"
)

// recorder collects every bind, clear and draw in call order.
type recorder struct {
	events []string
	frames []Frame
	cam    *camera.Camera
	camZ   []float32
	pitch  []float32
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type fakeSurface struct {
	name string
	rec  *recorder
}

func (s *fakeSurface) BindTarget() func() {
	s.rec.add("bind %s", s.name)
	return func() { s.rec.add("unbind %s", s.name) }
}

func (s *fakeSurface) Clear(r, g, b, a float32) {
	s.rec.add("clear %s", s.name)
}

type fakeDrawable struct {
	name string
	rec  *recorder
	err  error
}

func (d *fakeDrawable) Draw(f *Frame) error {
	d.rec.add("draw %s %s", d.name, f.Pass)
	d.rec.frames = append(d.rec.frames, *f)
	d.rec.camZ = append(d.rec.camZ, d.rec.cam.Position.Z())
	d.rec.pitch = append(d.rec.pitch, d.rec.cam.Pitch)
	return d.err
}

type fixture struct {
	rec      *recorder
	cam      *camera.Camera
	terrain  *fakeDrawable
	water    *fakeDrawable
	skybox   *fakeDrawable
	pipeline *Pipeline
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, extras ...Drawable) *fixture {
	t.Helper()

	cam := camera.New(camera.DefaultConfig(), 1280, 720)
	rec := &recorder{cam: cam}
	f := &fixture{
		rec:     rec,
		cam:     cam,
		terrain: &fakeDrawable{name: "terrain", rec: rec},
		water:   &fakeDrawable{name: "water", rec: rec},
		skybox:  &fakeDrawable{name: "skybox", rec: rec},
	}

	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs

	p, err := New(cam,
		Targets{
			Reflection: &fakeSurface{name: "reflection", rec: rec},
			Refraction: &fakeSurface{name: "refraction", rec: rec},
			Screen:     &fakeSurface{name: "screen", rec: rec},
		},
		Scene{Terrain: f.terrain, Water: f.water, Skybox: f.skybox, Extras: extras},
		Options{WaterHeight: 0.7, ClearColor: mgl32.Vec4{0.6, 0.7, 0.8, 1}},
		zap.New(core),
	)
	require.NoError(t, err)
	f.pipeline = p
	return f
}

func TestRenderPassOrder(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Render(1.5)

	want := []string{
		"bind reflection",
		"clear reflection",
		"draw skybox reflection",
		"draw terrain reflection",
		"unbind reflection",
		"bind refraction",
		"clear refraction",
		"draw terrain refraction",
		"unbind refraction",
		"bind screen",
		"clear screen",
		"draw terrain main",
		"draw skybox main",
		"draw water main",
		"unbind screen",
	}
	assert.Equal(t, want, f.rec.events)
	assert.Equal(t, uint64(1), f.pipeline.Stats().Frames)

	for _, fr := range f.rec.frames {
		assert.Equal(t, float32(1.5), fr.Time)
	}
}

func TestRenderClipPlanes(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Render(0)

	frames := f.rec.frames
	require.Len(t, frames, 6)

	reflection := ClipPlane{Normal: mgl32.Vec3{0, 0, 1}, Height: -0.7}
	refraction := ClipPlane{Normal: mgl32.Vec3{0, 0, -1}, Height: 0.7}
	disabled := ClipPlane{Normal: mgl32.Vec3{0, 0, -1}, Height: 1000}

	assert.Equal(t, reflection, frames[0].Clip)
	assert.Equal(t, reflection, frames[1].Clip)
	assert.Equal(t, refraction, frames[2].Clip)
	for _, fr := range frames[3:] {
		assert.Equal(t, disabled, fr.Clip)
	}
}

func TestReflectionUsesMirroredCamera(t *testing.T) {
	f := newFixture(t)
	f.cam.UpdateAngles(20, 60)
	z, pitch := f.cam.Position.Z(), f.cam.Pitch

	f.pipeline.Render(0)

	// distance = 2*(3-0.7) = 4.6 -> z = -1.6 during the reflection pass
	assert.InDelta(t, -1.6, f.rec.camZ[0], 1e-5)
	assert.InDelta(t, -1.6, f.rec.frames[0].Eye.Z(), 1e-5)
	assert.Equal(t, -pitch, f.rec.pitch[0])
	assert.Equal(t, -pitch, f.rec.pitch[1])

	// Refraction and main passes see the real camera
	for i := 2; i < len(f.rec.camZ); i++ {
		assert.Equal(t, z, f.rec.camZ[i])
		assert.Equal(t, pitch, f.rec.pitch[i])
	}

	want := f.cam.ViewMatrix()
	assert.Equal(t, want, f.rec.frames[2].View)
	assert.NotEqual(t, want, f.rec.frames[0].View)
	assert.Equal(t, f.cam.ProjectionMatrix(), f.rec.frames[0].Projection)
}

func TestCameraRestoredAfterEveryFrame(t *testing.T) {
	f := newFixture(t)
	f.cam.Position = mgl32.Vec3{0.3, -1.2, 2.2}
	f.cam.UpdateAngles(-15, 25)

	z, pitch, forward := f.cam.Position.Z(), f.cam.Pitch, f.cam.Forward()
	for i := 0; i < 500; i++ {
		f.pipeline.Render(float32(i) / 60)
	}

	assert.Equal(t, z, f.cam.Position.Z())
	assert.Equal(t, pitch, f.cam.Pitch)
	assert.Equal(t, forward, f.cam.Forward())
}

func TestCameraRestoredWhenReflectionDrawPanics(t *testing.T) {
	f := newFixture(t)
	z, pitch := f.cam.Position.Z(), f.cam.Pitch

	f.pipeline.scene.Skybox = DrawFunc(func(fr *Frame) error {
		panic("driver lost")
	})

	assert.Panics(t, func() { f.pipeline.Render(0) })
	assert.Equal(t, z, f.cam.Position.Z())
	assert.Equal(t, pitch, f.cam.Pitch)
	assert.Equal(t, []string{"bind reflection", "clear reflection", "unbind reflection"}, f.rec.events)

	// The surface was released so the next frame binds normally
	f.pipeline.scene.Skybox = f.skybox
	f.rec.events = nil
	f.pipeline.Render(0)
	assert.Equal(t, "bind reflection", f.rec.events[0])
	assert.Zero(t, f.pipeline.Stats().BindFailures)
}

func TestDrawFailureDegradesAndLogsOnce(t *testing.T) {
	f := newFixture(t)
	f.water.err = errors.New("water shader: PROGRAM: link failed")

	for i := 0; i < 5; i++ {
		f.pipeline.Render(0)
	}

	// Everything else still drew every frame
	assert.Equal(t, 5, count(f.rec.events, "draw terrain main"))
	assert.Equal(t, 5, count(f.rec.events, "draw water main"))
	assert.Equal(t, uint64(5), f.pipeline.Stats().DrawFailures)

	warns := f.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	ctx := warns[0].ContextMap()
	assert.Equal(t, "main", ctx["pass"])
	assert.Equal(t, "water", ctx["drawable"])
	assert.Contains(t, ctx["error"], "PROGRAM")
	assert.Equal(t, 4, f.logs.FilterMessage("draw still failing").Len())

	// Recovery is reported
	f.water.err = nil
	f.pipeline.Render(0)
	assert.Equal(t, 1, f.logs.FilterMessage("drawable recovered").Len())
}

func TestNestedBindRefused(t *testing.T) {
	var f *fixture
	reentered := false
	extra := DrawFunc(func(fr *Frame) error {
		if !reentered {
			reentered = true
			f.pipeline.Render(0)
		}
		return nil
	})
	f = newFixture(t, extra)
	z, pitch := f.cam.Position.Z(), f.cam.Pitch

	f.pipeline.Render(0)

	assert.Equal(t, uint64(3), f.pipeline.Stats().BindFailures)
	assert.Equal(t, 1, count(f.rec.events, "bind screen"))
	assert.Equal(t, z, f.cam.Position.Z())
	assert.Equal(t, pitch, f.cam.Pitch)
	assert.GreaterOrEqual(t, f.logs.FilterFieldKey("drawable").FilterMessage("draw failed, continuing degraded").Len(), 1)
}

func TestExtrasDrawnLastInMainPass(t *testing.T) {
	var rec *recorder
	snow := DrawFunc(func(fr *Frame) error {
		rec.add("draw snow %s", fr.Pass)
		return nil
	})
	f := newFixture(t, snow)
	rec = f.rec

	f.pipeline.Render(0)
	n := len(f.rec.events)
	assert.Equal(t, "draw snow main", f.rec.events[n-2])
	assert.Equal(t, "unbind screen", f.rec.events[n-1])
	assert.Equal(t, 1, count(f.rec.events, "draw snow main"))
}

func TestNewValidates(t *testing.T) {
	rec := &recorder{}
	s := &fakeSurface{rec: rec}
	d := &fakeDrawable{rec: rec}
	cam := camera.New(camera.DefaultConfig(), 1, 1)
	targets := Targets{Reflection: s, Refraction: s, Screen: s}
	scene := Scene{Terrain: d, Water: d, Skybox: d}

	_, err := New(nil, targets, scene, Options{}, nil)
	assert.Error(t, err)
	_, err = New(cam, Targets{Reflection: s}, scene, Options{}, nil)
	assert.Error(t, err)
	_, err = New(cam, targets, Scene{Terrain: d}, Options{}, nil)
	assert.Error(t, err)

	p, err := New(cam, targets, scene, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, float32(DefaultDisabledClipHeight), p.Options().DisabledClipHeight)
}

func TestClipPlane(t *testing.T) {
	h := float32(0.5)
	above := mgl32.Vec3{0, 0, 0.8}
	below := mgl32.Vec3{0, 0, 0.2}

	assert.True(t, ReflectionClip(h).Keeps(above))
	assert.False(t, ReflectionClip(h).Keeps(below))
	assert.False(t, RefractionClip(h).Keeps(above))
	assert.True(t, RefractionClip(h).Keeps(below))
	assert.True(t, DisabledClip(1000).Keeps(mgl32.Vec3{5, 5, 999}))

	assert.Equal(t, mgl32.Vec4{0, 0, 1, -0.5}, ReflectionClip(h).Vec4())
	assert.Equal(t, "refraction", PassRefraction.String())
	assert.Equal(t, "unknown", Pass(9).String())
}

func count(events []string, want string) int {
	n := 0
	for _, e := range events {
		if e == want {
			n++
		}
	}
	return n
}
