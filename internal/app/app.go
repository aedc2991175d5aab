// Package app wires the window, scene and render pipeline and runs the frame loop.
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/config"
	"github.com/Faultbox/virtual-world/internal/engine/camera"
	"github.com/Faultbox/virtual-world/internal/engine/controls"
	"github.com/Faultbox/virtual-world/internal/engine/debug"
	"github.com/Faultbox/virtual-world/internal/engine/framebuffer"
	"github.com/Faultbox/virtual-world/internal/engine/geometry"
	"github.com/Faultbox/virtual-world/internal/engine/hotreload"
	"github.com/Faultbox/virtual-world/internal/engine/input"
	"github.com/Faultbox/virtual-world/internal/engine/particles"
	"github.com/Faultbox/virtual-world/internal/engine/render"
	"github.com/Faultbox/virtual-world/internal/engine/renderer"
	"github.com/Faultbox/virtual-world/internal/engine/scene"
	"github.com/Faultbox/virtual-world/internal/engine/scene/shaders"
	"github.com/Faultbox/virtual-world/internal/engine/texture"
	"github.com/Faultbox/virtual-world/internal/engine/window"
	"github.com/Faultbox/virtual-world/internal/logger"
)

// reloadable is a drawable whose shader can be rebuilt at runtime.
type reloadable interface {
	Reload(lib *shaders.Library) error
}

// App is the running world.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window     *window.Window
	camera     *camera.Camera
	controller *controls.Controller
	input      *input.Input

	reflection *framebuffer.Framebuffer
	refraction *framebuffer.Framebuffer
	screen     *framebuffer.Screen

	terrain *scene.Terrain
	water   *scene.Water
	skybox  *scene.Skybox
	snow    *scene.Snow
	flakes  *particles.System

	pipeline *render.Pipeline
	library  *shaders.Library
	watcher  *hotreload.Watcher
	programs map[string]reloadable
	capture  *debug.Capture

	running bool
}

// New creates the window and GL context and loads the scene. Only window,
// context and render target failures are returned; missing assets degrade.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}

	a.log.Info("world initialized")
	return a, nil
}

func (a *App) init() error {
	cfg := a.cfg

	a.log.Info("initializing world",
		zap.String("title", cfg.Graphics.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		GrabMouse:  true,
	}, logger.Named("window"))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	if _, err = renderer.Init(logger.Named("gl")); err != nil {
		return err
	}

	a.camera = camera.New(cameraConfig(cfg.Camera), cfg.Graphics.Width, cfg.Graphics.Height)
	a.controller = controls.New(a.camera)
	a.input = input.New(a.controller)
	a.capture = debug.NewCapture(cfg.Assets.CaptureDir, "world")

	if err = a.createTargets(); err != nil {
		return err
	}

	a.library = &shaders.Library{Dir: cfg.Assets.ShaderDir}
	if cfg.Assets.WatchShaders {
		a.startWatcher()
	}

	if err = a.loadScene(); err != nil {
		return err
	}

	a.pipeline, err = render.New(a.camera,
		render.Targets{
			Reflection: a.reflection,
			Refraction: a.refraction,
			Screen:     a.screen,
		},
		a.renderScene(),
		render.Options{
			WaterHeight:        cfg.Scene.WaterHeight,
			ClearColor:         mgl32.Vec4(cfg.Graphics.ClearColor),
			DisabledClipHeight: cfg.Scene.DisabledClipHeight,
		},
		logger.Named("render"),
	)
	if err != nil {
		return fmt.Errorf("creating render pipeline: %w", err)
	}
	return nil
}

func cameraConfig(c config.CameraConfig) camera.Config {
	return camera.Config{
		Position:    mgl32.Vec3(c.Position),
		FOV:         c.FOV,
		Speed:       c.Speed,
		Sensitivity: c.Sensitivity,
		Near:        c.Near,
		Far:         c.Far,
	}
}

func (a *App) createTargets() error {
	w := a.cfg.Water

	var err error
	a.reflection, err = framebuffer.New(int32(w.ReflectionWidth), int32(w.ReflectionHeight))
	if err != nil {
		return fmt.Errorf("reflection surface: %w", err)
	}
	a.refraction, err = framebuffer.New(int32(w.RefractionWidth), int32(w.RefractionHeight))
	if err != nil {
		return fmt.Errorf("refraction surface: %w", err)
	}

	dw, dh := a.window.DrawableSize()
	a.screen = framebuffer.NewScreen(int32(dw), int32(dh))

	a.log.Debug("render targets created",
		zap.Int("reflection_width", w.ReflectionWidth),
		zap.Int("reflection_height", w.ReflectionHeight),
		zap.Int("refraction_width", w.RefractionWidth),
		zap.Int("refraction_height", w.RefractionHeight),
		zap.Int("screen_width", dw),
		zap.Int("screen_height", dh),
	)
	return nil
}

func (a *App) startWatcher() {
	dir := a.cfg.Assets.ShaderDir
	if dir == "" {
		a.log.Warn("shader watching needs a shader directory, disabled")
		return
	}
	if err := shaders.Export(dir); err != nil {
		a.log.Warn("could not export shaders", zap.String("dir", dir), zap.Error(err))
		return
	}

	w, err := hotreload.Watch(dir, logger.Named("hotreload"), ".vert", ".frag")
	if err != nil {
		a.log.Warn("shader watching disabled", zap.Error(err))
		return
	}
	a.watcher = w
}

func (a *App) loadScene() error {
	s := a.cfg.Scene
	texDir := a.cfg.Assets.TextureDir
	sky := mgl32.Vec3(s.SkyColor)

	grid := geometry.GridConfig{
		SizeX:       s.SizeX,
		SizeY:       s.SizeY,
		ResolutionX: s.ResolutionX,
		ResolutionY: s.ResolutionY,
		Restart:     s.RestartIndex,
		Height:      a.heightFunc(),
	}

	var err error
	a.terrain, err = scene.NewTerrain(scene.TerrainConfig{
		Grid:        grid,
		WaterHeight: s.WaterHeight,
		SkyColor:    sky,
		LightPos:    mgl32.Vec3(s.LightPos),
		Amplitude:   s.TerrainAmplitude,
		TextureDir:  texDir,
	}, a.library, logger.Named("scene.terrain"))
	if err != nil {
		return err
	}

	a.water, err = scene.NewWater(scene.WaterConfig{
		SizeX:      s.SizeX,
		SizeY:      s.SizeY,
		Height:     s.WaterHeight,
		WaveSpeed:  a.cfg.Water.WaveSpeed,
		TextureDir: texDir,
	}, a.reflection, a.refraction, a.library, logger.Named("scene.water"))
	if err != nil {
		return err
	}

	a.skybox, err = scene.NewSkybox(scene.SkyboxConfig{
		TextureDir: texDir,
		SkyColor:   sky,
	}, a.library, logger.Named("scene.skybox"))
	if err != nil {
		return err
	}

	a.programs = map[string]reloadable{
		shaders.Terrain: a.terrain,
		shaders.Water:   a.water,
		shaders.Skybox:  a.skybox,
	}

	if sc := a.cfg.Snow; sc.Enabled {
		a.flakes = particles.New(particles.Config{
			Capacity:      sc.Count,
			Gravity:       sc.Gravity,
			GravityEffect: sc.GravityEffect,
			Life:          sc.Life,
			Spread:        mgl32.Vec3(sc.Spread),
			Height:        particles.DefaultConfig().Height,
			Drift:         particles.DefaultConfig().Drift,
		}, nil)
		a.snow = scene.NewSnow(a.flakes, sc.PointSize, a.library, logger.Named("scene.snow"))
		a.programs[shaders.Snow] = a.snow
	}

	return nil
}

// heightFunc samples the configured heightmap, or returns nil for a flat grid.
func (a *App) heightFunc() geometry.HeightFunc {
	name := a.cfg.Scene.Heightmap
	if name == "" {
		return nil
	}

	path := filepath.Join(a.cfg.Assets.TextureDir, name)
	hm, err := texture.LoadHeightmap(path)
	if err != nil {
		a.log.Warn("heightmap unavailable, terrain is flat", zap.String("file", path), zap.Error(err))
		return nil
	}

	sx, sy := a.cfg.Scene.SizeX, a.cfg.Scene.SizeY
	return func(x, y float32) float32 {
		return hm.Sample(x/sx+0.5, y/sy+0.5)
	}
}

func (a *App) renderScene() render.Scene {
	s := render.Scene{
		Terrain: a.terrain,
		Water:   a.water,
		Skybox:  a.skybox,
	}
	if a.snow != nil {
		s.Extras = append(s.Extras, a.snow)
	}
	return s
}

// Close releases every resource. It is safe on a partially built App.
func (a *App) Close() {
	a.log.Info("closing world")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Debug("closing watcher", zap.Error(err))
		}
		a.watcher = nil
	}
	if a.snow != nil {
		a.snow.Destroy()
		a.snow = nil
	}
	if a.skybox != nil {
		a.skybox.Destroy()
		a.skybox = nil
	}
	if a.water != nil {
		a.water.Destroy()
		a.water = nil
	}
	if a.terrain != nil {
		a.terrain.Destroy()
		a.terrain = nil
	}
	if a.refraction != nil {
		a.refraction.Destroy()
		a.refraction = nil
	}
	if a.reflection != nil {
		a.reflection.Destroy()
		a.reflection = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}

// reload rebuilds the named programs, or all of them when names is empty.
func (a *App) reload(names ...string) {
	if len(names) == 0 {
		for name := range a.programs {
			names = append(names, name)
		}
	}

	var errs []error
	for _, name := range names {
		d, ok := a.programs[name]
		if !ok {
			continue
		}
		if err := d.Reload(a.library); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.log.Warn("shader reload kept previous programs", zap.Error(err))
		return
	}
	a.log.Info("shaders reloaded", zap.Strings("programs", names))
}
