package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/engine/controls"
	"github.com/Faultbox/virtual-world/internal/engine/debug"
	"github.com/Faultbox/virtual-world/internal/engine/input"
	"github.com/Faultbox/virtual-world/internal/engine/renderer"
	"github.com/Faultbox/virtual-world/internal/engine/scene/shaders"
)

// Run drives the frame loop until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.running = true

	start := time.Now()
	lastTime := start
	frameCount := 0
	fpsTimer := start
	var emitCarry float32

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		elapsed := float32(now.Sub(start).Seconds())
		lastTime = now

		// 1. Process input
		a.input.Update()
		for _, event := range a.input.Events() {
			if event.Type == input.EventWindowResize {
				a.resize()
			}
		}

		actions := a.controller.Update()
		if actions.Has(controls.ActionQuit) {
			a.running = false
			break
		}
		if actions.Has(controls.ActionReload) {
			a.reload()
		}
		a.pollShaderChanges()

		// 2. Update simulation
		if a.flakes != nil {
			emitCarry += float32(a.cfg.Snow.EmitRate) * dt
			n := int(emitCarry)
			emitCarry -= float32(n)
			a.flakes.Emit(a.camera.Position, elapsed, n)
			a.flakes.Update(elapsed, dt)
		}

		// 3. Render
		a.pipeline.Render(elapsed)
		renderer.CheckError(a.log, "frame")

		if actions.Has(controls.ActionCapture) {
			a.captureAll()
		}

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			stats := a.pipeline.Stats()
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				zap.Uint64("draw_failures", stats.DrawFailures),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) resize() {
	w, h := a.window.Size()
	dw, dh := a.window.DrawableSize()
	a.camera.SetAspect(w, h)
	a.screen.Resize(int32(dw), int32(dh))
	a.log.Debug("window resized", zap.Int("width", dw), zap.Int("height", dh))
}

func (a *App) pollShaderChanges() {
	if a.watcher == nil {
		return
	}
	changed := a.watcher.Changes()
	if len(changed) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(changed))
	var programs []string
	for _, file := range changed {
		name, ok := shaders.ProgramFor(file)
		if !ok {
			continue
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			programs = append(programs, name)
		}
	}
	if len(programs) > 0 {
		a.reload(programs...)
	}
}

// captureAll writes the screen and both offscreen surfaces to the capture directory.
func (a *App) captureAll() {
	sources := []struct {
		name string
		src  debug.PixelSource
	}{
		{"screen", a.screen},
		{"reflection", a.reflection},
		{"refraction", a.refraction},
	}

	for _, s := range sources {
		path, err := a.capture.Source(s.name, s.src)
		if err != nil {
			a.log.Warn("capture failed", zap.String("surface", s.name), zap.Error(err))
			continue
		}
		a.log.Info("capture saved", zap.String("surface", s.name), zap.String("file", path))
	}
}
