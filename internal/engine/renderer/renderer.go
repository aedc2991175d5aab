// Package renderer initializes OpenGL and the global pipeline state.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Info describes the active GL implementation.
type Info struct {
	Version  string
	Renderer string
	GLSL     string
}

// Init loads GL function pointers and sets the default state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func Init(log *zap.Logger) (Info, error) {
	if err := gl.Init(); err != nil {
		return Info{}, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	info := Info{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	log.Info("OpenGL initialized",
		zap.String("version", info.Version),
		zap.String("renderer", info.Renderer),
		zap.String("glsl", info.GLSL),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	return info, nil
}

// CheckError drains the GL error queue, logging each error with where.
// It reports whether any error was pending.
func CheckError(log *zap.Logger, where string) bool {
	found := false
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		found = true
		log.Warn("GL error", zap.String("where", where), zap.String("code", fmt.Sprintf("0x%04x", code)))
	}
	return found
}
