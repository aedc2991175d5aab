// Package scene holds the GL drawables of the world: terrain, water, skybox and snow.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/engine/binding"
	"github.com/Faultbox/virtual-world/internal/engine/scene/shaders"
	"github.com/Faultbox/virtual-world/internal/engine/shader"
)

// ErrNoProgram is returned by Draw when the drawable never linked a shader.
var ErrNoProgram = errors.New("no shader program")

// program is a linked shader plus its resolved uniform table.
type program struct {
	name  string
	table any
	prog  *shader.Program
	log   *zap.Logger
}

func newProgram(name string, table any, log *zap.Logger) *program {
	return &program{name: name, table: table, log: log}
}

// load compiles the named program from lib. On failure the previous program,
// if any, stays active and the error is returned.
func (p *program) load(lib *shaders.Library) error {
	src, err := lib.Load(p.name)
	if err != nil {
		p.log.Warn("shader source unavailable", zap.String("program", p.name), zap.Error(err))
		return err
	}

	prog, err := shader.Compile(src.Vertex, src.Fragment)
	if err != nil {
		fields := []zap.Field{zap.String("program", p.name), zap.Error(err)}
		var ce *shader.CompileError
		if errors.As(err, &ce) {
			fields = append(fields, zap.String("stage", string(ce.Stage)), zap.String("file", fileFor(src, ce.Stage)))
		}
		p.log.Warn("shader build failed", fields...)
		return fmt.Errorf("%s shader: %w", p.name, err)
	}

	if err := p.resolve(prog.Uniform); err != nil {
		prog.Delete()
		return err
	}

	if p.prog != nil {
		p.prog.Delete()
	}
	p.prog = prog
	p.log.Info("shader loaded", zap.String("program", p.name), zap.String("vertex", src.VertexFile), zap.String("fragment", src.FragmentFile))
	return nil
}

// resolve fills the uniform table from lookup. A malformed table is logged at
// WARN since constructors do not check load errors.
func (p *program) resolve(lookup binding.LookupFunc) error {
	missing, err := binding.Resolve(p.table, lookup)
	if err != nil {
		p.log.Warn("uniform table rejected", zap.String("program", p.name), zap.Error(err))
		return fmt.Errorf("%s uniforms: %w", p.name, err)
	}
	if len(missing) > 0 {
		p.log.Debug("inactive uniforms", zap.String("program", p.name), zap.Strings("uniforms", missing))
	}
	return nil
}

// use makes the program current, or reports ErrNoProgram.
func (p *program) use() error {
	if p.prog == nil {
		return fmt.Errorf("%s: %w", p.name, ErrNoProgram)
	}
	p.prog.Use()
	return nil
}

func (p *program) destroy() {
	if p.prog != nil {
		p.prog.Delete()
		p.prog = nil
	}
}

func fileFor(src shaders.Source, stage shader.Stage) string {
	switch stage {
	case shader.StageVertex:
		return src.VertexFile
	case shader.StageFragment:
		return src.FragmentFile
	default:
		return src.VertexFile + "+" + src.FragmentFile
	}
}
