// Package shaders provides the embedded GLSL sources and an optional on-disk
// override directory for editing them while the world runs.
package shaders

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.vert *.frag
var embedded embed.FS

// Program names.
const (
	Terrain = "terrain"
	Water   = "water"
	Skybox  = "skybox"
	Snow    = "snow"
)

// Source holds the two stages of one program.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
	// Files that supplied the stages, for log context
	VertexFile   string
	FragmentFile string
}

// Library resolves program sources. Files in Dir win over the embedded copies.
type Library struct {
	Dir string
}

// Embedded returns a library with no override directory.
func Embedded() *Library {
	return &Library{}
}

// Load returns the vertex and fragment source of the named program.
func (l *Library) Load(name string) (Source, error) {
	src := Source{Name: name}

	var err error
	src.Vertex, src.VertexFile, err = l.read(name + ".vert")
	if err != nil {
		return Source{}, err
	}
	src.Fragment, src.FragmentFile, err = l.read(name + ".frag")
	if err != nil {
		return Source{}, err
	}
	return src, nil
}

func (l *Library) read(file string) (string, string, error) {
	if l.Dir != "" {
		path := filepath.Join(l.Dir, file)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			return string(data), path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", path, fmt.Errorf("reading shader override: %w", err)
		}
	}

	data, err := embedded.ReadFile(file)
	if err != nil {
		return "", file, fmt.Errorf("shader %s: %w", file, err)
	}
	return string(data), "embedded:" + file, nil
}

// Programs lists the program names available in the embedded set.
func Programs() []string {
	entries, _ := embedded.ReadDir(".")
	seen := make(map[string]struct{})
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".vert"); ok {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProgramFor maps a changed file name back to its program, e.g. "water.frag" -> "water".
func ProgramFor(file string) (string, bool) {
	ext := filepath.Ext(file)
	if ext != ".vert" && ext != ".frag" {
		return "", false
	}
	return strings.TrimSuffix(filepath.Base(file), ext), true
}

// Export writes the embedded sources into dir so they can be edited, leaving
// existing files untouched.
func Export(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating shader dir: %w", err)
	}
	return fs.WalkDir(embedded, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		dst := filepath.Join(dir, path)
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
		data, err := embedded.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}
