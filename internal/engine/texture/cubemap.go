package texture

import (
	"fmt"
	"image"
	"path/filepath"
)

// Cubemap holds six square faces in GL order: +X, -X, +Y, -Y, +Z, -Z.
type Cubemap struct {
	Faces [6]*image.RGBA
	Size  int
}

// LoadCubemap loads the six named faces from dir. Faces of differing sizes are
// scaled to the largest dimension found so the cube stays complete.
func LoadCubemap(dir string, faces [6]string) (*Cubemap, error) {
	cm := &Cubemap{}

	for i, name := range faces {
		img, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("cubemap face %d: %w", i, err)
		}
		cm.Faces[i] = img
		cm.Size = max(cm.Size, img.Rect.Dx(), img.Rect.Dy())
	}

	for i, face := range cm.Faces {
		if face.Rect.Dx() != cm.Size || face.Rect.Dy() != cm.Size {
			cm.Faces[i] = Resize(face, cm.Size, cm.Size)
		}
	}

	return cm, nil
}
