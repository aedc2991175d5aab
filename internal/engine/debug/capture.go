// Package debug writes GL surfaces to disk for inspection.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/virtual-world/internal/engine/texture"
)

// PixelSource is a surface whose color buffer can be read back as bottom-up RGBA rows.
type PixelSource interface {
	ReadPixels() []byte
	Size() (width, height int32)
}

// Capture writes timestamped PNG captures into a directory.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewCapture creates a capture handler. An empty dir writes to the working directory.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Source reads src and writes it as <prefix>_<name>_<timestamp>.png.
func (c *Capture) Source(name string, src PixelSource) (string, error) {
	w, h := src.Size()
	return c.FromPixels(name, src.ReadPixels(), int(w), int(h))
}

// FromPixels saves raw RGBA pixels with width*height*4 bytes, flipping them
// upright since GL rows start at the bottom.
func (c *Capture) FromPixels(name string, pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := &image.RGBA{
		Pix:    make([]byte, len(pixels)),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	copy(img.Pix, pixels)
	texture.FlipVertical(img)

	return c.save(name, img)
}

func (c *Capture) save(name string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename(name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}

// Filename returns the path a capture of name would be written to now.
func (c *Capture) Filename(name string) string {
	timestamp := c.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s_%s.png", c.prefix, name, timestamp)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}
