package texture

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// Heightmap samples a grayscale image as heights in [0, 1].
type Heightmap struct {
	w, h   int
	values []float32
}

// LoadHeightmap reads an image file and converts it to luminance heights.
func LoadHeightmap(path string) (*Heightmap, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewHeightmap(img), nil
}

// NewHeightmap converts img to luminance heights.
func NewHeightmap(img image.Image) *Heightmap {
	b := img.Bounds()
	hm := &Heightmap{
		w:      b.Dx(),
		h:      b.Dy(),
		values: make([]float32, b.Dx()*b.Dy()),
	}
	for y := 0; y < hm.h; y++ {
		for x := 0; x < hm.w; x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			hm.values[y*hm.w+x] = float32(g.Y) / 0xffff
		}
	}
	return hm
}

// Size returns the sample grid dimensions.
func (hm *Heightmap) Size() (int, int) {
	return hm.w, hm.h
}

// Sample returns the bilinearly filtered height at u, v in [0, 1]; values
// outside are clamped to the border. Image row 0 is v = 1.
func (hm *Heightmap) Sample(u, v float32) float32 {
	if hm.w == 0 || hm.h == 0 {
		return 0
	}

	fx := clamp01(u) * float32(hm.w-1)
	fy := (1 - clamp01(v)) * float32(hm.h-1)

	x0, y0 := int(fx), int(fy)
	x1, y1 := min(x0+1, hm.w-1), min(y0+1, hm.h-1)
	tx, ty := fx-float32(x0), fy-float32(y0)

	top := lerp(hm.at(x0, y0), hm.at(x1, y0), tx)
	bottom := lerp(hm.at(x0, y1), hm.at(x1, y1), tx)
	return lerp(top, bottom, ty)
}

func (hm *Heightmap) at(x, y int) float32 {
	return hm.values[y*hm.w+x]
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
