package framebuffer

// Screen is the window's default framebuffer as a render target.
type Screen struct {
	width  int32
	height int32
}

// NewScreen creates a screen target for a drawable area of width x height pixels.
func NewScreen(width, height int32) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Resize tracks the drawable size after a window resize.
func (s *Screen) Resize(width, height int32) {
	s.width = max(width, 1)
	s.height = max(height, 1)
}

// Size returns the drawable size.
func (s *Screen) Size() (width, height int32) {
	return s.width, s.height
}

// BindTarget binds framebuffer 0 with the full-window viewport.
func (s *Screen) BindTarget() func() {
	return bindSaved(0, s.width, s.height)
}

// Clear clears the default framebuffer.
func (s *Screen) Clear(r, g, b, a float32) {
	clearTarget(r, g, b, a)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (s *Screen) ReadPixels() []byte {
	return readPixels(0, s.width, s.height)
}
