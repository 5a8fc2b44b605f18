package viewport

// Button identifies a pointer button. Hosts translate their own numbering.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// State is everything the renderer feeds to the shader plus the pointer latch
// that drives panning. It is owned by the render thread and is not safe for
// concurrent use.
type State struct {
	Window        Window
	Width         int
	Height        int
	MaxIterations int

	dragging bool
	havePos  bool
	lastX    float64
	lastY    float64
}

// NewState returns a state for a width x height surface with the real axis
// spanning [minReal, maxReal].
func NewState(width, height int, minReal, maxReal float64, maxIterations int) *State {
	return &State{
		Window:        New(width, height, minReal, maxReal),
		Width:         width,
		Height:        height,
		MaxIterations: maxIterations,
	}
}

// Scroll applies a wheel event and reports whether the window changed.
func (s *State) Scroll(deltaY float64) bool {
	if deltaY == 0 {
		return false
	}
	s.Window = s.Window.Zoom(deltaY)
	return true
}

func (s *State) PointerDown(button Button) {
	if button == ButtonPrimary {
		s.dragging = true
	}
}

func (s *State) PointerUp(button Button) {
	if button == ButtonPrimary {
		s.dragging = false
	}
}

// PointerMoved records an absolute pointer position and pans by the movement
// since the previous sample while the primary button is held.
func (s *State) PointerMoved(x, y float64) bool {
	dx, dy := x-s.lastX, y-s.lastY
	first := !s.havePos
	s.lastX, s.lastY, s.havePos = x, y, true
	if first {
		return false
	}
	return s.Drag(dx, dy)
}

// Drag pans by a pointer movement in pixels. It does nothing while the
// primary button is released.
func (s *State) Drag(dx, dy float64) bool {
	if !s.dragging || (dx == 0 && dy == 0) {
		return false
	}
	s.Window = s.Window.Pan(dx, dy, s.Width, s.Height)
	return true
}

func (s *State) SetMaxIterations(n int) {
	s.MaxIterations = n
}

// Resize changes the surface size, keeping the centre and real range.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.Width && height == s.Height {
		return
	}
	s.Width, s.Height = width, height
	s.Window = s.Window.WithAspect(width, height)
}
