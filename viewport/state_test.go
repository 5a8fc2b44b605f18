package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragRequiresPrimaryButton(t *testing.T) {
	s := NewState(800, 600, -2, 2, 200)
	start := s.Window

	for _, move := range [][2]float64{{10, 0}, {-40, 12}, {0, 300}} {
		assert.False(t, s.Drag(move[0], move[1]))
	}
	assert.Equal(t, start, s.Window)

	s.PointerDown(ButtonSecondary)
	assert.False(t, s.dragging)
	assert.False(t, s.Drag(10, 10))
	assert.Equal(t, start, s.Window)

	s.PointerDown(ButtonPrimary)
	require.True(t, s.dragging)
	require.True(t, s.Drag(100, 0))
	assert.InDelta(t, -2.5, s.Window.MinReal, tolerance)
	assert.InDelta(t, 1.5, s.Window.MaxReal, tolerance)

	s.PointerUp(ButtonMiddle)
	assert.True(t, s.dragging)

	s.PointerUp(ButtonPrimary)
	moved := s.Window
	assert.False(t, s.Drag(50, 50))
	assert.Equal(t, moved, s.Window)
}

func TestPointerMovedUsesPreviousSample(t *testing.T) {
	s := NewState(800, 600, -2, 2, 200)
	start := s.Window

	assert.False(t, s.PointerMoved(400, 300))
	s.PointerDown(ButtonPrimary)
	assert.False(t, s.PointerMoved(400, 300))
	assert.True(t, s.PointerMoved(500, 300))

	assert.InDelta(t, start.MinReal-0.5, s.Window.MinReal, tolerance)
	assert.InDelta(t, start.MinImg, s.Window.MinImg, tolerance)

	s.PointerUp(ButtonPrimary)
	assert.False(t, s.PointerMoved(100, 100))

	s.PointerDown(ButtonPrimary)
	before := s.Window
	assert.True(t, s.PointerMoved(100, 160))
	assert.InDelta(t, before.MinImg+0.3, s.Window.MinImg, tolerance)
}

func TestScroll(t *testing.T) {
	s := NewState(800, 600, -2, 2, 200)
	assert.False(t, s.Scroll(0))
	assert.True(t, s.Scroll(-3))
	assert.InDelta(t, 4/ZoomFactor, s.Window.Size().X(), tolerance)
}

func TestResize(t *testing.T) {
	s := NewState(800, 600, -2, 2, 200)
	s.Resize(800, 800)
	assert.Equal(t, 800, s.Height)
	assert.InDelta(t, -2, s.Window.MinImg, tolerance)
	assert.InDelta(t, 2, s.Window.MaxImg, tolerance)

	before := *s
	s.Resize(0, 10)
	assert.Equal(t, before.Window, s.Window)
	assert.Equal(t, 800, s.Width)
}

func TestSetMaxIterations(t *testing.T) {
	s := NewState(10, 10, -2, 2, 200)
	s.SetMaxIterations(512)
	assert.Equal(t, 512, s.MaxIterations)
}
