package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-12

func assertWindow(t *testing.T, want, got Window) {
	t.Helper()
	assert.InDelta(t, want.MinReal, got.MinReal, tolerance, "MinReal")
	assert.InDelta(t, want.MaxReal, got.MaxReal, tolerance, "MaxReal")
	assert.InDelta(t, want.MinImg, got.MinImg, tolerance, "MinImg")
	assert.InDelta(t, want.MaxImg, got.MaxImg, tolerance, "MaxImg")
}

func TestNewDerivesImaginaryRangeFromAspect(t *testing.T) {
	w := New(800, 600, -2, 2)
	assertWindow(t, Window{MinReal: -2, MaxReal: 2, MinImg: -1.5, MaxImg: 1.5}, w)
	require.True(t, w.Valid())

	tall := New(600, 800, -2, 2)
	assert.InDelta(t, -2.0/0.75, tall.MinImg, tolerance)
	assert.InDelta(t, 2.0/0.75, tall.MaxImg, tolerance)
}

func TestZoomKeepsCenter(t *testing.T) {
	sequences := [][]float64{
		{-100},
		{100},
		{-1, -1, -1, 1},
		{3, -7, 100, -0.5, -0.5, 2},
	}

	start := Window{MinReal: -1.7, MaxReal: 0.3, MinImg: -0.2, MaxImg: 1.3}
	for _, seq := range sequences {
		w := start
		for _, delta := range seq {
			before := w.Center()
			w = w.Zoom(delta)
			after := w.Center()
			assert.InDelta(t, before.X(), after.X(), tolerance)
			assert.InDelta(t, before.Y(), after.Y(), tolerance)
		}
	}
}

func TestZoomInThenOutRestoresWindow(t *testing.T) {
	start := New(800, 600, -2, 2)
	for _, steps := range []int{1, 5, 40} {
		w := start
		for i := 0; i < steps; i++ {
			w = w.Zoom(-1)
		}
		for i := 0; i < steps; i++ {
			w = w.Zoom(1)
		}
		assertWindow(t, start, w)
	}
}

func TestWheelUpShrinksRanges(t *testing.T) {
	start := New(800, 600, -2, 2)
	w := start.Zoom(-100)

	assert.InDelta(t, 4/ZoomFactor, w.Size().X(), tolerance)
	assert.InDelta(t, 3/ZoomFactor, w.Size().Y(), tolerance)
	assert.InDelta(t, 0, w.Center().X(), tolerance)
	assert.InDelta(t, 0, w.Center().Y(), tolerance)

	out := start.Zoom(100)
	assert.InDelta(t, 4*ZoomFactor, out.Size().X(), tolerance)
}

func TestZoomZeroDeltaIsNoop(t *testing.T) {
	start := New(800, 600, -2, 2)
	assert.Equal(t, start, start.Zoom(0))
}

func TestPan(t *testing.T) {
	start := New(800, 600, -2, 2)

	right := start.Pan(100, 0, 800, 600)
	assert.InDelta(t, -2.5, right.MinReal, tolerance)
	assert.InDelta(t, 1.5, right.MaxReal, tolerance)
	assert.Equal(t, start.MinImg, right.MinImg)

	down := start.Pan(0, 60, 800, 600)
	assert.InDelta(t, -1.2, down.MinImg, tolerance)
	assert.InDelta(t, 1.8, down.MaxImg, tolerance)
	assert.Equal(t, start.MinReal, down.MinReal)

	assert.InDelta(t, start.Size().X(), right.Size().X(), tolerance)
	assert.InDelta(t, start.Size().Y(), down.Size().Y(), tolerance)
}

func TestWithAspect(t *testing.T) {
	w := Window{MinReal: -1, MaxReal: 3, MinImg: 0, MaxImg: 2}
	got := w.WithAspect(400, 200)
	assertWindow(t, Window{MinReal: -1, MaxReal: 3, MinImg: 0, MaxImg: 2}, got)

	got = w.WithAspect(400, 400)
	assertWindow(t, Window{MinReal: -1, MaxReal: 3, MinImg: -1, MaxImg: 3}, got)
}

func TestAt(t *testing.T) {
	w := Window{MinReal: -2, MaxReal: 2, MinImg: -1, MaxImg: 1}

	topLeft := w.At(0, 0, 4, 2)
	assert.InDelta(t, -1.5, real(topLeft), tolerance)
	assert.InDelta(t, 0.5, imag(topLeft), tolerance)

	bottomRight := w.At(3, 1, 4, 2)
	assert.InDelta(t, 1.5, real(bottomRight), tolerance)
	assert.InDelta(t, -0.5, imag(bottomRight), tolerance)
}

func TestValid(t *testing.T) {
	assert.False(t, Window{}.Valid())
	assert.False(t, Window{MinReal: 1, MaxReal: 0, MinImg: 0, MaxImg: 1}.Valid())
	assert.True(t, Window{MinReal: 0, MaxReal: 1, MinImg: 0, MaxImg: 1}.Valid())
}
