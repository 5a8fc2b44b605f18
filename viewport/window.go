// Package viewport holds the visible rectangle of the complex plane and the
// interaction state that moves it around.
package viewport

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ZoomFactor is the range multiplier applied for one wheel step out.
// One step in uses its reciprocal.
const ZoomFactor = 1.05

var ErrInvalidWindow = errors.New("view window has an empty range")

// Window is the rectangle of the complex plane mapped onto the screen.
type Window struct {
	MinReal float64
	MaxReal float64
	MinImg  float64
	MaxImg  float64
}

// New returns a window spanning [minReal, maxReal] on the real axis, with the
// imaginary range derived from the pixel aspect ratio and centred on zero.
func New(width, height int, minReal, maxReal float64) Window {
	aspect := float64(width) / float64(height)
	halfImg := 0.5 * (maxReal - minReal) / aspect
	return Window{
		MinReal: minReal,
		MaxReal: maxReal,
		MinImg:  -halfImg,
		MaxImg:  halfImg,
	}
}

// Valid reports whether both ranges are non-empty.
func (w Window) Valid() bool {
	return w.MinReal < w.MaxReal && w.MinImg < w.MaxImg
}

// Center returns the midpoint of the window as (real, imaginary).
func (w Window) Center() mgl64.Vec2 {
	return mgl64.Vec2{
		0.5 * (w.MinReal + w.MaxReal),
		0.5 * (w.MinImg + w.MaxImg),
	}
}

// Size returns the real and imaginary ranges.
func (w Window) Size() mgl64.Vec2 {
	return mgl64.Vec2{
		w.MaxReal - w.MinReal,
		w.MaxImg - w.MinImg,
	}
}

// Zoom rescales the window for a wheel event. Negative deltaY (wheel up) zooms
// in, positive zooms out and zero leaves the window untouched.
func (w Window) Zoom(deltaY float64) Window {
	switch {
	case deltaY < 0:
		return w.ZoomBy(1 / ZoomFactor)
	case deltaY > 0:
		return w.ZoomBy(ZoomFactor)
	default:
		return w
	}
}

// ZoomBy multiplies both ranges by factor about the current centre.
func (w Window) ZoomBy(factor float64) Window {
	return fromCenter(w.Center(), w.Size().Mul(factor))
}

// Pan translates the window by a pointer movement of (dx, dy) pixels on a
// width x height surface. Dragging right moves the view left; screen y grows
// downwards so the imaginary axis moves the other way.
func (w Window) Pan(dx, dy float64, width, height int) Window {
	size := w.Size()
	realDelta := dx / float64(width) * size.X()
	imgDelta := dy / float64(height) * size.Y()

	w.MinReal -= realDelta
	w.MaxReal -= realDelta
	w.MinImg += imgDelta
	w.MaxImg += imgDelta
	return w
}

// WithAspect keeps the centre and real range and recomputes the imaginary
// range for a width x height surface.
func (w Window) WithAspect(width, height int) Window {
	size := w.Size()
	size[1] = size.X() * float64(height) / float64(width)
	return fromCenter(w.Center(), size)
}

// At maps the centre of pixel (x, y) on a width x height image, with y
// growing downwards, to a point in the plane.
func (w Window) At(x, y, width, height int) complex128 {
	size := w.Size()
	re := w.MinReal + (float64(x)+0.5)/float64(width)*size.X()
	im := w.MaxImg - (float64(y)+0.5)/float64(height)*size.Y()
	return complex(re, im)
}

func fromCenter(center, size mgl64.Vec2) Window {
	half := size.Mul(0.5)
	return Window{
		MinReal: center.X() - half.X(),
		MaxReal: center.X() + half.X(),
		MinImg:  center.Y() - half.Y(),
		MaxImg:  center.Y() + half.Y(),
	}
}
