package main

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gotk3/gotk3/gdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stewi1014/glmandel/viewport"
)

func TestScrollDeltaZoomDirection(t *testing.T) {
	tests := []struct {
		name   string
		delta  float64
		zoomIn bool
		zoom   bool
	}{
		{"gtk wheel up", gtkScrollDelta(gdk.SCROLL_UP, 0), true, true},
		{"gtk wheel down", gtkScrollDelta(gdk.SCROLL_DOWN, 0), false, true},
		{"gtk smooth away", gtkScrollDelta(gdk.SCROLL_SMOOTH, -0.3), true, true},
		{"gtk smooth toward", gtkScrollDelta(gdk.SCROLL_SMOOTH, 0.3), false, true},
		{"gtk smooth still", gtkScrollDelta(gdk.SCROLL_SMOOTH, 0), false, false},
		{"gtk horizontal", gtkScrollDelta(gdk.SCROLL_LEFT, 0), false, false},
		{"glfw wheel away", glfwScrollDelta(1), true, true},
		{"glfw wheel toward", glfwScrollDelta(-1), false, true},
		{"glfw still", glfwScrollDelta(0), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := viewport.NewState(800, 600, -2, 2, 100)
			before := state.Window.Size()

			assert.Equal(t, tt.zoom, state.Scroll(tt.delta))
			after := state.Window.Size()

			switch {
			case !tt.zoom:
				assert.Equal(t, before, after)
			case tt.zoomIn:
				assert.Less(t, after.X(), before.X())
			default:
				assert.Greater(t, after.X(), before.X())
			}
		})
	}
}

func TestButtonMapping(t *testing.T) {
	gtkTests := []struct {
		in   gdk.Button
		want viewport.Button
	}{
		{gdk.BUTTON_PRIMARY, viewport.ButtonPrimary},
		{gdk.BUTTON_MIDDLE, viewport.ButtonMiddle},
		{gdk.BUTTON_SECONDARY, viewport.ButtonSecondary},
	}
	for _, tt := range gtkTests {
		got, ok := gtkButton(tt.in)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok := gtkButton(gdk.Button(8))
	assert.False(t, ok)

	glfwTests := []struct {
		in   glfw.MouseButton
		want viewport.Button
	}{
		{glfw.MouseButtonLeft, viewport.ButtonPrimary},
		{glfw.MouseButtonMiddle, viewport.ButtonMiddle},
		{glfw.MouseButtonRight, viewport.ButtonSecondary},
	}
	for _, tt := range glfwTests {
		got, ok := glfwButton(tt.in)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok = glfwButton(glfw.MouseButton4)
	assert.False(t, ok)
}

func TestFramebufferPos(t *testing.T) {
	x, y, ok := framebufferPos(100, 50, 800, 600, 1600, 1200)
	require.True(t, ok)
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 100.0, y)

	_, _, ok = framebufferPos(1, 1, 0, 600, 0, 1200)
	assert.False(t, ok)
}

// Dragging the pointer right and down moves the view left and up, so the
// point under the pointer follows it.
func TestDragDirectionThroughFramebuffer(t *testing.T) {
	state := viewport.NewState(1600, 1200, -2, 2, 100)
	before := state.Window.Center()

	state.PointerDown(viewport.ButtonPrimary)
	for _, p := range [][2]float64{{100, 100}, {150, 120}} {
		x, y, ok := framebufferPos(p[0], p[1], 800, 600, 1600, 1200)
		require.True(t, ok)
		state.PointerMoved(x, y)
	}

	after := state.Window.Center()
	assert.Less(t, after.X(), before.X())
	assert.Greater(t, after.Y(), before.Y())
}
