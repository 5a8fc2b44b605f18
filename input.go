package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gotk3/gotk3/gdk"

	"github.com/stewi1014/glmandel/viewport"
)

// Wheel deltas follow the DOM convention: negative zooms in, positive zooms
// out.

func gtkScrollDelta(direction gdk.ScrollDirection, smoothDeltaY float64) float64 {
	switch direction {
	case gdk.SCROLL_UP:
		return -1
	case gdk.SCROLL_DOWN:
		return 1
	case gdk.SCROLL_SMOOTH:
		return smoothDeltaY
	}
	return 0
}

// glfwScrollDelta flips yoff, which is positive when the wheel moves away from
// the user.
func glfwScrollDelta(yoff float64) float64 {
	return -yoff
}

func gtkButton(button gdk.Button) (viewport.Button, bool) {
	switch button {
	case gdk.BUTTON_PRIMARY:
		return viewport.ButtonPrimary, true
	case gdk.BUTTON_MIDDLE:
		return viewport.ButtonMiddle, true
	case gdk.BUTTON_SECONDARY:
		return viewport.ButtonSecondary, true
	}
	return 0, false
}

func glfwButton(button glfw.MouseButton) (viewport.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return viewport.ButtonPrimary, true
	case glfw.MouseButtonMiddle:
		return viewport.ButtonMiddle, true
	case glfw.MouseButtonRight:
		return viewport.ButtonSecondary, true
	}
	return 0, false
}

// framebufferPos converts a cursor position in window coordinates into
// framebuffer pixels, which differ on scaled displays.
func framebufferPos(x, y float64, width, height, fbWidth, fbHeight int) (float64, float64, bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return x * float64(fbWidth) / float64(width), y * float64(fbHeight) / float64(height), true
}
