package programs

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms mirrors the uniform block of the fractal shaders. The tag names
// the GLSL uniform each field is uploaded to.
type Uniforms struct {
	MaxIterationCount int32      `uniform:"maxIterationCount"`
	ViewportSize      mgl32.Vec2 `uniform:"viewportSize"`
	MinReal           float32    `uniform:"minReal"`
	MaxReal           float32    `uniform:"maxReal"`
	MinImg            float32    `uniform:"minImg"`
	MaxImg            float32    `uniform:"maxImg"`
}
