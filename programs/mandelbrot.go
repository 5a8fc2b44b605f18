package programs

import (
	_ "embed"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

var paletteOffset = mgl32.Vec3{0, 0.1, 0.2}

func init() {
	NewProgram(Program{
		Name:           "mandelbrot",
		VertexShader:   defaultVertexShader,
		FragmentShader: mandelbrotFragment,
		GetPixel: func(uniforms Uniforms, c complex128) mgl32.Vec3 {
			maxIterations := int(uniforms.MaxIterationCount)
			iterations := escapeTime(c, maxIterations)
			if iterations >= maxIterations {
				return NullColour
			}
			return palette(float32(iterations) / float32(maxIterations))
		},
	})
}

// escapeTime returns the iteration at which z = z^2 + c leaves the radius 2
// disc, or maxIterations if it never does.
func escapeTime(c complex128, maxIterations int) int {
	var z complex128
	for i := 0; i < maxIterations; i++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			return i
		}
	}
	return maxIterations
}

func palette(t float32) mgl32.Vec3 {
	var colour mgl32.Vec3
	for i := range colour {
		colour[i] = 0.5 + 0.5*float32(math.Cos(2*math.Pi*float64(t+paletteOffset[i])))
	}
	return colour
}
