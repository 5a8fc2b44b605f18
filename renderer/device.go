// Package renderer draws a fractal shader over the whole surface once per
// frame and keeps its uniforms in step with a viewport.State.
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ShaderType int

const (
	ShaderVertex ShaderType = iota
	ShaderFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderVertex:
		return "Vertex"
	case ShaderFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Device is the drawing surface the renderer issues commands to. Calls must
// be made from the thread that owns the graphics context.
type Device interface {
	CreateShader(t ShaderType) uint32
	// CompileShader reports the compile status and the driver's info log.
	CompileShader(shader uint32, source string) (ok bool, infoLog string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	DeleteProgram(program uint32)
	LinkProgram(program uint32, shaders ...uint32) (ok bool, infoLog string)
	ValidateProgram(program uint32) (ok bool, infoLog string)
	UseProgram(program uint32)

	// UploadVertices stores vertices in a static buffer and binds them to the
	// named attribute with size components per vertex.
	UploadVertices(program uint32, attribute string, vertices []float32, size int32) error

	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)

	Viewport(width, height int)
	ClearColor(colour mgl32.Vec4)
	Clear()
	DrawTriangles(vertices int32)
}
