package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var _ Device = (*GLDevice)(nil)

// GLDevice implements Device on the current OpenGL 4.6 core context.
type GLDevice struct {
	vao uint32
	vbo uint32
}

// NewGLDevice loads the GL function pointers for the current context. With
// debug set, driver debug messages are forwarded to slog.
func NewGLDevice(debug bool) (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}

	slog.Info("OpenGL context ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	if debug {
		gl.DebugMessageCallback(glDebugMessage, nil)
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	return &GLDevice{}, nil
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	level := slog.LevelDebug
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		level = slog.LevelError
	case gl.DEBUG_SEVERITY_MEDIUM:
		level = slog.LevelWarn
	case gl.DEBUG_SEVERITY_LOW:
		level = slog.LevelInfo
	}

	sourceStr := "unknownSource"
	switch source {
	case gl.DEBUG_SOURCE_API:
		sourceStr = "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		sourceStr = "application"
	case gl.DEBUG_SOURCE_OTHER:
		sourceStr = "other"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		sourceStr = "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		sourceStr = "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		sourceStr = "windowSystem"
	}

	typeStr := "unknownType"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "deprecatedBehavior"
	case gl.DEBUG_TYPE_MARKER:
		typeStr = "marker"
	case gl.DEBUG_TYPE_OTHER:
		typeStr = "other"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	}

	slog.Log(context.Background(), level, message, "source", sourceStr, "type", typeStr, "id", id)
}

func (d *GLDevice) CreateShader(t ShaderType) uint32 {
	if t == ShaderVertex {
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
	return gl.CreateShader(gl.FRAGMENT_SHADER)
}

func (d *GLDevice) CompileShader(shader uint32, source string) (bool, string) {
	source += "\x00"
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status != gl.FALSE {
		return true, ""
	}

	var l int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)
	return false, infoLog(l, func(buf *uint8) {
		gl.GetShaderInfoLog(shader, l, nil, buf)
	})
}

func (d *GLDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *GLDevice) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *GLDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *GLDevice) LinkProgram(program uint32, shaders ...uint32) (bool, string) {
	for _, shader := range shaders {
		gl.AttachShader(program, shader)
	}
	gl.LinkProgram(program)
	return d.programStatus(program, gl.LINK_STATUS)
}

func (d *GLDevice) ValidateProgram(program uint32) (bool, string) {
	gl.ValidateProgram(program)
	return d.programStatus(program, gl.VALIDATE_STATUS)
}

func (d *GLDevice) programStatus(program, pname uint32) (bool, string) {
	var status int32
	gl.GetProgramiv(program, pname, &status)
	if status != gl.FALSE {
		return true, ""
	}

	var l int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &l)
	return false, infoLog(l, func(buf *uint8) {
		gl.GetProgramInfoLog(program, l, nil, buf)
	})
}

func infoLog(length int32, read func(buf *uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := make([]uint8, length+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (d *GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *GLDevice) UploadVertices(program uint32, attribute string, vertices []float32, size int32) error {
	attrib := gl.GetAttribLocation(program, gl.Str(attribute+"\x00"))
	if attrib < 0 {
		return fmt.Errorf("vertex attribute %q not found", attribute)
	}

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(uint32(attrib))
	gl.VertexAttribPointerWithOffset(uint32(attrib), size, gl.FLOAT, false, size*4, 0)
	return nil
}

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *GLDevice) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *GLDevice) Uniform2f(location int32, v mgl32.Vec2) {
	gl.Uniform2fv(location, 1, &v[0])
}

func (d *GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *GLDevice) ClearColor(colour mgl32.Vec4) {
	gl.ClearColor(colour[0], colour[1], colour[2], colour[3])
}

func (d *GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *GLDevice) DrawTriangles(vertices int32) {
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, vertices)
}
