package renderer

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/viewport"
)

// Two triangles covering clip space.
var quadVertices = []float32{
	-1, -1,
	1, -1,
	1, 1,

	1, 1,
	-1, 1,
	-1, -1,
}

const vertexAttribute = "position"

var clearColour = mgl32.Vec4{0, 0, 0, 1}

// Scheduler runs a callback on the host's next display refresh.
type Scheduler interface {
	RequestFrame(func(now time.Time))
}

type Phase int

const (
	Uninitialized Phase = iota
	Running
)

func (p Phase) String() string {
	if p == Running {
		return "running"
	}
	return "uninitialized"
}

// Renderer owns the GPU program and pushes a viewport.State to it every frame.
type Renderer struct {
	// OnFPS, if set, receives the frame rate each time the FPS counter reports.
	OnFPS func(fps float64)

	device    Device
	state     *viewport.State
	fps       *FPSCounter
	scheduler Scheduler

	phase            Phase
	program          uint32
	uniformLocations map[string]int32
	uniforms         programs.Uniforms
	frames           uint64
}

func New(device Device, state *viewport.State, fps *FPSCounter) *Renderer {
	if fps == nil {
		fps = NewFPSCounter(FPSUpdateInterval)
	}
	return &Renderer{
		device: device,
		state:  state,
		fps:    fps,
	}
}

func (r *Renderer) Phase() Phase {
	return r.phase
}

// Frames returns the number of frames drawn so far.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// Start builds the shader program and schedules the first frame. If the
// program fails to build nothing is scheduled and the renderer stays
// uninitialized.
func (r *Renderer) Start(program programs.Program, scheduler Scheduler) error {
	if r.phase == Running {
		return ErrAlreadyRunning
	}
	if !r.state.Window.Valid() {
		return fmt.Errorf("%w: %+v", viewport.ErrInvalidWindow, r.state.Window)
	}

	if err := r.build(program); err != nil {
		return err
	}

	r.device.Viewport(r.state.Width, r.state.Height)
	r.device.ClearColor(clearColour)

	r.scheduler = scheduler
	r.phase = Running
	r.fps.Reset(time.Now())

	slog.Debug("renderer running", "program", program.Name, "width", r.state.Width, "height", r.state.Height)
	scheduler.RequestFrame(r.tick)
	return nil
}

func (r *Renderer) build(program programs.Program) error {
	vertexShader, err := r.compileShader(ShaderVertex, program.VertexShader)
	if err != nil {
		return err
	}
	defer r.device.DeleteShader(vertexShader)

	fragmentShader, err := r.compileShader(ShaderFragment, program.FragmentShader)
	if err != nil {
		return err
	}
	defer r.device.DeleteShader(fragmentShader)

	r.program = r.device.CreateProgram()
	if err := r.linkProgram(vertexShader, fragmentShader); err != nil {
		r.device.DeleteProgram(r.program)
		r.program = 0
		return err
	}

	r.uniformLocations = make(map[string]int32)
	t := reflect.TypeOf(r.uniforms)
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("uniform")
		loc := r.device.UniformLocation(r.program, name)
		if loc < 0 {
			slog.Warn("uniform not active in program", "program", program.Name, "uniform", name)
		}
		r.uniformLocations[name] = loc
	}

	return nil
}

// linkProgram links r.program, uploads the quad and validates the result.
func (r *Renderer) linkProgram(shaders ...uint32) error {
	if ok, log := r.device.LinkProgram(r.program, shaders...); !ok {
		return &BuildError{Stage: StageLink, Log: log}
	}
	r.device.UseProgram(r.program)

	// Core profiles only validate against a bound vertex array, so the quad
	// goes in first.
	if err := r.device.UploadVertices(r.program, vertexAttribute, quadVertices, 2); err != nil {
		return err
	}

	if ok, log := r.device.ValidateProgram(r.program); !ok {
		return &BuildError{Stage: StageValidate, Log: log}
	}
	return nil
}

func (r *Renderer) compileShader(t ShaderType, source string) (uint32, error) {
	shader := r.device.CreateShader(t)
	if ok, log := r.device.CompileShader(shader, source); !ok {
		r.device.DeleteShader(shader)
		return 0, &BuildError{Stage: t.String(), Log: log}
	}
	return shader, nil
}

func (r *Renderer) tick(now time.Time) {
	r.Frame(now)
	r.scheduler.RequestFrame(r.tick)
}

// Frame draws one frame with the current state.
func (r *Renderer) Frame(now time.Time) {
	if r.phase != Running {
		return
	}

	r.device.Clear()
	r.uniforms = uniformsFor(r.state)
	r.loadUniforms()
	r.device.DrawTriangles(int32(len(quadVertices) / 2))
	r.frames++

	if fps, ok := r.fps.Tick(now); ok && r.OnFPS != nil {
		r.OnFPS(fps)
	}
}

// Resize updates the surface size and, once running, the device viewport.
func (r *Renderer) Resize(width, height int) {
	r.state.Resize(width, height)
	if r.phase == Running {
		r.device.Viewport(r.state.Width, r.state.Height)
	}
}

func uniformsFor(s *viewport.State) programs.Uniforms {
	return programs.Uniforms{
		MaxIterationCount: int32(s.MaxIterations),
		ViewportSize:      mgl32.Vec2{float32(s.Width), float32(s.Height)},
		MinReal:           float32(s.Window.MinReal),
		MaxReal:           float32(s.Window.MaxReal),
		MinImg:            float32(s.Window.MinImg),
		MaxImg:            float32(s.Window.MaxImg),
	}
}

func (r *Renderer) loadUniforms() {
	v := reflect.ValueOf(&r.uniforms).Elem()
	for i := 0; i < v.NumField(); i++ {
		loc := r.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]

		switch f := v.Field(i).Interface().(type) {
		case int32:
			r.device.Uniform1i(loc, f)
		case float32:
			r.device.Uniform1f(loc, f)
		case mgl32.Vec2:
			r.device.Uniform2f(loc, f)
		default:
			slog.Warn("unsupported uniform type", "type", v.Field(i).Type())
		}
	}
}
