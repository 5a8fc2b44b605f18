package programs

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")

var ErrUnknownProgram = errors.New("unknown program")

var (
	NullColour = mgl32.Vec3{0.1, 0.1, 0.1}
)

//go:embed shaders/mandelbrot.vert
var defaultVertexShader string

//go:embed shaders
var shaderFS embed.FS

// Shaders returns the built-in shader sources, named <program>.vert and
// <program>.frag.
func Shaders() fs.FS {
	sub, err := fs.Sub(shaderFS, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

var programs = map[string]Program{}

// NewProgram registers p under its name, replacing any previous entry.
func NewProgram(p Program) {
	programs[p.Name] = p
}

func GetProgram(name string) (Program, error) {
	p, ok := programs[name]
	if !ok {
		return Program{}, fmt.Errorf("%w %q", ErrUnknownProgram, name)
	}
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PixelFunc evaluates the fractal at point c of the complex plane.
type PixelFunc func(uniforms Uniforms, c complex128) mgl32.Vec3

type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	GetPixel       PixelFunc
}

// Load replaces the program's shader sources with <name>.vert and
// <name>.frag read from fsys. The fragment shader is only read once the
// vertex shader has been read successfully.
func (p Program) Load(ctx context.Context, fsys fs.FS) (Program, error) {
	vertex, err := readShader(ctx, fsys, p.Name+".vert")
	if err != nil {
		return p, fmt.Errorf("load vertex shader: %w", err)
	}

	fragment, err := readShader(ctx, fsys, p.Name+".frag")
	if err != nil {
		return p, fmt.Errorf("load fragment shader: %w", err)
	}

	p.VertexShader = vertex
	p.FragmentShader = fragment
	return p, nil
}

func readShader(ctx context.Context, fsys fs.FS, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
