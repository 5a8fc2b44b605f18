package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/stewi1014/glmandel/config"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/snapshot"
	"github.com/stewi1014/glmandel/viewport"
)

// glfwMain runs the viewer in a bare GLFW window. The keyboard stands in for
// the GTK control panel: Up and Down change the iteration count, S saves a
// snapshot and Escape quits.
func glfwMain(ctx context.Context, cfg config.Config, program programs.Program, state *viewport.State) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	w, err := NewRenderWindowGLFW(cfg, program, state)
	if err != nil {
		return err
	}
	defer w.Destroy()

	device, err := renderer.NewGLDevice(cfg.Debug)
	if err != nil {
		return err
	}

	w.renderer = renderer.New(device, state, renderer.NewFPSCounter(cfg.FPSInterval.Duration))
	w.renderer.OnFPS = func(fps float64) {
		w.fps = fps
		w.updateTitle()
	}
	if err := w.renderer.Start(program, w); err != nil {
		return err
	}

	err = w.run(ctx)
	slog.Debug("renderer stopped", "program", program.Name, "frames", w.renderer.Frames())
	return err
}

func NewRenderWindowGLFW(cfg config.Config, program programs.Program, state *viewport.State) (*RenderWindowGLFW, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}
	window, err := glfw.CreateWindow(
		cfg.Width,
		cfg.Height,
		"glmandel",
		nil,
		nil,
	)

	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &RenderWindowGLFW{
		Window:  window,
		cfg:     cfg,
		program: program,
		state:   state,
	}

	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	// the framebuffer is larger than the window on scaled displays
	state.Resize(w.GetFramebufferSize())

	w.SetScrollCallback(w.scroll)
	w.SetMouseButtonCallback(w.mouseButton)
	w.SetCursorPosCallback(w.cursorPos)
	w.SetFramebufferSizeCallback(w.framebufferSize)
	w.SetKeyCallback(w.key)

	w.updateTitle()
	return w, nil
}

type RenderWindowGLFW struct {
	*glfw.Window
	cfg      config.Config
	program  programs.Program
	state    *viewport.State
	renderer *renderer.Renderer
	fps      float64

	ctx   context.Context
	next  func(time.Time)
	saves sync.WaitGroup
}

// RequestFrame implements renderer.Scheduler. Frames are paced by the swap
// interval.
func (w *RenderWindowGLFW) RequestFrame(fn func(time.Time)) {
	w.next = fn
}

func (w *RenderWindowGLFW) run(ctx context.Context) error {
	w.ctx = ctx
	defer w.saves.Wait()

	for !w.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if next := w.next; next != nil {
			w.next = nil
			next(time.Now())
			w.SwapBuffers()
		}
		glfw.PollEvents()
	}
	return nil
}

func (w *RenderWindowGLFW) updateTitle() {
	w.SetTitle(fmt.Sprintf("glmandel | %s | %.1f fps | %d iterations",
		w.program.Name, w.fps, w.state.MaxIterations))
}

func (w *RenderWindowGLFW) scroll(_ *glfw.Window, xoff, yoff float64) {
	w.state.Scroll(glfwScrollDelta(yoff))
}

func (w *RenderWindowGLFW) mouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	b, ok := glfwButton(button)
	if !ok {
		return
	}

	switch action {
	case glfw.Press:
		w.state.PointerDown(b)
	case glfw.Release:
		w.state.PointerUp(b)
	}
}

func (w *RenderWindowGLFW) cursorPos(_ *glfw.Window, x, y float64) {
	width, height := w.GetSize()
	fbWidth, fbHeight := w.GetFramebufferSize()
	if fx, fy, ok := framebufferPos(x, y, width, height, fbWidth, fbHeight); ok {
		w.state.PointerMoved(fx, fy)
	}
}

func (w *RenderWindowGLFW) framebufferSize(_ *glfw.Window, width, height int) {
	w.renderer.Resize(width, height)
}

func (w *RenderWindowGLFW) key(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	switch key {
	case glfw.KeyUp:
		w.state.SetMaxIterations(w.cfg.ClampIterations(w.state.MaxIterations + w.cfg.IterationsStep))
		w.updateTitle()
	case glfw.KeyDown:
		w.state.SetMaxIterations(w.cfg.ClampIterations(w.state.MaxIterations - w.cfg.IterationsStep))
		w.updateTitle()
	case glfw.KeyS:
		if action == glfw.Press {
			w.save()
		}
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	}
}

func (w *RenderWindowGLFW) save() {
	opts := snapshotOptions(w.program, w.state)
	name := snapshotName(time.Now())
	slog.Info("saving snapshot", "path", name)

	w.saves.Add(1)
	go func() {
		defer w.saves.Done()
		if err := snapshot.Save(w.ctx, name, opts); err != nil {
			slog.Error("snapshot failed", "path", name, "err", err)
		}
	}()
}
