package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/glmandel/config"
	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/viewport"
)

// NewRenderWindow creates the GL surface. The renderer is started once the
// GLArea is realized and redraws on every frame clock tick after that.
func NewRenderWindow(
	app *Application,
	cfg config.Config,
	program programs.Program,
	state *viewport.State,
) (*RenderWindow, error) {
	var err error
	w := &RenderWindow{
		app:     app,
		program: program,
		state:   state,
		debug:   cfg.Debug,
		fps:     renderer.NewFPSCounter(cfg.FPSInterval.Duration),
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app.Application)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationWindowNew: %w", err)
	}

	w.SetDefaultSize(windowSize(cfg.Width, cfg.Height))

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.GLAreaNew: %w", err)
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)

	w.gla.SetEvents(
		int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK) |
			int(gdk.POINTER_MOTION_MASK) |
			int(gdk.SCROLL_MASK) |
			int(gdk.SMOOTH_SCROLL_MASK),
	)
	w.gla.Connect("resize", w.resize)
	w.gla.Connect("scroll-event", w.scroll)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)
	w.gla.Connect("motion-notify-event", w.motion)

	w.Add(w.gla)
	w.ShowAll()

	return w, nil
}

// windowSize keeps the requested size unless it does not fit on the primary
// monitor.
func windowSize(width, height int) (int, int) {
	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return width, height
	}

	monitor, err := display.GetPrimaryMonitor()
	if err != nil {
		return width, height
	}

	geometry := monitor.GetGeometry()
	maxWidth := int(float32(geometry.GetWidth()) * .9)
	maxHeight := int(float32(geometry.GetHeight()) * .9)
	return min(width, maxWidth), min(height, maxHeight)
}

type RenderWindow struct {
	*gtk.ApplicationWindow
	// OnFPS receives frame rate reports on the GTK main thread.
	OnFPS func(float64)

	app      *Application
	gla      *gtk.GLArea
	renderer *renderer.Renderer
	program  programs.Program
	state    *viewport.State
	fps      *renderer.FPSCounter
	debug    bool

	next func(time.Time)
}

// RequestFrame implements renderer.Scheduler on top of the GLArea render
// signal.
func (w *RenderWindow) RequestFrame(fn func(time.Time)) {
	w.next = fn
	w.gla.QueueRender()
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()
	if err := gla.GetError(); err != nil {
		w.fail(fmt.Errorf("create GL context: %w", err))
		return
	}

	device, err := renderer.NewGLDevice(w.debug)
	if err != nil {
		w.fail(err)
		return
	}

	w.renderer = renderer.New(device, w.state, w.fps)
	w.renderer.OnFPS = func(fps float64) {
		if w.OnFPS != nil {
			w.OnFPS(fps)
		}
	}

	if err := w.renderer.Start(w.program, w); err != nil {
		w.fail(err)
	}
}

// fail reports err and quits once the dialog is closed. The GLArea stays
// blank since nothing was scheduled.
func (w *RenderWindow) fail(err error) {
	slog.Error("renderer failed to start", "program", w.program.Name, "err", err)
	glib.IdleAdd(func() {
		NewErrorDialog(w.ApplicationWindow, err)
		w.app.quit(err)
	})
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) bool {
	next := w.next
	w.next = nil
	if next == nil {
		return false
	}

	gla.AttachBuffers()
	next(time.Now())
	return true
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	if w.renderer != nil {
		slog.Debug("renderer stopped", "program", w.program.Name, "frames", w.renderer.Frames())
	}
}

func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	if w.renderer == nil {
		w.state.Resize(width, height)
		return
	}
	w.renderer.Resize(width, height)
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) bool {
	scroll := gdk.EventScrollNewFromEvent(event)

	w.state.Scroll(gtkScrollDelta(scroll.Direction(), scroll.DeltaY()))
	return true
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) bool {
	button := gdk.EventButtonNewFromEvent(event)

	b, ok := gtkButton(button.Button())
	if !ok {
		return false
	}

	switch button.Type() {
	case gdk.EVENT_BUTTON_PRESS:
		w.state.PointerDown(b)
	case gdk.EVENT_BUTTON_RELEASE:
		w.state.PointerUp(b)
	}
	return true
}

// motion scales event coordinates to device pixels to match the size given
// to the resize signal.
func (w *RenderWindow) motion(gla *gtk.GLArea, event *gdk.Event) bool {
	x, y := gdk.EventMotionNewFromEvent(event).MotionVal()
	scale := float64(gla.GetScaleFactor())
	w.state.PointerMoved(x*scale, y*scale)
	return true
}
