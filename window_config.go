package main

import (
	"fmt"

	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/glmandel/config"
	"github.com/stewi1014/glmandel/viewport"
)

// NewConfigWindow builds the control panel: the iteration slider, the frame
// rate readout and the snapshot button.
func NewConfigWindow(
	app *Application,
	cfg config.Config,
	state *viewport.State,
) (*ConfigWindow, error) {
	var err error
	w := &ConfigWindow{
		state: state,
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app.Application)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationWindowNew: %w", err)
	}

	w.SetDefaultSize(280, 160)

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	if err != nil {
		return nil, fmt.Errorf("gtk.BoxNew: %w", err)
	}
	box.SetBorderWidth(12)

	w.iterationsLabel, _ = gtk.LabelNew("")
	w.iterationsLabel.SetXAlign(0)
	box.PackStart(w.iterationsLabel, false, false, 0)

	w.iterations, err = gtk.ScaleNewWithRange(
		gtk.ORIENTATION_HORIZONTAL,
		float64(cfg.IterationsMin),
		float64(cfg.IterationsMax),
		float64(cfg.IterationsStep),
	)
	if err != nil {
		return nil, fmt.Errorf("gtk.ScaleNewWithRange: %w", err)
	}
	w.iterations.SetDigits(0)
	w.iterations.SetDrawValue(false)
	w.iterations.SetValue(float64(state.MaxIterations))
	w.iterations.Connect("value-changed", w.iterationsChanged)
	box.PackStart(w.iterations, false, true, 0)
	w.setIterationsLabel(state.MaxIterations)

	w.fpsLabel, _ = gtk.LabelNew("FPS: -")
	w.fpsLabel.SetXAlign(0)
	box.PackStart(w.fpsLabel, false, false, 0)

	saveButton, err := gtk.ButtonNewWithLabel("Save PNG")
	if err != nil {
		return nil, fmt.Errorf("gtk.ButtonNewWithLabel: %w", err)
	}
	saveButton.Connect("clicked", func(button *gtk.Button) {
		if w.OnSave != nil {
			w.OnSave()
		}
	})
	box.PackEnd(saveButton, false, false, 0)

	w.Add(box)
	w.ShowAll()

	return w, nil
}

type ConfigWindow struct {
	*gtk.ApplicationWindow
	OnSave func()

	state           *viewport.State
	iterations      *gtk.Scale
	iterationsLabel *gtk.Label
	fpsLabel        *gtk.Label
}

func (w *ConfigWindow) iterationsChanged(scale *gtk.Scale) {
	n := int(scale.GetValue())
	w.state.SetMaxIterations(n)
	w.setIterationsLabel(n)
}

func (w *ConfigWindow) setIterationsLabel(n int) {
	w.iterationsLabel.SetText(fmt.Sprintf("Max Iterations: %d", n))
}

// SetFPS shows the latest frame rate, rounded to one decimal place.
func (w *ConfigWindow) SetFPS(fps float64) {
	w.fpsLabel.SetText(fmt.Sprintf("FPS: %.1f", fps))
}
